package entity

import (
	"fmt"
	"time"
)

// Pixel is the current state of one canvas cell. The canvas holds at most one
// Pixel per coordinate; placements overwrite by admission order.
type Pixel struct {
	X             int       `json:"x"`
	Y             int       `json:"y"`
	Color         string    `json:"color"`
	WalletAddress string    `json:"wallet_address"`
	PlacedAt      time.Time `json:"placed_at"`
	IsVoid        bool      `json:"is_void,omitempty"`
}

// Coord identifies a canvas cell.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d:%d", c.X, c.Y)
}

func (p Pixel) Coord() Coord {
	return Coord{X: p.X, Y: p.Y}
}
