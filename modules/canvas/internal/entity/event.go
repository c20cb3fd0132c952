package entity

// TopPlacer is one leaderboard row: placements counted over a recent window.
type TopPlacer struct {
	WalletAddress string `json:"wallet_address"`
	Count         int    `json:"count"`
}

// PixelPlacedEvent is broadcast to viewers after an admitted placement. The
// leaderboard snapshot is a bounded, best-effort aggregate.
type PixelPlacedEvent struct {
	Pixel    Pixel       `json:"pixel"`
	TopUsers []TopPlacer `json:"topUsers"`
}

// PixelsClearedEvent is broadcast after an administrative clear. Either the
// rectangle bounds or the explicit pixel list is set, matching the request.
type PixelsClearedEvent struct {
	StartX *int    `json:"startX,omitempty"`
	StartY *int    `json:"startY,omitempty"`
	EndX   *int    `json:"endX,omitempty"`
	EndY   *int    `json:"endY,omitempty"`
	Pixels []Coord `json:"pixels,omitempty"`
}

// TransferNotification is one (from, to) pair of a governed-token transfer.
type TransferNotification struct {
	From string `json:"from"`
	To   string `json:"to"`
}
