package entity

import (
	"encoding/json"
	"time"
)

// Collection identifies a logical durable-write queue.
type Collection string

const (
	CollectionPixels  Collection = "pixels"
	CollectionWallets Collection = "wallets"
	CollectionBans    Collection = "bans"
)

func (c Collection) String() string {
	return string(c)
}

// Collections lists every drain scope in drain order.
var Collections = []Collection{CollectionPixels, CollectionWallets, CollectionBans}

// QueueJob is a serialized write intent awaiting persistence. Jobs are
// appended in arrival order and drained strictly in that order per
// collection, at least once.
type QueueJob struct {
	Collection Collection      `json:"collection"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}
