package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletProfile mirrors a wallet's activity into the durable store. A nil
// TokenBalance means the cached balance is stale and must be refetched from
// the oracle before it can be trusted.
type WalletProfile struct {
	WalletAddress string           `json:"wallet_address"`
	TokenBalance  *decimal.Decimal `json:"token_balance"`
	LastActive    time.Time        `json:"last_active"`
}

// BanRecord marks a wallet as banned. Admission only consults the active ban
// set; records flow through the durable queue purely for persistence.
type BanRecord struct {
	WalletAddress string    `json:"wallet_address"`
	BannedAt      time.Time `json:"banned_at"`
	BannedBy      string    `json:"banned_by"`
	Reason        string    `json:"reason"`
	Active        bool      `json:"active"`
}
