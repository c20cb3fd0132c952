package tiers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is a balance-derived policy bucket controlling the placement cooldown
// and the protection window a wallet's pixels enjoy.
type Tier struct {
	Name       string
	MinTokens  decimal.Decimal
	Cooldown   time.Duration
	Protection time.Duration

	// Level orders tiers for protection comparisons; higher is better.
	Level int
}

// tiers is scanned highest-to-lowest; the first tier whose MinTokens <=
// balance matches (inclusive lower bound). The last tier has MinTokens = 0 so
// every balance resolves.
var tiers = []Tier{
	{Name: "Diamond", MinTokens: decimal.New(1_000_000_000, 0), Cooldown: 5 * time.Second, Protection: 24 * time.Hour, Level: 4},
	{Name: "Gold", MinTokens: decimal.New(100_000_000, 0), Cooldown: 10 * time.Second, Protection: 12 * time.Hour, Level: 3},
	{Name: "Silver", MinTokens: decimal.New(10_000_000, 0), Cooldown: 15 * time.Second, Protection: 4 * time.Hour, Level: 2},
	{Name: "Bronze", MinTokens: decimal.New(1_000_000, 0), Cooldown: 20 * time.Second, Protection: time.Hour, Level: 1},
	{Name: "Member", MinTokens: decimal.Zero, Cooldown: 30 * time.Second, Protection: 0, Level: 0},
}

// Resolve maps a token balance to its policy tier. It is deterministic and
// total: a negative balance resolves to the lowest tier.
func Resolve(balance decimal.Decimal) Tier {
	for _, tier := range tiers {
		if balance.GreaterThanOrEqual(tier.MinTokens) {
			return tier
		}
	}
	return Lowest()
}

// Lowest returns the zero-minimum tier every wallet can reach.
func Lowest() Tier {
	return tiers[len(tiers)-1]
}

// All returns the tier table ordered by MinTokens descending.
func All() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}
