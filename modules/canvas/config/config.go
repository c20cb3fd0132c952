package config

import (
	"time"

	"github.com/pixelgrid-network/pixelgrid/internal/postgres"
)

type Config struct {
	Database    string          `mapstructure:"database"` // Database for the durable mirror, e.g. `postgres`
	Postgres    postgres.Config `mapstructure:"postgres"`
	APIHandlers []string        `mapstructure:"api_handlers"` // e.g. `http`

	Grid    Grid    `mapstructure:"grid"`
	Oracle  Oracle  `mapstructure:"oracle"`
	Webhook Webhook `mapstructure:"webhook"`
	Admin   Admin   `mapstructure:"admin"`
	Drain   Drain   `mapstructure:"drain"`
}

// Grid bounds the canvas. Coordinates are zero-based, exclusive of Width/Height.
type Grid struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// Oracle configures the token balance oracle client.
type Oracle struct {
	URL          string        `mapstructure:"url"`
	APIKey       string        `mapstructure:"api_key"`
	TokenAddress string        `mapstructure:"token_address"` // governed ERC-20 contract address
	Timeout      time.Duration `mapstructure:"timeout"`
}

// Webhook configures the inbound transfer notification endpoint.
type Webhook struct {
	// Secret is the shared HMAC key used to verify the raw request body.
	Secret string `mapstructure:"secret"`
}

// Admin configures the administrative surface.
type Admin struct {
	// Token is the bearer token required for ban/clear operations.
	Token string `mapstructure:"token"`
}

// Drain configures the durable-write queue processor.
type Drain struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
	LeaseTTL  time.Duration `mapstructure:"lease_ttl"`
}
