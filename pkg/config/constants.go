package config

import "time"

const (
	// Server ports.
	DefaultHTTPPort = 8080
	DefaultGRPCPort = 9090

	DefaultShutdownTimeout = 15 * time.Second

	// Database defaults.
	DefaultPostgresPort    = 5432
	DefaultMaxConnections  = 25
	DefaultMinConnections  = 5
	DefaultMaxConnIdleTime = 30 * time.Minute
	DefaultSlowQuery       = 200 * time.Millisecond

	// Auth defaults.
	DefaultTokenDuration = 24 * time.Hour
	DefaultSessionMaxAge = 30 * 24 * time.Hour

	// Uploads.
	DefaultMaxUploadBytes = 10 << 20

	// Journal view sizes.
	DefaultFeaturedLimit = 3
	DefaultLatestLimit   = 6
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Event drivers.
const (
	EventsNone  = "none"
	EventsLocal = "local"
	EventsNATS  = "nats"
	EventsKafka = "kafka"
)

// Storage types.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)
