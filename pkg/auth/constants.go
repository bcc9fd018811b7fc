package auth

import "time"

const (
	// SecretKeySize is the length of generated signing secrets.
	SecretKeySize = 32
	// DefaultTokenTTL applies when the manager is built with a zero TTL.
	DefaultTokenTTL = 24 * time.Hour
	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "
)
