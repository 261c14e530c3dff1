package app

import "github.com/google/uuid"

// newSessionID returns a random UUIDv4 string.
func newSessionID() string { return uuid.NewString() }
