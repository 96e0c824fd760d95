// ABOUTME: ULID generation helper using crypto/rand for id allocation.
// ABOUTME: Centralizes id creation so campaigns, events, memories, and rolls share one entropy source.
package core

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// NewID generates a fresh ULID string using crypto/rand entropy.
func NewID() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
