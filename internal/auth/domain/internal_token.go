package domain

import (
	"time"

	"github.com/google/uuid"
)

// InternalToken is an opaque rotating credential shared by trusted
// infrastructure components. Exactly one token is active at a time; rotation
// deactivates all previous tokens and inserts a fresh one in the same
// transaction. Deactivated rows are retained for forensics.
type InternalToken struct {
	ID uuid.UUID
	// Name is a human label for the generation, stamped at rotation time.
	Name      string
	Token     string
	IsActive  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Valid reports whether the token can authenticate requests at the given time.
// A token must be both active and unexpired; the expiry margin added at
// creation only absorbs clock skew, it does not keep rotated-out tokens alive.
func (t *InternalToken) Valid(now time.Time) bool {
	return t.IsActive && now.Before(t.ExpiresAt)
}
