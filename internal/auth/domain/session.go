package domain

import "time"

// SessionToken is an issued session credential. The token is a signed JWT and
// is never persisted server-side; ExpiresAt is echoed so callers can schedule
// renewal without parsing the token.
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}
