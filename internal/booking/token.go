package booking

import "time"

// TokenValidityHours is the default action-token lifetime counted from
// the last refresh.
const TokenValidityHours = 48

// TokenUsable reports whether an action token is still within its
// validity window at the given instant.  A nil expiry means the token
// never expires.
func TokenUsable(expiresAt *time.Time, now time.Time) bool {
    return expiresAt == nil || now.Before(*expiresAt)
}
