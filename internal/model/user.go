package model

import "time"

// Role enumerates the closed set of account roles recognised by the
// marketplace.  Every gated operation switches over these constants so
// that introducing a new role forces a review of each branch instead of
// silently falling through a string comparison.
type Role string

const (
    RoleCustomer      Role = "CUSTOMER"       // books appointments and reserves sale items
    RoleConsultant    Role = "CONSULTANT"     // accepts/declines bookings, handles pickups
    RoleLocationOwner Role = "LOCATION_OWNER" // owns locations and garage sale events
)

// ParseRole normalises a raw role string into a Role.  The boolean is
// false when the value is not one of the known roles.
func ParseRole(s string) (Role, bool) {
    switch Role(s) {
    case RoleCustomer:
        return RoleCustomer, true
    case RoleConsultant:
        return RoleConsultant, true
    case RoleLocationOwner:
        return RoleLocationOwner, true
    }
    return "", false
}

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column.  Handlers define their own
// response types with JSON tags; this struct is used by the repository
// layer only.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – account role (CUSTOMER, CONSULTANT or LOCATION_OWNER).
//  Phone        – optional contact phone.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         Role      // users.role
    Phone        string    // users.phone
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
