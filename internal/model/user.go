package model

import "time"

// Role names stored in users.role.  CUSTOMER is the constrained role:
// customers may only touch their own bookings and are blocked from
// opening a new booking while an unpaid payment session is outstanding.
// MANAGER has administrative privileges over all bookings.
const (
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
)

// User represents an application user record as stored in the `users`
// table.  The booking core only ever reads users - registration and
// profile editing live in the auth handler, and role assignment is an
// administrative concern outside this service.
//
// Fields:
//  ID           - primary key identifier of the user.
//  Email        - unique email address.
//  PasswordHash - bcrypt hashed password.
//  FirstName    - given name.
//  LastName     - family name.
//  Role         - role name (CUSTOMER or MANAGER).
//  IsDeleted    - soft-delete flag.
//  CreatedAt    - timestamp of creation.
//  UpdatedAt    - timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	Role         string    // users.role
	IsDeleted    bool      // users.is_deleted
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the refresh-token store.  Only the
// SHA-256 hash of the token value is kept; the raw token is returned to
// the client once and never persisted.
//
// Fields:
//  UserID    - owner of the token.
//  TokenHash - SHA-256 hex digest of the token value.
//  ExpiresAt - expiration timestamp of the token.
type RefreshToken struct {
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
}
