package types

import "time"

// Roles assignable to accounts. Admins manage accounts and everything below;
// resellers manage the number list; plain users are read-only participants.
const (
	RoleAdmin    = "admin"
	RoleReseller = "reseller"
	RoleUser     = "user"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleReseller, RoleUser:
		return true
	}
	return false
}

// User represents an account in the credential store.
type User struct {
	// Username is the unique login name and the store key.
	Username string `json:"username"`

	// Role indicates the user's authorization level
	// within the system ("admin", "reseller" or "user").
	Role string `json:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// FailedLogin is an append-only audit record of a rejected
// authentication attempt. The server only ever writes these;
// they are read back through the maintenance CLI.
type FailedLogin struct {
	// Username as presented by the caller, known or not.
	Username string `json:"username"`

	// Source identifies where the attempt came from: a remote IP
	// for the web channel, a chat id for the bot channel.
	Source string `json:"source"`

	// Time is when the attempt was rejected.
	Time time.Time `json:"time"`
}
