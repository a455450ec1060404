package types

import "time"

// Session is an authenticated identity on either channel. The role is
// snapshotted at login time and does not follow later account changes.
type Session struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
