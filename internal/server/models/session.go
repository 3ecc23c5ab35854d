package models

import "time"

// Session is a stored refresh token. A refresh token is usable only while
// its Session exists.
type Session struct {
	ID        string
	AccountID string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
