package models

import "time"

// Relationship is a directed follow edge from FollowerID to FollowedID.
type Relationship struct {
	ID         string
	FollowerID string
	FollowedID string
	CreatedAt  time.Time
}
