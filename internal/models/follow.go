package models

import "time"

// FollowTargetKind is the kind of entity a follow points at.
type FollowTargetKind string

const (
	FollowTargetUser FollowTargetKind = "user"
	FollowTargetTag  FollowTargetKind = "tag"
)

// FollowStatus is the state of a follow relationship. Unfollowing flips the
// row to inactive; following again reactivates the same row.
type FollowStatus string

const (
	FollowStatusActive   FollowStatus = "active"
	FollowStatusInactive FollowStatus = "inactive"
)

// Follow is a directed relationship from a user to a user or a tag.
// TargetID is set for user targets, TargetTag for tag targets.
type Follow struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	FollowerID uint             `gorm:"not null;uniqueIndex:idx_follows_unique" json:"follower_id"`
	TargetKind FollowTargetKind `gorm:"type:varchar(8);not null;uniqueIndex:idx_follows_unique" json:"target_kind"`
	TargetID   uint             `gorm:"not null;default:0;uniqueIndex:idx_follows_unique;index:idx_follows_target" json:"target_id,omitempty"`
	TargetTag  string           `gorm:"size:64;not null;default:'';uniqueIndex:idx_follows_unique" json:"target_tag,omitempty"`
	Status     FollowStatus     `gorm:"type:varchar(16);not null;default:'active';index" json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// FollowCounts summarizes both sides of a user's graph.
type FollowCounts struct {
	UserID    uint  `json:"user_id"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
