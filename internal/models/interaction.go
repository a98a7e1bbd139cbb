package models

import "time"

// InteractionKind is the kind of viewer interaction with a post.
type InteractionKind string

const (
	InteractionLike     InteractionKind = "like"
	InteractionFavorite InteractionKind = "favorite"
)

// InteractionStatus mirrors FollowStatus: undo flips a row inactive.
type InteractionStatus string

const (
	InteractionActive   InteractionStatus = "active"
	InteractionInactive InteractionStatus = "inactive"
)

// Interaction records that a user liked or favorited a post.
type Interaction struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;uniqueIndex:idx_interactions_unique" json:"user_id"`
	PostID    uint              `gorm:"not null;uniqueIndex:idx_interactions_unique;index" json:"post_id"`
	Kind      InteractionKind   `gorm:"type:varchar(16);not null;uniqueIndex:idx_interactions_unique" json:"kind"`
	Status    InteractionStatus `gorm:"type:varchar(16);not null;default:'active'" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Interaction) TableName() string {
	return "interactions"
}
