package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PostKind distinguishes authored posts from reposts.
type PostKind string

const (
	PostKindOriginal PostKind = "original"
	PostKindRepost   PostKind = "repost"
)

// PostStatus is the publish state of a post. Only published posts are ever
// shown in feeds.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// Post represents a post or repost. Soft deletion is carried by DeletedAt.
type Post struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	User           *User      `gorm:"foreignKey:UserID" json:"-"`
	Kind           PostKind   `gorm:"type:varchar(16);not null;default:'original'" json:"kind"`
	OriginalPostID *uint      `gorm:"index" json:"original_post_id,omitempty"`
	Text           *string    `gorm:"type:text" json:"text,omitempty"`
	Tags           []string   `gorm:"-" json:"tags"`
	TagRows        []PostTag  `gorm:"foreignKey:PostID" json:"-"`
	Status         PostStatus `gorm:"type:varchar(16);not null;default:'published';index" json:"status"`
	// Counters are maintained by the write path; a repost's counters are its own.
	LikesCount     int64          `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount  int64          `gorm:"not null;default:0" json:"comments_count"`
	RepostsCount   int64          `gorm:"not null;default:0" json:"reposts_count"`
	FavoritesCount int64          `gorm:"not null;default:0" json:"favorites_count"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostTag stores one normalized tag of a post.
type PostTag struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	PostID uint   `gorm:"not null;uniqueIndex:idx_post_tags_post_name" json:"-"`
	Name   string `gorm:"size:64;not null;uniqueIndex:idx_post_tags_post_name;index" json:"name"`
}

// TableName specifies the table name for GORM
func (PostTag) TableName() string {
	return "post_tags"
}

// BeforeCreate turns the Tags list into tag rows.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if len(p.TagRows) == 0 && len(p.Tags) > 0 {
		p.Tags = NormalizeTags(p.Tags)
		p.TagRows = make([]PostTag, 0, len(p.Tags))
		for _, name := range p.Tags {
			p.TagRows = append(p.TagRows, PostTag{Name: name})
		}
	}
	if p.Kind == "" {
		p.Kind = PostKindOriginal
	}
	if p.Status == "" {
		p.Status = PostStatusPublished
	}
	if !p.CreatedAt.IsZero() {
		p.CreatedAt = p.CreatedAt.UTC()
	}
	return nil
}

// AfterFind exposes preloaded tag rows as plain tag names.
func (p *Post) AfterFind(_ *gorm.DB) error {
	if len(p.TagRows) > 0 {
		p.Tags = make([]string, 0, len(p.TagRows))
		for _, row := range p.TagRows {
			p.Tags = append(p.Tags, row.Name)
		}
	}
	return nil
}

// IsRepost reports whether p points at an original post.
func (p *Post) IsRepost() bool {
	return p.Kind == PostKindRepost
}

// IsVisible reports whether p is active and published.
func (p *Post) IsVisible() bool {
	return p != nil && !p.DeletedAt.Valid && p.Status == PostStatusPublished
}

// NormalizeTag lowercases a tag and strips surrounding space and a leading '#'.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// NormalizeTags normalizes every tag, dropping empties and duplicates while
// keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
