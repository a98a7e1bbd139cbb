package repository

import (
	"context"
	"errors"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cursor is an exclusive keyset position in chronological order: results
// start strictly after (CreatedAt, ID).
type Cursor struct {
	CreatedAt time.Time
	ID        uint
}

// PopularityFloor is a disjunctive minimum-engagement filter:
// likes >= MinLikes OR comments >= MinComments.
type PopularityFloor struct {
	MinLikes    int64
	MinComments int64
}

// CandidateFilter narrows the set of active, published posts.
type CandidateFilter struct {
	// AuthorIn restricts results to these authors when non-nil. An empty
	// non-nil slice matches nothing.
	AuthorIn    []uint
	AuthorNotEq uint
	Tag         string
	Popularity  *PopularityFloor
	After       *Cursor
}

// SortColumn is a post column results may be ordered by.
type SortColumn string

const (
	SortCreatedAt SortColumn = "created_at"
	SortLikes     SortColumn = "likes_count"
	SortID        SortColumn = "id"
)

// SortKey is one ORDER BY term.
type SortKey struct {
	Column SortColumn
	Desc   bool
}

// SortSpec is a complete ordering, most significant key first.
type SortSpec []SortKey

// ChronologicalSort orders newest first. Ties on created_at fall back to
// insertion order.
func ChronologicalSort() SortSpec {
	return SortSpec{
		{Column: SortCreatedAt, Desc: true},
		{Column: SortID},
	}
}

// PopularitySort orders by likes, then newest first, then insertion order.
func PopularitySort() SortSpec {
	return SortSpec{
		{Column: SortLikes, Desc: true},
		{Column: SortCreatedAt, Desc: true},
		{Column: SortID},
	}
}

func (s SortSpec) apply(db *gorm.DB) *gorm.DB {
	for _, key := range s {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "posts", Name: string(key.Column)},
			Desc:   key.Desc,
		})
	}
	return db
}

// CounterColumn is an engagement counter on posts.
type CounterColumn string

const (
	CounterLikes     CounterColumn = "likes_count"
	CounterComments  CounterColumn = "comments_count"
	CounterReposts   CounterColumn = "reposts_count"
	CounterFavorites CounterColumn = "favorites_count"
)

// PostRepository is the content accessor. Every list and count applies the
// soft-delete and published-status filters.
type PostRepository interface {
	ListActive(ctx context.Context, filter CandidateFilter, sort SortSpec, limit, offset int) ([]*models.Post, error)
	CountActive(ctx context.Context, filter CandidateFilter) (int64, error)
	// GetByID returns a post that is not soft-deleted, in any publish status.
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// GetByIDsUnscoped returns posts including soft-deleted ones. Missing
	// ids are simply absent from the result.
	GetByIDsUnscoped(ctx context.Context, ids []uint) ([]*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	// CreateRepost stores repost and bumps the original's repost counter
	// in one transaction.
	CreateRepost(ctx context.Context, repost *models.Post) error
	SoftDelete(ctx context.Context, id uint) error
	// DeleteRepost soft-deletes a repost and releases the original's
	// repost counter in one transaction.
	DeleteRepost(ctx context.Context, id, originalID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) active(ctx context.Context, filter CandidateFilter) *gorm.DB {
	db := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("posts.status = ?", models.PostStatusPublished)

	if filter.AuthorIn != nil {
		db = db.Where("posts.user_id IN ?", filter.AuthorIn)
	}
	if filter.AuthorNotEq != 0 {
		db = db.Where("posts.user_id <> ?", filter.AuthorNotEq)
	}
	if filter.Tag != "" {
		db = db.Where("EXISTS (SELECT 1 FROM post_tags WHERE post_tags.post_id = posts.id AND post_tags.name = ?)",
			models.NormalizeTag(filter.Tag))
	}
	if p := filter.Popularity; p != nil {
		db = db.Where("(posts.likes_count >= ? OR posts.comments_count >= ?)", p.MinLikes, p.MinComments)
	}
	if c := filter.After; c != nil {
		db = db.Where("(posts.created_at < ? OR (posts.created_at = ? AND posts.id > ?))", c.CreatedAt, c.CreatedAt, c.ID)
	}
	return db
}

func (r *postRepository) ListActive(ctx context.Context, filter CandidateFilter, sort SortSpec, limit, offset int) ([]*models.Post, error) {
	defer observability.TrackQuery("list_active", "posts")()
	ctx, span := observability.TraceRepositoryMethod(ctx, "ListActive", "posts")
	defer span.End()

	if len(sort) == 0 {
		sort = ChronologicalSort()
	}
	var posts []*models.Post
	err := sort.apply(r.active(ctx, filter)).
		Preload("TagRows").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		span.RecordError(err)
		return nil, accessorError("list posts", err)
	}
	return posts, nil
}

func (r *postRepository) CountActive(ctx context.Context, filter CandidateFilter) (int64, error) {
	defer observability.TrackQuery("count_active", "posts")()
	ctx, span := observability.TraceRepositoryMethod(ctx, "CountActive", "posts")
	defer span.End()

	var count int64
	if err := r.active(ctx, filter).Count(&count).Error; err != nil {
		span.RecordError(err)
		return 0, accessorError("count posts", err)
	}
	return count, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("get_by_id", "posts")()

	var post models.Post
	if err := r.db.WithContext(ctx).Preload("TagRows").First(&post, id).Error; err != nil {
		return nil, storeError("get post", "Post", id, err)
	}
	return &post, nil
}

func (r *postRepository) GetByIDsUnscoped(ctx context.Context, ids []uint) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	defer observability.TrackQuery("get_by_ids_unscoped", "posts")()

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Unscoped().
		Preload("TagRows").
		Where("id IN ?", ids).
		Find(&posts).Error
	if err != nil {
		return nil, accessorError("get posts by ids", err)
	}
	return posts, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("create", "posts")()
	return accessorError("create post", r.db.WithContext(ctx).Create(post).Error)
}

func (r *postRepository) CreateRepost(ctx context.Context, repost *models.Post) error {
	defer observability.TrackQuery("create_repost", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(repost).Error; err != nil {
			return err
		}
		return adjustCounter(tx, *repost.OriginalPostID, CounterReposts, 1)
	})
	return accessorError("create repost", err)
}

func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("soft_delete", "posts")()

	result := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if result.Error != nil {
		return accessorError("delete post", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) DeleteRepost(ctx context.Context, id, originalID uint) error {
	defer observability.TrackQuery("delete_repost", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Post{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return adjustCounter(tx, originalID, CounterReposts, -1)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", id)
	}
	return accessorError("delete repost", err)
}

// adjustCounter adds delta to a counter, flooring the result at zero.
// Soft-deleted posts are included so their counters can still drain.
func adjustCounter(db *gorm.DB, postID uint, column CounterColumn, delta int64) error {
	col := string(column)
	return db.Unscoped().Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(col, gorm.Expr("CASE WHEN "+col+" + ? < 0 THEN 0 ELSE "+col+" + ? END", delta, delta)).
		Error
}
