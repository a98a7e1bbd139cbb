package service

import (
	"context"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// GetCombinedFeed returns the home feed page with each post joined to its
// author, its original (for reposts) and the viewer's like and favorite
// flags. Ordering and pagination match GetHomeFeed.
func (s *FeedService) GetCombinedFeed(ctx context.Context, viewerID uint, req models.PageRequest) (feed *models.CombinedFeed, err error) {
	span, ctx := observability.StartFeedSpan(ctx, "GetCombinedFeed")
	defer span.End()
	build := observability.StartFeedBuild("combined")

	var (
		plan      feedPlan
		annotated []*models.AnnotatedPost
	)
	defer func() { s.finish(ctx, span, build, "combined", viewerID, plan.mode, len(annotated), err) }()

	posts, meta, plan, err := s.homePage(ctx, viewerID, req)
	if err != nil {
		return nil, err
	}
	annotated, err = s.annotate(ctx, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &models.CombinedFeed{Posts: annotated, PageMeta: meta, IsColdStart: plan.coldStart()}, nil
}

// GetPostDetail annotates a single active, published post for viewerID.
func (s *FeedService) GetPostDetail(ctx context.Context, viewerID, postID uint) (*models.AnnotatedPost, error) {
	span, ctx := observability.StartFeedSpan(ctx, "GetPostDetail", attribute.Int64("post.id", int64(postID)))
	defer span.End()
	
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	if !post.IsVisible() {
		return nil, models.NewNotFoundError("Post", postID)
	}
	annotated, err := s.annotate(ctx, viewerID, []*models.Post{post})
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	return annotated[0], nil
}

// annotate joins posts with authors, originals and viewer flags. The flag
// lookups cover exactly the given posts.
func (s *FeedService) annotate(ctx context.Context, viewerID uint, posts []*models.Post) ([]*models.AnnotatedPost, error) {
	out := make([]*models.AnnotatedPost, 0, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(posts))
	var originalIDs []uint
	for _, p := range posts {
		ids = append(ids, p.ID)
		if p.IsRepost() && p.OriginalPostID != nil {
			originalIDs = append(originalIDs, *p.OriginalPostID)
		}
	}

	originals := make(map[uint]*models.Post, len(originalIDs))
	if len(originalIDs) > 0 {
		found, err := s.posts.GetByIDsUnscoped(ctx, uniqueIDs(originalIDs))
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			originals[p.ID] = p
		}
	}

	authorIDs := make([]uint, 0, len(posts)+len(originals))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.UserID)
	}
	for _, p := range originals {
		if p.IsVisible() {
			authorIDs = append(authorIDs, p.UserID)
		}
	}
	users, err := s.users.GetByIDsUnscoped(ctx, uniqueIDs(authorIDs))
	if err != nil {
		return nil, err
	}
	authors := make(map[uint]*models.User, len(users))
	for _, u := range users {
		authors[u.ID] = u
	}

	liked, err := s.flagSet(ctx, viewerID, models.InteractionLike, ids)
	if err != nil {
		return nil, err
	}
	favorited, err := s.flagSet(ctx, viewerID, models.InteractionFavorite, ids)
	if err != nil {
		return nil, err
	}

	for _, p := range posts {
		item := &models.AnnotatedPost{
			Post:      p,
			Author:    snapshotFor(authors, p.UserID),
			Liked:     liked[p.ID],
			Favorited: favorited[p.ID],
		}
		if p.IsRepost() {
			item.Original = originalView(p, originals, authors)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *FeedService) flagSet(ctx context.Context, viewerID uint, kind models.InteractionKind, postIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if viewerID == 0 {
		return set, nil
	}
	ids, err := s.interactions.ActivePostIDs(ctx, viewerID, kind, postIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// originalView resolves a repost target. Deleted, unpublished or missing
// originals become tombstones.
func originalView(repost *models.Post, originals map[uint]*models.Post, authors map[uint]*models.User) *models.OriginalView {
	if repost.OriginalPostID == nil {
		return &models.OriginalView{Tombstoned: true}
	}
	original, ok := originals[*repost.OriginalPostID]
	if !ok || !original.IsVisible() {
		return &models.OriginalView{Tombstoned: true}
	}
	author := snapshotFor(authors, original.UserID)
	return &models.OriginalView{Post: original, Author: &author}
}

func snapshotFor(authors map[uint]*models.User, id uint) models.AuthorSnapshot {
	if u, ok := authors[id]; ok {
		return u.Snapshot()
	}
	return models.AuthorSnapshot{ID: id}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
