package service

import (
	"context"
	"log/slog"
	"sort"

	"socialfeed/internal/models"
	"socialfeed/internal/observability"
	"socialfeed/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Cold-start popularity floor: a post qualifies with enough likes or
// enough comments.
const (
	ColdStartMinLikes    = 5
	ColdStartMinComments = 2
)

// FeedOptions tune the feed assembler.
type FeedOptions struct {
	MaxPageSize int
	// IncludeSelf adds the viewer to their own graph feed allow-list.
	IncludeSelf bool
	// RankedOverfetch is the candidate window multiplier for ranked feeds.
	RankedOverfetch int
	Weights         Weights
}

// DefaultFeedOptions returns the production defaults.
func DefaultFeedOptions() FeedOptions {
	return FeedOptions{
		MaxPageSize:     100,
		IncludeSelf:     true,
		RankedOverfetch: 3,
		Weights:         DefaultWeights,
	}
}

// FeedService assembles home, timeline, ranked, tag and combined feeds. It
// only reads; every accessor error aborts the build.
type FeedService struct {
	follows      repository.FollowRepository
	posts        repository.PostRepository
	users        repository.UserRepository
	interactions repository.InteractionRepository
	opts         FeedOptions
}

func NewFeedService(
	follows repository.FollowRepository,
	posts repository.PostRepository,
	users repository.UserRepository,
	interactions repository.InteractionRepository,
	opts FeedOptions,
) *FeedService {
	if opts.RankedOverfetch < 1 {
		opts.RankedOverfetch = 1
	}
	if opts.Weights == (Weights{}) {
		opts.Weights = DefaultWeights
	}
	return &FeedService{
		follows:      follows,
		posts:        posts,
		users:        users,
		interactions: interactions,
		opts:         opts,
	}
}

// feedPlan is the per-request outcome of the mode decision. Each mode
// builds its own filter and sort.
type feedPlan struct {
	mode   models.FeedMode
	filter repository.CandidateFilter
	sort   repository.SortSpec
}

func (p feedPlan) coldStart() bool {
	return p.mode == models.FeedModeColdStart
}

// resolvePlan decides between cold start and the graph feed. The decision
// depends only on whether the follow set is empty, never on the page.
func (s *FeedService) resolvePlan(ctx context.Context, viewerID uint) (feedPlan, error) {
	var followed []uint
	if viewerID != 0 {
		ids, err := s.follows.GetFollowedAuthorIDs(ctx, viewerID)
		if err != nil {
			return feedPlan{}, err
		}
		followed = ids
	}

	if len(followed) == 0 {
		return feedPlan{
			mode: models.FeedModeColdStart,
			filter: repository.CandidateFilter{
				AuthorNotEq: viewerID,
				Popularity: &repository.PopularityFloor{
					MinLikes:    ColdStartMinLikes,
					MinComments: ColdStartMinComments,
				},
			},
			sort: repository.PopularitySort(),
		}, nil
	}

	authors := make([]uint, 0, len(followed)+1)
	authors = append(authors, followed...)
	if s.opts.IncludeSelf && !containsID(followed, viewerID) {
		authors = append(authors, viewerID)
	}
	return feedPlan{
		mode:   models.FeedModeGraph,
		filter: repository.CandidateFilter{AuthorIn: authors},
		sort:   repository.ChronologicalSort(),
	}, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// fetchPage runs the count and data queries concurrently and joins them.
func (s *FeedService) fetchPage(ctx context.Context, plan feedPlan, page models.PageRequest) ([]*models.Post, int64, error) {
	var (
		posts []*models.Post
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.posts.CountActive(gctx, plan.filter)
		total = n
		return err
	})
	g.Go(func() error {
		p, err := s.posts.ListActive(gctx, plan.filter, plan.sort, page.PageSize, page.Offset())
		posts = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, total, nil
}

func (s *FeedService) homePage(ctx context.Context, viewerID uint, req models.PageRequest) ([]*models.Post, models.PageMeta, feedPlan, error) {
	page, err := normalizePage(req, s.opts.MaxPageSize)
	if err != nil {
		return nil, models.PageMeta{}, feedPlan{}, err
	}
	plan, err := s.resolvePlan(ctx, viewerID)
	if err != nil {
		return nil, models.PageMeta{}, feedPlan{}, err
	}
	posts, total, err := s.fetchPage(ctx, plan, page)
	if err != nil {
		return nil, models.PageMeta{}, plan, err
	}
	return posts, models.NewPageMeta(total, page), plan, nil
}

// GetHomeFeed returns one offset page of the viewer's home timeline. A
// viewer of 0 is anonymous and always gets the cold-start feed.
func (s *FeedService) GetHomeFeed(ctx context.Context, viewerID uint, req models.PageRequest) (feed *models.HomeFeed, err error) {
	span, ctx := observability.StartFeedSpan(ctx, "GetHomeFeed")
	defer span.End()
	build := observability.StartFeedBuild("home")

	posts, meta, plan, err := s.homePage(ctx, viewerID, req)
	defer func() { s.finish(ctx, span, build, "home", viewerID, plan.mode, len(posts), err) }()
	if err != nil {
		return nil, err
	}
	return &models.HomeFeed{Posts: posts, PageMeta: meta, IsColdStart: plan.coldStart()}, nil
}

// GetTimeline returns one keyset page for infinite scroll. The order is
// always newest first; cold start keeps its popularity floor but not its
// ordering so cursors stay monotonic.
func (s *FeedService) GetTimeline(ctx context.Context, viewerID uint, req models.CursorRequest) (page *models.TimelinePage, err error) {
	span, ctx := observability.StartFeedSpan(ctx, "GetTimeline")
	defer span.End()
	build := observability.StartFeedBuild("timeline")

	var (
		plan  feedPlan
		posts []*models.Post
	)
	defer func() { s.finish(ctx, span, build, "timeline", viewerID, plan.mode, len(posts), err) }()

	if req.Limit <= 0 {
		return nil, models.NewValidationError("limit must be positive")
	}
	limit := req.Limit
	if s.opts.MaxPageSize > 0 && limit > s.opts.MaxPageSize {
		limit = s.opts.MaxPageSize
	}
	after, err := DecodeCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	plan, err = s.resolvePlan(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	filter := plan.filter
	filter.After = after

	// One extra row tells whether an older page exists.
	posts, err = s.posts.ListActive(ctx, filter, repository.ChronologicalSort(), limit+1, 0)
	if err != nil {
		return nil, err
	}

	out := &models.TimelinePage{Posts: posts, IsColdStart: plan.coldStart()}
	if len(posts) > limit {
		out.Posts = posts[:limit]
		out.NextCursor = EncodeCursor(out.Posts[limit-1])
	}
	if out.Posts == nil {
		out.Posts = []*models.Post{}
	}
	posts = out.Posts
	return out, nil
}

// GetRankedFeed scores an over-fetched window of candidates and returns
// the top page by (score desc, created_at desc). It carries no total count.
func (s *FeedService) GetRankedFeed(ctx context.Context, viewerID uint, req models.PageRequest) (ranked []*models.Post, err error) {
	span, ctx := observability.StartFeedSpan(ctx, "GetRankedFeed")
	defer span.End()
	build := observability.StartFeedBuild("ranked")

	var plan feedPlan
	defer func() { s.finish(ctx, span, build, "ranked", viewerID, plan.mode, len(ranked), err) }()

	page, err := normalizePage(req, s.opts.MaxPageSize)
	if err != nil {
		return nil, err
	}
	plan, err = s.resolvePlan(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	// The scorer replaces the popularity floor in ranked mode.
	filter := plan.filter
	filter.Popularity = nil

	// Every page ranks the same most-recent prefix, grown to cover it, so
	// page N continues the ordering of page N-1.
	window := page.Page * page.PageSize * s.opts.RankedOverfetch
	candidates, err := s.posts.ListActive(ctx, filter, repository.ChronologicalSort(), window, 0)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("feed.candidates", len(candidates)))

	return pageOf(s.rank(candidates), page), nil
}

func pageOf(posts []*models.Post, page models.PageRequest) []*models.Post {
	start := (page.Page - 1) * page.PageSize
	if start >= len(posts) {
		return []*models.Post{}
	}
	end := start + page.PageSize
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}

func (s *FeedService) rank(posts []*models.Post) []*models.Post {
	type scored struct {
		post  *models.Post
		score int64
	}
	items := make([]scored, len(posts))
	for i, p := range posts {
		items[i] = scored{post: p, score: s.opts.Weights.Score(p)}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.post.CreatedAt.Equal(b.post.CreatedAt) {
			return a.post.CreatedAt.After(b.post.CreatedAt)
		}
		return a.post.ID < b.post.ID
	})

	out := make([]*models.Post, len(items))
	for i, it := range items {
		out[i] = it.post
	}
	return out
}

// GetTagFeed returns one offset page of posts carrying tag, newest first.
func (s *FeedService) GetTagFeed(ctx context.Context, tag string, req models.PageRequest) (feed *models.HomeFeed, err error) {
	span, ctx := observability.StartFeedSpan(ctx, "GetTagFeed")
	defer span.End()
	build := observability.StartFeedBuild("tag")

	var posts []*models.Post
	defer func() { s.finish(ctx, span, build, "tag", 0, models.FeedModeTag, len(posts), err) }()

	tag = models.NormalizeTag(tag)
	if tag == "" {
		return nil, models.NewValidationError("tag is required")
	}
	page, err := normalizePage(req, s.opts.MaxPageSize)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("feed.tag", tag))

	plan := feedPlan{
		mode:   models.FeedModeTag,
		filter: repository.CandidateFilter{Tag: tag},
		sort:   repository.ChronologicalSort(),
	}
	posts, total, err := s.fetchPage(ctx, plan, page)
	if err != nil {
		return nil, err
	}
	return &models.HomeFeed{Posts: posts, PageMeta: models.NewPageMeta(total, page)}, nil
}

func (s *FeedService) finish(ctx context.Context, span *observability.FeedSpan, build *observability.FeedBuild, feed string, viewerID uint, mode models.FeedMode, items int, err error) {
	build.Done(string(mode), items, err)
	span.Outcome(viewerID, string(mode), items)
	if err != nil {
		span.Fail(err)
		if !models.IsValidation(err) && !models.IsNotFound(err) {
			args := []any{
				slog.String("feed", feed),
				slog.Uint64("viewer_id", uint64(viewerID)),
				slog.String("error", err.Error()),
			}
			slog.ErrorContext(ctx, "feed build failed", append(args, span.LogAttrs()...)...)
		}
	}
}
