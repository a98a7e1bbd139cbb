// Package seed populates a database with demo social graphs for development
// and testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures the random seeder.
type Options struct {
	NumUsers       int
	PostsPerUser   int
	FollowsPerUser int
	LikesPerUser   int
	// RepostChance is the probability that a user reposts one post.
	RepostChance float64
	// DraftChance is the probability that a generated post is left unpublished.
	DraftChance float64
	MaxDays     int
	// Seed makes generation reproducible. Zero uses the clock.
	Seed  int64
	Clean bool
}

// DefaultOptions returns a small but well-connected graph.
func DefaultOptions() Options {
	return Options{
		NumUsers:       25,
		PostsPerUser:   8,
		FollowsPerUser: 5,
		LikesPerUser:   12,
		RepostChance:   0.3,
		DraftChance:    0.05,
		MaxDays:        30,
	}
}

// Summary counts what a run wrote.
type Summary struct {
	Users     int
	Follows   int
	Posts     int
	Reposts   int
	Likes     int
	Favorites int
}

var topicTags = []string{
	"golang", "music", "movies", "gaming", "fitness", "books", "travel",
	"food", "science", "art", "devops", "photography",
}

// Seeder writes generated data through the repositories so counters and
// follow rows obey the same rules as the API.
type Seeder struct {
	db           *gorm.DB
	opts         Options
	faker        *gofakeit.Faker
	now          time.Time
	users        repository.UserRepository
	posts        repository.PostRepository
	follows      repository.FollowRepository
	interactions repository.InteractionRepository
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	return &Seeder{
		db:           db,
		opts:         opts,
		faker:        gofakeit.New(seed),
		now:          time.Now().UTC(),
		users:        repository.NewUserRepository(db),
		posts:        repository.NewPostRepository(db),
		follows:      repository.NewFollowRepository(db),
		interactions: repository.NewInteractionRepository(db),
	}
}

// Run generates users, follows, posts, reposts and interactions.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	slog.InfoContext(ctx, "seeding database",
		slog.Int("users", s.opts.NumUsers),
		slog.Int("posts_per_user", s.opts.PostsPerUser),
	)

	if s.opts.Clean {
		if err := Clean(ctx, s.db); err != nil {
			return nil, err
		}
	}

	sum := &Summary{}

	users, err := s.createUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	sum.Users = len(users)

	if sum.Follows, err = s.createFollows(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to create follows: %w", err)
	}

	posts, err := s.createPosts(ctx, users)
	if err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	sum.Posts = len(posts)

	if sum.Reposts, err = s.createReposts(ctx, users, posts); err != nil {
		return nil, fmt.Errorf("failed to create reposts: %w", err)
	}

	if sum.Likes, sum.Favorites, err = s.createInteractions(ctx, users, posts); err != nil {
		return nil, fmt.Errorf("failed to create interactions: %w", err)
	}

	slog.InfoContext(ctx, "seeding complete",
		slog.Int("users", sum.Users),
		slog.Int("follows", sum.Follows),
		slog.Int("posts", sum.Posts),
		slog.Int("reposts", sum.Reposts),
		slog.Int("likes", sum.Likes),
		slog.Int("favorites", sum.Favorites),
	)
	return sum, nil
}

// Clean removes all feed data. Rows are deleted child-first so it works on
// both postgres and sqlite without TRUNCATE.
func Clean(ctx context.Context, db *gorm.DB) error {
	for _, table := range []string{"interactions", "follows", "post_tags", "posts", "users"} {
		if err := db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) createUsers(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user := &models.User{
			Username:    fmt.Sprintf("%s%d", s.faker.Username(), i),
			DisplayName: s.faker.Name(),
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", s.faker.UUID()),
			Bio:         s.faker.Sentence(10),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createFollows(ctx context.Context, users []*models.User) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	count := 0
	for _, follower := range users {
		picked := map[uint]bool{follower.ID: true}
		want := min(s.opts.FollowsPerUser, len(users)-1)
		for len(picked)-1 < want {
			target := users[s.faker.Number(0, len(users)-1)]
			if picked[target.ID] {
				continue
			}
			picked[target.ID] = true
			if err := s.follows.Upsert(ctx, &models.Follow{
				FollowerID: follower.ID,
				TargetKind: models.FollowTargetUser,
				TargetID:   target.ID,
			}); err != nil {
				return count, err
			}
			count++
		}

		if s.faker.Bool() {
			if err := s.follows.Upsert(ctx, &models.Follow{
				FollowerID: follower.ID,
				TargetKind: models.FollowTargetTag,
				TargetTag:  s.faker.RandomString(topicTags),
			}); err != nil {
				return count, err
			}
		}
	}
	return count, nil
}

func (s *Seeder) createdAt() time.Time {
	minutes := s.faker.Number(1, s.opts.MaxDays*24*60)
	return s.now.Add(-time.Duration(minutes) * time.Minute)
}

func (s *Seeder) createPosts(ctx context.Context, users []*models.User) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, len(users)*s.opts.PostsPerUser)
	for _, author := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			text := s.faker.Sentence(s.faker.Number(4, 20))
			post := &models.Post{
				UserID:        author.ID,
				Text:          &text,
				Tags:          s.pickTags(),
				CommentsCount: int64(s.faker.Number(0, 4)),
				CreatedAt:     s.createdAt(),
			}
			if s.faker.Float64Range(0, 1) < s.opts.DraftChance {
				post.Status = models.PostStatusDraft
			}
			if err := s.posts.Create(ctx, post); err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *Seeder) pickTags() []string {
	n := s.faker.Number(0, 3)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, s.faker.RandomString(topicTags))
	}
	return tags
}

func (s *Seeder) randomVisible(posts []*models.Post, notAuthor uint) *models.Post {
	for attempts := 0; attempts < 10; attempts++ {
		p := posts[s.faker.Number(0, len(posts)-1)]
		if p.IsVisible() && p.UserID != notAuthor {
			return p
		}
	}
	return nil
}

func (s *Seeder) createReposts(ctx context.Context, users []*models.User, posts []*models.Post) (int, error) {
	if len(posts) == 0 {
		return 0, nil
	}
	count := 0
	for _, user := range users {
		if s.faker.Float64Range(0, 1) >= s.opts.RepostChance {
			continue
		}
		original := s.randomVisible(posts, user.ID)
		if original == nil {
			continue
		}
		originalID := original.ID
		repost := &models.Post{
			UserID:         user.ID,
			Kind:           models.PostKindRepost,
			OriginalPostID: &originalID,
			CreatedAt:      laterOf(original.CreatedAt, s.createdAt()),
		}
		if err := s.posts.CreateRepost(ctx, repost); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *Seeder) createInteractions(ctx context.Context, users []*models.User, posts []*models.Post) (likes, favorites int, err error) {
	if len(posts) == 0 {
		return 0, 0, nil
	}
	for _, user := range users {
		for i := 0; i < s.opts.LikesPerUser; i++ {
			target := s.randomVisible(posts, user.ID)
			if target == nil {
				continue
			}
			kind := models.InteractionLike
			if i%3 == 2 {
				kind = models.InteractionFavorite
			}
			changed, err := s.interactions.Set(ctx, user.ID, target.ID, kind, true)
			if err != nil {
				return likes, favorites, err
			}
			if !changed {
				continue
			}
			if kind == models.InteractionLike {
				likes++
			} else {
				favorites++
			}
		}
	}
	return likes, favorites, nil
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
