package seed

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture is a hand-written scenario: named users, follows, posts and
// interactions. Posts reference users by name and reposts reference their
// original by key.
type Fixture struct {
	Users        []FixtureUser        `yaml:"users"`
	Follows      []FixtureFollow      `yaml:"follows"`
	Posts        []FixturePost        `yaml:"posts"`
	Interactions []FixtureInteraction `yaml:"interactions"`
}

type FixtureUser struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
}

// FixtureFollow sets exactly one of User or Tag.
type FixtureFollow struct {
	Follower string `yaml:"follower"`
	User     string `yaml:"user"`
	Tag      string `yaml:"tag"`
}

type FixturePost struct {
	Key      string   `yaml:"key"`
	Author   string   `yaml:"author"`
	Text     string   `yaml:"text"`
	Tags     []string `yaml:"tags"`
	RepostOf string   `yaml:"repost_of"`
	// Age is a Go duration before the fixture's reference time, e.g. "90m".
	Age      string            `yaml:"age"`
	Likes    int64             `yaml:"likes"`
	Comments int64             `yaml:"comments"`
	Status   models.PostStatus `yaml:"status"`
	Deleted  bool              `yaml:"deleted"`
}

type FixtureInteraction struct {
	User string                 `yaml:"user"`
	Post string                 `yaml:"post"`
	Kind models.InteractionKind `yaml:"kind"`
}

// FixtureResult maps fixture names to the stored rows.
type FixtureResult struct {
	Users map[string]*models.User
	Posts map[string]*models.Post
}

// LoadFixture reads a YAML fixture file. Unknown keys are rejected.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a YAML fixture.
func ParseFixture(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fx Fixture
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &fx, nil
}

// ApplyFixture writes fx relative to now. Posts are created in file order, so
// a repost must come after its original.
func ApplyFixture(ctx context.Context, db *gorm.DB, fx *Fixture, now time.Time) (*FixtureResult, error) {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	follows := repository.NewFollowRepository(db)
	interactions := repository.NewInteractionRepository(db)

	res := &FixtureResult{
		Users: make(map[string]*models.User, len(fx.Users)),
		Posts: make(map[string]*models.Post, len(fx.Posts)),
	}

	for _, fu := range fx.Users {
		u := &models.User{Username: fu.Name, DisplayName: fu.DisplayName}
		if err := users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("user %q: %w", fu.Name, err)
		}
		res.Users[fu.Name] = u
	}

	lookupUser := func(name string) (*models.User, error) {
		u, ok := res.Users[name]
		if !ok {
			return nil, fmt.Errorf("unknown user %q", name)
		}
		return u, nil
	}

	for _, ff := range fx.Follows {
		follower, err := lookupUser(ff.Follower)
		if err != nil {
			return nil, err
		}
		follow := &models.Follow{FollowerID: follower.ID}
		switch {
		case ff.User != "" && ff.Tag == "":
			target, err := lookupUser(ff.User)
			if err != nil {
				return nil, err
			}
			follow.TargetKind = models.FollowTargetUser
			follow.TargetID = target.ID
		case ff.Tag != "" && ff.User == "":
			follow.TargetKind = models.FollowTargetTag
			follow.TargetTag = models.NormalizeTag(ff.Tag)
		default:
			return nil, fmt.Errorf("follow by %q must name exactly one of user or tag", ff.Follower)
		}
		if err := follows.Upsert(ctx, follow); err != nil {
			return nil, err
		}
	}

	for _, fp := range fx.Posts {
		post, err := buildPost(fp, res, now)
		if err != nil {
			return nil, err
		}
		if post.IsRepost() {
			err = posts.CreateRepost(ctx, post)
		} else {
			err = posts.Create(ctx, post)
		}
		if err != nil {
			return nil, fmt.Errorf("post %q: %w", fp.Key, err)
		}
		if fp.Deleted {
			del := func() error { return posts.SoftDelete(ctx, post.ID) }
			if post.IsRepost() {
				del = func() error { return posts.DeleteRepost(ctx, post.ID, *post.OriginalPostID) }
			}
			if err := del(); err != nil {
				return nil, fmt.Errorf("post %q: %w", fp.Key, err)
			}
		}
		if fp.Key != "" {
			res.Posts[fp.Key] = post
		}
	}

	for _, fi := range fx.Interactions {
		user, err := lookupUser(fi.User)
		if err != nil {
			return nil, err
		}
		post, ok := res.Posts[fi.Post]
		if !ok {
			return nil, fmt.Errorf("unknown post %q", fi.Post)
		}
		if fi.Kind != models.InteractionLike && fi.Kind != models.InteractionFavorite {
			return nil, fmt.Errorf("unknown interaction kind %q", fi.Kind)
		}
		if _, err := interactions.Set(ctx, user.ID, post.ID, fi.Kind, true); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func buildPost(fp FixturePost, res *FixtureResult, now time.Time) (*models.Post, error) {
	author, ok := res.Users[fp.Author]
	if !ok {
		return nil, fmt.Errorf("post %q: unknown author %q", fp.Key, fp.Author)
	}

	createdAt := now
	if fp.Age != "" {
		age, err := time.ParseDuration(fp.Age)
		if err != nil {
			return nil, fmt.Errorf("post %q: invalid age: %w", fp.Key, err)
		}
		createdAt = now.Add(-age)
	}

	post := &models.Post{
		UserID:        author.ID,
		Tags:          fp.Tags,
		Status:        fp.Status,
		LikesCount:    fp.Likes,
		CommentsCount: fp.Comments,
		CreatedAt:     createdAt.UTC(),
	}

	if fp.RepostOf != "" {
		original, ok := res.Posts[fp.RepostOf]
		if !ok {
			return nil, fmt.Errorf("post %q: unknown original %q", fp.Key, fp.RepostOf)
		}
		originalID := original.ID
		if original.IsRepost() && original.OriginalPostID != nil {
			originalID = *original.OriginalPostID
		}
		post.Kind = models.PostKindRepost
		post.OriginalPostID = &originalID
		return post, nil
	}

	text := fp.Text
	post.Text = &text
	return post, nil
}
