// Command seed populates the configured database with demo data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"socialfeed/internal/bootstrap"
	"socialfeed/internal/config"
	"socialfeed/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	postsPerUser := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	followsPerUser := flag.Int("follows", defaults.FollowsPerUser, "Followed users per user")
	likesPerUser := flag.Int("likes", defaults.LikesPerUser, "Likes and favorites per user")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread post timestamps over this many days")
	seedValue := flag.Int64("seed", 0, "Random seed (0 uses the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixture := flag.String("fixture", "", "Apply a YAML fixture instead of random data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, rdb, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipDevSeed: true})
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}

	if *fixture != "" {
		fx, err := seed.LoadFixture(*fixture)
		if err != nil {
			log.Fatalf("Failed to load fixture: %v", err)
		}
		if *shouldClean {
			if err := seed.Clean(ctx, db); err != nil {
				log.Fatalf("Cleanup failed: %v", err)
			}
		}
		res, err := seed.ApplyFixture(ctx, db, fx, time.Now().UTC())
		if err != nil {
			log.Fatalf("Fixture failed: %v", err)
		}
		log.Printf("Applied fixture %s: %d users, %d posts", *fixture, len(res.Users), len(res.Posts))
		return
	}

	opts := defaults
	opts.NumUsers = *numUsers
	opts.PostsPerUser = *postsPerUser
	opts.FollowsPerUser = *followsPerUser
	opts.LikesPerUser = *likesPerUser
	opts.MaxDays = *maxDays
	opts.Seed = *seedValue
	opts.Clean = *shouldClean

	sum, err := seed.NewSeeder(db, opts).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Seeded %d users, %d follows, %d posts, %d reposts, %d likes, %d favorites",
		sum.Users, sum.Follows, sum.Posts, sum.Reposts, sum.Likes, sum.Favorites)
}
