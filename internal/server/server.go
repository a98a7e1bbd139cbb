// Package server contains the HTTP handlers for the feed API.
package server

import (
	"context"
	"fmt"
	"time"

	"socialfeed/internal/bootstrap"
	"socialfeed/internal/config"
	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/repository"
	"socialfeed/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// FeedReader is the read side consumed by the feed handlers.
type FeedReader interface {
	GetHomeFeed(ctx context.Context, viewerID uint, req models.PageRequest) (*models.HomeFeed, error)
	GetTimeline(ctx context.Context, viewerID uint, req models.CursorRequest) (*models.TimelinePage, error)
	GetRankedFeed(ctx context.Context, viewerID uint, req models.PageRequest) ([]*models.Post, error)
	GetCombinedFeed(ctx context.Context, viewerID uint, req models.PageRequest) (*models.CombinedFeed, error)
	GetTagFeed(ctx context.Context, tag string, req models.PageRequest) (*models.HomeFeed, error)
	GetPostDetail(ctx context.Context, viewerID, postID uint) (*models.AnnotatedPost, error)
}

// PostWriter is the post write path.
type PostWriter interface {
	CreatePost(ctx context.Context, in service.CreatePostInput) (*models.Post, error)
	CreateRepost(ctx context.Context, userID, originalID uint) (*models.Post, error)
	DeletePost(ctx context.Context, userID, postID uint) error
}

// InteractionWriter records likes and favorites.
type InteractionWriter interface {
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	Favorite(ctx context.Context, userID, postID uint) error
	Unfavorite(ctx context.Context, userID, postID uint) error
}

// FollowManager manages the social graph.
type FollowManager interface {
	FollowUser(ctx context.Context, followerID, targetID uint) (*models.Follow, error)
	UnfollowUser(ctx context.Context, followerID, targetID uint) error
	FollowTag(ctx context.Context, followerID uint, tag string) (*models.Follow, error)
	UnfollowTag(ctx context.Context, followerID uint, tag string) error
	GetFollowedTags(ctx context.Context, followerID uint) ([]string, error)
	GetFollowCounts(ctx context.Context, userID uint) (*models.FollowCounts, error)
}

// Server holds all dependencies and provides handlers
type Server struct {
	config             *config.Config
	db                 *gorm.DB
	redis              *redis.Client
	promMiddleware     *fiberprometheus.FiberPrometheus
	feedService        FeedReader
	postService        PostWriter
	interactionService InteractionWriter
	followService      FollowManager
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Redis may be nil when unreachable; rate limits fail open.
	db, rdb, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{})
	if err != nil {
		return nil, fmt.Errorf("runtime init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)

	opts := service.DefaultFeedOptions()
	opts.MaxPageSize = cfg.FeedMaxPageSize
	opts.IncludeSelf = cfg.FeedIncludeSelf
	opts.RankedOverfetch = cfg.FeedRankedOverfetch

	return &Server{
		config:             cfg,
		db:                 db,
		redis:              redisClient,
		promMiddleware:     middleware.InitMetrics("socialfeed-api"),
		feedService:        service.NewFeedService(followRepo, postRepo, userRepo, interactionRepo, opts),
		postService:        service.NewPostService(postRepo),
		interactionService: service.NewInteractionService(interactionRepo, postRepo),
		followService:      service.NewFollowService(followRepo, userRepo),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.CorrelationHeader,
		MaxAge:       86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	optional := middleware.OptionalAuth(s.config.JWTSecret)
	protected := middleware.AuthRequired(s.config.JWTSecret)

	feed := api.Group("/feed")
	feed.Get("/home", optional, s.GetHomeFeed)
	feed.Get("/timeline", optional, s.GetTimeline)
	feed.Get("/ranked", optional, middleware.RateLimit(s.redis, 60, time.Minute, "ranked_feed"), s.GetRankedFeed)
	feed.Get("/combined", optional, s.GetCombinedFeed)
	feed.Get("/tags/:tag", s.GetTagFeed)

	posts := api.Group("/posts")
	posts.Post("/", protected, middleware.RateLimit(s.redis, 10, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/repost", protected, middleware.RateLimit(s.redis, 30, time.Minute, "repost"), s.Repost)
	posts.Post("/:id/like", protected, s.LikePost)
	posts.Delete("/:id/like", protected, s.UnlikePost)
	posts.Post("/:id/favorite", protected, s.FavoritePost)
	posts.Delete("/:id/favorite", protected, s.UnfavoritePost)
	posts.Delete("/:id", protected, s.DeletePost)
	posts.Get("/:id", optional, s.GetPost)

	follows := api.Group("/follows", protected)
	follows.Get("/tags", s.GetFollowedTags)
	follows.Post("/tags/:tag", s.FollowTag)
	follows.Delete("/tags/:tag", s.UnfollowTag)
	follows.Post("/users/:id", middleware.RateLimit(s.redis, 30, time.Minute, "follow"), s.FollowUser)
	follows.Delete("/users/:id", s.UnfollowUser)

	api.Get("/users/:id/follow-counts", s.GetFollowCounts)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis only backs rate
// limiting, so its absence degrades rather than fails readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unhealthy"
	} else if sqlDB, err := s.db.DB(); err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis == nil {
		redisStatus = "unavailable"
	} else if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	switch {
	case dbStatus != "healthy":
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	case redisStatus != "healthy":
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// App builds a fully configured Fiber app without listening.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "socialfeed",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Shutdown closes the data stores. The Fiber app must already be stopped.
func (s *Server) Shutdown(_ context.Context) error {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			return sqlDB.Close()
		}
	}
	return nil
}
