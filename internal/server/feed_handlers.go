package server

import (
	"socialfeed/internal/middleware"
	"socialfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetHomeFeed handles GET /api/feed/home
func (s *Server) GetHomeFeed(c *fiber.Ctx) error {
	req, err := s.parsePageRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	feed, err := s.feedService.GetHomeFeed(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetTimeline handles GET /api/feed/timeline?cursor=&limit=
func (s *Server) GetTimeline(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", s.defaultPageSize())
	if err != nil {
		return respondError(c, err)
	}

	page, err := s.feedService.GetTimeline(c.UserContext(), middleware.UserID(c), models.CursorRequest{
		Cursor: c.Query("cursor"),
		Limit:  limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// GetRankedFeed handles GET /api/feed/ranked
func (s *Server) GetRankedFeed(c *fiber.Ctx) error {
	req, err := s.parsePageRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	posts, err := s.feedService.GetRankedFeed(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetCombinedFeed handles GET /api/feed/combined
func (s *Server) GetCombinedFeed(c *fiber.Ctx) error {
	req, err := s.parsePageRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	feed, err := s.feedService.GetCombinedFeed(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetTagFeed handles GET /api/feed/tags/:tag
func (s *Server) GetTagFeed(c *fiber.Ctx) error {
	req, err := s.parsePageRequest(c)
	if err != nil {
		return respondError(c, err)
	}

	feed, err := s.feedService.GetTagFeed(c.UserContext(), c.Params("tag"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}
