package server

import (
	"socialfeed/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/follows/users/:id
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	follow, err := s.followService.FollowUser(c.UserContext(), middleware.UserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// UnfollowUser handles DELETE /api/follows/users/:id
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.followService.UnfollowUser(c.UserContext(), middleware.UserID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// FollowTag handles POST /api/follows/tags/:tag
func (s *Server) FollowTag(c *fiber.Ctx) error {
	follow, err := s.followService.FollowTag(c.UserContext(), middleware.UserID(c), c.Params("tag"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(follow)
}

// UnfollowTag handles DELETE /api/follows/tags/:tag
func (s *Server) UnfollowTag(c *fiber.Ctx) error {
	if err := s.followService.UnfollowTag(c.UserContext(), middleware.UserID(c), c.Params("tag")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetFollowedTags handles GET /api/follows/tags
func (s *Server) GetFollowedTags(c *fiber.Ctx) error {
	tags, err := s.followService.GetFollowedTags(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// GetFollowCounts handles GET /api/users/:id/follow-counts
func (s *Server) GetFollowCounts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.followService.GetFollowCounts(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}
