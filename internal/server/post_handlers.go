package server

import (
	"context"

	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Text   string            `json:"text"`
	Tags   []string          `json:"tags"`
	Status models.PostStatus `json:"status"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID: middleware.UserID(c),
		Text:   req.Text,
		Tags:   req.Tags,
		Status: req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.feedService.GetPostDetail(c.UserContext(), middleware.UserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// Repost handles POST /api/posts/:id/repost
func (s *Server) Repost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	repost, err := s.postService.CreateRepost(c.UserContext(), middleware.UserID(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(repost)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), middleware.UserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.interact(c, s.interactionService.Like, "liked", true)
}

func (s *Server) UnlikePost(c *fiber.Ctx) error {
	return s.interact(c, s.interactionService.Unlike, "liked", false)
}

func (s *Server) FavoritePost(c *fiber.Ctx) error {
	return s.interact(c, s.interactionService.Favorite, "favorited", true)
}

func (s *Server) UnfavoritePost(c *fiber.Ctx) error {
	return s.interact(c, s.interactionService.Unfavorite, "favorited", false)
}

func (s *Server) interact(c *fiber.Ctx, fn func(context.Context, uint, uint) error, flag string, active bool) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := fn(c.UserContext(), middleware.UserID(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"post_id": postID, flag: active})
}
