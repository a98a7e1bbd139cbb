// Package middleware provides authentication, rate limiting, logging, tracing
// and metrics middleware for the HTTP layer.
package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingHeader = errors.New("Authorization header required")
	errHeaderFormat  = errors.New("Invalid authorization header format")
	errInvalidToken  = errors.New("Invalid or expired token")
	errSubject       = errors.New("Invalid token subject")
)

// parseBearer validates an "Authorization: Bearer <jwt>" header and returns
// the user id held in the token's "sub" claim.
func parseBearer(authHeader, secret string) (uint, error) {
	if authHeader == "" {
		return 0, errMissingHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, errHeaderFormat
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return 0, errSubject
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, errSubject
	}
	return uint(userID), nil
}

func setUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), UserIDKey, userID)
	c.SetUserContext(ctx)
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := parseBearer(c.Get("Authorization"), secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		setUser(c, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the viewer when a valid token is present and lets
// anonymous requests through untouched. A malformed token is rejected rather
// than silently downgraded to anonymous.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Next()
		}
		userID, err := parseBearer(header, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		setUser(c, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id, or 0 for anonymous requests.
func UserID(c *fiber.Ctx) uint {
	if uid, ok := c.Locals("userID").(uint); ok {
		return uid
	}
	return 0
}
