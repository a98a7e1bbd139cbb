package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"socialfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const fallbackPageSize = 20

func (s *Server) defaultPageSize() int {
	if s.config != nil && s.config.FeedDefaultPageSize > 0 {
		return s.config.FeedDefaultPageSize
	}
	return fallbackPageSize
}

// queryInt reads an optional integer query parameter. Unlike c.QueryInt it
// rejects malformed values instead of silently using the default.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError("Invalid " + key)
	}
	return v, nil
}

// parsePageRequest extracts page and page_size query parameters. "limit" is
// accepted as an alias for page_size. Range checks belong to the feed service.
func (s *Server) parsePageRequest(c *fiber.Ctx) (models.PageRequest, error) {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return models.PageRequest{}, err
	}
	size, err := queryInt(c, "limit", s.defaultPageSize())
	if err != nil {
		return models.PageRequest{}, err
	}
	size, err = queryInt(c, "page_size", size)
	if err != nil {
		return models.PageRequest{}, err
	}
	return models.PageRequest{Page: page, PageSize: size}, nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// respondError answers with the status mapped from err's AppError code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}
