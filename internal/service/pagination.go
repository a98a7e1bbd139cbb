package service

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"socialfeed/internal/models"
	"socialfeed/internal/repository"
)

// normalizePage validates a page request. Page 0 means the first page;
// oversized pages are clamped to maxPageSize.
func normalizePage(req models.PageRequest, maxPageSize int) (models.PageRequest, error) {
	if req.Page < 0 {
		return req, models.NewValidationError("page must not be negative")
	}
	if req.PageSize <= 0 {
		return req, models.NewValidationError("page_size must be positive")
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if maxPageSize > 0 && req.PageSize > maxPageSize {
		req.PageSize = maxPageSize
	}
	return req, nil
}

// EncodeCursor returns the opaque cursor that resumes after p.
func EncodeCursor(p *models.Post) string {
	raw := fmt.Sprintf("ts:%d:id:%d", p.CreatedAt.UnixNano(), p.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a cursor produced by EncodeCursor. An empty cursor
// decodes to nil (the newest page).
func DecodeCursor(cursor string) (*repository.Cursor, error) {
	if cursor == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, models.NewValidationError("invalid cursor")
	}
	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 || parts[0] != "ts" || parts[2] != "id" {
		return nil, models.NewValidationError("invalid cursor")
	}
	ts, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, models.NewValidationError("invalid cursor")
	}
	id, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil || id == 0 {
		return nil, models.NewValidationError("invalid cursor")
	}
	return &repository.Cursor{CreatedAt: time.Unix(0, ts).UTC(), ID: uint(id)}, nil
}
