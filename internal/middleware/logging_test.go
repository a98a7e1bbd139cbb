package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextMiddleware_CorrelationID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		rid, _ := ctx.Value(RequestIDKey).(string)
		cid, _ := ctx.Value(CorrelationIDKey).(string)
		return c.JSON(fiber.Map{"rid": rid, "cid": cid})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(CorrelationHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get(CorrelationHeader))
	assert.NoError(t, err, "generated correlation id should be a uuid")
}

func TestCtxHandler_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewTextHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(42))
	logger.InfoContext(ctx, "feed built")

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "user_id=42")
}

func TestStructuredLogger_PassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(StructuredLogger())
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTeapot)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
