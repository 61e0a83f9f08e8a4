package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ilumina/ilumina/internal/logging"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})
	return mr, cache
}

func setupIdempotencyApp(t *testing.T) (*fiber.App, *int) {
	t.Helper()
	_, cache := newTestRedis(t)

	calls := 0
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/tickets", func(c *fiber.Ctx) error {
		calls++
		if c.Query("fail") != "" {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error"})
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"call": calls})
	})
	return app, &calls
}

func postTicket(t *testing.T, app *fiber.App, path, key string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyWithoutHeaderPassesThrough(t *testing.T) {
	app, calls := setupIdempotencyApp(t)

	postTicket(t, app, "/tickets", "")
	postTicket(t, app, "/tickets", "")
	if *calls != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", *calls)
	}
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	app, calls := setupIdempotencyApp(t)

	status, first := postTicket(t, app, "/tickets", "abc123")
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	status, second := postTicket(t, app, "/tickets", "abc123")
	if status != fiber.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", status)
	}
	if first != second {
		t.Fatalf("expected replayed body %s, got %s", first, second)
	}
	if *calls != 1 {
		t.Fatalf("handler ran %d times", *calls)
	}
}

func TestIdempotencyForgetsFailures(t *testing.T) {
	app, calls := setupIdempotencyApp(t)

	if status, _ := postTicket(t, app, "/tickets?fail=1", "k1"); status != fiber.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
	if status, _ := postTicket(t, app, "/tickets", "k1"); status != fiber.StatusCreated {
		t.Fatalf("expected retry to succeed, got %d", status)
	}
	if *calls != 2 {
		t.Fatalf("expected the retry to reach the handler, got %d calls", *calls)
	}
}
