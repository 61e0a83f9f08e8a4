package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/logging"
)

func auditRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var record map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("decode log line %q: %v", scanner.Text(), err)
		}
		records = append(records, record)
	}
	return records
}

func TestAuditLogsRenderedStatus(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID(), Audit(logging.NewWithWriter(&buf, "info")))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Get("/missing", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "Ticket not found") })
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("connection reset") })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
	}

	records := auditRecords(t, &buf)
	if len(records) != 3 {
		t.Fatalf("expected 3 audit records, got %d", len(records))
	}
	want := []struct {
		status float64
		level  string
	}{
		{fiber.StatusCreated, "INFO"},
		{fiber.StatusNotFound, "WARN"},
		{fiber.StatusInternalServerError, "ERROR"},
	}
	for i, w := range want {
		if records[i]["status"] != w.status || records[i]["level"] != w.level {
			t.Fatalf("record %d: expected status %v at %s, got %v", i, w.status, w.level, records[i])
		}
		if records[i]["request_id"] == "" || records[i]["request_id"] == nil {
			t.Fatalf("record %d: missing request id", i)
		}
	}
}
