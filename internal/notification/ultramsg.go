package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/logging"
	"github.com/ilumina/ilumina/internal/phone"
)

const (
	ultraMsgTimeout = 30 * time.Second
	whatsAppSuffix  = "@c.us"
)

// ErrNotConfigured is returned by UltraMsg when credentials are missing.
var ErrNotConfigured = errors.New("whatsapp gateway not configured")

// UltraMsg delivers messages through the UltraMsg WhatsApp HTTP gateway.
type UltraMsg struct {
	baseURL    string
	instanceID string
	token      string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewUltraMsg constructs the WhatsApp notifier.
func NewUltraMsg(baseURL, instanceID, token string, logger *slog.Logger) *UltraMsg {
	return &UltraMsg{
		baseURL:    strings.TrimRight(baseURL, "/"),
		instanceID: instanceID,
		token:      token,
		timeout:    ultraMsgTimeout,
		logger:     logger,
	}
}

type ultraMsgResponse struct {
	Sent  json.RawMessage `json:"sent"`
	Error json.RawMessage `json:"error"`
}

// Recipient converts a phone number into the gateway chat address.
func Recipient(raw string) string {
	return phone.Normalize(raw) + whatsAppSuffix
}

// Send posts the message body to the chat endpoint. Only an HTTP 200 with a
// truthy "sent" field counts as delivered.
func (u *UltraMsg) Send(ctx context.Context, message Message) error {
	if u.instanceID == "" || u.token == "" {
		u.logger.Error("ultramsg credentials not configured")
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := u.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("token", u.token)
	args.Set("to", Recipient(message.Destination))
	args.Set("body", message.Body)

	agent := fiber.Post(fmt.Sprintf("%s/%s/messages/chat", u.baseURL, u.instanceID)).
		Timeout(timeout).
		Form(args)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		u.logger.Error("ultramsg request failed",
			slog.String("destination", logging.MaskPhone(message.Destination)),
			slog.Any("error", errors.Join(errs...)),
		)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, errs[0])
	}

	var resp ultraMsgResponse
	if err := json.Unmarshal(body, &resp); err != nil || code != http.StatusOK || !truthy(resp.Sent) {
		u.logger.Error("ultramsg rejected message",
			slog.String("destination", logging.MaskPhone(message.Destination)),
			slog.Int("status", code),
			slog.String("response", string(body)),
		)
		return ErrDeliveryFailed
	}
	return nil
}

// truthy accepts both true and "true"; the gateway has returned either.
func truthy(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(s, "true")
	}
	return false
}
