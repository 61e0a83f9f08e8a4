package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ilumina/ilumina/internal/logging"
)

func TestUltraMsgSendsForm(t *testing.T) {
	var gotPath, gotTo, gotToken, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotTo = r.PostForm.Get("to")
		gotToken = r.PostForm.Get("token")
		gotBody = r.PostForm.Get("body")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sent":"true","message":"ok"}`))
	}))
	defer srv.Close()

	n := NewUltraMsg(srv.URL, "instance1", "tok", logging.Discard())
	err := n.Send(context.Background(), Message{Kind: KindVerificationCode, Destination: "(11) 98765-4321", Body: VerificationCode("123456", false)})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/instance1/messages/chat" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotTo != "5511987654321@c.us" || gotToken != "tok" {
		t.Fatalf("unexpected form to=%s token=%s", gotTo, gotToken)
	}
	if !strings.Contains(gotBody, "123456") || !strings.Contains(gotBody, "(Cidadão)") {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestUltraMsgRejectedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	n := NewUltraMsg(srv.URL, "instance1", "tok", logging.Discard())
	if err := n.Send(context.Background(), Message{Destination: "11987654321", Body: "x"}); !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("expected delivery failure, got %v", err)
	}
}

func TestUltraMsgNotConfigured(t *testing.T) {
	n := NewUltraMsg("http://127.0.0.1:1", "", "", logging.Discard())
	if err := n.Send(context.Background(), Message{Destination: "11987654321", Body: "x"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}

func TestVerificationCodeLabels(t *testing.T) {
	if msg := VerificationCode("000123", true); !strings.Contains(msg, "(Gestor)") || !strings.Contains(msg, "*000123*") {
		t.Fatalf("unexpected manager message %q", msg)
	}
	if msg := VerificationCode("654321", false); !strings.Contains(msg, "(Cidadão)") {
		t.Fatalf("unexpected citizen message %q", msg)
	}
}

func TestRecipientAlwaysCarriesCountryCode(t *testing.T) {
	cases := map[string]string{
		"(11) 98765-4321": "5511987654321@c.us",
		"5511987654321":   "5511987654321@c.us",
		"abc":             "55@c.us",
	}
	for in, want := range cases {
		if got := Recipient(in); got != want {
			t.Fatalf("Recipient(%q) = %q, want %q", in, got, want)
		}
	}
}
