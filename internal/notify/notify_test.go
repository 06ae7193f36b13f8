package notify

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"

	"trip-monitor/internal/config"
	"trip-monitor/internal/errors"
)

func TestTelegramDeliverPostsSendMessage(t *testing.T) {
	var got struct {
		ChatID string `json:"chat_id"`
		Text   string `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sendMessage" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	ch := &TelegramChannel{
		http:    resty.New().SetBaseURL(srv.URL),
		enabled: true,
	}

	if err := ch.Deliver(context.Background(), 12345, "hello"); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if got.ChatID != "12345" {
		t.Errorf("chat_id = %q, want 12345", got.ChatID)
	}
	if got.Text != "hello" {
		t.Errorf("text = %q, want hello", got.Text)
	}
}

func TestTelegramDeliverWrapsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"Bad Request: chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	ch := &TelegramChannel{
		http:    resty.New().SetBaseURL(srv.URL),
		enabled: true,
	}

	err := ch.Deliver(context.Background(), 12345, "hello")
	if !goerrors.Is(err, errors.ErrDeliveryFailed) {
		t.Errorf("err = %v, want ErrDeliveryFailed", err)
	}
}

func TestTelegramChannelDisabledWithoutToken(t *testing.T) {
	ch := NewTelegramChannel(config.TelegramConfig{Enabled: true, BotToken: ""})
	if ch.IsEnabled() {
		t.Error("channel must be disabled without a bot token")
	}
	if err := ch.Deliver(context.Background(), 1, "x"); !goerrors.Is(err, errors.ErrChannelDisabled) {
		t.Errorf("err = %v, want ErrChannelDisabled", err)
	}
}
