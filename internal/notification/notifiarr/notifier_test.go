package notifiarr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/notification/types"
)

func TestSendBuildsPassthroughPayload(t *testing.T) {
	var payload passthroughPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/plain" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"result":"success"}`))
	}))
	defer srv.Close()

	n := New(Settings{WebhookURL: srv.URL, ChannelID: "123456789012345678"}, srv.Client(), zerolog.Nop())

	err := n.Send(context.Background(), types.Message{
		Title:        "Pristinarr - Radarr",
		Description:  "Search started",
		ColorHTML:    "FFC230",
		ThumbnailURL: "https://example.com/radarr.png",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if payload.Notification.Name != "Pristinarr - Radarr" {
		t.Errorf("notification name = %q", payload.Notification.Name)
	}
	if payload.Discord.Color != "FFC230" {
		t.Errorf("color = %q", payload.Discord.Color)
	}
	if payload.Discord.IDs.Channel != 123456789012345678 {
		t.Errorf("channel = %d", payload.Discord.IDs.Channel)
	}
	if payload.Discord.Images == nil || payload.Discord.Images.Thumbnail != "https://example.com/radarr.png" {
		t.Errorf("images = %+v", payload.Discord.Images)
	}
}

func TestSendRejectsInvalidChannelID(t *testing.T) {
	n := New(Settings{WebhookURL: "http://localhost", ChannelID: "general"}, http.DefaultClient, zerolog.Nop())
	if err := n.Send(context.Background(), types.Message{Title: "t"}); err == nil {
		t.Error("expected error for non-numeric channel ID")
	}
}

func TestSendReportsNonSuccessResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error"}`))
	}))
	defer srv.Close()

	n := New(Settings{WebhookURL: srv.URL, ChannelID: "123456789012345678"}, srv.Client(), zerolog.Nop())
	if err := n.Send(context.Background(), types.Message{Title: "t"}); err == nil {
		t.Error("expected error for result=error response")
	}
}
