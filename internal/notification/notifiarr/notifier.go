// Package notifiarr sends notifications through Notifiarr's Discord
// passthrough integration.
package notifiarr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/notification/types"
)

// Settings contains Notifiarr-specific configuration.
type Settings struct {
	WebhookURL string `json:"webhookUrl"`
	ChannelID  string `json:"channelId"` // Discord channel the passthrough posts to
}

// Notifier sends notifications via the Notifiarr passthrough webhook.
type Notifier struct {
	settings   Settings
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new Notifiarr notifier.
func New(settings Settings, httpClient *http.Client, logger zerolog.Logger) *Notifier {
	return &Notifier{
		settings:   settings,
		httpClient: httpClient,
		logger:     logger.With().Str("notifier", "notifiarr").Logger(),
	}
}

func (n *Notifier) Type() types.NotifierType {
	return types.NotifierNotifiarr
}

func (n *Notifier) Name() string {
	return "Notifiarr"
}

func (n *Notifier) Test(ctx context.Context) error {
	return n.Send(ctx, types.Message{
		Title:       "Pristinarr Test Notification",
		Description: "This is a test notification from Pristinarr.",
		ColorHTML:   "3498DB",
	})
}

func (n *Notifier) Send(ctx context.Context, msg types.Message) error {
	if n.settings.WebhookURL == "" {
		return fmt.Errorf("notifiarr webhook URL is empty")
	}
	channel, err := strconv.ParseInt(n.settings.ChannelID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid notifiarr channel ID %q: %w", n.settings.ChannelID, err)
	}

	payload := passthroughPayload{
		Notification: notificationBlock{Name: msg.Title},
		Discord: discordBlock{
			Color: msg.ColorHTML,
			Text:  textBlock{Title: msg.Title, Description: msg.Description},
			IDs:   idsBlock{Channel: channel},
		},
	}
	if msg.ThumbnailURL != "" {
		payload.Discord.Images = &imagesBlock{Thumbnail: msg.ThumbnailURL}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notifiarr returned status %d", resp.StatusCode)
	}

	// Notifiarr answers 2xx with a JSON result field; a non-JSON body still
	// counts as delivered.
	raw, _ := io.ReadAll(resp.Body)
	var result struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(raw, &result); err == nil && result.Result != "" && result.Result != "success" {
		return fmt.Errorf("notifiarr returned non-success result %q", result.Result)
	}

	n.logger.Debug().Msg("notifiarr notification sent")
	return nil
}

type passthroughPayload struct {
	Notification notificationBlock `json:"notification"`
	Discord      discordBlock      `json:"discord"`
}

type notificationBlock struct {
	Name   string `json:"name"`
	Update bool   `json:"update"`
}

type discordBlock struct {
	Color  string       `json:"color"`
	Text   textBlock    `json:"text"`
	IDs    idsBlock     `json:"ids"`
	Images *imagesBlock `json:"images,omitempty"`
}

type textBlock struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description"`
}

type idsBlock struct {
	Channel int64 `json:"channel"`
}

type imagesBlock struct {
	Thumbnail string `json:"thumbnail,omitempty"`
}
