package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/notification/types"
)

const (
	defaultUsername  = "Pristinarr"
	defaultAvatarURL = "https://gh.notifiarr.com/images/icons/powershell.png"
)

// Settings contains Discord-specific configuration
type Settings struct {
	WebhookURL string `json:"webhookUrl"`
	Username   string `json:"username,omitempty"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
}

// Notifier sends notifications to Discord via webhook
type Notifier struct {
	settings   Settings
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a new Discord notifier
func New(settings Settings, httpClient *http.Client, logger zerolog.Logger) *Notifier {
	return &Notifier{
		settings:   settings,
		httpClient: httpClient,
		logger:     logger.With().Str("notifier", "discord").Logger(),
	}
}

func (n *Notifier) Type() types.NotifierType {
	return types.NotifierDiscord
}

func (n *Notifier) Name() string {
	return "Discord"
}

func (n *Notifier) Test(ctx context.Context) error {
	return n.Send(ctx, types.Message{
		Title:        "Pristinarr Test Notification",
		Description:  "This is a test notification from Pristinarr.",
		ColorDecimal: 0x3498DB,
	})
}

func (n *Notifier) Send(ctx context.Context, msg types.Message) error {
	embed := Embed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       msg.ColorDecimal,
	}
	if msg.ThumbnailURL != "" {
		embed.Thumbnail = &EmbedImage{URL: msg.ThumbnailURL}
	}

	username := n.settings.Username
	if username == "" {
		username = defaultUsername
	}
	avatarURL := n.settings.AvatarURL
	if avatarURL == "" {
		avatarURL = defaultAvatarURL
	}

	payload := WebhookPayload{
		Username:  username,
		AvatarURL: avatarURL,
		Embeds:    []Embed{embed},
	}

	return n.post(ctx, payload)
}

func (n *Notifier) post(ctx context.Context, payload WebhookPayload) error {
	if n.settings.WebhookURL == "" {
		return fmt.Errorf("discord webhook URL is empty")
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

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord returned status %d", resp.StatusCode)
	}

	n.logger.Debug().Msg("discord message sent")
	return nil
}

// WebhookPayload is the Discord webhook request body
type WebhookPayload struct {
	Username  string  `json:"username,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Content   string  `json:"content,omitempty"`
	Embeds    []Embed `json:"embeds,omitempty"`
}

// Embed is a Discord embed object
type Embed struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Color       int         `json:"color,omitempty"`
	Thumbnail   *EmbedImage `json:"thumbnail,omitempty"`
}

// EmbedImage is an image in an embed
type EmbedImage struct {
	URL string `json:"url,omitempty"`
}
