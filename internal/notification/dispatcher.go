// Package notification builds run summaries and fans them out to the
// configured channels.
package notification

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/notification/discord"
	"github.com/pristinarr/pristinarr/internal/notification/notifiarr"
	"github.com/pristinarr/pristinarr/internal/notification/types"
	"github.com/pristinarr/pristinarr/internal/settings"
	"github.com/pristinarr/pristinarr/internal/starr"
)

// maxInlineTitles is the largest selection whose titles are listed in the
// notification body.
const maxInlineTitles = 20

type kindColor struct {
	HTML    string
	Decimal int
}

var kindColors = map[starr.Kind]kindColor{
	starr.KindRadarr:  {HTML: "FFC230", Decimal: 16761392},
	starr.KindSonarr:  {HTML: "00CCFF", Decimal: 52479},
	starr.KindLidarr:  {HTML: "009252", Decimal: 37458},
	starr.KindReadarr: {HTML: "8E2222", Decimal: 9314850},
}

var kindThumbnails = map[starr.Kind]string{
	starr.KindRadarr:  "https://gh.notifiarr.com/images/icons/radarr.png",
	starr.KindSonarr:  "https://gh.notifiarr.com/images/icons/sonarr.png",
	starr.KindLidarr:  "https://gh.notifiarr.com/images/icons/lidarr.png",
	starr.KindReadarr: "https://gh.notifiarr.com/images/icons/readarr.png",
}

// Dispatcher resolves notification targets from the settings store and
// delivers run summaries to each of them. Delivery is best-effort: a channel
// failure is logged and swallowed.
type Dispatcher struct {
	store      *settings.Store
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(store *settings.Store, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "notification").Logger(),
	}
}

// NotifyRun delivers a summary of one finished run to every configured
// channel. A zero searchedCount produces a "nothing to process" message.
func (d *Dispatcher) NotifyRun(ctx context.Context, application string, kind starr.Kind, searchedCount int, titles []string) {
	msg := d.buildMessage(application, kind, searchedCount, titles)

	for _, notifier := range d.notifiers() {
		if err := notifier.Send(ctx, msg); err != nil {
			d.logger.Error().
				Err(err).
				Str("channel", notifier.Name()).
				Str("application", application).
				Msg("failed to send notification")
		}
	}
}

func (d *Dispatcher) buildMessage(application string, kind starr.Kind, searchedCount int, titles []string) types.Message {
	var description strings.Builder
	if searchedCount == 0 {
		fmt.Fprintf(&description, "No media left to search for %s", application)
	} else {
		fmt.Fprintf(&description, "Search started for %d media items in %s:", searchedCount, application)
		if len(titles) <= maxInlineTitles {
			for _, title := range titles {
				fmt.Fprintf(&description, "\n- %s", title)
			}
		} else {
			description.WriteString("\n\n*The list of media items is too long to display here.*")
		}
	}

	color, ok := kindColors[kind]
	if !ok {
		color = kindColor{HTML: "FF0000", Decimal: 16711680}
	}
	thumbnail, ok := kindThumbnails[kind]
	if !ok {
		thumbnail = "https://gh.notifiarr.com/images/icons/shell.png"
	}

	return types.Message{
		Title:        fmt.Sprintf("Pristinarr - %s", application),
		Description:  description.String(),
		ColorDecimal: color.Decimal,
		ColorHTML:    color.HTML,
		ThumbnailURL: thumbnail,
	}
}

// notifiers builds the active channel list from the settings store. An
// unconfigured channel is simply absent.
func (d *Dispatcher) notifiers() []types.Notifier {
	cfg := d.store.Notifications()

	var out []types.Notifier
	if cfg.DiscordWebhook != "" {
		out = append(out, discord.New(discord.Settings{WebhookURL: cfg.DiscordWebhook}, d.httpClient, d.logger))
	}
	if cfg.NotifiarrWebhook != "" && cfg.NotifiarrChannelID != "" {
		out = append(out, notifiarr.New(notifiarr.Settings{
			WebhookURL: cfg.NotifiarrWebhook,
			ChannelID:  cfg.NotifiarrChannelID,
		}, d.httpClient, d.logger))
	}
	return out
}
