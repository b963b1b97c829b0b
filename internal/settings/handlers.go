package settings

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Reconfigurer is notified when scheduler settings change.
type Reconfigurer interface {
	Reconfigure(enabled bool, intervalHours int) error
}

// Handlers provides HTTP handlers for settings operations.
type Handlers struct {
	store *Store
	sched Reconfigurer
}

// NewHandlers creates a new settings handlers instance.
func NewHandlers(store *Store, sched Reconfigurer) *Handlers {
	return &Handlers{store: store, sched: sched}
}

// RegisterRoutes registers settings routes on an Echo group.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.Get)
	g.POST("/application/:name", h.SaveApplication)
	g.DELETE("/application/:name", h.DeleteApplication)
	g.POST("/notifications", h.SaveNotifications)
	g.POST("/scheduler", h.SaveScheduler)
}

// ApplicationConfigRequest is the save payload for one application section.
type ApplicationConfigRequest struct {
	APIKey             string `json:"apiKey"`
	URL                string `json:"url"`
	TagName            string `json:"tagName"`
	Count              string `json:"count"`
	Monitored          string `json:"monitored"`
	Unattended         string `json:"unattended"`
	IgnoreTag          string `json:"ignoreTag,omitempty"`
	QualityProfileName string `json:"qualityProfileName,omitempty"`
	MovieStatus        string `json:"movieStatus,omitempty"`
	SeriesStatus       string `json:"seriesStatus,omitempty"`
	ArtistStatus       string `json:"artistStatus,omitempty"`
	AuthorStatus       string `json:"authorStatus,omitempty"`
}

// NotificationConfigRequest is the save payload for notification targets.
type NotificationConfigRequest struct {
	DiscordWebhook                       string `json:"discordWebhook,omitempty"`
	NotifiarrPassthroughWebhook          string `json:"notifiarrPassthroughWebhook,omitempty"`
	NotifiarrPassthroughDiscordChannelID string `json:"notifiarrPassthroughDiscordChannelId,omitempty"`
}

// SchedulerConfigRequest is the save payload for the scheduler.
type SchedulerConfigRequest struct {
	Enabled       bool `json:"enabled"`
	IntervalHours int  `json:"intervalHours"`
}

// Get returns the full settings file.
// GET /api/v1/config
func (h *Handlers) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.All())
}

// SaveApplication saves one application section.
// POST /api/v1/config/application/:name
func (h *Handlers) SaveApplication(c echo.Context) error {
	name := c.Param("name")

	var req ApplicationConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	values := Section{
		"ApiKey":     req.APIKey,
		"Url":        req.URL,
		"TagName":    req.TagName,
		"Count":      req.Count,
		"Monitored":  req.Monitored,
		"Unattended": req.Unattended,
	}
	setIfPresent(values, "IgnoreTag", req.IgnoreTag)
	setIfPresent(values, "QualityProfileName", req.QualityProfileName)
	setIfPresent(values, "MovieStatus", req.MovieStatus)
	setIfPresent(values, "SeriesStatus", req.SeriesStatus)
	setIfPresent(values, "ArtistStatus", req.ArtistStatus)
	setIfPresent(values, "AuthorStatus", req.AuthorStatus)

	if err := h.store.MergeSection(name, values); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Configuration saved for %s", name),
	})
}

// DeleteApplication removes one application section.
// DELETE /api/v1/config/application/:name
func (h *Handlers) DeleteApplication(c echo.Context) error {
	name := c.Param("name")

	if _, ok := h.store.Section(name); !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("application %s not found", name))
	}
	if err := h.store.DeleteSection(name); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Configuration deleted for %s", name),
	})
}

// SaveNotifications saves the Notifications section.
// POST /api/v1/config/notifications
func (h *Handlers) SaveNotifications(c echo.Context) error {
	var req NotificationConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	values := Section{}
	setIfPresent(values, "DiscordWebhook", req.DiscordWebhook)
	setIfPresent(values, "NotifiarrPassthroughWebhook", req.NotifiarrPassthroughWebhook)
	setIfPresent(values, "NotifiarrPassthroughDiscordChannelId", req.NotifiarrPassthroughDiscordChannelID)

	if err := h.store.MergeSection(SectionNotifications, values); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Notification configuration saved",
	})
}

// SaveScheduler saves the Scheduler section and reconfigures the running
// scheduler.
// POST /api/v1/config/scheduler
func (h *Handlers) SaveScheduler(c echo.Context) error {
	var req SchedulerConfigRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	values := Section{
		"Enabled":       strconv.FormatBool(req.Enabled),
		"IntervalHours": strconv.Itoa(req.IntervalHours),
	}
	if err := h.store.MergeSection(SectionScheduler, values); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if h.sched != nil {
		if err := h.sched.Reconfigure(req.Enabled, req.IntervalHours); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Scheduler configuration saved",
	})
}

func setIfPresent(values Section, key, value string) {
	if value != "" {
		values[key] = value
	}
}
