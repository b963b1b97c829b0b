package settings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pristinarr/pristinarr/internal/starr"
)

var (
	urlPattern              = regexp.MustCompile(`^https?://`)
	discordWebhookPattern   = regexp.MustCompile(`https://discord\.com/api/webhooks/\d{17,19}/[A-Za-z0-9_-]{68,}`)
	notifiarrWebhookPattern = regexp.MustCompile(`https://notifiarr\.com/api/v1/notification/passthrough/[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	discordChannelPattern   = regexp.MustCompile(`^\d{17,19}$`)
)

// ValidationError aggregates every validation failure of one application
// section.
type ValidationError struct {
	Application string
	Errors      []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration errors for %s: %s", e.Application, strings.Join(e.Errors, "; "))
}

// ValidateApplication checks one application section and returns every
// problem found, not just the first.
func ValidateApplication(name string, sec Section) []string {
	var errs []string

	kind, err := starr.KindFromName(name)
	if err != nil {
		return []string{err.Error()}
	}

	if apiKey := get(sec, "ApiKey"); len(apiKey) != 32 {
		errs = append(errs, fmt.Sprintf("API Key for %q is not 32 characters long", name))
	}

	if url := get(sec, "Url"); !urlPattern.MatchString(url) {
		errs = append(errs, fmt.Sprintf("URL for %q is not formatted correctly. It should start with http:// or https://", name))
	}

	count := strings.ToLower(getDefault(sec, "Count", "10"))
	if count != "max" {
		if n, err := strconv.Atoi(count); err != nil {
			errs = append(errs, fmt.Sprintf("Count for %q must be an integer or \"max\"", name))
		} else if n < 1 {
			errs = append(errs, fmt.Sprintf("Count for %q must be greater than 0 or \"max\"", name))
		}
	}

	if v := strings.ToLower(getDefault(sec, "Monitored", "true")); v != "true" && v != "false" {
		errs = append(errs, fmt.Sprintf("Monitored for %q must be \"true\" or \"false\"", name))
	}

	if v := strings.ToLower(getDefault(sec, "Unattended", "false")); v != "true" && v != "false" {
		errs = append(errs, fmt.Sprintf("Unattended for %q must be \"true\" or \"false\"", name))
	}

	if get(sec, "TagName") == "" {
		errs = append(errs, fmt.Sprintf("TagName must be specified for %q", name))
	}

	if status := strings.ToLower(get(sec, kind.StatusKey())); status != "" {
		if !containsString(kind.ValidStatuses(), status) {
			errs = append(errs, fmt.Sprintf("%s for %q is not valid. Expected one of: %s",
				kind.StatusKey(), name, strings.Join(kind.ValidStatuses(), ", ")))
		}
	}

	return errs
}

// ValidateNotifications checks the Notifications and General sections.
func ValidateNotifications(sections map[string]Section) []string {
	var errs []string

	for name, sec := range sections {
		if !strings.EqualFold(name, SectionNotifications) && !strings.EqualFold(name, SectionGeneral) {
			continue
		}

		if webhook := get(sec, "DiscordWebhook"); webhook != "" && !discordWebhookPattern.MatchString(webhook) {
			errs = append(errs, fmt.Sprintf("Discord Webhook in [%s] is not formatted correctly", name))
		}

		if webhook := get(sec, "NotifiarrPassthroughWebhook"); webhook != "" {
			if !notifiarrWebhookPattern.MatchString(webhook) {
				errs = append(errs, fmt.Sprintf("Notifiarr Passthrough Webhook in [%s] is not formatted correctly", name))
			}
			if channel := get(sec, "NotifiarrPassthroughDiscordChannelId"); !discordChannelPattern.MatchString(channel) {
				errs = append(errs, fmt.Sprintf("Notifiarr Passthrough Discord Channel ID in [%s] must be a 17-19 digit number", name))
			}
		}
	}

	return errs
}

// validateQuotes rejects values containing quote characters, which usually
// indicate a copy-paste mistake from another config format.
func validateQuotes(sections map[string]Section) []string {
	var errs []string

	for name, sec := range sections {
		for key, value := range sec {
			if strings.ContainsAny(value, `"'`) {
				errs = append(errs, fmt.Sprintf("value for %q in section [%s] contains quotes which are not allowed", key, name))
			}
		}
	}

	return errs
}

// ValidateAll checks the whole settings file: quote hygiene, notification
// targets, and every application section. All problems are collected.
func ValidateAll(sections map[string]Section) []string {
	var errs []string

	errs = append(errs, validateQuotes(sections)...)
	errs = append(errs, ValidateNotifications(sections)...)

	for name, sec := range sections {
		if isReserved(name) {
			continue
		}
		errs = append(errs, ValidateApplication(name, sec)...)
	}

	return errs
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
