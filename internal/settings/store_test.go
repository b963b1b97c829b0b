package settings

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/starr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pristinarr.toml")
	store := NewStore(path, zerolog.Nop())
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	store := newTestStore(t)
	if names := store.ApplicationNames(); len(names) != 0 {
		t.Errorf("fresh store has applications: %v", names)
	}
}

func TestMergeSectionPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pristinarr.toml")
	store := NewStore(path, zerolog.Nop())
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := store.MergeSection("Radarr", Section{"Url": "http://localhost:7878", "ApiKey": testAPIKey}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	reloaded := NewStore(path, zerolog.Nop())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	sec, ok := reloaded.Section("Radarr")
	if !ok {
		t.Fatal("section missing after reload")
	}
	if sec["Url"] != "http://localhost:7878" {
		t.Errorf("Url = %q", sec["Url"])
	}
}

func TestMergeSectionLeavesOtherKeysUntouched(t *testing.T) {
	store := newTestStore(t)

	if err := store.MergeSection("Radarr", Section{"Url": "http://a", "TagName": "searched"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}
	if err := store.MergeSection("Radarr", Section{"Url": "http://b"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	sec, _ := store.Section("Radarr")
	if sec["Url"] != "http://b" {
		t.Errorf("Url = %q, want http://b", sec["Url"])
	}
	if sec["TagName"] != "searched" {
		t.Errorf("TagName = %q, want searched", sec["TagName"])
	}
}

func TestSectionLookupCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	if err := store.MergeSection("Radarr", Section{"Url": "http://a"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	if _, ok := store.Section("radarr"); !ok {
		t.Error("lowercase lookup failed")
	}

	// Merging under a different case must not create a second section.
	if err := store.MergeSection("RADARR", Section{"TagName": "searched"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}
	if names := store.ApplicationNames(); !reflect.DeepEqual(names, []string{"Radarr"}) {
		t.Errorf("application names = %v, want [Radarr]", names)
	}
}

func TestDeleteSection(t *testing.T) {
	store := newTestStore(t)
	if err := store.MergeSection("Radarr", Section{"Url": "http://a"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	if err := store.DeleteSection("radarr"); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}
	if _, ok := store.Section("Radarr"); ok {
		t.Error("section still present after delete")
	}

	if err := store.DeleteSection("Radarr"); err == nil {
		t.Error("deleting a missing section should fail")
	}
}

func TestApplicationNamesExcludesReservedSorted(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"Sonarr", "Radarr", SectionNotifications, SectionScheduler, SectionGeneral} {
		if err := store.MergeSection(name, Section{"k": "v"}); err != nil {
			t.Fatalf("MergeSection(%s): %v", name, err)
		}
	}

	if names := store.ApplicationNames(); !reflect.DeepEqual(names, []string{"Radarr", "Sonarr"}) {
		t.Errorf("application names = %v", names)
	}
}

func TestApplicationSettingsDefaults(t *testing.T) {
	store := newTestStore(t)
	err := store.MergeSection("Radarr", Section{
		"Url":     "http://localhost:7878/",
		"ApiKey":  testAPIKey,
		"TagName": "searched",
	})
	if err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	app, err := store.ApplicationSettings("Radarr")
	if err != nil {
		t.Fatalf("ApplicationSettings: %v", err)
	}

	if app.Kind != starr.KindRadarr {
		t.Errorf("kind = %v", app.Kind)
	}
	if app.URL != "http://localhost:7878" {
		t.Errorf("URL = %q, trailing slash should be trimmed", app.URL)
	}
	if app.Count != "10" {
		t.Errorf("Count = %q, want default 10", app.Count)
	}
	if !app.Monitored {
		t.Error("Monitored should default to true")
	}
	if app.Unattended {
		t.Error("Unattended should default to false")
	}
	if app.CountIsMax() {
		t.Error("default count is not max")
	}
	if app.CountValue() != 10 {
		t.Errorf("CountValue = %d", app.CountValue())
	}
}

func TestApplicationSettingsValidationFailure(t *testing.T) {
	store := newTestStore(t)
	if err := store.MergeSection("Radarr", Section{"Url": "nope", "ApiKey": "short"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	_, err := store.ApplicationSettings("Radarr")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if len(verr.Errors) < 3 {
		t.Errorf("expected aggregated errors, got %v", verr.Errors)
	}
}

func TestApplicationSettingsNotConfigured(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.ApplicationSettings("Radarr"); err == nil {
		t.Error("expected error for unconfigured application")
	}
}

func TestApplicationSettingsCountMax(t *testing.T) {
	store := newTestStore(t)
	sec := Section{"Url": "http://a", "ApiKey": testAPIKey, "TagName": "t", "Count": "Max"}
	if err := store.MergeSection("Radarr", sec); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	app, err := store.ApplicationSettings("Radarr")
	if err != nil {
		t.Fatalf("ApplicationSettings: %v", err)
	}
	if !app.CountIsMax() {
		t.Error("Count=Max should report CountIsMax")
	}
}

func TestNotificationsFallsBackToGeneral(t *testing.T) {
	store := newTestStore(t)
	if err := store.MergeSection(SectionGeneral, Section{"DiscordWebhook": "http://hook"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}

	if got := store.Notifications(); got.DiscordWebhook != "http://hook" {
		t.Errorf("DiscordWebhook = %q", got.DiscordWebhook)
	}

	// A Notifications section takes precedence once present.
	if err := store.MergeSection(SectionNotifications, Section{"DiscordWebhook": "http://newer"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}
	if got := store.Notifications(); got.DiscordWebhook != "http://newer" {
		t.Errorf("DiscordWebhook = %q, want the Notifications value", got.DiscordWebhook)
	}
}

func TestSchedulerDefaults(t *testing.T) {
	store := newTestStore(t)

	cfg := store.Scheduler()
	if cfg.Enabled {
		t.Error("scheduler should default to disabled")
	}
	if cfg.IntervalHours != 6 {
		t.Errorf("interval = %d, want 6", cfg.IntervalHours)
	}

	if err := store.MergeSection(SectionScheduler, Section{"Enabled": "true", "IntervalHours": "12"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}
	cfg = store.Scheduler()
	if !cfg.Enabled || cfg.IntervalHours != 12 {
		t.Errorf("scheduler = %+v", cfg)
	}
}

func TestSchedulerIgnoresInvalidInterval(t *testing.T) {
	store := newTestStore(t)
	if err := store.MergeSection(SectionScheduler, Section{"IntervalHours": "-4"}); err != nil {
		t.Fatalf("MergeSection: %v", err)
	}
	if cfg := store.Scheduler(); cfg.IntervalHours != 6 {
		t.Errorf("interval = %d, want default 6", cfg.IntervalHours)
	}
}

func TestSectionGetCaseInsensitiveTrimmed(t *testing.T) {
	sec := Section{"ApiKey": "  abc  "}
	if got := sec.Get("apikey"); got != "abc" {
		t.Errorf("Get = %q, want abc", got)
	}
	if got := sec.Get("missing"); got != "" {
		t.Errorf("Get missing = %q", got)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pristinarr.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store := NewStore(path, zerolog.Nop())
	if err := store.Load(); err == nil {
		t.Error("expected parse error")
	}
}
