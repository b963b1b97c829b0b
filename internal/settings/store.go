package settings

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/starr"
)

// Reserved section names that never describe a Starr application.
const (
	SectionNotifications = "Notifications"
	SectionGeneral       = "General"
	SectionScheduler     = "Scheduler"
)

// Section is one flat key-value block of the settings file.
type Section map[string]string

// Store is the file-backed settings store. The on-disk format is a TOML file
// of flat string sections, one per configured application plus the reserved
// Notifications/General/Scheduler sections.
type Store struct {
	path   string
	logger zerolog.Logger

	mu   sync.RWMutex
	data map[string]Section
}

// NewStore creates a store reading from and writing to path. Call Load before
// first use.
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With().Str("component", "settings").Logger(),
		data:   make(map[string]Section),
	}
}

// Load reads the settings file. A missing file is not an error; the store
// starts empty and the file is created on first save.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn().Str("path", s.path).Msg("settings file not found, starting empty")
			s.data = make(map[string]Section)
			return nil
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	data := make(map[string]Section)
	if err := toml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}

	s.data = data
	s.logger.Debug().Str("path", s.path).Int("sections", len(data)).Msg("loaded settings")
	return nil
}

// save writes the current data back to disk. Caller must hold the lock.
func (s *Store) save() error {
	encoded, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	s.logger.Info().Str("path", s.path).Msg("settings saved")
	return nil
}

// All returns a copy of every section, keyed by section name.
func (s *Store) All() map[string]Section {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Section, len(s.data))
	for name, sec := range s.data {
		out[name] = copySection(sec)
	}
	return out
}

// Section returns a copy of the named section. Lookup is case-insensitive;
// the name as written in the file wins.
func (s *Store) Section(name string) (Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.lookup(name)
	if !ok {
		return nil, false
	}
	return copySection(sec), true
}

// lookup finds a section case-insensitively. Caller must hold the lock.
func (s *Store) lookup(name string) (Section, bool) {
	if sec, ok := s.data[name]; ok {
		return sec, true
	}
	for key, sec := range s.data {
		if strings.EqualFold(key, name) {
			return sec, true
		}
	}
	return nil, false
}

// canonicalName returns the section name as written in the file, or name
// itself when the section does not exist. Caller must hold the lock.
func (s *Store) canonicalName(name string) string {
	if _, ok := s.data[name]; ok {
		return name
	}
	for key := range s.data {
		if strings.EqualFold(key, name) {
			return key
		}
	}
	return name
}

// MergeSection sets the given keys in the named section, creating the section
// when missing, and persists the file. Keys not present in values are left
// untouched.
func (s *Store) MergeSection(name string, values Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical := s.canonicalName(name)
	sec, ok := s.data[canonical]
	if !ok {
		sec = make(Section)
		s.data[canonical] = sec
	}
	for key, value := range values {
		sec[key] = value
	}

	return s.save()
}

// DeleteSection removes the named section and persists the file.
func (s *Store) DeleteSection(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	canonical := s.canonicalName(name)
	if _, ok := s.data[canonical]; !ok {
		return fmt.Errorf("section %q not found", name)
	}
	delete(s.data, canonical)

	return s.save()
}

// ApplicationNames returns every non-reserved section name, sorted.
func (s *Store) ApplicationNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		if isReserved(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isReserved(name string) bool {
	return strings.EqualFold(name, SectionNotifications) ||
		strings.EqualFold(name, SectionGeneral) ||
		strings.EqualFold(name, SectionScheduler)
}

func copySection(sec Section) Section {
	out := make(Section, len(sec))
	for k, v := range sec {
		out[k] = v
	}
	return out
}

// Get reads a key case-insensitively, trimming whitespace.
func (sec Section) Get(key string) string {
	return get(sec, key)
}

// get reads a key from a section case-insensitively, trimming whitespace.
func get(sec Section, key string) string {
	if v, ok := sec[key]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range sec {
		if strings.EqualFold(k, key) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// getDefault reads a key with a fallback for absent or empty values.
func getDefault(sec Section, key, fallback string) string {
	if v := get(sec, key); v != "" {
		return v
	}
	return fallback
}

// AppSettings is the validated, typed configuration of one application
// section, built once per run.
type AppSettings struct {
	Name               string
	Kind               starr.Kind
	URL                string
	APIKey             string
	TagName            string
	Count              string // positive integer or "max"
	Monitored          bool
	Unattended         bool
	IgnoreTag          string
	QualityProfileName string
	Status             string
}

// CountIsMax reports whether the whole eligible set should be processed.
func (a *AppSettings) CountIsMax() bool {
	return strings.EqualFold(a.Count, "max")
}

// CountValue returns the numeric count. Only valid when CountIsMax is false.
func (a *AppSettings) CountValue() int {
	n, _ := strconv.Atoi(strings.ToLower(a.Count))
	return n
}

// ApplicationSettings validates the named application section and builds its
// typed settings. Validation failures are aggregated into a single
// *ValidationError listing every problem.
func (s *Store) ApplicationSettings(name string) (*AppSettings, error) {
	sec, ok := s.Section(name)
	if !ok {
		return nil, fmt.Errorf("application %q is not configured", name)
	}

	if errs := ValidateApplication(name, sec); len(errs) > 0 {
		return nil, &ValidationError{Application: name, Errors: errs}
	}

	// ValidateApplication guarantees the kind resolves.
	kind, _ := starr.KindFromName(name)

	return &AppSettings{
		Name:               name,
		Kind:               kind,
		URL:                strings.TrimSuffix(get(sec, "Url"), "/"),
		APIKey:             get(sec, "ApiKey"),
		TagName:            get(sec, "TagName"),
		Count:              getDefault(sec, "Count", "10"),
		Monitored:          strings.EqualFold(getDefault(sec, "Monitored", "true"), "true"),
		Unattended:         strings.EqualFold(getDefault(sec, "Unattended", "false"), "true"),
		IgnoreTag:          get(sec, "IgnoreTag"),
		QualityProfileName: get(sec, "QualityProfileName"),
		Status:             get(sec, kind.StatusKey()),
	}, nil
}

// NotificationSettings holds the resolved outbound notification targets.
type NotificationSettings struct {
	DiscordWebhook     string
	NotifiarrWebhook   string
	NotifiarrChannelID string
}

// Notifications resolves notification settings from the Notifications
// section, falling back to General for configurations written before the
// sections were split.
func (s *Store) Notifications() NotificationSettings {
	for _, name := range []string{SectionNotifications, SectionGeneral} {
		sec, ok := s.Section(name)
		if !ok {
			continue
		}
		return NotificationSettings{
			DiscordWebhook:     get(sec, "DiscordWebhook"),
			NotifiarrWebhook:   get(sec, "NotifiarrPassthroughWebhook"),
			NotifiarrChannelID: get(sec, "NotifiarrPassthroughDiscordChannelId"),
		}
	}
	return NotificationSettings{}
}

// SchedulerSettings holds the periodic run configuration.
type SchedulerSettings struct {
	Enabled       bool
	IntervalHours int
}

// Scheduler resolves scheduler settings, defaulting to disabled with a
// six-hour interval.
func (s *Store) Scheduler() SchedulerSettings {
	out := SchedulerSettings{Enabled: false, IntervalHours: 6}

	sec, ok := s.Section(SectionScheduler)
	if !ok {
		return out
	}

	out.Enabled = strings.EqualFold(getDefault(sec, "Enabled", "false"), "true")
	if hours, err := strconv.Atoi(getDefault(sec, "IntervalHours", "6")); err == nil && hours > 0 {
		out.IntervalHours = hours
	}
	return out
}
