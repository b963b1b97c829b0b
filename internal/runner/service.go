// Package runner orchestrates search runs against the configured Starr
// applications.
package runner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/history"
	"github.com/pristinarr/pristinarr/internal/settings"
	"github.com/pristinarr/pristinarr/internal/starr"
)

// Notifier delivers a run summary to the configured channels. Delivery
// failures never affect the run outcome.
type Notifier interface {
	NotifyRun(ctx context.Context, application string, kind starr.Kind, searchedCount int, titles []string)
}

// Service executes search runs. A run resolves the application's settings,
// filters its library down to items that still need a search, triggers the
// searches, and tags the items so the next run skips them.
type Service struct {
	store    *settings.Store
	history  *history.Service
	notifier Notifier
	logger   zerolog.Logger

	// newClient builds the API client for one run. Overridable in tests.
	newClient func(cfg starr.ClientConfig) *starr.Client
}

// NewService creates a new run service.
func NewService(store *settings.Store, hist *history.Service, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		store:     store,
		history:   hist,
		notifier:  notifier,
		logger:    log.With().Str("component", "runner").Logger(),
		newClient: starr.NewClient,
	}
}

// RunApplication executes a single run for the named application. Every
// failed run is recorded in history with the error message; a dry run reports
// what would be searched without triggering searches, tagging, or
// notifications.
func (s *Service) RunApplication(ctx context.Context, name string, dryRun bool) (*Result, error) {
	res, err := s.run(ctx, name, dryRun)
	if err != nil {
		s.logger.Error().Err(err).Str("application", name).Msg("run failed")
		s.history.Add(name, false, 0, err.Error())
		return nil, err
	}
	return res, nil
}

func (s *Service) run(ctx context.Context, name string, dryRun bool) (*Result, error) {
	app, err := s.store.ApplicationSettings(name)
	if err != nil {
		return nil, err
	}

	// Labels are compared case-insensitively, so an equal label is the only
	// way the two tags can resolve to the same ID. Rejecting here keeps the
	// collision from ever creating the run tag remotely.
	if app.IgnoreTag != "" && strings.EqualFold(app.IgnoreTag, app.TagName) {
		return nil, fmt.Errorf("ignore tag %q is the same tag as %q for %s", app.IgnoreTag, app.TagName, name)
	}

	log := s.logger.With().Str("application", name).Logger()
	log.Info().Bool("dryRun", dryRun).Msg("starting run")

	client := s.newClient(starr.ClientConfig{
		Kind:   app.Kind,
		URL:    app.URL,
		APIKey: app.APIKey,
		Logger: s.logger,
	})

	version, err := client.GetAPIVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", name, err)
	}
	log.Debug().Str("apiVersion", version).Msg("connected")

	tagID, err := client.GetOrCreateTag(ctx, app.TagName)
	if err != nil {
		return nil, err
	}

	opts := starr.FilterOptions{
		TagID:     tagID,
		Monitored: app.Monitored,
		Status:    app.Status,
	}

	if app.IgnoreTag != "" {
		ignoreID, found, err := client.GetTagID(ctx, app.IgnoreTag)
		if err != nil {
			return nil, err
		}
		if found {
			if ignoreID == tagID {
				return nil, fmt.Errorf("ignore tag %q is the same tag as %q for %s", app.IgnoreTag, app.TagName, name)
			}
			opts.IgnoreTagID = &ignoreID
		} else {
			log.Warn().Str("tag", app.IgnoreTag).Msg("ignore tag does not exist, skipping")
		}
	}

	if app.QualityProfileName != "" {
		profileID, err := client.GetQualityProfileID(ctx, app.QualityProfileName)
		if err != nil {
			return nil, err
		}
		opts.QualityProfileID = &profileID
	}

	media, err := client.GetMedia(ctx)
	if err != nil {
		return nil, err
	}
	eligible := starr.FilterMedia(media, opts)

	// In unattended mode an exhausted library means every item carries the
	// run tag. Strip the tag from the tagged set and go around once more.
	if len(eligible) == 0 && app.Unattended {
		probe := opts
		probe.Unattended = true
		tagged := starr.FilterMedia(media, probe)

		if len(tagged) > 0 {
			log.Info().Int("count", len(tagged)).Msg("all media tagged, resetting for unattended mode")
			if err := client.RemoveMediaTag(ctx, tagged, tagID); err != nil {
				return nil, err
			}
			media, err = client.GetMedia(ctx)
			if err != nil {
				return nil, err
			}
			eligible = starr.FilterMedia(media, opts)
		}
	}

	if len(eligible) == 0 {
		msg := fmt.Sprintf("No media left to search for %s", name)
		log.Info().Msg("no media left to search")
		s.history.Add(name, true, 0, msg)
		if !dryRun {
			s.notifier.NotifyRun(ctx, name, app.Kind, 0, nil)
		}
		return &Result{Application: name, SearchedCount: 0, Items: []string{}, DryRun: dryRun}, nil
	}

	selected := selectMedia(eligible, app)
	titles := make([]string, len(selected))
	for i, item := range selected {
		titles[i] = item.DisplayName(app.Kind)
	}

	if dryRun {
		msg := fmt.Sprintf("[DRY RUN] Would have searched %d media items in %s", len(selected), name)
		log.Info().Int("count", len(selected)).Msg("dry run, skipping search and tagging")
		s.history.Add(name, true, len(selected), msg)
		return &Result{Application: name, SearchedCount: len(selected), Items: titles, DryRun: true}, nil
	}

	if err := client.SearchMedia(ctx, selected); err != nil {
		return nil, err
	}
	// Tagging after the search means a failure here leaves the items
	// searched but untagged, so a later run may search them again. That is
	// preferable to tagging items whose search never started.
	if err := client.AddMediaTag(ctx, selected, tagID); err != nil {
		return nil, fmt.Errorf("searches triggered but tagging failed: %w", err)
	}

	log.Info().Int("count", len(selected)).Msg("run finished")
	s.history.Add(name, true, len(selected), fmt.Sprintf("Searched %d media items in %s", len(selected), name))
	s.notifier.NotifyRun(ctx, name, app.Kind, len(selected), titles)

	return &Result{Application: name, SearchedCount: len(selected), Items: titles}, nil
}

// RunAll executes a run for every configured application. A failure in one
// application never prevents the others from running.
func (s *Service) RunAll(ctx context.Context, dryRun bool) *AllResult {
	out := &AllResult{Items: []string{}, Results: []AppResult{}}

	for _, name := range s.store.ApplicationNames() {
		res, err := s.RunApplication(ctx, name, dryRun)
		if err != nil {
			out.Results = append(out.Results, AppResult{Application: name, Success: false, Error: err.Error()})
			continue
		}
		out.TotalSearched += res.SearchedCount
		out.Items = append(out.Items, res.Items...)
		out.Results = append(out.Results, AppResult{
			Application:   name,
			Success:       true,
			SearchedCount: res.SearchedCount,
			Items:         res.Items,
		})
	}

	return out
}

// TestConnection verifies the named application is reachable and returns its
// reported API version. Only the connection settings are required, so a
// partially configured application can still be tested.
func (s *Service) TestConnection(ctx context.Context, name string) (string, error) {
	sec, ok := s.store.Section(name)
	if !ok {
		return "", fmt.Errorf("application %q is not configured", name)
	}

	kind, err := starr.KindFromName(name)
	if err != nil {
		return "", err
	}

	client := s.newClient(starr.ClientConfig{
		Kind:   kind,
		URL:    sec.Get("Url"),
		APIKey: sec.Get("ApiKey"),
		Logger: s.logger,
	})
	return client.GetAPIVersion(ctx)
}

// selectMedia picks the items for this run. A numeric count takes a random
// sample without replacement; "max" takes the whole eligible set.
func selectMedia(eligible []starr.MediaItem, app *settings.AppSettings) []starr.MediaItem {
	if app.CountIsMax() {
		return eligible
	}

	n := app.CountValue()
	if n >= len(eligible) {
		return eligible
	}

	selected := make([]starr.MediaItem, 0, n)
	for _, i := range rand.Perm(len(eligible))[:n] {
		selected = append(selected, eligible[i])
	}
	return selected
}
