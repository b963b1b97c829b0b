package starr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	//nolint:gosec // header name constant, not a credential
	apiKeyHeader = "X-Api-Key"

	defaultAPIVersion = "v3"
)

// Client talks to a single Starr application instance over HTTP, hiding the
// per-kind endpoint and field naming differences.
//
// Construction performs no I/O; an unreachable URL or bad API key surfaces on
// the first call.
type Client struct {
	kind       Kind
	baseURL    string
	apiKey     string
	apiVersion string
	httpClient *http.Client
	logger     zerolog.Logger
}

// ClientConfig contains configuration for creating a new Starr client.
type ClientConfig struct {
	Kind       Kind
	URL        string
	APIKey     string
	APIVersion string // optional; fetched via GetAPIVersion when empty
	Logger     zerolog.Logger
}

// NewClient creates a new Starr client.
func NewClient(cfg ClientConfig) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	return &Client{
		kind:       cfg.Kind,
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: version,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger: cfg.Logger.With().
			Str("component", "starr-client").
			Str("kind", cfg.Kind.String()).
			Logger(),
	}
}

// Kind returns the application kind this client talks to.
func (c *Client) Kind() Kind {
	return c.kind
}

// apiURL builds a versioned API URL for the given endpoint.
func (c *Client) apiURL(endpoint string) string {
	return fmt.Sprintf("%s/api/%s/%s", c.baseURL, c.apiVersion, endpoint)
}

// do executes a request with the API key header and validates the response
// status. A non-2xx status is returned as an *APIError.
func (c *Client) do(ctx context.Context, method, url, op string, body, result any) error {
	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("method", method).
		Str("op", op).
		Msg("executing request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("op", op).
			Msg("request returned error status")
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    statusMessage(resp.StatusCode),
			Kind:       c.kind,
			Op:         op,
		}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", op, err)
		}
	}

	return nil
}

// GetAPIVersion fetches the current API version from the application's
// discovery endpoint and stores it for subsequent calls. Applications that
// omit the field default to "v3".
func (c *Client) GetAPIVersion(ctx context.Context) (string, error) {
	var discovery struct {
		Current string `json:"current"`
	}

	if err := c.do(ctx, http.MethodGet, c.baseURL+"/api", "get_api_version", nil, &discovery); err != nil {
		return "", err
	}

	version := discovery.Current
	if version == "" {
		version = defaultAPIVersion
	}
	c.apiVersion = version

	c.logger.Debug().Str("version", version).Msg("resolved API version")
	return version, nil
}

// GetMedia fetches all media items (movies, series, artists, or authors).
func (c *Client) GetMedia(ctx context.Context) ([]MediaItem, error) {
	var media []MediaItem
	endpoint := c.kind.Conventions().MediaEndpoint
	if err := c.do(ctx, http.MethodGet, c.apiURL(endpoint), "get_media", nil, &media); err != nil {
		return nil, err
	}
	return media, nil
}

// GetTags fetches all tags from the application.
func (c *Client) GetTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.do(ctx, http.MethodGet, c.apiURL("tag"), "get_tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// GetTagID looks up a tag ID by label, case-insensitively. The second return
// value reports whether the tag exists.
func (c *Client) GetTagID(ctx context.Context, name string) (int, bool, error) {
	tags, err := c.GetTags(ctx)
	if err != nil {
		return 0, false, err
	}

	for _, tag := range tags {
		if strings.EqualFold(tag.Label, name) {
			return tag.ID, true, nil
		}
	}
	return 0, false, nil
}

// CreateTag creates a new tag and returns its assigned ID.
func (c *Client) CreateTag(ctx context.Context, name string) (int, error) {
	var created Tag
	body := map[string]string{"label": name}
	if err := c.do(ctx, http.MethodPost, c.apiURL("tag"), "create_tag", body, &created); err != nil {
		return 0, err
	}

	c.logger.Info().Str("tag", name).Int("id", created.ID).Msg("created tag")
	return created.ID, nil
}

// GetOrCreateTag looks up a tag by label, creating it when missing. The
// lookup and create are separate calls; a tag created externally in between
// results in a duplicate label, which the applications tolerate.
func (c *Client) GetOrCreateTag(ctx context.Context, name string) (int, error) {
	id, found, err := c.GetTagID(ctx, name)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}

	c.logger.Warn().Str("tag", name).Msg("tag does not exist, creating it now")
	return c.CreateTag(ctx, name)
}

// GetQualityProfiles fetches all quality profiles.
func (c *Client) GetQualityProfiles(ctx context.Context) ([]QualityProfile, error) {
	var profiles []QualityProfile
	if err := c.do(ctx, http.MethodGet, c.apiURL("qualityprofile"), "get_quality_profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetQualityProfileID looks up a quality profile ID by name,
// case-insensitively. A missing profile is an error.
func (c *Client) GetQualityProfileID(ctx context.Context, name string) (int, error) {
	profiles, err := c.GetQualityProfiles(ctx)
	if err != nil {
		return 0, err
	}

	for _, profile := range profiles {
		if strings.EqualFold(profile.Name, name) {
			return profile.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q does not exist in %s", ErrQualityProfileNotFound, name, c.kind)
}

// AddMediaTag adds a tag to the given media items in a single bulk edit.
// No call is issued for an empty item list.
func (c *Client) AddMediaTag(ctx context.Context, media []MediaItem, tagID int) error {
	return c.editTags(ctx, media, tagID, "add")
}

// RemoveMediaTag removes a tag from the given media items in a single bulk
// edit. No call is issued for an empty item list.
func (c *Client) RemoveMediaTag(ctx context.Context, media []MediaItem, tagID int) error {
	return c.editTags(ctx, media, tagID, "remove")
}

func (c *Client) editTags(ctx context.Context, media []MediaItem, tagID int, apply string) error {
	if len(media) == 0 {
		return nil
	}

	conv := c.kind.Conventions()
	body := map[string]any{
		conv.IDField: mediaIDs(media),
		"tags":       []int{tagID},
		"applyTags":  apply,
	}

	op := "add_media_tag"
	if apply == "remove" {
		op = "remove_media_tag"
	}

	if err := c.do(ctx, http.MethodPut, c.apiURL(conv.EditorEndpoint), op, body, nil); err != nil {
		return err
	}

	c.logger.Info().
		Int("count", len(media)).
		Int("tagId", tagID).
		Str("apply", apply).
		Msg("bulk edited tags")
	return nil
}

// SearchMedia triggers an asynchronous search for the given items. Radarr
// accepts one batched command with all IDs; the other kinds only accept one
// command per item, issued sequentially, so a failure aborts at that item and
// leaves earlier searches running.
func (c *Client) SearchMedia(ctx context.Context, media []MediaItem) error {
	if len(media) == 0 {
		return nil
	}

	conv := c.kind.Conventions()
	commandURL := c.apiURL("command")

	if conv.SupportsBatchSearch {
		body := map[string]any{
			"name":             conv.SearchCommand,
			conv.SearchIDField: mediaIDs(media),
		}
		if err := c.do(ctx, http.MethodPost, commandURL, "search_media", body, nil); err != nil {
			return err
		}
	} else {
		for _, item := range media {
			body := map[string]any{
				"name":             conv.SearchCommand,
				conv.SearchIDField: item.ID,
			}
			if err := c.do(ctx, http.MethodPost, commandURL, "search_media", body, nil); err != nil {
				return err
			}
		}
	}

	c.logger.Info().Int("count", len(media)).Msg("started search")
	return nil
}

func mediaIDs(media []MediaItem) []int {
	ids := make([]int, 0, len(media))
	for _, item := range media {
		ids = append(ids, item.ID)
	}
	return ids
}
