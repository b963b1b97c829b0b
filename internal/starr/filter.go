package starr

import "strings"

// FilterOptions holds the eligibility criteria for FilterMedia.
type FilterOptions struct {
	// TagID is the processed-marker tag.
	TagID int
	// Monitored is matched exactly against each item's monitored flag.
	Monitored bool
	// Status, when non-empty, must match the item status case-insensitively.
	Status string
	// QualityProfileID, when non-nil, must equal the item's profile ID.
	QualityProfileID *int
	// IgnoreTagID, when non-nil, excludes items carrying it. Only applied in
	// normal mode.
	IgnoreTagID *int
	// Unattended flips the tag-presence gate: normal mode keeps items WITHOUT
	// the tag, unattended probe mode keeps items WITH it.
	Unattended bool
}

// FilterMedia selects the media items eligible for processing. It is a pure
// function: the result preserves input order and identical inputs always
// yield identical output.
func FilterMedia(media []MediaItem, opts FilterOptions) []MediaItem {
	filtered := make([]MediaItem, 0, len(media))

	for _, item := range media {
		if item.Monitored != opts.Monitored {
			continue
		}

		if opts.Unattended {
			if !item.HasTag(opts.TagID) {
				continue
			}
		} else {
			if item.HasTag(opts.TagID) {
				continue
			}
		}

		if opts.Status != "" && !strings.EqualFold(item.Status, opts.Status) {
			continue
		}

		if opts.QualityProfileID != nil && item.QualityProfileID != *opts.QualityProfileID {
			continue
		}

		if !opts.Unattended && opts.IgnoreTagID != nil && item.HasTag(*opts.IgnoreTagID) {
			continue
		}

		filtered = append(filtered, item)
	}

	return filtered
}
