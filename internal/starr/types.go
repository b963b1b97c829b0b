package starr

// MediaItem is a media record as returned by a Starr application. Only the
// fields the run engine consumes are decoded; the rest of the payload is
// dropped.
type MediaItem struct {
	ID               int    `json:"id"`
	Title            string `json:"title,omitempty"`
	ArtistName       string `json:"artistName,omitempty"`
	AuthorName       string `json:"authorName,omitempty"`
	Monitored        bool   `json:"monitored"`
	Status           string `json:"status,omitempty"`
	QualityProfileID int    `json:"qualityProfileId,omitempty"`
	Tags             []int  `json:"tags,omitempty"`
}

// DisplayName returns the human-readable name for the item. The field holding
// it differs per kind.
func (m MediaItem) DisplayName(kind Kind) string {
	var name string
	switch kind {
	case KindLidarr:
		name = m.ArtistName
	case KindReadarr:
		name = m.AuthorName
	default:
		name = m.Title
	}
	if name == "" {
		return "Unknown"
	}
	return name
}

// HasTag reports whether the item carries the given tag ID.
func (m MediaItem) HasTag(tagID int) bool {
	for _, t := range m.Tags {
		if t == tagID {
			return true
		}
	}
	return false
}

// Tag is a Starr tag. Labels are matched case-insensitively.
type Tag struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// QualityProfile is a Starr quality profile.
type QualityProfile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
