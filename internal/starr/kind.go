package starr

import (
	"fmt"
	"strings"
)

// Kind identifies which Starr application family a client talks to.
type Kind int

const (
	KindRadarr Kind = iota
	KindSonarr
	KindLidarr
	KindReadarr
)

// Kinds lists all supported application kinds.
var Kinds = []Kind{KindRadarr, KindSonarr, KindLidarr, KindReadarr}

func (k Kind) String() string {
	switch k {
	case KindRadarr:
		return "radarr"
	case KindSonarr:
		return "sonarr"
	case KindLidarr:
		return "lidarr"
	case KindReadarr:
		return "readarr"
	default:
		return "radarr"
	}
}

// Conventions captures the per-kind endpoint and field naming differences
// between the Starr applications.
type Conventions struct {
	MediaEndpoint       string
	EditorEndpoint      string
	IDField             string
	SearchCommand       string
	SearchIDField       string
	SupportsBatchSearch bool
}

var conventions = map[Kind]Conventions{
	KindRadarr: {
		MediaEndpoint:       "movie",
		EditorEndpoint:      "movie/editor",
		IDField:             "movieIds",
		SearchCommand:       "MoviesSearch",
		SearchIDField:       "movieIds",
		SupportsBatchSearch: true,
	},
	KindSonarr: {
		MediaEndpoint:  "series",
		EditorEndpoint: "series/editor",
		IDField:        "seriesIds",
		SearchCommand:  "SeriesSearch",
		// Sonarr's search command takes a singular ID, one command per series.
		SearchIDField: "seriesId",
	},
	KindLidarr: {
		MediaEndpoint:  "artist",
		EditorEndpoint: "artist/editor",
		IDField:        "artistIds",
		SearchCommand:  "ArtistSearch",
		SearchIDField:  "artistId",
	},
	KindReadarr: {
		MediaEndpoint:  "author",
		EditorEndpoint: "author/editor",
		IDField:        "authorIds",
		SearchCommand:  "AuthorSearch",
		SearchIDField:  "authorId",
	},
}

// Conventions returns the endpoint and field naming conventions for the kind.
// Unrecognized values fall back to Radarr's conventions.
func (k Kind) Conventions() Conventions {
	if c, ok := conventions[k]; ok {
		return c
	}
	return conventions[KindRadarr]
}

// StatusKey returns the settings key holding the status filter for the kind.
func (k Kind) StatusKey() string {
	switch k {
	case KindSonarr:
		return "SeriesStatus"
	case KindLidarr:
		return "ArtistStatus"
	case KindReadarr:
		return "AuthorStatus"
	default:
		return "MovieStatus"
	}
}

// ValidStatuses returns the status vocabulary the kind's API uses.
func (k Kind) ValidStatuses() []string {
	switch k {
	case KindSonarr:
		return []string{"continuing", "ended", "upcoming", "deleted"}
	case KindLidarr, KindReadarr:
		return []string{"continuing", "ended"}
	default:
		return []string{"tba", "announced", "incinemas", "released", "deleted"}
	}
}

// KindFromName determines the application kind from a configured application
// name, which must contain one of the kind keywords.
func KindFromName(name string) (Kind, error) {
	lower := strings.ToLower(name)
	for _, k := range Kinds {
		if strings.Contains(lower, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("cannot determine application kind from %q: name must contain one of radarr, sonarr, lidarr, readarr", name)
}
