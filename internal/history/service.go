package history

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/pristinarr/pristinarr/internal/logger"
)

const (
	// capacity bounds the in-memory log; the oldest record is evicted first.
	capacity     = 100
	defaultLimit = 50
)

// Service is the bounded in-memory run history. Run state is deliberately not
// persisted; a restart starts with an empty log.
type Service struct {
	buffer *logger.RingBuffer[Record]
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new run history service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		buffer: logger.NewRingBuffer[Record](capacity),
		logger: log.With().Str("component", "history").Logger(),
		now:    time.Now,
	}
}

// Add appends one run outcome.
func (s *Service) Add(application string, success bool, searchedCount int, message string) {
	s.buffer.Push(Record{
		Timestamp:     s.now(),
		Application:   application,
		Success:       success,
		SearchedCount: searchedCount,
		Message:       message,
	})

	s.logger.Debug().
		Str("application", application).
		Bool("success", success).
		Int("searched", searchedCount).
		Msg("recorded run")
}

// List returns up to limit records, most recent first. A non-positive limit
// falls back to the default of 50.
func (s *Service) List(limit int) []Record {
	if limit <= 0 {
		limit = defaultLimit
	}

	all := s.buffer.All()
	if len(all) > limit {
		all = all[len(all)-limit:]
	}

	out := make([]Record, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
	}
	return out
}
