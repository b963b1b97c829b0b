package history

import "time"

// Record is one run outcome.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	Application   string    `json:"application"`
	Success       bool      `json:"success"`
	SearchedCount int       `json:"searchedCount"`
	Message       string    `json:"message"`
}
