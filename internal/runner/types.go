package runner

// Result is the outcome of one application run.
type Result struct {
	Application   string   `json:"application"`
	SearchedCount int      `json:"searchedCount"`
	Items         []string `json:"items"`
	DryRun        bool     `json:"dryRun,omitempty"`
}

// AppResult is one application's entry in a run-all outcome.
type AppResult struct {
	Application   string   `json:"application"`
	Success       bool     `json:"success"`
	SearchedCount int      `json:"searchedCount,omitempty"`
	Items         []string `json:"items,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// AllResult aggregates a run across every configured application. Only
// successful runs contribute to TotalSearched and Items.
type AllResult struct {
	TotalSearched int         `json:"totalSearched"`
	Items         []string    `json:"items"`
	Results       []AppResult `json:"results"`
}
