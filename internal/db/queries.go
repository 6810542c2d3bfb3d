package db

type Product struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Note is one generated artifact as stored.
type Note struct {
	ID        int64    `json:"id"`
	RunID     string   `json:"run_id"`
	Product   string   `json:"product"`
	Style     string   `json:"style"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Hashtags  []string `json:"hashtags"`
	Emojis    []string `json:"emojis"`
	Rounds    int      `json:"rounds"`
	CreatedAt string   `json:"created_at"`
}

type Schedule struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CronExpr  string `json:"cron_expr"`
	Product   string `json:"product"`
	Style     string `json:"style"`
	Enabled   bool   `json:"enabled"`
	LastRun   string `json:"last_run,omitempty"`
	CreatedAt string `json:"created_at"`
}
