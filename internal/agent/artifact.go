package agent

// Artifact is the structured note the agent produces. Hashtags and Emojis
// keep the model's order and may be empty.
type Artifact struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Hashtags []string `json:"hashtags"`
	Emojis   []string `json:"emojis"`
}
