package llm

import "fmt"

const (
	deepSeekBaseURL = "https://api.deepseek.com/v1"
	ollamaBaseURL   = "http://localhost:11434/v1"
)

type ProviderConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

func NewClient(cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "deepseek", "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("deepseek provider needs DEEPSEEK_API_KEY")
		}
		if cfg.Model == "" {
			cfg.Model = "deepseek-chat"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = deepSeekBaseURL
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider needs OPENAI_API_KEY")
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider needs ANTHROPIC_API_KEY")
		}
		return NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "ollama":
		if cfg.Model == "" {
			cfg.Model = "llama3.1"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = ollamaBaseURL
		}
		return NewOpenAIClient("ollama", cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
