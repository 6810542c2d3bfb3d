package config

import (
	"os"
	"strconv"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/joho/godotenv"
)

type Config struct {
	LLMProvider     string // deepseek, openai, anthropic, ollama
	DeepSeekKey     string
	OpenAIKey       string
	AnthropicKey    string
	LLMModel        string
	LLMBaseURL      string
	MaxIterations   int
	ModelTimeout    time.Duration
	DefaultStyle    string
	SimulateLatency bool
	DatabasePath    string
	DiscordToken    string
	DiscordWebhook  string
	GenerateCron    string
	ScheduleProduct string
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		LLMProvider:     envOr("LLM_PROVIDER", "deepseek"),
		DeepSeekKey:     os.Getenv("DEEPSEEK_API_KEY"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:    os.Getenv("ANTHROPIC_API_KEY"),
		LLMModel:        os.Getenv("LLM_MODEL"),
		LLMBaseURL:      os.Getenv("LLM_BASE_URL"),
		MaxIterations:   envInt("MAX_ITERATIONS", 5),
		ModelTimeout:    envDuration("MODEL_TIMEOUT", 60*time.Second),
		DefaultStyle:    envOr("DEFAULT_STYLE", "活泼甜美"),
		SimulateLatency: misc.Truthy(envOr("SIMULATE_LATENCY", "true")),
		DatabasePath:    envOr("DATABASE_PATH", "./rednote.db"),
		DiscordToken:    os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordWebhook:  os.Getenv("DISCORD_WEBHOOK_URL"),
		GenerateCron:    os.Getenv("GENERATE_CRON"),
		ScheduleProduct: envOr("SCHEDULE_PRODUCT", "深海蓝藻保湿面膜"),
	}
}

// APIKey returns the credential matching the configured provider.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIKey
	case "anthropic":
		return c.AnthropicKey
	case "ollama":
		return ""
	default:
		return c.DeepSeekKey
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
