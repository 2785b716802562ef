package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:":3000"`
	ViewsDir string `envconfig:"VIEWS_DIR" default:"./static"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"console"`
	LogOutput   string `envconfig:"LOG_OUTPUT" default:""`

	// OpenAI-compatible endpoint for character replies and transcription.
	AIBaseURL         string        `envconfig:"AI_BASE_URL" default:"https://api.groq.com/openai/v1"`
	AIModel           string        `envconfig:"AI_MODEL" default:"meta-llama/llama-4-scout-17b-16e-instruct"`
	AIAPIKey          string        `envconfig:"GROQ_API_KEY"`
	AITimeout         time.Duration `envconfig:"AI_TIMEOUT" default:"20s"`
	AIMaxTokens       int           `envconfig:"AI_MAX_TOKENS" default:"50"`
	AITemperature     float32       `envconfig:"AI_TEMPERATURE" default:"0.7"`
	TranscribeModel   string        `envconfig:"TRANSCRIBE_MODEL" default:"whisper-large-v3"`
	TranscribeMaxSize int           `envconfig:"TRANSCRIBE_MAX_BYTES" default:"26214400"`

	ReplyDelay     time.Duration `envconfig:"REPLY_DELAY" default:"500ms"`
	WitnessChance  float64       `envconfig:"WITNESS_CHANCE" default:"0.3"`
	HumorousChance float64       `envconfig:"HUMOROUS_CHANCE" default:"0.35"`
	UseFallbacks   bool          `envconfig:"USE_FALLBACKS" default:"true"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"2h"`
	SweepInterval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"5m"`
	AutoAdvance    time.Duration `envconfig:"AUTO_ADVANCE_INTERVAL" default:"2s"`

	// Empty RedisAddr keeps verdicts in the log only.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	LedgerStream  string        `envconfig:"LEDGER_STREAM" default:"courtroom:verdicts"`
	LedgerTimeout time.Duration `envconfig:"LEDGER_TIMEOUT" default:"5s"`
}

// AIEnabled reports whether character replies go to the upstream model.
func (c *Config) AIEnabled() bool {
	return c.AIAPIKey != ""
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.WitnessChance < 0 || cfg.WitnessChance > 1 {
		return nil, fmt.Errorf("WITNESS_CHANCE must be within [0,1], got %v", cfg.WitnessChance)
	}
	if cfg.HumorousChance < 0 || cfg.HumorousChance > 1 {
		return nil, fmt.Errorf("HUMOROUS_CHANCE must be within [0,1], got %v", cfg.HumorousChance)
	}
	return &cfg, nil
}
