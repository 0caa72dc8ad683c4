package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// NavTimeout bounds a single page navigation plus readiness wait.
	NavTimeout time.Duration `envconfig:"NAV_TIMEOUT" default:"30s"`

	// NavRetries is how many times a timed-out navigation is retried
	// before the error is surfaced to the caller.
	NavRetries int `envconfig:"NAV_RETRIES" default:"2"`

	// ScrollPause is the wait between lazy-load scroll steps.
	ScrollPause time.Duration `envconfig:"SCROLL_PAUSE" default:"1500ms"`

	// MaxScrollAttempts bounds the scroll loop on broken pages.
	MaxScrollAttempts int `envconfig:"MAX_SCROLL_ATTEMPTS" default:"20"`

	// MaxScrollStalls is how many consecutive scrolls may yield no new
	// listing URLs before the collector treats the page as exhausted.
	MaxScrollStalls int `envconfig:"MAX_SCROLL_STALLS" default:"3"`

	// DelayMin/DelayMax bracket the jittered pause between detail pages.
	DelayMin time.Duration `envconfig:"DELAY_MIN" default:"2s"`
	DelayMax time.Duration `envconfig:"DELAY_MAX" default:"5s"`

	UserAgent string `envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`

	WindowWidth  int `envconfig:"WINDOW_WIDTH" default:"1920"`
	WindowHeight int `envconfig:"WINDOW_HEIGHT" default:"1080"`

	// FlushEvery writes intermediate JSON/CSV after this many restaurants.
	FlushEvery int `envconfig:"FLUSH_EVERY" default:"5"`

	JSONPath string `envconfig:"JSON_PATH" default:"foodpanda_data.json"`
	CSVPath  string `envconfig:"CSV_PATH" default:"foodpanda_data.csv"`
}

// Load processes environment variables and populates the Config struct.
func Load() (*Config, error) {
	// Try to load .env first. Missing file is fine: in Docker/CI the vars
	// are injected directly.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			log.Printf("Warning: .env file found but could not be loaded: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.DelayMax < cfg.DelayMin {
		cfg.DelayMin, cfg.DelayMax = cfg.DelayMax, cfg.DelayMin
	}
	return &cfg, nil
}
