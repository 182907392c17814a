// Package config loads the application configuration from the
// environment, with an optional .env file for development setups.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Debug bool `env:"TT_DEBUG"`

	// DBPath is the local state file. Empty picks
	// $HOME/.tradetracker/state.db.
	DBPath string `env:"TT_DB_PATH"`

	OAuth OAuthConfig `env:",prefix=TT_OAUTH_"`
	Drive DriveConfig `env:",prefix=TT_DRIVE_"`

	// RatesFeedURL overrides the exchange-rate feed.
	RatesFeedURL string `env:"TT_RATES_FEED_URL"`
}

type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	// RedirectURL receives the authorization code during sign-in.
	RedirectURL string `env:"REDIRECT_URL,default=http://localhost:8090/callback"`
	UserinfoURL string `env:"USERINFO_URL"`
}

type DriveConfig struct {
	BaseURL   string `env:"BASE_URL"`
	UploadURL string `env:"UPLOAD_URL"`
}

// ParseEnv loads .env when present, then parses the environment.
func ParseEnv(ctx context.Context) (Config, error) {
	_ = godotenv.Load() // absent .env is fine
	cfg := Config{}
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.DBPath = filepath.Join(home, ".tradetracker", "state.db")
	}
	return cfg, nil
}
