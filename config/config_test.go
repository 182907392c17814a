package config

import (
	"context"
	"testing"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("TT_DEBUG", "true")
	t.Setenv("TT_DB_PATH", "/tmp/state.db")
	t.Setenv("TT_OAUTH_CLIENT_ID", "cid")
	t.Setenv("TT_DRIVE_BASE_URL", "http://localhost:9999")

	cfg, err := ParseEnv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug || cfg.DBPath != "/tmp/state.db" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.OAuth.ClientID != "cid" {
		t.Errorf("OAuth.ClientID = %q", cfg.OAuth.ClientID)
	}
	if cfg.OAuth.RedirectURL != "http://localhost:8090/callback" {
		t.Errorf("RedirectURL default = %q", cfg.OAuth.RedirectURL)
	}
	if cfg.Drive.BaseURL != "http://localhost:9999" {
		t.Errorf("Drive.BaseURL = %q", cfg.Drive.BaseURL)
	}
}

func TestParseEnv_DefaultDBPath(t *testing.T) {
	t.Setenv("TT_DB_PATH", "")
	cfg, err := ParseEnv(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath == "" {
		t.Error("DBPath not defaulted")
	}
}
