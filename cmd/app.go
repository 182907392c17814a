// Package cmd implements the CLI to manage a trade ledger and its
// workspace synchronization.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/yalkhatib/tradetracker"
	"github.com/yalkhatib/tradetracker/auth"
	"github.com/yalkhatib/tradetracker/config"
	"github.com/yalkhatib/tradetracker/drive"
	"github.com/yalkhatib/tradetracker/localstore"
	"github.com/yalkhatib/tradetracker/rates"
	"github.com/yalkhatib/tradetracker/syncer"
)

// Commands lists every subcommand; the main package registers them.
var Commands = []subcommands.Command{
	&addCmd{},
	&editCmd{},
	&rmCmd{},
	&clearCmd{},
	&commentCmd{},
	&listCmd{},
	&dashboardCmd{},
	&monthsCmd{},
	&convertCmd{},
	&ratesCmd{},
	&signinCmd{},
	&signoutCmd{},
	&deleteAccountCmd{},
	&workspaceCreateCmd{},
	&workspaceJoinCmd{},
	&workspaceLeaveCmd{},
	&membersCmd{},
	&setRoleCmd{},
	&removeMemberCmd{},
	&blockCmd{},
	&activityCmd{},
	&currencyAddCmd{},
	&currencyRmCmd{},
	&currencyDefaultCmd{},
	&syncCmd{},
	&backupCmd{},
	&revisionsCmd{},
	&restoreCmd{},
	&revisionRmCmd{},
	&exportCmd{},
	&importCmd{},
	&shellCmd{},
}

// App wires the components a command needs.
type App struct {
	Config  config.Config
	Store   *localstore.Store
	Session *auth.Session
	Remote  *drive.Client
	Engine  *syncer.Engine
	Log     *zap.SugaredLogger
}

const (
	authURL  = "https://accounts.google.com/o/oauth2/auth"
	tokenURL = "https://oauth2.googleapis.com/token"
)

// openApp loads config, opens the local store, resumes the session and
// builds the sync engine. Callers must Close it.
func openApp(ctx context.Context) (*App, error) {
	cfg, err := config.ParseEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}

	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	log := logger.Sugar()

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		return nil, err
	}
	store, err := localstore.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	session := auth.NewSession(store, auth.Config{
		OAuth: oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/drive.file", "email"},
			Endpoint:     oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL},
		},
		UserinfoURL: cfg.OAuth.UserinfoURL,
	})
	if err := session.Resume(ctx); err != nil {
		// an expired stored token just means a clean signed-out start
		log.Debugw("session resume", "error", err)
	}

	remote := drive.NewClient(drive.ClientConfig{
		BaseURL:   cfg.Drive.BaseURL,
		UploadURL: cfg.Drive.UploadURL,
		Token:     session.Token(),
	})

	engine := syncer.New(store, remote, log)
	if err := engine.Load(); err != nil {
		store.Close()
		return nil, err
	}
	engine.SetIdentity(session.Email(), false)
	engine.OnAuthExpired = func() {
		fmt.Fprintln(os.Stderr, "Your session has expired, please sign in again.")
		if err := session.SignOut(); err != nil {
			log.Warnw("sign-out after expiry failed", "error", err)
		}
	}

	return &App{Config: cfg, Store: store, Session: session, Remote: remote, Engine: engine, Log: log}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	_ = a.Log.Sync()
	_ = a.Store.Close()
}

// requireAuth fails commands that need a signed-in session.
func (a *App) requireAuth() error {
	if !a.Session.SignedIn() {
		return fmt.Errorf("not signed in, run 'tt signin' first")
	}
	return nil
}

// loadRates returns the best available rate table.
func (a *App) loadRates() tradetracker.Rates {
	table, source := rates.NewCache(a.Store, a.Config.RatesFeedURL).Load()
	if source != "feed" {
		fmt.Fprintf(os.Stderr, "note: using %s exchange rates\n", source)
	}
	return table
}

// confirm asks a yes/no question on the terminal.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// fail prints an error and returns the failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
