package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"igmobile/pkg/config"
	"igmobile/pkg/instagram"
	"igmobile/pkg/logger"
	"igmobile/pkg/state"
	"igmobile/pkg/ui"
)

var (
	version   = "0.1.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile   string
	logLevel     string
	username     string
	devicePreset string
	stateDir     string
	stateBackend string
	noColor      bool
	quiet        bool

	cfg   *config.Config
	store state.Store
	out   *ui.Printer
)

var rootCmd = &cobra.Command{
	Use:   "igmobile",
	Short: "Command-line client for the Instagram mobile API",
	Long: `igmobile talks to Instagram the way the Android application does.

The session (device identity, cookies and login) is kept per account in the
state store and reused by every command, so you only log in once.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		out = ui.Stdout(noColor)
		out.SetQuiet(quiet)

		flags := map[string]interface{}{
			"username":      username,
			"device":        devicePreset,
			"state":         stateDir,
			"state-backend": stateBackend,
			"log-level":     logLevel,
		}

		var err error
		if cfg, err = config.Load(configFile, flags); err != nil {
			return err
		}
		if err := logger.Initialize(&cfg.Logging); err != nil {
			return err
		}
		store, err = state.Open(cfg.State, logger.GetLogger())
		return err
	},
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if out == nil {
			out = ui.Stdout(noColor)
		}
		out.Error("Error", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .igmobile.yaml or ~/.config/igmobile/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "account to act as")
	rootCmd.PersistentFlags().StringVar(&devicePreset, "device", "", "device preset for new sessions")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state", "", "state directory")
	rootCmd.PersistentFlags().StringVar(&stateBackend, "state-backend", "", "state backend (file, encrypted, keyring)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only results and errors")

	rootCmd.SetVersionTemplate(`igmobile {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// withClient restores the account's client, runs fn and persists the
// resulting state, also when fn failed.
func withClient(ctx context.Context, fn func(ctx context.Context, c *instagram.Client) error) error {
	key := cfg.Account.Username
	if key == "" {
		return errors.New("no account selected: use --username or IGMOBILE_USERNAME")
	}

	log := logger.GetLogger().WithField("username", key)
	c, found, err := state.LoadClient(store, key, cfg, instagram.WithLogger(log))
	if err != nil {
		return err
	}
	log.WithField("restored", found).Debug("Client ready")

	runErr := fn(ctx, c)
	if err := state.SaveClient(store, key, c); err != nil {
		log.WithError(err).Error("Failed to save state")
		if runErr == nil {
			return err
		}
	}
	return runErr
}

// requireLogin wraps fn for commands that need a logged in session
func requireLogin(fn func(ctx context.Context, c *instagram.Client) error) func(ctx context.Context, c *instagram.Client) error {
	return func(ctx context.Context, c *instagram.Client) error {
		if !c.IsAuthenticated() {
			return errors.New("not logged in: run 'igmobile login' first")
		}
		return fn(ctx, c)
	}
}
