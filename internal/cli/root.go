// Package cli wires the scouting packages into the scout command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-scouting/internal/config"
	"github.com/goliatone/go-scouting/internal/logging"
	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/renderers/tui"
	"github.com/goliatone/go-scouting/pkg/storage"
)

// Option customises the command tree, mostly for tests.
type Option func(*app)

// WithOutput redirects command output and log lines.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *app) {
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// WithPromptDriver replaces the interactive survey driver.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithClock fixes the time used to name saved records.
func WithClock(now func() time.Time) Option {
	return func(a *app) {
		if now != nil {
			a.now = now
		}
	}
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	driver tui.PromptDriver
	now    func() time.Time

	viper      *viper.Viper
	configPath string

	cfg    config.Config
	logger *slog.Logger
	store  *storage.FileStore
}

// NewRootCommand builds the scout command tree.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
		viper:  config.NewViper(),
		logger: logging.Discard(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:           "scout",
		Short:         "Fill, review, and export match scouting forms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./scout.yaml)")
	flags.String("data-dir", "", "directory holding saved matches")
	flags.String("layout", "", "layout file (default: embedded match layout)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	a.bind(config.KeyDataDir, flags.Lookup("data-dir"))
	a.bind(config.KeyLayout, flags.Lookup("layout"))
	a.bind(config.KeyLogLevel, flags.Lookup("log-level"))
	a.bind(config.KeyLogFormat, flags.Lookup("log-format"))

	root.AddCommand(
		newFillCommand(a),
		newListCommand(a),
		newShowCommand(a),
		newDeleteCommand(a),
		newExportCommand(a),
		newBundleCommand(a),
		newLayoutCommand(a),
	)
	return root
}

// Execute runs the command tree with args and returns the process exit code.
func Execute(ctx context.Context, args []string, options ...Option) int {
	root := NewRootCommand(options...)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(root.ErrOrStderr(), "Aborted.")
			return 130
		}
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// bind lets a flag override the config file and environment for key. Viper
// only prefers the flag when it was set on the command line.
func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("cli: bind %s: %v", key, err))
	}
}

func (a *app) setup() error {
	cfg, err := config.Load(a.viper, a.configPath)
	if err != nil {
		return err
	}
	logCfg := cfg.Logging()
	logCfg.Output = a.stderr
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.logger.Debug("config loaded", "data_dir", cfg.DataDir, "layout", cfg.Layout)
	return nil
}

// openStore creates the data directory on first use so commands that never
// touch records leave the filesystem alone.
func (a *app) openStore() (*storage.FileStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := storage.New(a.cfg.DataDir,
		storage.WithClock(a.now),
		storage.WithLogger(a.logger),
		storage.WithCacheSize(a.cfg.CacheSize),
	)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

func (a *app) loadScreen() (layout.Screen, error) {
	if a.cfg.Layout == "" {
		return layout.Default()
	}
	return layout.LoadFile(a.cfg.Layout)
}

func (a *app) promptDriver() tui.PromptDriver {
	if a.driver == nil {
		a.driver = tui.NewSurveyDriver(a.stdout)
	}
	return a.driver
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}
