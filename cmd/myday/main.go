package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"myday/internal/clock"
	"myday/internal/config"
	"myday/internal/logging"
	"myday/internal/storage"
	"myday/internal/task"
	"myday/internal/ui"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "myday",
		Short: "Personal task tracker",
		Long: `myday keeps a personal task list with My Day, Important, Planned and
All Tasks pages. Run without arguments for the interactive view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()
			return ui.Run(a.store, a.clock, a.cfg, a.logger)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default $MYDAY_CONFIG or user config dir)")

	root.AddCommand(newAddCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newEditCmd())
	root.AddCommand(newToggleCmd("done", "Toggle a task between todo and done", (*task.Store).ToggleStatus))
	root.AddCommand(newToggleCmd("star", "Toggle a task's important flag", (*task.Store).ToggleImportant))
	root.AddCommand(newToggleCmd("rm", "Delete a task", (*task.Store).Delete))
	root.AddCommand(newStatsCmd())
	return root
}

// app is everything a command needs, composed once per invocation.
type app struct {
	cfg    config.Config
	clock  clock.Clock
	logger *zap.Logger
	store  *task.Store
	warn   io.Writer
	closer io.Closer
}

// openApp composes the app. When writable is set, a failed read of the saved
// tasks is fatal: the store would hold the defaults and the next save would
// replace the user's tasks with them.
func openApp(ctx context.Context, warn io.Writer, writable bool) (*app, error) {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, clock: clock.System{}, logger: logger, warn: warn}
	kv, closer, err := openKV(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Backend, err)
	}
	a.closer = closer

	if err := a.load(ctx, kv, writable); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// load builds the store over kv and reads the saved tasks into it.
func (a *app) load(ctx context.Context, kv storage.KV, writable bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a.store = task.NewStore(kv, a.clock, task.WithKey(a.cfg.StorageKey), task.WithLogger(a.logger))
	err := a.store.Load(ctx)
	if writable && task.IsReadFailure(err) {
		return fmt.Errorf("saved tasks could not be read, refusing to change them: %w", err)
	}
	return a.warnIf(err)
}

func openKV(cfg config.Config) (storage.KV, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		kv, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	case config.BackendRedis:
		kv := storage.NewRedis(storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return kv, kv, nil
	case config.BackendMemory:
		return storage.NewMemory(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// warnIf prints persistence warnings and passes every other error through.
func (a *app) warnIf(err error) error {
	if err == nil {
		return nil
	}
	if task.IsWarning(err) {
		fmt.Fprintln(a.warn, "warning:", err)
		return nil
	}
	return err
}

func (a *app) Close() {
	_ = a.logger.Sync()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			a.logger.Warn("Failed to close storage", zap.Error(err))
		}
	}
}
