package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/histview/internal/engine"
	"github.com/roach88/histview/internal/history"
	"github.com/roach88/histview/internal/prefs"
	"github.com/roach88/histview/internal/store"
)

// DatabaseFileName is the default history database name inside the config dir.
const DatabaseFileName = "history.db"

// workspace is the open history database and preference file.
type workspace struct {
	store *store.Store
	prefs *prefs.File
}

// openWorkspace opens the database and preference file named by the root
// flags, falling back to the user config directory.
func openWorkspace(opts *RootOptions) (*workspace, error) {
	prefsPath := opts.Prefs
	if prefsPath == "" {
		p, err := prefs.DefaultPath()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to locate preference file", err)
		}
		prefsPath = p
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = filepath.Join(filepath.Dir(prefsPath), DatabaseFileName)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
	}

	pf, err := prefs.Open(prefsPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open preferences", err)
	}

	slog.Debug("opening database", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	return &workspace{store: st, prefs: pf}, nil
}

// Close closes the database.
func (w *workspace) Close() {
	if err := w.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// sourceID returns the active source: the flag value if set (remembered
// for next time), otherwise the last remembered one.
func (w *workspace) sourceID(flag string) (string, error) {
	if flag == "" {
		return w.prefs.LastSourceID(), nil
	}
	if flag != w.prefs.LastSourceID() {
		if err := w.prefs.SetLastSourceID(flag); err != nil {
			return "", fmt.Errorf("remember source: %w", err)
		}
	}
	return flag, nil
}

// startEngine creates and starts an engine over the workspace and waits
// until the first store snapshot has been reduced.
func (w *workspace) startEngine(ctx context.Context, sourceID string) (*engine.Engine, error) {
	eng := engine.New(w.store, w.prefs, engine.SourceID(sourceID),
		engine.WithLogger(slog.Default().With("component", "engine")),
	)
	if err := eng.Start(ctx); err != nil {
		return nil, err
	}

	if _, err := eng.WaitForState(ctx, func(s history.State) bool { return s.Loaded }); err != nil {
		eng.Dispose()
		return nil, fmt.Errorf("load history: %w", err)
	}
	return eng, nil
}

// commandContext returns the command's context, cancelled on SIGINT or
// SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan) // Prevent signal handler leak
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
