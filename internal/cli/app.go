package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"daytodo/internal/config"
	"daytodo/internal/storage"
	"daytodo/internal/tracker"
	"daytodo/internal/weather"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	cfg     config.Config
	adapter *storage.Adapter
	tracker *tracker.Tracker
	logFile *os.File
}

// openApp loads config, opens the configured backend and restores the tracker from it.
// Storage read failures are reported on stderr and the tracker starts from what it could load.
func openApp(cmd *cobra.Command, opts *rootOptions) (*app, error) {
	path := opts.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := config.LoadEnv(&cfg, opts.envFile); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if opts.backend != "" {
		cfg.Backend = strings.ToLower(opts.backend)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logFile, err := openLog(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	logger := log.Default()

	backend, err := openBackend(cfg)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	adapter := storage.NewAdapter(backend, logger)

	t := tracker.New(adapter, tracker.Options{
		Fetcher: weather.NewDemoFetcher(cfg.WeatherLocation),
		Logger:  logger,
	})
	if err := t.Load(cmd.Context()); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}
	logger.Printf("cli: opened %s backend (config %s)", cfg.Backend, path)

	return &app{cfg: cfg, adapter: adapter, tracker: t, logFile: logFile}, nil
}

// close flushes pending writes before releasing the backend.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.tracker.Close(ctx); err != nil {
		log.Printf("cli: flush on close: %v", err)
	}
	if err := a.adapter.Close(); err != nil {
		log.Printf("cli: close backend: %v", err)
	}
	a.logFile.Close()
}

func openBackend(cfg config.Config) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return storage.OpenSQLite(cfg.DBPath)
	case config.BackendRedis:
		return storage.OpenRedis(cfg.RedisAddr, cfg.RedisPrefix)
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return tea.LogToFile(path, config.AppName)
}

// confirm asks a y/N question on the command's streams unless assumeYes is set.
func confirm(cmd *cobra.Command, prompt string, assumeYes bool) bool {
	if assumeYes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
