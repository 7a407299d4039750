package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ticklist/internal/config"
	"ticklist/internal/logging"
	"ticklist/internal/output"
	"ticklist/internal/storage"
	"ticklist/internal/store"
	"ticklist/internal/ui"
)

//nolint:gochecknoglobals // CLI flags and formatter are package-level
var (
	configPath string
	jsonOutput bool
	yamlOutput bool
	formatter  output.Formatter
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "todo",
		Short:         "A keyboard-driven task list",
		Long:          "todo - add, complete, edit, filter and delete tasks. Run without a subcommand for the interactive list.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			switch {
			case jsonOutput:
				formatter = output.New("json")
			case yamlOutput:
				formatter = output.New("yaml")
			default:
				formatter = output.New("human")
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			return ui.Run(a.store, a.cfg, a.logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "Output in YAML format")
	rootCmd.MarkFlagsMutuallyExclusive("json", "yaml")

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		toggleCmd(),
		rmCmd(),
		editCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     config.Config
	logger  *log.Logger
	store   *store.Store
	closers []io.Closer
}

func openApp() (*app, error) {
	path := configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	firstLaunch := false
	if _, err := os.Stat(path); err != nil {
		firstLaunch = errors.Is(err, os.ErrNotExist)
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := logging.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	if firstLaunch {
		logger.Info("wrote default config", "path", path)
	}

	backend, err := storage.Open(cfg.DBPath)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("opened database", "path", cfg.DBPath, "key", cfg.StorageKey)

	st := store.New(backend, store.Options{Key: cfg.StorageKey, Logger: logger})
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		closers: []io.Closer{backend, logCloser},
	}, nil
}

// Close releases the database and log file. Later calls do nothing.
func (a *app) Close() {
	for _, c := range a.closers {
		c.Close()
	}
	a.closers = nil
}

// fail closes the app before reporting err, since printError exits and
// skips deferred calls.
func (a *app) fail(err error) {
	a.Close()
	printError(err)
}
