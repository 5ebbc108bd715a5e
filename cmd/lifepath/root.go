package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-lifepath/internal/config"
	"github.com/goliatone/go-lifepath/internal/logging"
	"github.com/goliatone/go-lifepath/pkg/export"
	"github.com/goliatone/go-lifepath/pkg/prediction"
)

// app holds the state shared by every subcommand once the root pre-run has
// resolved configuration.
type app struct {
	configPath string
	debug      bool

	cfg       config.Config
	logger    *zap.Logger
	clipboard export.Clipboard
}

func newApp() *app {
	return &app{
		cfg:       config.Default(),
		logger:    zap.NewNop(),
		clipboard: export.SystemClipboard{},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "lifepath",
		Short: "Life path number predictions from a date of birth",
		Long: `lifepath reduces a date of birth to a single life path number (1-9)
and shows the prediction text for it.

Run "lifepath serve" for the web widget, "lifepath predict" for the
interactive terminal form, or "lifepath reduce <date>" for a one-shot answer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (env: LIFEPATH_*)")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "v", false, "enable debug logging")
	root.PersistentFlags().String("mode", "", "prediction text mode: distinct or classic")
	root.PersistentFlags().String("catalog", "", "YAML prediction catalog overriding the built-in texts")

	root.AddCommand(newServeCmd(a), newPredictCmd(a), newReduceCmd(a))
	return root
}

// setup loads config, applies flags set on the command line, and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	overrides := map[string]*string{
		"mode":         &cfg.Mode,
		"catalog":      &cfg.Catalog,
		"addr":         &cfg.Addr,
		"base-path":    &cfg.BasePath,
		"theme":        &cfg.Theme,
		"theme-file":   &cfg.ThemeFile,
		"variant":      &cfg.Variant,
		"download-dir": &cfg.DownloadDir,
	}
	for name, target := range overrides {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			*target = flag.Value.String()
		}
	}
	if a.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Config{Debug: cfg.Debug})
	if err != nil {
		return err
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("mode", cfg.Mode),
		zap.String("catalog", cfg.Catalog),
	)
	return nil
}

// provider builds the prediction provider for the configured mode and catalog.
func (a *app) provider() (*prediction.Provider, error) {
	opts := []prediction.Option{prediction.WithMode(a.cfg.PredictionMode())}
	if a.cfg.Catalog != "" {
		f, err := os.Open(a.cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		defer f.Close()

		catalog, err := prediction.LoadCatalog(f)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", a.cfg.Catalog, err)
		}
		opts = append(opts, prediction.WithCatalog(catalog))
	}
	return prediction.New(opts...)
}
