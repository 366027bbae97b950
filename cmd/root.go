// Package cmd defines the CLI commands for the harvester executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	appconfig "github.com/odmbench/harvester/internal/config"
	"github.com/odmbench/harvester/internal/logging"
	pkgconfig "github.com/odmbench/harvester/pkg/config"
)

var cfgFile string

type appKeyType struct{}

var appKey appKeyType

// App bundles the loaded configuration and logger for subcommands. It is
// built once in PersistentPreRunE and travels on the command context, so
// tests can inject a fake without touching globals.
type App struct {
	Cfg    appconfig.Config
	Logger *zap.Logger
}

// newApp is a variable so tests can swap in a stub factory.
var newApp = func() (*App, error) {
	if err := pkgconfig.Init(cfgFile); err != nil {
		return nil, err
	}
	cfg, err := appconfig.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.DevLog)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &App{Cfg: cfg, Logger: logger}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "Retail product page harvester",
		Long: `harvester crawls configured retail sites, classifies each response,
escalates blocked or script-rendered pages through a headless browser,
extracts product attributes, and emits normalized keyed records.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if app, ok := cmd.Context().Value(appKey).(*App); ok && app != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default searches ., /etc/harvester, $HOME/.harvester)")

	cmd.AddCommand(newCrawlCmd())
	return cmd
}

func resolveApp(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey).(*App)
	if !ok || app == nil {
		return nil, errors.New("application services not initialized")
	}
	return app, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "harvester: %v\n", err)
		os.Exit(1)
	}
}
