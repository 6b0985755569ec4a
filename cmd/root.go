// Package cmd wires the cobra command tree for the provoke binary.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pybash1/provoke/internal/app"
	"github.com/pybash1/provoke/internal/config"
	"github.com/pybash1/provoke/internal/crawler"
	"github.com/pybash1/provoke/internal/feeds"
	"github.com/pybash1/provoke/internal/search"
	"github.com/pybash1/provoke/internal/store"
)

var cfgFile string

type appKeyType string

const appKey appKeyType = "app"

// App is the surface commands use, kept as an interface so tests can inject
// a stub container.
type App interface {
	Close()
	Config() config.Config
	Logger() *zap.Logger
	Store() app.Store
	Labels() store.LabelCorpus
	SearchEngine() *search.Engine
	FeedFetcher() *feeds.Fetcher
	Crawler(ctx context.Context) (*crawler.Crawler, error)
}

// newApp is the application factory, replaceable in tests.
var newApp = func(ctx context.Context) (App, error) {
	return app.New(ctx, cfgFile)
}

func appFrom(cmd *cobra.Command) (App, error) {
	a, ok := cmd.Context().Value(appKey).(App)
	if !ok || a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provoke",
		Short: "A quality-filtering crawler and search engine for the personal web.",
		Long: `provoke crawls outward from seed URLs, scores every page for signs of
genuine human writing versus commercial or machine-generated content, and
indexes the survivors into a searchable corpus.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is environment only)")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newDomainsCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
