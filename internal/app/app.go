// Package app initializes and holds long-lived application services, acting
// as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	gcs "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/pybash1/provoke/internal/archive"
	"github.com/pybash1/provoke/internal/classifier"
	"github.com/pybash1/provoke/internal/config"
	"github.com/pybash1/provoke/internal/crawler"
	"github.com/pybash1/provoke/internal/feeds"
	"github.com/pybash1/provoke/internal/logging"
	"github.com/pybash1/provoke/internal/notify"
	"github.com/pybash1/provoke/internal/quality"
	"github.com/pybash1/provoke/internal/search"
	"github.com/pybash1/provoke/internal/store"
	"github.com/pybash1/provoke/internal/store/labels"
	"github.com/pybash1/provoke/internal/store/memory"
	"github.com/pybash1/provoke/internal/store/postgres"
)

// Store is the full persistence surface the commands need.
type Store interface {
	store.PageStore
	store.SearchIndex
	store.DomainLists
	store.RejectionSink
}

// App holds all the shared, long-lived services for the application. It is
// initialized once at startup and torn down by Close.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	store   Store
	labels  store.LabelCorpus
	closers []func()
}

// New builds every service the configuration asks for. It fails fast when a
// critical dependency cannot be initialized.
func New(ctx context.Context, cfgPath string) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	if cfg.DB.DSN != "" {
		pg, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.DB.DSN,
			MaxConns: cfg.DB.MaxConns,
			MinConns: cfg.DB.MinConns,
		})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect store: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			a.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.store = pg
		a.closers = append(a.closers, pg.Close)
		logger.Info("Connected to PostgreSQL")
	} else {
		a.store = memory.New()
		logger.Warn("db.dsn is empty; using the in-memory store, data will not survive the process")
	}

	corpus, err := labels.NewCorpus(cfg.Labels.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open label corpus: %w", err)
	}
	a.labels = corpus

	return a, nil
}

// Close tears down services in reverse initialization order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Store returns the persistence layer.
func (a *App) Store() Store { return a.store }

// Labels returns the manual-label corpus writer.
func (a *App) Labels() store.LabelCorpus { return a.labels }

// Evaluator assembles the quality pipeline, including the optional
// classifier refinement stage. A classifier that fails to load degrades to
// rule-only evaluation rather than failing the command.
func (a *App) Evaluator() *quality.Evaluator {
	q := a.cfg.Quality
	thresholds := quality.Thresholds{
		MinTextRatio:             q.MinTextRatio,
		IdealTextRatio:           q.IdealTextRatio,
		MinWords:                 q.MinWords,
		MaxWords:                 q.MaxWords,
		MinReadability:           q.MinReadability,
		MaxReadability:           q.MaxReadability,
		CorporateRejectThreshold: q.CorporateRejectThreshold,
		CorporateFlagThreshold:   q.CorporateFlagThreshold,
		UnifiedScoreThreshold:    q.UnifiedScoreThreshold,
		HighTierThreshold:        q.HighTierThreshold,
		AdScorePenaltyFloor:      q.AdScorePenaltyFloor,
		UncertainScoreCeiling:    a.cfg.Classifier.UncertainScoreCeiling,
	}

	var refiner quality.Refiner
	if a.cfg.Classifier.Enabled {
		model, err := classifier.LoadModel(a.cfg.Classifier.ModelPath)
		if err != nil {
			// A missing or corrupt model never blocks a run; evaluation
			// falls back to the rule-based verdicts alone.
			a.logger.Warn("Classifier model unavailable, continuing rule-only",
				zap.String("model", a.cfg.Classifier.ModelPath), zap.Error(err))
		} else {
			refiner = classifier.NewAdapter(model, a.cfg.Classifier.HighConfidence, a.cfg.Classifier.LowConfidence)
			a.logger.Info("Classifier refinement enabled", zap.String("model", a.cfg.Classifier.ModelPath))
		}
	}
	return quality.NewEvaluator(thresholds, refiner, a.cfg.Classifier.UseForUncertainOnly)
}

// SearchEngine builds the query engine over the store's index.
func (a *App) SearchEngine() *search.Engine {
	s := a.cfg.Search
	return search.NewEngine(a.store, search.Config{
		MaxCandidates:     s.MaxCandidates,
		TitleBoostWeight:  s.TitleBoostWeight,
		FuzzyFloor:        s.FuzzyFloor,
		FuzzyLimit:        s.FuzzyLimit,
		LowConfidenceMin:  s.LowConfidenceMin,
		LowConfidenceRank: s.LowConfidenceRank,
	}, a.logger)
}

// FeedFetcher builds the RSS/Atom ingestion pool.
func (a *App) FeedFetcher() *feeds.Fetcher {
	return feeds.NewFetcher(a.cfg.Crawler.UserAgent, a.cfg.Feeds.FetchTimeout, a.cfg.Feeds.Workers, a.logger)
}

// Crawler wires the full crawl pipeline from configuration.
func (a *App) Crawler(ctx context.Context) (*crawler.Crawler, error) {
	evaluator := a.Evaluator()

	fetcher, err := crawler.NewCollyFetcher(a.cfg.Crawler.UserAgent, a.cfg.Crawler.FetchTimeout, a.logger)
	if err != nil {
		return nil, fmt.Errorf("build fetcher: %w", err)
	}

	var renderer crawler.Renderer
	if a.cfg.Render.Enabled {
		r, err := crawler.NewChromedpRenderer(crawler.RendererConfig{
			UserAgent:      a.cfg.Crawler.UserAgent,
			NavTimeout:     a.cfg.Render.NavTimeout,
			SettleDelay:    a.cfg.Render.SettleDelay,
			MaxConcurrency: a.cfg.Render.MaxConcurrency,
			DomainQPS:      a.cfg.Render.DomainQPS,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("build renderer: %w", err)
		}
		renderer = r
		a.closers = append(a.closers, func() { _ = r.Close(context.Background()) })
		a.logger.Info("JS rendering enabled", zap.Int("max_concurrency", a.cfg.Render.MaxConcurrency))
	}

	archiver, err := a.archiver(ctx)
	if err != nil {
		return nil, err
	}
	notifier, err := a.notifier(ctx)
	if err != nil {
		return nil, err
	}

	return crawler.New(crawler.Config{
		UserAgent:                a.cfg.Crawler.UserAgent,
		MaxDepth:                 a.cfg.Crawler.MaxDepth,
		PolitenessDelay:          a.cfg.Crawler.PolitenessDelay,
		DomainRejectionThreshold: a.cfg.Crawler.DomainRejectionThreshold,
		ConsecutiveRejections:    a.cfg.Crawler.ConsecutiveRejections,
		RecrawlPolicy:            string(a.cfg.Crawler.RecrawlPolicy),
		RecrawlWindow:            a.cfg.Crawler.RecrawlWindow,
		StoreRawMarkup:           a.cfg.Crawler.StoreRawMarkup,
	}, crawler.Deps{
		Fetcher:    fetcher,
		Renderer:   renderer,
		Evaluator:  evaluator,
		Pages:      a.store,
		Domains:    a.store,
		Rejections: a.store,
		Archiver:   archiver,
		Notifier:   notifier,
		Robots:     crawler.NewRobotsEnforcer(a.cfg.Crawler.RespectRobots, a.cfg.Crawler.UserAgent, a.logger),
		Logger:     a.logger,
	})
}

func (a *App) archiver(ctx context.Context) (crawler.Archiver, error) {
	switch a.cfg.Archive.Provider {
	case "gcs":
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.logger.Info("Using GCS archive", zap.String("bucket", a.cfg.Archive.GCSBucket))
		return archive.NewGCS(client, a.cfg.Archive.GCSBucket)
	case "local":
		a.logger.Info("Using local archive", zap.String("dir", a.cfg.Archive.LocalDir))
		return archive.NewLocal(a.cfg.Archive.LocalDir, 0)
	case "noop":
		a.logger.Info("Archive disabled; raw markup snapshots will be discarded")
		return archive.Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown archive provider: %s", a.cfg.Archive.Provider)
	}
}

func (a *App) notifier(ctx context.Context) (crawler.Notifier, error) {
	switch a.cfg.Notify.Provider {
	case "pubsub":
		client, err := pubsub.NewClient(ctx, a.cfg.Notify.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("pubsub client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.logger.Info("Publishing accepted pages to Pub/Sub", zap.String("topic", a.cfg.Notify.Topic))
		return notify.NewPubSub(client.Topic(a.cfg.Notify.Topic))
	case "noop":
		return notify.Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown notify provider: %s", a.cfg.Notify.Provider)
	}
}
