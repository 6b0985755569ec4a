// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// RecrawlPolicy controls what happens when a frontier URL is already indexed.
type RecrawlPolicy string

// Recrawl policy values accepted in configuration.
const (
	RecrawlAlways     RecrawlPolicy = "always"
	RecrawlSkipRecent RecrawlPolicy = "skip-recent"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Quality    QualityConfig    `mapstructure:"quality"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Crawler    CrawlerConfig    `mapstructure:"crawler"`
	Render     RenderConfig     `mapstructure:"render"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Search     SearchConfig     `mapstructure:"search"`
	Feeds      FeedsConfig      `mapstructure:"feeds"`
	Labels     LabelsConfig     `mapstructure:"labels"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig controls the admin HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// QualityConfig holds every numeric threshold used by the evaluation pipeline.
type QualityConfig struct {
	MinTextRatio             float64 `mapstructure:"min_text_ratio"`
	IdealTextRatio           float64 `mapstructure:"ideal_text_ratio"`
	MinWords                 int     `mapstructure:"min_words"`
	MaxWords                 int     `mapstructure:"max_words"`
	MinReadability           float64 `mapstructure:"min_readability"`
	MaxReadability           float64 `mapstructure:"max_readability"`
	CorporateRejectThreshold float64 `mapstructure:"corporate_reject_threshold"`
	CorporateFlagThreshold   float64 `mapstructure:"corporate_flag_threshold"`
	UnifiedScoreThreshold    float64 `mapstructure:"unified_score_threshold"`
	HighTierThreshold        float64 `mapstructure:"high_tier_threshold"`
	AdScorePenaltyFloor      float64 `mapstructure:"ad_score_penalty_floor"`
}

// ClassifierConfig configures the optional text classifier.
type ClassifierConfig struct {
	Enabled               bool    `mapstructure:"enabled"`
	ModelPath             string  `mapstructure:"model_path"`
	HighConfidence        float64 `mapstructure:"high_confidence_threshold"`
	LowConfidence         float64 `mapstructure:"low_confidence_threshold"`
	UseForUncertainOnly   bool    `mapstructure:"use_for_uncertain_only"`
	UncertainScoreCeiling float64 `mapstructure:"uncertain_score_ceiling"`
}

// CrawlerConfig governs traversal behavior and the circuit breakers.
type CrawlerConfig struct {
	UserAgent                string        `mapstructure:"user_agent"`
	MaxDepth                 int           `mapstructure:"max_depth"`
	FetchTimeout             time.Duration `mapstructure:"fetch_timeout"`
	PolitenessDelay          time.Duration `mapstructure:"politeness_delay"`
	DomainRejectionThreshold int           `mapstructure:"domain_rejection_threshold"`
	ConsecutiveRejections    int           `mapstructure:"consecutive_rejection_threshold"`
	RespectRobots            bool          `mapstructure:"respect_robots"`
	RecrawlPolicy            RecrawlPolicy `mapstructure:"recrawl_policy"`
	RecrawlWindow            time.Duration `mapstructure:"recrawl_window"`
	StoreRawMarkup           bool          `mapstructure:"store_raw_markup"`
}

// RenderConfig configures the optional headless rendering path.
type RenderConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	NavTimeout     time.Duration `mapstructure:"nav_timeout"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	DomainQPS      float64       `mapstructure:"domain_qps"`
}

// ArchiveConfig selects the raw-markup archive backend.
type ArchiveConfig struct {
	Provider  string `mapstructure:"provider"` // gcs | local | noop
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
	LocalDir  string `mapstructure:"local_dir"`
}

// NotifyConfig selects the accepted-page event publisher.
type NotifyConfig struct {
	Provider  string `mapstructure:"provider"` // pubsub | noop
	ProjectID string `mapstructure:"project_id"`
	Topic     string `mapstructure:"topic"`
}

// SearchConfig tunes the retrieval engine.
type SearchConfig struct {
	MaxCandidates     int     `mapstructure:"max_candidates"`
	TitleBoostWeight  float64 `mapstructure:"title_boost_weight"`
	FuzzyFloor        float64 `mapstructure:"fuzzy_floor"`
	FuzzyLimit        int     `mapstructure:"fuzzy_limit"`
	LowConfidenceMin  int     `mapstructure:"low_confidence_min_results"`
	LowConfidenceRank float64 `mapstructure:"low_confidence_min_score"`
}

// FeedsConfig tunes the bulk RSS/Atom ingestion pool.
type FeedsConfig struct {
	Workers      int           `mapstructure:"workers"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// LabelsConfig points at the manual-labeling corpus file.
type LabelsConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PROVOKE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.max_conns", 8)
	v.SetDefault("db.min_conns", 1)

	v.SetDefault("quality.min_text_ratio", 0.1)
	v.SetDefault("quality.ideal_text_ratio", 0.3)
	v.SetDefault("quality.min_words", 100)
	v.SetDefault("quality.max_words", 8000)
	v.SetDefault("quality.min_readability", 20.0)
	v.SetDefault("quality.max_readability", 100.0)
	v.SetDefault("quality.corporate_reject_threshold", 80.0)
	v.SetDefault("quality.corporate_flag_threshold", 10.0)
	v.SetDefault("quality.unified_score_threshold", 40.0)
	v.SetDefault("quality.high_tier_threshold", 80.0)
	v.SetDefault("quality.ad_score_penalty_floor", 20.0)

	v.SetDefault("classifier.enabled", false)
	v.SetDefault("classifier.model_path", "models/content_classifier.json")
	v.SetDefault("classifier.high_confidence_threshold", 0.7)
	v.SetDefault("classifier.low_confidence_threshold", 0.3)
	v.SetDefault("classifier.use_for_uncertain_only", true)
	v.SetDefault("classifier.uncertain_score_ceiling", 80.0)

	v.SetDefault("crawler.user_agent", "provoke-crawler/1.0 (+https://github.com/pybash1/provoke)")
	v.SetDefault("crawler.max_depth", 1)
	v.SetDefault("crawler.fetch_timeout", "15s")
	v.SetDefault("crawler.politeness_delay", "1s")
	v.SetDefault("crawler.domain_rejection_threshold", 30)
	v.SetDefault("crawler.consecutive_rejection_threshold", 25)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("crawler.recrawl_policy", string(RecrawlAlways))
	v.SetDefault("crawler.recrawl_window", "168h")
	v.SetDefault("crawler.store_raw_markup", true)

	v.SetDefault("render.enabled", false)
	v.SetDefault("render.nav_timeout", "25s")
	v.SetDefault("render.settle_delay", "2s")
	v.SetDefault("render.max_concurrency", 1)
	v.SetDefault("render.domain_qps", 0.5)

	v.SetDefault("archive.provider", "noop")
	v.SetDefault("archive.prefix", "pages")
	v.SetDefault("archive.local_dir", "data/raw")

	v.SetDefault("notify.provider", "noop")

	v.SetDefault("search.max_candidates", 100)
	v.SetDefault("search.title_boost_weight", 10.0)
	v.SetDefault("search.fuzzy_floor", 0.3)
	v.SetDefault("search.fuzzy_limit", 20)
	v.SetDefault("search.low_confidence_min_results", 5)
	v.SetDefault("search.low_confidence_min_score", 5.0)

	v.SetDefault("feeds.workers", 4)
	v.SetDefault("feeds.fetch_timeout", "20s")

	v.SetDefault("labels.path", "data/manual_labels.csv")

	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Quality.MinWords <= 0 || c.Quality.MaxWords < c.Quality.MinWords {
		return fmt.Errorf("quality.min_words/max_words out of order")
	}
	if c.Quality.IdealTextRatio <= 0 || c.Quality.IdealTextRatio > 1 {
		return fmt.Errorf("quality.ideal_text_ratio must be in (0, 1]")
	}
	if c.Quality.UnifiedScoreThreshold < 0 || c.Quality.UnifiedScoreThreshold > 100 {
		return fmt.Errorf("quality.unified_score_threshold must be in [0, 100]")
	}
	if c.Crawler.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Crawler.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must be >= 0")
	}
	if c.Crawler.FetchTimeout <= 0 {
		return fmt.Errorf("crawler.fetch_timeout must be > 0")
	}
	if c.Crawler.DomainRejectionThreshold <= 0 {
		return fmt.Errorf("crawler.domain_rejection_threshold must be > 0")
	}
	if c.Crawler.ConsecutiveRejections <= 0 {
		return fmt.Errorf("crawler.consecutive_rejection_threshold must be > 0")
	}
	switch c.Crawler.RecrawlPolicy {
	case RecrawlAlways, RecrawlSkipRecent:
	default:
		return fmt.Errorf("crawler.recrawl_policy must be %q or %q", RecrawlAlways, RecrawlSkipRecent)
	}
	if c.Render.Enabled && c.Render.MaxConcurrency <= 0 {
		return fmt.Errorf("render.max_concurrency must be > 0 when rendering is enabled")
	}
	switch c.Archive.Provider {
	case "gcs":
		if c.Archive.GCSBucket == "" {
			return fmt.Errorf("archive.gcs_bucket must be set for the gcs provider")
		}
	case "local", "noop":
	default:
		return fmt.Errorf("unknown archive provider %q", c.Archive.Provider)
	}
	switch c.Notify.Provider {
	case "pubsub":
		if c.Notify.ProjectID == "" || c.Notify.Topic == "" {
			return fmt.Errorf("notify.project_id and notify.topic must be set for pubsub")
		}
	case "noop":
	default:
		return fmt.Errorf("unknown notify provider %q", c.Notify.Provider)
	}
	if c.Search.MaxCandidates <= 0 {
		return fmt.Errorf("search.max_candidates must be > 0")
	}
	if c.Search.FuzzyFloor < 0 || c.Search.FuzzyFloor > 1 {
		return fmt.Errorf("search.fuzzy_floor must be in [0, 1]")
	}
	if c.Feeds.Workers <= 0 {
		return fmt.Errorf("feeds.workers must be > 0")
	}
	return nil
}
