package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 100, cfg.Quality.MinWords)
	require.InDelta(t, 80.0, cfg.Quality.CorporateRejectThreshold, 1e-9)
	require.Equal(t, RecrawlAlways, cfg.Crawler.RecrawlPolicy)
	require.Equal(t, 30, cfg.Crawler.DomainRejectionThreshold)
	require.Equal(t, 25, cfg.Crawler.ConsecutiveRejections)
	require.Equal(t, time.Second, cfg.Crawler.PolitenessDelay)
	require.True(t, cfg.Crawler.RespectRobots)
	require.False(t, cfg.Render.Enabled)
	require.Equal(t, "noop", cfg.Archive.Provider)
	require.Equal(t, "noop", cfg.Notify.Provider)
	require.Equal(t, 100, cfg.Search.MaxCandidates)
	require.InDelta(t, 10.0, cfg.Search.TitleBoostWeight, 1e-9)
	require.Equal(t, 4, cfg.Feeds.Workers)
	require.False(t, cfg.Classifier.Enabled)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
server:
  port: 9999
crawler:
  max_depth: 3
  recrawl_policy: skip-recent
  recrawl_window: 24h
archive:
  provider: local
  local_dir: /tmp/raw
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, 3, cfg.Crawler.MaxDepth)
	require.Equal(t, RecrawlSkipRecent, cfg.Crawler.RecrawlPolicy)
	require.Equal(t, 24*time.Hour, cfg.Crawler.RecrawlWindow)
	require.Equal(t, "local", cfg.Archive.Provider)

	// Untouched sections keep their defaults.
	require.Equal(t, 30, cfg.Crawler.DomainRejectionThreshold)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	for name, mutate := range map[string]func(*Config){
		"zero port":             func(c *Config) { c.Server.Port = 0 },
		"words out of order":    func(c *Config) { c.Quality.MaxWords = c.Quality.MinWords - 1 },
		"ideal ratio above one": func(c *Config) { c.Quality.IdealTextRatio = 1.5 },
		"empty user agent":      func(c *Config) { c.Crawler.UserAgent = "" },
		"negative depth":        func(c *Config) { c.Crawler.MaxDepth = -1 },
		"unknown recrawl":       func(c *Config) { c.Crawler.RecrawlPolicy = "sometimes" },
		"gcs without bucket":    func(c *Config) { c.Archive.Provider = "gcs" },
		"pubsub without topic":  func(c *Config) { c.Notify.Provider = "pubsub"; c.Notify.ProjectID = "p" },
		"unknown archive":       func(c *Config) { c.Archive.Provider = "s3" },
		"zero feed workers":     func(c *Config) { c.Feeds.Workers = 0 },
		"render without slots":  func(c *Config) { c.Render.Enabled = true; c.Render.MaxConcurrency = 0 },
	} {
		cfg := base
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}

	require.NoError(t, base.Validate())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PROVOKE_SERVER_PORT", "7070")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
}
