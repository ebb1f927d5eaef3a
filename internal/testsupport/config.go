package testsupport

import (
	"path/filepath"
	"testing"

	"reclaim/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog.db")
	cfgVal.Paths.DenylistPath = filepath.Join(base, "denylist.txt")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.QuarantineDir = filepath.Join(base, "quarantine")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSinkURL points the merge sink at the given base URL.
func WithSinkURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sink.URL = url
	}
}

// WithMSEThresholds overrides both similarity thresholds.
func WithMSEThresholds(image, video float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Similarity.MSEImageThreshold = image
		b.cfg.Similarity.MSEVideoThreshold = video
	}
}

// WithCuration sets the group curation floors.
func WithCuration(minBytes, minSeconds int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Curation.MinGroupBytes = minBytes
		b.cfg.Curation.MinGroupSeconds = minSeconds
	}
}
