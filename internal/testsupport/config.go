package testsupport

import (
	"path/filepath"
	"testing"

	"talentflow/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The remote is unset so readers fall back unless a test opts in.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Server.DBPath = filepath.Join(base, "data", "board.db")
	cfgVal.Server.Bind = "127.0.0.1:0"
	cfgVal.Remote.ProbeTimeoutMS = 200
	cfgVal.Remote.RequestTimeoutMS = 1000
	cfgVal.Remote.PersistTimeoutMS = 500

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

// WithRemote points the config at a test server.
func WithRemote(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remote.BaseURL = baseURL
	}
}

// WithAPIToken sets the same bearer token on the client and server sides.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Remote.APIToken = token
		b.cfg.Server.APIToken = token
	}
}

// WithStages replaces the workflow with the given stage definitions.
func WithStages(defs ...config.StageDef) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Stages = append([]config.StageDef(nil), defs...)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
