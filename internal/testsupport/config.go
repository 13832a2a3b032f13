package testsupport

import (
	"path/filepath"
	"testing"

	"cleanfolder/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a validated config whose state directory lives in a
// per-test temp directory. Options are applied before validation.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("validate test config: %v", err)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithStateDir places the state directory (journal and locks) at dir.
func WithStateDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.StateDir = dir
	}
}

// WithCollision sets the naming collision policy.
func WithCollision(policy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Naming.Collision = policy
	}
}

// WithIgnore sets the walk ignore patterns.
func WithIgnore(patterns ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Walk.Ignore = append([]string(nil), patterns...)
	}
}

// WithJournal toggles the run journal.
func WithJournal(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = enabled
	}
}

// WithASCIIOnly toggles transliteration of non-Polish letters.
func WithASCIIOnly(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Naming.ASCIIOnly = enabled
	}
}
