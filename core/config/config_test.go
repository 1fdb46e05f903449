package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1024, cfg.Search.MaxClauseCount)
	assert.Equal(t, 10, cfg.Search.DefaultNumDocs)
	assert.Equal(t, float32(0.5), cfg.Search.Fuzzy.MinSimilarity)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
search:
  maxClauseCount: 64
  fuzzy:
    minSimilarity: 0.7
logging:
  level: DEBUG
metrics:
  addr: ":9090"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Search.MaxClauseCount)
	assert.Equal(t, float32(0.7), cfg.Search.Fuzzy.MinSimilarity)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	// untouched values keep their defaults
	assert.Equal(t, 512, cfg.Search.MultiTermMaxTerms)
	assert.Equal(t, 256, cfg.Search.Fuzzy.MaxTerms)
	assert.Equal(t, Default().Logging.Format, cfg.Logging.Format)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GOSEARCH_MAX_CLAUSE_COUNT", "8")
	t.Setenv("GOSEARCH_FUZZY_MIN_SIMILARITY", "0.25")
	t.Setenv("GOSEARCH_LOG_LEVEL", "ERROR")
	t.Setenv("GOSEARCH_METRICS_ADDR", "localhost:2112")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Search.MaxClauseCount)
	assert.Equal(t, float32(0.25), cfg.Search.Fuzzy.MinSimilarity)
	assert.Equal(t, "ERROR", cfg.Logging.Level)
	assert.Equal(t, "localhost:2112", cfg.Metrics.Addr)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("search: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("search:\n  defaultNumDocs: 0\n"), 0o644))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "defaultNumDocs")

	t.Setenv("GOSEARCH_DEFAULT_NUM_DOCS", "ten")
	_, err = Load("")
	assert.ErrorContains(t, err, "GOSEARCH_DEFAULT_NUM_DOCS")
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"maxClauseCount":    func(c *Config) { c.Search.MaxClauseCount = 0 },
		"multiTermMaxTerms": func(c *Config) { c.Search.MultiTermMaxTerms = -1 },
		"prefixMaxTerms":    func(c *Config) { c.Search.PrefixMaxTerms = 0 },
		"wildcardMaxTerms":  func(c *Config) { c.Search.WildcardMaxTerms = 0 },
		"minSimilarity":     func(c *Config) { c.Search.Fuzzy.MinSimilarity = 1 },
		"prefixLength":      func(c *Config) { c.Search.Fuzzy.PrefixLength = -1 },
		"maxTerms":          func(c *Config) { c.Search.Fuzzy.MaxTerms = 0 },
		"defaultNumDocs":    func(c *Config) { c.Search.DefaultNumDocs = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), name)
		})
	}
}
