/*
Package config loads the settings of the search core from a YAML file
with GOSEARCH_* environment overrides.
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SearchConfig holds the limits applied when queries are built and run.
type SearchConfig struct {
	MaxClauseCount    int         `yaml:"maxClauseCount"`
	MultiTermMaxTerms int         `yaml:"multiTermMaxTerms"`
	PrefixMaxTerms    int         `yaml:"prefixMaxTerms"`
	WildcardMaxTerms  int         `yaml:"wildcardMaxTerms"`
	Fuzzy             FuzzyConfig `yaml:"fuzzy"`
	DefaultNumDocs    int         `yaml:"defaultNumDocs"`
}

// FuzzyConfig holds the defaults of fuzzy queries.
type FuzzyConfig struct {
	MinSimilarity float32 `yaml:"minSimilarity"`
	PrefixLength  int     `yaml:"prefixLength"`
	MaxTerms      int     `yaml:"maxTerms"`
}

// LoggingConfig controls the go-logging level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus endpoint. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

/*
Load reads a YAML config file (if provided) and applies environment
variable overrides. Missing values keep their defaults.
*/
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			MaxClauseCount:    1024,
			MultiTermMaxTerms: 512,
			PrefixMaxTerms:    256,
			WildcardMaxTerms:  256,
			Fuzzy: FuzzyConfig{
				MinSimilarity: 0.5,
				PrefixLength:  0,
				MaxTerms:      256,
			},
			DefaultNumDocs: 10,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "%{time:15:04:05.000} %{module} %{level:.4s} %{message}",
		},
	}
}

// Validate checks that every limit is within its allowed range.
func (c *Config) Validate() error {
	s := c.Search
	switch {
	case s.MaxClauseCount < 1:
		return fmt.Errorf("search.maxClauseCount must be >= 1, got %d", s.MaxClauseCount)
	case s.MultiTermMaxTerms < 1:
		return fmt.Errorf("search.multiTermMaxTerms must be >= 1, got %d", s.MultiTermMaxTerms)
	case s.PrefixMaxTerms < 1:
		return fmt.Errorf("search.prefixMaxTerms must be >= 1, got %d", s.PrefixMaxTerms)
	case s.WildcardMaxTerms < 1:
		return fmt.Errorf("search.wildcardMaxTerms must be >= 1, got %d", s.WildcardMaxTerms)
	case s.Fuzzy.MinSimilarity < 0 || s.Fuzzy.MinSimilarity >= 1:
		return fmt.Errorf("search.fuzzy.minSimilarity must be in [0, 1), got %v", s.Fuzzy.MinSimilarity)
	case s.Fuzzy.PrefixLength < 0:
		return fmt.Errorf("search.fuzzy.prefixLength must be >= 0, got %d", s.Fuzzy.PrefixLength)
	case s.Fuzzy.MaxTerms < 1:
		return fmt.Errorf("search.fuzzy.maxTerms must be >= 1, got %d", s.Fuzzy.MaxTerms)
	case s.DefaultNumDocs < 1:
		return fmt.Errorf("search.defaultNumDocs must be >= 1, got %d", s.DefaultNumDocs)
	}
	return nil
}

func envInt(name string, dst *int) error {
	if v := os.Getenv(name); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// applyEnvOverrides reads GOSEARCH_* environment variables and
// overrides the corresponding config fields.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"GOSEARCH_MAX_CLAUSE_COUNT", &cfg.Search.MaxClauseCount},
		{"GOSEARCH_MULTI_TERM_MAX_TERMS", &cfg.Search.MultiTermMaxTerms},
		{"GOSEARCH_PREFIX_MAX_TERMS", &cfg.Search.PrefixMaxTerms},
		{"GOSEARCH_WILDCARD_MAX_TERMS", &cfg.Search.WildcardMaxTerms},
		{"GOSEARCH_FUZZY_PREFIX_LENGTH", &cfg.Search.Fuzzy.PrefixLength},
		{"GOSEARCH_FUZZY_MAX_TERMS", &cfg.Search.Fuzzy.MaxTerms},
		{"GOSEARCH_DEFAULT_NUM_DOCS", &cfg.Search.DefaultNumDocs},
	}
	for _, e := range ints {
		if err := envInt(e.name, e.dst); err != nil {
			return err
		}
	}
	if v := os.Getenv("GOSEARCH_FUZZY_MIN_SIMILARITY"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("parsing GOSEARCH_FUZZY_MIN_SIMILARITY: %w", err)
		}
		cfg.Search.Fuzzy.MinSimilarity = float32(f)
	}
	if v := os.Getenv("GOSEARCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GOSEARCH_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("GOSEARCH_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	return nil
}
