// Package config provides configuration loading and structs for the Kensho engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Verify   VerifyConfig   `yaml:"verify"`
	Graph    GraphConfig    `yaml:"graph"`
	Timeline TimelineConfig `yaml:"timeline"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Policy   PolicyConfig   `yaml:"policy"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the durable graph/timeline state and the
// fact-check verdict index.
type StorageConfig struct {
	// Backend selects the repository implementation: "sqlite" or "file".
	Backend       string `yaml:"backend"`
	DatabasePath  string `yaml:"database_path"`
	GraphPath     string `yaml:"graph_path"`
	TimelinePath  string `yaml:"timeline_path"`
	FactIndexPath string `yaml:"fact_index_path"`
}

// CacheConfig holds result-cache settings. When RedisAddr is empty the
// in-process cache is used directly.
type CacheConfig struct {
	RedisAddr  string `yaml:"redis_addr"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	// MaxEntries caps the in-process cache (LRU on top of TTL expiry).
	MaxEntries int `yaml:"max_entries"`
}

// WeightsConfig holds the per-check aggregation weights. The weights must sum
// to 1.0; Validate enforces this after defaults are applied.
type WeightsConfig struct {
	OfficialSource      float64 `yaml:"official_source"`      // default: 0.35
	FactChecker         float64 `yaml:"fact_checker"`         // default: 0.25
	SourceCredibility   float64 `yaml:"source_credibility"`   // default: 0.15
	TemporalConsistency float64 `yaml:"temporal_consistency"` // default: 0.10
	ImageAuthenticity   float64 `yaml:"image_authenticity"`   // default: 0.15
}

// VerifyConfig holds verification pipeline settings.
type VerifyConfig struct {
	Weights WeightsConfig `yaml:"weights"`
	// FlagThreshold flags any article whose overall score falls below it.
	FlagThreshold float64 `yaml:"flag_threshold"` // default: 0.65
	// ReasonFloor is the per-check score below which a flag reason is emitted.
	ReasonFloor             float64 `yaml:"reason_floor"`              // default: 0.60
	CollectorTimeoutSeconds int     `yaml:"collector_timeout_seconds"` // default: 10
	// CrossVerification feeds into the cache key so cross-verified and plain
	// runs never collide.
	CrossVerification bool `yaml:"cross_verification"`
	FlaggedCapacity   int  `yaml:"flagged_capacity"` // default: 100
}

// GraphConfig bounds the citation-graph algorithms so pathological graphs
// return partial results instead of hanging.
type GraphConfig struct {
	MaxCycleLength  int `yaml:"max_cycle_length"`  // default: 8
	MaxCycles       int `yaml:"max_cycles"`        // default: 256
	MaxNetworkDepth int `yaml:"max_network_depth"` // default: 4
}

// TimelineConfig holds claim-timeline settings.
type TimelineConfig struct {
	// MinSharedTokens is the topic-overlap guard: two claims must share more
	// than this many word tokens to count as contradictory.
	MinSharedTokens   int `yaml:"min_shared_tokens"`   // default: 3
	DefaultWindowDays int `yaml:"default_window_days"` // default: 30
}

// FetchConfig holds outbound content-fetcher settings. Fetching is optional;
// with Enabled false the collectors run on local signals only.
type FetchConfig struct {
	Enabled           bool    `yaml:"enabled"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // default: 2
	MaxBodyBytes      int64   `yaml:"max_body_bytes"`      // default: 2 MiB
	RetryMax          int     `yaml:"retry_max"`           // default: 2
	TimeoutSeconds    int     `yaml:"timeout_seconds"`     // default: 10
}

// AuthorityRule is one entry in the ordered official-source table: when any
// trigger keyword appears in the article text, the named authority is
// consulted. The first rule that produces an authoritative match wins.
type AuthorityRule struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"`
	Score    float64  `yaml:"score"`
}

// PolicyConfig carries the editorial policy tables. These encode judgments
// with no algorithmic derivation, so they are configuration, not code.
type PolicyConfig struct {
	Authorities       []AuthorityRule `yaml:"authorities"`
	Agencies          []string        `yaml:"agencies"`
	FactCheckSites    []string        `yaml:"fact_check_sites"`
	DebunkTerms       []string        `yaml:"debunk_terms"`
	VerifyTerms       []string        `yaml:"verify_terms"`
	Tier1Sources      []string        `yaml:"tier1_sources"`
	Tier2Sources      []string        `yaml:"tier2_sources"`
	UnreliableSources []string        `yaml:"unreliable_sources"`
	Tier1Score        float64         `yaml:"tier1_score"`      // default: 0.92
	Tier2Score        float64         `yaml:"tier2_score"`      // default: 0.80
	UnreliableScore   float64         `yaml:"unreliable_score"` // default: 0.35
	StockPhotoDomains []string        `yaml:"stock_photo_domains"`
	// AntonymPairs drives contradiction detection; each entry is a two-word pair.
	AntonymPairs [][]string `yaml:"antonym_pairs"`
}

// Load reads and parses the YAML config at path, applies defaults, and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that defaults cannot fix.
func (c *Config) Validate() error {
	w := c.Verify.Weights
	sum := w.OfficialSource + w.FactChecker + w.SourceCredibility +
		w.TemporalConsistency + w.ImageAuthenticity
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("verify.weights must sum to 1.0, got %.3f", sum)
	}
	if c.Verify.FlagThreshold <= 0 || c.Verify.FlagThreshold >= 1 {
		return fmt.Errorf("verify.flag_threshold must be in (0, 1), got %v", c.Verify.FlagThreshold)
	}
	for _, pair := range c.Policy.AntonymPairs {
		if len(pair) != 2 {
			return fmt.Errorf("policy.antonym_pairs entries must have exactly 2 members, got %v", pair)
		}
	}
	switch c.Storage.Backend {
	case "sqlite", "file":
	default:
		return fmt.Errorf("storage.backend must be sqlite or file, got %q", c.Storage.Backend)
	}
	return nil
}

// Save writes the config back to path as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
