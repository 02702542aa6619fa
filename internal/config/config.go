package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgernorm/internal/aggregate"
	"github.com/cleared-dev/ledgernorm/internal/classify"
	"github.com/cleared-dev/ledgernorm/internal/model"
	"github.com/cleared-dev/ledgernorm/internal/normalize"
	"github.com/cleared-dev/ledgernorm/internal/tokenize"
)

// FileName is the config file looked up in the working directory.
const FileName = "ledgernorm.yaml"

// EnvConfig names the environment variable holding a config path.
const EnvConfig = "LEDGERNORM_CONFIG"

// Config represents the top-level ledgernorm.yaml configuration.
type Config struct {
	Parsing   ParsingConfig   `yaml:"parsing"`
	Balance   BalanceConfig   `yaml:"balance"`
	Hierarchy HierarchyConfig `yaml:"hierarchy"`
	Labels    LabelsConfig    `yaml:"labels"`
	Keywords  KeywordsConfig  `yaml:"keywords,omitempty"`
	Output    OutputConfig    `yaml:"output"`
}

// ParsingConfig controls line rejection and code detection.
type ParsingConfig struct {
	MinLineLength int `yaml:"min_line_length"`
	MaxCodeLength int `yaml:"max_code_length"`
}

// BalanceConfig holds the rounding tolerances, in currency units.
type BalanceConfig struct {
	Tolerance          float64 `yaml:"tolerance"`
	InversionTolerance float64 `yaml:"inversion_tolerance"`
}

// HierarchyConfig decides when the code hierarchy is not trusted.
type HierarchyConfig struct {
	MinAnalyticalRatio float64 `yaml:"min_analytical_ratio"`
	FallbackMinRows    int     `yaml:"fallback_min_rows"`
}

// LabelsConfig names the bottom-line result.
type LabelsConfig struct {
	Profit string `yaml:"profit"`
	Loss   string `yaml:"loss"`
}

// KeywordsConfig extends the built-in classification tables. Entries take
// priority over the built-in terms.
type KeywordsConfig struct {
	Revenue   []string `yaml:"revenue,omitempty"`
	Expense   []string `yaml:"expense,omitempty"`
	Asset     []string `yaml:"asset,omitempty"`
	Liability []string `yaml:"liability,omitempty"`
	Equity    []string `yaml:"equity,omitempty"`
	Aggregate []string `yaml:"aggregate,omitempty"`
}

// OutputConfig controls what normalize writes.
type OutputConfig struct {
	Format string `yaml:"format"` // json or csv
	Dir    string `yaml:"dir"`    // empty writes to stdout
	Jobs   int    `yaml:"jobs"`
	RunLog string `yaml:"run_log"` // empty disables the run log
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads a ledgernorm.yaml file from disk. Settings absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %s: %w", path, errors.Join(asErrors(errs)...))
	}
	return cfg, nil
}

// Resolve finds the config to use: path if given, else $LEDGERNORM_CONFIG, else
// ./ledgernorm.yaml when present, else the defaults. It returns the path loaded,
// or "" for defaults.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		if _, err := os.Stat(FileName); err != nil {
			return Default(), "", nil
		}
		path = FileName
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	tok := tokenize.DefaultOptions()
	agg := aggregate.DefaultOptions()
	return &Config{
		Parsing: ParsingConfig{
			MinLineLength: tok.MinLineLength,
			MaxCodeLength: tok.MaxCodeLength,
		},
		Balance: BalanceConfig{
			Tolerance:          agg.Tolerance.InexactFloat64(),
			InversionTolerance: 0.01,
		},
		Hierarchy: HierarchyConfig{
			MinAnalyticalRatio: agg.MinAnalyticalRatio,
			FallbackMinRows:    agg.FallbackMinRows,
		},
		Labels: LabelsConfig{
			Profit: agg.ProfitLabel,
			Loss:   agg.LossLabel,
		},
		Output: OutputConfig{
			Format: "json",
			Jobs:   4,
			RunLog: "runs.csv",
		},
	}
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if c.Parsing.MinLineLength < 1 {
		add("parsing.min_line_length", "must be at least 1")
	}
	if c.Parsing.MaxCodeLength < 1 {
		add("parsing.max_code_length", "must be at least 1")
	}
	if c.Balance.Tolerance < 0 {
		add("balance.tolerance", "must not be negative")
	}
	if c.Balance.InversionTolerance < 0 {
		add("balance.inversion_tolerance", "must not be negative")
	}
	if c.Hierarchy.MinAnalyticalRatio < 0 || c.Hierarchy.MinAnalyticalRatio > 1 {
		add("hierarchy.min_analytical_ratio", "must be between 0 and 1")
	}
	if c.Hierarchy.FallbackMinRows < 0 {
		add("hierarchy.fallback_min_rows", "must not be negative")
	}
	if strings.TrimSpace(c.Labels.Profit) == "" {
		add("labels.profit", "must not be empty")
	}
	if strings.TrimSpace(c.Labels.Loss) == "" {
		add("labels.loss", "must not be empty")
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "csv":
	default:
		add("output.format", fmt.Sprintf("unknown format %q, want json or csv", c.Output.Format))
	}
	if c.Output.Jobs < 0 {
		add("output.jobs", "must not be negative")
	}
	return errs
}

// Classifier builds a classifier with the configured extra keywords.
func (c *Config) Classifier() *classify.Classifier {
	k := c.Keywords
	return classify.New(
		classify.WithTypeKeywords(model.AccountTypeRevenue, k.Revenue...),
		classify.WithTypeKeywords(model.AccountTypeExpense, k.Expense...),
		classify.WithTypeKeywords(model.AccountTypeAsset, k.Asset...),
		classify.WithTypeKeywords(model.AccountTypeLiability, k.Liability...),
		classify.WithTypeKeywords(model.AccountTypeEquity, k.Equity...),
		classify.WithAggregateKeywords(k.Aggregate...),
	)
}

// NormalizeOptions converts the settings into engine options.
func (c *Config) NormalizeOptions() normalize.Options {
	return normalize.Options{
		Tokenizer: tokenize.Options{
			MinLineLength: c.Parsing.MinLineLength,
			MaxCodeLength: c.Parsing.MaxCodeLength,
		},
		Aggregate: aggregate.Options{
			Tolerance:          decimal.NewFromFloat(c.Balance.Tolerance),
			MinAnalyticalRatio: c.Hierarchy.MinAnalyticalRatio,
			FallbackMinRows:    c.Hierarchy.FallbackMinRows,
			ProfitLabel:        c.Labels.Profit,
			LossLabel:          c.Labels.Loss,
		},
		InversionTolerance: decimal.NewFromFloat(c.Balance.InversionTolerance),
	}
}

func asErrors(errs []ValidationError) []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}
