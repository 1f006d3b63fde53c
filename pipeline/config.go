// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/katalvlaran/stratum/encode"
	"github.com/katalvlaran/stratum/filter"
	"github.com/katalvlaran/stratum/label"
	"github.com/katalvlaran/stratum/split"
)

// ErrConfig wraps every configuration validation failure.
var ErrConfig = errors.New("pipeline: invalid configuration")

// Config is the externalized description of one full run.
type Config struct {
	// Seed initializes the run RNG exactly once (never per split).
	Seed int64 `mapstructure:"seed"`

	// Input is the raw extract CSV; Artifact is the cleaned intermediate
	// CSV written by Prepare and consumed by each modeling run.
	Input    string `mapstructure:"input"`
	Artifact string `mapstructure:"artifact"`

	// Rename maps raw census names to short mnemonics, applied first.
	Rename map[string]string `mapstructure:"rename"`

	// Keep lists the analysis columns retained in the cleaned artifact
	// (mnemonic names). The group column is always appended.
	Keep []string `mapstructure:"keep"`

	Label  LabelConfig   `mapstructure:"label"`
	Filter FilterConfig  `mapstructure:"filter"`
	Split  SplitConfig   `mapstructure:"split"`
	Fields []FieldConfig `mapstructure:"fields"`
	Models ModelsConfig  `mapstructure:"models"`
}

// LabelConfig names the raw indicator columns the group rule reads
// (mnemonic names, i.e. post-rename).
type LabelConfig struct {
	OfficialFlag     string   `mapstructure:"official_flag"`
	SupplementalFlag string   `mapstructure:"supplemental_flag"`
	Amounts          []string `mapstructure:"amounts"`
}

// FilterConfig configures the outlier filter.
type FilterConfig struct {
	AgeField    string   `mapstructure:"age_field"`
	MinAge      float64  `mapstructure:"min_age"`
	SigmaFields []string `mapstructure:"sigma_fields"`
	Sigma       float64  `mapstructure:"sigma"`
}

// SplitConfig configures the stratified splitter.
type SplitConfig struct {
	TrainFraction      float64 `mapstructure:"train_fraction"`
	ValidationFraction float64 `mapstructure:"validation_fraction"`
	SampleColumn       string  `mapstructure:"sample_column"`
}

// FieldConfig is one categorical field: ordered level set plus the
// explicit reference level for dummy expansion.
type FieldConfig struct {
	Field     string        `mapstructure:"field"`
	Reference string        `mapstructure:"reference"`
	Levels    []LevelConfig `mapstructure:"levels"`
}

// LevelConfig binds one raw code to one level name.
type LevelConfig struct {
	Code float64 `mapstructure:"code"`
	Name string  `mapstructure:"name"`
}

// ModelsConfig carries the per-method knobs.
type ModelsConfig struct {
	// MaxIter is the iteration cap for the multinomial fit (maxit).
	MaxIter int `mapstructure:"max_iter"`
	// Components is the PCA projection dimension.
	Components int `mapstructure:"components"`
	// Neighbors is the KNN baseline's k.
	Neighbors int `mapstructure:"neighbors"`
	// LogitReference is the baseline group name for the logit (default no).
	LogitReference string `mapstructure:"logit_reference"`
}

// DefaultConfig mirrors the study's published setup: CPS-style raw column
// names, mnemonic renames, the adult cutoff at 26, mean+3σ bounds on the
// financial fields, 50/30/20 stratified fractions, and maxit 250.
func DefaultConfig() *Config {
	return &Config{
		Seed:     split.DefaultSeed,
		Input:    "extract.csv",
		Artifact: "cleaned.csv",
		Rename: map[string]string{
			"AGE":         "age",
			"SEX":         "sex",
			"MARST":       "marital",
			"RACE":        "race",
			"EDUC":        "educ",
			"MORTGAGE":    "mortgage",
			"INCTOT":      "income",
			"FTOTVAL":     "faminc",
			"OFFPOV":      "off_pov",
			"SPMPOV":      "spm_pov",
			"SPMSNAP":     "snap_amt",
			"SPMCAPHOUS":  "house_amt",
			"SPMSCHLUNCH": "lunch_amt",
			"SPMWIC":      "wic_amt",
		},
		Keep: []string{"age", "sex", "marital", "race", "educ", "mortgage", "income", "faminc"},
		Label: LabelConfig{
			OfficialFlag:     "off_pov",
			SupplementalFlag: "spm_pov",
			Amounts:          []string{"snap_amt", "house_amt", "lunch_amt", "wic_amt"},
		},
		Filter: FilterConfig{
			AgeField:    "age",
			MinAge:      filter.DefaultMinAge,
			SigmaFields: []string{"income", "faminc"},
			Sigma:       filter.DefaultSigma,
		},
		Split: SplitConfig{
			TrainFraction:      split.DefaultTrainFraction,
			ValidationFraction: split.DefaultValidationFraction,
			SampleColumn:       split.DefaultSampleColumn,
		},
		Fields: []FieldConfig{
			{
				Field:     "sex",
				Reference: "Male",
				Levels: []LevelConfig{
					{Code: 1, Name: "Male"},
					{Code: 2, Name: "Female"},
				},
			},
			{
				Field:     "marital",
				Reference: "Married",
				Levels: []LevelConfig{
					{Code: 1, Name: "Married"},
					{Code: 2, Name: "Widowed"},
					{Code: 3, Name: "Divorced"},
					{Code: 4, Name: "Separated"},
					{Code: 5, Name: "NeverMarried"},
				},
			},
			{
				Field:     "race",
				Reference: "White",
				Levels: []LevelConfig{
					{Code: 1, Name: "White"},
					{Code: 2, Name: "Black"},
					{Code: 3, Name: "Asian"},
					{Code: 4, Name: "Other"},
				},
			},
			{
				Field:     "educ",
				Reference: "HighSchool",
				Levels: []LevelConfig{
					{Code: 1, Name: "LessHighSchool"},
					{Code: 2, Name: "HighSchool"},
					{Code: 3, Name: "SomeCollege"},
					{Code: 4, Name: "Bachelor"},
					{Code: 5, Name: "Advanced"},
				},
			},
			{
				Field:     "mortgage",
				Reference: "Owned",
				Levels: []LevelConfig{
					{Code: 1, Name: "Owned"},
					{Code: 2, Name: "Mortgaged"},
					{Code: 3, Name: "Rented"},
				},
			},
		},
		Models: ModelsConfig{
			MaxIter:        250,
			Components:     2,
			Neighbors:      5,
			LogitReference: label.None.String(),
		},
	}
}

// Load reads a YAML config file over the documented defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("pipeline: read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("pipeline: unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configurations that cannot produce a well-defined run.
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("%w: input is required", ErrConfig)
	}
	if c.Artifact == "" {
		return fmt.Errorf("%w: artifact is required", ErrConfig)
	}
	if c.Label.OfficialFlag == "" || c.Label.SupplementalFlag == "" || len(c.Label.Amounts) == 0 {
		return fmt.Errorf("%w: label needs both flags and at least one amount field", ErrConfig)
	}
	if c.Filter.AgeField == "" {
		return fmt.Errorf("%w: filter.age_field is required", ErrConfig)
	}
	if f := c.Split.TrainFraction; f < 0 || f > 1 {
		return fmt.Errorf("%w: split.train_fraction %v outside [0,1]", ErrConfig, f)
	}
	if f := c.Split.ValidationFraction; f < 0 || f > 1 {
		return fmt.Errorf("%w: split.validation_fraction %v outside [0,1]", ErrConfig, f)
	}
	if c.Models.MaxIter <= 0 {
		return fmt.Errorf("%w: models.max_iter must be positive", ErrConfig)
	}
	if c.Models.Components <= 0 {
		return fmt.Errorf("%w: models.components must be positive", ErrConfig)
	}
	if c.Models.Neighbors <= 0 {
		return fmt.Errorf("%w: models.neighbors must be positive", ErrConfig)
	}
	if _, err := label.Parse(c.Models.LogitReference); err != nil {
		return fmt.Errorf("%w: models.logit_reference: %v", ErrConfig, err)
	}
	for _, f := range c.Fields {
		if f.Field == "" || len(f.Levels) == 0 || f.Reference == "" {
			return fmt.Errorf("%w: field %q needs levels and a reference", ErrConfig, f.Field)
		}
	}

	return nil
}

// labelSpec converts the config to the label package's spec.
func (c *Config) labelSpec() label.Spec {
	return label.Spec{
		OfficialFlag:     c.Label.OfficialFlag,
		SupplementalFlag: c.Label.SupplementalFlag,
		Amounts:          c.Label.Amounts,
	}
}

// filterConfig converts the config to the filter package's config.
func (c *Config) filterConfig() filter.Config {
	return filter.Config{
		AgeField:    c.Filter.AgeField,
		MinAge:      c.Filter.MinAge,
		SigmaFields: c.Filter.SigmaFields,
		Sigma:       c.Filter.Sigma,
	}
}

// fieldSpecs converts the config to the encode package's specs.
func (c *Config) fieldSpecs() []encode.FieldSpec {
	out := make([]encode.FieldSpec, len(c.Fields))
	for i, f := range c.Fields {
		spec := encode.FieldSpec{Field: f.Field, Reference: f.Reference}
		for _, lv := range f.Levels {
			spec.Levels = append(spec.Levels, encode.Level{Code: lv.Code, Name: lv.Name})
		}
		out[i] = spec
	}

	return out
}
