package internal

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Stage names used in progress output and StageError
const (
	StageClean     = "clean"
	StageNormalize = "normalize"
	StageFeatures  = "features"
	StageValidate  = "validate"
)

// Pipeline runs Cleaner → Normalizer → FeatureEngineer → schema check
type Pipeline struct {
	cfg        Config
	cleaner    *Cleaner
	normalizer *Normalizer
	engineer   *FeatureEngineer
}

// NewPipeline creates a Pipeline for a validated configuration
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:        cfg,
		cleaner:    NewCleaner(cfg),
		normalizer: NewNormalizer(cfg),
		engineer:   NewFeatureEngineer(cfg),
	}, nil
}

// Config returns the pipeline configuration
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run transforms the raw table through every stage in sequence. The input
// table is consumed. Each failure is wrapped in a StageError.
func (p *Pipeline) Run(ctx context.Context, raw *Table) (*Table, *Summary, error) {
	summary := NewSummary(p.cfg)
	summary.RowsRaw = raw.Len()

	table := raw
	steps := []ProgressStep{
		{
			Message: "Cleaning (missing values, duplicates)",
			Fn: func() error {
				out, stats, err := p.cleaner.Clean(table)
				if err != nil {
					return &StageError{Stage: StageClean, Err: err}
				}
				table, summary.Clean = out, stats
				return nil
			},
		},
		{
			Message: "Normalizing timestamps and categoricals",
			Fn: func() error {
				out, stats, err := p.normalizer.Normalize(table)
				if err != nil {
					return &StageError{Stage: StageNormalize, Err: err}
				}
				table, summary.Normalize = out, stats
				return nil
			},
		},
		{
			Message: "Engineering features",
			Fn: func() error {
				out, stats, err := p.engineer.Engineer(table)
				if err != nil {
					return &StageError{Stage: StageFeatures, Err: err}
				}
				table, summary.Features = out, stats
				return nil
			},
		},
	}
	if p.cfg.Mode != ValidateOff {
		steps = append(steps, ProgressStep{
			Message: "Validating schema",
			Fn: func() error {
				return p.validate(table, summary)
			},
		})
	}

	if err := ShowProgressWithSteps(ctx, steps); err != nil {
		return nil, summary, err
	}

	summary.Collect(table)
	Logger().Info("pipeline complete",
		zap.String("run_id", summary.RunID),
		zap.Int("rows_raw", summary.RowsRaw),
		zap.Int("rows_out", summary.RowsOut),
		zap.Int("sessions", summary.Features.Sessions),
	)
	return table, summary, nil
}

func (p *Pipeline) validate(t *Table, summary *Summary) error {
	issues := ValidateSchema(t, p.cfg.required())
	summary.Issues = issues
	if len(issues) == 0 {
		return nil
	}
	if p.cfg.Mode == ValidateStrict {
		return &StageError{Stage: StageValidate, Err: &SchemaError{Issues: issues}}
	}
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.String())
	}
	LogWarn("Validation warnings: %s", strings.Join(parts, "; "))
	return nil
}
