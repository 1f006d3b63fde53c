// SPDX-License-Identifier: MIT
//
// File: runner.go
// Role: Stage orchestration. Prepare builds and persists the cleaned
//       artifact; Run takes it through splitting, model fitting and
//       evaluation. Stages log boundaries through zap; all statistical
//       work lives in the stage packages.

package pipeline

import (
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/stratum/baseline"
	"github.com/katalvlaran/stratum/discriminant"
	"github.com/katalvlaran/stratum/encode"
	"github.com/katalvlaran/stratum/filter"
	"github.com/katalvlaran/stratum/label"
	"github.com/katalvlaran/stratum/logit"
	"github.com/katalvlaran/stratum/metrics"
	"github.com/katalvlaran/stratum/pca"
	"github.com/katalvlaran/stratum/split"
	"github.com/katalvlaran/stratum/table"
)

// Runner executes pipeline stages for one configuration.
type Runner struct {
	cfg *Config
	log *zap.Logger
}

// NewRunner validates the configuration and binds a logger (nil → no-op).
func NewRunner(cfg *Config, log *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Runner{cfg: cfg, log: log}, nil
}

// Prepare reads the raw extract and produces the cleaned, labeled,
// categorical-mapped, outlier-filtered analysis table, persisting it to
// the configured artifact path.
func (r *Runner) Prepare() (*table.Table, error) {
	f, err := os.Open(r.cfg.Input)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open input: %w", err)
	}
	defer f.Close()

	raw, err := table.ReadCSV(f)
	if err != nil {
		return nil, err
	}
	r.log.Info("extract loaded",
		zap.String("input", r.cfg.Input),
		zap.Int("rows", raw.Rows()),
		zap.Int("columns", raw.Cols()))

	cleaned, err := r.Clean(raw)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(r.cfg.Artifact)
	if err != nil {
		return nil, fmt.Errorf("pipeline: create artifact: %w", err)
	}
	defer out.Close()
	if err = cleaned.WriteCSV(out); err != nil {
		return nil, err
	}
	r.log.Info("artifact written",
		zap.String("artifact", r.cfg.Artifact),
		zap.Int("rows", cleaned.Rows()))

	return cleaned, nil
}

// Clean applies the in-memory cleaning stages to an already-loaded raw
// table: rename → derive group → project → map categoricals → outlier
// filter. Exposed separately so tests and callers with in-memory data can
// skip the file boundary.
func (r *Runner) Clean(raw *table.Table) (*table.Table, error) {
	t, err := raw.Rename(r.cfg.Rename)
	if err != nil {
		return nil, err
	}

	t, err = label.Derive(t, r.cfg.labelSpec())
	if err != nil {
		return nil, err
	}
	r.log.Info("group labels derived", zap.Int("rows", t.Rows()))

	keep := append(append([]string(nil), r.cfg.Keep...), label.Column)
	t, err = t.Select(keep...)
	if err != nil {
		return nil, err
	}

	t, err = encode.MapAll(t, r.cfg.fieldSpecs())
	if err != nil {
		return nil, err
	}

	filtered, res, err := filter.Apply(t, r.cfg.filterConfig())
	if err != nil {
		return nil, err
	}
	r.log.Info("outlier filter applied",
		zap.Int("kept", res.Kept),
		zap.Int("removed", res.Removed))

	return filtered, nil
}

// LoadArtifact reads the cleaned artifact back from disk. The configured
// categorical fields and the group column are restored as categorical; a
// plain numeric read would reject their level names.
func (r *Runner) LoadArtifact() (*table.Table, error) {
	f, err := os.Open(r.cfg.Artifact)
	if err != nil {
		return nil, fmt.Errorf("pipeline: open artifact: %w", err)
	}
	defer f.Close()

	cats := make([]string, 0, len(r.cfg.Fields)+1)
	for _, field := range r.cfg.Fields {
		cats = append(cats, field.Field)
	}
	cats = append(cats, label.Column)

	t, err := table.ReadCSV(f, table.WithStringColumns(cats...))
	if err != nil {
		return nil, err
	}
	r.log.Info("artifact loaded",
		zap.String("artifact", r.cfg.Artifact),
		zap.Int("rows", t.Rows()))

	return t, nil
}

// Run executes the full study: prepare, reload the persisted artifact,
// expand, split, fit every method on train, cross-check on validation,
// score on test, evaluate. Every modeling run consumes the artifact file,
// never the in-memory intermediate.
func (r *Runner) Run() (*Report, error) {
	if _, err := r.Prepare(); err != nil {
		return nil, err
	}
	cleaned, err := r.LoadArtifact()
	if err != nil {
		return nil, err
	}

	return r.Evaluate(cleaned)
}

// Evaluate runs the modeling half of the study against a cleaned table.
func (r *Runner) Evaluate(cleaned *table.Table) (*Report, error) {
	expanded, err := encode.ExpandAll(cleaned, r.cfg.fieldSpecs())
	if err != nil {
		return nil, err
	}

	asg, err := split.Assign(expanded,
		split.WithSeed(r.cfg.Seed),
		split.WithFractions(r.cfg.Split.TrainFraction, r.cfg.Split.ValidationFraction))
	if err != nil {
		return nil, err
	}
	r.log.Info("stratified split drawn",
		zap.Int64("seed", r.cfg.Seed),
		zap.Int("train", len(asg.Train)),
		zap.Int("validation", len(asg.Validation)),
		zap.Int("test", len(asg.Test)))

	features := expanded.NumericNames()
	sets, err := newSplitSets(expanded, asg, features)
	if err != nil {
		return nil, err
	}
	sets.standardize()

	report := &Report{
		Seed:       r.cfg.Seed,
		Rows:       cleaned.Rows(),
		Train:      len(asg.Train),
		Validation: len(asg.Validation),
		Test:       len(asg.Test),
		Features:   features,
	}

	runners := []func(*splitSets) (MethodReport, error){
		r.runPCA,
		r.runLDA,
		r.runQDA,
		r.runLogit,
		r.runKNN,
	}
	for _, run := range runners {
		mr, rerr := run(sets)
		if rerr != nil {
			return nil, rerr
		}
		r.log.Info("method evaluated",
			zap.String("method", mr.Method),
			zap.Float64("accuracy", mr.Accuracy))
		report.Methods = append(report.Methods, mr)
	}

	return report, nil
}

// splitSets bundles the three design matrices and truth slices every
// method consumes — identical columns, identical encodings.
type splitSets struct {
	features              []string
	xTrain, xValid, xTest *mat.Dense
	yTrain, yValid, yTest []string
}

func newSplitSets(expanded *table.Table, asg *split.Assignment, features []string) (*splitSets, error) {
	s := &splitSets{features: features}
	for _, part := range []struct {
		rows []int
		x    **mat.Dense
		y    *[]string
	}{
		{asg.Train, &s.xTrain, &s.yTrain},
		{asg.Validation, &s.xValid, &s.yValid},
		{asg.Test, &s.xTest, &s.yTest},
	} {
		sub, err := expanded.Subset(part.rows)
		if err != nil {
			return nil, err
		}
		x, err := sub.ToDense(features...)
		if err != nil {
			return nil, err
		}
		y, err := sub.Categorical(label.Column)
		if err != nil {
			return nil, err
		}
		*part.x = x
		*part.y = y
	}

	return s, nil
}

// standardize z-scores every feature column using the train split's mean
// and standard deviation, applied identically to all three matrices. The
// moments come from train only — validation and test never leak into the
// scaling. A constant train column keeps scale 1 so indicators that never
// vary do not blow up.
func (s *splitSets) standardize() {
	_, c := s.xTrain.Dims()
	for j := 0; j < c; j++ {
		mean, std := stat.MeanStdDev(mat.Col(nil, j, s.xTrain), nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for _, x := range []*mat.Dense{s.xTrain, s.xValid, s.xTest} {
			r, _ := x.Dims()
			for i := 0; i < r; i++ {
				x.Set(i, j, (x.At(i, j)-mean)/std)
			}
		}
	}
}

// evaluate derives the shared metric block from test truth and predictions.
func evaluate(method string, truth, preds []string) (MethodReport, error) {
	cm, err := metrics.Confusion(truth, preds)
	if err != nil {
		return MethodReport{}, fmt.Errorf("pipeline(%s): %w", method, err)
	}
	acc, err := cm.Accuracy()
	if err != nil {
		return MethodReport{}, fmt.Errorf("pipeline(%s): %w", method, err)
	}
	recall, err := cm.Recall(label.Aid)
	if err != nil {
		return MethodReport{}, fmt.Errorf("pipeline(%s): %w", method, err)
	}
	precision, err := cm.Precision(label.Aid)
	if err != nil {
		return MethodReport{}, fmt.Errorf("pipeline(%s): %w", method, err)
	}
	f1, err := cm.F1(label.Aid)
	if err != nil {
		return MethodReport{}, fmt.Errorf("pipeline(%s): %w", method, err)
	}

	return MethodReport{
		Method:    method,
		Confusion: cm,
		Accuracy:  acc,
		Recall:    recall,
		Precision: precision,
		F1:        f1,
	}, nil
}

func (r *Runner) runPCA(s *splitSets) (MethodReport, error) {
	opt := pca.WithComponents(r.cfg.Models.Components)
	model, err := pca.Fit(s.xTrain, s.yTrain, opt)
	if err != nil {
		return MethodReport{}, err
	}
	validModel, err := pca.Fit(s.xValid, s.yValid, opt)
	if err != nil {
		return MethodReport{}, err
	}
	drift, err := pca.Drift(model, validModel)
	if err != nil {
		return MethodReport{}, err
	}
	preds, err := model.Predict(s.xTest)
	if err != nil {
		return MethodReport{}, err
	}

	mr, err := evaluate("pca", s.yTest, preds)
	if err != nil {
		return MethodReport{}, err
	}
	mr.Drift, mr.HasDrift = drift, true

	return mr, nil
}

func (r *Runner) runDiscriminant(s *splitSets, kind discriminant.Kind) (MethodReport, error) {
	model, err := discriminant.Fit(s.xTrain, s.yTrain, discriminant.WithKind(kind))
	if err != nil {
		return MethodReport{}, err
	}
	validModel, err := discriminant.Fit(s.xValid, s.yValid, discriminant.WithKind(kind))
	if err != nil {
		return MethodReport{}, err
	}
	drift, err := discriminant.Drift(model, validModel)
	if err != nil {
		return MethodReport{}, err
	}
	preds, err := model.Predict(s.xTest)
	if err != nil {
		return MethodReport{}, err
	}

	mr, err := evaluate(kind.String(), s.yTest, preds)
	if err != nil {
		return MethodReport{}, err
	}
	mr.Drift, mr.HasDrift = drift, true

	return mr, nil
}

func (r *Runner) runLDA(s *splitSets) (MethodReport, error) {
	return r.runDiscriminant(s, discriminant.Linear)
}

func (r *Runner) runQDA(s *splitSets) (MethodReport, error) {
	return r.runDiscriminant(s, discriminant.Quadratic)
}

func (r *Runner) runLogit(s *splitSets) (MethodReport, error) {
	ref, err := label.Parse(r.cfg.Models.LogitReference)
	if err != nil {
		return MethodReport{}, err
	}
	opts := []logit.Option{logit.WithMaxIter(r.cfg.Models.MaxIter), logit.WithReference(ref)}

	model, err := logit.Fit(s.xTrain, s.yTrain, opts...)
	if err != nil {
		return MethodReport{}, err
	}
	validModel, err := logit.Fit(s.xValid, s.yValid, opts...)
	if err != nil {
		return MethodReport{}, err
	}
	drift, err := logit.Drift(model, validModel)
	if err != nil {
		return MethodReport{}, err
	}
	preds, err := model.Predict(s.xTest)
	if err != nil {
		return MethodReport{}, err
	}

	mr, err := evaluate("logit", s.yTest, preds)
	if err != nil {
		return MethodReport{}, err
	}
	mr.Drift, mr.HasDrift = drift, true
	mr.Iterations, mr.Converged = model.Iterations, model.Converged

	return mr, nil
}

func (r *Runner) runKNN(s *splitSets) (MethodReport, error) {
	model, err := baseline.NewKNN(r.cfg.Models.Neighbors)
	if err != nil {
		return MethodReport{}, err
	}
	if err = model.Fit(s.xTrain, s.yTrain, s.features); err != nil {
		return MethodReport{}, err
	}
	preds, err := model.Predict(s.xTest)
	if err != nil {
		return MethodReport{}, err
	}

	return evaluate("knn", s.yTest, preds)
}
