// SPDX-License-Identifier: MIT

package baseline

import (
	"errors"
	"fmt"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/knn"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/stratum/label"
)

// Sentinel errors for the KNN bridge.
var (
	// ErrEmptyInput is returned for a matrix with no rows or no columns.
	ErrEmptyInput = errors.New("baseline: empty input matrix")

	// ErrLabelMismatch is returned when labels and rows disagree in length.
	ErrLabelMismatch = errors.New("baseline: label/row count mismatch")

	// ErrBadNeighbors is returned for a non-positive neighbor count.
	ErrBadNeighbors = errors.New("baseline: neighbor count must be positive")

	// ErrNotFitted is returned when Predict runs before Fit.
	ErrNotFitted = errors.New("baseline: model not fitted")

	// ErrDimensionMismatch is returned when scoring data disagrees with the
	// fitted feature count.
	ErrDimensionMismatch = errors.New("baseline: feature count mismatch")
)

// DefaultNeighbors is the study's k.
const DefaultNeighbors = 5

// KNN wraps golearn's KnnClassifier behind the pipeline's matrix/label
// contract.
type KNN struct {
	neighbors int
	features  []string
	cls       *knn.KNNClassifier
}

// NewKNN returns an unfitted KNN with euclidean distance and linear search,
// the configuration the study's baseline uses.
func NewKNN(neighbors int) (*KNN, error) {
	if neighbors <= 0 {
		return nil, fmt.Errorf("NewKNN(%d): %w", neighbors, ErrBadNeighbors)
	}

	return &KNN{neighbors: neighbors}, nil
}

// Fit packs the training design matrix into golearn instances and fits the
// classifier. featureNames fixes the attribute schema; the same names must
// be used for Predict.
func (k *KNN) Fit(X *mat.Dense, groups []string, featureNames []string) error {
	inst, err := instances(X, groups, featureNames)
	if err != nil {
		return fmt.Errorf("Fit: %w", err)
	}

	cls := knn.NewKnnClassifier("euclidean", "linear", k.neighbors)
	if err = cls.Fit(inst); err != nil {
		return fmt.Errorf("Fit: %w", err)
	}
	k.cls = cls
	k.features = append([]string(nil), featureNames...)

	return nil
}

// Predict returns one predicted group name per row of X.
func (k *KNN) Predict(X *mat.Dense) ([]string, error) {
	if k.cls == nil {
		return nil, fmt.Errorf("Predict: %w", ErrNotFitted)
	}
	r, c := X.Dims()
	if c != len(k.features) {
		return nil, fmt.Errorf("Predict(%d features, fitted %d): %w",
			c, len(k.features), ErrDimensionMismatch)
	}

	// Class cells must hold some valid level for golearn's bookkeeping;
	// the prediction ignores them. Use the first canonical group.
	placeholder := make([]string, r)
	for i := range placeholder {
		placeholder[i] = label.Names[0]
	}
	inst, err := instances(X, placeholder, k.features)
	if err != nil {
		return nil, fmt.Errorf("Predict: %w", err)
	}

	preds, err := k.cls.Predict(inst)
	if err != nil {
		return nil, fmt.Errorf("Predict: %w", err)
	}

	out := make([]string, r)
	for i := 0; i < r; i++ {
		out[i] = base.GetClass(preds, i)
	}

	return out, nil
}

// instances builds golearn DenseInstances from a numeric matrix and
// aligned group names. The class attribute's value dictionary is seeded
// with every canonical group in fixed order so that independently built
// instance sets (train vs. test) share one schema.
func instances(X *mat.Dense, groups []string, featureNames []string) (*base.DenseInstances, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, ErrEmptyInput
	}
	if len(groups) != r {
		return nil, ErrLabelMismatch
	}
	if len(featureNames) != c {
		return nil, ErrDimensionMismatch
	}

	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, c)
	for j, name := range featureNames {
		specs[j] = inst.AddAttribute(base.NewFloatAttribute(name))
	}

	classAttr := base.NewCategoricalAttribute()
	classAttr.SetName(label.Column)
	for _, name := range label.Names {
		classAttr.GetSysValFromString(name) // seed the dictionary, fixed order
	}
	classSpec := inst.AddAttribute(classAttr)
	if err := inst.AddClassAttribute(classAttr); err != nil {
		return nil, err
	}

	if err := inst.Extend(r); err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			inst.Set(specs[j], i, base.PackFloatToBytes(X.At(i, j)))
		}
		if _, err := label.Parse(groups[i]); err != nil {
			return nil, err
		}
		inst.Set(classSpec, i, classAttr.GetSysValFromString(groups[i]))
	}

	return inst, nil
}
