// SPDX-License-Identifier: MIT

package encode

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/stratum/table"
)

// Sentinel errors for categorical encoding.
var (
	// ErrUnknownCode is returned when a raw code has no configured level.
	ErrUnknownCode = errors.New("encode: code outside configured level set")

	// ErrUnknownLevel is returned when a categorical cell names no
	// configured level (Expand on hand-edited data).
	ErrUnknownLevel = errors.New("encode: level outside configured level set")

	// ErrBadReference is returned when the configured reference level is
	// not a member of the field's level set.
	ErrBadReference = errors.New("encode: reference level not in level set")

	// ErrDuplicateLevel is returned when a level set repeats a name or code.
	ErrDuplicateLevel = errors.New("encode: duplicate level in level set")

	// ErrMissingCode is returned when a code cell is NaN; categorical
	// fields carry no missingness policy, so absent codes are faults.
	ErrMissingCode = errors.New("encode: missing (NaN) category code")
)

// Level binds one raw numeric code to one level name.
type Level struct {
	Code float64
	Name string
}

// FieldSpec is the full, explicit encoding of one categorical field:
// the ordered level set and the designated reference level.
type FieldSpec struct {
	// Field is the column name the spec applies to.
	Field string
	// Levels is the fixed, ordered level set. Order is meaningful: it is
	// the indicator-column order after expansion.
	Levels []Level
	// Reference is the level dropped during indicator expansion. It must
	// be a member of Levels.
	Reference string
}

// validate checks the spec's internal consistency.
func (s FieldSpec) validate() error {
	if len(s.Levels) == 0 {
		return fmt.Errorf("encode(%q): empty level set: %w", s.Field, ErrBadReference)
	}

	names := make(map[string]bool, len(s.Levels))
	codes := make(map[float64]bool, len(s.Levels))
	refSeen := false
	for _, lv := range s.Levels {
		if names[lv.Name] || codes[lv.Code] {
			return fmt.Errorf("encode(%q, level %q): %w", s.Field, lv.Name, ErrDuplicateLevel)
		}
		names[lv.Name] = true
		codes[lv.Code] = true
		if lv.Name == s.Reference {
			refSeen = true
		}
	}
	if !refSeen {
		return fmt.Errorf("encode(%q, reference %q): %w", s.Field, s.Reference, ErrBadReference)
	}

	return nil
}

// Map replaces the numeric code column named by spec with a categorical
// column of level names, same column name, same position semantics
// (original dropped, encoded appended).
//
// Errors: ErrMissingCode / ErrUnknownCode with the offending row and code,
// table errors for a nil table or bad field name.
// Complexity: O(rows·k).
func Map(t *table.Table, spec FieldSpec) (*table.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Map: %w", table.ErrNilTable)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	codes, err := t.Numeric(spec.Field)
	if err != nil {
		return nil, fmt.Errorf("Map: %w", err)
	}

	byCode := make(map[float64]string, len(spec.Levels))
	for _, lv := range spec.Levels {
		byCode[lv.Code] = lv.Name
	}

	out := make([]string, len(codes))
	for r, code := range codes {
		if math.IsNaN(code) {
			return nil, fmt.Errorf("Map(%q, row %d): %w", spec.Field, r, ErrMissingCode)
		}
		name, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("Map(%q, row %d, code %v): %w", spec.Field, r, code, ErrUnknownCode)
		}
		out[r] = name
	}

	next, err := t.Without(spec.Field)
	if err != nil {
		return nil, fmt.Errorf("Map: %w", err)
	}

	return next.WithCategorical(spec.Field, out)
}

// Expand replaces the categorical column named by spec with k−1 binary
// indicator columns, one per non-reference level, named <field>_<level> in
// the spec's level order. The reference level contributes 0 to every
// indicator. The source column is dropped.
//
// Errors: ErrUnknownLevel with the offending row, ErrBadReference,
// table errors for a nil table or bad field name.
// Complexity: O(rows·k).
func Expand(t *table.Table, spec FieldSpec) (*table.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Expand: %w", table.ErrNilTable)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	cats, err := t.Categorical(spec.Field)
	if err != nil {
		return nil, fmt.Errorf("Expand: %w", err)
	}

	known := make(map[string]bool, len(spec.Levels))
	for _, lv := range spec.Levels {
		known[lv.Name] = true
	}
	for r, name := range cats {
		if !known[name] {
			return nil, fmt.Errorf("Expand(%q, row %d, level %q): %w",
				spec.Field, r, name, ErrUnknownLevel)
		}
	}

	next, err := t.Without(spec.Field)
	if err != nil {
		return nil, fmt.Errorf("Expand: %w", err)
	}

	for _, lv := range spec.Levels {
		if lv.Name == spec.Reference {
			continue // reference level: implicit all-zero column
		}
		ind := make([]float64, len(cats))
		for r, name := range cats {
			if name == lv.Name {
				ind[r] = 1
			}
		}
		next, err = next.WithNumeric(IndicatorName(spec.Field, lv.Name), ind)
		if err != nil {
			return nil, fmt.Errorf("Expand: %w", err)
		}
	}

	return next, nil
}

// ExpandAll applies Expand for every spec, in slice order.
func ExpandAll(t *table.Table, specs []FieldSpec) (*table.Table, error) {
	var err error
	for _, spec := range specs {
		t, err = Expand(t, spec)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}

// MapAll applies Map for every spec, in slice order.
func MapAll(t *table.Table, specs []FieldSpec) (*table.Table, error) {
	var err error
	for _, spec := range specs {
		t, err = Map(t, spec)
		if err != nil {
			return nil, err
		}
	}

	return t, nil
}

// IndicatorName is the canonical dummy-column name for a field level.
func IndicatorName(field, level string) string {
	return field + "_" + level
}
