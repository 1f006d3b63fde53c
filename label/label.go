// SPDX-License-Identifier: MIT

package label

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/stratum/table"
)

// Sentinel errors for group derivation.
var (
	// ErrMissingIndicators is returned when a row has every poverty flag and
	// every subsidy amount absent — the group cannot be derived.
	ErrMissingIndicators = errors.New("label: all poverty/subsidy indicators missing")

	// ErrNegativeAmount is returned when a subsidy amount is negative;
	// amounts are monetary volumes and must be ≥ 0.
	ErrNegativeAmount = errors.New("label: negative subsidy amount")

	// ErrSpec is returned when the Spec references no flag or amount fields.
	ErrSpec = errors.New("label: spec must name at least one flag and one amount field")

	// ErrUnknownGroup is returned when a group name is outside {aid, poor, no}.
	ErrUnknownGroup = errors.New("label: unknown group name")
)

// Group is the derived study group of one observation.
type Group uint8

const (
	// Aid — receives at least one subsidy but is not impoverished.
	Aid Group = iota
	// Poor — flagged by the official or supplemental poverty measure.
	Poor
	// None — neither impoverished nor subsidy-receiving.
	None
)

// Order fixes the canonical group sequence (aid, poor, no) used by the
// splitter's draw plan and by every confusion-matrix axis.
var Order = [3]Group{Aid, Poor, None}

// Names lists the canonical string form of each group, aligned with Order.
var Names = [3]string{"aid", "poor", "no"}

// String returns the canonical short name of the group.
func (g Group) String() string {
	if int(g) < len(Names) {
		return Names[g]
	}

	return fmt.Sprintf("group(%d)", uint8(g))
}

// Column is the default name of the derived group column.
const Column = "group"

// Spec names the raw indicator columns the rule reads.
// Flags are 0/1 numeric columns; Amounts are non-negative numeric columns.
type Spec struct {
	OfficialFlag     string
	SupplementalFlag string
	Amounts          []string
}

// DefaultSpec matches the mnemonic column names produced by the pipeline's
// rename stage.
func DefaultSpec() Spec {
	return Spec{
		OfficialFlag:     "off_pov",
		SupplementalFlag: "spm_pov",
		Amounts:          []string{"snap_amt", "house_amt", "lunch_amt", "wic_amt"},
	}
}

// Derive appends the group column to t, computed per row by the ordered
// short-circuit rule. The input table is not mutated.
//
// Errors:
//   - table.ErrNilTable for a nil table,
//   - ErrSpec for an unusable spec,
//   - table.ErrColumnNotFound / table.ErrKindMismatch for bad field names,
//   - ErrMissingIndicators / ErrNegativeAmount with the offending row index.
//
// Determinism: pure function of the indicator columns; idempotent — the
// derived column depends only on the raw fields, never on itself.
// Complexity: O(rows·len(Amounts)).
func Derive(t *table.Table, spec Spec) (*table.Table, error) {
	if t == nil {
		return nil, fmt.Errorf("Derive: %w", table.ErrNilTable)
	}
	if spec.OfficialFlag == "" || spec.SupplementalFlag == "" || len(spec.Amounts) == 0 {
		return nil, fmt.Errorf("Derive: %w", ErrSpec)
	}

	official, err := t.Numeric(spec.OfficialFlag)
	if err != nil {
		return nil, fmt.Errorf("Derive: %w", err)
	}
	supplemental, err := t.Numeric(spec.SupplementalFlag)
	if err != nil {
		return nil, fmt.Errorf("Derive: %w", err)
	}
	amounts := make([][]float64, len(spec.Amounts))
	for i, name := range spec.Amounts {
		amounts[i], err = t.Numeric(name)
		if err != nil {
			return nil, fmt.Errorf("Derive: %w", err)
		}
	}

	groups := make([]string, t.Rows())
	for r := 0; r < t.Rows(); r++ {
		g, derr := deriveRow(official[r], supplemental[r], amounts, r)
		if derr != nil {
			return nil, derr
		}
		groups[r] = g.String()
	}

	return t.WithCategorical(Column, groups)
}

// deriveRow applies the ordered rule to one observation.
func deriveRow(official, supplemental float64, amounts [][]float64, r int) (Group, error) {
	// Stage 1 (Integrity): a row with no indicator at all is a data fault.
	missing := math.IsNaN(official) && math.IsNaN(supplemental)
	for _, col := range amounts {
		missing = missing && math.IsNaN(col[r])
	}
	if missing {
		return 0, fmt.Errorf("Derive(row %d): %w", r, ErrMissingIndicators)
	}

	// Stage 2 (poor): either poverty measure flags the observation.
	// NaN flags are absent indicators and compare false here.
	if official > 0 || supplemental > 0 {
		return Poor, nil
	}

	// Stage 3 (aid): tested only after poor has been excluded.
	for _, col := range amounts {
		v := col[r]
		if v < 0 {
			return 0, fmt.Errorf("Derive(row %d, amount %v): %w", r, v, ErrNegativeAmount)
		}
		if v > 0 {
			return Aid, nil
		}
	}

	// Stage 4 (no): reached only when every earlier condition failed.
	return None, nil
}

// Parse maps a canonical group name back to its Group value.
func Parse(name string) (Group, error) {
	for i, n := range Names {
		if n == name {
			return Order[i], nil
		}
	}

	return 0, fmt.Errorf("Parse(%q): %w", name, ErrUnknownGroup)
}
