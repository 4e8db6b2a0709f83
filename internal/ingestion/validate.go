package ingestion

import (
	"math"
	"sort"

	"github.com/guttosm/barstore/internal/apperrors"
)

// Validate runs the validation gates against a normalized frame, in this
// fixed order, returning the first failure as an *apperrors.ValidationError:
//
//  1. ColumnsMissing: every CriticalColumns entry is present;
//  2. MalformedTimestamp: every non-blank timestamp is ISO-8601;
//  3. MissingData: no missing marker in any critical cell;
//  4. DuplicateData: no two rows share (timestamp, symbol);
//  5. MissingTickers: every registry symbol appears at least once.
//
// Symbols present in the data but absent from the registry are accepted.
// On success the frame is left untouched.
func Validate(f *Frame, reg *Registry) error {
	if err := checkColumns(f); err != nil {
		return err
	}
	if err := checkTimestamps(f); err != nil {
		return err
	}
	if err := checkMissing(f); err != nil {
		return err
	}
	if err := checkDuplicates(f); err != nil {
		return err
	}
	return checkCoverage(f, reg)
}

func checkColumns(f *Frame) error {
	var missing []string
	for _, c := range CriticalColumns {
		if !f.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &apperrors.ValidationError{Kind: apperrors.ColumnsMissing, Source: f.Source, Columns: missing}
}

func checkTimestamps(f *Frame) error {
	if f.badTimeRow == 0 {
		return nil
	}
	return &apperrors.ValidationError{
		Kind:   apperrors.MalformedTimestamp,
		Source: f.Source,
		Row:    f.badTimeRow,
		Value:  f.badTimeValue,
	}
}

func checkMissing(f *Frame) error {
	counts := map[string]int{}
	for r := 0; r < f.rows; r++ {
		if f.times[r].IsZero() {
			counts[ColTimestamp]++
		}
		if f.symbols[r] == "" {
			counts[ColSymbol]++
		}
		for _, col := range numericColumns {
			if math.IsNaN(f.numbers[col][r]) {
				counts[col]++
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return &apperrors.ValidationError{Kind: apperrors.MissingData, Source: f.Source, Counts: counts}
}

type rowKey struct {
	sec    int64
	nsec   int
	symbol string
}

func checkDuplicates(f *Frame) error {
	seen := make(map[rowKey]struct{}, f.rows)
	dups := 0
	for r := 0; r < f.rows; r++ {
		k := rowKey{sec: f.times[r].Unix(), nsec: f.times[r].Nanosecond(), symbol: f.symbols[r]}
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	if dups == 0 {
		return nil
	}
	return &apperrors.ValidationError{Kind: apperrors.DuplicateData, Source: f.Source, Count: dups}
}

func checkCoverage(f *Frame, reg *Registry) error {
	present := make(map[string]struct{})
	for _, s := range f.symbols {
		present[s] = struct{}{}
	}
	var missing []string
	for _, s := range reg.Symbols() {
		if _, ok := present[s]; !ok {
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &apperrors.ValidationError{Kind: apperrors.MissingTickers, Source: f.Source, Symbols: missing}
}
