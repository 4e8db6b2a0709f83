// Package apperrors defines the typed failures surfaced by the ingestion
// pipeline and both storage backends.
//
// Every component returns on the first fault it detects. Callers match on the
// failure category with KindOf or errors.As instead of inspecting messages.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// KindUnknown is returned by KindOf for errors not produced by this package.
	KindUnknown Kind = iota
	// KindNotFound means a referenced input file is absent.
	KindNotFound
	// KindSchema means the relational schema script is missing, empty or rejected.
	KindSchema
	// KindValidation means the market data failed one of the validation gates.
	KindValidation
	// KindStorage means a storage engine rejected a read or write.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindSchema:
		return "schema"
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is a categorized failure with the operation and (optionally) the file
// it concerns.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound wraps a missing-file failure.
func NotFound(op, path string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Path: path, Err: err}
}

// Schema wraps a schema definition failure.
func Schema(op, path string, err error) error {
	return &Error{Kind: KindSchema, Op: op, Path: path, Err: err}
}

// Storage wraps a storage engine failure.
func Storage(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

// ValidationKind tags the validation gate that failed.
type ValidationKind int

const (
	// ColumnsMissing: one or more critical columns are absent.
	ColumnsMissing ValidationKind = iota + 1
	// MissingData: a critical cell is blank or could not be coerced.
	MissingData
	// DuplicateData: two rows share the same (timestamp, symbol) key.
	DuplicateData
	// MissingTickers: a registry symbol never appears in the data.
	MissingTickers
	// MalformedTimestamp: a non-blank timestamp cell is not ISO-8601.
	MalformedTimestamp
)

func (k ValidationKind) String() string {
	switch k {
	case ColumnsMissing:
		return "columns_missing"
	case MissingData:
		return "missing_data"
	case DuplicateData:
		return "duplicate_data"
	case MissingTickers:
		return "missing_tickers"
	case MalformedTimestamp:
		return "malformed_timestamp"
	default:
		return "unknown"
	}
}

// ValidationError reports a failed validation gate. Only the fields relevant to
// Kind are populated.
type ValidationError struct {
	Kind    ValidationKind
	Source  string
	Columns []string       // ColumnsMissing
	Counts  map[string]int // MissingData, per column
	Count   int            // DuplicateData: rows repeating an earlier key
	Symbols []string       // MissingTickers
	Row     int            // MalformedTimestamp, 1-based data row
	Value   string         // MalformedTimestamp
}

func (e *ValidationError) Error() string {
	var msg string
	switch e.Kind {
	case ColumnsMissing:
		msg = fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
	case MissingData:
		msg = fmt.Sprintf("missing critical OHLCV or timestamp data: %s", formatCounts(e.Counts))
	case DuplicateData:
		msg = fmt.Sprintf("duplicate data found: %d rows repeat a (timestamp, symbol) key", e.Count)
	case MissingTickers:
		msg = fmt.Sprintf("missing required tickers in market data: %s", strings.Join(e.Symbols, ", "))
	case MalformedTimestamp:
		msg = fmt.Sprintf("malformed timestamp %q on row %d", e.Value, e.Row)
	default:
		msg = "validation failed"
	}
	if e.Source != "" {
		return e.Source + ": " + msg
	}
	return msg
}

// Is lets errors.Is match any *ValidationError of the same Kind.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

func formatCounts(counts map[string]int) string {
	cols := make([]string, 0, len(counts))
	for c := range counts {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, fmt.Sprintf("%s=%d", c, counts[c]))
	}
	return strings.Join(parts, " ")
}

// KindOf returns the category of err, or KindUnknown.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ValidationKindOf returns the validation gate that produced err, or 0.
func ValidationKindOf(err error) ValidationKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return 0
}
