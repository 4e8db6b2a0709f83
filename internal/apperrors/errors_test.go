package apperrors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "not found", err: NotFound("open", "x.csv", fs.ErrNotExist), want: KindNotFound},
		{name: "schema", err: Schema("exec schema", "s.sql", errors.New("syntax")), want: KindSchema},
		{name: "storage", err: Storage("insert prices", errors.New("disk full")), want: KindStorage},
		{name: "validation", err: &ValidationError{Kind: MissingData}, want: KindValidation},
		{name: "wrapped validation", err: fmt.Errorf("load: %w", &ValidationError{Kind: DuplicateData}), want: KindValidation},
		{name: "plain", err: errors.New("boom"), want: KindUnknown},
		{name: "nil", err: nil, want: KindUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestError_UnwrapAndMessage(t *testing.T) {
	err := NotFound("read ticker file", "tickers.csv", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected errors.Is(fs.ErrNotExist)")
	}
	want := "read ticker file tickers.csv: file does not exist"
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}
}

func TestValidationError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &ValidationError{Kind: MissingTickers, Symbols: []string{"MSFT"}})
	if !errors.Is(err, &ValidationError{Kind: MissingTickers}) {
		t.Fatalf("expected kind match")
	}
	if errors.Is(err, &ValidationError{Kind: MissingData}) {
		t.Fatalf("unexpected match on different kind")
	}
	if ValidationKindOf(err) != MissingTickers {
		t.Fatalf("ValidationKindOf=%v", ValidationKindOf(err))
	}
}

func TestValidationError_Messages(t *testing.T) {
	cases := []struct {
		err  *ValidationError
		want string
	}{
		{&ValidationError{Kind: ColumnsMissing, Columns: []string{"close", "volume"}}, "missing required columns: close, volume"},
		{&ValidationError{Kind: MissingData, Counts: map[string]int{"open": 1, "close": 2}}, "missing critical OHLCV or timestamp data: close=2 open=1"},
		{&ValidationError{Kind: DuplicateData, Count: 3}, "duplicate data found: 3 rows repeat a (timestamp, symbol) key"},
		{&ValidationError{Kind: MissingTickers, Symbols: []string{"MSFT"}, Source: "m.csv"}, "m.csv: missing required tickers in market data: MSFT"},
		{&ValidationError{Kind: MalformedTimestamp, Row: 4, Value: "yesterday"}, `malformed timestamp "yesterday" on row 4`},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q want %q", got, tc.want)
		}
	}
}
