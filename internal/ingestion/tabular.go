package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/barstore/internal/apperrors"
)

// RawTable is a tabular file loaded as text: one header and the data rows.
// Every row is padded (or truncated) to the header length, so a cell that is
// absent from the file reads as "".
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string
}

// Shape returns (rows, columns), as logged after loading.
func (t *RawTable) Shape() (int, int) {
	return len(t.Rows), len(t.Header)
}

// ReadTable loads a CSV file, or the first sheet of an .xlsx workbook, as a RawTable.
//
// It fails with a NotFound error when path does not exist. An empty file yields
// a table without columns; the caller's column checks report it.
func ReadTable(path string) (*RawTable, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFound("read table", path, err)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // short rows are padded below
	r.TrimLeadingSpace = true

	t := &RawTable{Source: path}

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return t, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t.Header = header

	line := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++
		if isBlankRecord(rec) {
			continue
		}
		t.Rows = append(t.Rows, fitRow(rec, len(header)))
	}
	return t, nil
}

func readXLSX(path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	t := &RawTable{Source: path}
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return t, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return t, nil
	}

	t.Header = rows[0]
	for _, rec := range rows[1:] {
		if isBlankRecord(rec) {
			continue
		}
		t.Rows = append(t.Rows, fitRow(rec, len(t.Header)))
	}
	return t, nil
}

// fitRow pads or truncates rec to n cells.
func fitRow(rec []string, n int) []string {
	out := make([]string, n)
	copy(out, rec)
	return out
}

func isBlankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
