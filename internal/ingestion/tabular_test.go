package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/barstore/internal/apperrors"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return p
}

func TestReadTable_CSV(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name       string
		content    string
		wantHeader []string
		wantRows   [][]string
	}{
		{
			name:       "plain",
			content:    "a,b,c\n1,2,3\n",
			wantHeader: []string{"a", "b", "c"},
			wantRows:   [][]string{{"1", "2", "3"}},
		},
		{
			name:       "short row padded",
			content:    "a,b,c\n1,2\n",
			wantHeader: []string{"a", "b", "c"},
			wantRows:   [][]string{{"1", "2", ""}},
		},
		{
			name:       "long row truncated and blank lines skipped",
			content:    "a,b\n1,2,3\n,\n4,5\n",
			wantHeader: []string{"a", "b"},
			wantRows:   [][]string{{"1", "2"}, {"4", "5"}},
		},
		{
			name:       "bom stripped",
			content:    "\ufeffTimestamp,Ticker\nx,y\n",
			wantHeader: []string{"Timestamp", "Ticker"},
			wantRows:   [][]string{{"x", "y"}},
		},
		{
			name:       "empty file",
			content:    "",
			wantHeader: nil,
			wantRows:   nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeTempFile(t, dir, "t.csv", tc.content)
			raw, err := ReadTable(path)
			require.NoError(t, err)
			assert.Equal(t, tc.wantHeader, raw.Header)
			assert.Equal(t, tc.wantRows, raw.Rows)
			assert.Equal(t, path, raw.Source)
		})
	}
}

func TestReadTable_NotFound(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestReadTable_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "market.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Timestamp", "Ticker", "Open", "High", "Low", "Close", "Volume"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2025-11-17T09:30:00Z", "AAPL", "271.45", "272.07", "270.77", "270.88", "1416"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	raw, err := ReadTable(path)
	require.NoError(t, err)
	rows, cols := raw.Shape()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 7, cols)
	assert.Equal(t, "AAPL", raw.Rows[0][1])
	assert.Equal(t, "1416", raw.Rows[0][6])
}
