package columnar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/guttosm/barstore/internal/apperrors"
	"github.com/guttosm/barstore/internal/domain/models"
)

// Column names accepted by ReadColumns. "symbol" is the partition column.
const (
	ColTimestamp = "timestamp"
	ColSymbol    = partitionKey
	ColOpen      = "open"
	ColHigh      = "high"
	ColLow       = "low"
	ColClose     = "close"
	ColVolume    = "volume"
)

var floatColumns = map[string]bool{ColOpen: true, ColHigh: true, ColLow: true, ColClose: true, ColVolume: true}

// Filter restricts a read to some partitions. An empty Symbols reads them all.
type Filter struct {
	Symbols []string
}

func (s *Store) selectPartitions(f Filter) ([]string, error) {
	all, err := s.Partitions()
	if err != nil {
		return nil, err
	}
	if len(f.Symbols) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(f.Symbols))
	for _, sym := range f.Symbols {
		want[sym] = true
	}
	var out []string
	for _, sym := range all {
		if want[sym] {
			out = append(out, sym)
		}
	}
	return out, nil
}

// Read returns every bar of the selected partitions. Only the matching
// partition directories are opened. Partitions come back in symbol order and
// rows within a partition in stored (timestamp) order.
func (s *Store) Read(ctx context.Context, f Filter) ([]models.Bar, error) {
	symbols, err := s.selectPartitions(f)
	if err != nil {
		return nil, err
	}

	var out []models.Bar
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := s.partitionFiles(symbol)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			rows, err := parquet.ReadFile[partitionRow](path)
			if err != nil {
				return nil, apperrors.Storage(fmt.Sprintf("read partition %s", symbol), err)
			}
			for _, r := range rows {
				out = append(out, models.Bar{
					Timestamp: r.Timestamp.UTC(),
					Symbol:    symbol,
					Open:      r.Open,
					High:      r.High,
					Low:       r.Low,
					Close:     r.Close,
					Volume:    r.Volume,
				})
			}
		}
	}
	return out, nil
}

// Columns is a column-oriented read result. Only the requested columns are
// populated; every populated slice has Len entries.
type Columns struct {
	Names     []string
	Len       int
	Timestamp []time.Time
	Symbol    []string
	Floats    map[string][]float64
}

// Has reports whether name was requested.
func (c *Columns) Has(name string) bool {
	for _, n := range c.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Bars converts the result to bars; unrequested fields stay zero.
func (c *Columns) Bars() []models.Bar {
	out := make([]models.Bar, c.Len)
	for i := range out {
		if c.Timestamp != nil {
			out[i].Timestamp = c.Timestamp[i]
		}
		if c.Symbol != nil {
			out[i].Symbol = c.Symbol[i]
		}
		if v := c.Floats[ColOpen]; v != nil {
			out[i].Open = v[i]
		}
		if v := c.Floats[ColHigh]; v != nil {
			out[i].High = v[i]
		}
		if v := c.Floats[ColLow]; v != nil {
			out[i].Low = v[i]
		}
		if v := c.Floats[ColClose]; v != nil {
			out[i].Close = v[i]
		}
		if v := c.Floats[ColVolume]; v != nil {
			out[i].Volume = v[i]
		}
	}
	return out
}

// ReadColumns reads only the named columns from the selected partitions.
// Column chunks of other columns are never decoded. Unknown names fail.
func (s *Store) ReadColumns(ctx context.Context, f Filter, columns ...string) (*Columns, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("read columns: no column requested")
	}
	res := &Columns{Names: columns, Floats: map[string][]float64{}}
	var physical []string
	for _, c := range columns {
		switch {
		case c == ColSymbol:
			res.Symbol = []string{}
		case c == ColTimestamp:
			res.Timestamp = []time.Time{}
			physical = append(physical, c)
		case floatColumns[c]:
			res.Floats[c] = []float64{}
			physical = append(physical, c)
		default:
			return nil, fmt.Errorf("read columns: unknown column %q", c)
		}
	}

	symbols, err := s.selectPartitions(f)
	if err != nil {
		return nil, err
	}

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		files, err := s.partitionFiles(symbol)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			n, err := readFileColumns(path, physical, res)
			if err != nil {
				return nil, apperrors.Storage(fmt.Sprintf("read partition %s", symbol), err)
			}
			if res.Symbol != nil {
				for i := 0; i < n; i++ {
					res.Symbol = append(res.Symbol, symbol)
				}
			}
			res.Len += n
		}
	}
	return res, nil
}

// readFileColumns appends the named physical columns of one file to res and
// returns the number of rows in the file.
func readFileColumns(path string, columns []string, res *Columns) (int, error) {
	fh, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = fh.Close() }()

	st, err := fh.Stat()
	if err != nil {
		return 0, err
	}
	pf, err := parquet.OpenFile(fh, st.Size())
	if err != nil {
		return 0, err
	}

	rows := int(pf.NumRows())
	for _, name := range columns {
		leaf, ok := pf.Schema().Lookup(name)
		if !ok {
			return 0, fmt.Errorf("column %q not in file", name)
		}
		read := 0
		for _, rg := range pf.RowGroups() {
			n, err := readChunk(rg.ColumnChunks()[leaf.ColumnIndex], func(v parquet.Value) {
				if name == ColTimestamp {
					res.Timestamp = append(res.Timestamp, time.Unix(0, v.Int64()).UTC())
					return
				}
				res.Floats[name] = append(res.Floats[name], v.Double())
			})
			if err != nil {
				return 0, fmt.Errorf("column %q: %w", name, err)
			}
			read += n
		}
		if read != rows {
			return 0, fmt.Errorf("column %q: read %d values, file has %d rows", name, read, rows)
		}
	}
	return rows, nil
}

func readChunk(chunk parquet.ColumnChunk, emit func(parquet.Value)) (int, error) {
	pages := chunk.Pages()
	defer func() { _ = pages.Close() }()

	buf := make([]parquet.Value, 1024)
	total := 0
	for {
		page, err := pages.ReadPage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
		values := page.Values()
		for {
			n, err := values.ReadValues(buf)
			for _, v := range buf[:n] {
				emit(v)
			}
			total += n
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return total, err
			}
			if n == 0 {
				break
			}
		}
	}
}
