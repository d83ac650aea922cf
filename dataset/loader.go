// Package dataset loads the historical sensor table. Each row carries a date and a time field
// that are combined into a single timestamp index, plus one numeric column per sensor channel.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var missingMarkers = map[string]struct{}{
	"":     {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
}

// Load reads a historical table from a .csv file or the first sheet of an .xlsx workbook.
// Every error returned is a *LoadError.
func Load(path string, opt *Options) (*Table, error) {
	opt = opt.withDefaults()

	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		records, err = readCSV(path)
	case ".xlsx", ".xlsm":
		records, err = readXLSX(path)
	default:
		err = fmt.Errorf("%q, %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	tbl, err := parseRecords(records, opt)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return tbl, nil
}

func openErr(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%v, %w", err, ErrFileNotFound)
	}
	return err
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openErr(err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV reads every record from r. Rows must all have the same number of fields.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrMalformed)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, openErr(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrMalformed)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets, %w", ErrMalformed)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%v, %w", err, ErrMalformed)
	}
	return rows, nil
}

type row struct {
	line   int
	t      time.Time
	values []float64
}

func parseRecords(records [][]string, opt *Options) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row, %w", ErrMalformed)
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	dateIdx, timeIdx := -1, -1
	var valueIdx []int
	var names []string
	for i, name := range header {
		switch name {
		case opt.DateColumn:
			dateIdx = i
		case opt.TimeColumn:
			timeIdx = i
		case opt.IDColumn, "":
			// identifier and unnamed index columns are not part of the table
		default:
			valueIdx = append(valueIdx, i)
			names = append(names, name)
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%q, %w", opt.DateColumn, ErrMissingColumn)
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("%q, %w", opt.TimeColumn, ErrMissingColumn)
	}

	rows := make([]row, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if isBlank(rec) {
			continue
		}

		raw := strings.TrimSpace(cell(rec, dateIdx)) + " " + strings.TrimSpace(cell(rec, timeIdx))
		t, err := time.ParseInLocation(opt.TimestampLayout, raw, opt.Location)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q, %w", line, raw, ErrTimestampFormat)
		}

		values := make([]float64, len(valueIdx))
		for j, idx := range valueIdx {
			v, err := parseValue(cell(rec, idx))
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %v, %w", line, names[j], err, ErrMalformed)
			}
			values[j] = v
		}
		rows = append(rows, row{line: line, t: t, values: values})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].t.Before(rows[j].t)
	})

	index := make([]time.Time, len(rows))
	columns := make(map[string][]float64, len(names))
	for _, name := range names {
		columns[name] = make([]float64, len(rows))
	}
	for i, r := range rows {
		if i > 0 && r.t.Equal(index[i-1]) {
			return nil, fmt.Errorf("line %d: %s, %w", r.line, r.t.Format(opt.TimestampLayout), ErrDuplicateTimestamp)
		}
		index[i] = r.t
		for j, name := range names {
			columns[name][i] = r.values[j]
		}
	}

	return &Table{
		index:   index,
		names:   names,
		columns: columns,
	}, nil
}

func cell(rec []string, idx int) string {
	if idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseValue(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if _, missing := missingMarkers[strings.ToLower(raw)]; missing {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite reading %q", raw)
	}
	return v, nil
}
