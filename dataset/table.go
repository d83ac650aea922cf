package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-envmonitor/timedataset"
)

// Table is the time indexed historical table. It is read-only after Load and safe to share
// across goroutines.
type Table struct {
	index   []time.Time
	names   []string
	columns map[string][]float64
}

// NewTable builds a table directly from an index and columns. Columns must match the index
// length and the index must be strictly increasing.
func NewTable(index []time.Time, columns map[string][]float64, order []string) (*Table, error) {
	tbl := &Table{
		index:   make([]time.Time, len(index)),
		columns: make(map[string][]float64, len(columns)),
	}
	copy(tbl.index, index)
	for _, name := range order {
		col, exists := columns[name]
		if !exists {
			return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
		}
		if _, err := timedataset.NewUnivariateDataset(index, col); err != nil {
			return nil, fmt.Errorf("column %q, %w", name, err)
		}
		dst := make([]float64, len(col))
		copy(dst, col)
		tbl.columns[name] = dst
		tbl.names = append(tbl.names, name)
	}
	return tbl, nil
}

// Columns returns the value column names in file order.
func (t *Table) Columns() []string {
	dst := make([]string, len(t.names))
	copy(dst, t.names)
	return dst
}

func (t *Table) HasColumn(name string) bool {
	_, exists := t.columns[name]
	return exists
}

func (t *Table) Len() int {
	return len(t.index)
}

func (t *Table) Start() time.Time {
	return timedataset.TimeSlice(t.index).StartTime()
}

func (t *Table) End() time.Time {
	return timedataset.TimeSlice(t.index).EndTime()
}

// Column returns the full series for a column, missing readings included as NaN.
func (t *Table) Column(name string) (*timedataset.TimeDataset, error) {
	col, exists := t.columns[name]
	if !exists {
		return nil, fmt.Errorf("%q, %w", name, ErrUnknownColumn)
	}
	return timedataset.NewUnivariateDataset(t.index, col)
}

// Series returns the column with missing readings removed.
func (t *Table) Series(name string) (*timedataset.TimeDataset, error) {
	td, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return td.DropMissing(), nil
}

// Overview summarizes the table for display.
type Overview struct {
	Rows     int            `json:"rows"`
	Start    time.Time      `json:"start"`
	End      time.Time      `json:"end"`
	Interval time.Duration  `json:"interval"`
	Missing  map[string]int `json:"missing"`
}

func (t *Table) Overview() Overview {
	o := Overview{
		Rows:    t.Len(),
		Start:   t.Start(),
		End:     t.End(),
		Missing: make(map[string]int, len(t.names)),
	}
	if freq, err := timedataset.TimeSlice(t.index).EstimateFreq(); err == nil {
		o.Interval = freq
	}
	for _, name := range t.names {
		var cnt int
		for _, v := range t.columns[name] {
			if math.IsNaN(v) {
				cnt++
			}
		}
		o.Missing[name] = cnt
	}
	return o
}
