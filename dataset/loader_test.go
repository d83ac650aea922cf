package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `Entry ID,Date,Time,Temperature (°C),pH Value
1,01-03-2024,10:00:00,10.0,7.1
2,01-03-2024,10:01:00,10.2,7.0
3,01-03-2024,10:02:00,,7.2
4,01-03-2024,10:03:00,10.5,NaN
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "env.csv", sampleCSV)

	tbl, err := Load(path, nil)
	require.Nil(t, err)

	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"Temperature (°C)", "pH Value"}, tbl.Columns())
	assert.False(t, tbl.HasColumn("Entry ID"))
	assert.False(t, tbl.HasColumn("Date"))
	assert.False(t, tbl.HasColumn("Time"))
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), tbl.Start())
	assert.Equal(t, time.Date(2024, 3, 1, 10, 3, 0, 0, time.UTC), tbl.End())

	col, err := tbl.Column("Temperature (°C)")
	require.Nil(t, err)
	require.Len(t, col.Y, 4)
	assert.True(t, math.IsNaN(col.Y[2]))

	series, err := tbl.Series("Temperature (°C)")
	require.Nil(t, err)
	assert.Equal(t, []float64{10.0, 10.2, 10.5}, series.Y)
	assert.Equal(t, []time.Time{
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 10, 1, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 10, 3, 0, 0, time.UTC),
	}, series.T)

	_, err = tbl.Series("Humidity (%)")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	o := tbl.Overview()
	assert.Equal(t, 4, o.Rows)
	assert.Equal(t, time.Minute, o.Interval)
	assert.Equal(t, map[string]int{"Temperature (°C)": 1, "pH Value": 1}, o.Missing)
}

func TestLoadSortsRows(t *testing.T) {
	content := `Entry ID,Date,Time,Humidity (%)
2,02-03-2024,00:00:30,41
1,01-03-2024,23:59:30,40
`
	path := writeFile(t, "unsorted.csv", content)

	tbl, err := Load(path, nil)
	require.Nil(t, err)

	series, err := tbl.Series("Humidity (%)")
	require.Nil(t, err)
	assert.Equal(t, []float64{40, 41}, series.Y)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 30, 0, time.UTC), tbl.End())
}

func TestLoadLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+30*60)
	path := writeFile(t, "env.csv", sampleCSV)

	tbl, err := Load(path, &Options{Location: loc})
	require.Nil(t, err)
	assert.True(t, time.Date(2024, 3, 1, 4, 30, 0, 0, time.UTC).Equal(tbl.Start()))
}

func TestLoadErrors(t *testing.T) {
	testData := map[string]struct {
		name    string
		content string
		missing bool
		err     error
	}{
		"file absent": {
			name:    "absent.csv",
			missing: true,
			err:     ErrFileNotFound,
		},
		"unsupported extension": {
			name:    "env.parquet",
			content: sampleCSV,
			err:     ErrUnsupportedFormat,
		},
		"empty file": {
			name:    "empty.csv",
			content: "",
			err:     ErrMalformed,
		},
		"ragged rows": {
			name:    "ragged.csv",
			content: "Date,Time,pH Value\n01-03-2024,10:00:00,7.0,extra\n",
			err:     ErrMalformed,
		},
		"no date column": {
			name:    "nodate.csv",
			content: "Entry ID,Time,pH Value\n1,10:00:00,7.0\n",
			err:     ErrMissingColumn,
		},
		"no time column": {
			name:    "notime.csv",
			content: "Entry ID,Date,pH Value\n1,01-03-2024,7.0\n",
			err:     ErrMissingColumn,
		},
		"iso date": {
			name:    "iso.csv",
			content: "Entry ID,Date,Time,pH Value\n1,2024-03-01,10:00:00,7.0\n",
			err:     ErrTimestampFormat,
		},
		"non numeric reading": {
			name:    "text.csv",
			content: "Entry ID,Date,Time,pH Value\n1,01-03-2024,10:00:00,acidic\n",
			err:     ErrMalformed,
		},
		"infinite reading": {
			name:    "inf.csv",
			content: "Entry ID,Date,Time,pH Value\n1,01-03-2024,10:00:00,7.0\n2,01-03-2024,10:01:00,inf\n",
			err:     ErrMalformed,
		},
		"signed infinity reading": {
			name:    "neginf.csv",
			content: "Entry ID,Date,Time,pH Value\n1,01-03-2024,10:00:00,-Infinity\n",
			err:     ErrMalformed,
		},
		"duplicate timestamp": {
			name:    "dup.csv",
			content: "Entry ID,Date,Time,pH Value\n1,01-03-2024,10:00:00,7.0\n2,01-03-2024,10:00:00,7.1\n",
			err:     ErrDuplicateTimestamp,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), td.name)
			if !td.missing {
				require.Nil(t, os.WriteFile(path, []byte(td.content), 0o644))
			}

			tbl, err := Load(path, nil)
			require.Nil(t, tbl)
			assert.ErrorIs(t, err, ErrLoad)
			assert.ErrorIs(t, err, td.err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, path, loadErr.Path)
		})
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Entry ID", "Date", "Time", "MQ7 CO (ppm)"},
		{1, "01-03-2024", "10:00:00", "3.5"},
		{2, "01-03-2024", "10:01:00", ""},
		{3, "01-03-2024", "10:02:00", "3.9"},
	}
	for i, r := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.Nil(t, err)
		require.Nil(t, f.SetSheetRow(sheet, cellName, &r))
	}

	path := filepath.Join(t.TempDir(), "env.xlsx")
	require.Nil(t, f.SaveAs(path))

	tbl, err := Load(path, nil)
	require.Nil(t, err)
	assert.Equal(t, 3, tbl.Len())

	series, err := tbl.Series("MQ7 CO (ppm)")
	require.Nil(t, err)
	assert.Equal(t, []float64{3.5, 3.9}, series.Y)
}

func TestNewTable(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	index := []time.Time{t0, t0.Add(time.Minute)}

	tbl, err := NewTable(index, map[string][]float64{"pH Value": {7.0, 7.1}}, []string{"pH Value"})
	require.Nil(t, err)
	assert.Equal(t, 2, tbl.Len())

	_, err = NewTable(index, map[string][]float64{"pH Value": {7.0}}, []string{"pH Value"})
	assert.NotNil(t, err)

	_, err = NewTable(index, map[string][]float64{}, []string{"pH Value"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}
