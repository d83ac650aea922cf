package dataset

import "time"

const (
	DefaultDateColumn      = "Date"
	DefaultTimeColumn      = "Time"
	DefaultIDColumn        = "Entry ID"
	DefaultTimestampLayout = "02-01-2006 15:04:05"
)

// Options configures how the historical table is read.
type Options struct {
	DateColumn string
	TimeColumn string
	IDColumn   string

	// TimestampLayout is applied to "<date> <time>".
	TimestampLayout string
	Location        *time.Location
}

func NewDefaultOptions() *Options {
	return &Options{
		DateColumn:      DefaultDateColumn,
		TimeColumn:      DefaultTimeColumn,
		IDColumn:        DefaultIDColumn,
		TimestampLayout: DefaultTimestampLayout,
		Location:        time.UTC,
	}
}

func (o *Options) withDefaults() *Options {
	def := NewDefaultOptions()
	if o == nil {
		return def
	}
	res := *o
	if res.DateColumn == "" {
		res.DateColumn = def.DateColumn
	}
	if res.TimeColumn == "" {
		res.TimeColumn = def.TimeColumn
	}
	if res.IDColumn == "" {
		res.IDColumn = def.IDColumn
	}
	if res.TimestampLayout == "" {
		res.TimestampLayout = def.TimestampLayout
	}
	if res.Location == nil {
		res.Location = def.Location
	}
	return &res
}
