package envmonitor

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/aouyang1/go-envmonitor/forecast"
	"github.com/aouyang1/go-envmonitor/stats"
	"github.com/aouyang1/go-envmonitor/timedataset"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const forecastColor = "orange"

// LineForecast generates an echart line chart of a parameter's history followed by its forecast.
// The forecast is drawn in orange with point markers. A non nil forecastErr replaces the forecast
// line with an unavailable subtitle.
func LineForecast(parameter string, history *timedataset.TimeDataset, res *forecast.Results, forecastErr error, height int) *charts.Line {
	subtitle := seriesStats(history)
	if forecastErr != nil {
		subtitle = unavailableText + ": " + forecastErr.Error()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(
			opts.Initialization{
				Width:  "900px",
				Height: strconv.Itoa(height) + "px",
			},
		),
		charts.WithTitleOpts(
			opts.Title{
				Title:    parameter,
				Subtitle: subtitle,
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			},
		),
		charts.WithLegendOpts(
			opts.Legend{
				Show: opts.Bool(true),
				Top:  "bottom",
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Type: "time",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Scale: opts.Bool(true),
			},
		),
	)

	var histT []time.Time
	var histY []float64
	if history != nil {
		histT, histY = history.T, history.Y
	}
	line.AddSeries(
		parameter+" (Historical)",
		timeLineData(histT, histY),
		charts.WithLineChartOpts(
			opts.LineChart{
				ShowSymbol: opts.Bool(false),
			},
		),
		charts.WithMarkPointNameCoordItemOpts(outlierMarks(histT, histY)...),
	)

	if forecastErr == nil && res != nil && len(res.T) > 0 {
		line.AddSeries(
			parameter+" (Forecast)",
			timeLineData(res.T, res.Forecast),
			charts.WithLineChartOpts(
				opts.LineChart{
					ShowSymbol: opts.Bool(true),
					Symbol:     "circle",
				},
			),
			charts.WithItemStyleOpts(
				opts.ItemStyle{
					Color: forecastColor,
				},
			),
			charts.WithLineStyleOpts(
				opts.LineStyle{
					Color: forecastColor,
				},
			),
		)
	}
	return line
}

// timeLineData pairs each value with its timestamp for a time axis, skipping NaNs.
func timeLineData(t []time.Time, y []float64) []opts.LineData {
	n := len(t)
	if len(y) < n {
		n = len(y)
	}
	data := make([]opts.LineData, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(y[i]) {
			continue
		}
		data = append(data, opts.LineData{Value: []interface{}{t[i].UnixMilli(), y[i]}})
	}
	return data
}

// outlierMarks pins readings outside the Tukey fences of the history.
func outlierMarks(t []time.Time, y []float64) []opts.MarkPointNameCoordItem {
	idxs := stats.DetectOutliers(y, stats.DefaultLowerPerc, stats.DefaultUpperPerc, stats.DefaultTukeyFactor)
	marks := make([]opts.MarkPointNameCoordItem, 0, len(idxs))
	for _, i := range idxs {
		marks = append(marks, opts.MarkPointNameCoordItem{
			Name:       "outlier",
			Coordinate: []interface{}{t[i].UnixMilli(), y[i]},
			Symbol:     "pin",
		})
	}
	return marks
}

// seriesStats summarizes a history for a panel subtitle.
func seriesStats(history *timedataset.TimeDataset) string {
	if history.Len() == 0 {
		return "no history"
	}
	s, err := stats.Summarize(history.Y)
	if err != nil {
		return "no history"
	}
	res := fmt.Sprintf(
		"last %.2f, mean %.2f, std %.2f, range [%.2f, %.2f]",
		s.Last, s.Mean, s.StdDev, s.Min, s.Max,
	)
	if n := len(stats.DetectOutliers(history.Y, stats.DefaultLowerPerc, stats.DefaultUpperPerc, stats.DefaultTukeyFactor)); n > 0 {
		res += fmt.Sprintf(", %d outliers", n)
	}
	return res
}

// Graphs builds one chart per parameter stacked in the given order. A nil params reads the
// current selection, falling back to the whole catalog when nothing was ever selected. A
// parameter that cannot be forecast still gets a panel with whatever history it has.
func (d *Dashboard) Graphs(params []string) (*components.Page, error) {
	if params == nil {
		params = d.selection.GetOrDefault(d.catalog.Names())
	}
	params = d.resolveParams(params, false)
	if len(params) == 0 {
		return nil, ErrNoParameters
	}

	page := components.NewPage()
	page.SetLayout(components.PageCenterLayout)
	for _, param := range params {
		res, history, err := d.engine.Forecast(param, d.opt.Horizon)
		if err != nil {
			d.log.WithField("parameter", param).WithError(err).Warn("graph forecast unavailable")
		}
		page.AddCharts(LineForecast(param, history, res, err, d.opt.PanelHeight))
	}
	return page, nil
}

// RenderGraphs writes the graph page for params as a standalone html document.
func (d *Dashboard) RenderGraphs(w io.Writer, params []string) error {
	page, err := d.Graphs(params)
	if err != nil {
		return err
	}
	return page.Render(w)
}
