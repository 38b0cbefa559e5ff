package playback

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/aouyang1/go-playback/dataset"
	"github.com/aouyang1/go-playback/horizon"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineTable generates an echart line chart for one column of a table with
// one series per group key. NaN cells are skipped.
func LineTable(title, column string, tb *dataset.Table) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	var xAxis []time.Time
	for _, key := range tb.Groups() {
		t := tb.Times(key)
		vals, exists := tb.Values(key, column)
		if !exists {
			continue
		}
		if len(t) > len(xAxis) {
			xAxis = t
		}

		lineData := make([]opts.LineData, 0, len(vals))
		for _, val := range vals {
			if math.IsNaN(val) {
				lineData = append(lineData, opts.LineData{Value: nil})
				continue
			}
			lineData = append(lineData, opts.LineData{Value: val})
		}

		name := strings.Join(key, "/")
		if name == "" {
			name = column
		}
		line = line.AddSeries(name, lineData)
	}
	line = line.SetXAxis(xAxis)
	return line
}

// PlotPlayback uses the Apache Echarts library to generate an html file
// showing the known values and the horizon playback, one chart per column.
func (f *Forecaster) PlotPlayback(path string, h *horizon.Horizon) error {
	if f == nil {
		return ErrUninitializedForecaster
	}

	pred, err := f.Predict(h, nil)
	if err != nil {
		return fmt.Errorf("unable to predict with horizon, %w", err)
	}

	page := components.NewPage()
	for _, column := range f.known.Columns() {
		page.AddCharts(
			LineTable(fmt.Sprintf("Known %s", column), column, f.known),
			LineTable(fmt.Sprintf("Playback %s", column), column, pred),
		)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return page.Render(io.MultiWriter(file))
}
