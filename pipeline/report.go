package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/marcward/glidetrack"
)

// maxChartPoints bounds chart payload size; long sessions are downsampled by
// stride so the report stays loadable in a browser.
const maxChartPoints = 4000

// writeReport renders raw-versus-smoothed speed and elevation line charts
// into a standalone HTML page.
func writeReport(path, sourcePath string, samples []glidetrack.Sample, summary glidetrack.Summary) error {
	stride := 1
	if len(samples) > maxChartPoints {
		stride = (len(samples) + maxChartPoints - 1) / maxChartPoints
	}

	labels := make([]string, 0, len(samples)/stride+1)
	speedRaw := make([]opts.LineData, 0, cap(labels))
	speedSmooth := make([]opts.LineData, 0, cap(labels))
	elevRaw := make([]opts.LineData, 0, cap(labels))
	elevSmooth := make([]opts.LineData, 0, cap(labels))
	for i := 0; i < len(samples); i += stride {
		s := samples[i]
		labels = append(labels, s.Timestamp.UTC().Format("15:04:05"))
		speedRaw = append(speedRaw, opts.LineData{Value: s.SpeedRaw})
		speedSmooth = append(speedSmooth, opts.LineData{Value: s.Speed})
		elevRaw = append(elevRaw, opts.LineData{Value: s.ElevationRaw})
		elevSmooth = append(elevSmooth, opts.LineData{Value: s.Elevation})
	}

	speedUnit := "mph"
	if summary.Units == glidetrack.UnitsMetric {
		speedUnit = "km/h"
	}
	subtitle := fmt.Sprintf("%s | %.1f km | %d laps | %s",
		filepath.Base(sourcePath), summary.DistanceM/1000, summary.LoopCount,
		time.Duration(summary.DurationS*float64(time.Second)).Round(time.Second))

	speedChart := charts.NewLine()
	speedChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "glidetrack report", Width: "1200px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Speed (" + speedUnit + ")", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	speedChart.SetXAxis(labels).
		AddSeries("raw", speedRaw).
		AddSeries("smoothed", speedSmooth).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	elevChart := charts.NewLine()
	elevChart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Elevation (m)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	elevChart.SetXAxis(labels).
		AddSeries("raw", elevRaw).
		AddSeries("smoothed", elevSmooth).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))

	page := components.NewPage()
	page.AddCharts(speedChart, elevChart)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
