package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

func newPlotCommand() *cobra.Command {
	var (
		outFile string
		title   string
		window  int
	)

	cmd := &cobra.Command{
		Use:   "plot FILE...",
		Short: "Plot data saved by the train command as an HTML line chart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series := make(map[string][]float64, len(args))
			names := make([]string, 0, len(args))
			for _, filename := range args {
				data, err := tracker.LoadData(filename)
				if err != nil {
					return err
				}

				name := seriesName(filename)
				series[name] = smooth(data, window)
				names = append(names, name)
			}

			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("plot: %w", err)
			}
			defer f.Close()

			page := components.NewPage()
			page.AddCharts(lineChart(title, names, series))
			if err := page.Render(f); err != nil {
				return fmt.Errorf("plot: could not render chart: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "chart saved to %v\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "chart.html",
		"HTML file to save the chart to")
	cmd.Flags().StringVar(&title, "title", "Learning curve", "Chart title")
	cmd.Flags().IntVarP(&window, "window", "w", 1,
		"Window size of the moving average applied to each series")

	return cmd
}

// lineChart returns a line chart with one series per name
func lineChart(title string, names []string,
	series map[string][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	steps := 0
	for _, data := range series {
		if len(data) > steps {
			steps = len(data)
		}
	}
	xAxis := make([]string, steps)
	for i := range xAxis {
		xAxis[i] = strconv.Itoa(i + 1)
	}
	line.SetXAxis(xAxis)

	for _, name := range names {
		items := make([]opts.LineData, len(series[name]))
		for i, value := range series[name] {
			items[i] = opts.LineData{Value: value}
		}
		line.AddSeries(name, items)
	}
	return line
}

// seriesName names a series after the file it was loaded from, e.g.
// runs/seed1/reward.bin becomes seed1/reward
func seriesName(filename string) string {
	dir := filepath.Base(filepath.Dir(filename))
	base := strings.TrimSuffix(filepath.Base(filename),
		filepath.Ext(filename))
	if dir == "." || dir == string(filepath.Separator) {
		return base
	}
	return dir + "/" + base
}

// smooth returns the trailing moving average of data over window
// elements. The first window-1 elements are averaged over the
// available elements only.
func smooth(data []float64, window int) []float64 {
	if window <= 1 {
		return data
	}

	smoothed := make([]float64, len(data))
	for i := range data {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		smoothed[i] = stat.Mean(data[start:i+1], nil)
	}
	return smoothed
}
