package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var errNothingToDraw = errors.New("no rows to draw")

// ImageRenderer draws leaderboards as PNG bar charts in a directory.
type ImageRenderer struct {
	dir string
}

// NewImageRenderer writes images into dir; an empty dir means the OS temp directory.
func NewImageRenderer(dir string) *ImageRenderer {
	return &ImageRenderer{dir: dir}
}

// Render writes the chart and returns the file path. The caller removes the file.
func (r *ImageRenderer) Render(ctx context.Context, v View) (string, error) {
	if len(v.Rows) == 0 {
		return "", errNothingToDraw
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	top := 1
	bars := make([]chart.Value, len(v.Rows))
	for i, row := range v.Rows {
		top = max(top, row.Count)
		bars[i] = chart.Value{
			Value: float64(row.Count),
			Label: fmt.Sprintf("%d. %s", row.Rank, shorten(row.Name)),
			Style: chart.Style{
				FillColor:   barColor(i),
				StrokeColor: barColor(i),
				StrokeWidth: 1,
			},
		}
	}

	width := max(chartMinWidth, len(bars)*(chartBarWidth+chartBarSpacing)+chartSidePadding)
	graph := chart.BarChart{
		Title:      fmt.Sprintf("%s · %s (%d messages)", v.GroupName, v.Title, v.Total),
		TitleStyle: chart.Style{FontSize: chartTitleSize},
		Background: chart.Style{Padding: chart.Box{Top: chartPaddingTop, Left: 20, Right: 20, Bottom: 20}},
		Width:      width,
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		XAxis: chart.Style{
			FontSize:            chartLabelSize,
			TextRotationDegrees: chartLabelRotate,
		},
		// Bars start at zero; go-chart would otherwise span only min..max and
		// refuse a single row or a fully tied board.
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: chartLabelSize},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top)},
		},
		Bars: bars,
	}

	f, err := os.CreateTemp(r.dir, imagePattern)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to draw chart: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return f.Name(), nil
}

func barColor(i int) drawing.Color {
	switch i {
	case 0:
		return drawing.ColorFromHex("d4af37")
	case 1:
		return drawing.ColorFromHex("a8a9ad")
	case 2:
		return drawing.ColorFromHex("cd7f32")
	default:
		return chart.ColorBlue
	}
}

func shorten(name string) string {
	if utf8.RuneCountInString(name) <= chartMaxLabelRune {
		return name
	}
	runes := []rune(name)
	return string(runes[:chartMaxLabelRune-1]) + "…"
}
