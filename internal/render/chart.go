package render

import (
	"strings"

	drawille "github.com/exrook/drawille-go"

	"github.com/garrettladley/fitgate/internal/gateway"
)

// chart dimensions in braille dots: 2 dots per char wide, 4 per char tall
const (
	chartDotsHeight = 32 // 8 rows
	barDotsWidth    = 4  // 2 chars
	barDotsGap      = 2  // 1 char
)

// barChart draws one bar per day, scaled to the largest total. Every bar
// keeps a one-dot baseline so empty days remain visible.
func barChart(totals []gateway.DailyTotal) string {
	canvas := drawille.NewCanvas()

	var peak float64
	for _, t := range totals {
		peak = max(peak, t.Value)
	}

	for i, t := range totals {
		height := 1
		if peak > 0 && t.Value > 0 {
			height = max(1, int(t.Value/peak*chartDotsHeight))
		}

		x0 := i * (barDotsWidth + barDotsGap)
		for x := x0; x < x0+barDotsWidth; x++ {
			for y := chartDotsHeight - height; y < chartDotsHeight; y++ {
				canvas.Set(x, y)
			}
		}
	}

	width := len(totals)*(barDotsWidth+barDotsGap) - barDotsGap
	return canvasString(&canvas, width, chartDotsHeight)
}

// canvasString extracts the canvas with fixed dimensions, padding rows
// drawille leaves short.
func canvasString(canvas *drawille.Canvas, width, height int) string {
	charWidth := (width + 1) / 2
	charHeight := height / 4

	rows := canvas.Rows(0, 0, width, height)

	lines := make([]string, charHeight)
	for i := range charHeight {
		var line string
		if i < len(rows) {
			line = rows[i]
		}
		runes := []rune(line)
		switch {
		case len(runes) < charWidth:
			line += strings.Repeat(" ", charWidth-len(runes))
		case len(runes) > charWidth:
			line = string(runes[:charWidth])
		}
		lines[i] = line
	}

	return strings.Join(lines, "\n")
}
