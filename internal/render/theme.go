package render

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/fitgate/internal/permission"
)

var (
	ColorWhite = lipgloss.Color("#FFFFFF")
	ColorDim   = lipgloss.Color("#666666")
	ColorRed   = lipgloss.Color("#FF0026")
)

var (
	ColorActivity = lipgloss.Color("#0093E7") // steps, active minutes, workouts
	ColorEnergy   = lipgloss.Color("#FFDE00") // calories
	ColorDistance = lipgloss.Color("#00F19F")
	ColorHeart    = lipgloss.Color("#FF4F6D")
	ColorBody     = lipgloss.Color("#7BA1BB") // weight, height
)

// KindColor is the accent used for a kind's values and bars.
func KindColor(kind permission.Kind) color.Color {
	switch kind {
	case permission.KindSteps, permission.KindActiveMinutes, permission.KindWorkouts:
		return ColorActivity
	case permission.KindCalories:
		return ColorEnergy
	case permission.KindDistance:
		return ColorDistance
	case permission.KindHeartRate:
		return ColorHeart
	default:
		return ColorBody
	}
}

type styles struct {
	label lipgloss.Style
	dim   lipgloss.Style
	bad   lipgloss.Style
}

func newStyles() styles {
	return styles{
		label: lipgloss.NewStyle().Foreground(ColorWhite).Bold(true),
		dim:   lipgloss.NewStyle().Foreground(ColorDim),
		bad:   lipgloss.NewStyle().Foreground(ColorRed).Bold(true),
	}
}

func valueStyle(kind permission.Kind) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(KindColor(kind)).Bold(true)
}
