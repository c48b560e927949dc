package render

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/garrettladley/fitgate/internal/gateway"
	"github.com/garrettladley/fitgate/internal/permission"
)

const dayLayout = "Mon Jan 02"

type Renderer struct {
	styles styles
	loc    *time.Location
}

type Option func(*Renderer)

// WithLocation sets the zone dates are printed in.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.loc = loc }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{styles: newStyles(), loc: time.Local}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Total renders "label  value".
func (r *Renderer) Total(kind permission.Kind, label string, v float64) string {
	return r.styles.label.Render(label) + "  " + valueStyle(kind).Render(FormatValue(kind, v))
}

// Daily renders a braille bar chart over a table of the totals.
func (r *Renderer) Daily(kind permission.Kind, totals []gateway.DailyTotal) string {
	if len(totals) == 0 {
		return r.styles.dim.Render("no data")
	}

	chart := lipgloss.NewStyle().Foreground(KindColor(kind)).Render(barChart(totals))

	rows := make([]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, r.styles.dim.Render(t.Date.In(r.loc).Format(dayLayout))+"  "+valueStyle(kind).Render(FormatValue(kind, t.Value)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		r.styles.label.Render(string(kind)),
		chart,
		"",
		strings.Join(rows, "\n"),
	)
}

// Record renders the latest point, or a placeholder when there is none.
func (r *Renderer) Record(kind permission.Kind, rec *gateway.Record) string {
	if rec == nil {
		return r.styles.label.Render(string(kind)) + "  " + r.styles.dim.Render("no data")
	}

	when := rec.End.In(r.loc).Format(time.DateTime)
	return lipgloss.JoinVertical(lipgloss.Left,
		r.Total(kind, string(kind), rec.Value),
		r.styles.dim.Render(fmt.Sprintf("at %s from %s", when, rec.Source)),
	)
}

// Status renders a yes/no answer.
func (r *Renderer) Status(label string, ok bool) string {
	answer := valueStyle(permission.KindDistance).Render("yes")
	if !ok {
		answer = r.styles.bad.Render("no")
	}
	return r.styles.label.Render(label) + "  " + answer
}

// Errors renders per-entry failures, one per line.
func (r *Renderer) Errors(errs []error) string {
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = r.styles.bad.Render("! ") + err.Error()
	}
	return strings.Join(lines, "\n")
}
