// Package export renders analysis results for external consumption:
// terminal tables, CSV, and HTML chart pages. The engine itself never
// prints; callers pick a writer and a format.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
)

// Verdict colors for terminal output.
var (
	consistentColor   = color.New(color.FgGreen)
	inconsistentColor = color.New(color.FgYellow)
	erroredColor      = color.New(color.FgRed)
)

// lValueFormat keeps L-values readable without drowning the table.
const lValueFormat = "%.6f"

// ResultTable writes the per-curve results as an aligned table. When
// colored is set, verdicts are colorized for terminals.
func ResultTable(w io.Writer, results []analysis.Result, colored bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"a", "b", "points", "rank est", "L(1)", "verdict"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Params.A,
			r.Params.B,
			len(r.Points),
			r.RankEstimate,
			fmt.Sprintf(lValueFormat, r.LValue),
			verdictCell(r.Verdict, colored),
		})
	}

	tw.Render()
}

// ResultCSV writes the per-curve results as CSV, one row per curve.
func ResultCSV(w io.Writer, results []analysis.Result) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"a", "b", "points", "rank_estimate", "l_value", "verdict", "error"})

	for _, r := range results {
		tw.AppendRow(table.Row{
			r.Params.A,
			r.Params.B,
			len(r.Points),
			r.RankEstimate,
			strconv.FormatFloat(r.LValue, 'g', -1, 64),
			r.Verdict.String(),
			r.Error,
		})
	}

	tw.RenderCSV()
}

// PointTable writes the found rational points of one curve.
func PointTable(w io.Writer, points []curve.Point) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"x", "y"})

	for _, pt := range points {
		tw.AppendRow(table.Row{
			strconv.FormatFloat(pt.X, 'g', -1, 64),
			strconv.FormatFloat(pt.Y, 'g', -1, 64),
		})
	}

	tw.Render()
}

func verdictCell(v analysis.Verdict, colored bool) string {
	if !colored {
		return v.String()
	}

	switch v {
	case analysis.VerdictConsistent:
		return consistentColor.Sprint(v.String())
	case analysis.VerdictErrored:
		return erroredColor.Sprint(v.String())
	case analysis.VerdictInconsistent:
		return inconsistentColor.Sprint(v.String())
	default:
		return v.String()
	}
}
