package export

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/curvefang/pkg/analysis"
	"github.com/Sumatoshi-tech/curvefang/pkg/curve"
)

// curveSampleCount is the density of the real-locus sampling behind the
// point scatter.
const curveSampleCount = 400

// WriteCurvePlot renders one curve's real locus with its found rational
// points overlaid, as a standalone HTML page.
func WriteCurvePlot(w io.Writer, params curve.Params, points []curve.Point, bound float64) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("y² = x³ %+dx %+d", params.A, params.B),
			Subtitle: fmt.Sprintf("%d rational points found with |x| ≤ %g", len(points), bound),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "y", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	samples := params.Sample(-bound, bound, curveSampleCount)

	upper := make([]opts.LineData, 0, len(samples))
	lower := make([]opts.LineData, 0, len(samples))
	labels := make([]string, 0, len(samples))

	for _, s := range samples {
		labels = append(labels, strconv.FormatFloat(s.X, 'g', 4, 64))

		if math.IsNaN(s.Y) {
			upper = append(upper, opts.LineData{Value: "-"})
			lower = append(lower, opts.LineData{Value: "-"})

			continue
		}

		upper = append(upper, opts.LineData{Value: s.Y})
		lower = append(lower, opts.LineData{Value: -s.Y})
	}

	line.SetXAxis(labels)
	line.AddSeries("upper branch", upper)
	line.AddSeries("lower branch", lower)

	scatter := charts.NewScatter()

	pointData := make([]opts.ScatterData, 0, len(points))
	for _, pt := range points {
		pointData = append(pointData, opts.ScatterData{Value: []any{pt.X, pt.Y}})
	}

	scatter.AddSeries("rational points", pointData)
	line.Overlap(scatter)

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render curve plot: %w", err)
	}

	return nil
}

// WriteSummaryPage renders the sweep-wide summary visualizations as one
// HTML page: rank distribution, L-value vs rank, rank heat map over the
// (a, b) grid, and verdict distribution.
func WriteSummaryPage(w io.Writer, results []analysis.Result) error {
	page := components.NewPage()
	page.PageTitle = "curvefang sweep summary"

	page.AddCharts(
		rankDistributionChart(results),
		lValueVersusRankChart(results),
		rankHeatMapChart(results),
		verdictPieChart(results),
	)

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render summary page: %w", err)
	}

	return nil
}

func rankDistributionChart(results []analysis.Result) components.Charter {
	counts := make(map[int]int)
	for _, r := range results {
		counts[r.RankEstimate]++
	}

	ranks := make([]int, 0, len(counts))
	for rank := range counts {
		ranks = append(ranks, rank)
	}

	sort.Ints(ranks)

	labels := make([]string, 0, len(ranks))
	data := make([]opts.BarData, 0, len(ranks))

	for _, rank := range ranks {
		labels = append(labels, strconv.Itoa(rank))
		data = append(data, opts.BarData{Value: counts[rank]})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Rank Distribution", Subtitle: "Heuristic rank estimate across the grid."}),
		charts.WithXAxisOpts(opts.XAxis{Name: "rank estimate"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "curves"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("curves", data)

	return bar
}

func lValueVersusRankChart(results []analysis.Result) components.Charter {
	data := make([]opts.ScatterData, 0, len(results))

	for _, r := range results {
		if r.Verdict == analysis.VerdictErrored {
			continue
		}

		data = append(data, opts.ScatterData{Value: []any{r.RankEstimate, r.LValue}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "L(1) vs Rank Estimate",
			Subtitle: "BSD predicts vanishing L exactly at positive rank.",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "rank estimate", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "L(1)", Type: "value"}),
	)
	scatter.AddSeries("curves", data)

	return scatter
}

func rankHeatMapChart(results []analysis.Result) components.Charter {
	aSet := make(map[int64]struct{})
	bSet := make(map[int64]struct{})

	for _, r := range results {
		aSet[r.Params.A] = struct{}{}
		bSet[r.Params.B] = struct{}{}
	}

	as := sortedKeys(aSet)
	bs := sortedKeys(bSet)

	aIndex := make(map[int64]int, len(as))
	for i, a := range as {
		aIndex[a] = i
	}

	bIndex := make(map[int64]int, len(bs))
	for i, b := range bs {
		bIndex[b] = i
	}

	maxRank := 0
	data := make([]opts.HeatMapData, 0, len(results))

	for _, r := range results {
		if r.RankEstimate > maxRank {
			maxRank = r.RankEstimate
		}

		data = append(data, opts.HeatMapData{
			Value: [3]any{aIndex[r.Params.A], bIndex[r.Params.B], r.RankEstimate},
		})
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Rank Heat Map", Subtitle: "Rank estimate over the (a, b) grid."}),
		charts.WithXAxisOpts(opts.XAxis{Name: "a", Type: "category", Data: labelsFor(as)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "b", Type: "category", Data: labelsFor(bs)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxRank),
		}),
	)
	hm.AddSeries("rank", data)

	return hm
}

func verdictPieChart(results []analysis.Result) components.Charter {
	counts := make(map[analysis.Verdict]int)
	for _, r := range results {
		counts[r.Verdict]++
	}

	data := make([]opts.PieData, 0, len(counts))

	for _, v := range []analysis.Verdict{
		analysis.VerdictConsistent,
		analysis.VerdictInconsistent,
		analysis.VerdictErrored,
	} {
		if counts[v] == 0 {
			continue
		}

		data = append(data, opts.PieData{Name: v.String(), Value: counts[v]})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Verdict Distribution"}),
	)
	pie.AddSeries("verdicts", data)

	return pie
}

func sortedKeys(set map[int64]struct{}) []int64 {
	keys := make([]int64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return keys
}

func labelsFor(values []int64) []string {
	labels := make([]string, len(values))
	for i, v := range values {
		labels[i] = strconv.FormatInt(v, 10)
	}

	return labels
}
