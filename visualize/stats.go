package visualize

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/syedmojiz72-lab/agentexchanger/store"
)

// StatsChart renders marketplace category statistics as an ECharts bar chart
type StatsChart struct {
	stats []store.CategoryStat
}

// NewStatsChart creates a stats chart from per-category aggregates
func NewStatsChart(stats []store.CategoryStat) *StatsChart {
	return &StatsChart{
		stats: stats,
	}
}

// GenerateBar builds the bar chart: one bar group per category with agent
// count, fork total and scaled average rating series
func (sc *StatsChart) GenerateBar(title string) *charts.Bar {
	totalAgents := 0
	for _, st := range sc.stats {
		totalAgents += st.AgentCount
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d agents across %d categories", totalAgents, len(sc.stats)),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: "600px",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
	)

	categories := make([]string, 0, len(sc.stats))
	agentData := make([]opts.BarData, 0, len(sc.stats))
	forkData := make([]opts.BarData, 0, len(sc.stats))
	ratingData := make([]opts.BarData, 0, len(sc.stats))
	for _, st := range sc.stats {
		categories = append(categories, st.Category)
		agentData = append(agentData, opts.BarData{Value: st.AgentCount})
		forkData = append(forkData, opts.BarData{Value: st.ForkTotal})
		ratingData = append(ratingData, opts.BarData{Value: st.AvgRating})
	}

	bar.SetXAxis(categories).
		AddSeries("agents", agentData).
		AddSeries("forks", forkData).
		AddSeries("avg rating", ratingData)

	return bar
}

// Render writes the chart page HTML to w
func (sc *StatsChart) Render(w io.Writer, title string) error {
	bar := sc.GenerateBar(title)
	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render stats chart: %w", err)
	}
	return nil
}
