package visualize

import (
	"bytes"
	"strings"
	"testing"

	"github.com/syedmojiz72-lab/agentexchanger/store"
)

func TestStatsChart_Render(t *testing.T) {
	stats := []store.CategoryStat{
		{Category: "Chat", AgentCount: 3, ForkTotal: 2, AvgRating: 4.5},
		{Category: "Vision", AgentCount: 1, ForkTotal: 0, AvgRating: 0},
	}

	chart := NewStatsChart(stats)
	var buf bytes.Buffer
	if err := chart.Render(&buf, "Marketplace Statistics"); err != nil {
		t.Fatalf("Failed to render chart: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "Marketplace Statistics") {
		t.Error("Expected chart title in output")
	}
	if !strings.Contains(html, "Chat") {
		t.Error("Expected category name in output")
	}
}

func TestStatsChart_Empty(t *testing.T) {
	chart := NewStatsChart(nil)
	var buf bytes.Buffer
	if err := chart.Render(&buf, "Marketplace Statistics"); err != nil {
		t.Fatalf("Failed to render empty chart: %v", err)
	}
}
