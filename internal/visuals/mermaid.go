package visuals

import (
	"fmt"
	"math"
	"strings"

	"rollplan-mcp/internal/plan"
)

// InventoryProjectionChart creates a Mermaid xychart-beta tracking the
// clinker and cement end-of-day totals over the horizon. In multi-facility
// views the grand totals are plotted, otherwise the single facility's own
// subtotals.
func InventoryProjectionChart(view *plan.View) string {
	if view == nil || len(view.Dates) == 0 {
		return ""
	}

	series := eodSubtotalSeries(view)
	if len(series) == 0 {
		return ""
	}

	// Subsample dates if the chart is too wide for Mermaid's layout engine
	// Typically Mermaid xychart starts overflowing/overlapping text around 60 points
	subsampleRate := 1
	if len(view.Dates) > 60 {
		subsampleRate = int(math.Ceil(float64(len(view.Dates)) / 60.0))
	}

	var labels []string
	var dates []string
	for i, d := range view.Dates {
		if i%subsampleRate == 0 || i == len(view.Dates)-1 {
			labels = append(labels, fmt.Sprintf("\"%s\"", d[5:]))
			dates = append(dates, d)
		}
	}

	maxY := 0.0
	lines := make([][]string, len(series))
	for i, s := range series {
		for _, d := range dates {
			v := s.values[d]
			lines[i] = append(lines[i], fmt.Sprintf("%.0f", v))
			if v > maxY {
				maxY = v
			}
		}
	}
	if maxY <= 0 {
		maxY = 1
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Inventory Projection (EOD Totals)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Short Tons\" 0 --> %d\n", int(math.Ceil(maxY*1.1))))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(line, ", ")))
	}
	sb.WriteString("```")
	return sb.String()
}

type chartSeries struct {
	label  string
	values map[string]float64
}

func eodSubtotalSeries(view *plan.View) []chartSeries {
	var out []chartSeries
	for _, r := range view.Rows {
		if r.Section != "eod" || r.Type != plan.RowTypeSubtotalHeader {
			continue
		}
		if view.MultiFacility && !r.Grand {
			continue
		}
		out = append(out, chartSeries{label: r.Label, values: r.Values})
	}
	return out
}

// AlertSeverityPie creates a Mermaid pie chart of alert counts by severity
// across the whole horizon.
func AlertSeverityPie(view *plan.View) string {
	if view == nil {
		return ""
	}

	full, stockout, warnOnly := 0, 0, 0
	for _, alerts := range view.AlertSummary {
		for _, a := range alerts {
			switch a.Severity {
			case plan.SeverityFull:
				full++
			case plan.SeverityStockout:
				stockout++
			default:
				warnOnly++
			}
		}
	}
	if full+stockout+warnOnly == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Inventory Alerts by Severity\n")
	if full > 0 {
		sb.WriteString(fmt.Sprintf("    \"Silo full\" : %d\n", full))
	}
	if stockout > 0 {
		sb.WriteString(fmt.Sprintf("    \"Stockout\" : %d\n", stockout))
	}
	if warnOnly > 0 {
		sb.WriteString(fmt.Sprintf("    \"High fill warning\" : %d\n", warnOnly))
	}
	sb.WriteString("```")
	return sb.String()
}
