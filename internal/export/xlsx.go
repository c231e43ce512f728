// Package export writes assembled plan views to Excel workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"rollplan-mcp/internal/plan"
)

const (
	planSheet   = "Plan"
	alertsSheet = "Alerts"
)

// WritePlan renders a plan view into an .xlsx workbook: the Plan sheet with
// one row per plan line and one column per day, and an Alerts sheet listing
// every flagged storage by date.
func WritePlan(view *plan.View, path string) error {
	if view == nil {
		return fmt.Errorf("nil plan view")
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", planSheet)
	if err := writePlanSheet(f, view); err != nil {
		return err
	}
	if err := writeAlertsSheet(f, view); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writePlanSheet(f *excelize.File, view *plan.View) error {
	header := []interface{}{"Section", "Row"}
	for _, d := range view.Dates {
		header = append(header, d)
	}
	if err := f.SetSheetRow(planSheet, "A1", &header); err != nil {
		return err
	}

	rowNum := 2
	for _, r := range view.Rows {
		label := r.Label
		if r.Type == plan.RowTypeChild && r.ProductLabel != "" && r.ProductLabel != r.Label {
			label = fmt.Sprintf("%s (%s)", r.Label, r.ProductLabel)
		}

		cells := []interface{}{r.Section, label}
		if r.Values != nil {
			for _, d := range view.Dates {
				cells = append(cells, r.Values[d])
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(planSheet, cell, &cells); err != nil {
			return err
		}
		rowNum++
	}

	// Freeze the header row and label columns for horizon-wide scrolling.
	return f.SetPanes(planSheet, &excelize.Panes{
		Freeze: true, XSplit: 2, YSplit: 1, TopLeftCell: "C2", ActivePane: "bottomRight",
	})
}

func writeAlertsSheet(f *excelize.File, view *plan.View) error {
	if _, err := f.NewSheet(alertsSheet); err != nil {
		return err
	}

	header := []interface{}{"Date", "Facility", "Storage", "Severity", "Reason"}
	if err := f.SetSheetRow(alertsSheet, "A1", &header); err != nil {
		return err
	}

	rowNum := 2
	for _, date := range view.Dates {
		for _, a := range view.AlertSummary[date] {
			severity := a.Severity
			if severity == "" {
				severity = "warning"
			}
			cells := []interface{}{date, a.FacilityID, a.StorageName, severity, a.Reason}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(alertsSheet, cell, &cells); err != nil {
				return err
			}
			rowNum++
		}
	}
	return nil
}
