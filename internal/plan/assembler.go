package plan

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"rollplan-mcp/internal/refdata"
)

// Request selects what to simulate. FacilityIDs accepts any mix of facility,
// sub-region, region and country ids; empty means the whole network.
type Request struct {
	StartDate   string
	Days        int
	FacilityIDs []string
}

// BuildView runs the simulation for every facility in scope and merges the
// results into one plan view. The view is recomputed in full on every call;
// nothing is cached between invocations.
func BuildView(ctx context.Context, snap *refdata.Snapshot, req Request) (*View, error) {
	if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		return nil, fmt.Errorf("invalid startDate %q: %w", req.StartDate, err)
	}
	if req.Days < 1 {
		return nil, fmt.Errorf("days must be at least 1, got %d", req.Days)
	}

	facIDs := snap.ResolveScope(req.FacilityIDs)
	if len(facIDs) == 0 {
		return nil, fmt.Errorf("no facilities in scope")
	}
	dates := DateRange(req.StartDate, req.Days)

	// Facilities are independent; run them concurrently and slot each result
	// by index so the merged order stays deterministic.
	sim := NewSimulator(snap)
	results := make([]*FacilityResult, len(facIDs))
	g, ctx := errgroup.WithContext(ctx)
	for i, facID := range facIDs {
		i, facID := i, facID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr, err := sim.Run(facID, dates)
			if err != nil {
				return fmt.Errorf("facility %s: %w", facID, err)
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &View{
		Dates:          dates,
		EquipmentCells: make(map[string]EquipmentCell),
		InventoryCells: make(map[string]InventoryCell),
		AlertSummary:   make(map[string][]Alert),
		MultiFacility:  len(facIDs) > 1,
		FacilityIDs:    facIDs,
	}
	for _, fr := range results {
		for k, v := range fr.EquipmentCells {
			view.EquipmentCells[k] = v
		}
		for k, v := range fr.InventoryCells {
			view.InventoryCells[k] = v
		}
		for date, alerts := range fr.AlertsByDate {
			view.AlertSummary[date] = append(view.AlertSummary[date], alerts...)
		}
		view.Warnings = append(view.Warnings, fr.Warnings...)
	}

	view.Rows = assembleRows(snap, results, dates, view.MultiFacility)
	return view, nil
}

func sectionRows(fr *FacilityResult, sec string) []Row {
	switch sec {
	case "bod":
		return fr.InventoryBODRows
	case "prod":
		return fr.ProductionRows
	case "out":
		return fr.OutflowRows
	default:
		return fr.InventoryEODRows
	}
}

// assembleRows flattens per-facility sections into the unified row list:
// section header, grand totals (multi-facility), then each facility's block.
func assembleRows(snap *refdata.Snapshot, results []*FacilityResult, dates []string, multi bool) []PlanRow {
	var rows []PlanRow

	for _, sec := range sections {
		rows = append(rows, PlanRow{
			Type: RowTypeSectionHeader, Section: sec, Label: sectionLabels[sec],
		})

		if multi {
			rows = append(rows, grandTotalRows(results, sec, dates)...)
		}

		for _, fr := range results {
			set := sectionRows(fr, sec)
			if len(set) == 0 {
				continue
			}

			fac := snap.Facility(fr.FacilityID)
			facName, facCode := fr.FacilityID, fr.FacilityID
			if fac != nil {
				facName, facCode = fac.Name, fac.Code
			}
			if multi {
				rows = append(rows, PlanRow{
					Type: RowTypeFacilityHeader, Section: sec,
					FacilityID: fr.FacilityID, FacilityCode: facCode,
					Label: "🏭 " + facName,
				})
			}

			currentSubID := ""
			for _, r := range set {
				switch r.Kind {
				case RowKindGroup:
					currentSubID = ""
					rows = append(rows, PlanRow{
						Type: RowTypeGroupLabel, Section: sec,
						FacilityID: fr.FacilityID, Label: r.Label,
					})
				case RowKindSubtotal:
					currentSubID = fmt.Sprintf("sub_%s_%s_%s", fr.FacilityID, sec, r.Label)
					rows = append(rows, PlanRow{
						Type: RowTypeSubtotalHeader, Section: sec,
						FacilityID: fr.FacilityID, SubID: currentSubID,
						Label: r.Label, Values: r.Values,
					})
				case RowKindPlaceholder:
					rows = append(rows, PlanRow{
						Type: RowTypePlaceholder, Section: sec,
						FacilityID: fr.FacilityID, Label: r.Label,
					})
				default:
					rows = append(rows, PlanRow{
						Type: RowTypeChild, Section: sec,
						FacilityID: fr.FacilityID, SubID: currentSubID,
						Label: r.Label, ProductLabel: r.ProductLabel,
						StorageID: r.StorageID, EquipmentID: r.EquipmentID,
						Values: r.Values,
					})
				}
			}
		}
	}
	return rows
}

// grandTotalRows sums each subtotal label across all facilities, preserving
// first-seen label order.
func grandTotalRows(results []*FacilityResult, sec string, dates []string) []PlanRow {
	var order []string
	combined := make(map[string]map[string]float64)
	for _, fr := range results {
		for _, r := range sectionRows(fr, sec) {
			if r.Kind != RowKindSubtotal {
				continue
			}
			vals, ok := combined[r.Label]
			if !ok {
				vals = make(map[string]float64, len(dates))
				combined[r.Label] = vals
				order = append(order, r.Label)
			}
			for _, d := range dates {
				vals[d] += r.Values[d]
			}
		}
	}

	rows := make([]PlanRow, 0, len(order))
	for _, label := range order {
		rows = append(rows, PlanRow{
			Type: RowTypeSubtotalHeader, Section: sec,
			SubID: fmt.Sprintf("grand_%s_%s", sec, label), Grand: true,
			Label: "∑ " + label, Values: combined[label],
		})
	}
	return rows
}
