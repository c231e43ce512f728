package plan

import (
	"rollplan-mcp/internal/refdata"
)

// Facility section rows: per-storage inventory lines under family subtotals,
// per-equipment production lines under stage subtotals, and the outflow block
// with shipment, transfer and clinker-consumption lines.

func (sim *Simulator) buildRows(res *FacilityResult, idx *facilityIndexes, dates []string) {
	mkValues := func(get func(date string) float64) map[string]float64 {
		out := make(map[string]float64, len(dates))
		for _, d := range dates {
			out[d] = get(d)
		}
		return out
	}
	productNames := func(ids []string) string {
		var label string
		for _, pid := range ids {
			p := sim.snap.Product(pid)
			if p == nil {
				continue
			}
			if label != "" {
				label += " / "
			}
			label += p.Name
		}
		return label
	}

	// A storage shows up only when it holds clinker or cement AND one of its
	// products is activated for this facility. Facilities without activation
	// rows show everything.
	activated := sim.snap.ActivatedProductIDs(res.FacilityID)
	var visible []refdata.Storage
	for _, st := range idx.storages {
		fam := sim.storageFamily(&st)
		if fam != refdata.FamilyClinker && fam != refdata.FamilyCement {
			continue
		}
		if len(activated) > 0 {
			hit := false
			for _, pid := range st.AllowedProductIDs {
				if activated[pid] {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		visible = append(visible, st)
	}

	inventoryRows := func(ledger map[string]float64, suffix string) []Row {
		var out []Row
		for _, group := range []struct {
			fam   refdata.Family
			label string
		}{
			{refdata.FamilyClinker, "CLINKER " + suffix},
			{refdata.FamilyCement, "CEMENT " + suffix},
		} {
			var members []refdata.Storage
			for _, st := range visible {
				if sim.storageFamily(&st) == group.fam {
					members = append(members, st)
				}
			}
			if len(members) == 0 {
				continue
			}
			out = append(out, Row{
				Kind: RowKindSubtotal, Label: group.label,
				Values: mkValues(func(d string) float64 {
					sum := 0.0
					for _, st := range members {
						sum += ledger[cellKey(d, st.ID)]
					}
					return sum
				}),
			})
			for _, st := range members {
				st := st
				out = append(out, Row{
					Kind: RowKindRow, StorageID: st.ID, Label: st.Name,
					ProductLabel: productNames(st.AllowedProductIDs),
					Values: mkValues(func(d string) float64 {
						return ledger[cellKey(d, st.ID)]
					}),
				})
			}
		}
		return out
	}
	res.InventoryBODRows = inventoryRows(res.BOD, "INV-BOD")
	res.InventoryEODRows = inventoryRows(res.EOD, "INV-EOD")

	var prodRows []Row
	prodRows = append(prodRows, Row{
		Kind: RowKindSubtotal, Label: "CLINKER PRODUCTION",
		Values: mkValues(func(d string) float64 { return res.KilnTotal[d] }),
	})
	for _, eq := range idx.kilns {
		eq := eq
		prodRows = append(prodRows, Row{
			Kind: RowKindRow, EquipmentID: eq.ID, Label: eq.Name,
			Values: mkValues(func(d string) float64 { return res.Produced[cellKey(d, eq.ID)] }),
		})
	}
	prodRows = append(prodRows, Row{
		Kind: RowKindSubtotal, Label: "FINISH MILL PRODUCTION",
		Values: mkValues(func(d string) float64 { return res.MillTotal[d] }),
	})
	for _, eq := range idx.mills {
		eq := eq
		prodRows = append(prodRows, Row{
			Kind: RowKindRow, EquipmentID: eq.ID, Label: eq.Name,
			Values: mkValues(func(d string) float64 { return res.Produced[cellKey(d, eq.ID)] }),
		})
	}
	res.ProductionRows = prodRows

	var outRows []Row
	outRows = append(outRows, Row{Kind: RowKindGroup, Label: "CUSTOMER SHIPMENTS"})
	for _, p := range sim.snap.FinishedProducts(res.FacilityID) {
		p := p
		outRows = append(outRows, Row{
			Kind: RowKindRow, Label: p.Name, ProductLabel: p.Name,
			Values: mkValues(func(d string) float64 { return res.Shipped[cellKey(d, p.ID)] }),
		})
	}
	outRows = append(outRows, sim.transferRows(res.FacilityID, dates, mkValues, true)...)
	outRows = append(outRows, sim.transferRows(res.FacilityID, dates, mkValues, false)...)
	outRows = append(outRows, Row{
		Kind: RowKindSubtotal, Label: "CLK CONSUMED BY MILLS",
		Values: mkValues(func(d string) float64 { return res.ClinkerConsumed[d] }),
	})
	res.OutflowRows = outRows
}

// transferRows builds the TRANSFERS OUT or TRANSFERS IN block: one line per
// product with recorded movements, or a placeholder when there are none.
func (sim *Simulator) transferRows(facilityID string, dates []string, mkValues func(func(string) float64) map[string]float64, outbound bool) []Row {
	label := "TRANSFERS IN"
	if outbound {
		label = "TRANSFERS OUT"
	}
	rows := []Row{{Kind: RowKindGroup, Label: label}}

	matches := func(t refdata.Transfer) bool {
		if outbound {
			return t.FromFacilityID == facilityID
		}
		return t.ToFacilityID == facilityID
	}

	seen := make(map[string]bool)
	var productIDs []string
	for _, t := range sim.snap.Data.Actuals.Transfers {
		if matches(t) && !seen[t.ProductID] {
			seen[t.ProductID] = true
			productIDs = append(productIDs, t.ProductID)
		}
	}
	if len(productIDs) == 0 {
		return append(rows, Row{Kind: RowKindPlaceholder, Label: "No transfers recorded"})
	}

	for _, pid := range productIDs {
		pid := pid
		name := pid
		if p := sim.snap.Product(pid); p != nil {
			name = p.Name
		}
		arrow := "← "
		if outbound {
			arrow = "→ "
		}
		rows = append(rows, Row{
			Kind:  RowKindRow,
			Label: arrow + name,
			Values: mkValues(func(d string) float64 {
				sum := 0.0
				for _, t := range sim.snap.Data.Actuals.Transfers {
					if matches(t) && t.Date == d && t.ProductID == pid {
						sum += finite(t.Qty)
					}
				}
				return sum
			}),
		})
	}
	return rows
}
