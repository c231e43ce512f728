package plan

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"rollplan-mcp/internal/refdata"
)

// Simulator runs the day-by-day inventory projection for single facilities.
// It reads one immutable snapshot; every Run is independent, so runs for
// different facilities can proceed concurrently.
type Simulator struct {
	snap *refdata.Snapshot
}

func NewSimulator(snap *refdata.Snapshot) *Simulator {
	return &Simulator{snap: snap}
}

// millLine is one (finish mill, product) production request for a day.
type millLine struct {
	eqID      string
	productID string
	reqQty    float64
	clkFactor float64
	recipe    *refdata.Recipe
	outSt     *refdata.Storage
	headroom  float64
	expShip   float64
	daysCover float64
}

type kilnLine struct {
	eqID      string
	productID string
	reqQty    float64
	outSt     *refdata.Storage
}

const qtyEps = 1e-6

func (sim *Simulator) storageFamily(st *refdata.Storage) refdata.Family {
	if len(st.AllowedProductIDs) == 0 {
		return refdata.FamilyOther
	}
	return sim.snap.FamilyOf(st.AllowedProductIDs[0])
}

// Run simulates one facility over the date range and returns its complete
// result: ledgers, per-cell metadata, alerts and presentation rows.
func (sim *Simulator) Run(facilityID string, dates []string) (*FacilityResult, error) {
	if sim.snap.Facility(facilityID) == nil {
		return nil, fmt.Errorf("unknown facility %q", facilityID)
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("no dates to simulate")
	}

	idx := buildIndexes(sim.snap, facilityID)

	res := &FacilityResult{
		FacilityID:      facilityID,
		BOD:             make(map[string]float64),
		EOD:             make(map[string]float64),
		Shipped:         make(map[string]float64),
		Produced:        make(map[string]float64),
		KilnTotal:       make(map[string]float64),
		MillTotal:       make(map[string]float64),
		ClinkerConsumed: make(map[string]float64),
		EquipmentCells:  make(map[string]EquipmentCell),
		InventoryCells:  make(map[string]InventoryCell),
		AlertsByDate:    make(map[string][]Alert),
		Warnings:        idx.warnings,
	}
	constraints := make(map[string]*Constraint) // date|equipmentId

	finished := sim.snap.FinishedProducts(facilityID)

	// Seed day-0 BOD: a physical count on the start date wins, then one from
	// the day before, then zero.
	startDate := dates[0]
	prevDate := addDays(startDate, -1)
	for i := range idx.storages {
		st := &idx.storages[i]
		if q, ok := idx.counts[cellKey(startDate, st.ID)]; ok {
			res.BOD[cellKey(startDate, st.ID)] = q
		} else if q, ok := idx.counts[cellKey(prevDate, st.ID)]; ok {
			res.BOD[cellKey(startDate, st.ID)] = q
		}
	}

	for dayIdx, date := range dates {
		// Carry forward from yesterday's EOD unless a physical count exists
		// for today. The measured number always replaces the calculated one.
		if dayIdx > 0 {
			prev := dates[dayIdx-1]
			for i := range idx.storages {
				st := &idx.storages[i]
				if q, ok := idx.counts[cellKey(date, st.ID)]; ok {
					res.BOD[cellKey(date, st.ID)] = q
				} else {
					res.BOD[cellKey(date, st.ID)] = res.EOD[cellKey(prev, st.ID)]
				}
			}
		}

		delta := make(map[string]float64) // storageId → net movement today
		var kilnTotal, millTotal, clkConsumed float64

		// Step 1: customer shipments leave first, so mill allocation sees the
		// headroom freed by product going out today.
		shipByPid := make(map[string]float64)
		for _, p := range finished {
			q := idx.expectedShipment(date, p.ID)
			res.Shipped[cellKey(date, p.ID)] = q
			shipByPid[p.ID] = q
			if q != 0 {
				if st, ok := idx.storageByProduct[p.ID]; ok {
					delta[st.ID] -= q
				}
			}
		}

		// Step 2: finish mill allocation, constrained by output silo headroom
		// and a shared clinker pool.
		var millLines []millLine
		for _, eq := range idx.mills {
			for _, cap := range sim.snap.CapsForEquipment(eq.ID) {
				reqQty := idx.requestedRate(date, eq.ID, cap.ProductID)
				if reqQty == 0 {
					continue
				}
				recipe := sim.snap.LatestRecipe(facilityID, cap.ProductID)
				clkFactor := 0.0
				if recipe != nil {
					for _, c := range recipe.Components {
						if sim.snap.FamilyOf(c.ProductID) == refdata.FamilyClinker {
							clkFactor += finite(c.Pct) / 100
						}
					}
				}
				outSt := idx.storageByProduct[cap.ProductID]
				bodCem := 0.0
				if outSt != nil {
					bodCem = res.BOD[cellKey(date, outSt.ID)]
				}
				shipCem := shipByPid[cap.ProductID]
				headroom := math.Inf(1)
				if outSt != nil && outSt.MaxCapacity > 0 {
					headroom = math.Max(0, outSt.MaxCapacity-(bodCem-shipCem))
				}
				expS := idx.expectedShipment(date, cap.ProductID)
				daysCover := 99999.0
				if expS > 0 {
					daysCover = math.Max(0, bodCem) / expS
				}
				millLines = append(millLines, millLine{
					eqID: eq.ID, productID: cap.ProductID, reqQty: reqQty,
					clkFactor: clkFactor, recipe: recipe, outSt: outSt,
					headroom: headroom, expShip: expS, daysCover: daysCover,
				})
			}
		}

		var kilnLines []kilnLine
		for _, eq := range idx.kilns {
			for _, cap := range sim.snap.CapsForEquipment(eq.ID) {
				qty := idx.requestedRate(date, eq.ID, cap.ProductID)
				if qty == 0 {
					continue
				}
				kilnLines = append(kilnLines, kilnLine{
					eqID: eq.ID, productID: cap.ProductID, reqQty: qty,
					outSt: idx.storageByProduct[cap.ProductID],
				})
			}
		}

		// Shared clinker pool: everything sitting in clinker storages this
		// morning plus everything the kilns intend to make today.
		totalClkBOD := 0.0
		for i := range idx.storages {
			st := &idx.storages[i]
			if sim.storageFamily(st) == refdata.FamilyClinker {
				totalClkBOD += res.BOD[cellKey(date, st.ID)]
			}
		}
		totalKilnReq := 0.0
		for _, l := range kilnLines {
			totalKilnReq += l.reqQty
		}
		remainingClk := totalClkBOD + totalKilnReq

		// Most urgent product first: fewest days of cover, then biggest
		// expected shipment, then equipment id for a stable order.
		sort.SliceStable(millLines, func(i, j int) bool {
			a, b := millLines[i], millLines[j]
			if a.daysCover != b.daysCover {
				return a.daysCover < b.daysCover
			}
			if a.expShip != b.expShip {
				return a.expShip > b.expShip
			}
			return strings.Compare(a.eqID, b.eqID) < 0
		})

		millUsed := make(map[string]float64)
		for _, line := range millLines {
			maxByClk := math.Inf(1)
			if line.clkFactor > 0 {
				maxByClk = math.Max(0, remainingClk/line.clkFactor)
			}
			used := math.Max(0, math.Min(line.reqQty, math.Min(line.headroom, maxByClk)))

			if used < line.reqQty-qtyEps {
				var reasons []string
				if line.headroom < line.reqQty-qtyEps {
					reasons = append(reasons, "cement silo capacity")
				}
				if maxByClk < line.reqQty-qtyEps {
					reasons = append(reasons, fmt.Sprintf("clinker scarcity (%.1fd cover)", line.daysCover))
				}
				reason := strings.Join(reasons, " + ")
				if reason == "" {
					reason = "constraint"
				}
				constraints[cellKey(date, line.eqID)] = &Constraint{
					Type: "capped", Reason: reason, Requested: line.reqQty, Used: used,
				}
			}
			if used <= 0 {
				millUsed[line.eqID] += 0
				continue
			}

			millUsed[line.eqID] += used
			millTotal += used
			if line.outSt != nil {
				delta[line.outSt.ID] += used
			}
			if line.recipe != nil {
				for _, c := range line.recipe.Components {
					compQty := used * finite(c.Pct) / 100
					if compSt, ok := idx.storageByProduct[c.ProductID]; ok {
						delta[compSt.ID] -= compQty
					}
					if sim.snap.FamilyOf(c.ProductID) == refdata.FamilyClinker {
						clkConsumed += compQty
						remainingClk = math.Max(0, remainingClk-compQty)
					}
				}
			}
		}
		for _, eq := range idx.mills {
			res.Produced[cellKey(date, eq.ID)] = millUsed[eq.ID]
		}

		// Step 3: kiln output, capped by the destination clinker silo's
		// headroom after today's movements so far (the mills' draw included).
		kilnUsed := make(map[string]float64)
		for _, line := range kilnLines {
			used := line.reqQty
			if line.outSt != nil && line.outSt.MaxCapacity > 0 {
				bod := res.BOD[cellKey(date, line.outSt.ID)]
				headroom := math.Max(0, line.outSt.MaxCapacity-(bod+delta[line.outSt.ID]))
				used = math.Min(line.reqQty, headroom)
				if used < line.reqQty-qtyEps {
					reason := "clinker storage max capacity"
					if prev := constraints[cellKey(date, line.eqID)]; prev != nil {
						reason = prev.Reason + " + " + reason
					}
					constraints[cellKey(date, line.eqID)] = &Constraint{
						Type: "capped", Reason: reason, Requested: line.reqQty, Used: used,
					}
				}
			}
			if used <= 0 {
				kilnUsed[line.eqID] += 0
				continue
			}
			kilnUsed[line.eqID] += used
			kilnTotal += used
			if line.outSt != nil {
				delta[line.outSt.ID] += used
			}
		}
		for _, eq := range idx.kilns {
			res.Produced[cellKey(date, eq.ID)] = kilnUsed[eq.ID]
		}

		// Step 4: plant-to-plant transfers.
		for i := range idx.storages {
			st := &idx.storages[i]
			if d := idx.transferNet[cellKey(date, st.ID)]; d != 0 {
				delta[st.ID] += d
			}
		}

		// Step 5: equipment cell metadata. Recorded actuals outrank the plan.
		for _, eq := range idx.allEquip {
			key := cellKey(date, eq.ID)
			if rows := idx.actualByEq[key]; len(rows) > 0 {
				total := 0.0
				for _, r := range rows {
					total += finite(r.Qty)
				}
				dom := rows[0]
				for _, r := range rows[1:] {
					if finite(r.Qty) > finite(dom.Qty) {
						dom = r
					}
				}
				res.EquipmentCells[key] = EquipmentCell{
					Source: SourceActual, Status: string(refdata.StatusProduce),
					ProductID: dom.ProductID, TotalQty: total,
					MultiProduct: len(rows) > 1, Constraint: constraints[key],
				}
				continue
			}
			if camp, ok := idx.campaignByEq[key]; ok {
				res.EquipmentCells[key] = EquipmentCell{
					Source: SourcePlan, Status: string(effectiveStatus(camp)),
					ProductID: camp.ProductID, TotalQty: finite(camp.Rate),
					Constraint: constraints[key],
				}
				continue
			}
			res.EquipmentCells[key] = EquipmentCell{
				Source: SourceNone, Status: string(refdata.StatusIdle),
				Constraint: constraints[key],
			}
		}

		res.KilnTotal[date] = kilnTotal
		res.MillTotal[date] = millTotal
		res.ClinkerConsumed[date] = clkConsumed

		// Step 6: settle EOD and classify alerts.
		for i := range idx.storages {
			st := &idx.storages[i]
			bod := res.BOD[cellKey(date, st.ID)]
			eod := bod + delta[st.ID]
			res.EOD[cellKey(date, st.ID)] = eod

			var severity, warn, reason string
			if st.MaxCapacity > 0 && eod >= 0.75*st.MaxCapacity {
				warn = WarnHigh75
			}
			if st.MaxCapacity > 0 && eod > st.MaxCapacity {
				severity = SeverityFull
				reason = fmt.Sprintf("EOD %.1f > max %.1f", eod, st.MaxCapacity)
			} else if eod < 0 {
				severity = SeverityStockout
				reason = fmt.Sprintf("EOD %.1f < 0", eod)
			}

			if severity == "" && warn == "" {
				continue
			}
			cell := InventoryCell{
				Severity: severity, Warn: warn, EOD: eod, BOD: bod,
				StorageID: st.ID, StorageName: st.Name,
				Reason: reason, FacilityID: facilityID,
			}
			if st.MaxCapacity > 0 {
				cell.MaxCap = st.MaxCapacity
			}
			res.InventoryCells[cellKey(date, st.ID)] = cell
			res.AlertsByDate[date] = append(res.AlertsByDate[date], Alert{
				Severity: severity, StorageID: st.ID, StorageName: st.Name,
				Reason: reason, FacilityID: facilityID,
			})
		}
	}

	sim.buildRows(res, idx, dates)
	return res, nil
}
