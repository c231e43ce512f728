package plan

import (
	"fmt"
	"math"
	"time"

	"rollplan-mcp/internal/refdata"
)

// finite coerces NaN/Inf input quantities to zero so they never propagate
// through the ledgers.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func addDays(date string, n int) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, n).Format("2006-01-02")
}

// DateRange builds the contiguous date list for a horizon.
func DateRange(startDate string, days int) []string {
	dates := make([]string, days)
	for i := range dates {
		dates[i] = addDays(startDate, i)
	}
	return dates
}

// facilityIndexes are the read-only lookup structures for one facility's run,
// built once up front and passed through the day loop.
type facilityIndexes struct {
	storages []refdata.Storage
	kilns    []refdata.Equipment
	mills    []refdata.Equipment
	allEquip []refdata.Equipment

	counts       map[string]float64                   // date|storageId → physical count
	actualProd   map[string]float64                   // date|equipmentId|productId → qty
	actualByEq   map[string][]refdata.ProductionActual // date|equipmentId → rows
	transferNet  map[string]float64                   // date|storageId → signed delta
	campaignByEq map[string]refdata.Campaign          // date|equipmentId → block
	campaignProd map[string]float64                   // date|equipmentId|productId → planned rate
	forecast     map[string]float64                   // date|productId → qty
	shipments    map[string]float64                   // date|productId → qty

	storageByProduct map[string]*refdata.Storage
	warnings         []string
}

func tripleKey(date, a, b string) string {
	return date + "|" + a + "|" + b
}

func buildIndexes(snap *refdata.Snapshot, facilityID string) *facilityIndexes {
	idx := &facilityIndexes{
		storages:     snap.FacilityStorages(facilityID),
		kilns:        snap.FacilityEquipment(facilityID, refdata.EquipmentKiln),
		mills:        snap.FacilityEquipment(facilityID, refdata.EquipmentFinishMill),
		counts:       make(map[string]float64),
		actualProd:   make(map[string]float64),
		actualByEq:   make(map[string][]refdata.ProductionActual),
		transferNet:  make(map[string]float64),
		campaignByEq: make(map[string]refdata.Campaign),
		campaignProd: make(map[string]float64),
		forecast:     make(map[string]float64),
		shipments:    make(map[string]float64),

		storageByProduct: make(map[string]*refdata.Storage),
	}
	idx.allEquip = append(append([]refdata.Equipment{}, idx.kilns...), idx.mills...)

	// Storage-by-product resolution: the first storage listing a product is
	// canonical. A second match is a configuration problem, not a tiebreak.
	for i := range idx.storages {
		st := &idx.storages[i]
		for _, pid := range st.AllowedProductIDs {
			if prev, ok := idx.storageByProduct[pid]; ok {
				idx.warnings = append(idx.warnings, fmt.Sprintf(
					"product %s maps to storages %s and %s at facility %s; using %s",
					pid, prev.ID, st.ID, facilityID, prev.ID))
				continue
			}
			idx.storageByProduct[pid] = st
		}
	}

	for _, r := range snap.Data.Actuals.InventoryBOD {
		if r.FacilityID == facilityID {
			idx.counts[cellKey(r.Date, r.StorageID)] = finite(r.Qty)
		}
	}

	for _, r := range snap.Data.Actuals.Production {
		if r.FacilityID != facilityID {
			continue
		}
		idx.actualProd[tripleKey(r.Date, r.EquipmentID, r.ProductID)] = finite(r.Qty)
		if finite(r.Qty) != 0 {
			k := cellKey(r.Date, r.EquipmentID)
			idx.actualByEq[k] = append(idx.actualByEq[k], r)
		}
	}

	// Transfers reference products, not storages; resolve to this facility's
	// canonical storage and skip anything that lands elsewhere.
	for _, t := range snap.Data.Actuals.Transfers {
		if t.ProductID == "" {
			continue
		}
		st, ok := idx.storageByProduct[t.ProductID]
		if !ok || st.FacilityID != facilityID {
			continue
		}
		delta := finite(t.Qty)
		if t.FromFacilityID == facilityID {
			delta = -delta
		}
		idx.transferNet[cellKey(t.Date, st.ID)] += delta
	}

	for _, c := range snap.Data.Campaigns {
		if c.FacilityID != facilityID {
			continue
		}
		idx.campaignByEq[cellKey(c.Date, c.EquipmentID)] = c
		if c.ProductID != "" && effectiveStatus(c) == refdata.StatusProduce {
			idx.campaignProd[tripleKey(c.Date, c.EquipmentID, c.ProductID)] = finite(c.Rate)
		}
	}

	for _, f := range snap.Data.DemandForecast {
		if f.FacilityID == facilityID {
			idx.forecast[cellKey(f.Date, f.ProductID)] += finite(f.Qty)
		}
	}

	for _, sh := range snap.Data.Actuals.Shipments {
		if sh.FacilityID == facilityID {
			idx.shipments[cellKey(sh.Date, sh.ProductID)] += finite(sh.Qty)
		}
	}

	return idx
}

// effectiveStatus derives the status of a campaign block when the record
// itself carries none.
func effectiveStatus(c refdata.Campaign) refdata.CampaignStatus {
	if c.Status != "" {
		return c.Status
	}
	if c.ProductID != "" && finite(c.Rate) > 0 {
		return refdata.StatusProduce
	}
	return refdata.StatusIdle
}

// expectedShipment resolves the demand for a product on a date: a recorded
// actual shipment wins over the saved forecast; absent both, zero.
func (idx *facilityIndexes) expectedShipment(date, productID string) float64 {
	if q := idx.shipments[cellKey(date, productID)]; q > 0 {
		return q
	}
	return idx.forecast[cellKey(date, productID)]
}

// requestedRate resolves the requested production for (date, equipment,
// product): a recorded actual, even zero, overrides the campaign plan.
func (idx *facilityIndexes) requestedRate(date, equipmentID, productID string) float64 {
	if q, ok := idx.actualProd[tripleKey(date, equipmentID, productID)]; ok {
		return q
	}
	return idx.campaignProd[tripleKey(date, equipmentID, productID)]
}
