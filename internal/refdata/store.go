package refdata

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const snapshotVersion = 1

// Store provides thread-safe access to the reference-data snapshot and its
// JSON persistence. The simulation only ever reads through it; the MCP write
// tools mutate and save.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a store around an empty snapshot.
func NewStore() *Store {
	return &Store{snap: &Snapshot{Version: snapshotVersion}}
}

// Snapshot returns the current snapshot. Callers must treat it as read-only.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace swaps in a new snapshot wholesale.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Load reads a snapshot from a JSON file. A missing file is not an error;
// the store keeps its empty snapshot.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	s.mu.Lock()
	s.snap = &snap
	s.mu.Unlock()

	log.Info().Str("path", path).
		Int("facilities", len(snap.Org.Facilities)).
		Int("campaigns", len(snap.Data.Campaigns)).
		Msg("Loaded snapshot")
	return nil
}

// Save persists the snapshot to a JSON file via a temp file and atomic rename.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.snap, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot: %w", err)
	}

	log.Info().Str("path", path).Msg("Snapshot saved")
	return nil
}

// finite coerces NaN/Inf quantities to zero before they enter the dataset.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SaveCampaignBlock writes one campaign record per day over an inclusive date
// range, replacing any existing record for the same date and equipment.
func (s *Store) SaveCampaignBlock(facilityID, equipmentID string, status CampaignStatus, productID string, startDate, endDate string, rate float64) error {
	if equipmentID == "" || startDate == "" || endDate == "" {
		return fmt.Errorf("equipmentId, startDate and endDate are required")
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return fmt.Errorf("invalid startDate %q: %w", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return fmt.Errorf("invalid endDate %q: %w", endDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("endDate %s is before startDate %s", endDate, startDate)
	}
	if status == "" {
		if productID != "" && finite(rate) > 0 {
			status = StatusProduce
		} else {
			status = StatusIdle
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		kept := s.snap.Data.Campaigns[:0:0]
		for _, c := range s.snap.Data.Campaigns {
			if !(c.Date == date && c.FacilityID == facilityID && c.EquipmentID == equipmentID) {
				kept = append(kept, c)
			}
		}
		row := Campaign{
			Date:        date,
			FacilityID:  facilityID,
			EquipmentID: equipmentID,
			Status:      status,
		}
		if status == StatusProduce {
			row.ProductID = productID
			row.Rate = finite(rate)
		}
		s.snap.Data.Campaigns = append(kept, row)
	}
	return nil
}

// SaveDailyActuals replaces all inventory counts, production actuals and
// shipment actuals for one date at one facility. Rows with non-finite or
// (for production/shipments) zero quantities are dropped.
func (s *Store) SaveDailyActuals(date, facilityID string, inventory []InventoryCount, production []ProductionActual, shipments []ShipmentActual) error {
	if date == "" || facilityID == "" {
		return fmt.Errorf("date and facilityId are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := &s.snap.Data.Actuals

	keepInv := a.InventoryBOD[:0:0]
	for _, r := range a.InventoryBOD {
		if !(r.Date == date && r.FacilityID == facilityID) {
			keepInv = append(keepInv, r)
		}
	}
	a.InventoryBOD = keepInv
	keepProd := a.Production[:0:0]
	for _, r := range a.Production {
		if !(r.Date == date && r.FacilityID == facilityID) {
			keepProd = append(keepProd, r)
		}
	}
	a.Production = keepProd
	keepShip := a.Shipments[:0:0]
	for _, r := range a.Shipments {
		if !(r.Date == date && r.FacilityID == facilityID) {
			keepShip = append(keepShip, r)
		}
	}
	a.Shipments = keepShip

	for _, r := range inventory {
		if r.StorageID == "" {
			continue
		}
		r.Date, r.FacilityID, r.Qty = date, facilityID, finite(r.Qty)
		a.InventoryBOD = append(a.InventoryBOD, r)
	}
	for _, r := range production {
		if r.EquipmentID == "" || r.ProductID == "" || finite(r.Qty) == 0 {
			continue
		}
		r.Date, r.FacilityID, r.Qty = date, facilityID, finite(r.Qty)
		a.Production = append(a.Production, r)
	}
	for _, r := range shipments {
		if r.ProductID == "" || finite(r.Qty) == 0 {
			continue
		}
		r.Date, r.FacilityID, r.Qty = date, facilityID, finite(r.Qty)
		a.Shipments = append(a.Shipments, r)
	}
	return nil
}

// SaveTransfer records a plant-to-plant movement, replacing any existing
// transfer for the same date, endpoints and product.
func (s *Store) SaveTransfer(t Transfer) error {
	if t.Date == "" || t.FromFacilityID == "" || t.ToFacilityID == "" || t.ProductID == "" {
		return fmt.Errorf("date, fromFacilityId, toFacilityId and productId are required")
	}
	t.Qty = finite(t.Qty)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snap.Data.Actuals.Transfers[:0:0]
	for _, r := range s.snap.Data.Actuals.Transfers {
		if !(r.Date == t.Date && r.FromFacilityID == t.FromFacilityID && r.ToFacilityID == t.ToFacilityID && r.ProductID == t.ProductID) {
			kept = append(kept, r)
		}
	}
	s.snap.Data.Actuals.Transfers = append(kept, t)
	return nil
}

// DeleteTransfer removes the transfer matching date, endpoints and product.
func (s *Store) DeleteTransfer(date, fromFacilityID, toFacilityID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.snap.Data.Actuals.Transfers[:0:0]
	for _, r := range s.snap.Data.Actuals.Transfers {
		if !(r.Date == date && r.FromFacilityID == fromFacilityID && r.ToFacilityID == toFacilityID && r.ProductID == productID) {
			kept = append(kept, r)
		}
	}
	s.snap.Data.Actuals.Transfers = kept
}

// SaveDemandForecast upserts forecast rows keyed by date + facility + product.
func (s *Store) SaveDemandForecast(facilityID string, rows []ForecastRow) error {
	if facilityID == "" {
		return fmt.Errorf("facilityId is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range rows {
		if row.Date == "" || row.ProductID == "" {
			continue
		}
		row.FacilityID = facilityID
		row.Qty = finite(row.Qty)
		kept := s.snap.Data.DemandForecast[:0:0]
		for _, r := range s.snap.Data.DemandForecast {
			if !(r.Date == row.Date && r.FacilityID == facilityID && r.ProductID == row.ProductID) {
				kept = append(kept, r)
			}
		}
		s.snap.Data.DemandForecast = append(kept, row)
	}
	return nil
}
