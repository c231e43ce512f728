package refdata

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")

	s := NewStore()
	s.Replace(&Snapshot{
		Version: 1,
		Org: Org{Facilities: []Facility{
			{ID: "fac-1", Name: "Plant One", Code: "P1", Type: FacilityCementPlant},
		}},
		Data: Dataset{Campaigns: []Campaign{
			{Date: "2026-03-02", FacilityID: "fac-1", EquipmentID: "k1", ProductID: "clk", Rate: 2000, Status: StatusProduce},
		}},
	})
	if err := s.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s2 := NewStore()
	if err := s2.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	snap := s2.Snapshot()
	if len(snap.Org.Facilities) != 1 || snap.Org.Facilities[0].ID != "fac-1" {
		t.Errorf("Facilities did not round-trip: %+v", snap.Org.Facilities)
	}
	if len(snap.Data.Campaigns) != 1 || snap.Data.Campaigns[0].Rate != 2000 {
		t.Errorf("Campaigns did not round-trip: %+v", snap.Data.Campaigns)
	}

	// No stray temp file after the atomic rename.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Expected temp file to be gone after Save")
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	s := NewStore()
	if err := s.Load(filepath.Join(t.TempDir(), "nope.json")); err != nil {
		t.Fatalf("Expected missing file to be fine, got %v", err)
	}
	if s.Snapshot() == nil {
		t.Fatal("Expected the empty snapshot to remain")
	}
}

func TestSaveCampaignBlockWritesEachDay(t *testing.T) {
	s := NewStore()
	err := s.SaveCampaignBlock("fac-1", "k1", "", "clk", "2026-03-02", "2026-03-04", 2000)
	if err != nil {
		t.Fatalf("SaveCampaignBlock failed: %v", err)
	}

	camps := s.Snapshot().Data.Campaigns
	if len(camps) != 3 {
		t.Fatalf("Expected 3 daily records, got %d", len(camps))
	}
	for _, c := range camps {
		if c.Status != StatusProduce {
			t.Errorf("Expected derived produce status, got %q", c.Status)
		}
		if c.ProductID != "clk" || c.Rate != 2000 {
			t.Errorf("Unexpected campaign row %+v", c)
		}
	}

	// Overwriting part of the range replaces, not duplicates.
	if err := s.SaveCampaignBlock("fac-1", "k1", StatusMaintenance, "", "2026-03-03", "2026-03-03", 0); err != nil {
		t.Fatalf("SaveCampaignBlock failed: %v", err)
	}
	camps = s.Snapshot().Data.Campaigns
	if len(camps) != 3 {
		t.Fatalf("Expected still 3 records after overwrite, got %d", len(camps))
	}
	var mid Campaign
	for _, c := range camps {
		if c.Date == "2026-03-03" {
			mid = c
		}
	}
	if mid.Status != StatusMaintenance || mid.ProductID != "" || mid.Rate != 0 {
		t.Errorf("Expected maintenance day with no product, got %+v", mid)
	}
}

func TestSaveCampaignBlockValidation(t *testing.T) {
	s := NewStore()
	if err := s.SaveCampaignBlock("fac-1", "", "", "clk", "2026-03-02", "2026-03-04", 2000); err == nil {
		t.Error("Expected an error for missing equipment id")
	}
	if err := s.SaveCampaignBlock("fac-1", "k1", "", "clk", "2026-03-04", "2026-03-02", 2000); err == nil {
		t.Error("Expected an error for an inverted date range")
	}
	if err := s.SaveCampaignBlock("fac-1", "k1", "", "clk", "bad-date", "2026-03-04", 2000); err == nil {
		t.Error("Expected an error for a malformed date")
	}
}

func TestSaveDailyActualsReplacesDay(t *testing.T) {
	s := NewStore()
	err := s.SaveDailyActuals("2026-03-02", "fac-1",
		[]InventoryCount{{StorageID: "st-1", Qty: 1200}},
		[]ProductionActual{{EquipmentID: "k1", ProductID: "clk", Qty: 1900}},
		[]ShipmentActual{{ProductID: "cem-i", Qty: 250}})
	if err != nil {
		t.Fatalf("SaveDailyActuals failed: %v", err)
	}

	// Second save for the same day replaces everything, and zero-quantity
	// production rows are dropped while zero inventory counts are kept.
	err = s.SaveDailyActuals("2026-03-02", "fac-1",
		[]InventoryCount{{StorageID: "st-1", Qty: 0}},
		[]ProductionActual{{EquipmentID: "k1", ProductID: "clk", Qty: 0}},
		nil)
	if err != nil {
		t.Fatalf("SaveDailyActuals failed: %v", err)
	}

	a := s.Snapshot().Data.Actuals
	if len(a.InventoryBOD) != 1 || a.InventoryBOD[0].Qty != 0 {
		t.Errorf("Expected one zero inventory count, got %+v", a.InventoryBOD)
	}
	if len(a.Production) != 0 {
		t.Errorf("Expected zero production row to be dropped, got %+v", a.Production)
	}
	if len(a.Shipments) != 0 {
		t.Errorf("Expected shipments cleared, got %+v", a.Shipments)
	}
}

func TestSaveDailyActualsCoercesNonFinite(t *testing.T) {
	s := NewStore()
	err := s.SaveDailyActuals("2026-03-02", "fac-1",
		[]InventoryCount{{StorageID: "st-1", Qty: math.NaN()}},
		nil, nil)
	if err != nil {
		t.Fatalf("SaveDailyActuals failed: %v", err)
	}
	if got := s.Snapshot().Data.Actuals.InventoryBOD[0].Qty; got != 0 {
		t.Errorf("Expected NaN coerced to 0, got %f", got)
	}
}

func TestSaveTransferReplaceAndDelete(t *testing.T) {
	s := NewStore()
	tr := Transfer{Date: "2026-03-02", FromFacilityID: "fac-1", ToFacilityID: "fac-2", ProductID: "cem-i", Qty: 100}
	if err := s.SaveTransfer(tr); err != nil {
		t.Fatalf("SaveTransfer failed: %v", err)
	}
	tr.Qty = 150
	if err := s.SaveTransfer(tr); err != nil {
		t.Fatalf("SaveTransfer failed: %v", err)
	}

	got := s.Snapshot().Data.Actuals.Transfers
	if len(got) != 1 || got[0].Qty != 150 {
		t.Fatalf("Expected one transfer at 150, got %+v", got)
	}

	s.DeleteTransfer("2026-03-02", "fac-1", "fac-2", "cem-i")
	if n := len(s.Snapshot().Data.Actuals.Transfers); n != 0 {
		t.Errorf("Expected transfer deleted, %d remain", n)
	}

	if err := s.SaveTransfer(Transfer{Date: "2026-03-02"}); err == nil {
		t.Error("Expected an error for a transfer without endpoints")
	}
}

func TestSaveDemandForecastUpserts(t *testing.T) {
	s := NewStore()
	rows := []ForecastRow{
		{Date: "2026-03-02", ProductID: "cem-i", Qty: 300},
		{Date: "2026-03-03", ProductID: "cem-i", Qty: 320},
	}
	if err := s.SaveDemandForecast("fac-1", rows); err != nil {
		t.Fatalf("SaveDemandForecast failed: %v", err)
	}
	if err := s.SaveDemandForecast("fac-1", []ForecastRow{{Date: "2026-03-02", ProductID: "cem-i", Qty: 280}}); err != nil {
		t.Fatalf("SaveDemandForecast failed: %v", err)
	}

	fc := s.Snapshot().Data.DemandForecast
	if len(fc) != 2 {
		t.Fatalf("Expected 2 forecast rows, got %d", len(fc))
	}
	for _, r := range fc {
		if r.Date == "2026-03-02" && r.Qty != 280 {
			t.Errorf("Expected upserted qty 280, got %f", r.Qty)
		}
		if r.FacilityID != "fac-1" {
			t.Errorf("Expected facility stamped on row, got %+v", r)
		}
	}
}
