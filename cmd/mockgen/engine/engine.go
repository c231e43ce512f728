// Package engine generates a demo reference-data snapshot: a small cement
// network with planned campaigns, forecasts and a few recorded actuals, enough
// to exercise every stage of the simulation.
package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"rollplan-mcp/internal/refdata"
)

type GeneratorConfig struct {
	Start time.Time
	Days  int
	Seed  int64
}

const dateFormat = "2006-01-02"

// Generate builds a three-facility network: an integrated cement plant, a
// grinding station fed by clinker transfers, and a distribution terminal.
func Generate(cfg GeneratorConfig) *refdata.Snapshot {
	if cfg.Start.IsZero() {
		cfg.Start = time.Now()
	}
	if cfg.Days <= 0 {
		cfg.Days = 35
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	snap := &refdata.Snapshot{
		Version: 1,
		Org: refdata.Org{
			Countries:  []refdata.Country{{ID: "us", Name: "United States", Code: "US"}},
			Regions:    []refdata.Region{{ID: "r-gl", CountryID: "us", Name: "Great Lakes", Code: "GL"}},
			SubRegions: []refdata.SubRegion{{ID: "sr-mi", RegionID: "r-gl", Name: "Michigan", Code: "MI"}},
			Facilities: []refdata.Facility{
				{ID: "fac-alpena", SubRegionID: "sr-mi", Name: "Alpena Plant", Code: "ALP", Type: refdata.FacilityCementPlant},
				{ID: "fac-dundee", SubRegionID: "sr-mi", Name: "Dundee Grinding", Code: "DUN", Type: refdata.FacilityGrinding},
				{ID: "fac-detroit", SubRegionID: "sr-mi", Name: "Detroit Terminal", Code: "DET", Type: refdata.FacilityTerminal},
			},
		},
		Families: []refdata.ProductFamily{
			{ID: "fam-clnk", Code: "CLNK", Label: "Clinker"},
			{ID: "fam-cem", Code: "CEM", Label: "Grey Cement"},
			{ID: "fam-slag", Code: "SLAG", Label: "Slag Cement"},
		},
		Catalog: []refdata.Product{
			{ID: "clk", FamilyID: "fam-clnk", Name: "Clinker", Category: refdata.CategoryIntermediate, Unit: "STn"},
			{ID: "gyp", Name: "Gypsum", Category: refdata.CategoryRaw, Unit: "STn"},
			{ID: "cem-i", RegionID: "r-gl", FamilyID: "fam-cem", Name: "Cement Type I/II", Category: refdata.CategoryFinished, Unit: "STn"},
			{ID: "cem-iii", RegionID: "r-gl", FamilyID: "fam-cem", Name: "Cement Type III", Category: refdata.CategoryFinished, Unit: "STn"},
			{ID: "slag-100", RegionID: "r-gl", FamilyID: "fam-slag", Name: "Slag Cement 100", Category: refdata.CategoryFinished, Unit: "STn"},
		},
	}

	snap.Data = refdata.Dataset{
		Equipment: []refdata.Equipment{
			{ID: "alp-k1", FacilityID: "fac-alpena", Name: "Kiln 1", Type: refdata.EquipmentKiln},
			{ID: "alp-fm1", FacilityID: "fac-alpena", Name: "Finish Mill 1", Type: refdata.EquipmentFinishMill},
			{ID: "alp-fm2", FacilityID: "fac-alpena", Name: "Finish Mill 2", Type: refdata.EquipmentFinishMill},
			{ID: "dun-fm1", FacilityID: "fac-dundee", Name: "Finish Mill 1", Type: refdata.EquipmentFinishMill},
		},
		Capabilities: []refdata.Capability{
			{ID: "cap-alp-k1", EquipmentID: "alp-k1", ProductID: "clk", MaxRate: 4200},
			{ID: "cap-alp-fm1-i", EquipmentID: "alp-fm1", ProductID: "cem-i", MaxRate: 2600},
			{ID: "cap-alp-fm2-iii", EquipmentID: "alp-fm2", ProductID: "cem-iii", MaxRate: 1400},
			{ID: "cap-dun-fm1", EquipmentID: "dun-fm1", ProductID: "slag-100", MaxRate: 1100},
		},
		Storages: []refdata.Storage{
			{ID: "alp-dome", FacilityID: "fac-alpena", Name: "Clinker Dome", AllowedProductIDs: []string{"clk"}, MaxCapacity: 60000},
			{ID: "alp-silo1", FacilityID: "fac-alpena", Name: "Silo 1", AllowedProductIDs: []string{"cem-i"}, MaxCapacity: 14000},
			{ID: "alp-silo2", FacilityID: "fac-alpena", Name: "Silo 2", AllowedProductIDs: []string{"cem-iii"}, MaxCapacity: 6000},
			{ID: "dun-dome", FacilityID: "fac-dundee", Name: "Clinker Storage", AllowedProductIDs: []string{"clk"}, MaxCapacity: 18000},
			{ID: "dun-silo1", FacilityID: "fac-dundee", Name: "Slag Silo", AllowedProductIDs: []string{"slag-100"}, MaxCapacity: 7000},
			{ID: "det-silo1", FacilityID: "fac-detroit", Name: "Terminal Silo A", AllowedProductIDs: []string{"cem-i"}, MaxCapacity: 9000},
		},
		Recipes: []refdata.Recipe{
			{ID: "rec-cem-i", FacilityID: "fac-alpena", ProductID: "cem-i", Version: 2, Components: []refdata.RecipeComponent{
				{ProductID: "clk", Pct: 92},
				{ProductID: "gyp", Pct: 5},
			}},
			{ID: "rec-cem-iii", FacilityID: "fac-alpena", ProductID: "cem-iii", Version: 1, Components: []refdata.RecipeComponent{
				{ProductID: "clk", Pct: 95},
				{ProductID: "gyp", Pct: 5},
			}},
			{ID: "rec-slag", FacilityID: "fac-dundee", ProductID: "slag-100", Version: 1, Components: []refdata.RecipeComponent{
				{ProductID: "clk", Pct: 40},
			}},
		},
		FacilityProducts: []refdata.FacilityProduct{
			{FacilityID: "fac-alpena", ProductID: "cem-i"},
			{FacilityID: "fac-alpena", ProductID: "cem-iii"},
			{FacilityID: "fac-dundee", ProductID: "slag-100"},
			{FacilityID: "fac-detroit", ProductID: "cem-i"},
		},
	}

	start := cfg.Start
	day := func(i int) string { return start.AddDate(0, 0, i).Format(dateFormat) }

	// Campaigns: the kiln runs the whole horizon, mills alternate with short
	// maintenance windows.
	for i := 0; i < cfg.Days; i++ {
		snap.Data.Campaigns = append(snap.Data.Campaigns, refdata.Campaign{
			Date: day(i), FacilityID: "fac-alpena", EquipmentID: "alp-k1",
			ProductID: "clk", Rate: 4000, Status: refdata.StatusProduce,
		})

		fm1 := refdata.Campaign{
			Date: day(i), FacilityID: "fac-alpena", EquipmentID: "alp-fm1",
			ProductID: "cem-i", Rate: 2400, Status: refdata.StatusProduce,
		}
		if i >= 10 && i < 13 {
			fm1 = refdata.Campaign{Date: day(i), FacilityID: "fac-alpena", EquipmentID: "alp-fm1", Status: refdata.StatusMaintenance}
		}
		snap.Data.Campaigns = append(snap.Data.Campaigns, fm1)

		snap.Data.Campaigns = append(snap.Data.Campaigns, refdata.Campaign{
			Date: day(i), FacilityID: "fac-alpena", EquipmentID: "alp-fm2",
			ProductID: "cem-iii", Rate: 1200, Status: refdata.StatusProduce,
		})
		snap.Data.Campaigns = append(snap.Data.Campaigns, refdata.Campaign{
			Date: day(i), FacilityID: "fac-dundee", EquipmentID: "dun-fm1",
			ProductID: "slag-100", Rate: 900, Status: refdata.StatusProduce,
		})
	}

	// Demand: weekday-heavy with noise, terminals ship out of transferred stock.
	forecast := func(facID, productID string, base float64) {
		for i := 0; i < cfg.Days; i++ {
			d := start.AddDate(0, 0, i)
			q := base
			if wd := d.Weekday(); wd == time.Saturday {
				q *= 0.4
			} else if wd == time.Sunday {
				q = 0
			}
			q = math.Round(q * (0.85 + rng.Float64()*0.3))
			if q <= 0 {
				continue
			}
			snap.Data.DemandForecast = append(snap.Data.DemandForecast, refdata.ForecastRow{
				Date: d.Format(dateFormat), FacilityID: facID, ProductID: productID, Qty: q,
			})
		}
	}
	forecast("fac-alpena", "cem-i", 2100)
	forecast("fac-alpena", "cem-iii", 1000)
	forecast("fac-dundee", "slag-100", 850)
	forecast("fac-detroit", "cem-i", 700)

	// Opening physical counts on day 0.
	for _, c := range []struct {
		storage string
		fac     string
		qty     float64
	}{
		{"alp-dome", "fac-alpena", 22000},
		{"alp-silo1", "fac-alpena", 8000},
		{"alp-silo2", "fac-alpena", 3500},
		{"dun-dome", "fac-dundee", 9000},
		{"dun-silo1", "fac-dundee", 2500},
		{"det-silo1", "fac-detroit", 4000},
	} {
		snap.Data.Actuals.InventoryBOD = append(snap.Data.Actuals.InventoryBOD, refdata.InventoryCount{
			Date: day(0), FacilityID: c.fac, StorageID: c.storage, Qty: c.qty,
		})
	}

	// Weekly clinker barge to the grinding station and cement rail to the
	// terminal.
	for i := 0; i < cfg.Days; i += 7 {
		snap.Data.Actuals.Transfers = append(snap.Data.Actuals.Transfers,
			refdata.Transfer{Date: day(i), FromFacilityID: "fac-alpena", ToFacilityID: "fac-dundee", ProductID: "clk", Qty: 5000, Notes: "weekly barge"},
			refdata.Transfer{Date: day(i), FromFacilityID: "fac-alpena", ToFacilityID: "fac-detroit", ProductID: "cem-i", Qty: 3000, Notes: "rail"},
		)
	}

	return snap
}

// Save writes the snapshot next to whatever the server is configured to load.
func Save(outDir string, snap *refdata.Snapshot) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(outDir, "snapshot.json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return path, nil
}
