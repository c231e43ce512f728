package mcp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rollplan-mcp/internal/config"
	"rollplan-mcp/internal/refdata"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	snap := &refdata.Snapshot{
		Version: 1,
		Org: refdata.Org{
			Countries:  []refdata.Country{{ID: "us", Name: "United States", Code: "US"}},
			Regions:    []refdata.Region{{ID: "r-east", CountryID: "us", Name: "East", Code: "E"}},
			SubRegions: []refdata.SubRegion{{ID: "sr-ne", RegionID: "r-east", Name: "Northeast", Code: "NE"}},
			Facilities: []refdata.Facility{
				{ID: "fac-alpha", SubRegionID: "sr-ne", Name: "Alpha Plant", Code: "ALP", Type: refdata.FacilityCementPlant},
				{ID: "fac-bravo", SubRegionID: "sr-ne", Name: "Bravo Terminal", Code: "BRV", Type: refdata.FacilityTerminal},
			},
		},
		Families: []refdata.ProductFamily{
			{ID: "fam-clnk", Code: "CLNK", Label: "Clinker"},
			{ID: "fam-cem", Code: "CEM", Label: "Grey Cement"},
		},
		Catalog: []refdata.Product{
			{ID: "clk", FamilyID: "fam-clnk", Name: "Clinker", Category: refdata.CategoryIntermediate},
			{ID: "cem-i", RegionID: "r-east", FamilyID: "fam-cem", Name: "Cement Type I", Category: refdata.CategoryFinished},
		},
		Data: refdata.Dataset{
			Equipment: []refdata.Equipment{
				{ID: "k1", FacilityID: "fac-alpha", Name: "Kiln 1", Type: refdata.EquipmentKiln},
				{ID: "fm1", FacilityID: "fac-alpha", Name: "Finish Mill 1", Type: refdata.EquipmentFinishMill},
			},
			Capabilities: []refdata.Capability{
				{ID: "c1", EquipmentID: "k1", ProductID: "clk", MaxRate: 2500},
				{ID: "c2", EquipmentID: "fm1", ProductID: "cem-i", MaxRate: 2000},
			},
			Storages: []refdata.Storage{
				{ID: "st-clk", FacilityID: "fac-alpha", Name: "Clinker Dome", AllowedProductIDs: []string{"clk"}, MaxCapacity: 10000},
				{ID: "st-cem", FacilityID: "fac-alpha", Name: "Cement Silo 1", AllowedProductIDs: []string{"cem-i"}, MaxCapacity: 5000},
				{ID: "st-brv", FacilityID: "fac-bravo", Name: "Terminal Silo", AllowedProductIDs: []string{"cem-i"}, MaxCapacity: 3000},
			},
			Recipes: []refdata.Recipe{
				{ID: "rec-1", FacilityID: "fac-alpha", ProductID: "cem-i", Version: 1, Components: []refdata.RecipeComponent{
					{ProductID: "clk", Pct: 95},
				}},
			},
			FacilityProducts: []refdata.FacilityProduct{
				{FacilityID: "fac-alpha", ProductID: "cem-i"},
				{FacilityID: "fac-alpha", ProductID: "clk"},
				{FacilityID: "fac-bravo", ProductID: "cem-i"},
			},
			Campaigns: []refdata.Campaign{
				{Date: "2026-03-02", FacilityID: "fac-alpha", EquipmentID: "fm1", ProductID: "cem-i", Rate: 1800, Status: refdata.StatusProduce},
			},
			Actuals: refdata.Actuals{
				InventoryBOD: []refdata.InventoryCount{
					{Date: "2026-03-02", FacilityID: "fac-alpha", StorageID: "st-clk", Qty: 1000},
					{Date: "2026-03-02", FacilityID: "fac-alpha", StorageID: "st-cem", Qty: 4900},
				},
			},
		},
	}

	store := refdata.NewStore()
	store.Replace(snap)
	cfg := &config.AppConfig{
		HorizonDays: 7,
		ExportDir:   t.TempDir(),
	}
	return NewServer(store, cfg)
}

func TestFindFacilitiesFiltersByNameAndCode(t *testing.T) {
	s := testServer(t)

	res, err := s.handleFindFacilities("")
	if err != nil {
		t.Fatalf("handleFindFacilities failed: %v", err)
	}
	m := res.(map[string]interface{})
	if m["total"].(int) != 2 {
		t.Errorf("Expected 2 facilities without a query, got %v", m["total"])
	}

	res, err = s.handleFindFacilities("brv")
	if err != nil {
		t.Fatalf("handleFindFacilities failed: %v", err)
	}
	m = res.(map[string]interface{})
	if m["total"].(int) != 1 {
		t.Fatalf("Expected 1 hit for code query, got %v", m["total"])
	}

	res, _ = s.handleFindFacilities("ALPHA")
	if res.(map[string]interface{})["total"].(int) != 1 {
		t.Error("Expected the name match to be case-insensitive")
	}
}

func TestGetFacilityDetails(t *testing.T) {
	s := testServer(t)

	if _, err := s.handleGetFacilityDetails("fac-nope"); err == nil {
		t.Error("Expected an error for an unknown facility")
	}

	res, err := s.handleGetFacilityDetails("fac-alpha")
	if err != nil {
		t.Fatalf("handleGetFacilityDetails failed: %v", err)
	}
	m := res.(map[string]interface{})
	if storages := m["storages"].([]refdata.Storage); len(storages) != 2 {
		t.Errorf("Expected 2 storages, got %d", len(storages))
	}
	if recipes := m["recipes"].([]refdata.Recipe); len(recipes) != 1 {
		t.Errorf("Expected 1 recipe, got %d", len(recipes))
	}
	activated := m["activatedProducts"].([]string)
	if len(activated) != 2 || activated[0] != "cem-i" || activated[1] != "clk" {
		t.Errorf("Expected sorted activated products [cem-i clk], got %v", activated)
	}
}

func TestRunProductionPlanDefaults(t *testing.T) {
	s := testServer(t)

	res, err := s.handleRunProductionPlan(map[string]interface{}{
		"start_date": "2026-03-02",
	})
	if err != nil {
		t.Fatalf("handleRunProductionPlan failed: %v", err)
	}
	m := res.(map[string]interface{})
	if m["plan"] == nil {
		t.Fatal("Expected a plan in the result")
	}
	if _, ok := m["charts"]; ok {
		t.Error("Charts should be absent when mermaid output is disabled")
	}

	s.cfg.EnableMermaidCharts = true
	res, err = s.handleRunProductionPlan(map[string]interface{}{"start_date": "2026-03-02", "days": float64(3)})
	if err != nil {
		t.Fatalf("handleRunProductionPlan failed: %v", err)
	}
	if res.(map[string]interface{})["charts"] == nil {
		t.Error("Expected charts when mermaid output is enabled")
	}
}

func TestGetPlanAlertsCounts(t *testing.T) {
	s := testServer(t)

	// Mill output is capped by silo headroom and can never overflow on its
	// own; an inbound transfer is uncapped and overflows the terminal silo.
	if _, err := s.handleSaveTransfer(map[string]interface{}{
		"date":             "2026-03-02",
		"from_facility_id": "fac-alpha",
		"to_facility_id":   "fac-bravo",
		"product_id":       "cem-i",
		"qty_stn":          float64(3500),
	}); err != nil {
		t.Fatalf("handleSaveTransfer failed: %v", err)
	}

	res, err := s.handleGetPlanAlerts(map[string]interface{}{
		"start_date": "2026-03-02",
		"days":       float64(2),
	})
	if err != nil {
		t.Fatalf("handleGetPlanAlerts failed: %v", err)
	}
	m := res.(map[string]interface{})
	counts := m["counts"].(map[string]int)
	if counts["full"] == 0 {
		t.Errorf("Expected a silo-full alert at the terminal, got counts %v", counts)
	}
}

func TestSaveCampaignBlockPersists(t *testing.T) {
	s := testServer(t)
	s.cfg.SnapshotPath = filepath.Join(t.TempDir(), "snapshot.json")

	res, err := s.handleSaveCampaignBlock(map[string]interface{}{
		"facility_id":  "fac-alpha",
		"equipment_id": "k1",
		"product_id":   "clk",
		"start_date":   "2026-03-02",
		"end_date":     "2026-03-04",
		"rate_stn":     float64(2000),
		"status":       "produce",
	})
	if err != nil {
		t.Fatalf("handleSaveCampaignBlock failed: %v", err)
	}
	if res.(map[string]interface{})["saved"] != true {
		t.Error("Expected saved:true")
	}

	kilnDays := 0
	for _, c := range s.store.Snapshot().Data.Campaigns {
		if c.EquipmentID == "k1" {
			kilnDays++
		}
	}
	if kilnDays != 3 {
		t.Errorf("Expected 3 kiln campaign days, got %d", kilnDays)
	}

	data, err := os.ReadFile(s.cfg.SnapshotPath)
	if err != nil {
		t.Fatalf("Expected the snapshot to be written after the mutation: %v", err)
	}
	var snap refdata.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Persisted snapshot does not parse: %v", err)
	}
}

func TestSaveDailyActualsDecodesRows(t *testing.T) {
	s := testServer(t)

	res, err := s.handleSaveDailyActuals(map[string]interface{}{
		"date":        "2026-03-02",
		"facility_id": "fac-alpha",
		"inventory": []interface{}{
			map[string]interface{}{"storageId": "st-clk", "qtyStn": float64(1200)},
		},
		"production": []interface{}{
			map[string]interface{}{"equipmentId": "fm1", "productId": "cem-i", "qtyStn": float64(900)},
		},
	})
	if err != nil {
		t.Fatalf("handleSaveDailyActuals failed: %v", err)
	}
	m := res.(map[string]interface{})
	if m["inventory"].(int) != 1 || m["production"].(int) != 1 {
		t.Errorf("Unexpected row counts in result: %v", m)
	}

	snap := s.store.Snapshot()
	found := false
	for _, r := range snap.Data.Actuals.Production {
		if r.EquipmentID == "fm1" && r.Qty == 900 {
			found = true
		}
	}
	if !found {
		t.Error("Expected the production actual to land in the store")
	}
}

func TestSaveTransferAndDelete(t *testing.T) {
	s := testServer(t)

	args := map[string]interface{}{
		"date":             "2026-03-02",
		"from_facility_id": "fac-alpha",
		"to_facility_id":   "fac-bravo",
		"product_id":       "cem-i",
		"qty_stn":          float64(100),
	}
	if _, err := s.handleSaveTransfer(args); err != nil {
		t.Fatalf("handleSaveTransfer failed: %v", err)
	}
	if len(s.store.Snapshot().Data.Actuals.Transfers) != 1 {
		t.Fatal("Expected 1 transfer after save")
	}

	args["delete"] = true
	res, err := s.handleSaveTransfer(args)
	if err != nil {
		t.Fatalf("handleSaveTransfer delete failed: %v", err)
	}
	if res.(map[string]interface{})["deleted"] != true {
		t.Error("Expected deleted:true")
	}
	if len(s.store.Snapshot().Data.Actuals.Transfers) != 0 {
		t.Error("Expected the transfer to be removed")
	}
}

func TestSaveDemandForecast(t *testing.T) {
	s := testServer(t)

	_, err := s.handleSaveDemandForecast(map[string]interface{}{
		"facility_id": "fac-alpha",
		"rows": []interface{}{
			map[string]interface{}{"date": "2026-03-02", "productId": "cem-i", "qtyStn": float64(300)},
			map[string]interface{}{"date": "2026-03-03", "productId": "cem-i", "qtyStn": float64(350)},
		},
	})
	if err != nil {
		t.Fatalf("handleSaveDemandForecast failed: %v", err)
	}
	if len(s.store.Snapshot().Data.DemandForecast) != 2 {
		t.Errorf("Expected 2 forecast rows, got %d", len(s.store.Snapshot().Data.DemandForecast))
	}
}

func TestExportPlanXLSXDefaultFilename(t *testing.T) {
	s := testServer(t)

	res, err := s.handleExportPlanXLSX(map[string]interface{}{
		"start_date": "2026-03-02",
		"days":       float64(2),
	})
	if err != nil {
		t.Fatalf("handleExportPlanXLSX failed: %v", err)
	}
	path := res.(map[string]interface{})["path"].(string)
	if filepath.Base(path) != "plan_2026-03-02_2d.xlsx" {
		t.Errorf("Unexpected default filename %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected the workbook on disk: %v", err)
	}
}

func TestCallToolDispatch(t *testing.T) {
	s := testServer(t)

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "find_facilities",
		"arguments": map[string]interface{}{"query": "alpha"},
	})
	res, errRes := s.callTool(params)
	if errRes != nil {
		t.Fatalf("callTool returned error: %v", errRes)
	}
	content := res.(map[string]interface{})["content"].([]interface{})
	if len(content) != 1 {
		t.Fatalf("Expected 1 content item, got %d", len(content))
	}
	item := content[0].(map[string]interface{})
	if item["type"] != "text" || !strings.Contains(item["text"].(string), "Alpha Plant") {
		t.Errorf("Unexpected content item %v", item)
	}

	params, _ = json.Marshal(map[string]interface{}{"name": "no_such_tool"})
	if _, errRes := s.callTool(params); errRes == nil {
		t.Error("Expected an error for an unknown tool")
	}

	params, _ = json.Marshal(map[string]interface{}{
		"name":      "get_facility_details",
		"arguments": map[string]interface{}{"facility_id": "fac-nope"},
	})
	_, errRes = s.callTool(params)
	if errRes == nil {
		t.Fatal("Expected a tool error for an unknown facility")
	}
	if code := errRes.(map[string]interface{})["code"].(int); code != -32000 {
		t.Errorf("Expected error code -32000, got %d", code)
	}
}

func TestListToolsCoversEveryDispatchCase(t *testing.T) {
	s := testServer(t)

	res := s.listTools().(map[string]interface{})
	tools := res["tools"].([]interface{})

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool.(map[string]interface{})["name"].(string)] = true
	}
	for _, want := range []string{
		"find_facilities", "get_facility_details", "run_production_plan",
		"get_plan_alerts", "save_campaign_block", "save_daily_actuals",
		"save_transfer", "save_demand_forecast", "export_plan_xlsx",
	} {
		if !names[want] {
			t.Errorf("Tool %s missing from tools/list", want)
		}
	}
}
