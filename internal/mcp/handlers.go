package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rollplan-mcp/internal/export"
	"rollplan-mcp/internal/plan"
	"rollplan-mcp/internal/refdata"
	"rollplan-mcp/internal/visuals"

	"github.com/rs/zerolog/log"
)

func (s *Server) handleFindFacilities(query string) (interface{}, error) {
	snap := s.store.Snapshot()
	q := strings.ToLower(strings.TrimSpace(query))

	type facilityHit struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Code      string `json:"code"`
		Type      string `json:"facilityType"`
		SubRegion string `json:"subRegion,omitempty"`
		Region    string `json:"region,omitempty"`
	}

	subRegionName := make(map[string]string)
	regionBySubRegion := make(map[string]string)
	regionName := make(map[string]string)
	for _, r := range snap.Org.Regions {
		regionName[r.ID] = r.Name
	}
	for _, sr := range snap.Org.SubRegions {
		subRegionName[sr.ID] = sr.Name
		regionBySubRegion[sr.ID] = regionName[sr.RegionID]
	}

	var hits []facilityHit
	for _, f := range snap.Org.Facilities {
		if q != "" && !strings.Contains(strings.ToLower(f.Name), q) && !strings.Contains(strings.ToLower(f.Code), q) {
			continue
		}
		hits = append(hits, facilityHit{
			ID: f.ID, Name: f.Name, Code: f.Code, Type: string(f.Type),
			SubRegion: subRegionName[f.SubRegionID],
			Region:    regionBySubRegion[f.SubRegionID],
		})
	}

	return map[string]interface{}{
		"facilities": hits,
		"total":      len(hits),
	}, nil
}

func (s *Server) handleGetFacilityDetails(facilityID string) (interface{}, error) {
	snap := s.store.Snapshot()
	fac := snap.Facility(facilityID)
	if fac == nil {
		return nil, fmt.Errorf("unknown facility %q", facilityID)
	}

	type equipmentDetail struct {
		refdata.Equipment
		Capabilities []refdata.Capability `json:"capabilities"`
	}
	var equipment []equipmentDetail
	for _, eq := range snap.FacilityEquipment(facilityID, "") {
		equipment = append(equipment, equipmentDetail{
			Equipment:    eq,
			Capabilities: snap.CapsForEquipment(eq.ID),
		})
	}

	var recipes []refdata.Recipe
	for _, r := range snap.Data.Recipes {
		if r.FacilityID == facilityID {
			recipes = append(recipes, r)
		}
	}

	activated := make([]string, 0)
	for id := range snap.ActivatedProductIDs(facilityID) {
		activated = append(activated, id)
	}
	sort.Strings(activated)

	return map[string]interface{}{
		"facility":          fac,
		"equipment":         equipment,
		"storages":          snap.FacilityStorages(facilityID),
		"recipes":           recipes,
		"activatedProducts": activated,
	}, nil
}

// planRequest resolves the shared horizon arguments of the read tools.
func (s *Server) planRequest(args map[string]interface{}) plan.Request {
	startDate := asString(args["start_date"])
	if startDate == "" {
		startDate = time.Now().Format("2006-01-02")
	}
	days := asInt(args["days"])
	if days <= 0 {
		days = s.cfg.HorizonDays
	}
	return plan.Request{
		StartDate:   startDate,
		Days:        days,
		FacilityIDs: asStringSlice(args["facility_ids"]),
	}
}

func (s *Server) handleRunProductionPlan(args map[string]interface{}) (interface{}, error) {
	req := s.planRequest(args)
	view, err := plan.BuildView(context.Background(), s.store.Snapshot(), req)
	if err != nil {
		return nil, err
	}

	log.Info().Str("startDate", req.StartDate).Int("days", req.Days).
		Int("facilities", len(view.FacilityIDs)).
		Msg("Production plan computed")

	result := map[string]interface{}{"plan": view}
	if s.cfg.EnableMermaidCharts {
		result["charts"] = map[string]interface{}{
			"inventory": visuals.InventoryProjectionChart(view),
			"alerts":    visuals.AlertSeverityPie(view),
		}
	}
	return result, nil
}

func (s *Server) handleGetPlanAlerts(args map[string]interface{}) (interface{}, error) {
	req := s.planRequest(args)
	view, err := plan.BuildView(context.Background(), s.store.Snapshot(), req)
	if err != nil {
		return nil, err
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

	return map[string]interface{}{
		"dates":        view.Dates,
		"alertSummary": view.AlertSummary,
		"counts": map[string]int{
			"full":     full,
			"stockout": stockout,
			"warnOnly": warnOnly,
		},
		"warnings": view.Warnings,
	}, nil
}

func (s *Server) handleSaveCampaignBlock(args map[string]interface{}) (interface{}, error) {
	err := s.store.SaveCampaignBlock(
		asString(args["facility_id"]),
		asString(args["equipment_id"]),
		refdata.CampaignStatus(asString(args["status"])),
		asString(args["product_id"]),
		asString(args["start_date"]),
		asString(args["end_date"]),
		asFloat(args["rate_stn"]),
	)
	if err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"saved":     true,
		"startDate": asString(args["start_date"]),
		"endDate":   asString(args["end_date"]),
	}, nil
}

func (s *Server) handleSaveDailyActuals(args map[string]interface{}) (interface{}, error) {
	var inventory []refdata.InventoryCount
	var production []refdata.ProductionActual
	var shipments []refdata.ShipmentActual
	if err := decodeArg(args["inventory"], &inventory); err != nil {
		return nil, fmt.Errorf("invalid inventory rows: %w", err)
	}
	if err := decodeArg(args["production"], &production); err != nil {
		return nil, fmt.Errorf("invalid production rows: %w", err)
	}
	if err := decodeArg(args["shipments"], &shipments); err != nil {
		return nil, fmt.Errorf("invalid shipment rows: %w", err)
	}

	date := asString(args["date"])
	facilityID := asString(args["facility_id"])
	if err := s.store.SaveDailyActuals(date, facilityID, inventory, production, shipments); err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"saved":      true,
		"date":       date,
		"facilityId": facilityID,
		"inventory":  len(inventory),
		"production": len(production),
		"shipments":  len(shipments),
	}, nil
}

func (s *Server) handleSaveTransfer(args map[string]interface{}) (interface{}, error) {
	t := refdata.Transfer{
		Date:           asString(args["date"]),
		FromFacilityID: asString(args["from_facility_id"]),
		ToFacilityID:   asString(args["to_facility_id"]),
		ProductID:      asString(args["product_id"]),
		Qty:            asFloat(args["qty_stn"]),
		Notes:          asString(args["notes"]),
	}

	if asBool(args["delete"]) {
		s.store.DeleteTransfer(t.Date, t.FromFacilityID, t.ToFacilityID, t.ProductID)
		if err := s.persist(); err != nil {
			return nil, err
		}
		return map[string]interface{}{"deleted": true}, nil
	}

	if err := s.store.SaveTransfer(t); err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return map[string]interface{}{"saved": true, "transfer": t}, nil
}

func (s *Server) handleSaveDemandForecast(args map[string]interface{}) (interface{}, error) {
	var rows []refdata.ForecastRow
	if err := decodeArg(args["rows"], &rows); err != nil {
		return nil, fmt.Errorf("invalid forecast rows: %w", err)
	}

	facilityID := asString(args["facility_id"])
	if err := s.store.SaveDemandForecast(facilityID, rows); err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"saved":      true,
		"facilityId": facilityID,
		"rows":       len(rows),
	}, nil
}

func (s *Server) handleExportPlanXLSX(args map[string]interface{}) (interface{}, error) {
	req := s.planRequest(args)
	view, err := plan.BuildView(context.Background(), s.store.Snapshot(), req)
	if err != nil {
		return nil, err
	}

	filename := asString(args["filename"])
	if filename == "" {
		filename = fmt.Sprintf("plan_%s_%dd.xlsx", req.StartDate, req.Days)
	}
	path := filepath.Join(s.cfg.ExportDir, filename)

	if err := export.WritePlan(view, path); err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Msg("Plan exported")
	return map[string]interface{}{
		"path":  path,
		"dates": len(view.Dates),
		"rows":  len(view.Rows),
	}, nil
}

// persist writes the snapshot back to disk after a successful mutation.
func (s *Server) persist() error {
	if s.cfg == nil || s.cfg.SnapshotPath == "" {
		return nil
	}
	return s.store.Save(s.cfg.SnapshotPath)
}
