package mcp

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name":        "find_facilities",
				"description": "Search the facility network by name or code. Returns facilities with their sub-region, region and type. Guidance: use the returned facility IDs for 'run_production_plan' and the write tools.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"query": map[string]interface{}{"type": "string", "description": "Facility name or code fragment; empty returns everything"},
					},
				},
			},
			map[string]interface{}{
				"name":        "get_facility_details",
				"description": "Get the full configuration of one facility: equipment with per-product capabilities, storages with capacities and allowed products, activated products and recipe versions.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"facility_id": map[string]interface{}{"type": "string", "description": "The facility ID"},
					},
					"required": []string{"facility_id"},
				},
			},
			map[string]interface{}{
				"name": "run_production_plan",
				"description": "Run the day-by-day production and inventory simulation and return the full plan: inventory BOD/EOD per storage, production per equipment, shipments, transfers, per-cell metadata and capacity/stockout alerts. \n\n" +
					"The projection is deterministic and recomputed in full on every call; recorded actuals always override planned campaigns for the same day.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"start_date":   map[string]interface{}{"type": "string", "description": "First day of the horizon (YYYY-MM-DD). Default: today"},
						"days":         map[string]interface{}{"type": "integer", "description": "Horizon length in days. Default: PLAN_HORIZON_DAYS (35)"},
						"facility_ids": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Facility, sub-region, region or country IDs. Empty: whole network"},
					},
				},
			},
			map[string]interface{}{
				"name":        "get_plan_alerts",
				"description": "Run the simulation and return only the alert summary: silo-full, stockout and high-fill warnings grouped by date. Use this for a quick health check before digging into the full plan.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"start_date":   map[string]interface{}{"type": "string", "description": "First day of the horizon (YYYY-MM-DD). Default: today"},
						"days":         map[string]interface{}{"type": "integer", "description": "Horizon length in days. Default: PLAN_HORIZON_DAYS (35)"},
						"facility_ids": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Facility or org-node IDs. Empty: whole network"},
					},
				},
			},
			map[string]interface{}{
				"name": "save_campaign_block",
				"description": "Plan an equipment campaign over an inclusive date range: one record per day, replacing whatever was planned before for that equipment. \n\n" +
					"Status 'produce' requires product_id and rate_stn; 'maintenance' and 'idle' clear them. Omitting status derives it from the other arguments.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"facility_id":  map[string]interface{}{"type": "string", "description": "The facility ID"},
						"equipment_id": map[string]interface{}{"type": "string", "description": "The kiln or finish mill ID"},
						"status":       map[string]interface{}{"type": "string", "enum": []string{"produce", "maintenance", "idle"}, "description": "Optional planned status"},
						"product_id":   map[string]interface{}{"type": "string", "description": "Product to produce (produce status only)"},
						"start_date":   map[string]interface{}{"type": "string", "description": "First day (YYYY-MM-DD)"},
						"end_date":     map[string]interface{}{"type": "string", "description": "Last day, inclusive (YYYY-MM-DD)"},
						"rate_stn":     map[string]interface{}{"type": "number", "description": "Planned daily rate in short tons"},
					},
					"required": []string{"facility_id", "equipment_id", "start_date", "end_date"},
				},
			},
			map[string]interface{}{
				"name": "save_daily_actuals",
				"description": "Record one day of operations at a facility: measured silo inventories, actual production per equipment and actual customer shipments. Replaces any previously recorded actuals for that date and facility. \n\n" +
					"A measured inventory count overrides the calculated carry-forward from that day on. A zero production actual overrides the campaign plan for that day.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"date":        map[string]interface{}{"type": "string", "description": "The operating day (YYYY-MM-DD)"},
						"facility_id": map[string]interface{}{"type": "string", "description": "The facility ID"},
						"inventory": map[string]interface{}{
							"type":        "array",
							"description": "Measured beginning-of-day quantities per storage",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"storageId": map[string]interface{}{"type": "string"},
									"qtyStn":    map[string]interface{}{"type": "number"},
								},
								"required": []string{"storageId", "qtyStn"},
							},
						},
						"production": map[string]interface{}{
							"type":        "array",
							"description": "Actual production per equipment and product",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"equipmentId": map[string]interface{}{"type": "string"},
									"productId":   map[string]interface{}{"type": "string"},
									"qtyStn":      map[string]interface{}{"type": "number"},
								},
								"required": []string{"equipmentId", "productId", "qtyStn"},
							},
						},
						"shipments": map[string]interface{}{
							"type":        "array",
							"description": "Actual customer shipments per product",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"productId": map[string]interface{}{"type": "string"},
									"qtyStn":    map[string]interface{}{"type": "number"},
								},
								"required": []string{"productId", "qtyStn"},
							},
						},
					},
					"required": []string{"date", "facility_id"},
				},
			},
			map[string]interface{}{
				"name":        "save_transfer",
				"description": "Record a plant-to-plant product movement. The quantity leaves the source facility and arrives at the destination on the same date. Saving again with the same date, endpoints and product replaces the record; pass delete=true to remove it.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"date":             map[string]interface{}{"type": "string", "description": "Movement date (YYYY-MM-DD)"},
						"from_facility_id": map[string]interface{}{"type": "string", "description": "Source facility ID"},
						"to_facility_id":   map[string]interface{}{"type": "string", "description": "Destination facility ID"},
						"product_id":       map[string]interface{}{"type": "string", "description": "Moved product ID"},
						"qty_stn":          map[string]interface{}{"type": "number", "description": "Quantity in short tons"},
						"notes":            map[string]interface{}{"type": "string", "description": "Optional free-text note"},
						"delete":           map[string]interface{}{"type": "boolean", "description": "If true, removes the matching transfer instead of saving"},
					},
					"required": []string{"date", "from_facility_id", "to_facility_id", "product_id"},
				},
			},
			map[string]interface{}{
				"name":        "save_demand_forecast",
				"description": "Upsert expected shipment quantities for a facility, keyed by date and product. Forecast rows feed the simulation wherever no actual shipment is recorded for the same date and product.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"facility_id": map[string]interface{}{"type": "string", "description": "The facility ID"},
						"rows": map[string]interface{}{
							"type": "array",
							"items": map[string]interface{}{
								"type": "object",
								"properties": map[string]interface{}{
									"date":      map[string]interface{}{"type": "string"},
									"productId": map[string]interface{}{"type": "string"},
									"qtyStn":    map[string]interface{}{"type": "number"},
								},
								"required": []string{"date", "productId", "qtyStn"},
							},
						},
					},
					"required": []string{"facility_id", "rows"},
				},
			},
			map[string]interface{}{
				"name":        "export_plan_xlsx",
				"description": "Run the simulation and write the plan to an .xlsx workbook (Plan sheet with one row per line and one column per day, plus an Alerts sheet). Returns the written file path.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"start_date":   map[string]interface{}{"type": "string", "description": "First day of the horizon (YYYY-MM-DD). Default: today"},
						"days":         map[string]interface{}{"type": "integer", "description": "Horizon length in days. Default: PLAN_HORIZON_DAYS (35)"},
						"facility_ids": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}, "description": "Facility or org-node IDs. Empty: whole network"},
						"filename":     map[string]interface{}{"type": "string", "description": "Optional output file name; default derives from the start date"},
					},
				},
			},
		},
	}
}
