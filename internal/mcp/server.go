package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"rollplan-mcp/internal/config"
	"rollplan-mcp/internal/refdata"

	"github.com/rs/zerolog/log"
)

// JSONRPCRequest represents a standard MCP/JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard MCP/JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server holds the state for the MCP server.
type Server struct {
	store *refdata.Store
	cfg   *config.AppConfig
}

// NewServer creates a new MCP server around a loaded snapshot store.
func NewServer(store *refdata.Store, cfg *config.AppConfig) *Server {
	return &Server{store: store, cfg: cfg}
}

// Serve starts the JSON-RPC loop over Stdio.
func (s *Server) Serve() error {
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "rollplan-mcp",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}

	out, _ := json.Marshal(resp)
	fmt.Fprintf(os.Stdout, "%s\n", out)
}

func (s *Server) callTool(params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}

	var data interface{}
	var err error

	switch call.Name {
	case "find_facilities":
		data, err = s.handleFindFacilities(asString(call.Arguments["query"]))
	case "get_facility_details":
		data, err = s.handleGetFacilityDetails(asString(call.Arguments["facility_id"]))
	case "run_production_plan":
		data, err = s.handleRunProductionPlan(call.Arguments)
	case "get_plan_alerts":
		data, err = s.handleGetPlanAlerts(call.Arguments)
	case "save_campaign_block":
		data, err = s.handleSaveCampaignBlock(call.Arguments)
	case "save_daily_actuals":
		data, err = s.handleSaveDailyActuals(call.Arguments)
	case "save_transfer":
		data, err = s.handleSaveTransfer(call.Arguments)
	case "save_demand_forecast":
		data, err = s.handleSaveDemandForecast(call.Arguments)
	case "export_plan_xlsx":
		data, err = s.handleExportPlanXLSX(call.Arguments)
	default:
		return nil, map[string]interface{}{"code": -32601, "message": "Tool not found"}
	}

	if err != nil {
		return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}
