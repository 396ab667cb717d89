package mcp

import (
	"context"
	"encoding/json"

	"marketingminer-mcp/server/internal/jsonrpc"
	"marketingminer-mcp/server/internal/modules"

	"go.uber.org/zap"
)

const (
	protocolVersion = "2025-03-26"
	serverName      = "marketing-miner"
	serverVersion   = "0.1.0"
)

// Handler routes MCP JSON-RPC methods. It is transport-agnostic: both the
// HTTP transport and the stdio loop feed requests into ProcessRequest.
type Handler struct {
	log *zap.Logger
}

func NewHandler(log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{log: log}
}

// ProcessRequest routes a JSON-RPC request to the appropriate handler.
func (h *Handler) ProcessRequest(ctx context.Context, req *jsonrpc.Request) (interface{}, *jsonrpc.Error) {
	switch req.Method {
	case "initialize":
		return h.handleInitialize(req), nil
	case "initialized", "notifications/initialized":
		return nil, nil
	case "ping":
		return struct{}{}, nil
	case "tools/list":
		return &ToolsListResult{Tools: modules.AllTools()}, nil
	case "tools/call":
		return h.handleToolCall(ctx, req)
	case "resources/list":
		return &ResourcesListResult{Resources: []modules.Resource{}}, nil
	default:
		return nil, &jsonrpc.Error{Code: jsonrpc.MethodNotFound, Message: "Method not found"}
	}
}

func (h *Handler) handleInitialize(req *jsonrpc.Request) *InitializeResult {
	return &InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{},
			Resources: &ResourcesCapability{},
		},
		ServerInfo: ServerInfo{
			Name:    serverName,
			Version: serverVersion,
		},
	}
}

func (h *Handler) handleToolCall(ctx context.Context, req *jsonrpc.Request) (*ToolCallResult, *jsonrpc.Error) {
	paramsBytes, err := json.Marshal(req.Params)
	if err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "Invalid params"}
	}

	var params ToolCallParams
	if err := json.Unmarshal(paramsBytes, &params); err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "Invalid params structure"}
	}

	if params.Name == "" {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: "name is required"}
	}

	h.log.Debug("tool call", zap.String("tool", params.Name))

	result, err := modules.Run(ctx, params.Name, params.Arguments)
	if err != nil {
		return nil, &jsonrpc.Error{Code: jsonrpc.InvalidParams, Message: err.Error()}
	}

	return result, nil
}
