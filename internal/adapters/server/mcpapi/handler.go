// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/farran/tavla/internal/app"
	"github.com/farran/tavla/internal/domain"
)

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// BoardService is the application surface exposed as MCP tools.
type BoardService interface {
	AnalyzeBoard(ctx context.Context, boardID string) (app.BoardAlignment, error)
	Regenerate(ctx context.Context, boardID string, preserveWIP bool) (app.RegenerateResult, error)
	Sync(ctx context.Context, boardID string, removeOrphans bool) (app.SyncResult, error)
	ValidateMove(ctx context.Context, projectID, fromStatusID, toStatusID string) app.MoveValidation
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing board alignment tools.
func NewHandler(cfg Config, svc BoardService) (*Handler, error) {
	if svc == nil {
		return nil, fmt.Errorf("board service is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerAnalyzeBoardTool(mcpSrv, svc)
	registerSyncBoardTool(mcpSrv, svc)
	registerRegenerateBoardTool(mcpSrv, svc)
	registerValidateMoveTool(mcpSrv, svc)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tavla"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// registerAnalyzeBoardTool registers the `tavla.analyze_board` tool.
func registerAnalyzeBoardTool(srv *mcpserver.MCPServer, svc BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"tavla.analyze_board",
			mcp.WithDescription("Report per-column alignment warnings and unmapped workflow statuses for one board."),
			mcp.WithString("board_id", mcp.Required(), mcp.Description("Board identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			boardID, err := req.RequireString("board_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			report, err := svc.AnalyzeBoard(ctx, boardID)
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(alignmentPayload(report))
			if err != nil {
				return nil, fmt.Errorf("encode analyze_board result: %w", err)
			}
			return result, nil
		},
	)
}

// registerSyncBoardTool registers the `tavla.sync_board` tool.
func registerSyncBoardTool(srv *mcpserver.MCPServer, svc BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"tavla.sync_board",
			mcp.WithDescription("Incrementally add columns for workflow statuses the board does not cover yet."),
			mcp.WithString("board_id", mcp.Required(), mcp.Description("Board identifier")),
			mcp.WithBoolean("remove_orphans", mcp.Description("Also remove columns whose statuses left the workflow")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			boardID, err := req.RequireString("board_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			res, err := svc.Sync(ctx, boardID, req.GetBool("remove_orphans", false))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]int{
				"added":   res.Added,
				"removed": res.Removed,
			})
			if err != nil {
				return nil, fmt.Errorf("encode sync_board result: %w", err)
			}
			return result, nil
		},
	)
}

// registerRegenerateBoardTool registers the `tavla.regenerate_board` tool.
func registerRegenerateBoardTool(srv *mcpserver.MCPServer, svc BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"tavla.regenerate_board",
			mcp.WithDescription("Replace a board's columns with one column per workflow status, in workflow order."),
			mcp.WithString("board_id", mcp.Required(), mcp.Description("Board identifier")),
			mcp.WithBoolean("preserve_wip_limits", mcp.Description("Carry WIP limits from same-named existing columns (default true)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			boardID, err := req.RequireString("board_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			res, err := svc.Regenerate(ctx, boardID, req.GetBool("preserve_wip_limits", true))
			if err != nil {
				return toolResultFromError(err), nil
			}
			result, err := mcp.NewToolResultJSON(map[string]int{
				"columns_created": res.ColumnsCreated,
				"columns_removed": res.ColumnsRemoved,
			})
			if err != nil {
				return nil, fmt.Errorf("encode regenerate_board result: %w", err)
			}
			return result, nil
		},
	)
}

// registerValidateMoveTool registers the `tavla.validate_move` tool.
func registerValidateMoveTool(srv *mcpserver.MCPServer, svc BoardService) {
	srv.AddTool(
		mcp.NewTool(
			"tavla.validate_move",
			mcp.WithDescription("Check whether the project workflow allows a direct transition between two statuses."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project identifier")),
			mcp.WithString("from_status_id", mcp.Required(), mcp.Description("Current status identifier")),
			mcp.WithString("to_status_id", mcp.Required(), mcp.Description("Target status identifier")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			projectID, err := req.RequireString("project_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			from, err := req.RequireString("from_status_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			to, err := req.RequireString("to_status_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			validation := svc.ValidateMove(ctx, projectID, from, to)
			payload := map[string]any{"valid": validation.Valid}
			if validation.Reason != "" {
				payload["error"] = validation.Reason
			}
			result, err := mcp.NewToolResultJSON(payload)
			if err != nil {
				return nil, fmt.Errorf("encode validate_move result: %w", err)
			}
			return result, nil
		},
	)
}

// alignmentPayload shapes one board report for tool output.
func alignmentPayload(report app.BoardAlignment) map[string]any {
	columns := make([]map[string]any, 0, len(report.Columns))
	for _, col := range report.Columns {
		entry := map[string]any{
			"id":         col.ID,
			"name":       col.Name,
			"position":   col.Position,
			"status_ids": col.StatusIDs,
		}
		if warnings := report.Warnings[col.ID]; len(warnings) > 0 {
			entry["warnings"] = warnings
		}
		columns = append(columns, entry)
	}
	unmapped := make([]map[string]any, 0, len(report.Unmapped))
	for _, s := range report.Unmapped {
		unmapped = append(unmapped, map[string]any{
			"id":       s.ID,
			"name":     s.Name,
			"category": string(s.Category),
		})
	}
	return map[string]any{
		"board_id":          report.BoardID,
		"columns":           columns,
		"unmapped_statuses": unmapped,
	}
}

// toolResultFromError maps application errors onto structured tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case app.IsNotConfigured(err):
		return mcp.NewToolResultError("workflow_not_configured: " + err.Error())
	case errors.Is(err, app.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, app.ErrBoardBusy):
		return mcp.NewToolResultError("board_busy: " + err.Error())
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidStatusID):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
