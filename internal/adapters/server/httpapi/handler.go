// Package httpapi provides the REST HTTP adapter for the board core.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/farran/tavla/internal/app"
	"github.com/farran/tavla/internal/domain"
)

// maxRequestBodyBytes limits decoded JSON payload size.
const maxRequestBodyBytes int64 = 1 << 20

// BoardService is the application surface this adapter exposes.
type BoardService interface {
	AnalyzeBoard(ctx context.Context, boardID string) (app.BoardAlignment, error)
	Regenerate(ctx context.Context, boardID string, preserveWIP bool) (app.RegenerateResult, error)
	Sync(ctx context.Context, boardID string, removeOrphans bool) (app.SyncResult, error)
	ValidateMove(ctx context.Context, projectID, fromStatusID, toStatusID string) app.MoveValidation
	RouteDrop(ctx context.Context, req app.DropRequest) (app.DropResult, error)
}

// Handler serves the versioned API subrouter.
type Handler struct {
	svc    BoardService
	router chi.Router
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// NewHandler constructs the HTTP API adapter.
func NewHandler(svc BoardService) *Handler {
	h := &Handler{svc: svc}
	r := chi.NewRouter()
	r.Get("/boards/{boardID}/alignment", h.handleAlignment)
	r.Get("/boards/{boardID}/unmapped-statuses", h.handleUnmapped)
	r.Post("/boards/{boardID}/regenerate", h.handleRegenerate)
	r.Post("/boards/{boardID}/sync", h.handleSync)
	r.Post("/boards/{boardID}/drops", h.handleDrop)
	r.Post("/projects/{projectID}/moves/validate", h.handleValidateMove)
	h.router = r
	return h
}

// ServeHTTP routes one API request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// columnPayload is the wire shape of one column.
type columnPayload struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	MinIssues int      `json:"min_issues,omitempty"`
	MaxIssues int      `json:"max_issues,omitempty"`
	StatusIDs []string `json:"status_ids"`
	Warnings  []string `json:"warnings,omitempty"`
}

// statusPayload is the wire shape of one status.
type statusPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Category string `json:"category"`
}

// handleAlignment reports per-column warnings and unmapped statuses.
func (h *Handler) handleAlignment(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	report, err := h.svc.AnalyzeBoard(r.Context(), boardID)
	if err != nil {
		writeError(w, err)
		return
	}

	columns := make([]columnPayload, 0, len(report.Columns))
	for _, col := range report.Columns {
		columns = append(columns, columnPayload{
			ID:        col.ID,
			Name:      col.Name,
			Position:  col.Position,
			MinIssues: col.MinIssues,
			MaxIssues: col.MaxIssues,
			StatusIDs: col.StatusIDs,
			Warnings:  report.Warnings[col.ID],
		})
	}
	unmapped := make([]statusPayload, 0, len(report.Unmapped))
	for _, s := range report.Unmapped {
		unmapped = append(unmapped, statusPayload{
			ID:       s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Category: string(s.Category),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"board_id":          report.BoardID,
		"columns":           columns,
		"unmapped_statuses": unmapped,
	})
}

// handleUnmapped lists workflow statuses no column on the board covers.
func (h *Handler) handleUnmapped(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	report, err := h.svc.AnalyzeBoard(r.Context(), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	unmapped := make([]statusPayload, 0, len(report.Unmapped))
	for _, s := range report.Unmapped {
		unmapped = append(unmapped, statusPayload{
			ID:       s.ID,
			Name:     s.Name,
			Color:    s.Color,
			Category: string(s.Category),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"board_id":          report.BoardID,
		"unmapped_statuses": unmapped,
	})
}

// regenerateRequest is the wire shape of one regenerate call.
type regenerateRequest struct {
	PreserveWIPLimits *bool `json:"preserve_wip_limits"`
}

// handleRegenerate rebuilds a board's partition from its workflow graph.
func (h *Handler) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	var req regenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	preserve := true
	if req.PreserveWIPLimits != nil {
		preserve = *req.PreserveWIPLimits
	}

	result, err := h.svc.Regenerate(r.Context(), boardID, preserve)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"columns_created": result.ColumnsCreated,
		"columns_removed": result.ColumnsRemoved,
	})
}

// syncRequest is the wire shape of one sync call.
type syncRequest struct {
	RemoveOrphans bool `json:"remove_orphans"`
}

// handleSync incrementally reconciles a board's partition.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	var req syncRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.svc.Sync(r.Context(), boardID, req.RemoveOrphans)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"added":   result.Added,
		"removed": result.Removed,
	})
}

// validateMoveRequest is the wire shape of one move validation call.
type validateMoveRequest struct {
	FromStatusID string `json:"from_status_id"`
	ToStatusID   string `json:"to_status_id"`
}

// handleValidateMove checks one (from, to) pair against the workflow graph.
func (h *Handler) handleValidateMove(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	var req validateMoveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	validation := h.svc.ValidateMove(r.Context(), projectID, req.FromStatusID, req.ToStatusID)
	payload := map[string]any{"valid": validation.Valid}
	if validation.Reason != "" {
		payload["error"] = validation.Reason
	}
	writeJSON(w, http.StatusOK, payload)
}

// dropRequest is the wire shape of one drop call.
type dropRequest struct {
	IssueID      string `json:"issue_id"`
	ColumnID     string `json:"column_id"`
	ZoneStatusID string `json:"zone_status_id"`
}

// handleDrop resolves and commits one drag-drop.
func (h *Handler) handleDrop(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	var req dropRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.svc.RouteDrop(r.Context(), app.DropRequest{
		IssueID:      req.IssueID,
		BoardID:      boardID,
		ColumnID:     req.ColumnID,
		ZoneStatusID: req.ZoneStatusID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	payload := map[string]any{
		"issue_id":         result.IssueID,
		"from_status_id":   result.FromStatusID,
		"target_status_id": result.TargetStatusID,
		"committed":        result.Committed,
	}
	if result.Reason != "" {
		payload["reason"] = result.Reason
	}
	writeJSON(w, http.StatusOK, payload)
}

// decodeBody parses a bounded JSON request body; an empty body is allowed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "unreadable request body")
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return false
	}
	return true
}

// writeError maps application errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case app.IsNotConfigured(err):
		writeJSONError(w, http.StatusConflict, "workflow_not_configured", err.Error())
	case errors.Is(err, app.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, app.ErrBoardBusy):
		writeJSONError(w, http.StatusConflict, "board_busy", err.Error())
	case errors.Is(err, domain.ErrInvalidID), errors.Is(err, domain.ErrInvalidStatusID):
		writeJSONError(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// writeJSON writes one JSON response.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError writes one structured error response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorEnvelope{Error: APIError{Code: code, Message: message}})
}
