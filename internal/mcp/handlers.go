package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/radr/internal/config"
	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	writer  ops.DocWriter
	baseDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, writer ops.DocWriter, baseDir string) *Handlers {
	return &Handlers{db: db, cfg: cfg, writer: writer, baseDir: baseDir}
}

// Request types for each tool

// BlipCreateRequest represents the arguments for blip_create.
type BlipCreateRequest struct {
	Name        string `json:"name"`
	Quadrant    string `json:"quadrant,omitempty"`
	Ring        string `json:"ring,omitempty"`
	Tag         string `json:"tag,omitempty"`
	Description string `json:"description,omitempty"`
}

// BlipUpdateRequest represents the arguments for blip_update.
// Pointer fields distinguish "omitted" (keep) from "" (clear).
type BlipUpdateRequest struct {
	ID          int64   `json:"id"`
	Name        *string `json:"name,omitempty"`
	Quadrant    *string `json:"quadrant,omitempty"`
	Ring        *string `json:"ring,omitempty"`
	Tag         *string `json:"tag,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AdrCreateRequest represents the arguments for adr_create.
type AdrCreateRequest struct {
	Title        string `json:"title"`
	BlipName     string `json:"blip_name,omitempty"`
	Status       string `json:"status,omitempty"`
	Context      string `json:"context,omitempty"`
	Decision     string `json:"decision,omitempty"`
	Consequences string `json:"consequences,omitempty"`
	References   string `json:"references,omitempty"`
}

// AdrUpdateRequest represents the arguments for adr_update.
// Pointer fields distinguish "omitted" (keep) from an explicit value.
type AdrUpdateRequest struct {
	ID     int64   `json:"id"`
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// AdrListRequest represents the arguments for adr_list.
type AdrListRequest struct {
	BlipName string `json:"blip_name,omitempty"`
}

// ExportRequest represents the arguments for radar_export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// HandleBlipCreate handles the blip_create tool call.
func (h *Handlers) HandleBlipCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BlipCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateBlip(h.db, h.writer, ops.CreateBlipInput{
		Name:        input.Name,
		Quadrant:    input.Quadrant,
		Ring:        input.Ring,
		Tag:         input.Tag,
		Description: input.Description,
		Author:      h.cfg.ResolveAuthor(),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBlipUpdate handles the blip_update tool call.
func (h *Handlers) HandleBlipUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[BlipUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateBlip(h.db, h.writer, ops.UpdateBlipInput{
		ID:          input.ID,
		Name:        input.Name,
		Quadrant:    input.Quadrant,
		Ring:        input.Ring,
		Tag:         input.Tag,
		Description: input.Description,
		Author:      h.cfg.ResolveAuthor(),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBlipList handles the blip_list tool call.
func (h *Handlers) HandleBlipList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.ListBlips(h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleAdrCreate handles the adr_create tool call.
func (h *Handlers) HandleAdrCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AdrCreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateAdr(h.db, h.writer, ops.CreateAdrInput{
		Title:        input.Title,
		BlipName:     input.BlipName,
		Status:       input.Status,
		Context:      input.Context,
		Decision:     input.Decision,
		Consequences: input.Consequences,
		References:   input.References,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAdrUpdate handles the adr_update tool call.
func (h *Handlers) HandleAdrUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AdrUpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateAdr(h.db, h.writer, ops.UpdateAdrInput{
		ID:     input.ID,
		Title:  input.Title,
		Status: input.Status,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleAdrList handles the adr_list tool call.
func (h *Handlers) HandleAdrList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AdrListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListAdrs(h.db, ops.ListAdrsInput{BlipName: input.BlipName})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the radar_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Stats(h.db)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles the radar_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(h.db, ops.ExportInput{
		BaseDir: h.baseDir,
		Path:    input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// errorResult converts an error to an MCP error result.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rErr, ok := err.(*errors.RadrError); ok {
		errorObj := map[string]any{
			"code":    rErr.Code,
			"message": rErr.Message,
			"status":  rErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if rErr.Code != errors.ErrInternal && rErr.Details != nil {
			errorObj["details"] = rErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult converts a result to an MCP JSON result. Recoverable
// divergence (PARTIAL_WRITE, ORPHAN_ADR) rides inside the payload as a
// warning field; the call itself succeeded.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
