package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/radr/internal/config"
	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/docwriter"
	"github.com/hpungsan/radr/internal/errors"
)

// testSetup creates a temporary database, config, and document writer for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config, *docwriter.Writer, string) {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir, "radr.db")
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	writer := docwriter.New(filepath.Join(tmpDir, "adrs"), filepath.Join(tmpDir, "blips"))

	return database, cfg, writer, tmpDir
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// TestHandleBlipCreate tests the blip_create handler.
func TestHandleBlipCreate(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "create classified blip",
			args: map[string]any{
				"name":     "Rust",
				"quadrant": "languages",
				"ring":     "trial",
				"tag":      "backend",
			},
			wantError: false,
		},
		{
			name: "create unclassified blip",
			args: map[string]any{
				"name": "Kafka",
			},
			wantError: false,
		},
		{
			name:      "create without name",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "create with unknown ring",
			args: map[string]any{
				"name": "Zig",
				"ring": "maybe",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "create duplicate name",
			args: map[string]any{
				"name": "Rust", // already exists from first test
			},
			wantError: true,
			errorCode: "DUPLICATE_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleBlipCreate(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}
}

// TestHandleBlipUpdate tests the blip_update handler, including the
// omitted-vs-empty distinction on optional fields.
func TestHandleBlipUpdate(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	// Create a blip first
	createReq := makeRequest(map[string]any{
		"name":     "Rust",
		"quadrant": "languages",
		"ring":     "trial",
		"tag":      "backend",
	})
	createResult, _ := h.HandleBlipCreate(ctx, createReq)
	if createResult.IsError {
		t.Fatalf("setup create failed: %v", extractErrorMessage(createResult))
	}
	output := parseOutput(t, createResult)
	blipID := int64(output["id"].(float64))

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "promote ring",
			args: map[string]any{
				"id":   blipID,
				"ring": "adopt",
			},
			wantError: false,
		},
		{
			name: "clear tag with empty string",
			args: map[string]any{
				"id":  blipID,
				"tag": "",
			},
			wantError: false,
		},
		{
			name: "update with no fields",
			args: map[string]any{
				"id": blipID,
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "update unknown id",
			args: map[string]any{
				"id":   int64(9999),
				"ring": "hold",
			},
			wantError: true,
			errorCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleBlipUpdate(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}

	// After the table: the tag cleared above must come back null.
	listResult, err := h.HandleBlipList(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("list handler returned error: %v", err)
	}
	listOutput := parseOutput(t, listResult)
	items := listOutput["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("got %d blips, want 1", len(items))
	}
	item := items[0].(map[string]any)
	if item["tag"] != nil {
		t.Errorf("tag = %v, want cleared", item["tag"])
	}
	if item["ring"] != "adopt" {
		t.Errorf("ring = %v, want adopt", item["ring"])
	}
}

// TestHandleAdrCreate tests the adr_create handler.
func TestHandleAdrCreate(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	createReq := makeRequest(map[string]any{"name": "Rust"})
	if result, _ := h.HandleBlipCreate(ctx, createReq); result.IsError {
		t.Fatalf("setup create failed: %v", extractErrorMessage(result))
	}

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "record decision against existing blip",
			args: map[string]any{
				"title":     "Adopt Rust for services",
				"blip_name": "Rust",
				"status":    "accepted",
				"context":   "Go services hit GC latency ceilings.",
				"decision":  "New latency-sensitive services use Rust.",
			},
			wantError: false,
		},
		{
			name: "record decision against missing blip succeeds with warning",
			args: map[string]any{
				"title":     "Adopt Nothing",
				"blip_name": "NoSuchBlip",
			},
			wantError: false,
		},
		{
			name: "duplicate title on the same day",
			args: map[string]any{
				"title":     "Adopt Rust for services",
				"blip_name": "Rust",
			},
			wantError: true,
			errorCode: "DUPLICATE_ADR",
		},
		{
			name: "unknown status",
			args: map[string]any{
				"title":     "Another decision",
				"blip_name": "Rust",
				"status":    "shipped",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleAdrCreate(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}
}

// TestHandleAdrCreate_OrphanWarningInPayload verifies that an orphan ADR is a
// successful call whose payload carries the warning.
func TestHandleAdrCreate_OrphanWarningInPayload(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	req := makeRequest(map[string]any{
		"title":     "Adopt Nothing",
		"blip_name": "NoSuchBlip",
	})
	result, err := h.HandleAdrCreate(ctx, req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("orphan ADR should succeed, got error: %v", extractErrorMessage(result))
	}

	output := parseOutput(t, result)
	warning, ok := output["warning"].(map[string]any)
	if !ok {
		t.Fatal("payload should carry a warning object")
	}
	if warning["code"] != "ORPHAN_ADR" {
		t.Errorf("warning code = %v, want ORPHAN_ADR", warning["code"])
	}
	if output["blip_id"] != nil {
		t.Errorf("blip_id = %v, want null for an orphan", output["blip_id"])
	}
}

// TestHandleAdrUpdate tests the adr_update handler.
func TestHandleAdrUpdate(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	if result, _ := h.HandleBlipCreate(ctx, makeRequest(map[string]any{"name": "Rust"})); result.IsError {
		t.Fatalf("setup create failed: %v", extractErrorMessage(result))
	}
	createResult, _ := h.HandleAdrCreate(ctx, makeRequest(map[string]any{
		"title": "Adopt Rust", "blip_name": "Rust",
	}))
	if createResult.IsError {
		t.Fatalf("setup adr failed: %v", extractErrorMessage(createResult))
	}
	adrID := int64(parseOutput(t, createResult)["id"].(float64))

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "promote status",
			args: map[string]any{
				"id":     adrID,
				"status": "accepted",
			},
			wantError: false,
		},
		{
			name: "rename decision",
			args: map[string]any{
				"id":    adrID,
				"title": "Adopt Rust for services",
			},
			wantError: false,
		},
		{
			name: "unknown status",
			args: map[string]any{
				"id":     adrID,
				"status": "shipped",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "unknown id",
			args: map[string]any{
				"id":     int64(9999),
				"status": "accepted",
			},
			wantError: true,
			errorCode: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := makeRequest(tt.args)
			result, err := h.HandleAdrUpdate(ctx, req)

			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else {
				if result.IsError {
					t.Errorf("expected success, got error: %v", extractErrorMessage(result))
				}
			}
		})
	}

	// After the table: both edits stuck.
	listResult, err := h.HandleAdrList(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("list handler returned error: %v", err)
	}
	items := parseOutput(t, listResult)["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("got %d entries, want 1", len(items))
	}
	item := items[0].(map[string]any)
	if item["title"] != "Adopt Rust for services" {
		t.Errorf("title = %v, want renamed", item["title"])
	}
	if item["status"] != "accepted" {
		t.Errorf("status = %v, want accepted", item["status"])
	}
}

// TestHandleAdrUpdate_RelinksOrphan verifies the repair path: an ADR recorded
// before its blip gets linked by a later update once the blip exists.
func TestHandleAdrUpdate_RelinksOrphan(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	createResult, _ := h.HandleAdrCreate(ctx, makeRequest(map[string]any{
		"title": "Adopt Rust", "blip_name": "Rust",
	}))
	created := parseOutput(t, createResult)
	if created["warning"] == nil {
		t.Fatal("ADR without a blip should carry an ORPHAN_ADR warning")
	}
	adrID := int64(created["id"].(float64))

	if result, _ := h.HandleBlipCreate(ctx, makeRequest(map[string]any{"name": "Rust"})); result.IsError {
		t.Fatalf("blip create failed: %v", extractErrorMessage(result))
	}

	result, err := h.HandleAdrUpdate(ctx, makeRequest(map[string]any{"id": adrID}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)
	if output["warning"] != nil {
		t.Errorf("warning = %v, want none after re-linking", output["warning"])
	}
	if output["blip_id"] == nil {
		t.Fatal("blip_id should be set after re-linking")
	}

	listResult, _ := h.HandleBlipList(ctx, makeRequest(map[string]any{}))
	items := parseOutput(t, listResult)["items"].([]any)
	item := items[0].(map[string]any)
	if item["has_adr"] != true {
		t.Errorf("has_adr = %v, want true", item["has_adr"])
	}
}

// TestHandleAdrList tests the adr_list handler with the blip filter.
func TestHandleAdrList(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	for _, name := range []string{"Rust", "Kafka"} {
		if result, _ := h.HandleBlipCreate(ctx, makeRequest(map[string]any{"name": name})); result.IsError {
			t.Fatalf("setup create failed: %v", extractErrorMessage(result))
		}
	}
	for _, adr := range []map[string]any{
		{"title": "Adopt Rust", "blip_name": "Rust"},
		{"title": "Trial Kafka", "blip_name": "Kafka"},
	} {
		if result, _ := h.HandleAdrCreate(ctx, makeRequest(adr)); result.IsError {
			t.Fatalf("setup adr failed: %v", extractErrorMessage(result))
		}
	}

	t.Run("unfiltered returns all", func(t *testing.T) {
		result, err := h.HandleAdrList(ctx, makeRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		items := output["items"].([]any)
		if len(items) != 2 {
			t.Errorf("got %d items, want 2", len(items))
		}
	})

	t.Run("blip filter", func(t *testing.T) {
		result, err := h.HandleAdrList(ctx, makeRequest(map[string]any{"blip_name": "Rust"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		items := output["items"].([]any)
		if len(items) != 1 {
			t.Fatalf("got %d items, want 1", len(items))
		}
		item := items[0].(map[string]any)
		if item["title"] != "Adopt Rust" {
			t.Errorf("title = %v, want Adopt Rust", item["title"])
		}
	})
}

// TestHandleStats tests the radar_stats handler.
func TestHandleStats(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	for _, name := range []string{"Rust", "Kafka"} {
		if result, _ := h.HandleBlipCreate(ctx, makeRequest(map[string]any{"name": name})); result.IsError {
			t.Fatalf("setup create failed: %v", extractErrorMessage(result))
		}
	}
	adrReq := makeRequest(map[string]any{"title": "Adopt Rust", "blip_name": "Rust"})
	if result, _ := h.HandleAdrCreate(ctx, adrReq); result.IsError {
		t.Fatalf("setup adr failed: %v", extractErrorMessage(result))
	}

	result, err := h.HandleStats(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	output := parseOutput(t, result)

	if n := output["total_blips"].(float64); n != 2 {
		t.Errorf("total_blips = %v, want 2", n)
	}
	if n := output["total_adrs"].(float64); n != 1 {
		t.Errorf("total_adrs = %v, want 1", n)
	}
	if c := output["coverage"].(float64); c != 50 {
		t.Errorf("coverage = %v, want 50", c)
	}
}

// TestHandleExport tests the radar_export handler.
func TestHandleExport(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	h := NewHandlers(database, cfg, writer, tmpDir)
	ctx := context.Background()

	if result, _ := h.HandleBlipCreate(ctx, makeRequest(map[string]any{"name": "Rust"})); result.IsError {
		t.Fatalf("setup create failed: %v", extractErrorMessage(result))
	}

	exportPath := filepath.Join(t.TempDir(), "export.jsonl")
	result, err := h.HandleExport(ctx, makeRequest(map[string]any{"path": exportPath}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("export failed: %v", extractErrorMessage(result))
	}

	if _, err := os.Stat(exportPath); os.IsNotExist(err) {
		t.Fatal("export file not created")
	}

	output := parseOutput(t, result)
	if n := output["blip_count"].(float64); n != 1 {
		t.Errorf("blip_count = %v, want 1", n)
	}
}

func TestServerRegistration(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	s := NewServer(database, cfg, writer, tmpDir, "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"blip_create",
		"blip_update",
		"blip_list",
		"adr_create",
		"adr_update",
		"adr_list",
		"radar_stats",
		"radar_export",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}

	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	database, cfg, writer, tmpDir := testSetup(t)

	cfg.DisabledTools = []string{"radar_export", "blip_update"}
	s := NewServer(database, cfg, writer, tmpDir, "test")
	tools := s.ListTools()

	if len(tools) != 6 {
		t.Errorf("registered tool count = %d, want 6", len(tools))
	}

	for _, name := range []string{"radar_export", "blip_update"} {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}

	for _, name := range []string{"blip_create", "adr_create", "blip_list"} {
		if _, ok := tools[name]; !ok {
			t.Errorf("core tool %q should be registered", name)
		}
	}
}

func TestValidateDisabledTools(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		wantLen int
	}{
		{
			name:    "all valid",
			input:   []string{"radar_export", "blip_update"},
			wantLen: 0,
		},
		{
			name:    "one unknown",
			input:   []string{"blip_create", "fake_tool"},
			wantLen: 1,
		},
		{
			name:    "all unknown",
			input:   []string{"foo", "bar", "baz"},
			wantLen: 3,
		},
		{
			name:    "empty list",
			input:   []string{},
			wantLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unknown := ValidateDisabledTools(tt.input)
			if len(unknown) != tt.wantLen {
				t.Errorf("ValidateDisabledTools() returned %d unknown, want %d", len(unknown), tt.wantLen)
			}
		})
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()

	if len(names) != 8 {
		t.Errorf("AllToolNames() returned %d names, want 8", len(names))
	}

	unknown := ValidateDisabledTools(names)
	if len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewNotFound("42"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
