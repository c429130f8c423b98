package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/radr/internal/config"
	"github.com/hpungsan/radr/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"blip_create": {
		def:     blipCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlipCreate },
	},
	"blip_update": {
		def:     blipUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlipUpdate },
	},
	"blip_list": {
		def:     blipListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlipList },
	},
	"adr_create": {
		def:     adrCreateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdrCreate },
	},
	"adr_update": {
		def:     adrUpdateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdrUpdate },
	},
	"adr_list": {
		def:     adrListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAdrList },
	},
	"radar_stats": {
		def:     radarStatsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStats },
	},
	"radar_export": {
		def:     radarExportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with radr tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, writer ops.DocWriter, baseDir, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"radr",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, writer, baseDir)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, writer ops.DocWriter, baseDir, version string) error {
	s := NewServer(db, cfg, writer, baseDir, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
