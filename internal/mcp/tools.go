package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var blipCreateToolDef = mcp.NewTool("blip_create",
	mcp.WithDescription("Create a radar blip: one SQLite index row plus a Markdown document. The name must be unique."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Unique blip name, e.g. \"Rust\"")),
	mcp.WithString("quadrant", mcp.Description("Classification: platforms, languages, tools, or techniques"),
		mcp.Enum("platforms", "languages", "tools", "techniques")),
	mcp.WithString("ring", mcp.Description("Maturity: hold, assess, trial, or adopt"),
		mcp.Enum("hold", "assess", "trial", "adopt")),
	mcp.WithString("tag", mcp.Description("Optional free-text tag")),
	mcp.WithString("description", mcp.Description("Optional free-text description")),
)

var blipUpdateToolDef = mcp.NewTool("blip_update",
	mcp.WithDescription("Update fields of an existing blip by id and re-write its Markdown document. Omitted fields keep their value; an empty string clears an optional field."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Blip id")),
	mcp.WithString("name", mcp.Description("New unique name")),
	mcp.WithString("quadrant", mcp.Description("New quadrant, or \"\" to clear"),
		mcp.Enum("platforms", "languages", "tools", "techniques", "")),
	mcp.WithString("ring", mcp.Description("New ring, or \"\" to clear"),
		mcp.Enum("hold", "assess", "trial", "adopt", "")),
	mcp.WithString("tag", mcp.Description("New tag, or \"\" to clear")),
	mcp.WithString("description", mcp.Description("New description, or \"\" to clear")),
)

var blipListToolDef = mcp.NewTool("blip_list",
	mcp.WithDescription("List all blips in creation order (id ascending)."),
)

var adrCreateToolDef = mcp.NewTool("adr_create",
	mcp.WithDescription("Record an architecture decision: one adr_log row plus a Markdown document. When blip_name matches an existing blip the decision is linked to it; otherwise the ADR is kept and reported as orphaned."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Decision title, e.g. \"Adopt Rust\"")),
	mcp.WithString("blip_name", mcp.Required(), mcp.Description("Name of the blip this decision concerns")),
	mcp.WithString("status", mcp.Description("Decision status, defaults to proposed"),
		mcp.Enum("proposed", "accepted", "rejected", "deprecated", "superseded")),
	mcp.WithString("context", mcp.Description("Context section of the document")),
	mcp.WithString("decision", mcp.Description("Decision section of the document")),
	mcp.WithString("consequences", mcp.Description("Consequences section of the document")),
	mcp.WithString("references", mcp.Description("References section of the document")),
)

var adrUpdateToolDef = mcp.NewTool("adr_update",
	mcp.WithDescription("Update an ADR by id and re-write its Markdown document. Omitted fields keep their value. With no fields the document is re-written and the blip link re-checked, which repairs an orphaned or partially written record."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("ADR id")),
	mcp.WithString("title", mcp.Description("New decision title; the document is renamed to match")),
	mcp.WithString("status", mcp.Description("New decision status"),
		mcp.Enum("proposed", "accepted", "rejected", "deprecated", "superseded")),
)

var adrListToolDef = mcp.NewTool("adr_list",
	mcp.WithDescription("List ADR log entries in creation order, optionally filtered by blip name."),
	mcp.WithString("blip_name", mcp.Description("Only entries referencing this blip")),
)

var radarStatsToolDef = mcp.NewTool("radar_stats",
	mcp.WithDescription("Summarize the radar: totals, ADR coverage, counts by quadrant and ring, recent blips."),
)

var radarExportToolDef = mcp.NewTool("radar_export",
	mcp.WithDescription("Export all blips and ADR entries to a JSONL snapshot file."),
	mcp.WithString("path", mcp.Description("Destination file path; defaults to the exports directory")),
)
