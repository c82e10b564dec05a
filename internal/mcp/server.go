package mcp

import (
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/acta/internal/config"
	"github.com/hpungsan/acta/internal/logging"
	"github.com/hpungsan/acta/internal/pipeline"
	"github.com/hpungsan/acta/internal/safepath"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"acta_template": {
		def:     templateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplate },
	},
	"acta_validate": {
		def:     validateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidate },
	},
	"acta_preview": {
		def:     previewToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePreview },
	},
	"acta_extract": {
		def:     extractToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExtract },
	},
	"acta_render": {
		def:     renderToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRender },
	},
	"acta_summarize": {
		def:     summarizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSummarize },
	},
}

// AllToolNames returns all valid tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
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

// NewServer creates a new MCP server with the acta tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(p *pipeline.Pipeline, cfg *config.Config, version string, log logging.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"acta",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(p, safepath.Policy{Dirs: cfg.OutputDirs, AllowUnsafe: cfg.AllowUnsafePaths}, log)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
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
func Run(p *pipeline.Pipeline, cfg *config.Config, version string, log logging.Logger) error {
	for _, name := range ValidateDisabledTools(cfg.DisabledTools) {
		log.Warn("mcp.unknown_disabled_tool", logging.F("tool", name))
	}
	return server.ServeStdio(NewServer(p, cfg, version, log))
}
