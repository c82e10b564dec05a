package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/logging"
	"github.com/hpungsan/acta/internal/pipeline"
	"github.com/hpungsan/acta/internal/render"
	"github.com/hpungsan/acta/internal/safepath"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	pipeline *pipeline.Pipeline
	output   safepath.Policy
	log      logging.Logger
}

// NewHandlers creates a new Handlers instance. output restricts where
// acta_render may write.
func NewHandlers(p *pipeline.Pipeline, output safepath.Policy, log logging.Logger) *Handlers {
	if log == nil {
		log = logging.Nop()
	}
	return &Handlers{pipeline: p, output: output, log: log}
}

// Request types for each tool

// ValidateRequest represents the arguments for acta_validate.
type ValidateRequest struct {
	Acta map[string]any `json:"acta"`
}

// DocumentRequest carries a tagged document for acta_preview and acta_render.
type DocumentRequest struct {
	Source     string          `json:"source"`
	Document   json.RawMessage `json:"document"`
	Format     string          `json:"format,omitempty"`
	OutputPath string          `json:"output_path,omitempty"`
}

// ExtractRequest represents the arguments for acta_extract.
type ExtractRequest struct {
	Transcript string `json:"transcript"`
}

// SummarizeRequest represents the arguments for acta_summarize.
type SummarizeRequest struct {
	Text string `json:"text"`
}

// RenderOutput is returned by acta_render.
type RenderOutput struct {
	Path  string `json:"path"`
	Bytes int    `json:"bytes"`
}

// HandleTemplate handles the acta_template tool call.
func (h *Handlers) HandleTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(json.RawMessage(acta.Template))
}

// HandleValidate handles the acta_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Acta == nil {
		return errorResult(errors.NewInvalidRequest("acta is required")), nil
	}
	a, err := h.pipeline.Validate(ctx, input.Acta)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(a)
}

// HandlePreview handles the acta_preview tool call.
func (h *Handlers) HandlePreview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DocumentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Format != "" && input.Format != "json" && input.Format != "markdown" {
		return errorResult(errors.NewInvalidRequest(`format must be "json" or "markdown"`)), nil
	}
	in, err := documentInput(input)
	if err != nil {
		return errorResult(err), nil
	}
	vm, err := h.pipeline.Preview(ctx, in)
	if err != nil {
		return errorResult(err), nil
	}
	if input.Format == "markdown" {
		return mcp.NewToolResultText(render.Markdown(vm)), nil
	}
	return successResult(vm)
}

// HandleExtract handles the acta_extract tool call.
func (h *Handlers) HandleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExtractRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	a, err := h.pipeline.Extract(ctx, input.Transcript)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(a)
}

// HandleRender handles the acta_render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DocumentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	in, err := documentInput(input)
	if err != nil {
		return errorResult(err), nil
	}

	path := input.OutputPath
	if path == "" {
		dir, err := safepath.DefaultDir()
		if err != nil {
			return errorResult(err), nil
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errorResult(errors.NewInternal(err)), nil
		}
		path = filepath.Join(dir, "acta-"+ulid.Make().String()+safepath.Ext)
	}
	if err := h.output.Check(path); err != nil {
		return errorResult(err), nil
	}

	pdf, err := h.pipeline.Render(ctx, in)
	if err != nil {
		return errorResult(err), nil
	}
	if err := safepath.WriteFile(path, pdf); err != nil {
		h.log.WithContext(ctx).Error("mcp.render.write_failed", logging.Err(err))
		return errorResult(errors.NewRenderFailed("could not write PDF", err)), nil
	}
	return successResult(RenderOutput{Path: path, Bytes: len(pdf)})
}

// HandleSummarize handles the acta_summarize tool call.
func (h *Handlers) HandleSummarize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SummarizeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	summary, err := h.pipeline.Summarize(ctx, input.Text)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]string{"summary": summary})
}

func documentInput(req DocumentRequest) (pipeline.Input, error) {
	source, err := pipeline.ParseSource(req.Source)
	if err != nil {
		return nil, err
	}
	if len(req.Document) == 0 {
		return nil, errors.NewInvalidRequest("document is required")
	}
	return pipeline.DecodeInput(source, req.Document)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var aErr *errors.ActaError
	if stderrors.As(err, &aErr) {
		errorObj := map[string]any{
			"code":        aErr.Code,
			"message":     aErr.Message,
			"status":      aErr.Status,
			"regenerable": aErr.Regenerable(),
		}
		if aErr.Code != errors.ErrInternal && aErr.Details != nil {
			errorObj["details"] = aErr.Details
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

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
