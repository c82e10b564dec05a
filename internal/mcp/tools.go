package mcp

import "github.com/mark3labs/mcp-go/mcp"

var sourceOption = mcp.WithString("source",
	mcp.Required(),
	mcp.Enum("extracted", "premapped"),
	mcp.Description(`"extracted" for an acta as returned by acta_extract or acta_validate, "premapped" for a document record in the PDF layout`),
)

var documentOption = mcp.WithObject("document",
	mcp.Required(),
	mcp.Description("The acta or document record, as a JSON object"),
)

var templateToolDef = mcp.NewTool("acta_template",
	mcp.WithDescription("Return the empty acta JSON template the extractor fills in."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var validateToolDef = mcp.NewTool("acta_validate",
	mcp.WithDescription("Check an acta against the schema and return it normalized: null lists become empty lists, vote counts become numbers, unknown languages fall back to Spanish. Failures list each offending path."),
	mcp.WithObject("acta", mcp.Required(), mcp.Description("Acta JSON object")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var previewToolDef = mcp.NewTool("acta_preview",
	mcp.WithDescription("Map and project an acta or document record into the localized view model used to print the PDF."),
	sourceOption,
	documentOption,
	mcp.WithString("format",
		mcp.Enum("json", "markdown"),
		mcp.Description(`"json" (default) returns the view model, "markdown" a readable rendition`),
	),
	mcp.WithReadOnlyHintAnnotation(true),
)

var extractToolDef = mcp.NewTool("acta_extract",
	mcp.WithDescription("Extract a structured acta from a meeting transcript with the language model. Calls an external API; if the result is reported as regenerable, calling again may succeed."),
	mcp.WithString("transcript", mcp.Required(), mcp.Description("Meeting transcript text")),
	mcp.WithOpenWorldHintAnnotation(true),
)

var renderToolDef = mcp.NewTool("acta_render",
	mcp.WithDescription("Render an acta or document record to a PDF file and return its path."),
	sourceOption,
	documentOption,
	mcp.WithString("output_path", mcp.Description("Where to write the PDF: directly inside ~/.acta/output or a configured output_dirs entry. Defaults to a new file in ~/.acta/output.")),
	mcp.WithDestructiveHintAnnotation(false),
)

var summarizeToolDef = mcp.NewTool("acta_summarize",
	mcp.WithDescription("Summarize free text concisely in Spanish with the language model."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
	mcp.WithOpenWorldHintAnnotation(true),
)
