// Package pipeline wires the acta stages together: transcription,
// extraction, validation, format mapping, projection and rendering.
//
// Every external collaborator is injected. Stages run synchronously and
// each external call is made at most once per request.
package pipeline

import (
	"context"
	stderrors "errors"
	"html/template"
	"io"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/logging"
	"github.com/hpungsan/acta/internal/metrics"
	"github.com/hpungsan/acta/internal/pdfformat"
	"github.com/hpungsan/acta/internal/render"
	"github.com/hpungsan/acta/internal/viewmodel"
)

// TracerName names the tracer used for stage spans.
const TracerName = "acta"

// Extractor fills the acta template from a transcript.
type Extractor interface {
	Extract(ctx context.Context, transcript string) (map[string]any, error)
}

// Transcriber converts audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Summarizer condenses free text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Renderer prints an HTML document to PDF.
type Renderer interface {
	PDF(ctx context.Context, html string) ([]byte, error)
}

// Deps are the collaborators of a Pipeline. Any of them may be nil when
// the caller never uses the operations that need it.
type Deps struct {
	Extractor      Extractor
	Transcriber    Transcriber
	Summarizer     Summarizer
	Renderer       Renderer
	HeaderImage    template.URL
	// HeaderImageErr, when set, fails every document build. It carries a
	// header image that could not be loaded at startup.
	HeaderImageErr error
	Logger         logging.Logger
	Metrics        *metrics.Metrics
	Tracer         trace.Tracer
}

// Pipeline runs the acta stages.
type Pipeline struct {
	extractor   Extractor
	transcriber Transcriber
	summarizer  Summarizer
	renderer    Renderer
	headerImage template.URL
	headerErr   error
	log         logging.Logger
	metrics     *metrics.Metrics
	tracer      trace.Tracer
}

// New creates a Pipeline.
func New(d Deps) *Pipeline {
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(TracerName)
	}
	return &Pipeline{
		extractor:   d.Extractor,
		transcriber: d.Transcriber,
		summarizer:  d.Summarizer,
		renderer:    d.Renderer,
		headerImage: d.HeaderImage,
		headerErr:   d.HeaderImageErr,
		log:         d.Logger,
		metrics:     d.Metrics,
		tracer:      d.Tracer,
	}
}

// begin opens a span for stage and returns the function that closes it
// and records metrics.
func (p *Pipeline) begin(ctx context.Context, stage string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := p.tracer.Start(ctx, "acta."+stage, trace.WithAttributes(attribute.String("stage", stage)))
	return ctx, func(err error) {
		if err != nil {
			aErr := errors.As(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, aErr.Message)
			span.SetAttributes(
				attribute.String("error_code", string(aErr.Code)),
				attribute.Bool("regenerable", aErr.Regenerable()),
			)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		p.metrics.ObserveStage(stage, start, err)
	}
}

// Transcribe sends audio to the transcription service.
func (p *Pipeline) Transcribe(ctx context.Context, audio io.Reader, filename string) (text string, err error) {
	ctx, end := p.begin(ctx, metrics.StageTranscribe)
	defer func() { end(err) }()

	if p.transcriber == nil {
		return "", errors.NewConfig("transcription service not configured")
	}
	text, err = p.transcriber.Transcribe(ctx, audio, filename)
	p.metrics.ObserveCall(metrics.ServiceTranscription, err)
	if err != nil {
		return "", errors.NewTranscriptionFailed(err)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.NewEmptyTranscript()
	}
	return text, nil
}

// Summarize condenses text with the language model.
func (p *Pipeline) Summarize(ctx context.Context, text string) (string, error) {
	if p.summarizer == nil {
		return "", errors.NewConfig("summary service not configured")
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.NewInvalidRequest("no text to summarize")
	}
	out, err := p.summarizer.Summarize(ctx, text)
	p.metrics.ObserveCall(metrics.ServiceLLM, err)
	if err != nil {
		return "", errors.NewExtractionCallFailed(err)
	}
	return out, nil
}

// Extract runs the extraction service on transcript and validates the result.
func (p *Pipeline) Extract(ctx context.Context, transcript string) (*acta.Acta, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.NewInvalidRequest("No transcription provided")
	}
	if p.extractor == nil {
		return nil, errors.NewConfig("extraction service not configured")
	}

	raw, err := p.extract(ctx, transcript)
	if err != nil {
		return nil, err
	}
	return p.Validate(ctx, raw)
}

func (p *Pipeline) extract(ctx context.Context, transcript string) (raw map[string]any, err error) {
	ctx, end := p.begin(ctx, metrics.StageExtract)
	defer func() { end(err) }()

	raw, err = p.extractor.Extract(ctx, transcript)

	// A reply that fails to parse still counts as a successful call.
	callErr := err
	if !errors.Is(err, errors.ErrExtractionCallFailed) {
		callErr = nil
	}
	p.metrics.ObserveCall(metrics.ServiceLLM, callErr)
	return raw, err
}

// Validate coerces an arbitrary decoded JSON value into an Acta.
func (p *Pipeline) Validate(ctx context.Context, v any) (a *acta.Acta, err error) {
	_, end := p.begin(ctx, metrics.StageValidate)
	defer func() { end(err) }()

	a, err = acta.Validate(v)
	if err != nil {
		p.log.WithContext(ctx).Warn("validate.failed", logging.F("details", errors.As(err).Details))
	}
	return a, err
}

// Format resolves an Input to a document record.
func (p *Pipeline) Format(ctx context.Context, in Input) (f *pdfformat.Format, err error) {
	switch v := in.(type) {
	case Extracted:
		_, end := p.begin(ctx, metrics.StageMap)
		f = pdfformat.Map(v.Acta)
		end(nil)
		return f, nil
	case PreMapped:
		if v.Format == nil {
			return nil, errors.NewInvalidInput("pre-mapped input has no document record")
		}
		return v.Format, nil
	}
	return nil, errors.NewInvalidInput("unknown input variant")
}

// Preview maps and projects an Input into the view model.
func (p *Pipeline) Preview(ctx context.Context, in Input) (*viewmodel.ViewModel, error) {
	f, err := p.Format(ctx, in)
	if err != nil {
		return nil, err
	}
	_, end := p.begin(ctx, metrics.StageProject)
	vm, err := viewmodel.Project(f)
	end(err)
	return vm, err
}

// HTML builds the complete document for an Input.
func (p *Pipeline) HTML(ctx context.Context, in Input) (string, error) {
	vm, err := p.Preview(ctx, in)
	if err != nil {
		return "", err
	}
	if p.headerErr != nil {
		return "", p.headerErr
	}
	return render.Document(vm, render.Options{HeaderImage: p.headerImage})
}

// Render produces the PDF for an Input.
func (p *Pipeline) Render(ctx context.Context, in Input) (pdf []byte, err error) {
	html, err := p.HTML(ctx, in)
	if err != nil {
		return nil, err
	}

	ctx, end := p.begin(ctx, metrics.StageRender)
	defer func() { end(err) }()

	if p.renderer == nil {
		return nil, errors.NewConfig("PDF renderer not configured")
	}
	pdf, err = p.renderer.PDF(ctx, html)
	p.metrics.ObserveCall(metrics.ServiceBrowser, err)
	if err != nil {
		var aErr *errors.ActaError
		if !stderrors.As(err, &aErr) {
			err = errors.NewRenderFailed("PDF rendering failed", err)
		}
		return nil, err
	}
	return pdf, nil
}

// Generate runs the whole flow from transcript to PDF.
func (p *Pipeline) Generate(ctx context.Context, transcript string) ([]byte, *acta.Acta, error) {
	a, err := p.Extract(ctx, transcript)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := p.Render(ctx, Extracted{Acta: a})
	if err != nil {
		return nil, a, err
	}
	p.log.WithContext(ctx).Info("generate.ok",
		logging.F("agenda_items", len(a.Agenda)),
		logging.F("resolutions", len(a.Resolutions)),
		logging.F("pdf_bytes", len(pdf)),
	)
	return pdf, a, nil
}
