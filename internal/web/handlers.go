package web

import (
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/pipeline"
	"github.com/hpungsan/acta/internal/render"
	"github.com/hpungsan/acta/internal/transcript"
)

const (
	// maxDocumentBytes caps transcript uploads and JSON bodies.
	maxDocumentBytes = 10 << 20
	// multipartMemory is how much of a multipart body is kept in memory
	// before spilling to temporary files.
	multipartMemory = 8 << 20
)

// Handlers contains HTTP route handlers.
type Handlers struct {
	pipeline *pipeline.Pipeline
	renderer *Renderer
	maxAudio int64
}

// HandleIndex handles GET /: the upload form.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, "index", IndexPageData{
		PageData:     h.renderer.pageData("Generar acta", "home"),
		Documents:    strings.Join(transcript.SupportedDocuments, ","),
		AudioFormats: strings.Join(transcript.AudioExtensions, ","),
		MaxAudioMB:   h.maxAudio >> 20,
	})
}

// HandleHelp handles GET /como-funciona.
func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, "page", MarkdownPageData{
		PageData: h.renderer.pageData("Cómo funciona", "help"),
		Body:     render.MarkdownHTML(helpMarkdown),
	})
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// HandleTemplate handles GET /api/template: the empty acta skeleton.
func (h *Handlers) HandleTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, acta.Template)
}

// HandleGeneratePDF handles POST /api/generate-pdf: transcript file and/or
// pasted text through extraction to a PDF download.
func (h *Handlers) HandleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	if err := h.parseMultipart(w, r, maxDocumentBytes, maxDocumentBytes); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	var fileText string
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("could not read uploaded file"))
			return
		}
		fileText, err = transcript.Read(header.Filename, data)
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
	case !stderrors.Is(err, http.ErrMissingFile):
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	text := transcript.Merge(fileText, r.FormValue("text"))
	if strings.TrimSpace(text) == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("No transcription provided"))
		return
	}

	pdf, _, err := h.pipeline.Generate(r.Context(), text)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	writePDF(w, pdf)
}

// HandleGenerateActa handles POST /api/generate-acta?source=extracted|premapped.
func (h *Handlers) HandleGenerateActa(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	pdf, err := h.pipeline.Render(r.Context(), in)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	writePDF(w, pdf)
}

// HandlePreview handles POST /api/preview?source=...: the view model as
// JSON, or as a rendered page when the client asks for HTML.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	in, err := h.decodeInput(w, r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	vm, err := h.pipeline.Preview(r.Context(), in)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsHTML(r) {
		h.renderer.renderPage(w, "page", MarkdownPageData{
			PageData: h.renderer.pageData(vm.Title, ""),
			Body:     render.MarkdownHTML(render.Markdown(vm)),
		})
		return
	}
	renderJSON(w, http.StatusOK, map[string]any{"success": true, "data": vm})
}

// HandleTranscribe handles POST /api/transcribe: audio upload to text.
func (h *Handlers) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	// Leave room for the multipart envelope so an at-limit file still parses.
	if err := h.parseMultipart(w, r, h.maxAudio+1<<20, h.maxAudio); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("No audio file provided"))
		return
	}
	defer file.Close()

	if err := transcript.CheckAudio(header.Filename, header.Header.Get("Content-Type"), header.Size, h.maxAudio); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	text, err := h.pipeline.Transcribe(r.Context(), file, header.Filename)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"text":    text,
		"metadata": map[string]any{
			"filename": header.Filename,
			"size":     header.Size,
			"duration": nil,
		},
	})
}

// parseMultipart parses a multipart body no larger than bodyLimit. The
// error reports fileLimit, the size users actually have to stay under.
func (h *Handlers) parseMultipart(w http.ResponseWriter, r *http.Request, bodyLimit, fileLimit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) || stderrors.Is(err, multipart.ErrMessageTooLarge) {
			return errors.NewPayloadTooLarge(fileLimit, bodyLimit+1)
		}
		return errors.NewInvalidRequest("Invalid form data")
	}
	return nil
}

// decodeInput reads a JSON body as the variant named by the source query
// parameter.
func (h *Handlers) decodeInput(w http.ResponseWriter, r *http.Request) (pipeline.Input, error) {
	source, err := pipeline.ParseSource(r.URL.Query().Get("source"))
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.NewPayloadTooLarge(maxDocumentBytes, maxDocumentBytes+1)
		}
		return nil, errors.NewInvalidRequest("could not read request body")
	}
	return pipeline.DecodeInput(source, body)
}

func writePDF(w http.ResponseWriter, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="acta.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
