// Package render turns a view model into an HTML document, a PDF, or a
// Markdown preview.
package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"

	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/viewmodel"
)

//go:embed templates/*.html
var templateFS embed.FS

var documentTmpl = template.Must(template.ParseFS(templateFS, "templates/acta.html"))

// documentData is the template input. The view model is embedded so the
// template reads its fields directly.
type documentData struct {
	*viewmodel.ViewModel
	HeaderImage template.URL
}

// Options tune document assembly.
type Options struct {
	// HeaderImage is a data URI placed above the title; empty omits it.
	HeaderImage template.URL
}

// Document renders the complete HTML document for vm. All values are
// escaped by html/template.
func Document(vm *viewmodel.ViewModel, opts Options) (string, error) {
	if vm == nil {
		return "", errors.NewInvalidInput("document requires a view model")
	}
	var buf bytes.Buffer
	if err := documentTmpl.ExecuteTemplate(&buf, "acta.html", documentData{ViewModel: vm, HeaderImage: opts.HeaderImage}); err != nil {
		return "", errors.NewRenderFailed("document template failed", err)
	}
	return buf.String(), nil
}

// LoadHeaderImage reads a PNG and returns it as a data URI. An empty path
// means no header image. A configured path that does not exist is an error.
func LoadHeaderImage(path string) (template.URL, error) {
	if path == "" {
		return "", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", errors.NewRenderFailed(fmt.Sprintf("acta header image not found (%s)", path), err)
		}
		return "", errors.NewRenderFailed("read acta header image", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b)), nil
}
