package pipeline

import (
	"fmt"

	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/pdfformat"
)

// Input is what the document stages accept: either an extracted Acta or an
// already mapped document record. The caller decides which.
type Input interface {
	isInput()
}

// Extracted wraps a validated Acta that still needs format mapping.
type Extracted struct {
	Acta *acta.Acta
}

// PreMapped wraps a document record supplied directly by the caller.
type PreMapped struct {
	Format *pdfformat.Format
}

func (Extracted) isInput() {}
func (PreMapped) isInput() {}

// Source names an Input variant on the wire.
type Source string

const (
	SourceExtracted Source = "extracted"
	SourcePreMapped Source = "premapped"
)

// ParseSource validates a source name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceExtracted, SourcePreMapped:
		return Source(s), nil
	case "":
		return "", errors.NewInvalidRequest(`missing source: use "extracted" or "premapped"`)
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf(`unknown source %q: use "extracted" or "premapped"`, s))
}

// DecodeInput parses JSON as the given variant. Extracted documents go
// through the schema validator; pre-mapped ones are decoded tolerantly.
func DecodeInput(source Source, data []byte) (Input, error) {
	switch source {
	case SourceExtracted:
		a, err := acta.ValidateJSON(data)
		if err != nil {
			return nil, err
		}
		return Extracted{Acta: a}, nil
	case SourcePreMapped:
		f, err := pdfformat.Decode(data)
		if err != nil {
			return nil, err
		}
		return PreMapped{Format: f}, nil
	}
	_, err := ParseSource(string(source))
	return nil, err
}
