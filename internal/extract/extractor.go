package extract

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/logging"
)

// Completer sends a single-turn prompt to a language model and returns
// the text of the first choice.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor asks a language model to fill the acta template for a transcript.
type Extractor struct {
	llm Completer
	log logging.Logger
}

// New creates an Extractor. The Completer is built once per process and shared.
func New(llm Completer, log logging.Logger) *Extractor {
	if log == nil {
		log = logging.Nop()
	}
	return &Extractor{llm: llm, log: log}
}

// Extract returns the recovered JSON object for transcript. It makes exactly
// one model call and never retries.
func (e *Extractor) Extract(ctx context.Context, transcript string) (map[string]any, error) {
	log := e.log.WithContext(ctx)
	start := time.Now()

	content, err := e.llm.Complete(ctx, Prompt(transcript))
	if err != nil {
		log.Error("extract.call_failed", logging.Err(err), logging.Elapsed(start))
		return nil, errors.NewExtractionCallFailed(err)
	}
	if strings.TrimSpace(content) == "" {
		log.Warn("extract.empty_response", logging.Elapsed(start))
		return nil, errors.NewEmptyExtractionResponse()
	}

	obj, err := Recover(content)
	if err != nil {
		log.Error("extract.invalid_json",
			logging.Err(errors.As(err).Unwrap()),
			logging.F("raw", content),
		)
		return nil, err
	}

	log.Info("extract.ok", logging.F("chars", len(content)), logging.Elapsed(start))
	return obj, nil
}
