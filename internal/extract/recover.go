// Package extract turns free-form model output into a JSON object that
// approximates the acta template.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/hpungsan/acta/internal/errors"
)

var (
	fencedWhole    = regexp.MustCompile("(?i)^```(?:json)?\\s*([\\s\\S]*?)\\s*```$")
	fencedAnywhere = regexp.MustCompile("(?i)```(?:json)?\\s*([\\s\\S]*?)\\s*```")
)

// Candidate locates the JSON text inside model output. In order:
// the interior of a fence wrapping the whole text, the interior of the
// first fence anywhere, then the span from the first '{' to the last '}'.
func Candidate(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if m := fencedWhole.FindStringSubmatch(trimmed); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner, true
		}
	}
	if m := fencedAnywhere.FindStringSubmatch(trimmed); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner, true
		}
	}

	first := strings.Index(trimmed, "{")
	last := strings.LastIndex(trimmed, "}")
	if first != -1 && last > first {
		return trimmed[first : last+1], true
	}
	return "", false
}

// Recover parses model output into an object carrying a metadata object.
// Strict JSON is tried first, then a repairing parser. Any failure is
// reported as INVALID_AI_OUTPUT.
func Recover(text string) (map[string]any, error) {
	candidate, ok := Candidate(text)
	if !ok {
		return nil, errors.NewInvalidAIOutput(fmt.Errorf("no JSON candidate in model output"))
	}

	var data any
	if err := json.Unmarshal([]byte(candidate), &data); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(candidate)
		if rerr != nil {
			return nil, errors.NewInvalidAIOutput(fmt.Errorf("repair: %w", rerr))
		}
		if err := json.Unmarshal([]byte(repaired), &data); err != nil {
			return nil, errors.NewInvalidAIOutput(fmt.Errorf("parse repaired: %w", err))
		}
	}

	obj, ok := data.(map[string]any)
	if !ok {
		return nil, errors.NewInvalidAIOutput(fmt.Errorf("model output is not a JSON object"))
	}
	if _, ok := obj["metadata"].(map[string]any); !ok {
		return nil, errors.NewInvalidAIOutput(fmt.Errorf("model output has no metadata object"))
	}
	return obj, nil
}
