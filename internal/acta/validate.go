package acta

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/hpungsan/acta/internal/errors"
)

var schema = jsonschema.MustCompileString("acta.schema.json", schemaJSON)

var quotedName = regexp.MustCompile(`["']([^"']+)["']`)

// Validate checks an arbitrary decoded JSON value against the acta contract
// and coerces it into a fully defaulted Acta.
//
// Only metadata and participantes are load-bearing; every other top-level
// key may be absent or null. On failure the returned error is a
// VALIDATION_FAILED ActaError carrying the field-level issues.
func Validate(v any) (*Acta, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewValidationFailed([]errors.Issue{{Path: "/", Expected: "JSON value"}})
	}
	return ValidateJSON(b)
}

// ValidateJSON is Validate for raw JSON bytes.
func ValidateJSON(data []byte) (*Acta, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.NewValidationFailed([]errors.Issue{{Path: "/", Expected: "JSON value"}})
	}
	if err := dec.Decode(new(any)); err != io.EOF {
		return nil, errors.NewValidationFailed([]errors.Issue{{Path: "/", Expected: "single JSON value"}})
	}

	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if stderrors.As(err, &verr) {
			return nil, errors.NewValidationFailed(issues(verr))
		}
		return nil, errors.NewInternal(err)
	}

	return coerce(doc.(map[string]any)), nil
}

// issues flattens a validation error tree into its leaf causes.
func issues(root *jsonschema.ValidationError) []errors.Issue {
	var out []errors.Issue
	seen := make(map[errors.Issue]bool)

	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		for _, is := range leafIssues(e) {
			if !seen[is] {
				seen[is] = true
				out = append(out, is)
			}
		}
	}
	walk(root)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func leafIssues(e *jsonschema.ValidationError) []errors.Issue {
	loc := e.InstanceLocation
	if strings.HasSuffix(e.KeywordLocation, "/required") {
		var out []errors.Issue
		for _, m := range quotedName.FindAllStringSubmatch(e.Message, -1) {
			out = append(out, errors.Issue{Path: loc + "/" + m[1], Expected: "required object"})
		}
		if len(out) > 0 {
			return out
		}
	}
	if loc == "" {
		loc = "/"
	}
	return []errors.Issue{{Path: loc, Expected: e.Message}}
}
