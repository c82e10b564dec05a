package viewmodel

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder is rendered for absent or blank values.
const Placeholder = "-"

// safe renders a nullable string: nil or blank becomes Placeholder,
// anything else is trimmed.
func safe(p *string) string {
	if p == nil {
		return Placeholder
	}
	if s := strings.TrimSpace(*p); s != "" {
		return s
	}
	return Placeholder
}

// safeValue is safe for loosely typed JSON scalars.
func safeValue(v any) string {
	switch x := v.(type) {
	case string:
		return safe(&x)
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	return Placeholder
}

// formatDate renders YYYY-MM-DD as "<day> de <month> de <year>".
// Absent dates yield Placeholder; malformed ones yield "".
func (c *texts) formatDate(p *string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return Placeholder
	}
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(*p))
	if err != nil {
		return ""
	}
	// Anchored at noon so no zone conversion can move the calendar day.
	d = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	return fmt.Sprintf("%d de %s de %d", d.Day(), c.months[d.Month()-1], d.Year())
}

// ordinal returns the caption for position n. Positions past the table
// fall back to a numeric literal in every locale.
// TODO: extend the Catalan and Spanish tables past 20 once the wording is agreed.
func (c *texts) ordinal(n int) string {
	if n >= 1 && n <= len(c.ordinals) {
		return c.ordinals[n-1]
	}
	return fmt.Sprintf("NÚMERO %d", n)
}

// normalizeVote lowercases and strips accents so Spanish and Catalan
// spellings with or without diacritics compare equal. Casers and
// transformers are stateful, so both are built per call.
func normalizeVote(s string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(fold, cases.Lower(language.Und).String(strings.TrimSpace(s)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}

// narrative turns a raw vote result into an outcome sentence without the
// final period. More specific majorities win over the generic one.
func (c *texts) narrative(raw *string) string {
	if raw == nil {
		return c.agreed
	}
	original := strings.TrimSpace(*raw)
	if original == "" {
		return c.agreed
	}

	r := normalizeVote(original)
	switch {
	case containsAny(r, "mayoria absoluta", "majoria absoluta"):
		return c.byAbsolute
	case containsAny(r, "mayoria simple", "majoria simple"):
		return c.bySimple
	case containsAny(r, "mayoria", "majoria"):
		return c.byMajority
	case containsAny(r, "unanim"):
		return c.byUnanimity
	}
	return fmt.Sprintf("%s (%s)", c.agreed, original)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// joinDecisions folds free-text decisions into one paragraph: each is
// trimmed, blanks are dropped, and each ends with a period.
func joinDecisions(decisions []string) string {
	parts := make([]string, 0, len(decisions))
	for _, d := range decisions {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if !strings.HasSuffix(d, ".") {
			d += "."
		}
		parts = append(parts, d)
	}
	return strings.Join(parts, " ")
}
