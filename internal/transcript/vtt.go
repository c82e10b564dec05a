package transcript

import (
	"regexp"
	"strings"
)

var (
	voiceTag = regexp.MustCompile(`^<v(?:\.[^ >]+)?\s+([^>]+)>`)
	cueTag   = regexp.MustCompile(`</?[^>]+>`)
)

// parseVTT flattens WebVTT captions into one line per cue, prefixing the
// speaker when a voice span names one. Consecutive cues from the same
// speaker are joined.
func parseVTT(src string) string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	blocks := strings.Split(src, "\n\n")

	var lines []string
	lastSpeaker := ""
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" || strings.HasPrefix(block, "WEBVTT") ||
			strings.HasPrefix(block, "NOTE") || strings.HasPrefix(block, "STYLE") ||
			strings.HasPrefix(block, "REGION") {
			continue
		}

		var text []string
		seenTiming := false
		for _, l := range strings.Split(block, "\n") {
			if strings.Contains(l, "-->") {
				seenTiming = true
				continue
			}
			if !seenTiming {
				continue // cue identifier
			}
			if l = strings.TrimSpace(l); l != "" {
				text = append(text, l)
			}
		}
		if len(text) == 0 {
			continue
		}

		joined := strings.Join(text, " ")
		speaker := ""
		if m := voiceTag.FindStringSubmatch(joined); m != nil {
			speaker = strings.TrimSpace(m[1])
		}
		joined = strings.TrimSpace(cueTag.ReplaceAllString(joined, ""))
		if joined == "" {
			continue
		}

		switch {
		case speaker != "" && speaker == lastSpeaker && len(lines) > 0:
			lines[len(lines)-1] += " " + joined
		case speaker != "":
			lines = append(lines, speaker+": "+joined)
		default:
			lines = append(lines, joined)
		}
		lastSpeaker = speaker
	}
	return strings.Join(lines, "\n")
}
