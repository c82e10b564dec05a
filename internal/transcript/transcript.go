// Package transcript reads uploaded meeting transcripts and validates audio
// uploads before they are sent for transcription.
package transcript

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/hpungsan/acta/internal/errors"
)

// NotesSeparator joins an uploaded transcript and pasted notes.
const NotesSeparator = "\n\nNotas adicionales:\n"

// SupportedDocuments lists the transcript file extensions Read understands.
var SupportedDocuments = []string{".txt", ".vtt", ".docx"}

// Read extracts plain text from an uploaded transcript, dispatching on the
// file extension.
func Read(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return decodeText(data)
	case ".vtt":
		text, err := decodeText(data)
		if err != nil {
			return "", err
		}
		return parseVTT(text), nil
	case ".docx":
		return readDocx(data)
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf(
		"unsupported transcript file %q; supported: %s", filename, strings.Join(SupportedDocuments, ", ")))
}

// Merge combines an uploaded transcript with pasted notes. Blank notes are
// ignored; notes alone stand in for a missing transcript.
func Merge(fileText, notes string) string {
	if strings.TrimSpace(notes) == "" {
		return fileText
	}
	if fileText == "" {
		return notes
	}
	return fileText + NotesSeparator + notes
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText reads UTF-8, falling back to Windows-1252 for files saved by
// older Windows editors.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return "", errors.NewInvalidRequest("transcript is not valid text")
	}
	return string(out), nil
}
