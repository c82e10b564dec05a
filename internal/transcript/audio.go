package transcript

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/hpungsan/acta/internal/errors"
)

// MaxAudioBytes is the transcription service's upload limit.
const MaxAudioBytes int64 = 25 * 1024 * 1024

var (
	audioMIMETypes = []string{
		"audio/mpeg",
		"audio/mp4",
		"audio/wav",
		"audio/webm",
		"audio/ogg",
		"audio/flac",
		"video/mp4",
		"video/webm",
	}
	// AudioExtensions lists the accepted audio file extensions.
	AudioExtensions = []string{".mp3", ".m4a", ".wav", ".webm", ".ogg", ".flac", ".mp4"}
)

// CheckAudio validates an audio upload before transcription. A file is
// accepted when either its MIME type or its extension is recognised.
func CheckAudio(filename, mimeType string, size, limit int64) error {
	if limit <= 0 {
		limit = MaxAudioBytes
	}
	if size > limit {
		return errors.NewPayloadTooLarge(limit, size)
	}
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	ext := strings.ToLower(filepath.Ext(filename))
	if slices.Contains(audioMIMETypes, mimeType) || slices.Contains(AudioExtensions, ext) {
		return nil
	}
	return errors.NewUnsupportedMedia(AudioExtensions)
}
