package transcript

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/acta/internal/errors"
)

func TestRead_TextUTF8(t *testing.T) {
	got, err := Read("junta.TXT", []byte("\xEF\xBB\xBFSe abre la sesión."))
	require.NoError(t, err)
	require.Equal(t, "Se abre la sesión.", got)
}

func TestRead_TextWindows1252(t *testing.T) {
	// "Reunión año" encoded as Windows-1252
	got, err := Read("notas.txt", []byte{'R', 'e', 'u', 'n', 'i', 0xF3, 'n', ' ', 'a', 0xF1, 'o'})
	require.NoError(t, err)
	require.Equal(t, "Reunión año", got)
}

func TestRead_VTT(t *testing.T) {
	src := "WEBVTT\r\n\r\n" +
		"1\r\n00:00:01.000 --> 00:00:04.000\r\n<v Laura>Buenas tardes.</v>\r\n\r\n" +
		"2\r\n00:00:04.000 --> 00:00:06.000\r\n<v Laura>Empezamos.</v>\r\n\r\n" +
		"NOTE comentario interno\r\n\r\n" +
		"00:00:06.000 --> 00:00:09.000\r\n<v.loud Pere>D'acord,\r\nendavant.</v>\r\n\r\n" +
		"00:00:09.000 --> 00:00:10.000\r\nsin hablante\r\n"

	got, err := Read("reunion.vtt", []byte(src))
	require.NoError(t, err)
	require.Equal(t, "Laura: Buenas tardes. Empezamos.\nPere: D'acord, endavant.\nsin hablante", got)
}

func makeDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRead_Docx(t *testing.T) {
	doc := makeDocx(t, `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Acta de la junta</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">Presidente: </w:t></w:r><w:r><w:tab/><w:t>Laura</w:t></w:r></w:p>
    <w:p><w:r><w:t>Línea uno</w:t><w:br/><w:t>Línea dos</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	got, err := Read("acta.docx", doc)
	require.NoError(t, err)
	require.Equal(t, "Acta de la junta\nPresidente: \tLaura\nLínea uno\nLínea dos", got)
}

func TestRead_DocxInvalid(t *testing.T) {
	_, err := Read("acta.docx", []byte("not a zip"))
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("other.xml")
	require.NoError(t, zw.Close())
	_, err = Read("acta.docx", buf.Bytes())
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestRead_DocxBodyTooLarge(t *testing.T) {
	orig := maxDocxBodyBytes
	maxDocxBodyBytes = 256
	t.Cleanup(func() { maxDocxBodyBytes = orig })

	para := `<w:p><w:r><w:t>` + strings.Repeat("a", 512) + `</w:t></w:r></w:p>`
	_, err := Read("acta.docx", makeDocx(t, para))
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	got, err := Read("acta.docx", makeDocx(t, `<w:p><w:r><w:t>Hola</w:t></w:r></w:p>`))
	require.NoError(t, err)
	require.Contains(t, got, "Hola")
}

func TestRead_Unsupported(t *testing.T) {
	_, err := Read("acta.pdf", []byte("%PDF"))
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestMerge(t *testing.T) {
	tests := []struct {
		file, notes, want string
	}{
		{"transcripción", "", "transcripción"},
		{"transcripción", "   ", "transcripción"},
		{"", "solo notas", "solo notas"},
		{"transcripción", "nota", "transcripción\n\nNotas adicionales:\nnota"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := Merge(tt.file, tt.notes); got != tt.want {
			t.Errorf("Merge(%q, %q) = %q, want %q", tt.file, tt.notes, got, tt.want)
		}
	}
}

func TestCheckAudio(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mime     string
		size     int64
		code     errors.ErrorCode
	}{
		{"mp3 by mime", "grabacion", "audio/mpeg", 1024, ""},
		{"m4a by extension", "junta.M4A", "application/octet-stream", 1024, ""},
		{"mime with params", "x.bin", "audio/webm;codecs=opus", 1024, ""},
		{"video mp4", "x.mov", "video/mp4", 1024, ""},
		{"unsupported", "notas.txt", "text/plain", 1024, errors.ErrUnsupportedMedia},
		{"at limit", "a.mp3", "", MaxAudioBytes, ""},
		{"too large", "a.mp3", "audio/mpeg", MaxAudioBytes + 1, errors.ErrPayloadTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckAudio(tt.filename, tt.mime, tt.size, 0)
			if tt.code == "" {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}
