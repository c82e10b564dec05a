package transcript

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/hpungsan/acta/internal/errors"
)

const docxBody = "word/document.xml"

// maxDocxBodyBytes caps the decompressed document body.
var maxDocxBodyBytes int64 = 80 << 20

// readDocx returns the paragraph text of a Word document, one paragraph
// per line. Tabs and line breaks inside runs are kept.
func readDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewInvalidRequest("transcript .docx is not a valid Word document")
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.NewInvalidRequest("transcript .docx has no document body")
	}

	rc, err := body.Open()
	if err != nil {
		return "", errors.NewInvalidRequest("transcript .docx could not be opened")
	}
	defer rc.Close()

	xmlBody, err := io.ReadAll(io.LimitReader(rc, maxDocxBodyBytes+1))
	if err != nil {
		return "", errors.NewInvalidRequest("transcript .docx could not be opened")
	}
	if int64(len(xmlBody)) > maxDocxBodyBytes {
		return "", errors.NewInvalidRequest("transcript .docx body is too large")
	}

	text, err := docxText(bytes.NewReader(xmlBody))
	if err != nil {
		return "", errors.NewInvalidRequest("transcript .docx body is malformed")
	}
	return text, nil
}

// docxText walks WordprocessingML tokens. Only w:t, w:tab, w:br and the
// paragraph boundary w:p matter for plain text.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		out     strings.Builder
		para    strings.Builder
		inText  bool
		started bool
	)

	flush := func() {
		if started {
			out.WriteString("\n")
		}
		out.WriteString(para.String())
		para.Reset()
		started = true
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				para.WriteString("\t")
			case "br", "cr":
				para.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return strings.TrimSpace(out.String()), nil
}
