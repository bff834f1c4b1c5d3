// Package docxextract pulls plain text out of Word documents. A .docx file is
// a zip archive whose main body lives in word/document.xml; we walk the XML
// token stream and rebuild paragraphs, which is all the ingestion pipeline
// needs before structural chunking.
package docxextract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ExtractText returns the paragraph text of the .docx file at path,
// paragraphs separated by blank lines.
func ExtractText(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx archive failed: %w", err)
	}
	defer archive.Close()

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}

	reader, err := document.Open()
	if err != nil {
		return "", fmt.Errorf("open docx document part failed: %w", err)
	}
	defer reader.Close()

	return decodeDocumentXML(reader)
}

func decodeDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var out strings.Builder
	var paragraph strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode docx xml failed: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				paragraph.WriteByte('\t')
			case "br":
				paragraph.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				line := strings.TrimRight(paragraph.String(), " \t")
				paragraph.Reset()
				out.WriteString(line)
				out.WriteString("\n\n")
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}

	if paragraph.Len() > 0 {
		out.WriteString(paragraph.String())
	}
	return strings.TrimSpace(out.String()), nil
}
