package docxextract

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	entry, err := w.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := entry.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write entry: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestExtractTextParagraphs(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>SECTION I</w:t></w:r></w:p>
    <w:p><w:r><w:t>The first clause.</w:t></w:r><w:r><w:t> Continued run.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractText(writeDocx(t, doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if !strings.Contains(text, "SECTION I") {
		t.Fatalf("heading missing: %q", text)
	}
	if !strings.Contains(text, "The first clause. Continued run.") {
		t.Fatalf("runs within a paragraph should join: %q", text)
	}
	if !strings.Contains(text, "SECTION I\n\n") {
		t.Fatalf("paragraphs should be blank-line separated: %q", text)
	}
}

func TestExtractTextTabsAndBreaks(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>left</w:t><w:tab/><w:t>right</w:t></w:r></w:p>
    <w:p><w:r><w:t>line one</w:t><w:br/><w:t>line two</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractText(writeDocx(t, doc))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "left\tright") {
		t.Fatalf("tab lost: %q", text)
	}
	if !strings.Contains(text, "line one\nline two") {
		t.Fatalf("break lost: %q", text)
	}
}

func TestExtractTextMissingDocumentPart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	w := zip.NewWriter(f)
	if err := w.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	if _, err := ExtractText(path); err == nil {
		t.Fatalf("zip without word/document.xml must fail")
	}
}

func TestExtractTextNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ExtractText(path); err == nil {
		t.Fatalf("non-zip input must fail")
	}
}
