package testsupport

import (
	"archive/zip"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// BankHeader is the column layout of a default-configured bank workbook.
var BankHeader = []string{
	"题型", "试题题目", "A", "B", "C", "D", "E", "F", "G", "H", "答案",
	"难度", "出处", "备注", "一级分类", "二级分类", "三级分类",
}

// BankRow is one question in a fixture bank.
type BankRow struct {
	Type           string
	Text           string
	Options        []string
	Answer         string
	Classification [3]string
}

func (r BankRow) cells() []any {
	out := make([]any, len(BankHeader))
	for i := range out {
		out[i] = ""
	}
	out[0] = r.Type
	out[1] = r.Text
	for i, opt := range r.Options {
		if i >= 8 {
			break
		}
		out[2+i] = opt
	}
	out[10] = r.Answer
	out[14] = r.Classification[0]
	out[15] = r.Classification[1]
	out[16] = r.Classification[2]
	return out
}

// WriteBankXLSX writes a bank workbook with BankHeader and rows.
func WriteBankXLSX(t testing.TB, path string, rows ...BankRow) {
	t.Helper()
	mkdirFor(t, path)

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"

	header := make([]any, len(BankHeader))
	for i, h := range BankHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("write bank header: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row.cells()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("write bank row %d: %v", i+2, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save bank %s: %v", path, err)
	}
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// WriteDocx writes a minimal Word document with one paragraph per entry.
// Newlines inside a paragraph become line breaks and tabs become tab runs.
func WriteDocx(t testing.TB, path string, paragraphs ...string) {
	t.Helper()
	writeDocxBody(t, path, docxBody(paragraphs))
}

// WriteDocxXML writes a Word document whose body is the given raw
// WordprocessingML.
func WriteDocxXML(t testing.TB, path, body string) {
	t.Helper()
	writeDocxBody(t, path, body)
}

func writeDocxBody(t testing.TB, path, body string) {
	t.Helper()
	mkdirFor(t, path)

	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()

	document := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`

	archive := zip.NewWriter(file)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", document},
	}
	for _, part := range parts {
		w, err := archive.Create(part.name)
		if err != nil {
			t.Fatalf("create part %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			t.Fatalf("write part %s: %v", part.name, err)
		}
	}
	if err := archive.Close(); err != nil {
		t.Fatalf("close docx: %v", err)
	}
}

func docxBody(paragraphs []string) string {
	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString("<w:p>")
		for i, line := range strings.Split(p, "\n") {
			if i > 0 {
				b.WriteString("<w:r><w:br/></w:r>")
			}
			for j, seg := range strings.Split(line, "\t") {
				if j > 0 {
					b.WriteString("<w:r><w:tab/></w:r>")
				}
				if seg == "" {
					continue
				}
				b.WriteString(`<w:r><w:t xml:space="preserve">`)
				_ = xml.EscapeText(&b, []byte(seg))
				b.WriteString("</w:t></w:r>")
			}
		}
		b.WriteString("</w:p>")
	}
	return b.String()
}

// WriteText writes a plain-text transcript with one unit per line.
func WriteText(t testing.TB, path string, lines ...string) {
	t.Helper()
	mkdirFor(t, path)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}
