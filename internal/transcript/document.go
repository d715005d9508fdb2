package transcript

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for transcript files with no reader.
var ErrUnsupportedFormat = errors.New("unsupported transcript format")

const (
	wordNamespace   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	compatNamespace = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	documentPart    = "word/document.xml"
	maxLineBytes    = 1 << 20
)

// Supported reports whether path has a transcript extension this package
// can read.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx", ".txt":
		return true
	default:
		return false
	}
}

// ReadParagraphs returns the text units of the transcript at path, each
// trimmed of surrounding whitespace.
func ReadParagraphs(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return readDocx(path)
	case ".txt":
		return readText(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

func readDocx(path string) ([]string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	for _, file := range archive.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", documentPart, err)
		}
		defer rc.Close()
		return decodeParagraphs(rc)
	}
	return nil, fmt.Errorf("docx %s: %s not found", filepath.Base(path), documentPart)
}

// decodeParagraphs streams WordprocessingML and yields one unit per w:p.
// Run content contributes w:t text, w:tab as a tab, and w:br or w:cr as a
// newline. Nested paragraphs (text boxes) are emitted as their own units.
// Word writes each text box twice, under mc:Choice and mc:Fallback; only the
// Choice copy is read.
func decodeParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	var (
		units  []string
		stack  []*strings.Builder
		runs   int
		inText bool
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == compatNamespace && t.Name.Local == "Fallback" {
				if err := decoder.Skip(); err != nil {
					return nil, fmt.Errorf("decode %s: %w", documentPart, err)
				}
				continue
			}
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				stack = append(stack, &strings.Builder{})
			case "r":
				runs++
			case "t":
				inText = runs > 0
			case "tab":
				if runs > 0 && len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\t')
				}
			case "br", "cr":
				if runs > 0 && len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "p":
				if len(stack) == 0 {
					continue
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				units = append(units, strings.TrimSpace(top.String()))
			case "r":
				if runs > 0 {
					runs--
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && len(stack) > 0 {
				stack[len(stack)-1].Write(t)
			}
		}
	}
	return units, nil
}

func readText(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	var units []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		units = append(units, strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return units, nil
}
