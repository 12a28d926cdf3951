// Package docextract produces the uniform "chunk" (page) view of a
// document that the DSL's File object exposes, dispatching by file
// extension the way the teacher's sqlparser.NewDocumentFromExtension
// dispatches parsing by extension. It also produces a best-effort
// table-of-contents outline, preferring each format's native outline
// and falling back to a text-pattern scan.
package docextract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/fdslerr"
)

// DefaultTextChunkLines is the block size used to chunk plain-text
// files absent any other structure.
const DefaultTextChunkLines = 80

// TextChunkLines is the block size Chunks actually uses for plain-text
// and XML-fallback extraction. It starts at DefaultTextChunkLines and
// is the one process-wide knob a host process overrides at startup
// from its own configuration (internal/config's chunk_lines), the
// same way OCR is a process-wide capability probe the host wires in.
var TextChunkLines = DefaultTextChunkLines

// OutlineEntry is one row of a detected table of contents.
type OutlineEntry struct {
	Level int
	Title string
	Page  int // 0 means "no page number known"
}

// Chunks extracts the ordered page/paragraph/slide text for path,
// dispatched by file extension. The result is never empty: a
// documentless file yields []string{""}.
func Chunks(path string, b *budget.Budget) ([]string, error) {
	if err := b.Check("extract chunks"); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var chunks []string
	var err error
	switch ext {
	case ".pdf":
		chunks, err = pdfChunks(path, b)
	case ".docx":
		chunks, err = docxChunks(path, b)
		if err != nil {
			chunks, err = fallbackXMLChunks(path, b)
		}
	case ".pptx":
		chunks, err = pptxChunks(path, b)
		if err != nil {
			chunks, err = fallbackXMLChunks(path, b)
		}
	default:
		chunks, err = textChunks(path, TextChunkLines)
	}
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	return chunks, nil
}

// Outline produces up to maxItems table-of-contents entries for path,
// preferring the format's native outline and falling back to a
// text-pattern scan of the first eight chunks.
func Outline(path string, chunks []string, maxItems int) ([]OutlineEntry, error) {
	if maxItems < 1 {
		return nil, fdslerr.NewRuntimeError("max_items must be a positive integer")
	}
	ext := strings.ToLower(filepath.Ext(path))
	var entries []OutlineEntry
	var err error
	switch ext {
	case ".pdf":
		entries, err = pdfOutline(path, maxItems)
	case ".docx":
		entries, err = docxOutline(path, maxItems)
	case ".pptx":
		entries, err = pptxOutline(path, maxItems)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		entries = textOutline(chunks, maxItems)
	}
	return entries, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
