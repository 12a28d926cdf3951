package docextract

import (
	"strings"

	"github.com/unidoc/unioffice/document"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/fdslerr"
)

// docxChunks groups paragraphs until a heading-styled paragraph starts
// a new chunk; each table becomes its own chunk, rows joined by " | ".
func docxChunks(path string, b *budget.Budget) ([]string, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read DOCX '%s': %s", path, err)
	}
	defer doc.Close()

	var chunks []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(current, "\n"))
		if text != "" {
			chunks = append(chunks, text)
		}
		current = nil
	}

	for _, para := range doc.Paragraphs() {
		if err := b.Check("extract docx paragraph"); err != nil {
			return nil, err
		}
		text := paragraphText(para)
		if isHeadingStyle(para.Style()) && len(current) > 0 {
			flush()
		}
		if text != "" {
			current = append(current, text)
		}
	}
	flush()

	for _, tbl := range doc.Tables() {
		var rows []string
		for _, row := range tbl.Rows() {
			var cells []string
			for _, cell := range row.Cells() {
				var cellText []string
				for _, p := range cell.Paragraphs() {
					if t := paragraphText(p); t != "" {
						cellText = append(cellText, t)
					}
				}
				cells = append(cells, strings.Join(cellText, " "))
			}
			rows = append(rows, strings.Join(cells, " | "))
		}
		if len(rows) > 0 {
			chunks = append(chunks, strings.Join(rows, "\n"))
		}
	}

	return chunks, nil
}

func paragraphText(para document.Paragraph) string {
	var b strings.Builder
	for _, run := range para.Runs() {
		b.WriteString(run.Text())
	}
	return strings.TrimSpace(b.String())
}

func isHeadingStyle(style string) bool {
	return strings.HasPrefix(strings.ToLower(style), "heading")
}

// docxOutline uses heading-styled paragraphs as the table of contents,
// nesting by the numeral suffix of the style name ("Heading1" -> level 1).
func docxOutline(path string, maxItems int) ([]OutlineEntry, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read DOCX outline '%s': %s", path, err)
	}
	defer doc.Close()

	var entries []OutlineEntry
	for _, para := range doc.Paragraphs() {
		style := para.Style()
		if !isHeadingStyle(style) {
			continue
		}
		title := paragraphText(para)
		if title == "" {
			continue
		}
		entries = append(entries, OutlineEntry{Level: headingLevel(style), Title: title})
		if len(entries) >= maxItems {
			break
		}
	}
	return entries, nil
}

func headingLevel(style string) int {
	for i := len(style) - 1; i >= 0; i-- {
		if style[i] < '0' || style[i] > '9' {
			digits := style[i+1:]
			if digits == "" {
				return 1
			}
			level := 0
			for _, c := range digits {
				level = level*10 + int(c-'0')
			}
			if level < 1 {
				return 1
			}
			return level
		}
	}
	return 1
}
