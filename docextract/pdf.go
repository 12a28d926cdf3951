package docextract

import (
	"os"
	"strings"

	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/fdslerr"
)

// pdfChunks extracts one text chunk per PDF page, trimmed.
func pdfChunks(path string, b *budget.Budget) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read PDF '%s': %s", path, err)
	}
	defer f.Close()

	reader, err := model.NewPdfReader(f)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read PDF '%s': %s", path, err)
	}
	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read PDF '%s': %s", path, err)
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := b.Check("extract pdf page"); err != nil {
			return nil, err
		}
		page, err := reader.GetPage(i)
		if err != nil {
			return nil, fdslerr.NewRuntimeError("Failed to read PDF page %d of '%s': %s", i, path, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		text, err := ex.ExtractText()
		if err != nil {
			text = ""
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" && OCR != nil {
			if ocrText, ocrErr := OCR.ExtractText(path, i); ocrErr == nil {
				trimmed = strings.TrimSpace(ocrText)
			}
		}
		pages = append(pages, trimmed)
	}
	return pages, nil
}

// pdfOutline reads the PDF's native bookmark/outline tree, flattening
// it into up to maxItems entries in document order.
func pdfOutline(path string, maxItems int) ([]OutlineEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read PDF outline '%s': %s", path, err)
	}
	defer f.Close()

	reader, err := model.NewPdfReader(f)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read PDF outline '%s': %s", path, err)
	}

	tree, err := reader.GetOutlineTree()
	if err != nil || tree == nil {
		return nil, nil
	}

	var entries []OutlineEntry
	walkOutline(reader, tree, 1, &entries, maxItems)
	return entries, nil
}

// walkOutline flattens unipdf's outline tree (siblings via Next, a
// nested level via Sub/First) into leveled entries.
func walkOutline(reader *model.PdfReader, node *model.PdfOutlineTreeNode, level int, entries *[]OutlineEntry, maxItems int) {
	if node == nil || len(*entries) >= maxItems {
		return
	}
	item, ok := node.Context.(*model.PdfOutlineItem)
	if ok && item != nil {
		title := strings.TrimSpace(item.Title.Decoded())
		if title != "" {
			page := 0
			if item.Dest != nil && item.Dest.Page != nil {
				if idx, err := resolvePageNumber(reader, item.Dest.Page); err == nil {
					page = idx
				}
			}
			*entries = append(*entries, OutlineEntry{Level: level, Title: title, Page: page})
		}
	}
	if len(*entries) >= maxItems {
		return
	}
	if item, ok := node.Context.(*model.PdfOutlineItem); ok && item != nil {
		if item.First != nil {
			walkOutline(reader, &item.First.PdfOutlineTreeNode, level+1, entries, maxItems)
		}
		if item.Next != nil {
			walkOutline(reader, &item.Next.PdfOutlineTreeNode, level, entries, maxItems)
		}
	}
}

// resolvePageNumber maps a destination's page object reference to a
// 1-based page index by matching it against reader's page list, the
// same indirect object identity unipdf uses internally to serialize a
// page back to its dictionary. Destinations unipdf could not resolve
// to one of reader's own pages (a malformed or cross-document
// reference) are treated as "no page known" by the caller, which is
// why this still returns an error instead of guessing a page number.
func resolvePageNumber(reader *model.PdfReader, pageRef interface{}) (int, error) {
	obj, ok := pageRef.(core.PdfObject)
	if !ok || reader == nil {
		return 0, fdslerr.NewRuntimeError("page reference could not be resolved")
	}
	for idx, page := range reader.PageList {
		if page.GetContainingPdfObject() == obj {
			return idx + 1, nil
		}
	}
	return 0, fdslerr.NewRuntimeError("page reference could not be resolved")
}
