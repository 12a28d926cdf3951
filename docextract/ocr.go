package docextract

// OCRProvider is the capability probe for image-only PDF pages: the
// core never implements OCR itself (spec.md §1 names it out of
// scope), but extraction consults OCR when it is non-nil and a PDF
// page's extracted text comes back empty. A host process wires a
// provider in only when it has one and its configuration enables it.
type OCRProvider interface {
	ExtractText(path string, pageNum int) (string, error)
}

// OCR is the process-wide capability probe. Left nil, pdfChunks simply
// keeps the empty page text it already extracted.
var OCR OCRProvider
