package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/filesdsl/filesdsl/docextract"
	"github.com/filesdsl/filesdsl/fdslerr"
)

// File is a sandboxed handle to one document, exposing a uniform
// "chunks" (pages) view regardless of underlying format. Neither File
// nor Directory owns its target; both hold a normalized absolute path
// plus a display-root used to render relative paths back to callers.
type File struct {
	AbsPath     string
	DisplayRoot string

	chunksCache  []string
	fromIndex    bool
	chunksLoaded bool
}

// NewFile constructs a File at absPath. Existence (on disk or in a
// reachable semantic index) is checked lazily on first chunk access,
// matching the original's lazy page materialization.
func NewFile(absPath, displayRoot string) *File {
	return &File{AbsPath: absPath, DisplayRoot: displayRoot}
}

// NewFileChecked constructs a File, failing immediately unless absPath
// exists on disk or a reachable semantic index covers it, per the
// File() built-in's construction invariant.
func NewFileChecked(ctx *Context, absPath, displayRoot string) (*File, error) {
	f := NewFile(absPath, displayRoot)
	if fileExistsOnDisk(absPath) {
		return f, nil
	}
	if ctx.Index != nil {
		if _, covered, err := ctx.Index.ChunksForFile(absPath); err != nil {
			return nil, err
		} else if covered {
			return f, nil
		}
	}
	return nil, fdslerr.NewRuntimeError("File does not exist: %s", displayPath(absPath, displayRoot))
}

// DisplayPath renders the file's path relative to its display root
// when possible, otherwise absolute.
func (f *File) DisplayPath() string {
	return displayPath(f.AbsPath, f.DisplayRoot)
}

func displayPath(abs, root string) string {
	if root == "" {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

// chunks materializes and caches the file's pages: from the semantic
// index if it covers this file, otherwise from live disk.
func (f *File) chunks(ctx *Context) ([]string, error) {
	if f.chunksLoaded {
		return f.chunksCache, nil
	}

	if ctx.Index != nil {
		if chunks, covered, err := ctx.Index.ChunksForFile(f.AbsPath); err != nil {
			return nil, err
		} else if covered {
			f.chunksCache, f.fromIndex, f.chunksLoaded = ensureNonEmpty(chunks), true, true
			return f.chunksCache, nil
		}
	}

	if !fileExistsOnDisk(f.AbsPath) {
		return nil, fdslerr.NewRuntimeError("File does not exist: %s", f.DisplayPath())
	}
	chunks, err := docextract.Chunks(f.AbsPath, ctx.Budget)
	if err != nil {
		return nil, err
	}
	f.chunksCache, f.fromIndex, f.chunksLoaded = ensureNonEmpty(chunks), false, true
	return f.chunksCache, nil
}

func ensureNonEmpty(chunks []string) []string {
	if len(chunks) == 0 {
		return []string{""}
	}
	return chunks
}

func fileExistsOnDisk(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read returns pages joined by "\n\n" when pages is nil, or the
// selected pages (1-based, deduplicated by first occurrence, in
// request order) when pages is non-nil.
func (f *File) Read(ctx *Context, pages []int64) (Value, error) {
	chunks, err := f.chunks(ctx)
	if err != nil {
		return Value{}, err
	}
	if pages == nil {
		return Str(strings.Join(chunks, "\n\n")), nil
	}
	normalized, err := f.normalizePages(pages, len(chunks))
	if err != nil {
		return Value{}, err
	}
	result := make([]Value, len(normalized))
	for i, p := range normalized {
		result[i] = Str(chunks[p-1])
	}
	return Seq(result), nil
}

func (f *File) normalizePages(pages []int64, totalPages int) ([]int64, error) {
	var normalized []int64
	seen := make(map[int64]bool)
	for _, p := range pages {
		if p < 1 || int(p) > totalPages {
			return nil, fdslerr.NewRuntimeError(
				"Page %d is out of range for %s (1..%d)", p, filepath.Base(f.AbsPath), totalPages)
		}
		if !seen[p] {
			seen[p] = true
			normalized = append(normalized, p)
		}
	}
	return normalized, nil
}

func compileRegex(pattern string, ignoreCase bool) (*regexp.Regexp, error) {
	expr := pattern
	if ignoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Invalid regex pattern: %s", err)
	}
	return re, nil
}

// Search returns the 1-based page numbers whose chunk matches pattern.
func (f *File) Search(ctx *Context, pattern string, ignoreCase bool) ([]int64, error) {
	chunks, err := f.chunks(ctx)
	if err != nil {
		return nil, err
	}
	re, err := compileRegex(pattern, ignoreCase)
	if err != nil {
		return nil, err
	}
	var matches []int64
	for i, chunk := range chunks {
		if re.MatchString(chunk) {
			matches = append(matches, int64(i+1))
		}
	}
	return matches, nil
}

// Contains reports whether Search would return a non-empty result.
func (f *File) Contains(ctx *Context, pattern string, ignoreCase bool) (bool, error) {
	matches, err := f.Search(ctx, pattern, ignoreCase)
	if err != nil {
		return false, err
	}
	return len(matches) > 0, nil
}

// Head returns the first page, or "" if the file has no chunks.
func (f *File) Head(ctx *Context) (string, error) {
	chunks, err := f.chunks(ctx)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", nil
	}
	return chunks[0], nil
}

// Tail returns the last page, or "" if the file has no chunks.
func (f *File) Tail(ctx *Context) (string, error) {
	chunks, err := f.chunks(ctx)
	if err != nil {
		return "", err
	}
	if len(chunks) == 0 {
		return "", nil
	}
	return chunks[len(chunks)-1], nil
}

// Table renders the document's table of contents, preferring a
// format-native outline and falling back to a text-pattern scan.
func (f *File) Table(ctx *Context, maxItems int) (string, error) {
	if maxItems < 1 {
		return "", fdslerr.NewRuntimeError("max_items must be a positive integer")
	}
	chunks, err := f.chunks(ctx)
	if err != nil {
		return "", err
	}
	entries, err := docextract.Outline(f.AbsPath, chunks, maxItems)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return fmt.Sprintf("No table of contents detected for %s", f.DisplayPath()), nil
	}
	return docextract.FormatOutlineTree(entries), nil
}

// Snippets returns up to maxResults excerpts of the form
// "[page N] <text>", contextChars on each side of the match.
func (f *File) Snippets(ctx *Context, pattern string, maxResults, contextChars int, ignoreCase bool) ([]string, error) {
	if maxResults < 1 {
		return nil, fdslerr.NewRuntimeError("max_results must be a positive integer")
	}
	if contextChars < 0 {
		return nil, fdslerr.NewRuntimeError("context_chars must be a non-negative integer")
	}
	chunks, err := f.chunks(ctx)
	if err != nil {
		return nil, err
	}
	re, err := compileRegex(pattern, ignoreCase)
	if err != nil {
		return nil, err
	}

	var snippets []string
	for pageIndex, chunk := range chunks {
		runes := []rune(chunk)
		locs := re.FindAllStringIndex(chunk, -1)
		for _, loc := range locs {
			startRune := byteToRuneIndex(chunk, loc[0])
			endRune := byteToRuneIndex(chunk, loc[1])
			start := startRune - contextChars
			if start < 0 {
				start = 0
			}
			end := endRune + contextChars
			if end > len(runes) {
				end = len(runes)
			}
			excerpt := strings.TrimSpace(strings.ReplaceAll(string(runes[start:end]), "\n", " "))
			snippets = append(snippets, fmt.Sprintf("[page %d] %s", pageIndex+1, excerpt))
			if len(snippets) >= maxResults {
				return snippets, nil
			}
		}
	}
	return snippets, nil
}

func byteToRuneIndex(s string, byteIdx int) int {
	return len([]rune(s[:byteIdx]))
}

// SemanticSearch ranks this file's indexed pages by cosine similarity
// against query, returning up to topK 1-based page numbers.
func (f *File) SemanticSearch(ctx *Context, query string, topK int) ([]int64, error) {
	if ctx.Index == nil {
		return nil, &fdslerr.MissingIndexError{FilePath: f.DisplayPath()}
	}
	pages, err := ctx.Index.SearchFilePages(f.AbsPath, query, topK)
	if err != nil {
		return nil, err
	}
	result := make([]int64, len(pages))
	for i, p := range pages {
		result[i] = int64(p)
	}
	return result, nil
}
