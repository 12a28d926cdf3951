// Package semantic implements the prepare-once/query-many on-disk
// vector index: a flat JSON records/vectors store plus a deterministic
// hashing embedder, used both to answer semantic_search queries and to
// transparently serve File/Directory reads after a folder has been
// prepared and its original documents are gone.
package semantic

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/docextract"
	"github.com/filesdsl/filesdsl/fdslerr"
	"github.com/filesdsl/filesdsl/textnorm"
)

const batchSize = 64

// PrepareStats summarizes a completed Prepare call for CLI reporting.
type PrepareStats struct {
	Folder       string
	DBPath       string
	IndexedFiles int
	IndexedPages int
}

// Store is the shared, concurrency-safe handle to every reachable
// on-disk semantic index, caching loaded records/vectors in memory.
type Store struct {
	cache  *cache
	Logger *logrus.Logger // optional; nil means no logging
}

// NewStore creates a Store whose cache holds at least 8 distinct
// prepared indexes, per spec.md §4.7.
func NewStore() *Store {
	return &Store{cache: newCache(8)}
}

// logField logs at debug level through s.Logger when one is set;
// Prepare's caller (the CLI) is the only place that sets it, so
// library embedders get silence by default.
func (s *Store) logField(key, value string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithField(key, value).Debug("semantic index: processed")
}

// Prepare builds (or rebuilds) the semantic index for folder.
func (s *Store) Prepare(folder string, b *budget.Budget) (*PrepareStats, error) {
	target, err := filepath.Abs(folder)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("cannot resolve folder %q: %s", folder, err)
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Folder does not exist: %s", target)
	}
	if !info.IsDir() {
		return nil, fdslerr.NewRuntimeError("Path is not a directory: %s", target)
	}

	dbPath := filepath.Join(target, IndexDirName)

	paths, err := documentPaths(target)
	if err != nil {
		return nil, err
	}

	var records []Record
	var vectors [][]float64
	indexedFiles := 0
	indexedPages := 0

	for _, path := range paths {
		if err := b.Check("prepare file"); err != nil {
			return nil, err
		}
		relPath := filepath.ToSlash(mustRel(target, path))
		chunks, err := docextract.Chunks(path, b)
		if err != nil {
			return nil, err
		}
		indexedFiles++
		s.logField("file", relPath)

		for i, pageText := range chunks {
			if err := b.Check("prepare page batch"); err != nil {
				return nil, err
			}
			cleaned := strings.TrimSpace(textnorm.Normalize(pageText))
			page := i + 1
			embeddingInput := fmt.Sprintf("File: %s", relPath)
			if cleaned != "" {
				embeddingInput = fmt.Sprintf("File: %s\n%s", relPath, cleaned)
			}
			records = append(records, Record{
				RelativePath: relPath,
				FileName:     filepath.Base(path),
				Page:         page,
				Text:         cleaned,
			})
			vectors = append(vectors, Embed(embeddingInput))
			indexedPages++
		}
	}

	markerContent := newMarkerToken()
	if err := writeIndex(target, records, vectors, markerContent); err != nil {
		return nil, err
	}

	return &PrepareStats{
		Folder:       target,
		DBPath:       dbPath,
		IndexedFiles: indexedFiles,
		IndexedPages: indexedPages,
	}, nil
}

func newMarkerToken() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "fdsl-index"
	}
	return id.String()
}

// documentPaths walks folder recursively in sorted order, skipping the
// index subfolder and its descendants.
func documentPaths(folder string) ([]string, error) {
	indexDir := filepath.Join(folder, IndexDirName)
	var paths []string
	err := filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path == indexDir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(path, indexDir+string(filepath.Separator)) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to walk folder %s: %s", folder, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func mustRel(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}

// ChunksForFile implements runtime.SemanticProvider: returns a file's
// indexed pages (sorted by page number) if a reachable index covers
// it.
func (s *Store) ChunksForFile(absPath string) ([]string, bool, error) {
	root, ok := findIndexRoot(absPath)
	if !ok {
		return nil, false, nil
	}
	idx, err := loadIndex(s.cache, root)
	if err != nil {
		return nil, false, err
	}
	rel := filepath.ToSlash(mustRel(root, absPath))
	entries, ok := idx.byRelPath[rel]
	if !ok {
		return nil, false, nil
	}
	chunks := make([]string, len(entries))
	for i, e := range entries {
		chunks[i] = e.text
	}
	return chunks, true, nil
}

// SearchFilePages implements runtime.SemanticProvider: ranks a file's
// indexed pages by cosine similarity to query.
func (s *Store) SearchFilePages(absPath, query string, topK int) ([]int, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, fdslerr.NewRuntimeError("query must be a non-empty string")
	}
	if topK < 1 {
		return nil, fdslerr.NewRuntimeError("top_k must be a positive integer")
	}

	root, ok := findIndexRoot(absPath)
	if !ok {
		return nil, &fdslerr.MissingIndexError{FilePath: absPath}
	}
	idx, err := loadIndex(s.cache, root)
	if err != nil {
		return nil, err
	}
	rel := filepath.ToSlash(mustRel(root, absPath))
	entries, ok := idx.byRelPath[rel]
	if !ok {
		return nil, &fdslerr.MissingIndexError{FilePath: absPath}
	}

	queryVec := Embed(trimmed)
	type scored struct {
		page  int
		score float64
	}
	var results []scored
	for _, e := range entries {
		score := CosineSimilarity(queryVec, idx.vectors[e.vectorIndex])
		results = append(results, scored{page: e.page, score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].page < results[j].page
	})
	if len(results) > topK {
		results = results[:topK]
	}
	pages := make([]int, len(results))
	for i, r := range results {
		pages[i] = r.page
	}
	return pages, nil
}

// FilesUnderPrefix implements runtime.SemanticProvider: returns the
// absolute paths of indexed files under dirAbsPath. recursive=false
// only returns files whose parent directory equals dirAbsPath.
func (s *Store) FilesUnderPrefix(dirAbsPath string, recursive bool) ([]string, bool, error) {
	root, ok := findIndexRoot(dirAbsPath)
	if !ok {
		// dirAbsPath itself may be the indexed root.
		if info, err := os.Stat(filepath.Join(dirAbsPath, IndexDirName)); err == nil && info.IsDir() {
			root = dirAbsPath
			ok = true
		}
	}
	if !ok {
		return nil, false, nil
	}
	idx, err := loadIndex(s.cache, root)
	if err != nil {
		return nil, false, err
	}

	prefixRel := filepath.ToSlash(mustRel(root, dirAbsPath))
	var paths []string
	seen := make(map[string]bool)
	for relPath := range idx.byRelPath {
		if !underPrefix(relPath, prefixRel, recursive) {
			continue
		}
		abs := filepath.Join(root, filepath.FromSlash(relPath))
		if !seen[abs] {
			seen[abs] = true
			paths = append(paths, abs)
		}
	}
	sort.Strings(paths)
	return paths, true, nil
}

func underPrefix(relPath, prefix string, recursive bool) bool {
	if prefix == "." || prefix == "" {
		if recursive {
			return true
		}
		return !strings.Contains(relPath, "/")
	}
	if !strings.HasPrefix(relPath, prefix+"/") {
		return false
	}
	if recursive {
		return true
	}
	rest := strings.TrimPrefix(relPath, prefix+"/")
	return !strings.Contains(rest, "/")
}
