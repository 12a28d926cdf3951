package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/filesdsl/filesdsl/fdslerr"
)

// Directory is a sandboxed handle to a subtree of documents. Like
// File, it owns no resources directly: it holds a normalized absolute
// path, a recursion default, and a display-root for relative printing.
type Directory struct {
	AbsPath     string
	Recursive   bool
	DisplayRoot string
}

// NewDirectory constructs a Directory rooted at absPath. Construction
// fails unless absPath exists as a directory on disk, or the
// semantic index (if any) has at least one indexed file under it.
func NewDirectory(ctx *Context, absPath string, recursive bool, displayRoot string) (*Directory, error) {
	d := &Directory{AbsPath: absPath, Recursive: recursive, DisplayRoot: displayRoot}
	if dirExistsOnDisk(absPath) {
		return d, nil
	}
	if ctx.Index != nil {
		if _, covered, err := ctx.Index.FilesUnderPrefix(absPath, true); err != nil {
			return nil, err
		} else if covered {
			return d, nil
		}
	}
	return nil, fdslerr.NewRuntimeError("Directory does not exist: %s", displayPath(absPath, displayRoot))
}

func dirExistsOnDisk(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DisplayPath renders the directory's path relative to its display
// root when possible, otherwise absolute.
func (d *Directory) DisplayPath() string {
	return displayPath(d.AbsPath, d.DisplayRoot)
}

// Files returns the File objects under the directory honoring
// recursive when non-nil, else the directory's own Recursive flag.
// The semantic index is consulted first if it covers this directory.
func (d *Directory) Files(ctx *Context, recursive *bool) ([]*File, error) {
	effectiveRecursive := d.Recursive
	if recursive != nil {
		effectiveRecursive = *recursive
	}

	if ctx.Index != nil {
		if paths, covered, err := ctx.Index.FilesUnderPrefix(d.AbsPath, effectiveRecursive); err != nil {
			return nil, err
		} else if covered {
			sort.Strings(paths)
			files := make([]*File, len(paths))
			for i, p := range paths {
				files[i] = NewFile(p, d.DisplayRoot)
			}
			return files, nil
		}
	}

	paths, err := d.walkDisk(effectiveRecursive)
	if err != nil {
		return nil, err
	}
	files := make([]*File, len(paths))
	for i, p := range paths {
		files[i] = NewFile(p, d.DisplayRoot)
	}
	return files, nil
}

func (d *Directory) walkDisk(recursive bool) ([]string, error) {
	var paths []string
	if recursive {
		err := filepath.Walk(d.AbsPath, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fdslerr.NewRuntimeError("Failed to list directory %s: %s", d.DisplayPath(), err)
		}
	} else {
		entries, err := os.ReadDir(d.AbsPath)
		if err != nil {
			return nil, fdslerr.NewRuntimeError("Failed to list directory %s: %s", d.DisplayPath(), err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				paths = append(paths, filepath.Join(d.AbsPath, e.Name()))
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Len returns the number of files visible to the directory, honoring
// its Recursive flag.
func (d *Directory) Len(ctx *Context) (int, error) {
	files, err := d.Files(ctx, nil)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// Search matches pattern against file name/content depending on
// scope, iterating with recursive/ignoreCase overrides.
func (d *Directory) Search(ctx *Context, pattern, scope string, inContent bool, recursive *bool, ignoreCase bool) ([]*File, error) {
	if inContent {
		scope = "content"
	}
	if scope != "name" && scope != "content" && scope != "both" {
		return nil, fdslerr.NewRuntimeError("scope must be one of: 'name', 'content', 'both'")
	}

	re, err := compileRegex(pattern, ignoreCase)
	if err != nil {
		return nil, err
	}

	files, err := d.Files(ctx, recursive)
	if err != nil {
		return nil, err
	}

	var matches []*File
	for _, file := range files {
		if err := ctx.Budget.Check("directory search"); err != nil {
			return nil, err
		}
		rel, relErr := filepath.Rel(d.AbsPath, file.AbsPath)
		if relErr != nil {
			rel = file.AbsPath
		}
		relPosix := filepath.ToSlash(rel)
		nameMatch := re.MatchString(filepath.Base(file.AbsPath)) || re.MatchString(relPosix)

		var contentMatch bool
		if scope == "content" || scope == "both" {
			contentMatch, err = file.Contains(ctx, pattern, ignoreCase)
			if err != nil {
				return nil, err
			}
		}

		switch scope {
		case "name":
			if nameMatch {
				matches = append(matches, file)
			}
		case "content":
			if contentMatch {
				matches = append(matches, file)
			}
		case "both":
			if nameMatch || contentMatch {
				matches = append(matches, file)
			}
		}
	}
	return matches, nil
}

// Tree renders a textual tree of the directory, directories before
// files, case-insensitive within each group, truncated at maxEntries.
func (d *Directory) Tree(maxDepth, maxEntries int) (string, error) {
	var b strings.Builder
	b.WriteString(d.DisplayPath())
	b.WriteByte('/')
	count := 0
	truncated := false
	if err := d.writeTreeLevel(&b, d.AbsPath, 1, maxDepth, maxEntries, &count, &truncated); err != nil {
		return "", err
	}
	if truncated {
		fmt.Fprintf(&b, "\n... truncated after %d entries", maxEntries)
	}
	return b.String(), nil
}

func (d *Directory) writeTreeLevel(b *strings.Builder, dir string, depth, maxDepth, maxEntries int, count *int, truncated *bool) error {
	if depth > maxDepth || *truncated {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fdslerr.NewRuntimeError("Failed to list directory %s: %s", dir, err)
	}

	var dirs, files []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}
	sortEntriesCaseInsensitive(dirs)
	sortEntriesCaseInsensitive(files)

	indent := strings.Repeat("  ", depth)
	for _, e := range dirs {
		if *count >= maxEntries {
			*truncated = true
			return nil
		}
		*count++
		fmt.Fprintf(b, "\n%s%s/", indent, e.Name())
		if err := d.writeTreeLevel(b, filepath.Join(dir, e.Name()), depth+1, maxDepth, maxEntries, count, truncated); err != nil {
			return err
		}
		if *truncated {
			return nil
		}
	}
	for _, e := range files {
		if *count >= maxEntries {
			*truncated = true
			return nil
		}
		*count++
		fmt.Fprintf(b, "\n%s%s", indent, e.Name())
	}
	return nil
}

func sortEntriesCaseInsensitive(entries []os.DirEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})
}
