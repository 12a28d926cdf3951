package docextract

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/filesdsl/filesdsl/fdslerr"
)

// textChunks reads path as UTF-8 (invalid sequences replaced), splits
// into lines and groups them into blocks of chunkLines, trimmed.
func textChunks(path string, chunkLines int) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fdslerr.NewRuntimeError("Failed to read '%s': %s", path, err)
	}
	text := toValidUTF8(raw)
	if text == "" {
		return []string{""}, nil
	}

	lines := splitLines(text)
	if len(lines) == 0 {
		return []string{text}, nil
	}

	var chunks []string
	for start := 0; start < len(lines); start += chunkLines {
		end := start + chunkLines
		if end > len(lines) {
			end = len(lines)
		}
		block := strings.TrimSpace(strings.Join(lines[start:end], "\n"))
		chunks = append(chunks, block)
	}
	if len(chunks) == 0 {
		chunks = []string{text}
	}
	return chunks, nil
}

func toValidUTF8(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "�")
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, "\n")
}

var (
	numberedDotted = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(.+?)\.{2,}\s*(\d+)$`)
	numberedPlain  = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(.+?)\s+(\d+)$`)
	titledDotted   = regexp.MustCompile(`^(.+?)\.{2,}\s*(\d+)$`)
)

// textOutline scans the first eight chunks for table-of-contents-
// looking lines, deduplicating on (level, title, page).
func textOutline(chunks []string, maxItems int) []OutlineEntry {
	limit := chunks
	if len(limit) > 8 {
		limit = limit[:8]
	}

	type key struct {
		level int
		title string
		page  int
	}
	seen := make(map[key]bool)
	var entries []OutlineEntry

	for _, chunk := range limit {
		for _, raw := range strings.Split(chunk, "\n") {
			line := strings.TrimSpace(raw)
			if len(line) < 8 {
				continue
			}

			level := 1
			title := ""
			page := 0

			if m := numberedDotted.FindStringSubmatch(line); m != nil {
				title, page, level = titleFromNumbered(m)
			} else if m := numberedPlain.FindStringSubmatch(line); m != nil {
				title, page, level = titleFromNumbered(m)
			} else if m := titledDotted.FindStringSubmatch(line); m != nil {
				title = strings.TrimSpace(m[1])
				page, _ = strconv.Atoi(m[2])
			}

			if title == "" {
				continue
			}
			k := key{level, title, page}
			if seen[k] {
				continue
			}
			seen[k] = true
			entries = append(entries, OutlineEntry{Level: level, Title: title, Page: page})
			if len(entries) >= maxItems {
				return entries
			}
		}
	}
	return entries
}

func titleFromNumbered(m []string) (title string, page int, level int) {
	section := strings.TrimSpace(m[1])
	body := strings.TrimSpace(m[2])
	title = strings.TrimSpace(section + " " + body)
	page, _ = strconv.Atoi(m[3])
	level = strings.Count(section, ".") + 1
	return
}

// FormatOutlineTree renders entries as a 2-space-indented tree, with
// "(p.N)" suffixes where a page number is known.
func FormatOutlineTree(entries []OutlineEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		level := e.Level
		if level < 1 {
			level = 1
		}
		b.WriteString(strings.Repeat("  ", level-1))
		b.WriteString(e.Title)
		if e.Page > 0 {
			b.WriteString(" (p.")
			b.WriteString(strconv.Itoa(e.Page))
			b.WriteByte(')')
		}
	}
	return b.String()
}
