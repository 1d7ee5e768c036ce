package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chatgraph/chatgraph/internal/parse"
)

// File-name markers identifying structured-markup exports.
const (
	textMarker  = "- Text -"
	groupMarker = "Group Conversation -"
)

type FileInfo struct {
	Path   string
	Format parse.Format
}

// Expand resolves a path or glob pattern into the ordered list of
// documents to process. Directories are walked; single files are
// classified by name. Zero matches is an error, reported before any
// parsing begins.
func Expand(pattern string) ([]FileInfo, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no matching paths for %q", pattern)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", match, err)
		}
		if info.IsDir() {
			sub, err := scanDir(match)
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", match, err)
			}
			files = append(files, sub...)
			continue
		}
		files = append(files, FileInfo{Path: match, Format: Classify(match)})
	}
	return files, nil
}

// scanDir walks a directory tree collecting export documents: files whose
// name carries a structured-markup marker, plus .txt transcripts.
// Unreadable entries abort the walk; a directory run has no
// partial-recovery mode.
func scanDir(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		switch {
		case strings.Contains(base, textMarker) || strings.Contains(base, groupMarker):
			files = append(files, FileInfo{Path: path, Format: parse.FormatHTML})
		case filepath.Ext(path) == ".txt":
			files = append(files, FileInfo{Path: path, Format: parse.FormatTextLog})
		}
		return nil
	})
	return files, err
}

// Classify picks the parser format for a single explicitly-named file.
// Anything without a structured-markup marker is treated as a
// line-oriented transcript.
func Classify(path string) parse.Format {
	base := filepath.Base(path)
	if strings.Contains(base, textMarker) ||
		strings.Contains(base, groupMarker) ||
		filepath.Ext(base) == ".html" {
		return parse.FormatHTML
	}
	return parse.FormatTextLog
}
