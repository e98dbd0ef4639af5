package filter

import (
	"path/filepath"
	"strings"

	"github.com/amishk599/codedesc/internal/model"
)

// Ensure ExtensionFilter implements model.FileFilter.
var _ model.FileFilter = (*ExtensionFilter)(nil)

// ExtensionFilter matches files by extension and size and prunes excluded
// directories. Matching is case-insensitive. An empty extension list is
// treated as "match all".
type ExtensionFilter struct {
	extensions  []string
	excludeDirs []string
	maxSize     int64
}

// NewExtensionFilter returns a filter accepting files whose extension is in
// extensions and whose size does not exceed maxSize (0 means unlimited).
func NewExtensionFilter(extensions, excludeDirs []string, maxSize int64) *ExtensionFilter {
	return &ExtensionFilter{
		extensions:  extensions,
		excludeDirs: excludeDirs,
		maxSize:     maxSize,
	}
}

// Match returns true if the file's extension is accepted and it is not
// larger than the size limit.
func (f *ExtensionFilter) Match(path string, size int64) bool {
	if f.maxSize > 0 && size > f.maxSize {
		return false
	}
	if len(f.extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range f.extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// SkipDir returns true if a directory with this name must not be walked.
func (f *ExtensionFilter) SkipDir(name string) bool {
	for _, d := range f.excludeDirs {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}
