package model

import "time"

// Entry is one described file as recorded in the index.
type Entry struct {
	Path        string    // path relative to the indexed root
	Description string    // rendered description, may be a placeholder
	Provider    string    // provider that served the request, empty when none was called
	Size        int64     // content size in bytes
	RunID       string    // index run that produced this entry
	DescribedAt time.Time // our clock
}

// EntryStore persists described files.
type EntryStore interface {
	Save(entry Entry) error
	Get(path string) (Entry, bool, error)
	List(since time.Time) ([]Entry, error)
	Count() (int, error)
}

// Reporter emits the entries produced by an index run.
type Reporter interface {
	Report(entries []Entry) error
}

// FileFilter decides whether a file takes part in an index run.
type FileFilter interface {
	Match(path string, size int64) bool
	SkipDir(name string) bool
}
