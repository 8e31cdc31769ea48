package components

import "time"

// FileEntry represents a single scenario file for rendering.
type FileEntry struct {
	Path     string
	Scenario string
	Status   string
	Reason   string
	Err      error
	Duration time.Duration
}

// Detail returns the reason or error worth showing next to the entry.
func (e FileEntry) Detail() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

// FileList renders scenario files in dispatch order.
type FileList struct {
	entries []FileEntry
}

// NewFileList constructs a file list component. Paths missing from files
// are rendered as pending.
func NewFileList(order []string, files map[string]FileEntry) FileList {
	entries := make([]FileEntry, 0, len(order))
	for _, path := range order {
		entry, ok := files[path]
		if !ok {
			entry = FileEntry{Path: path, Status: "pending"}
		}
		entries = append(entries, entry)
	}
	return FileList{entries: entries}
}

// Entries returns the ordered file entries.
func (l FileList) Entries() []FileEntry {
	clone := make([]FileEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
