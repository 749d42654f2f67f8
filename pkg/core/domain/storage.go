package domain

import "time"

// StoredFile is an entry in the file index kept next to the records.
type StoredFile struct {
	Path        string    `json:"path"` // collection/recordID/filename
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType"`
	Created     time.Time `json:"created"`
}

// BrowseEntry is one row of a storage listing: a file or a collapsed folder.
type BrowseEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	IsDir       bool   `json:"isDir"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	URL         string `json:"url,omitempty"`
}
