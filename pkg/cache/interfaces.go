package cache

import "time"

// Manager defines the interface for cache management operations.
type Manager interface {
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo() (*Info, error)
	GetDirectory() string
}

// CleanOptions specifies what to clean from the cache.
// Without All only the package snapshot is removed.
type CleanOptions struct {
	All bool
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed    int64
	SnapshotFreed int64
	FilesRemoved  int
}

// Info represents cache information.
type Info struct {
	Directory    string
	SnapshotPath string
	SnapshotSize int64
	Packages     int
	LastUpdate   time.Time
	TotalSize    int64
	TotalFiles   int
}
