// Package cache inspects and cleans the directory holding the package snapshot.
package cache

import (
	"os"
	"path/filepath"

	"github.com/cperrin88/apkg/pkg/database"
	"github.com/cperrin88/apkg/pkg/errors"
)

// DefaultManager implements the Manager interface for cache operations.
type DefaultManager struct {
	directory string
}

// NewManager creates a new cache manager.
func NewManager(directory string) *DefaultManager {
	return &DefaultManager{
		directory: directory,
	}
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

// SnapshotPath returns the location of the package snapshot.
func (cm *DefaultManager) SnapshotPath() string {
	return filepath.Join(cm.directory, database.SnapshotFileName)
}

// Clean removes the snapshot, or every file in the cache directory with options.All.
func (cm *DefaultManager) Clean(options CleanOptions) (*CleanResult, error) {
	if cm.directory == "" {
		return nil, ErrCacheDirectory
	}
	result := &CleanResult{}

	info, err := os.Stat(cm.SnapshotPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrCacheClean, "%v", err)
	}
	hasSnapshot := err == nil

	if options.All {
		size, count, err := cleanDirectory(cm.directory)
		if err != nil {
			return nil, errors.Wrapf(ErrCacheClean, "%v", err)
		}
		result.TotalFreed = size
		result.FilesRemoved = count
		if hasSnapshot {
			result.SnapshotFreed = info.Size()
		}
		return result, nil
	}

	if !hasSnapshot {
		return result, nil
	}
	if err := os.Remove(cm.SnapshotPath()); err != nil {
		return nil, errors.Wrapf(ErrCacheClean, "%v", err)
	}
	result.SnapshotFreed = info.Size()
	result.TotalFreed = info.Size()
	result.FilesRemoved = 1
	return result, nil
}

// GetInfo reports the snapshot size and record count plus the directory totals.
// A missing directory or snapshot yields zero values.
func (cm *DefaultManager) GetInfo() (*Info, error) {
	info := &Info{
		Directory:    cm.directory,
		SnapshotPath: cm.SnapshotPath(),
	}

	size, files, err := getDirSizeAndFiles(cm.directory)
	if err != nil {
		return nil, errors.Wrapf(ErrCacheInfo, "%v", err)
	}
	info.TotalSize = size
	info.TotalFiles = files

	st, err := os.Stat(info.SnapshotPath)
	if os.IsNotExist(err) {
		return info, nil
	}
	if err != nil {
		return nil, errors.Wrapf(ErrCacheInfo, "%v", err)
	}
	info.SnapshotSize = st.Size()

	db := database.New(cm.directory)
	if err := db.Load(info.SnapshotPath); err != nil {
		return nil, errors.Wrapf(ErrCacheInfo, "%v", err)
	}
	info.Packages = db.Len()
	info.LastUpdate = db.LastUpdate()

	return info, nil
}

// cleanDirectory removes every entry below dir and returns bytes and files freed.
func cleanDirectory(dir string) (int64, int, error) {
	size, count, err := getDirSizeAndFiles(dir)
	if err != nil {
		return 0, 0, err
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, errors.Wrapf(err, "failed to read directory %s", dir)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return 0, 0, errors.Wrapf(err, "failed to remove %s", entry.Name())
		}
	}
	return size, count, nil
}

// getDirSizeAndFiles calculates directory size and file count.
func getDirSizeAndFiles(dir string) (size int64, count int, err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}

	err = filepath.Walk(dir, func(_ string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !info.IsDir() {
			size += info.Size()
			count++
		}
		return nil
	})
	if err != nil {
		err = errors.Wrapf(err, "error walking directory %s", dir)
	}
	return size, count, err
}
