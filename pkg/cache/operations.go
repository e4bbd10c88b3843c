package cache

import (
	"fmt"
	"time"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/dustin/go-humanize"
)

// Operation renders cache operations as user facing messages.
type Operation struct {
	manager Manager
}

// NewOperation creates a new cache operation instance.
func NewOperation(manager Manager) *Operation {
	return &Operation{
		manager: manager,
	}
}

// Clean cleans the cache and describes what was removed.
func (op *Operation) Clean(all bool) (string, error) {
	logger.Debug("Cleaning cache", logger.Fields{
		"directory": op.manager.GetDirectory(),
		"all":       all,
	})

	result, err := op.manager.Clean(CleanOptions{All: all})
	if err != nil {
		return "", err
	}

	if result.FilesRemoved == 0 {
		return "No files were removed from the cache.", nil
	}

	msg := fmt.Sprintf("Successfully cleaned cache. Freed %s of disk space.", humanize.Bytes(uint64(result.TotalFreed)))
	if result.SnapshotFreed > 0 {
		msg += fmt.Sprintf("\n- Package snapshot: %s", humanize.Bytes(uint64(result.SnapshotFreed)))
	}
	return msg, nil
}

// GetInfo returns a summary of the cache contents.
func (op *Operation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", err
	}

	lastUpdate := "never"
	if !info.LastUpdate.IsZero() {
		lastUpdate = fmt.Sprintf("%s (%s)", info.LastUpdate.Format(time.RFC1123), humanize.Time(info.LastUpdate))
	}

	return fmt.Sprintf(`Cache Information:
  Directory:     %s
  Total Size:    %s (%d files)
  Snapshot:      %s
  Snapshot Size: %s
  Packages:      %s
  Last Update:   %s`,
		info.Directory,
		humanize.Bytes(uint64(info.TotalSize)),
		info.TotalFiles,
		info.SnapshotPath,
		humanize.Bytes(uint64(info.SnapshotSize)),
		humanize.Comma(int64(info.Packages)),
		lastUpdate,
	), nil
}

// GetDirectory returns the cache directory path.
func (op *Operation) GetDirectory() string {
	return op.manager.GetDirectory()
}
