// Package database provides the JSON-backed aggregation store for canonical packages.
package database

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/fsutil"
	"github.com/cperrin88/apkg/pkg/model"
	"github.com/hashicorp/go-version"
)

const (
	// SnapshotFileName is the name of the snapshot inside the cache directory.
	SnapshotFileName = "packages.json"

	// FormatVersion is written into every snapshot.
	FormatVersion = "1.0"

	// SupportedFormats is the range of snapshot versions Load accepts.
	SupportedFormats = ">= 1.0, < 2.0"

	// InitialPackageCapacity sizes the map of a fresh store.
	InitialPackageCapacity = 1024
)

// Stats holds per-source record counts.
type Stats struct {
	Total   int
	AUR     int
	Debian  int
	Flatpak int
	Snap    int
	Nixpkgs int
	Source  int
}

// Database maps package names to canonical records. The last insert for a
// name wins regardless of source. It is not safe for concurrent use.
type Database struct {
	cacheDir   string
	packages   map[string]*model.Package
	lastUpdate time.Time
}

type snapshot struct {
	FormatVersion string                    `json:"format_version"`
	LastUpdate    time.Time                 `json:"last_update"`
	Packages      map[string]*model.Package `json:"packages"`
}

// New creates an empty store whose snapshot lives in cacheDir.
func New(cacheDir string) *Database {
	return &Database{
		cacheDir: cacheDir,
		packages: make(map[string]*model.Package, InitialPackageCapacity),
	}
}

// CacheDir returns the directory holding the snapshot.
func (db *Database) CacheDir() string {
	return db.cacheDir
}

// SnapshotPath returns the default snapshot location.
func (db *Database) SnapshotPath() string {
	return filepath.Join(db.cacheDir, SnapshotFileName)
}

// LastUpdate returns the time of the last save or of the loaded snapshot.
func (db *Database) LastUpdate() time.Time {
	return db.lastUpdate
}

// Insert upserts pkg by name. Nil records and records that fail
// Package.Validate are ignored, so every stored record survives a save and load.
func (db *Database) Insert(pkg *model.Package) {
	if pkg == nil {
		return
	}
	if err := pkg.Validate(); err != nil {
		logger.Warn("Skipping invalid package record", logger.Fields{"name": pkg.Name, "error": err})
		return
	}
	db.packages[pkg.Name] = pkg
}

// Get returns the record stored under name.
func (db *Database) Get(name string) (*model.Package, bool) {
	pkg, ok := db.packages[name]
	return pkg, ok
}

// Len returns the number of records.
func (db *Database) Len() int {
	return len(db.packages)
}

// Search returns the records whose name or description contains query,
// ignoring case. The result is unordered.
func (db *Database) Search(query string) []*model.Package {
	query = strings.ToLower(query)
	var result []*model.Package
	for _, pkg := range db.packages {
		if strings.Contains(strings.ToLower(pkg.Name), query) ||
			strings.Contains(strings.ToLower(pkg.Description), query) {
			result = append(result, pkg)
		}
	}
	return result
}

// Stats counts records per source kind.
func (db *Database) Stats() Stats {
	stats := Stats{Total: len(db.packages)}
	for _, pkg := range db.packages {
		switch pkg.Source.(type) {
		case model.AUR:
			stats.AUR++
		case model.Debian:
			stats.Debian++
		case model.Flatpak:
			stats.Flatpak++
		case model.Snap:
			stats.Snap++
		case model.Nixpkgs:
			stats.Nixpkgs++
		case model.SourceRepo:
			stats.Source++
		}
	}
	return stats
}

// Save writes the whole store to path, replacing any previous content.
func (db *Database) Save(path string) error {
	now := time.Now().UTC()
	snap := snapshot{
		FormatVersion: FormatVersion,
		LastUpdate:    now,
		Packages:      db.packages,
	}

	err := fsutil.WriteFileAtomic(path, fsutil.FileModeDefault, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(snap); err != nil {
			return errors.Wrap(errors.ErrSnapshotEncode, err.Error())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", errors.ErrSnapshotWrite, err)
	}

	db.lastUpdate = now
	return nil
}

// Load replaces the in-memory state with the snapshot at path. On any error
// the store is left unchanged.
func (db *Database) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer func() { _ = file.Close() }()

	snap, err := decodeSnapshot(file)
	if err != nil {
		return errors.Wrapf(err, "snapshot %s", path)
	}

	db.packages = snap.Packages
	db.lastUpdate = snap.LastUpdate
	return nil
}

// LoadIfExists loads path when it exists and reports whether it did.
func (db *Database) LoadIfExists(path string) (bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := db.Load(path); err != nil {
		return false, err
	}
	return true, nil
}

func decodeSnapshot(r io.Reader) (*snapshot, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(errors.ErrSnapshotDecode, err.Error())
	}

	if err := checkFormat(snap.FormatVersion); err != nil {
		return nil, err
	}

	if snap.Packages == nil {
		snap.Packages = make(map[string]*model.Package)
	}
	for name, pkg := range snap.Packages {
		if err := pkg.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrSnapshotDecode, err.Error())
		}
		if pkg.Name != name {
			return nil, fmt.Errorf("%w: entry %q holds package %q", errors.ErrSnapshotDecode, name, pkg.Name)
		}
	}
	return &snap, nil
}

func checkFormat(raw string) error {
	v, err := version.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", errors.ErrSnapshotFormat, raw)
	}
	constraint, err := version.NewConstraint(SupportedFormats)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", errors.ErrSnapshotFormat, raw, SupportedFormats)
	}
	return nil
}
