//go:generate mockgen -destination=./mocks/debian.go . Fetcher

// Package debian maps Debian archive package lists to canonical records.
package debian

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/errors"
	apkghttp "github.com/cperrin88/apkg/pkg/http"
	"github.com/cperrin88/apkg/pkg/model"
)

const (
	// Name identifies the adapter in sync reports.
	Name = "debian"

	// DefaultMirror is the archive mirror used when none is configured.
	DefaultMirror = "https://deb.debian.org/debian"

	// DefaultSuite is the suite synced when none is configured.
	DefaultSuite = "stable"

	// DefaultArch is the only architecture currently listed.
	DefaultArch = "amd64"

	// UnknownVersion replaces a missing Version field.
	UnknownVersion = "unknown"
)

// DefaultComponents are the archive areas synced when none are configured.
var DefaultComponents = []string{"main", "contrib", "non-free"}

// ExtractCommand is the extraction command attached to every Debian record.
var ExtractCommand = []string{"dpkg-deb", "-x"}

// Fetcher returns the decoded control-file text of one suite/component list.
type Fetcher interface {
	Fetch(ctx context.Context, suite, component string) (string, error)
}

// Adapter syncs every configured suite/component list.
type Adapter struct {
	fetcher    Fetcher
	suites     []string
	components []string
}

// New creates a Debian adapter. Empty suites or components fall back to the defaults.
func New(fetcher Fetcher, suites, components []string) *Adapter {
	if len(suites) == 0 {
		suites = []string{DefaultSuite}
	}
	if len(components) == 0 {
		components = DefaultComponents
	}
	return &Adapter{fetcher: fetcher, suites: suites, components: components}
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return Name
}

// Sync fetches and parses each list in order. A failing list does not stop
// the remaining ones and all failures are returned joined. Once the mirror's
// circuit breaker is open the lists not yet fetched are skipped.
func (a *Adapter) Sync(ctx context.Context, sink model.Sink) (int, error) {
	var (
		count int
		errs  []error
	)
	for _, suite := range a.suites {
		for _, component := range a.components {
			logger.Debug("Fetching Debian package list", logger.Fields{"suite": suite, "component": component})

			text, err := a.fetcher.Fetch(ctx, suite, component)
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "debian: fetch %s/%s", suite, component))
				if stderrors.Is(err, apkghttp.ErrUpstreamDown) {
					logger.Warn("Debian mirror unavailable, skipping remaining lists", logger.Fields{"error": err})
					return count, stderrors.Join(errs...)
				}
				logger.Warn("Debian package list failed", logger.Fields{"suite": suite, "component": component, "error": err})
				continue
			}

			n, err := Parse(strings.NewReader(text), suite, component, sink)
			count += n
			if err != nil {
				errs = append(errs, errors.Wrapf(err, "debian: parse %s/%s", suite, component))
			}
		}
	}
	return count, stderrors.Join(errs...)
}

// BodyGetter downloads a URL.
type BodyGetter interface {
	GetBody(ctx context.Context, url string) ([]byte, error)
}

// Decompressor turns a downloaded payload into plain bytes.
type Decompressor interface {
	DecompressBytes(ctx context.Context, name string, data []byte) ([]byte, error)
}

// MirrorFetcher downloads Packages.gz lists from an archive mirror.
type MirrorFetcher struct {
	mirror  string
	arch    string
	client  BodyGetter
	archive Decompressor
}

// NewMirrorFetcher creates a fetcher for mirror. An empty mirror uses DefaultMirror.
func NewMirrorFetcher(client BodyGetter, archive Decompressor, mirror string) *MirrorFetcher {
	if mirror == "" {
		mirror = DefaultMirror
	}
	return &MirrorFetcher{
		mirror:  strings.TrimSuffix(mirror, "/"),
		arch:    DefaultArch,
		client:  client,
		archive: archive,
	}
}

// ListURL returns the location of the compressed list for suite/component.
func (f *MirrorFetcher) ListURL(suite, component string) string {
	return fmt.Sprintf("%s/dists/%s/%s/binary-%s/Packages.gz", f.mirror, suite, component, f.arch)
}

// Fetch downloads and decompresses one list.
func (f *MirrorFetcher) Fetch(ctx context.Context, suite, component string) (string, error) {
	listURL := f.ListURL(suite, component)

	data, err := f.client.GetBody(ctx, listURL)
	if err != nil {
		return "", err
	}

	text, err := f.archive.DecompressBytes(ctx, "Packages.gz", data)
	if err != nil {
		return "", errors.Wrapf(err, "failed to decompress %s", listURL)
	}
	return string(text), nil
}
