// Package aur maps Arch User Repository RPC search results to canonical records.
package aur

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/cperrin88/apkg/internal/logger"
	"github.com/cperrin88/apkg/pkg/errors"
	apkghttp "github.com/cperrin88/apkg/pkg/http"
	"github.com/cperrin88/apkg/pkg/model"
)

const (
	// Name identifies the adapter in sync reports.
	Name = "aur"

	// DefaultURL is the AUR host used when none is configured.
	DefaultURL = "https://aur.archlinux.org"

	// DefaultRequestInterval spaces consecutive search requests.
	DefaultRequestInterval = 100 * time.Millisecond

	// NoDescription replaces a missing upstream description.
	NoDescription = "No description"

	searchPath = "/rpc/v5/search/"
)

// DefaultSearchTerms are the topic seeds queried on every sync.
var DefaultSearchTerms = []string{"rust", "gui", "terminal", "system"}

// BuildCommand is the build command attached to every AUR record.
var BuildCommand = []string{"makepkg", "--noconfirm", "-si"}

// Response is the body of an RPC v5 search call.
type Response struct {
	Version     int      `json:"version"`
	Type        string   `json:"type"`
	ResultCount int      `json:"resultcount"`
	Results     []Result `json:"results"`
	Error       string   `json:"error,omitempty"`
}

// Result is a single package entry of a search response.
type Result struct {
	ID          int64    `json:"ID"`
	Name        string   `json:"Name"`
	PackageBase string   `json:"PackageBase"`
	Version     string   `json:"Version"`
	Description string   `json:"Description"`
	URL         string   `json:"URL"`
	URLPath     string   `json:"URLPath"`
	Depends     []string `json:"Depends"`
	MakeDepends []string `json:"MakeDepends"`
	License     []string `json:"License"`
	Maintainer  string   `json:"Maintainer"`
}

// JSONGetter fetches and decodes a JSON document.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// Adapter searches the AUR for each configured term and emits canonical records.
type Adapter struct {
	baseURL string
	terms   []string
	client  JSONGetter
	limiter apkghttp.RateLimiter
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithBaseURL points the adapter at another AUR host.
func WithBaseURL(baseURL string) Option {
	return func(a *Adapter) {
		if baseURL != "" {
			a.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithSearchTerms replaces the default search terms.
func WithSearchTerms(terms []string) Option {
	return func(a *Adapter) {
		if len(terms) > 0 {
			a.terms = terms
		}
	}
}

// WithRateLimiter sets the limiter consulted before every request.
func WithRateLimiter(l apkghttp.RateLimiter) Option {
	return func(a *Adapter) {
		if l != nil {
			a.limiter = l
		}
	}
}

// New creates an AUR adapter.
func New(client JSONGetter, opts ...Option) *Adapter {
	a := &Adapter{
		baseURL: DefaultURL,
		terms:   DefaultSearchTerms,
		client:  client,
		limiter: apkghttp.NewIntervalLimiter(DefaultRequestInterval),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return Name
}

// SearchURL returns the RPC search endpoint for term.
func (a *Adapter) SearchURL(term string) string {
	return a.baseURL + searchPath + url.PathEscape(term)
}

// Search performs a single RPC search request.
func (a *Adapter) Search(ctx context.Context, term string) (*Response, error) {
	var resp Response
	if err := a.client.GetJSON(ctx, a.SearchURL(term), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sync queries every search term in order and inserts the results into sink
// as they arrive. The first failing term aborts the run; records from earlier
// terms stay in the sink.
func (a *Adapter) Sync(ctx context.Context, sink model.Sink) (int, error) {
	count := 0
	for _, term := range a.terms {
		if err := a.limiter.Wait(ctx); err != nil {
			return count, errors.Wrapf(err, "aur: waiting to search %q", term)
		}

		logger.Debug("Searching AUR", logger.Fields{"term": term})
		resp, err := a.Search(ctx, term)
		if err != nil {
			return count, errors.Wrapf(err, "aur: search %q", term)
		}
		if resp.Type == "error" {
			logger.Warn("AUR rejected search", logger.Fields{"term": term, "error": resp.Error})
			continue
		}

		for i := range resp.Results {
			if resp.Results[i].Name == "" {
				continue
			}
			sink.Insert(ToPackage(&resp.Results[i], a.baseURL))
			count++
		}
	}
	return count, nil
}

// ToPackage converts a search result. baseURL prefixes the snapshot path.
func ToPackage(r *Result, baseURL string) *model.Package {
	deps := make([]string, 0, len(r.Depends)+len(r.MakeDepends))
	deps = append(deps, r.Depends...)
	deps = append(deps, r.MakeDepends...)

	description := r.Description
	if description == "" {
		description = NoDescription
	}

	license := make([]string, len(r.License))
	copy(license, r.License)

	return &model.Package{
		Name:        r.Name,
		Version:     r.Version,
		Description: description,
		Source: model.AUR{
			PkgBase: r.PackageBase,
			URL:     baseURL + r.URLPath,
		},
		Dependencies: deps,
		BuildType:    model.SourceBuild{BuildCmd: append([]string(nil), BuildCommand...)},
		Homepage:     r.URL,
		License:      license,
		Maintainer:   r.Maintainer,
	}
}
