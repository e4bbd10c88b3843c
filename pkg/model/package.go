// Package model defines the canonical package record every source adapter
// converges on, together with the closed set of source and build variants.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/cperrin88/apkg/pkg/errors"
)

// Package is the canonical representation of a package from any upstream.
type Package struct {
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Description  string    `json:"description"`
	Source       Source    `json:"source"`
	Dependencies []string  `json:"dependencies"`
	BuildType    BuildType `json:"build_type"`
	Homepage     string    `json:"homepage,omitempty"`
	License      []string  `json:"license"`
	Maintainer   string    `json:"maintainer,omitempty"`
}

// Sink receives canonical records as an adapter produces them.
type Sink interface {
	Insert(pkg *Package)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(pkg *Package)

// Insert calls f(pkg).
func (f SinkFunc) Insert(pkg *Package) {
	f(pkg)
}

// Validate checks the invariants a stored record must satisfy.
func (p *Package) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil record", errors.ErrInvalidPackage)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: empty name", errors.ErrInvalidPackage)
	}
	if p.Source == nil {
		return fmt.Errorf("%w: %s has no source", errors.ErrInvalidPackage, p.Name)
	}
	if p.BuildType == nil {
		return fmt.Errorf("%w: %s has no build type", errors.ErrInvalidPackage, p.Name)
	}
	return nil
}

// packageWire mirrors Package with the variant fields left undecoded.
type packageWire struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Source       json.RawMessage `json:"source"`
	Dependencies []string        `json:"dependencies"`
	BuildType    json.RawMessage `json:"build_type"`
	Homepage     string          `json:"homepage,omitempty"`
	License      []string        `json:"license"`
	Maintainer   string          `json:"maintainer,omitempty"`
}

// UnmarshalJSON decodes a record, resolving the tagged source and build variants.
func (p *Package) UnmarshalJSON(data []byte) error {
	var wire packageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	source, err := decodeSource(wire.Source)
	if err != nil {
		return errors.Wrapf(err, "package %q", wire.Name)
	}
	build, err := decodeBuildType(wire.BuildType)
	if err != nil {
		return errors.Wrapf(err, "package %q", wire.Name)
	}

	*p = Package{
		Name:         wire.Name,
		Version:      wire.Version,
		Description:  wire.Description,
		Source:       source,
		Dependencies: wire.Dependencies,
		BuildType:    build,
		Homepage:     wire.Homepage,
		License:      wire.License,
		Maintainer:   wire.Maintainer,
	}
	return nil
}

// marshalTagged encodes body as a single-key object named after its variant.
func marshalTagged(tag string, body any) ([]byte, error) {
	return json.Marshal(map[string]any{tag: body})
}

// splitTagged returns the variant name and payload of a single-key object.
// A null or empty input yields an empty tag.
func splitTagged(data []byte) (string, json.RawMessage, error) {
	if len(data) == 0 || string(data) == "null" {
		return "", nil, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", nil, err
	}
	if len(envelope) != 1 {
		return "", nil, fmt.Errorf("%w: variant object must have exactly one key, got %d", errors.ErrInvalidPackage, len(envelope))
	}
	for tag, body := range envelope {
		return tag, body, nil
	}
	return "", nil, nil
}
