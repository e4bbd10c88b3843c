package model

import (
	"encoding/json"
	"fmt"

	"github.com/cperrin88/apkg/pkg/errors"
)

// SourceKind names a Source variant. The value doubles as the JSON tag.
type SourceKind string

// Source variants.
const (
	KindAUR     SourceKind = "Aur"
	KindDebian  SourceKind = "Debian"
	KindFlatpak SourceKind = "Flatpak"
	KindSnap    SourceKind = "Snap"
	KindNixpkgs SourceKind = "Nixpkgs"
	KindSource  SourceKind = "Source"
)

// Source describes where a package record came from. The set of
// implementations is closed to this package.
type Source interface {
	Kind() SourceKind
	String() string
	sealedSource()
}

// AUR is a package from the Arch User Repository.
type AUR struct {
	PkgBase string `json:"pkgbase"`
	URL     string `json:"url"`
}

// Debian is a binary package from a Debian archive list.
type Debian struct {
	Suite     string `json:"suite"`
	Component string `json:"component"`
	Arch      string `json:"arch"`
}

// Flatpak is an application published on a Flatpak remote.
type Flatpak struct {
	Remote  string `json:"remote"`
	RefName string `json:"ref_name"`
}

// Snap is a package from the Snap store.
type Snap struct {
	Channel string `json:"channel"`
}

// Nixpkgs is a package from the nixpkgs collection.
type Nixpkgs struct {
	Attr string `json:"attr"`
}

// SourceRepo is a package built straight from an upstream source location.
type SourceRepo struct {
	URL     string `json:"url"`
	VCSType string `json:"vcs_type,omitempty"`
}

func (AUR) Kind() SourceKind        { return KindAUR }
func (Debian) Kind() SourceKind     { return KindDebian }
func (Flatpak) Kind() SourceKind    { return KindFlatpak }
func (Snap) Kind() SourceKind       { return KindSnap }
func (Nixpkgs) Kind() SourceKind    { return KindNixpkgs }
func (SourceRepo) Kind() SourceKind { return KindSource }

func (AUR) sealedSource()        {}
func (Debian) sealedSource()     {}
func (Flatpak) sealedSource()    {}
func (Snap) sealedSource()       {}
func (Nixpkgs) sealedSource()    {}
func (SourceRepo) sealedSource() {}

func (s AUR) String() string {
	return fmt.Sprintf("Aur { pkgbase: %q, url: %q }", s.PkgBase, s.URL)
}

func (s Debian) String() string {
	return fmt.Sprintf("Debian { suite: %q, component: %q, arch: %q }", s.Suite, s.Component, s.Arch)
}

func (s Flatpak) String() string {
	return fmt.Sprintf("Flatpak { remote: %q, ref_name: %q }", s.Remote, s.RefName)
}

func (s Snap) String() string {
	return fmt.Sprintf("Snap { channel: %q }", s.Channel)
}

func (s Nixpkgs) String() string {
	return fmt.Sprintf("Nixpkgs { attr: %q }", s.Attr)
}

func (s SourceRepo) String() string {
	if s.VCSType == "" {
		return fmt.Sprintf("Source { url: %q }", s.URL)
	}
	return fmt.Sprintf("Source { url: %q, vcs_type: %q }", s.URL, s.VCSType)
}

func (s AUR) MarshalJSON() ([]byte, error) {
	type body AUR
	return marshalTagged(string(KindAUR), body(s))
}

func (s Debian) MarshalJSON() ([]byte, error) {
	type body Debian
	return marshalTagged(string(KindDebian), body(s))
}

func (s Flatpak) MarshalJSON() ([]byte, error) {
	type body Flatpak
	return marshalTagged(string(KindFlatpak), body(s))
}

func (s Snap) MarshalJSON() ([]byte, error) {
	type body Snap
	return marshalTagged(string(KindSnap), body(s))
}

func (s Nixpkgs) MarshalJSON() ([]byte, error) {
	type body Nixpkgs
	return marshalTagged(string(KindNixpkgs), body(s))
}

func (s SourceRepo) MarshalJSON() ([]byte, error) {
	type body SourceRepo
	return marshalTagged(string(KindSource), body(s))
}

func decodeSource(data []byte) (Source, error) {
	tag, body, err := splitTagged(data)
	if err != nil || tag == "" {
		return nil, err
	}

	switch SourceKind(tag) {
	case KindAUR:
		var s AUR
		err = json.Unmarshal(body, &s)
		return s, err
	case KindDebian:
		var s Debian
		err = json.Unmarshal(body, &s)
		return s, err
	case KindFlatpak:
		var s Flatpak
		err = json.Unmarshal(body, &s)
		return s, err
	case KindSnap:
		var s Snap
		err = json.Unmarshal(body, &s)
		return s, err
	case KindNixpkgs:
		var s Nixpkgs
		err = json.Unmarshal(body, &s)
		return s, err
	case KindSource:
		var s SourceRepo
		err = json.Unmarshal(body, &s)
		return s, err
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownSourceKind, tag)
	}
}
