package model

import (
	"github.com/github/go-spdx/v2/spdxexp"
	"github.com/package-url/packageurl-go"
)

// PURL returns the package URL of the record, or an empty string when the
// record has no source.
func (p *Package) PURL() string {
	var (
		purlType   = packageurl.TypeGeneric
		namespace  string
		qualifiers map[string]string
	)

	switch s := p.Source.(type) {
	case AUR:
		purlType, namespace = "alpm", "aur"
	case Debian:
		purlType, namespace = packageurl.TypeDebian, "debian"
		qualifiers = map[string]string{"arch": s.Arch, "distro": s.Suite}
	case Flatpak:
		namespace = "flatpak"
		qualifiers = map[string]string{"remote": s.Remote}
	case Snap:
		namespace = "snap"
		qualifiers = map[string]string{"channel": s.Channel}
	case Nixpkgs:
		namespace = "nixpkgs"
		qualifiers = map[string]string{"attr": s.Attr}
	case SourceRepo:
		vcsURL := s.URL
		if s.VCSType != "" {
			vcsURL = s.VCSType + "+" + s.URL
		}
		qualifiers = map[string]string{"vcs_url": vcsURL}
	default:
		return ""
	}

	for k, v := range qualifiers {
		if v == "" {
			delete(qualifiers, k)
		}
	}

	var q packageurl.Qualifiers
	if len(qualifiers) > 0 {
		q = packageurl.QualifiersFromMap(qualifiers)
	}
	return packageurl.NewPackageURL(purlType, namespace, p.Name, p.Version, q, "").ToString()
}

// NonSPDXLicenses returns the license entries that are not valid SPDX expressions.
func (p *Package) NonSPDXLicenses() []string {
	if len(p.License) == 0 {
		return nil
	}
	valid, invalid := spdxexp.ValidateLicenses(p.License)
	if valid {
		return nil
	}
	return invalid
}
