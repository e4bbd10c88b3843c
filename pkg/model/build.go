package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cperrin88/apkg/pkg/errors"
)

// BuildKind names a BuildType variant. The value doubles as the JSON tag.
type BuildKind string

// BuildType variants.
const (
	KindSourceBuild BuildKind = "SourceBuild"
	KindBinary      BuildKind = "Binary"
	KindContainer   BuildKind = "Container"
)

// BuildType describes how a package would be materialized.
type BuildType interface {
	Kind() BuildKind
	String() string
	sealedBuildType()
}

// SourceBuild builds the package from source with BuildCmd.
type SourceBuild struct {
	BuildCmd []string `json:"build_cmd"`
}

// Binary unpacks a prebuilt archive. ExtractCmd is nil when unknown.
type Binary struct {
	ExtractCmd []string `json:"extract_cmd"`
}

// Container runs the package on top of Runtime.
type Container struct {
	Runtime string `json:"runtime"`
}

func (SourceBuild) Kind() BuildKind { return KindSourceBuild }
func (Binary) Kind() BuildKind      { return KindBinary }
func (Container) Kind() BuildKind   { return KindContainer }

func (SourceBuild) sealedBuildType() {}
func (Binary) sealedBuildType()      {}
func (Container) sealedBuildType()   {}

func (b SourceBuild) String() string {
	return fmt.Sprintf("SourceBuild { build_cmd: %s }", QuoteList(b.BuildCmd))
}

func (b Binary) String() string {
	if b.ExtractCmd == nil {
		return "Binary { extract_cmd: None }"
	}
	return fmt.Sprintf("Binary { extract_cmd: %s }", QuoteList(b.ExtractCmd))
}

func (b Container) String() string {
	return fmt.Sprintf("Container { runtime: %q }", b.Runtime)
}

func (b SourceBuild) MarshalJSON() ([]byte, error) {
	type body SourceBuild
	return marshalTagged(string(KindSourceBuild), body(b))
}

func (b Binary) MarshalJSON() ([]byte, error) {
	type body Binary
	return marshalTagged(string(KindBinary), body(b))
}

func (b Container) MarshalJSON() ([]byte, error) {
	type body Container
	return marshalTagged(string(KindContainer), body(b))
}

func decodeBuildType(data []byte) (BuildType, error) {
	tag, body, err := splitTagged(data)
	if err != nil || tag == "" {
		return nil, err
	}

	switch BuildKind(tag) {
	case KindSourceBuild:
		var b SourceBuild
		err = json.Unmarshal(body, &b)
		return b, err
	case KindBinary:
		var b Binary
		err = json.Unmarshal(body, &b)
		return b, err
	case KindContainer:
		var b Container
		err = json.Unmarshal(body, &b)
		return b, err
	default:
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownBuildKind, tag)
	}
}

// QuoteList renders items as a bracketed list of quoted strings.
func QuoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
