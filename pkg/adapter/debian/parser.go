package debian

import (
	"bufio"
	"io"
	"strings"

	"github.com/cperrin88/apkg/pkg/model"
)

// maxLineSize bounds a single control-file line.
const maxLineSize = 1 << 20

// Parse reads control-file stanzas from r and inserts one record per stanza
// carrying a non-empty Package field. Stanzas end at a blank line or at end of
// input, so a final stanza without a trailing blank line is still emitted.
// Continuation lines are not folded, and a repeated key keeps its last value.
func Parse(r io.Reader, suite, component string, sink model.Sink) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	count := 0
	fields := make(map[string]string)
	flush := func() {
		if len(fields) == 0 {
			return
		}
		if name := fields["Package"]; name != "" {
			sink.Insert(ToPackage(fields, suite, component))
			count++
		}
		fields = make(map[string]string)
	}

	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			flush()
			continue
		}
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		fields[key] = value
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	flush()

	return count, nil
}

// ToPackage converts the fields of one stanza.
func ToPackage(fields map[string]string, suite, component string) *model.Package {
	version, ok := fields["Version"]
	if !ok {
		version = UnknownVersion
	}

	return &model.Package{
		Name:         fields["Package"],
		Version:      version,
		Description:  fields["Description"],
		Source:       model.Debian{Suite: suite, Component: component, Arch: DefaultArch},
		Dependencies: splitDepends(fields["Depends"]),
		BuildType:    model.Binary{ExtractCmd: append([]string(nil), ExtractCommand...)},
		Homepage:     fields["Homepage"],
		License:      []string{},
		Maintainer:   fields["Maintainer"],
	}
}

// splitDepends splits a Depends value on commas. Version constraints and
// alternatives are kept verbatim. Empty tokens, such as those left by a
// trailing comma or an absent field, are dropped.
func splitDepends(value string) []string {
	deps := []string{}
	for _, token := range strings.Split(value, ",") {
		if token = strings.TrimSpace(token); token != "" {
			deps = append(deps, token)
		}
	}
	return deps
}
