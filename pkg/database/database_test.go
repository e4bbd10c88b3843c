package database

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cperrin88/apkg/pkg/errors"
	"github.com/cperrin88/apkg/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aurPackage(name, description string) *model.Package {
	return &model.Package{
		Name:         name,
		Version:      "14.0.0",
		Description:  description,
		Source:       model.AUR{PkgBase: name, URL: "https://aur.archlinux.org/cgit/aur.git/snapshot/" + name + ".tar.gz"},
		Dependencies: []string{"pcre2"},
		BuildType:    model.SourceBuild{BuildCmd: []string{"makepkg", "--noconfirm", "-si"}},
		License:      []string{"MIT"},
	}
}

func debianPackage(name string) *model.Package {
	return &model.Package{
		Name:         name,
		Version:      "5.2",
		Source:       model.Debian{Suite: "stable", Component: "main", Arch: "amd64"},
		Dependencies: []string{"libc6 (>= 2.36)", "base-files"},
		BuildType:    model.Binary{ExtractCmd: []string{"dpkg-deb", "-x"}},
		Homepage:     "https://www.gnu.org/software/" + name,
		License:      []string{},
		Maintainer:   "Debian Maintainers",
	}
}

func flatpakPackage(name string) *model.Package {
	return &model.Package{
		Name:         name,
		Version:      "1.0",
		Description:  "A foo app",
		Source:       model.Flatpak{Remote: "flathub", RefName: "app/" + name + "/stable"},
		Dependencies: []string{},
		BuildType:    model.Container{Runtime: "org.freedesktop.Platform"},
		License:      []string{},
	}
}

func names(pkgs []*model.Package) []string {
	result := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		result = append(result, p.Name)
	}
	sort.Strings(result)
	return result
}

func TestDatabase_InsertAndStats(t *testing.T) {
	db := New(t.TempDir())
	db.Insert(aurPackage("ripgrep", "Search tool"))

	assert.Equal(t, Stats{Total: 1, AUR: 1}, db.Stats())

	db.Insert(debianPackage("bash"))
	db.Insert(flatpakPackage("org.app.Foo"))
	db.Insert(&model.Package{Name: "hello", Source: model.Snap{Channel: "stable"}, BuildType: model.Binary{}})
	db.Insert(&model.Package{Name: "jq", Source: model.Nixpkgs{Attr: "jq"}, BuildType: model.Binary{}})
	db.Insert(&model.Package{Name: "tool", Source: model.SourceRepo{URL: "https://x"}, BuildType: model.SourceBuild{}})

	assert.Equal(t, Stats{Total: 6, AUR: 1, Debian: 1, Flatpak: 1, Snap: 1, Nixpkgs: 1, Source: 1}, db.Stats())
	assert.Equal(t, 6, db.Len())
}

func TestDatabase_InsertIgnoresInvalid(t *testing.T) {
	dir := t.TempDir()
	db := New(dir)
	db.Insert(nil)
	db.Insert(&model.Package{})
	db.Insert(&model.Package{Name: "no-source", BuildType: model.Binary{}})
	db.Insert(&model.Package{Name: "no-build", Source: model.Snap{Channel: "stable"}})
	db.Insert(debianPackage("bash"))

	assert.Equal(t, 1, db.Len())
	_, ok := db.Get("no-source")
	assert.False(t, ok)

	require.NoError(t, db.Save(db.SnapshotPath()))
	loaded := New(dir)
	require.NoError(t, loaded.Load(loaded.SnapshotPath()))
	assert.Equal(t, []string{"bash"}, names(loaded.Search("")))
}

func TestDatabase_LastWriterWins(t *testing.T) {
	db := New(t.TempDir())
	db.Insert(aurPackage("git", "the AUR one"))
	db.Insert(debianPackage("git"))

	pkg, ok := db.Get("git")
	require.True(t, ok)
	assert.Equal(t, model.KindDebian, pkg.Source.Kind())
	assert.Equal(t, Stats{Total: 1, Debian: 1}, db.Stats())
}

func TestDatabase_InsertIdempotent(t *testing.T) {
	db := New(t.TempDir())
	db.Insert(aurPackage("ripgrep", "Search tool"))
	db.Insert(debianPackage("bash"))

	statsBefore := db.Stats()
	searchBefore := names(db.Search("r"))

	db.Insert(aurPackage("ripgrep", "Search tool"))

	assert.Equal(t, statsBefore, db.Stats())
	assert.Equal(t, searchBefore, names(db.Search("r")))
}

func TestDatabase_Search(t *testing.T) {
	db := New(t.TempDir())
	db.Insert(aurPackage("Foo", "something"))
	db.Insert(aurPackage("ripgrep", "Recursively search directories"))
	db.Insert(debianPackage("bash"))

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "case-insensitive name match", query: "foo", expected: []string{"Foo"}},
		{name: "upper-case query", query: "RIPGREP", expected: []string{"ripgrep"}},
		{name: "description match", query: "search", expected: []string{"ripgrep"}},
		{name: "substring in the middle", query: "as", expected: []string{"bash"}},
		{name: "no match", query: "zsh", expected: []string{}},
		{name: "empty query matches everything", query: "", expected: []string{"Foo", "bash", "ripgrep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, names(db.Search(tt.query)))
		})
	}
}

func TestDatabase_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	db := New(dir)
	db.Insert(aurPackage("ripgrep", "Search tool"))
	db.Insert(debianPackage("bash"))
	db.Insert(flatpakPackage("org.app.Foo"))
	db.Insert(&model.Package{Name: "tool", Version: "0.1", Source: model.SourceRepo{URL: "https://x", VCSType: "git"}, BuildType: model.SourceBuild{BuildCmd: []string{"make", "install"}}})

	require.NoError(t, db.Save(db.SnapshotPath()))
	assert.False(t, db.LastUpdate().IsZero())

	loaded := New(dir)
	require.NoError(t, loaded.Load(loaded.SnapshotPath()))

	assert.Equal(t, db.Len(), loaded.Len())
	for _, pkg := range db.Search("") {
		got, ok := loaded.Get(pkg.Name)
		require.True(t, ok, pkg.Name)
		assert.Equal(t, pkg, got)
	}
	assert.Equal(t, db.Stats(), loaded.Stats())
	assert.True(t, db.LastUpdate().Equal(loaded.LastUpdate()))
}

func TestDatabase_SaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, SnapshotFileName)

	db := New(dir)
	db.Insert(aurPackage("a", ""))
	db.Insert(aurPackage("b", ""))
	require.NoError(t, db.Save(path))

	smaller := New(dir)
	smaller.Insert(aurPackage("c", ""))
	require.NoError(t, smaller.Save(path))

	loaded := New(dir)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, []string{"c"}, names(loaded.Search("")))
}

func TestDatabase_SnapshotIsIndentedJSON(t *testing.T) {
	dir := t.TempDir()
	db := New(dir)
	db.Insert(debianPackage("bash"))
	require.NoError(t, db.Save(db.SnapshotPath()))

	data, err := os.ReadFile(db.SnapshotPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"format_version\": \"1.0\"")
	assert.Contains(t, string(data), `"Debian": {`)
}

func TestDatabase_LoadFailureLeavesStateUnchanged(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "not json", content: "{not json", wantErr: errors.ErrSnapshotDecode},
		{name: "future format", content: `{"format_version":"2.0","packages":{}}`, wantErr: errors.ErrSnapshotFormat},
		{name: "garbage format", content: `{"format_version":"abc","packages":{}}`, wantErr: errors.ErrSnapshotFormat},
		{
			name:    "key does not match name",
			content: `{"format_version":"1.0","packages":{"a":{"name":"b","source":{"Snap":{"channel":"x"}},"build_type":{"Binary":{"extract_cmd":null}}}}}`,
			wantErr: errors.ErrSnapshotDecode,
		},
		{
			name:    "record without source",
			content: `{"format_version":"1.0","packages":{"a":{"name":"a","build_type":{"Binary":{"extract_cmd":null}}}}}`,
			wantErr: errors.ErrSnapshotDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			db := New(dir)
			db.Insert(aurPackage("kept", ""))

			err := db.Load(path)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, []string{"kept"}, names(db.Search("")))
		})
	}
}

func TestDatabase_LoadMissingFile(t *testing.T) {
	db := New(t.TempDir())
	db.Insert(aurPackage("kept", ""))

	require.Error(t, db.Load(db.SnapshotPath()))
	assert.Equal(t, 1, db.Len())

	loaded, err := db.LoadIfExists(db.SnapshotPath())
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 1, db.Len())
}

func TestDatabase_LoadReplacesState(t *testing.T) {
	dir := t.TempDir()
	source := New(dir)
	source.Insert(debianPackage("bash"))
	require.NoError(t, source.Save(source.SnapshotPath()))

	db := New(dir)
	db.Insert(aurPackage("stale", ""))
	loaded, err := db.LoadIfExists(db.SnapshotPath())
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, []string{"bash"}, names(db.Search("")))
}
