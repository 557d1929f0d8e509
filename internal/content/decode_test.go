package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/actorcore/internal/content"
)

type sample struct {
	ID     string   `yaml:"id" toml:"id"`
	Stacks int      `yaml:"max_stacks" toml:"max_stacks"`
	Tags   []string `yaml:"tags" toml:"tags"`
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDecodeFile_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.yaml", "id: rage\nmax_stacks: 3\ntags: [fire]\n")
	var s sample
	require.NoError(t, content.DecodeFile(path, &s))
	assert.Equal(t, sample{ID: "rage", Stacks: 3, Tags: []string{"fire"}}, s)
}

func TestDecodeFile_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.toml", "id = \"rage\"\nmax_stacks = 3\ntags = [\"fire\"]\n")
	var s sample
	require.NoError(t, content.DecodeFile(path, &s))
	assert.Equal(t, sample{ID: "rage", Stacks: 3, Tags: []string{"fire"}}, s)
}

func TestDecodeFile_UnknownYAMLKeyRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.yml", "id: rage\nbogus: 1\n")
	var s sample
	assert.Error(t, content.DecodeFile(path, &s))
}

func TestDecodeFile_UnknownTOMLKeyRejected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.toml", "id = \"rage\"\nbogus = 1\n")
	var s sample
	err := content.DecodeFile(path, &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	var s sample
	assert.Error(t, content.Decode(".json", []byte(`{}`), &s))
}

func TestFiles_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.toml", "")
	writeFile(t, dir, "a.yaml", "")
	writeFile(t, dir, "notes.txt", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755))

	files, err := content.Files(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.toml")}, files)
}

func TestFiles_MissingDir(t *testing.T) {
	_, err := content.Files("/nonexistent/dir")
	assert.Error(t, err)
}
