// Package content decodes the static definition files (auras, items, actor
// templates) shipped alongside the simulation. YAML and TOML are both accepted;
// unknown keys are rejected in either format.
package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported reports whether name has a content file extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// Files lists every supported content file directly inside dir, sorted by name.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil slice or a non-nil error.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir %q: %w", dir, err)
	}
	files := []string{}
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// DecodeFile parses the file at path into v, choosing the decoder by extension.
//
// Precondition: v must be a non-nil pointer.
// Postcondition: Returns nil iff the whole file decoded without unknown keys.
func DecodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	if err := Decode(filepath.Ext(path), data, v); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}

// Decode parses data in the format named by ext (".yaml", ".yml" or ".toml").
func Decode(ext string, data []byte, v any) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
		return nil
	default:
		return fmt.Errorf("unsupported content format %q", ext)
	}
}
