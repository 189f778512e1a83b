package deps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/nmgraph/pkg/errors"
)

// ManifestFile is the per-package manifest name.
const ManifestFile = "package.json"

// Manifest holds the package.json fields the resolver needs. Unknown
// fields are ignored. The dev and optional sections stay raw until a caller
// asks for them, so a malformed section only matters when it is used.
type Manifest struct {
	Name         string         `json:"name"`
	Version      string         `json:"version"`
	Dependencies DependencyList `json:"dependencies"`

	RawDev      json.RawMessage `json:"devDependencies"`
	RawOptional json.RawMessage `json:"optionalDependencies"`

	path string
}

// DevDependencies decodes the devDependencies section.
func (m *Manifest) DevDependencies() (DependencyList, error) {
	return m.section("devDependencies", m.RawDev)
}

// OptionalDependencies decodes the optionalDependencies section.
func (m *Manifest) OptionalDependencies() (DependencyList, error) {
	return m.section("optionalDependencies", m.RawOptional)
}

func (m *Manifest) section(field string, raw json.RawMessage) (DependencyList, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var l DependencyList
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestUnreadable, err, "decode %s: %s", m.path, field)
	}
	return l, nil
}

// Dependency is one declared dependency: a package name and the raw
// specifier text, verbatim from the manifest.
type Dependency struct {
	Name string
	Spec string
}

func (d Dependency) String() string { return d.Name + "@" + d.Spec }

// DependencyList is a dependency map that remembers the manifest's key
// order. A key repeated in the JSON keeps its first position and last value.
type DependencyList []Dependency

// UnmarshalJSON decodes a JSON object of name -> specifier strings.
func (l *DependencyList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	var out DependencyList
	pos := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var spec string
		if err := dec.Decode(&spec); err != nil {
			return fmt.Errorf("dependency %q: %w", name, err)
		}
		if i, ok := pos[name]; ok {
			out[i].Spec = spec
			continue
		}
		pos[name] = len(out)
		out = append(out, Dependency{Name: name, Spec: spec})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*l = out
	return nil
}

// Merge returns l followed by the entries of others whose names are not
// already present. The first occurrence of a name wins.
func (l DependencyList) Merge(others ...DependencyList) DependencyList {
	seen := make(map[string]bool, len(l))
	out := make(DependencyList, 0, len(l))
	for _, list := range append([]DependencyList{l}, others...) {
		for _, d := range list {
			if seen[d.Name] {
				continue
			}
			seen[d.Name] = true
			out = append(out, d)
		}
	}
	return out
}

// ReadManifest reads and decodes the manifest at path. Missing files and
// malformed JSON are reported as [errors.ErrCodeManifestUnreadable].
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestUnreadable, err, "read %s", path)
	}
	return DecodeManifest(path, data)
}

// DecodeManifest decodes manifest bytes. path is used for error context only.
func DecodeManifest(path string, data []byte) (*Manifest, error) {
	m := Manifest{path: path}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeManifestUnreadable, err, "decode %s", path)
	}
	return &m, nil
}
