package deps

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/nmgraph/pkg/errors"
)

// Handle indexes an [Instance] within a [Pool].
type Handle int

// Instance is one installed copy of a package. Name, Version and Declared
// are fixed when the instance is read; Resolved is filled exactly once by
// the [Resolver].
type Instance struct {
	Name         string         // directory-derived name; what dependents refer to
	Version      string         // concrete installed version
	DeclaredName string         // "name" field of the manifest, may differ from Name
	Dir          string         // package directory
	Depth        int            // node_modules nesting level, 0 for top level, -1 for the project root
	Root         bool           // true for the project's own manifest
	Declared     DependencyList // requirements in manifest order
	Resolved     []Handle       // chosen instance per satisfied requirement
}

// ID returns the instance identity, "name@version".
func (p *Instance) ID() string { return p.Name + "@" + p.Version }

// Pool is the arena of every collected instance plus the project root.
// Instances reference each other only through handles.
//
// When the same identity is installed at several nesting levels, the
// first-discovered copy is the only one offered as a match candidate. Later
// copies stay in the pool and still resolve their own requirements.
type Pool struct {
	instances []*Instance
	byName    map[string][]Handle
	byID      map[string]Handle
	root      Handle
}

// NewPool builds a pool over instances in discovery order.
func NewPool(instances []*Instance) *Pool {
	p := &Pool{
		byName: make(map[string][]Handle),
		byID:   make(map[string]Handle),
		root:   -1,
	}
	for _, inst := range instances {
		p.add(inst)
	}
	return p
}

func (p *Pool) add(inst *Instance) Handle {
	h := Handle(len(p.instances))
	p.instances = append(p.instances, inst)
	if _, dup := p.byID[inst.ID()]; !dup {
		p.byID[inst.ID()] = h
		p.byName[inst.Name] = append(p.byName[inst.Name], h)
	}
	return h
}

// AddRoot appends the project root instance and marks it as the root.
func (p *Pool) AddRoot(inst *Instance) Handle {
	inst.Root = true
	p.root = p.add(inst)
	return p.root
}

// Len returns the number of instances, duplicates included.
func (p *Pool) Len() int { return len(p.instances) }

// Get returns the instance for h.
func (p *Pool) Get(h Handle) *Instance { return p.instances[h] }

// Instances returns all instances in discovery order, root last.
func (p *Pool) Instances() []*Instance { return slices.Clone(p.instances) }

// Root returns the project root instance, if one was added.
func (p *Pool) Root() (*Instance, bool) {
	if p.root < 0 {
		return nil, false
	}
	return p.instances[p.root], true
}

// Candidates returns the canonical instances named name, in discovery order.
func (p *Pool) Candidates(name string) []Handle { return p.byName[name] }

// Lookup returns the canonical instance with the given identity.
func (p *Pool) Lookup(id string) (*Instance, bool) {
	h, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	return p.instances[h], true
}

// LoadRoot reads the project's own manifest. A missing name falls back to
// the directory name and a missing version to "0.0.0", since application
// manifests often omit both.
func LoadRoot(projectDir string, opts Options) (*Instance, error) {
	m, err := ReadManifest(filepath.Join(projectDir, ManifestFile))
	if err != nil {
		return nil, err
	}

	name := m.Name
	if name == "" {
		abs, err := filepath.Abs(projectDir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "project %s", projectDir)
		}
		name = filepath.Base(abs)
	}
	version := m.Version
	if version == "" {
		version = "0.0.0"
	}

	declared := m.Dependencies
	if opts.IncludeDev {
		dev, err := m.DevDependencies()
		if err != nil {
			return nil, err
		}
		declared = declared.Merge(dev)
	}
	if opts.IncludeOptional {
		opt, err := m.OptionalDependencies()
		if err != nil {
			return nil, err
		}
		declared = declared.Merge(opt)
	}

	return &Instance{
		Name:         name,
		Version:      version,
		DeclaredName: m.Name,
		Dir:          projectDir,
		Depth:        -1,
		Root:         true,
		Declared:     declared.Merge(),
	}, nil
}

// hasDir reports whether path is an existing directory. Only "not found"
// is a negative answer; other stat failures are returned.
func hasDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
