package deps

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/matzehuels/nmgraph/pkg/errors"
)

// ModulesDir is the installed-packages directory name.
const ModulesDir = "node_modules"

// Collect walks an installed-packages directory and returns one
// [Instance] per package manifest found, including copies nested in
// per-package node_modules directories. Sibling subtrees are read
// concurrently; the result keeps directory order, each package followed by
// its nested packages.
//
// Any manifest that cannot be read aborts the walk.
func Collect(ctx context.Context, dir string, opts Options) ([]*Instance, error) {
	opts = opts.WithDefaults()
	c := &collector{
		opts: opts,
		sem:  semaphore.NewWeighted(int64(opts.IOConcurrency)),
	}
	return c.walk(ctx, dir, "", 0)
}

type collector struct {
	opts Options
	sem  *semaphore.Weighted
}

func (c *collector) walk(ctx context.Context, dir, scope string, depth int) ([]*Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := c.readDir(ctx, dir)
	if err != nil {
		return nil, err
	}

	results := make([][]*Instance, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			found, err := c.entry(gctx, dir, e, scope, depth)
			results[i] = found
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

func (c *collector) entry(ctx context.Context, dir string, e os.DirEntry, scope string, depth int) ([]*Instance, error) {
	name := e.Name()
	path := filepath.Join(dir, name)

	ok, err := c.isDir(ctx, path, e)
	if err != nil || !ok {
		return nil, err
	}

	var found []*Instance
	if scope == "" && strings.HasPrefix(name, "@") {
		inner, err := c.walk(ctx, path, name, depth)
		if err != nil {
			return nil, err
		}
		found = inner
	} else {
		inst, err := c.read(ctx, path, qualify(scope, name), depth)
		if err != nil {
			return nil, err
		}
		found = append(found, inst)
	}

	nested := filepath.Join(path, ModulesDir)
	ok, err = c.hasDir(ctx, nested)
	if err != nil {
		return nil, err
	}
	if ok {
		inner, err := c.walk(ctx, nested, "", depth+1)
		if err != nil {
			return nil, err
		}
		found = append(found, inner...)
	}
	return found, nil
}

func (c *collector) read(ctx context.Context, dir, name string, depth int) (*Instance, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	m, err := ReadManifest(filepath.Join(dir, ManifestFile))
	c.sem.Release(1)
	if err != nil {
		return nil, err
	}
	if m.Version == "" {
		return nil, errors.New(errors.ErrCodeManifestUnreadable, "%s: missing version", filepath.Join(dir, ManifestFile))
	}

	declared := m.Dependencies
	if c.opts.IncludeOptional {
		opt, err := m.OptionalDependencies()
		if err != nil {
			return nil, err
		}
		declared = declared.Merge(opt)
	}

	return &Instance{
		Name:         name,
		Version:      m.Version,
		DeclaredName: m.Name,
		Dir:          dir,
		Depth:        depth,
		Declared:     declared,
	}, nil
}

// readDir lists dir without hidden entries, sorted by name.
func (c *collector) readDir(ctx context.Context, dir string) ([]os.DirEntry, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	c.sem.Release(1)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "list %s", dir)
	}
	return slices.DeleteFunc(entries, func(e os.DirEntry) bool {
		return strings.HasPrefix(e.Name(), ".")
	}), nil
}

// isDir reports whether a listed entry is a directory, following symlinks
// (workspace and linked installs).
func (c *collector) isDir(ctx context.Context, path string, e os.DirEntry) (bool, error) {
	if e.IsDir() {
		return true, nil
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false, nil
	}
	return c.hasDir(ctx, path)
}

func (c *collector) hasDir(ctx context.Context, path string) (bool, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer c.sem.Release(1)
	ok, err := hasDir(path)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	return ok, nil
}

func qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "/" + name
}
