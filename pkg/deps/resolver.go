package deps

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/nmgraph/pkg/deps/requirement"
	"github.com/matzehuels/nmgraph/pkg/errors"
)

// Resolver binds every declared requirement in a [Pool] to one installed
// instance.
type Resolver struct {
	opts   Options
	parser *requirement.Parser
}

// NewResolver creates a Resolver. The specifier parse cache is shared by
// all workers.
func NewResolver(opts Options) (*Resolver, error) {
	opts = opts.WithDefaults()
	p, err := requirement.NewParser(opts.ParseCacheSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse cache")
	}
	return &Resolver{opts: opts, parser: p}, nil
}

// Parser returns the resolver's specifier parser.
func (r *Resolver) Parser() *requirement.Parser { return r.parser }

// Resolve fills Resolved for every instance in pool and returns the
// diagnostics, ordered by instance then by declaration. Instances are
// processed concurrently: each worker reads the shared pool and writes only
// its own instance's Resolved slice.
//
// The only error returned is context cancellation.
func (r *Resolver) Resolve(ctx context.Context, pool *Pool) ([]Diagnostic, error) {
	perInstance := make([][]Diagnostic, pool.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i := range pool.Len() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perInstance[i] = r.resolveInstance(pool, Handle(i))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	diags := slices.Concat(perInstance...)
	for _, d := range diags {
		r.opts.Logger("%s", d)
	}
	return diags, nil
}

func (r *Resolver) resolveInstance(pool *Pool, h Handle) []Diagnostic {
	inst := pool.Get(h)
	resolved := make([]Handle, 0, len(inst.Declared))
	var diags []Diagnostic

	for _, dep := range inst.Declared {
		target, ok, ds := r.Bind(pool, inst, dep)
		diags = append(diags, ds...)
		if ok {
			resolved = append(resolved, target)
		}
	}

	inst.Resolved = resolved
	return diags
}

// Bind selects the instance dep resolves to from inst's point of view: the
// greatest installed version among candidates named dep.Name that satisfy
// dep.Spec. ok is false when no binding exists; diagnostics explain why.
func (r *Resolver) Bind(pool *Pool, inst *Instance, dep Dependency) (target Handle, ok bool, diags []Diagnostic) {
	diag := func(err *errors.Error) Diagnostic {
		return Diagnostic{From: inst.ID(), Dependency: dep, Err: err}
	}

	expr, err := r.parser.Parse(dep.Spec)
	if err != nil {
		return 0, false, []Diagnostic{diag(asError(err, errors.ErrCodeMalformedRequirement))}
	}

	cands := pool.Candidates(dep.Name)
	if len(cands) == 0 {
		return 0, false, []Diagnostic{diag(errors.New(errors.ErrCodeNameNotInPool, "%s is not installed", dep.Name))}
	}

	versions := make([]string, len(cands))
	for i, c := range cands {
		versions[i] = pool.Get(c).Version
	}

	best, ok := requirement.Latest(versions, expr.Filter(versions))
	if !ok {
		return 0, false, []Diagnostic{diag(errors.New(errors.ErrCodeNoVersionMatch,
			"no installed version satisfies %q (installed: %s)", dep.Spec, strings.Join(versions, ", ")))}
	}

	if r.opts.VerifySemver && !expr.HasRef() {
		conforms, err := requirement.Conforms(dep.Spec, versions[best])
		switch {
		case err != nil:
			diags = append(diags, diag(asError(err, errors.ErrCodeNonConformant)))
		case !conforms:
			diags = append(diags, diag(errors.New(errors.ErrCodeNonConformant,
				"semver does not accept %s for %q", versions[best], dep.Spec)))
		}
	}
	return cands[best], true, diags
}

func asError(err error, code errors.Code) *errors.Error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.Wrap(code, err, "%s", code)
}
