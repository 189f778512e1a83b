package deps

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/nmgraph/pkg/errors"
)

func inst(name, version string, deps ...string) *Instance {
	p := &Instance{Name: name, Version: version}
	for i := 0; i+1 < len(deps); i += 2 {
		p.Declared = append(p.Declared, Dependency{Name: deps[i], Spec: deps[i+1]})
	}
	return p
}

func resolvedIDs(pool *Pool, p *Instance) []string {
	out := make([]string, len(p.Resolved))
	for i, h := range p.Resolved {
		out[i] = pool.Get(h).ID()
	}
	return out
}

func mustResolve(t *testing.T, pool *Pool, opts Options) []Diagnostic {
	t.Helper()
	r, err := NewResolver(opts)
	if err != nil {
		t.Fatal(err)
	}
	diags, err := r.Resolve(context.Background(), pool)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return diags
}

func TestResolveDiamond(t *testing.T) {
	left := inst("left", "1.0.0", "shared", "^1.0.0")
	right := inst("right", "1.0.0", "shared", "^2.0.0")
	pool := NewPool([]*Instance{
		left,
		inst("shared", "1.0.0"),
		right,
		inst("shared", "2.0.0"),
	})

	if diags := mustResolve(t, pool, Options{}); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}

	if got := resolvedIDs(pool, left); !slices.Equal(got, []string{"shared@1.0.0"}) {
		t.Errorf("left resolved = %v, want [shared@1.0.0]", got)
	}
	if got := resolvedIDs(pool, right); !slices.Equal(got, []string{"shared@2.0.0"}) {
		t.Errorf("right resolved = %v, want [shared@2.0.0]", got)
	}
}

func TestResolvePicksLatest(t *testing.T) {
	app := inst("app", "1.0.0", "lib", "^1.0.0")
	pool := NewPool([]*Instance{
		inst("lib", "1.2.0"),
		inst("lib", "1.10.0"),
		inst("lib", "2.0.0"),
		inst("lib", "1.9.9"),
	})
	pool.AddRoot(app)

	mustResolve(t, pool, Options{})
	if got := resolvedIDs(pool, app); !slices.Equal(got, []string{"lib@1.10.0"}) {
		t.Errorf("resolved = %v, want [lib@1.10.0]", got)
	}
}

func TestResolveMissingName(t *testing.T) {
	app := inst("app", "1.0.0", "ghost", "^1.0.0", "lib", "*")
	pool := NewPool([]*Instance{inst("lib", "1.0.0")})
	pool.AddRoot(app)

	diags := mustResolve(t, pool, Options{})

	if got := resolvedIDs(pool, app); !slices.Equal(got, []string{"lib@1.0.0"}) {
		t.Errorf("resolved = %v, want [lib@1.0.0]", got)
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want 1", diags)
	}
	d := diags[0]
	if d.Code() != errors.ErrCodeNameNotInPool || d.From != "app@1.0.0" || d.Dependency.Name != "ghost" {
		t.Errorf("diagnostic = %+v", d)
	}
}

func TestResolveDiagnostics(t *testing.T) {
	app := inst("app", "1.0.0",
		"lib", "^3.0.0",
		"bad", ">=1.0.0 <2.0.0 <3.0.0",
		"ok", "~1.0.0",
	)
	pool := NewPool([]*Instance{
		inst("lib", "1.0.0"),
		inst("lib", "2.0.0"),
		inst("bad", "1.5.0"),
		inst("ok", "1.0.4"),
	})
	pool.AddRoot(app)

	diags := mustResolve(t, pool, Options{})

	codes := make([]errors.Code, len(diags))
	for i, d := range diags {
		codes[i] = d.Code()
	}
	want := []errors.Code{errors.ErrCodeNoVersionMatch, errors.ErrCodeMalformedRequirement}
	if !slices.Equal(codes, want) {
		t.Errorf("codes = %v, want %v", codes, want)
	}
	if !strings.Contains(diags[0].Err.Message, "1.0.0, 2.0.0") {
		t.Errorf("message %q should list installed versions", diags[0].Err.Message)
	}
	if got := resolvedIDs(pool, app); !slices.Equal(got, []string{"ok@1.0.4"}) {
		t.Errorf("resolved = %v, want [ok@1.0.4]", got)
	}
}

func TestResolveDuplicateIdentityFirstWins(t *testing.T) {
	first := inst("dup", "1.0.0")
	second := inst("dup", "1.0.0", "lib", "*")
	app := inst("app", "1.0.0", "dup", "1.0.0")
	pool := NewPool([]*Instance{first, inst("lib", "1.0.0"), second})
	pool.AddRoot(app)

	mustResolve(t, pool, Options{})

	if len(app.Resolved) != 1 || pool.Get(app.Resolved[0]) != first {
		t.Errorf("app should bind to the first-discovered dup instance")
	}
	if got := resolvedIDs(pool, second); !slices.Equal(got, []string{"lib@1.0.0"}) {
		t.Errorf("duplicate still resolves its own requirements, got %v", got)
	}
	if got := pool.Candidates("dup"); len(got) != 1 {
		t.Errorf("Candidates(dup) = %v, want one handle", got)
	}
}

func TestResolveVerifySemver(t *testing.T) {
	app := inst("app", "1.0.0", "beta", "^1.0.0", "stable", "^1.0.0", "git", "github:user/git")
	pool := NewPool([]*Instance{
		inst("beta", "1.2.0-beta.1"),
		inst("stable", "1.2.0"),
		inst("git", "0.0.0-dev"),
	})
	pool.AddRoot(app)

	diags := mustResolve(t, pool, Options{VerifySemver: true})

	if len(app.Resolved) != 3 {
		t.Errorf("non-conformant edges must be kept, resolved = %v", resolvedIDs(pool, app))
	}
	if len(diags) != 1 || diags[0].Code() != errors.ErrCodeNonConformant || diags[0].Dependency.Name != "beta" {
		t.Errorf("diagnostics = %v, want one NON_CONFORMANT for beta", diags)
	}
}

func TestResolveLogsDiagnostics(t *testing.T) {
	app := inst("app", "1.0.0", "ghost", "1")
	pool := NewPool(nil)
	pool.AddRoot(app)

	var mu sync.Mutex
	var logged []string
	mustResolve(t, pool, Options{Logger: func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		logged = append(logged, format)
	}})
	if len(logged) != 1 {
		t.Errorf("logged %d messages, want 1", len(logged))
	}
}

func TestResolveConcurrentDeterministic(t *testing.T) {
	var insts []*Instance
	for _, n := range []string{"a", "b", "c", "d", "e", "f"} {
		insts = append(insts, inst(n, "1.0.0", "ghost-"+n, "1", "z", "*"))
	}
	insts = append(insts, inst("z", "1.0.0"))

	pool := NewPool(insts)
	diags := mustResolve(t, pool, Options{Workers: 4})

	var from []string
	for _, d := range diags {
		from = append(from, d.From)
	}
	want := []string{"a@1.0.0", "b@1.0.0", "c@1.0.0", "d@1.0.0", "e@1.0.0", "f@1.0.0"}
	if !slices.Equal(from, want) {
		t.Errorf("diagnostic order = %v, want %v", from, want)
	}
	for _, p := range insts[:6] {
		if got := resolvedIDs(pool, p); !slices.Equal(got, []string{"z@1.0.0"}) {
			t.Errorf("%s resolved = %v", p.ID(), got)
		}
	}
}

func TestResolveCanceled(t *testing.T) {
	pool := NewPool([]*Instance{inst("a", "1.0.0")})
	r, err := NewResolver(Options{})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Resolve(ctx, pool); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestLoadRoot(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json": `{"name":"app","version":"2.0.0",
			"dependencies":{"lib":"^1.0.0"},
			"devDependencies":{"jest":"^29.0.0","lib":"^9.0.0"},
			"optionalDependencies":{"fsevents":"*"}}`,
	})

	root, err := LoadRoot(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if root.ID() != "app@2.0.0" || !root.Root || root.Depth != -1 {
		t.Errorf("root = %+v", root)
	}
	if len(root.Declared) != 1 {
		t.Errorf("declared = %v, want only dependencies", root.Declared)
	}

	full, err := LoadRoot(dir, Options{IncludeDev: true, IncludeOptional: true})
	if err != nil {
		t.Fatal(err)
	}
	want := DependencyList{{"lib", "^1.0.0"}, {"jest", "^29.0.0"}, {"fsevents", "*"}}
	if !slices.Equal(full.Declared, want) {
		t.Errorf("declared = %v, want %v", full.Declared, want)
	}
}

func TestLoadRootDefaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-app")
	writeTree(t, dir, map[string]string{"package.json": `{"private": true}`})

	root, err := LoadRoot(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if root.ID() != "my-app@0.0.0" {
		t.Errorf("ID = %s, want my-app@0.0.0", root.ID())
	}
}

func TestPool(t *testing.T) {
	pool := NewPool([]*Instance{inst("a", "1.0.0"), inst("a", "2.0.0"), inst("a", "1.0.0")})
	if _, ok := pool.Root(); ok {
		t.Error("Root() ok before AddRoot")
	}
	h := pool.AddRoot(inst("app", "0.1.0"))
	if r, ok := pool.Root(); !ok || r != pool.Get(h) || !r.Root {
		t.Error("Root() does not return the added root")
	}
	if pool.Len() != 4 {
		t.Errorf("Len = %d, want 4", pool.Len())
	}
	if got := pool.Candidates("a"); !slices.Equal(got, []Handle{0, 1}) {
		t.Errorf("Candidates(a) = %v, want [0 1]", got)
	}
	if p, ok := pool.Lookup("a@1.0.0"); !ok || p != pool.Get(0) {
		t.Error("Lookup should return the first-discovered instance")
	}
}
