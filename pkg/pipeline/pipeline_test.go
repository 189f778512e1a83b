package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nmgraph/pkg/errors"
	"github.com/matzehuels/nmgraph/pkg/graph"
	"github.com/matzehuels/nmgraph/pkg/observability"
	"github.com/matzehuels/nmgraph/pkg/render"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func quietRunner() *Runner {
	return NewRunner(log.NewWithOptions(io.Discard, log.Options{}))
}

func TestResolveEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json":                  `{"name":"app","version":"1.0.0","dependencies":{"lib":"^1.0.0"}}`,
		"node_modules/lib/package.json": `{"name":"lib","version":"1.2.0"}`,
	})

	table, root, err := Resolve(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if root != "app@1.0.0" {
		t.Errorf("root = %q, want app@1.0.0", root)
	}
	if len(table) != 2 {
		t.Fatalf("table has %d rows, want 2", len(table))
	}
	for from, row := range table {
		for to, set := range row {
			want := from == "app@1.0.0" && to == "lib@1.2.0"
			if set != want {
				t.Errorf("table[%s][%s] = %v, want %v", from, to, set, want)
			}
		}
	}
}

func TestExecuteDiamond(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json":                                        `{"name":"app","version":"1.0.0","dependencies":{"left":"^1.0.0","right":"^1.0.0","ghost":"^1.0.0"}}`,
		"node_modules/left/package.json":                      `{"name":"left","version":"1.0.0","dependencies":{"shared":"^1.0.0"}}`,
		"node_modules/left/node_modules/shared/package.json":  `{"name":"shared","version":"1.0.0"}`,
		"node_modules/right/package.json":                     `{"name":"right","version":"1.0.0","dependencies":{"shared":"^2.0.0"}}`,
		"node_modules/right/node_modules/shared/package.json": `{"name":"shared","version":"2.0.0"}`,
		"node_modules/.bin/ignored/package.json":              `{"name":"ignored","version":"0.0.1"}`,
	})

	res, err := quietRunner().Execute(context.Background(), dir, Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}

	m := res.Matrix
	wantIDs := []string{"left@1.0.0", "shared@1.0.0", "right@1.0.0", "shared@2.0.0", "app@1.0.0"}
	if got := m.IDs(); !slices.Equal(got, wantIDs) {
		t.Errorf("IDs = %v, want %v", got, wantIDs)
	}
	if !m.Has("left@1.0.0", "shared@1.0.0") || !m.Has("right@1.0.0", "shared@2.0.0") {
		t.Error("diamond edges missing")
	}
	if m.Has("left@1.0.0", "shared@2.0.0") || m.Has("right@1.0.0", "shared@1.0.0") {
		t.Error("diamond edges crossed")
	}
	if got := m.Targets("app@1.0.0"); !slices.Equal(got, []string{"left@1.0.0", "right@1.0.0"}) {
		t.Errorf("Targets(app) = %v", got)
	}

	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code() != errors.ErrCodeNameNotInPool {
		t.Errorf("diagnostics = %v, want one NAME_NOT_IN_POOL", res.Diagnostics)
	}
	if res.Stats.Instances != 4 || res.Stats.EdgeCount != 4 || res.Stats.NodeCount != 5 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestExecuteWithoutNodeModules(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json": `{"name":"app","version":"1.0.0","dependencies":{"lib":"^1.0.0"}}`,
	})

	res, err := quietRunner().Execute(context.Background(), dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Matrix.IDs(); !slices.Equal(got, []string{"app@1.0.0"}) {
		t.Errorf("IDs = %v, want only the root", got)
	}
	if len(res.Diagnostics) != 1 {
		t.Errorf("diagnostics = %v, want one", res.Diagnostics)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		path  string
		want  errors.Code
	}{
		{
			name: "MissingProject",
			path: "does-not-exist",
			want: errors.ErrCodeInvalidPath,
		},
		{
			name:  "MissingManifest",
			files: map[string]string{"README.md": "hi"},
			want:  errors.ErrCodeManifestUnreadable,
		},
		{
			name: "BrokenPackage",
			files: map[string]string{
				"package.json":                  `{"name":"app","version":"1.0.0"}`,
				"node_modules/bad/package.json": `{"name": bad}`,
			},
			want: errors.ErrCodeManifestUnreadable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, tt.files)
			_, err := quietRunner().Execute(context.Background(), filepath.Join(dir, tt.path), Options{})
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
	codes  []string
	misses int64
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnCollectStart(context.Context, string) { h.record("collect-start") }
func (h *recordingHooks) OnCollectComplete(context.Context, string, int, time.Duration, error) {
	h.record("collect")
}
func (h *recordingHooks) OnResolveStart(context.Context, int) { h.record("resolve-start") }
func (h *recordingHooks) OnResolveComplete(context.Context, int, time.Duration, error) {
	h.record("resolve")
}
func (h *recordingHooks) OnBuildComplete(context.Context, int, int, time.Duration) {
	h.record("build")
}
func (h *recordingHooks) OnDiagnostic(_ context.Context, code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.codes = append(h.codes, code)
}
func (h *recordingHooks) OnCacheStats(_ context.Context, _ string, _, misses int64) {
	h.misses = misses
}

func TestExecuteReportsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json":                  `{"name":"app","version":"1.0.0","dependencies":{"lib":"^2.0.0"}}`,
		"node_modules/lib/package.json": `{"name":"lib","version":"1.2.0"}`,
	})
	if _, err := quietRunner().Execute(context.Background(), dir, Options{}); err != nil {
		t.Fatal(err)
	}

	want := []string{"collect-start", "collect", "resolve-start", "resolve", "build"}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
	if !slices.Equal(hooks.codes, []string{"NO_VERSION_MATCH"}) {
		t.Errorf("codes = %v", hooks.codes)
	}
	if hooks.misses != 1 {
		t.Errorf("cache misses = %d, want 1", hooks.misses)
	}
}

func TestRender(t *testing.T) {
	m := graph.New([]string{"lib@1.2.0", "app@1.0.0"})
	m.Set("app@1.0.0", "lib@1.2.0")

	svg, err := quietRunner().Render(context.Background(), m, "app@1.0.0", render.FormatSVG, RenderOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("output is not SVG: %.100s", svg)
	}

	if _, err := quietRunner().Render(context.Background(), m, "nope@1.0.0", render.FormatSVG, RenderOptions{}); err == nil {
		t.Error("expected error for unknown root")
	}
}
