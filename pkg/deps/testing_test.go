package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeTree creates files under root from a path -> content map.
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

// pkgJSON renders a minimal manifest. deps alternates name, spec.
func pkgJSON(name, version string, deps ...string) string {
	s := fmt.Sprintf(`{"name": %q, "version": %q, "dependencies": {`, name, version)
	for i := 0; i+1 < len(deps); i += 2 {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%q: %q", deps[i], deps[i+1])
	}
	return s + "}}"
}

func ids(insts []*Instance) []string {
	out := make([]string, len(insts))
	for i, p := range insts {
		out[i] = p.ID()
	}
	return out
}
