package requirement

import (
	"slices"
	"testing"
)

func TestAtomMatches(t *testing.T) {
	tests := []struct {
		name    string
		atom    Atom
		version string
		want    bool
	}{
		{"caret lower bound", Atom{OpCaret, "1.2.3"}, "1.2.3", true},
		{"caret same major", Atom{OpCaret, "1.2.3"}, "1.9.0", true},
		{"caret next major", Atom{OpCaret, "1.2.3"}, "2.0.0", false},
		{"caret below bound", Atom{OpCaret, "1.2.3"}, "1.2.2", false},
		{"tilde lower bound", Atom{OpTilde, "1.2.3"}, "1.2.3", true},
		{"tilde same minor", Atom{OpTilde, "1.2.3"}, "1.2.9", true},
		{"tilde next minor", Atom{OpTilde, "1.2.3"}, "1.3.0", false},
		{"tilde wildcard", Atom{OpTilde, "1.2.x"}, "1.2.7", true},
		{"exact", Atom{OpExact, "1.0.0"}, "1.0.0", true},
		{"exact differs", Atom{OpExact, "1.0.0"}, "1.0.1", false},
		{"gte equal", Atom{OpGreaterOrEqual, "1.0.0"}, "1.0.0", true},
		{"gte below", Atom{OpGreaterOrEqual, "1.0.0"}, "0.9.9", false},
		{"lt below", Atom{OpLessThan, "2.0.0"}, "1.9.9", true},
		{"lt equal", Atom{OpLessThan, "2.0.0"}, "2.0.0", false},
		{"gitref", Atom{OpGitRef, "git+ssh://x"}, "0.0.1", true},
		{"any", Atom{OpAny, ""}, "42.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.atom.Matches(tt.version); got != tt.want {
				t.Errorf("%s.Matches(%q) = %v, want %v", tt.atom, tt.version, got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		raw      string
		versions []string
		want     []int
	}{
		{"1.0.0 || 2.0.0", []string{"2.0.0"}, []int{0}},
		{">=1.2.0 <2.0.0", []string{"1.1.0", "1.5.0", "2.0.0"}, []int{1}},
		{"^1.0.0", []string{"0.9.0", "1.0.0", "1.4.0", "2.0.0"}, []int{1, 2}},
		{"3.0.0", []string{"1.0.0", "2.0.0"}, nil},
		{"*", []string{"1.0.0", "2.0.0"}, []int{0, 1}},
		// OR keeps first-seen order across children and drops duplicates.
		{"^2.0.0 || ^1.0.0 || 1.5.0", []string{"1.5.0", "2.1.0", "1.0.0"}, []int{1, 0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			e, err := Parse(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			if got := e.Filter(tt.versions); !slices.Equal(got, tt.want) {
				t.Errorf("Filter(%v) = %v, want %v", tt.versions, got, tt.want)
			}
		})
	}
}

func TestExprMatches(t *testing.T) {
	e, _ := Parse(">=1.0.0 <2.0.0 || 3.0.0")
	for v, want := range map[string]bool{"1.0.0": true, "1.9.9": true, "2.0.0": false, "3.0.0": true} {
		if got := e.Matches(v); got != want {
			t.Errorf("Matches(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestLatest(t *testing.T) {
	versions := []string{"1.0.0", "1.10.0", "1.9.0", "1.10.0-beta", "0.1.0"}

	tests := []struct {
		name       string
		candidates []int
		want       int
		ok         bool
	}{
		{"greatest", []int{0, 1, 2}, 1, true},
		{"tie keeps first", []int{3, 1}, 3, true},
		{"single", []int{4}, 4, true},
		{"empty", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Latest(versions, tt.candidates)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Latest(%v) = (%d, %v), want (%d, %v)", tt.candidates, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLatestDeterministic(t *testing.T) {
	versions := []string{"2.0.0", "2.0.0", "1.0.0"}
	first, _ := Latest(versions, []int{0, 1, 2})
	for range 10 {
		if got, _ := Latest(versions, []int{0, 1, 2}); got != first {
			t.Fatalf("Latest changed between runs: %d vs %d", got, first)
		}
	}
	if first != 0 {
		t.Errorf("Latest = %d, want 0", first)
	}
}
