package requirement

import (
	"strconv"
	"strings"
)

// minComponents is the number of components every version is padded to.
const minComponents = 3

// Compare orders two concrete versions, returning 1 if a is newer, -1 if
// b is newer and 0 if they are equal after suffix stripping. Non-numeric
// components compare as 0.
func Compare(a, b string) int {
	ac, bc := components(a), components(b)
	n := max(len(ac), len(bc), minComponents)
	for i := range n {
		x, y := at(ac, i), at(bc, i)
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

// Major returns the first component of v.
func Major(v string) int { return at(components(v), 0) }

// Minor returns the second component of v.
func Minor(v string) int { return at(components(v), 1) }

func at(c []int, i int) int {
	if i < len(c) {
		return c[i]
	}
	return 0
}

// release strips a pre-release or build suffix ("1.2.3-beta.1" -> "1.2.3").
func release(v string) string {
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		return v[:i]
	}
	return v
}

func components(v string) []int {
	parts := strings.Split(release(strings.TrimSpace(v)), ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			n = 0
		}
		out[i] = n
	}
	return out
}

// validBound reports whether v can act as a comparison bound: every dotted
// component is a non-negative integer or a wildcard (x, X, *).
func validBound(v string) bool {
	r := release(v)
	if r == "" {
		return false
	}
	for _, p := range strings.Split(r, ".") {
		if isWildcard(p) {
			continue
		}
		if !isDigits(p) {
			return false
		}
	}
	return true
}

func isWildcard(s string) bool { return s == "x" || s == "X" || s == "*" }

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
