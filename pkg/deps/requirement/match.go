package requirement

// Matches reports whether version satisfies the atom.
func (a Atom) Matches(version string) bool {
	switch a.Op {
	case OpExact:
		return version == a.Bound
	case OpTilde:
		return Major(version) == Major(a.Bound) &&
			Minor(version) == Minor(a.Bound) &&
			Compare(version, a.Bound) >= 0
	case OpCaret:
		return Major(version) == Major(a.Bound) && Compare(version, a.Bound) >= 0
	case OpGreaterOrEqual:
		return Compare(version, a.Bound) >= 0
	case OpLessThan:
		return Compare(version, a.Bound) < 0
	case OpGitRef, OpAny:
		return true
	default:
		return false
	}
}

// Matches reports whether a single version satisfies e.
func (e Expr) Matches(version string) bool {
	return len(e.Filter([]string{version})) == 1
}

// Filter returns the indices of versions accepted by e, in candidate order
// for atoms. AND keeps the first child's order and drops anything a later
// child rejects; OR concatenates child results, keeping the first occurrence.
func (e Expr) Filter(versions []string) []int {
	switch e.kind {
	case KindAtom:
		var out []int
		for i, v := range versions {
			if e.atom.Matches(v) {
				out = append(out, i)
			}
		}
		return out

	case KindAnd:
		if len(e.children) == 0 {
			return nil
		}
		out := e.children[0].Filter(versions)
		for _, c := range e.children[1:] {
			keep := toSet(c.Filter(versions))
			out = filterInts(out, func(i int) bool { return keep[i] })
		}
		return out

	case KindOr:
		var out []int
		seen := make(map[int]bool)
		for _, c := range e.children {
			for _, i := range c.Filter(versions) {
				if !seen[i] {
					seen[i] = true
					out = append(out, i)
				}
			}
		}
		return out

	default:
		return nil
	}
}

// Latest returns the candidate index whose version is greatest under
// [Compare]. Equal versions keep the earliest candidate. ok is false when
// candidates is empty.
func Latest(versions []string, candidates []int) (best int, ok bool) {
	for _, i := range candidates {
		if !ok || Compare(versions[i], versions[best]) > 0 {
			best, ok = i, true
		}
	}
	return best, ok
}

func toSet(xs []int) map[int]bool {
	m := make(map[int]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func filterInts(xs []int, keep func(int) bool) []int {
	out := xs[:0:0]
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}
