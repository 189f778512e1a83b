package graph

// Depths returns the breadth-first distance of every identity reachable
// from root, with root at 0. It is nil when root is unknown.
func (m *Matrix) Depths(root string) map[string]int {
	start, ok := m.index[root]
	if !ok {
		return nil
	}

	depth := map[string]int{root: 0}
	queue := []int{start}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for j, set := range m.cells[i] {
			if !set {
				continue
			}
			if _, seen := depth[m.ids[j]]; seen {
				continue
			}
			depth[m.ids[j]] = depth[m.ids[i]] + 1
			queue = append(queue, j)
		}
	}
	return depth
}

// Reachable returns the identities reachable from root (root included) in
// table order.
func (m *Matrix) Reachable(root string) []string {
	depth := m.Depths(root)
	var out []string
	for _, id := range m.ids {
		if _, ok := depth[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Subgraph returns the Matrix restricted to ids, keeping table order and
// only edges between kept identities. Unknown ids are ignored.
func (m *Matrix) Subgraph(ids []string) *Matrix {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = m.Contains(id)
	}

	var kept []string
	for _, id := range m.ids {
		if keep[id] {
			kept = append(kept, id)
		}
	}

	sub := New(kept)
	for _, from := range kept {
		for _, to := range m.Targets(from) {
			if keep[to] {
				sub.Set(from, to)
			}
		}
	}
	return sub
}
