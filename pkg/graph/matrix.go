package graph

import (
	"slices"

	"github.com/matzehuels/nmgraph/pkg/deps"
)

// Matrix is a square boolean adjacency table keyed by instance identity.
// The zero value is an empty graph; use [New] or [Build] to create one.
type Matrix struct {
	ids   []string
	index map[string]int
	cells [][]bool
}

// New creates an edgeless Matrix over ids. Repeated identities keep their
// first position.
func New(ids []string) *Matrix {
	m := &Matrix{index: make(map[string]int, len(ids))}
	for _, id := range ids {
		if _, dup := m.index[id]; dup {
			continue
		}
		m.index[id] = len(m.ids)
		m.ids = append(m.ids, id)
	}
	m.cells = make([][]bool, len(m.ids))
	for i := range m.cells {
		m.cells[i] = make([]bool, len(m.ids))
	}
	return m
}

// Build materializes the adjacency relation of a resolved pool:
// cell [x][y] is true iff some requirement of x resolved to y.
func Build(pool *deps.Pool) *Matrix {
	insts := pool.Instances()
	ids := make([]string, len(insts))
	for i, p := range insts {
		ids[i] = p.ID()
	}

	m := New(ids)
	for _, p := range insts {
		from := m.index[p.ID()]
		for _, h := range p.Resolved {
			m.cells[from][m.index[pool.Get(h).ID()]] = true
		}
	}
	return m
}

// Len returns the number of identities.
func (m *Matrix) Len() int { return len(m.ids) }

// IDs returns the identities in row/column order.
func (m *Matrix) IDs() []string { return slices.Clone(m.ids) }

// Contains reports whether id is a row of the table.
func (m *Matrix) Contains(id string) bool {
	_, ok := m.index[id]
	return ok
}

// Set adds the edge from -> to. It reports false, leaving the table
// unchanged, if either identity is unknown.
func (m *Matrix) Set(from, to string) bool {
	i, ok := m.index[from]
	if !ok {
		return false
	}
	j, ok := m.index[to]
	if !ok {
		return false
	}
	m.cells[i][j] = true
	return true
}

// Has reports whether from depends on to. Unknown identities have no edges.
func (m *Matrix) Has(from, to string) bool {
	i, ok := m.index[from]
	if !ok {
		return false
	}
	j, ok := m.index[to]
	return ok && m.cells[i][j]
}

// Targets returns the identities from depends on, in column order.
func (m *Matrix) Targets(from string) []string {
	i, ok := m.index[from]
	if !ok {
		return nil
	}
	var out []string
	for j, set := range m.cells[i] {
		if set {
			out = append(out, m.ids[j])
		}
	}
	return out
}

// Sources returns the identities that depend on to, in row order.
func (m *Matrix) Sources(to string) []string {
	j, ok := m.index[to]
	if !ok {
		return nil
	}
	var out []string
	for i, row := range m.cells {
		if row[j] {
			out = append(out, m.ids[i])
		}
	}
	return out
}

// EdgeCount returns the number of true cells.
func (m *Matrix) EdgeCount() int {
	n := 0
	for _, row := range m.cells {
		for _, set := range row {
			if set {
				n++
			}
		}
	}
	return n
}

// Table returns the relation as nested maps. Every identity appears on both
// axes, so the result is square even for rows without edges.
func (m *Matrix) Table() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(m.ids))
	for i, from := range m.ids {
		row := make(map[string]bool, len(m.ids))
		for j, to := range m.ids {
			row[to] = m.cells[i][j]
		}
		out[from] = row
	}
	return out
}
