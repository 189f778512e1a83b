package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nmgraph/pkg/graph"
)

// adjacency is an ordered identity -> targets mapping.
type adjacency struct {
	ids     []string
	targets [][]string
}

func (a adjacency) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range a.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		targets := a.targets[i]
		if targets == nil {
			targets = []string{}
		}
		v, err := json.Marshal(targets)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type table struct {
	IDs       []string `json:"ids"`
	Adjacency [][]bool `json:"adjacency"`
}

// WriteJSON encodes m as an adjacency list and writes it to w.
// Keys and target lists follow the table order of m.
func WriteJSON(m *graph.Matrix, w io.Writer) error {
	ids := m.IDs()
	out := adjacency{ids: ids, targets: make([][]string, len(ids))}
	for i, id := range ids {
		out.targets[i] = m.Targets(id)
	}
	return encode(out, w)
}

// WriteTable encodes the full boolean relation of m and writes it to w.
func WriteTable(m *graph.Matrix, w io.Writer) error {
	ids := m.IDs()
	out := table{IDs: ids, Adjacency: make([][]bool, len(ids))}
	for i, from := range ids {
		row := make([]bool, len(ids))
		for j, to := range ids {
			row[j] = m.Has(from, to)
		}
		out.Adjacency[i] = row
	}
	return encode(out, w)
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes m as an adjacency list to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *graph.Matrix, path string) error {
	return export(path, func(w io.Writer) error { return WriteJSON(m, w) })
}

// ExportTable writes the full table of m to a JSON file at path.
func ExportTable(m *graph.Matrix, path string) error {
	return export(path, func(w io.Writer) error { return WriteTable(m, w) })
}

func export(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
