package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/nmgraph/pkg/errors"
	"github.com/matzehuels/nmgraph/pkg/graph"
)

// ReadJSON decodes an adjacency list from r into a Matrix.
//
// The input must be a JSON object mapping identities to arrays of
// identities. Key order becomes table order. Every target must also appear
// as a key; a repeated key is rejected. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Matrix, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var ids []string
	var targets [][]string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, invalid(err, "read key")
		}
		id, _ := tok.(string)
		if seen[id] {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate identity %q", id)
		}
		seen[id] = true

		var to []string
		if err := dec.Decode(&to); err != nil {
			return nil, invalid(err, "targets of %s", id)
		}
		ids = append(ids, id)
		targets = append(targets, to)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	m := graph.New(ids)
	for i, from := range ids {
		for _, to := range targets[i] {
			if !m.Set(from, to) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %s->%s: unknown target", from, to)
			}
		}
	}
	return m, nil
}

// ReadTable decodes a full table written by [WriteTable].
func ReadTable(r io.Reader) (*graph.Matrix, error) {
	var data table
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, invalid(err, "decode table")
	}
	if len(data.Adjacency) != len(data.IDs) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "table has %d rows for %d ids", len(data.Adjacency), len(data.IDs))
	}

	m := graph.New(data.IDs)
	if m.Len() != len(data.IDs) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "table ids are not unique")
	}
	for i, row := range data.Adjacency {
		if len(row) != len(data.IDs) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "row %s has %d cells, want %d", data.IDs[i], len(row), len(data.IDs))
		}
		for j, set := range row {
			if set {
				m.Set(data.IDs[i], data.IDs[j])
			}
		}
	}
	return m, nil
}

// ImportJSON reads a graph file in either format and returns its Matrix.
func ImportJSON(path string) (*graph.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	isTable, err := looksLikeTable(br)
	if err != nil {
		return nil, err
	}
	if isTable {
		return ReadTable(br)
	}
	return ReadJSON(br)
}

// looksLikeTable peeks at the first key of the document without
// consuming input.
func looksLikeTable(br *bufio.Reader) (bool, error) {
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return false, invalid(err, "read")
	}
	dec := json.NewDecoder(bytes.NewReader(head))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return false, nil
	}
	tok, err := dec.Token()
	if err != nil {
		return false, nil
	}
	return tok == "ids", nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return invalid(err, "read")
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New(errors.ErrCodeInvalidFormat, "expected %q, got %v", want, tok)
	}
	return nil
}

func invalid(err error, format string, args ...any) *errors.Error {
	return errors.Wrap(errors.ErrCodeInvalidFormat, err, format, args...)
}
