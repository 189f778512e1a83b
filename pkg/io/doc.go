// Package io serializes dependency graphs to and from JSON.
//
// # Adjacency List Format
//
// [WriteJSON] emits one key per instance identity, in table order, mapped
// to the identities it depends on:
//
//	{
//	  "lib@1.2.0": [],
//	  "app@1.0.0": ["lib@1.2.0"]
//	}
//
// Every identity appears as a key, including those without dependencies,
// so [ReadJSON] can rebuild the same square table.
//
// # Table Format
//
// [WriteTable] emits the full boolean relation, rows and columns in the
// order given by "ids":
//
//	{
//	  "ids": ["lib@1.2.0", "app@1.0.0"],
//	  "adjacency": [[false, false], [true, false]]
//	}
//
// # Files
//
// [ExportJSON] and [ImportJSON] wrap the stream functions for file paths.
// ImportJSON accepts either format and picks the decoder from the first
// key of the document.
//
// Decoding failures carry [errors.ErrCodeInvalidFormat].
package io
