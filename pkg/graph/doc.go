// Package graph builds the dependency graph of an installed package tree.
//
// The graph is a square boolean adjacency table over package instance
// identities ("name@version"). It is the only artifact the resolution core
// hands to serialization and rendering:
//
//	pool := deps.NewPool(instances)
//	pool.AddRoot(root)
//	_, _ = resolver.Resolve(ctx, pool)
//	m := graph.Build(pool)
//	m.Has("app@1.0.0", "lib@1.2.0") // true if a requirement of app bound to lib
//
// # Identity Order
//
// Rows and columns share one order: instances in discovery order with the
// project root last, each identity listed once. When the same identity is
// installed more than once, the copies share a row and their edges are
// merged.
//
// # Cycles
//
// npm trees may contain dependency cycles, so [Matrix] makes no acyclicity
// assumption. Traversals ([Matrix.Reachable], [Matrix.Depths]) are
// breadth-first and visit each identity once.
//
// A Matrix is not safe for concurrent mutation. It is built once after
// resolution and read afterwards.
package graph
