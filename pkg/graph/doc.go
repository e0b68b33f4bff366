// Package graph builds and queries bean dependency graphs.
//
// # Overview
//
// A [Graph] is derived from normalized bean entries (see package bean). Every
// entry contributes a node and one edge per declared dependency, where an
// edge A→B means "A depends on B". Names that are referenced as dependencies
// but never declared become placeholder nodes marked Missing, so every
// dependency resolves to a node.
//
// Build derives everything a viewer needs up front:
//
//   - The incoming index (who depends on a node)
//   - Roots: nodes nothing depends on, sorted by name
//   - Per-root reachability: every node reachable from the root, root included
//   - Per-root leaf counts: reachable nodes without dependencies
//   - Unused roots: chains never referenced from outside themselves
//
// # Unused Chains
//
// A root R is unused when no node reachable from R has a dependent outside
// R's reachable set. Such a chain is a dead dependency tree: removing it does
// not affect any other bean. Unused roots are listed by descending chain size,
// then by name.
//
// # Cycles
//
// Extraction data is not guaranteed to be acyclic. Traversals keep a visited
// set and always terminate; no cycle is broken or reported.
//
// # Filtering
//
// [Filter] removes a set of nodes together with every edge touching them and
// recomputes all derived data from scratch. Surviving nodes silently lose
// dependencies on removed nodes. An empty exclusion set returns the input
// graph itself.
//
// # Queries
//
// [Graph.Subgraph] returns either the whole graph (root "" or "all") or the
// induced subgraph reachable from a root, with chain statistics.
//
// # Concurrency
//
// A Graph is immutable after construction. Any number of goroutines may
// query the same Graph. Slices returned by accessors documented as read-only
// views must not be modified.
package graph
