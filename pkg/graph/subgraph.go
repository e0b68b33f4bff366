package graph

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/beanchain/pkg/errors"
)

// AllRoots is the root selector for the whole graph. It is matched
// case-insensitively.
const AllRoots = "all"

// Summary holds statistics for a query result.
//
// For whole-graph results (All is true) the JSON form carries the unused
// root count; for chain results it carries the unused flag and external
// reference counts instead.
type Summary struct {
	All       bool
	Root      string
	NodeCount int
	LeafCount int

	// Whole graph only.
	UnusedRootCount int

	// Chain only.
	IsUnused                  bool
	ExternallyReferencedNodes int
	ExternalReferencerCount   int
}

// MarshalJSON encodes the summary in the shape of its kind. The root is null
// for whole-graph results.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.All {
		return json.Marshal(struct {
			Root            *string `json:"root"`
			NodeCount       int     `json:"nodeCount"`
			LeafCount       int     `json:"leafCount"`
			UnusedRootCount int     `json:"unusedRootCount"`
		}{nil, s.NodeCount, s.LeafCount, s.UnusedRootCount})
	}
	return json.Marshal(struct {
		Root                      string `json:"root"`
		NodeCount                 int    `json:"nodeCount"`
		LeafCount                 int    `json:"leafCount"`
		IsUnused                  bool   `json:"isUnused"`
		ExternallyReferencedNodes int    `json:"externallyReferencedNodes"`
		ExternalReferencerCount   int    `json:"externalReferencerCount"`
	}{s.Root, s.NodeCount, s.LeafCount, s.IsUnused, s.ExternallyReferencedNodes, s.ExternalReferencerCount})
}

// Subgraph is the result of a reachability query.
type Subgraph struct {
	Nodes   []Node
	Edges   []Edge
	Summary Summary
}

// IsAll reports whether root selects the whole graph.
func IsAll(root string) bool {
	return root == "" || strings.EqualFold(root, AllRoots)
}

// Subgraph returns the nodes and edges reachable from root.
//
// When root is empty or "all", Subgraph returns every node and edge with the
// total node count, the total leaf count and the number of unused roots.
//
// Otherwise root must name a node of g, or Subgraph fails with
// [errors.ErrCodeNotFound]. The result holds the reachable nodes in
// breadth-first order, the edges between them, the number of reachable nodes
// referenced from outside the chain and the number of distinct outside
// referencers. Leaf count and unused status come from the precomputed
// per-root tables; for a node that is not a root the leaf count is taken
// from the traversal and the chain is never unused.
func (g *Graph) Subgraph(root string) (*Subgraph, error) {
	if IsAll(root) {
		return &Subgraph{
			Nodes: g.Nodes(),
			Edges: g.Edges(),
			Summary: Summary{
				All:             true,
				NodeCount:       g.NodeCount(),
				LeafCount:       g.LeafTotal(),
				UnusedRootCount: len(g.unused),
			},
		}, nil
	}

	if !g.Has(root) {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown bean %q", root)
	}

	order, chain := reach(root, g.deps)

	nodes := make([]Node, len(order))
	for i, name := range order {
		nodes[i] = *g.nodes[name]
	}

	edges := make([]Edge, 0, len(order))
	for _, e := range g.edges {
		if chain.Has(e.Source) && chain.Has(e.Target) {
			edges = append(edges, e)
		}
	}

	leaves, ok := g.leafCounts[root]
	if !ok {
		leaves = countLeaves(chain, g.deps)
	}
	referenced, referencers := externalReferences(chain, g.incoming)

	return &Subgraph{
		Nodes: nodes,
		Edges: edges,
		Summary: Summary{
			Root:                      root,
			NodeCount:                 len(nodes),
			LeafCount:                 leaves,
			IsUnused:                  g.IsUnused(root),
			ExternallyReferencedNodes: referenced,
			ExternalReferencerCount:   referencers,
		},
	}, nil
}
