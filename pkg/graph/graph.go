package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/beanchain/pkg/bean"
)

// Set is a set of node names.
type Set map[string]struct{}

// NewSet returns a set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name into the set.
func (s Set) Add(name string) { s[name] = struct{}{} }

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string { return slices.Sorted(maps.Keys(s)) }

// Node is a bean in the dependency graph.
type Node struct {
	ID              string        `json:"id"`
	Label           string        `json:"label"`
	Dependencies    []string      `json:"dependencies"` // As declared, duplicates kept
	Dependents      []string      `json:"dependents"`   // Sorted, unique
	HasDependencies bool          `json:"hasDependencies"`
	DependentCount  int           `json:"dependentCount"`
	IsRoot          bool          `json:"isRoot"`
	Missing         bool          `json:"missing"`
	Metadata        bean.Metadata `json:"metadata"`
	IsFrameworkBean bool          `json:"isSpringBean"`
	IsThirdParty    bool          `json:"isThirdParty"`
	Package         string        `json:"package,omitempty"`
}

// Edge is a directed dependency: Source depends on Target.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// UnusedRoot describes a root whose chain is not referenced from outside.
type UnusedRoot struct {
	Root      string `json:"root"`
	NodeCount int    `json:"nodeCount"`
	LeafCount int    `json:"leafCount"`
}

// Package is a third-party package and the number of beans inferred to
// belong to it.
type Package struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Graph is an immutable bean dependency graph with precomputed reachability.
//
// The zero value is an empty graph. Use [Build] or [Filter] to create graphs.
type Graph struct {
	order        []string // node names in first-seen order
	nodes        map[string]*Node
	edges        []Edge
	roots        []string
	deps         map[string][]string
	incoming     map[string]Set
	chains       map[string]Set
	leafCounts   map[string]int
	unused       []UnusedRoot
	unusedLookup map[string]UnusedRoot
	framework    Set
	thirdParty   Set
	packages     map[string][]string // package -> sorted member names
}

// NodeCount returns the number of nodes, placeholders included.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges, duplicates included.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Has reports whether the graph contains a node with the given name.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns a copy of the named node and true, or false if not found.
// Slices in the returned node are read-only views.
func (g *Graph) Node(name string) (Node, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all nodes in first-seen order: declared beans in
// record order, then placeholders in the order they were first referenced.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, name := range g.order {
		out[i] = *g.nodes[name]
	}
	return out
}

// Names returns all node names in first-seen order.
func (g *Graph) Names() []string { return slices.Clone(g.order) }

// Edges returns a copy of all edges in declaration order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Roots returns the sorted names of nodes without dependents.
func (g *Graph) Roots() []string { return slices.Clone(g.roots) }

// Dependencies returns the declared dependencies of the node.
// The returned slice is a read-only view.
func (g *Graph) Dependencies(name string) []string { return g.deps[name] }

// Dependents returns the sorted names of nodes depending on the node.
// The returned slice is a read-only view.
func (g *Graph) Dependents(name string) []string {
	if n, ok := g.nodes[name]; ok {
		return n.Dependents
	}
	return nil
}

// Chain returns the sorted names of nodes reachable from a root, the root
// included. Returns nil for names that are not roots.
func (g *Graph) Chain(root string) []string {
	if c, ok := g.chains[root]; ok {
		return c.Sorted()
	}
	return nil
}

// LeafCount returns the precomputed leaf count of a root's chain and true,
// or false for names that are not roots.
func (g *Graph) LeafCount(root string) (int, bool) {
	n, ok := g.leafCounts[root]
	return n, ok
}

// LeafTotal returns the number of nodes without dependencies.
func (g *Graph) LeafTotal() int {
	count := 0
	for _, name := range g.order {
		if len(g.deps[name]) == 0 {
			count++
		}
	}
	return count
}

// Unused returns the unused roots sorted by descending node count, then name.
func (g *Graph) Unused() []UnusedRoot { return slices.Clone(g.unused) }

// IsUnused reports whether name is an unused root.
func (g *Graph) IsUnused(name string) bool {
	_, ok := g.unusedLookup[name]
	return ok
}

// FrameworkBeans returns the names of framework-internal beans.
// The returned set is a read-only view.
func (g *Graph) FrameworkBeans() Set { return g.framework }

// ThirdPartyBeans returns the names of third-party beans.
// The returned set is a read-only view.
func (g *Graph) ThirdPartyBeans() Set { return g.thirdParty }

// PackageMembers returns the sorted names of beans inferred to belong to the
// third-party package. The returned slice is a read-only view.
func (g *Graph) PackageMembers(id string) []string { return g.packages[id] }

// Packages returns the third-party packages sorted by identifier.
func (g *Graph) Packages() []Package {
	ids := slices.Sorted(maps.Keys(g.packages))
	out := make([]Package, len(ids))
	for i, id := range ids {
		out[i] = Package{ID: id, Count: len(g.packages[id])}
	}
	return out
}

// PackageIDs returns the third-party package identifiers in sorted order.
func (g *Graph) PackageIDs() []string { return slices.Sorted(maps.Keys(g.packages)) }
