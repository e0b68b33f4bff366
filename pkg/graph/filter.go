package graph

import "github.com/matzehuels/beanchain/pkg/bean"

// Filter returns a graph without the excluded nodes.
//
// Every edge with an excluded source or target is dropped. Surviving nodes
// lose dependencies on excluded nodes without any replacement; their other
// dependencies keep their order and duplicates. Node metadata is carried over
// unchanged, and roots, chains, leaf counts and unused roots are recomputed
// for the reduced node set, since removing a node can turn its dependencies
// into roots and change which chains are unused.
//
// When no excluded name is a node of g, Filter returns g itself. The input
// graph is never modified.
func Filter(g *Graph, excluded Set) *Graph {
	if !intersects(g, excluded) {
		return g
	}

	order := make([]string, 0, len(g.order))
	deps := make(map[string][]string, len(g.order))
	meta := make(map[string]bean.Metadata, len(g.order))

	for _, name := range g.order {
		if excluded.Has(name) {
			continue
		}
		kept := make([]string, 0, len(g.deps[name]))
		for _, dep := range g.deps[name] {
			if !excluded.Has(dep) {
				kept = append(kept, dep)
			}
		}
		order = append(order, name)
		deps[name] = kept
		meta[name] = g.nodes[name].Metadata
	}

	return assemble(order, deps, meta)
}

func intersects(g *Graph, excluded Set) bool {
	if len(excluded) == 0 {
		return false
	}
	for name := range excluded {
		if g.Has(name) {
			return true
		}
	}
	return false
}
