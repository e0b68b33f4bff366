package graph

import (
	"cmp"
	"slices"

	"github.com/matzehuels/beanchain/pkg/bean"
)

// Build constructs a graph from normalized entries.
//
// Entries are taken in order. When several entries share a name, the last
// one provides the dependency list and metadata while the node keeps the
// position of the first. Every dependency name without an entry of its own
// becomes a placeholder node with [bean.Placeholder] metadata.
//
// Build never fails: malformed input has already been dropped by
// normalization and dangling references are healed with placeholders.
func Build(entries []bean.Entry) *Graph {
	order := make([]string, 0, len(entries))
	deps := make(map[string][]string, len(entries))
	meta := make(map[string]bean.Metadata, len(entries))

	for _, e := range entries {
		if _, seen := deps[e.Name]; !seen {
			order = append(order, e.Name)
		}
		deps[e.Name] = append([]string{}, e.Dependencies...)
		meta[e.Name] = e.Meta
	}

	// Placeholders have no dependencies, so one pass over the declared
	// beans closes the graph.
	declared := len(order)
	for _, name := range order[:declared] {
		for _, dep := range deps[name] {
			if _, ok := deps[dep]; ok {
				continue
			}
			deps[dep] = []string{}
			order = append(order, dep)
			if _, ok := meta[dep]; !ok {
				meta[dep] = bean.Placeholder(dep)
			}
		}
	}

	return assemble(order, deps, meta)
}

// assemble derives nodes, edges, roots, chains and unused roots from a closed
// dependency index. Every dependency in deps must be a key of deps.
func assemble(order []string, deps map[string][]string, meta map[string]bean.Metadata) *Graph {
	g := &Graph{
		order:        order,
		nodes:        make(map[string]*Node, len(order)),
		edges:        make([]Edge, 0),
		roots:        make([]string, 0),
		deps:         deps,
		incoming:     make(map[string]Set, len(order)),
		chains:       make(map[string]Set),
		leafCounts:   make(map[string]int),
		unused:       make([]UnusedRoot, 0),
		unusedLookup: make(map[string]UnusedRoot),
		framework:    make(Set),
		thirdParty:   make(Set),
		packages:     make(map[string][]string),
	}

	for _, name := range order {
		if _, ok := g.incoming[name]; !ok {
			g.incoming[name] = make(Set)
		}
		for _, dep := range deps[name] {
			in, ok := g.incoming[dep]
			if !ok {
				in = make(Set)
				g.incoming[dep] = in
			}
			in.Add(name)
		}
	}

	for _, name := range order {
		m := meta[name]
		dependents := g.incoming[name].Sorted()
		n := &Node{
			ID:              name,
			Label:           name,
			Dependencies:    deps[name],
			Dependents:      dependents,
			HasDependencies: len(deps[name]) > 0,
			DependentCount:  len(dependents),
			IsRoot:          len(dependents) == 0,
			Missing:         m.Missing,
			Metadata:        m,
			IsFrameworkBean: m.IsFrameworkBean,
			IsThirdParty:    m.IsThirdParty,
			Package:         m.Package,
		}
		g.nodes[name] = n

		for _, dep := range deps[name] {
			g.edges = append(g.edges, Edge{Source: name, Target: dep})
		}
		if n.IsRoot {
			g.roots = append(g.roots, name)
		}
		if m.IsFrameworkBean {
			g.framework.Add(name)
		}
		if m.IsThirdParty {
			g.thirdParty.Add(name)
			if m.Package != "" {
				g.packages[m.Package] = append(g.packages[m.Package], name)
			}
		}
	}
	slices.Sort(g.roots)
	for _, members := range g.packages {
		slices.Sort(members)
	}

	for _, root := range g.roots {
		_, chain := reach(root, deps)
		g.chains[root] = chain
		g.leafCounts[root] = countLeaves(chain, deps)

		if !referencedFromOutside(chain, g.incoming) {
			info := UnusedRoot{Root: root, NodeCount: len(chain), LeafCount: g.leafCounts[root]}
			g.unused = append(g.unused, info)
			g.unusedLookup[root] = info
		}
	}
	slices.SortFunc(g.unused, func(a, b UnusedRoot) int {
		if c := cmp.Compare(b.NodeCount, a.NodeCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Root, b.Root)
	})

	return g
}
