package graph

import (
	"encoding/json"
	"reflect"
	"slices"
	"testing"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/errors"
)

// entries builds normalized entries from name → dependencies pairs.
func entries(pairs ...any) []bean.Entry {
	var out []bean.Entry
	for i := 0; i < len(pairs); i += 2 {
		e, ok := bean.Normalize(bean.Record{
			Name:         pairs[i].(string),
			Dependencies: pairs[i+1].([]string),
		})
		if ok {
			out = append(out, e)
		}
	}
	return out
}

func deps(names ...string) []string { return names }

func TestBuild(t *testing.T) {
	tests := []struct {
		name      string
		entries   []bean.Entry
		wantNodes int
		wantEdges int
		wantRoots []string
		check     func(t *testing.T, g *Graph)
	}{
		{
			name:      "Empty",
			entries:   nil,
			wantNodes: 0,
			wantEdges: 0,
			wantRoots: nil,
		},
		{
			name:      "SharedDependency",
			entries:   entries("A", deps("B"), "B", deps(), "C", deps("B")),
			wantNodes: 3,
			wantEdges: 2,
			wantRoots: []string{"A", "C"},
			check: func(t *testing.T, g *Graph) {
				b, _ := g.Node("B")
				if b.IsRoot {
					t.Error("B is depended on and must not be a root")
				}
				if !slices.Equal(b.Dependents, []string{"A", "C"}) {
					t.Errorf("B dependents = %v, want [A C]", b.Dependents)
				}
				if g.IsUnused("A") || g.IsUnused("C") {
					t.Error("A and C share B with each other and must not be unused")
				}
			},
		},
		{
			name:      "PlaceholderForUndeclared",
			entries:   entries("A", deps("ghost")),
			wantNodes: 2,
			wantEdges: 1,
			wantRoots: []string{"A"},
			check: func(t *testing.T, g *Graph) {
				n, ok := g.Node("ghost")
				if !ok {
					t.Fatal("placeholder node missing")
				}
				if !n.Missing || !n.Metadata.Missing {
					t.Error("placeholder must be marked missing")
				}
				if n.Metadata.Type != bean.PlaceholderType {
					t.Errorf("placeholder type = %q", n.Metadata.Type)
				}
				if n.HasDependencies {
					t.Error("placeholder must not have dependencies")
				}
			},
		},
		{
			name:      "DuplicateDependencies",
			entries:   entries("A", deps("B", "B"), "B", deps()),
			wantNodes: 2,
			wantEdges: 2,
			wantRoots: []string{"A"},
			check: func(t *testing.T, g *Graph) {
				b, _ := g.Node("B")
				if b.DependentCount != 1 {
					t.Errorf("B dependentCount = %d, want 1", b.DependentCount)
				}
			},
		},
		{
			name:      "LastDuplicateRecordWins",
			entries:   entries("A", deps("B"), "B", deps(), "A", deps("C")),
			wantNodes: 3,
			wantEdges: 1,
			wantRoots: []string{"A", "B"},
			check: func(t *testing.T, g *Graph) {
				if got := g.Names(); !slices.Equal(got, []string{"A", "B", "C"}) {
					t.Errorf("order = %v, want [A B C]", got)
				}
			},
		},
		{
			name:      "CycleWithoutRoot",
			entries:   entries("A", deps("B"), "B", deps("A")),
			wantNodes: 2,
			wantEdges: 2,
			wantRoots: nil,
		},
		{
			name:      "CycleBelowRoot",
			entries:   entries("R", deps("A"), "A", deps("B"), "B", deps("A")),
			wantNodes: 3,
			wantEdges: 3,
			wantRoots: []string{"R"},
			check: func(t *testing.T, g *Graph) {
				if got := g.Chain("R"); !slices.Equal(got, []string{"A", "B", "R"}) {
					t.Errorf("chain = %v, want [A B R]", got)
				}
				if !g.IsUnused("R") {
					t.Error("R is only referenced within its own chain")
				}
				if n, _ := g.LeafCount("R"); n != 0 {
					t.Errorf("leaf count = %d, want 0", n)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.entries)
			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if got := g.Roots(); !slices.Equal(got, tt.wantRoots) {
				t.Errorf("roots = %v, want %v", got, tt.wantRoots)
			}
			assertClosed(t, g)
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

// assertClosed checks the structural invariants every graph must satisfy.
func assertClosed(t *testing.T, g *Graph) {
	t.Helper()
	for _, n := range g.Nodes() {
		for _, dep := range n.Dependencies {
			if !g.Has(dep) {
				t.Errorf("dependency %s of %s has no node", dep, n.ID)
			}
		}
		if n.IsRoot != (len(n.Dependents) == 0) {
			t.Errorf("node %s: isRoot=%v with %d dependents", n.ID, n.IsRoot, len(n.Dependents))
		}
		if n.HasDependencies != (len(n.Dependencies) > 0) {
			t.Errorf("node %s: hasDependencies mismatch", n.ID)
		}
	}
	for _, e := range g.Edges() {
		if !g.Has(e.Source) || !g.Has(e.Target) {
			t.Errorf("edge %s→%s has a dangling endpoint", e.Source, e.Target)
		}
	}
	for _, r := range g.Roots() {
		if !slices.Contains(g.Chain(r), r) {
			t.Errorf("chain of %s does not contain the root", r)
		}
	}
}

func TestUnusedRoots(t *testing.T) {
	// Chain A (A→shared) is consumed by X, which depends on shared too.
	// Chain B (B→b1→b2) is referenced by nothing outside itself.
	g := Build(entries(
		"A", deps("shared"),
		"X", deps("shared"),
		"shared", deps(),
		"B", deps("b1"),
		"b1", deps("b2"),
		"b2", deps(),
		"lone", deps(),
	))

	want := []UnusedRoot{
		{Root: "B", NodeCount: 3, LeafCount: 1},
		{Root: "lone", NodeCount: 1, LeafCount: 1},
	}
	if got := g.Unused(); !reflect.DeepEqual(got, want) {
		t.Errorf("Unused() = %+v, want %+v", got, want)
	}
	if g.IsUnused("A") || g.IsUnused("X") {
		t.Error("A and X share a dependency and must not be unused")
	}
}

func TestUnusedRootsOrdering(t *testing.T) {
	g := Build(entries(
		"z", deps("z1"),
		"z1", deps(),
		"a", deps("a1"),
		"a1", deps(),
		"big", deps("b1", "b2"),
		"b1", deps(),
		"b2", deps(),
	))

	var got []string
	for _, u := range g.Unused() {
		got = append(got, u.Root)
	}
	if want := []string{"big", "a", "z"}; !slices.Equal(got, want) {
		t.Errorf("unused order = %v, want %v", got, want)
	}
}

func TestFilter(t *testing.T) {
	base := Build(entries(
		"app", deps("svc", "fw", "svc"),
		"svc", deps("fw", "repo"),
		"repo", deps(),
		"fw", deps("fwcore"),
		"fwcore", deps(),
	))

	t.Run("EmptyExclusionIsIdentity", func(t *testing.T) {
		if got := Filter(base, nil); got != base {
			t.Error("Filter with nil set should return the input graph")
		}
		if got := Filter(base, NewSet()); got != base {
			t.Error("Filter with empty set should return the input graph")
		}
		if got := Filter(base, NewSet("unknown")); got != base {
			t.Error("Filter with disjoint set should return the input graph")
		}
	})

	t.Run("RemovesNodeAndIncidentEdges", func(t *testing.T) {
		g := Filter(base, NewSet("fw"))
		if g.Has("fw") {
			t.Fatal("excluded node survived")
		}
		for _, e := range g.Edges() {
			if e.Source == "fw" || e.Target == "fw" {
				t.Errorf("edge %s→%s touches excluded node", e.Source, e.Target)
			}
		}
		if got := g.Dependencies("app"); !slices.Equal(got, []string{"svc", "svc"}) {
			t.Errorf("app deps = %v, want [svc svc]", got)
		}
		if got := g.Dependencies("svc"); !slices.Equal(got, []string{"repo"}) {
			t.Errorf("svc deps = %v, want [repo]", got)
		}
		assertClosed(t, g)
	})

	t.Run("RecomputesRootsAndUnused", func(t *testing.T) {
		g := Filter(base, NewSet("fw"))
		if got, want := g.Roots(), []string{"app", "fwcore"}; !slices.Equal(got, want) {
			t.Errorf("roots = %v, want %v", got, want)
		}
		if !g.IsUnused("fwcore") {
			t.Error("fwcore lost its only dependent and should be an unused root")
		}
		if base.IsUnused("fwcore") || slices.Contains(base.Roots(), "fwcore") {
			t.Error("base graph must not be affected by filtering")
		}
	})

	t.Run("DoesNotModifyInput", func(t *testing.T) {
		before := base.Nodes()
		_ = Filter(base, NewSet("svc", "repo"))
		if !reflect.DeepEqual(before, base.Nodes()) {
			t.Error("Filter modified the input graph")
		}
	})

	t.Run("KeepsMetadata", func(t *testing.T) {
		g := Filter(base, NewSet("repo"))
		n, _ := g.Node("svc")
		if n.Metadata.Name != "svc" {
			t.Errorf("metadata lost: %+v", n.Metadata)
		}
	})
}

func TestSubgraph(t *testing.T) {
	g := Build(entries(
		"A", deps("B"),
		"B", deps(),
		"C", deps("B"),
		"D", deps("E"),
		"E", deps("D2"),
		"D2", deps(),
	))

	t.Run("All", func(t *testing.T) {
		for _, root := range []string{"", "all", "ALL", "All"} {
			sg, err := g.Subgraph(root)
			if err != nil {
				t.Fatalf("Subgraph(%q): %v", root, err)
			}
			if !sg.Summary.All {
				t.Errorf("Subgraph(%q) should select the whole graph", root)
			}
			if sg.Summary.NodeCount != g.NodeCount() || len(sg.Nodes) != g.NodeCount() {
				t.Errorf("nodeCount = %d, want %d", sg.Summary.NodeCount, g.NodeCount())
			}
			if len(sg.Edges) != g.EdgeCount() {
				t.Errorf("edges = %d, want %d", len(sg.Edges), g.EdgeCount())
			}
			if sg.Summary.LeafCount != 2 {
				t.Errorf("leafCount = %d, want 2", sg.Summary.LeafCount)
			}
			if sg.Summary.UnusedRootCount != 1 {
				t.Errorf("unusedRootCount = %d, want 1", sg.Summary.UnusedRootCount)
			}
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := g.Subgraph("unknown-name")
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("error = %v, want NOT_FOUND", err)
		}
	})

	t.Run("SharedChainIsNotUnused", func(t *testing.T) {
		sg, err := g.Subgraph("A")
		if err != nil {
			t.Fatal(err)
		}
		s := sg.Summary
		if s.IsUnused {
			t.Error("root A shares B with C and must not be unused")
		}
		if s.NodeCount != 2 || s.LeafCount != 1 {
			t.Errorf("nodeCount=%d leafCount=%d, want 2 and 1", s.NodeCount, s.LeafCount)
		}
		if s.ExternallyReferencedNodes != 1 || s.ExternalReferencerCount != 1 {
			t.Errorf("external = %d/%d, want 1/1", s.ExternallyReferencedNodes, s.ExternalReferencerCount)
		}
		if got := []string{sg.Nodes[0].ID, sg.Nodes[1].ID}; !slices.Equal(got, []string{"A", "B"}) {
			t.Errorf("nodes = %v, want BFS order [A B]", got)
		}
		if want := []Edge{{Source: "A", Target: "B"}}; !reflect.DeepEqual(sg.Edges, want) {
			t.Errorf("edges = %v, want %v", sg.Edges, want)
		}
	})

	t.Run("UnusedChain", func(t *testing.T) {
		sg, err := g.Subgraph("D")
		if err != nil {
			t.Fatal(err)
		}
		if !sg.Summary.IsUnused {
			t.Error("chain D is referenced by nothing outside and should be unused")
		}
		if sg.Summary.ExternallyReferencedNodes != 0 || sg.Summary.ExternalReferencerCount != 0 {
			t.Errorf("unexpected external references: %+v", sg.Summary)
		}
	})

	t.Run("InnerNode", func(t *testing.T) {
		sg, err := g.Subgraph("E")
		if err != nil {
			t.Fatal(err)
		}
		if sg.Summary.IsUnused {
			t.Error("inner node is never an unused root")
		}
		if sg.Summary.LeafCount != 1 {
			t.Errorf("leafCount = %d, want 1", sg.Summary.LeafCount)
		}
		leaves := 0
		for _, n := range sg.Nodes {
			if !n.HasDependencies {
				leaves++
			}
		}
		if sg.Summary.LeafCount != leaves {
			t.Errorf("leafCount = %d, but %d returned nodes have no dependencies", sg.Summary.LeafCount, leaves)
		}
		if sg.Summary.ExternalReferencerCount != 1 {
			t.Errorf("externalReferencerCount = %d, want 1 (D)", sg.Summary.ExternalReferencerCount)
		}
	})

	t.Run("CycleToRootTerminates", func(t *testing.T) {
		cyc := Build(entries("R", deps("S"), "S", deps("R")))
		sg, err := cyc.Subgraph("R")
		if err != nil {
			t.Fatal(err)
		}
		if sg.Summary.NodeCount != 2 || len(sg.Edges) != 2 {
			t.Errorf("nodes=%d edges=%d, want 2 and 2", sg.Summary.NodeCount, len(sg.Edges))
		}
	})
}

func TestSummaryJSON(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    map[string]any
	}{
		{
			name:    "All",
			summary: Summary{All: true, NodeCount: 3, LeafCount: 1, UnusedRootCount: 2},
			want: map[string]any{
				"root": nil, "nodeCount": 3.0, "leafCount": 1.0, "unusedRootCount": 2.0,
			},
		},
		{
			name:    "Chain",
			summary: Summary{Root: "A", NodeCount: 2, LeafCount: 1, IsUnused: false},
			want: map[string]any{
				"root": "A", "nodeCount": 2.0, "leafCount": 1.0, "isUnused": false,
				"externallyReferencedNodes": 0.0, "externalReferencerCount": 0.0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.summary)
			if err != nil {
				t.Fatal(err)
			}
			var got map[string]any
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("json = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPackages(t *testing.T) {
	var es []bean.Entry
	for _, r := range []bean.Record{
		{Name: "om", Type: "com.fasterxml.jackson.databind.ObjectMapper", Source: "ThirdParty"},
		{Name: "mod", Type: "com.fasterxml.jackson.datatype.JavaTimeModule", Source: "ThirdParty"},
		{Name: "sql", Type: "org.apache.ibatis.session.SqlSessionFactory", Source: "ThirdParty"},
		{Name: "app", Dependencies: []string{"om", "sql"}},
	} {
		e, _ := bean.Normalize(r)
		es = append(es, e)
	}
	g := Build(es)

	want := []Package{{ID: "com.fasterxml.jackson", Count: 2}, {ID: "org.apache.ibatis", Count: 1}}
	if got := g.Packages(); !reflect.DeepEqual(got, want) {
		t.Errorf("Packages() = %v, want %v", got, want)
	}
	if got := g.PackageMembers("com.fasterxml.jackson"); !slices.Equal(got, []string{"mod", "om"}) {
		t.Errorf("members = %v, want [mod om]", got)
	}
	if got := len(g.ThirdPartyBeans()); got != 3 {
		t.Errorf("third-party beans = %d, want 3", got)
	}
}
