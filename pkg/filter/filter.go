// Package filter describes graph views by the beans they exclude.
//
// [Options] is the filter half of a query: whether framework beans are
// hidden, whether third-party beans are hidden, and which third-party
// packages are hidden. [Options.Excluded] resolves the options to a concrete
// node set for a graph, and [Options.Key] produces the canonical cache key of
// the view.
package filter

import (
	"slices"
	"strings"

	"github.com/matzehuels/beanchain/pkg/cache"
	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/graph"
)

// Options selects the beans removed from a view.
//
// Third-party exclusion has two dimensions that interact:
//
//   - Packages non-empty: only members of the listed packages are excluded,
//     whatever the value of ExcludeThirdParty.
//   - Packages empty and ExcludeThirdParty set: every third-party bean is
//     excluded.
//
// Existing callers send ExcludeThirdParty without packages to mean "hide
// all third-party beans", so the empty list is not treated as "hide none".
type Options struct {
	ExcludeFramework  bool     `json:"excludeFramework"`
	ExcludeThirdParty bool     `json:"excludeThirdParty"`
	Packages          []string `json:"packages,omitempty"`
}

// None is the unfiltered view.
var None = Options{}

// Normalize returns a copy with trimmed, deduplicated and sorted packages.
// Blank package entries are dropped.
func (o Options) Normalize() Options {
	out := Options{
		ExcludeFramework:  o.ExcludeFramework,
		ExcludeThirdParty: o.ExcludeThirdParty,
	}
	for _, p := range o.Packages {
		if p = strings.TrimSpace(p); p != "" {
			out.Packages = append(out.Packages, p)
		}
	}
	slices.Sort(out.Packages)
	out.Packages = slices.Compact(out.Packages)
	return out
}

// Validate checks every package identifier.
func (o Options) Validate() error {
	for _, p := range o.Normalize().Packages {
		if err := errors.ValidatePackageID(p); err != nil {
			return err
		}
	}
	return nil
}

// IsZero reports whether the options exclude nothing.
func (o Options) IsZero() bool {
	n := o.Normalize()
	return !n.ExcludeFramework && !n.ExcludeThirdParty && len(n.Packages) == 0
}

// Key returns the canonical cache key of the options.
//
// Keys are independent of package order, duplicates and surrounding
// whitespace, so equivalent queries share one cached view.
func (o Options) Key() string {
	n := o.Normalize()
	if n.IsZero() {
		return "view:none"
	}
	return cache.Key("view", n.ExcludeFramework, n.ExcludeThirdParty, n.Packages)
}

// String returns a short human-readable description for logs.
func (o Options) String() string {
	n := o.Normalize()
	var parts []string
	if n.ExcludeFramework {
		parts = append(parts, "-framework")
	}
	switch {
	case len(n.Packages) > 0:
		parts = append(parts, "-packages["+strings.Join(n.Packages, ",")+"]")
	case n.ExcludeThirdParty:
		parts = append(parts, "-thirdparty")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Excluded resolves the options to the set of node names to remove from g.
// Unknown packages contribute nothing.
func (o Options) Excluded(g *graph.Graph) graph.Set {
	n := o.Normalize()
	excluded := make(graph.Set)

	if n.ExcludeFramework {
		for name := range g.FrameworkBeans() {
			excluded.Add(name)
		}
	}

	switch {
	case len(n.Packages) > 0:
		for _, p := range n.Packages {
			for _, name := range g.PackageMembers(p) {
				excluded.Add(name)
			}
		}
	case n.ExcludeThirdParty:
		for name := range g.ThirdPartyBeans() {
			excluded.Add(name)
		}
	}

	return excluded
}

// Apply returns the view of g selected by the options.
func (o Options) Apply(g *graph.Graph) *graph.Graph {
	return graph.Filter(g, o.Excluded(g))
}
