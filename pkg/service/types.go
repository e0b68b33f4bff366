package service

import (
	"github.com/matzehuels/beanchain/pkg/filter"
	"github.com/matzehuels/beanchain/pkg/graph"
)

// Resolution is the answer to a [Service.Resolve] query.
//
// SelectedRoot and IsUnusedChain are nil when the whole view was requested.
// ThirdPartyPackages always lists the packages of the base graph, so every
// package can be offered as a filter even while it is excluded.
type Resolution struct {
	Nodes              []graph.Node    `json:"nodes"`
	Edges              []graph.Edge    `json:"edges"`
	Roots              []string        `json:"roots"`
	SelectedRoot       *string         `json:"selectedRoot"`
	IsUnusedChain      *bool           `json:"isUnusedChain,omitempty"`
	ChainSummary       graph.Summary   `json:"chainSummary"`
	ThirdPartyPackages []graph.Package `json:"thirdPartyPackages"`

	// Filter is the normalized filter the view was selected with.
	Filter filter.Options `json:"-"`
}

// Root returns the selected root, or "" for the whole view.
func (r *Resolution) Root() string {
	if r.SelectedRoot == nil {
		return ""
	}
	return *r.SelectedRoot
}

// RootList is the answer to a [Service.ListRoots] query.
type RootList struct {
	Roots              []string           `json:"roots"`
	UnusedChains       []graph.UnusedRoot `json:"unusedChains"`
	ThirdPartyPackages []graph.Package    `json:"thirdPartyPackages"`
}
