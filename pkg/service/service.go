// Package service answers graph queries for the CLI and the HTTP server.
//
// A [Service] owns one immutable base graph and a cache of filtered views
// derived from it. Both boundary operations, [Service.Resolve] and
// [Service.ListRoots], select a view by [filter.Options], computing it on
// first use, and then query it.
//
// A Service is safe for concurrent use. Reloading data means building a new
// Service; existing ones are never modified.
package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/cache"
	"github.com/matzehuels/beanchain/pkg/filter"
	"github.com/matzehuels/beanchain/pkg/graph"
	"github.com/matzehuels/beanchain/pkg/observability"
)

// Service serves queries over a base graph.
type Service struct {
	base   *graph.Graph
	views  *cache.Views
	logger *log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is [log.Default].
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithViews sets the view cache. The default holds
// [cache.DefaultCapacity] views.
func WithViews(v *cache.Views) Option {
	return func(s *Service) {
		if v != nil {
			s.views = v
		}
	}
}

// New creates a service over g.
func New(g *graph.Graph, opts ...Option) *Service {
	s := &Service{base: g, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.views == nil {
		s.views, _ = cache.NewViews(cache.DefaultCapacity)
	}
	return s
}

// Build constructs the base graph from entries and returns a service over it.
func Build(ctx context.Context, entries []bean.Entry, opts ...Option) *Service {
	start := time.Now()
	g := graph.Build(entries)
	elapsed := time.Since(start)

	s := New(g, opts...)
	observability.Graph().OnBuild(ctx, g.NodeCount(), g.EdgeCount(), len(g.Roots()), elapsed)
	s.logger.Info("built bean graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"roots", len(g.Roots()),
		"unused", len(g.Unused()),
		"duration", elapsed)
	return s
}

// Graph returns the unfiltered base graph.
func (s *Service) Graph() *graph.Graph { return s.base }

// CachedViews returns the number of filtered views currently cached.
func (s *Service) CachedViews() int { return s.views.Len() }

// View returns the graph selected by f, computing and caching it when
// needed. The unfiltered view is the base graph itself.
func (s *Service) View(ctx context.Context, f filter.Options) (*graph.Graph, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if f.IsZero() {
		return s.base, nil
	}
	return s.views.Get(ctx, f.Key(), func() *graph.Graph {
		start := time.Now()
		g := f.Apply(s.base)
		elapsed := time.Since(start)

		observability.Graph().OnFilter(ctx, f.String(), g.NodeCount(), elapsed)
		s.logger.Debug("computed view",
			"filter", f.String(),
			"nodes", g.NodeCount(),
			"edges", g.EdgeCount(),
			"roots", len(g.Roots()),
			"duration", elapsed)
		return g
	}), nil
}

// Resolve returns the subgraph reachable from root in the view selected by
// f. An empty root or "all" selects the whole view.
//
// Bean names are opaque: any node of the view resolves, whatever it
// contains. Resolve fails with [errors.ErrCodeNotFound] when root is not a
// node of the view, which includes beans removed by the filter, and with
// [errors.ErrCodeInvalidInput] for malformed packages.
func (s *Service) Resolve(ctx context.Context, root string, f filter.Options) (*Resolution, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return nil, err
	}
	sub, err := view.Subgraph(root)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		Nodes:              sub.Nodes,
		Edges:              sub.Edges,
		Roots:              view.Roots(),
		ChainSummary:       sub.Summary,
		ThirdPartyPackages: s.base.Packages(),
		Filter:             f.Normalize(),
	}
	if !sub.Summary.All {
		selected, unused := root, sub.Summary.IsUnused
		res.SelectedRoot = &selected
		res.IsUnusedChain = &unused
	}
	return res, nil
}

// ListRoots returns the roots and unused chains of the view selected by f.
func (s *Service) ListRoots(ctx context.Context, f filter.Options) (*RootList, error) {
	view, err := s.View(ctx, f)
	if err != nil {
		return nil, err
	}
	return &RootList{
		Roots:              view.Roots(),
		UnusedChains:       view.Unused(),
		ThirdPartyPackages: s.base.Packages(),
	}, nil
}

// Packages returns the third-party packages of the base graph.
func (s *Service) Packages(context.Context) []graph.Package {
	return s.base.Packages()
}
