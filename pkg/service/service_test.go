package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beanchain/pkg/bean"
	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/filter"
)

func record(name, source, typ string, deps ...string) bean.Record {
	return bean.Record{Name: name, Source: source, Type: typ, Dependencies: deps}
}

func testService(t *testing.T) *Service {
	t.Helper()
	records := []bean.Record{
		record("orderController", "Project", "", "orderService", "jsonMapper"),
		record("orderService", "Project", "", "orderRepo", "springTx"),
		record("orderRepo", "Project", ""),
		record("springTx", "SpringBoot", ""),
		record("jsonMapper", "ThirdParty", "com.fasterxml.jackson.databind.ObjectMapper"),
		record("reportJob", "Project", "", "orderRepo"),
	}
	entries := make([]bean.Entry, 0, len(records))
	for _, r := range records {
		e, _ := bean.Normalize(r)
		entries = append(entries, e)
	}
	return Build(context.Background(), entries, WithLogger(log.New(io.Discard)))
}

func TestResolveAll(t *testing.T) {
	s := testService(t)
	res, err := s.Resolve(context.Background(), "all", filter.None)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.Nodes) != 6 || len(res.Edges) != 5 {
		t.Errorf("got %d nodes %d edges, want 6 and 5", len(res.Nodes), len(res.Edges))
	}
	if res.SelectedRoot != nil || res.IsUnusedChain != nil {
		t.Error("whole-graph resolution should not select a root")
	}
	if got := strings.Join(res.Roots, ","); got != "orderController,reportJob" {
		t.Errorf("roots = %s", got)
	}
	if res.ChainSummary.LeafCount != 3 {
		t.Errorf("leaf count = %d, want 3", res.ChainSummary.LeafCount)
	}
}

func TestResolveRoot(t *testing.T) {
	s := testService(t)
	res, err := s.Resolve(context.Background(), "orderController", filter.None)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Root() != "orderController" {
		t.Errorf("Root() = %q", res.Root())
	}
	if res.IsUnusedChain == nil || *res.IsUnusedChain {
		t.Error("orderController shares orderRepo with reportJob and is not unused")
	}
	if res.ChainSummary.ExternallyReferencedNodes != 1 || res.ChainSummary.ExternalReferencerCount != 1 {
		t.Errorf("summary = %+v", res.ChainSummary)
	}
	if len(res.ThirdPartyPackages) != 1 || res.ThirdPartyPackages[0].ID != "com.fasterxml.jackson" {
		t.Errorf("packages = %+v", res.ThirdPartyPackages)
	}
}

func TestResolveFiltered(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	f := filter.Options{ExcludeFramework: true, ExcludeThirdParty: true}
	res, err := s.Resolve(ctx, "orderController", f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for _, n := range res.Nodes {
		if n.ID == "springTx" || n.ID == "jsonMapper" {
			t.Errorf("excluded node %s present", n.ID)
		}
	}
	// The packages of the base graph are still offered.
	if len(res.ThirdPartyPackages) != 1 {
		t.Errorf("packages = %+v", res.ThirdPartyPackages)
	}

	// Excluded beans cannot be selected.
	if _, err := s.Resolve(ctx, "springTx", f); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("excluded root error = %v, want NOT_FOUND", err)
	}

	if s.CachedViews() != 1 {
		t.Errorf("cached views = %d, want 1", s.CachedViews())
	}
	// Equivalent filters share the cached view.
	if _, err := s.ListRoots(ctx, filter.Options{ExcludeThirdParty: true, ExcludeFramework: true}); err != nil {
		t.Fatal(err)
	}
	if s.CachedViews() != 1 {
		t.Errorf("cached views = %d after equivalent filter, want 1", s.CachedViews())
	}
}

func TestResolveErrors(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		root string
		f    filter.Options
		want errors.Code
	}{
		{"unknown bean", "nope", filter.None, errors.ErrCodeNotFound},
		{"absent name with control characters", "ghost\t", filter.None, errors.ErrCodeNotFound},
		{"absent name with spaces", " nope ", filter.None, errors.ErrCodeNotFound},
		{"absent long name", strings.Repeat("x", 600), filter.None, errors.ErrCodeNotFound},
		{"bad package", "", filter.Options{Packages: []string{"com..acme"}}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Resolve(ctx, tt.root, tt.f)
			if got := errors.GetCode(err); got != tt.want {
				t.Errorf("Resolve() code = %s, want %s (err %v)", got, tt.want, err)
			}
		})
	}
}

func TestResolveOpaqueNames(t *testing.T) {
	long := strings.Repeat("b", 600)
	names := []string{"A ", " padded", "tab\tname", long}

	entries := make([]bean.Entry, 0, len(names))
	for _, n := range names {
		e, ok := bean.Normalize(record(n, "Project", ""))
		if !ok {
			t.Fatalf("Normalize(%q) dropped the record", n)
		}
		entries = append(entries, e)
	}
	s := Build(context.Background(), entries, WithLogger(log.New(io.Discard)))

	for _, n := range names {
		res, err := s.Resolve(context.Background(), n, filter.None)
		if err != nil {
			t.Errorf("Resolve(%q): %v", n, err)
			continue
		}
		if res.Root() != n || len(res.Nodes) != 1 || res.Nodes[0].ID != n {
			t.Errorf("Resolve(%q) = root %q with %d nodes", n, res.Root(), len(res.Nodes))
		}
	}

	if _, err := s.Resolve(context.Background(), "A", filter.None); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf(`Resolve("A") error = %v, want NOT_FOUND`, err)
	}
}

func TestListRoots(t *testing.T) {
	s := testService(t)
	list, err := s.ListRoots(context.Background(), filter.None)
	if err != nil {
		t.Fatalf("ListRoots: %v", err)
	}
	if len(list.Roots) != 2 {
		t.Errorf("roots = %v", list.Roots)
	}
	if len(list.UnusedChains) != 0 {
		t.Errorf("unused chains = %+v, want none", list.UnusedChains)
	}

	// Excluding a leaf package leaves the roots untouched.
	list, err = s.ListRoots(context.Background(), filter.Options{Packages: []string{"com.fasterxml.jackson"}})
	if err != nil {
		t.Fatalf("ListRoots: %v", err)
	}
	if len(list.Roots) != 2 || len(list.UnusedChains) != 0 {
		t.Errorf("list = %+v", list)
	}
}

func TestResolutionJSON(t *testing.T) {
	s := testService(t)
	res, err := s.Resolve(context.Background(), "", filter.None)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if v, ok := got["selectedRoot"]; !ok || v != nil {
		t.Errorf("selectedRoot = %v, want null", v)
	}
	if _, ok := got["isUnusedChain"]; ok {
		t.Error("isUnusedChain should be omitted for the whole graph")
	}
	summary := got["chainSummary"].(map[string]any)
	if v, ok := summary["root"]; !ok || v != nil {
		t.Errorf("chainSummary.root = %v, want null", v)
	}
}
