// Package pkg provides the core libraries for beanchain.
//
// # Overview
//
// Beanchain turns a flat list of extracted bean descriptors into a dependency
// graph and answers reachability questions about it: which beans a root pulls
// in, which chains are never referenced from outside, and how the graph looks
// without framework or third-party beans. The pkg directory is organized as:
//
//  1. [bean] - Raw records, normalization and classification
//  2. [graph] - The immutable graph, filtering and subgraph queries
//  3. [filter] - View selection and canonical view keys
//  4. [cache] - Bounded, single-flight cache of filtered views
//  5. [service] - Query operations over a base graph
//  6. [source] - Record loading from files, MongoDB and Redis
//  7. [server] - HTTP boundary
//  8. [render/nodelink] - Graphviz DOT and SVG output
//
// # Architecture
//
// The typical data flow through beanchain:
//
//	JSON file / MongoDB / Redis
//	         ↓
//	    [source] package (load records)
//	         ↓
//	    [bean] package (normalize + classify)
//	         ↓
//	    [graph] package (base graph with reachability)
//	         ↓
//	    [service] package (filtered views + queries)
//	         ↓
//	    JSON / table / DOT / SVG output
//
// # Quick Start
//
// Load records and resolve the chain of a root:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/beanchain/pkg/bean"
//	    "github.com/matzehuels/beanchain/pkg/filter"
//	    "github.com/matzehuels/beanchain/pkg/service"
//	    "github.com/matzehuels/beanchain/pkg/source"
//	)
//
//	records, _ := (&source.File{Path: "beans.json"}).Load(ctx)
//	svc := service.Build(ctx, source.Entries(records, bean.DefaultClassifier()))
//
//	res, err := svc.Resolve(ctx, "orderController", filter.Options{ExcludeFramework: true})
//
// # Error Handling
//
// Errors carry codes from [errors]; lookups of unknown beans fail with
// errors.ErrCodeNotFound and malformed input with errors.ErrCodeInvalidInput.
//
// # Observability
//
// The [observability] package exposes hooks for graph builds, view cache
// operations and HTTP requests; [observability/prom] backs them with
// Prometheus metrics.
package pkg
