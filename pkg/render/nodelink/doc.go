// Package nodelink renders bean dependency chains as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// beans appear as boxes connected by arrows pointing from a bean to the beans
// it depends on.
//
// # Usage
//
// Convert a resolution to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(res, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include type, scope and source
//
// # Styling
//
// Nodes are styled by classification:
//
//   - Placeholder beans (referenced but never declared): dashed, grey
//   - Framework beans: light blue
//   - Third-party beans: light yellow
//   - The selected root: bold outline
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
