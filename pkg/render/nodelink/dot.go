package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/graph"
	"github.com/matzehuels/beanchain/pkg/service"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes type, scope and source in node labels.
	// When false, only the bean name is shown.
	Detailed bool
}

// Fill colors by bean classification.
const (
	colorDefault    = "white"
	colorMissing    = "lightgrey"
	colorFramework  = "lightblue"
	colorThirdParty = "lightyellow"
)

// ToDOT converts a resolution to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(res *service.Resolution, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph beans {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root := res.Root()
	for _, n := range res.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, n.ID == root)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range res.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}

	var parts []string
	if n.Metadata.Type != "" {
		parts = append(parts, "type: "+n.Metadata.Type)
	}
	if n.Metadata.Scope != "" {
		parts = append(parts, "scope: "+n.Metadata.Scope)
	}
	if n.Metadata.Source != "" {
		parts = append(parts, "source: "+n.Metadata.Source)
	}
	if len(parts) == 0 {
		return n.Label
	}
	return n.Label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string, selected bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Missing:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor="+colorMissing, "fontcolor=black")
	case n.IsFrameworkBean:
		attrs = append(attrs, "fillcolor="+colorFramework)
	case n.IsThirdParty:
		attrs = append(attrs, "fillcolor="+colorThirdParty)
	default:
		attrs = append(attrs, "fillcolor="+colorDefault)
	}
	if selected {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg element so the drawing scales with
// its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
