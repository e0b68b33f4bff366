package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beanchain/pkg/errors"
	"github.com/matzehuels/beanchain/pkg/graph"
	"github.com/matzehuels/beanchain/pkg/render/nodelink"
	"github.com/matzehuels/beanchain/pkg/service"
)

// Output formats of the resolve command.
const (
	formatJSON  = "json"
	formatDOT   = "dot"
	formatSVG   = "svg"
	formatTable = "table"
)

// =============================================================================
// roots
// =============================================================================

// rootsCommand creates the roots command.
func (c *CLI) rootsCommand() *cobra.Command {
	var (
		filters filterFlags
		asJSON  bool
		unused  bool
	)

	cmd := &cobra.Command{
		Use:   "roots",
		Short: "List roots and unused chains",
		Long: `List every root bean (a bean no other bean depends on) with the size of
its chain. Unused chains, whose beans are never referenced from outside the
chain, are marked and can be listed alone with --unused.`,
		Example: `  beanchain roots
  beanchain roots --unused --exclude-spring
  beanchain roots --package com.fasterxml.jackson --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.openService(ctx)
			if err != nil {
				return err
			}
			f := filters.options()
			list, err := svc.ListRoots(ctx, f)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), list)
			}
			view, err := svc.View(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rootsTable(view, list, unused))
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&unused, "unused", false, "only list unused chains")

	return cmd
}

func rootsTable(view *graph.Graph, list *service.RootList, unusedOnly bool) string {
	var rows [][]string
	if unusedOnly {
		for _, u := range list.UnusedChains {
			rows = append(rows, []string{u.Root, strconv.Itoa(u.NodeCount), strconv.Itoa(u.LeafCount), "yes"})
		}
	} else {
		for _, r := range list.Roots {
			leaves, _ := view.LeafCount(r)
			unused := ""
			if view.IsUnused(r) {
				unused = "yes"
			}
			rows = append(rows, []string{r, strconv.Itoa(len(view.Chain(r))), strconv.Itoa(leaves), unused})
		}
	}
	return renderTable([]string{"Root", "Nodes", "Leaves", "Unused"}, rows)
}

// =============================================================================
// resolve
// =============================================================================

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		filters  filterFlags
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [root]",
		Short: "Print the chain of a bean",
		Long: `Print every bean reachable from root through dependencies, with chain
statistics. Without a root, or with "all", the whole graph is printed.`,
		Example: `  beanchain resolve orderController
  beanchain resolve orderController --format dot -o chain.dot
  beanchain resolve orderController --format svg --exclude-spring -o chain.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root := ""
			if len(args) == 1 {
				root = args[0]
			}

			svc, err := c.openService(ctx)
			if err != nil {
				return err
			}
			res, err := svc.Resolve(ctx, root, filters.options())
			if err != nil {
				return err
			}

			data, err := formatResolution(ctx, res, format, nodelink.Options{Detailed: detailed})
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write %s", output)
			}
			printSuccess("Wrote %s chain", describeRoot(res))
			printFile(output)
			return nil
		},
	}

	filters.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: json, dot, svg or table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include type, scope and source in DOT and SVG labels")

	return cmd
}

func formatResolution(ctx context.Context, res *service.Resolution, format string, opts nodelink.Options) ([]byte, error) {
	switch strings.ToLower(format) {
	case formatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode resolution")
		}
		return append(data, '\n'), nil
	case formatDOT:
		return []byte(nodelink.ToDOT(res, opts)), nil
	case formatSVG:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(res, opts))
	case formatTable:
		return []byte(resolutionTable(res) + "\n"), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (use json, dot, svg or table)", format)
	}
}

func describeRoot(res *service.Resolution) string {
	if res.SelectedRoot == nil {
		return "whole graph"
	}
	return strconv.Quote(res.Root())
}

func resolutionTable(res *service.Resolution) string {
	rows := make([][]string, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		rows = append(rows, []string{
			n.ID,
			strconv.Itoa(len(n.Dependencies)),
			strconv.Itoa(n.DependentCount),
			nodeKind(n),
			n.Package,
		})
	}

	var b strings.Builder
	b.WriteString(renderTable([]string{"Bean", "Deps", "Dependents", "Kind", "Package"}, rows))
	b.WriteString("\n")

	s := res.ChainSummary
	b.WriteString(keyValue("root", describeRoot(res)))
	b.WriteString(keyValue("nodes", strconv.Itoa(s.NodeCount)))
	b.WriteString(keyValue("leaves", strconv.Itoa(s.LeafCount)))
	if s.All {
		b.WriteString(keyValue("unused roots", strconv.Itoa(s.UnusedRootCount)))
	} else {
		b.WriteString(keyValue("unused", strconv.FormatBool(s.IsUnused)))
		b.WriteString(keyValue("referenced", fmt.Sprintf("%d beans by %d outside beans", s.ExternallyReferencedNodes, s.ExternalReferencerCount)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func nodeKind(n graph.Node) string {
	switch {
	case n.Missing:
		return "missing"
	case n.IsFrameworkBean:
		return "framework"
	case n.IsThirdParty:
		return "third-party"
	default:
		return ""
	}
}

// =============================================================================
// packages
// =============================================================================

// packagesCommand creates the packages command.
func (c *CLI) packagesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List inferred third-party packages",
		Long: `List the third-party packages inferred from bean types with the number of
beans in each. Package identifiers can be passed to --package.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.openService(ctx)
			if err != nil {
				return err
			}
			pkgs := svc.Packages(ctx)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), pkgs)
			}
			rows := make([][]string, len(pkgs))
			for i, p := range pkgs {
				rows[i] = []string{p.ID, strconv.Itoa(p.Count)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Package", "Beans"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// openService loads configuration and data for a one-shot command.
func (c *CLI) openService(ctx context.Context) (*service.Service, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.loadService(ctx, cfg)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
