package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beanchain/pkg/errors"
)

// browseCommand creates the browse command for interactive root selection.
func (c *CLI) browseCommand() *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a root interactively and inspect its chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.openService(ctx)
			if err != nil {
				return err
			}
			f := filters.options()
			view, err := svc.View(ctx, f)
			if err != nil {
				return err
			}

			items := rootItems(view)
			if len(items) == 0 {
				printWarning("No roots in this view")
				return nil
			}

			final, err := tea.NewProgram(NewRootListModel(items), tea.WithContext(ctx)).Run()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "run browser")
			}
			m, ok := final.(RootListModel)
			if !ok || m.Selected == nil {
				return nil
			}

			res, err := svc.Resolve(ctx, m.Selected.Root, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resolutionTable(res))
			return nil
		},
	}

	filters.register(cmd)

	return cmd
}
