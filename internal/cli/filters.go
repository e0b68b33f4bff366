package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/beanchain/pkg/filter"
)

// filterFlags holds the view selection flags shared by query commands.
type filterFlags struct {
	excludeSpring     bool
	excludeThirdParty bool
	packages          []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.excludeSpring, "exclude-spring", false, "hide framework beans")
	cmd.Flags().BoolVar(&f.excludeThirdParty, "exclude-third-party", false, "hide all third-party beans (unless --package is given)")
	cmd.Flags().StringSliceVar(&f.packages, "package", nil, "hide the beans of a third-party package (repeatable)")
}

func (f *filterFlags) options() filter.Options {
	return filter.Options{
		ExcludeFramework:  f.excludeSpring,
		ExcludeThirdParty: f.excludeThirdParty,
		Packages:          f.packages,
	}.Normalize()
}
