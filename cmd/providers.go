package cmd

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tsiemens/fxreport/config"
	"github.com/tsiemens/fxreport/fx"
	"github.com/tsiemens/fxreport/util"
)

func printProviders(registry *fx.Registry, defaults []string, out io.Writer) {
	isDefault := util.NewSetFrom(defaults...)

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Site", "Default"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for _, id := range registry.IDs() {
		table.Append([]string{
			string(id),
			registry.Site(id),
			util.Tern(isDefault.Has(string(id)), "yes", ""),
		})
	}
	table.Render()
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the rate providers which can be selected with --providers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printProviders(fx.DefaultRegistry(fx.ProviderOptions{}), config.DefaultProviders,
			cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "\nDefault order: %v\n", config.DefaultProviders)
	},
}
