package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tsiemens/fxreport/app"
)

var suggestionsFile string

func loadSuggestions(file string) ([]app.Suggestion, error) {
	if file == "" {
		return app.DefaultSuggestions(), nil
	}
	fp, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	suggestions, err := app.ParseSuggestions(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return suggestions, nil
}

func printSuggestions(suggestions []app.Suggestion, out io.Writer) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Tokens", "Description"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for _, s := range suggestions {
		table.Append([]string{s.Tokens, s.Description})
	}
	table.Render()
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies [QUERY]",
	Short: "List suggested COUNTRY CURRENCY tokens for input lines",
	Long: `Lists suggested COUNTRY CURRENCY tokens. Two of them make up one input line,
eg. "US USD" and "GB GBP" make "US USD GB GBP".

If QUERY is given, only suggestions containing it are listed.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		suggestions, err := loadSuggestions(suggestionsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if len(args) == 1 {
			suggestions = app.FilterSuggestions(suggestions, args[0])
		}
		printSuggestions(suggestions, cmd.OutOrStdout())
	},
}

func init() {
	currenciesCmd.Flags().StringVarP(&suggestionsFile, "file", "f", "",
		"Read suggestions from this file instead of the built in list. "+
			"Each line is formatted as \"CC CUR - Description\".")
}
