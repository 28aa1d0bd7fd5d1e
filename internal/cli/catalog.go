package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCatalogCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the states, operators and bases that expressions may name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := a.catalog.Entries()
			if a.output == OutputJSON {
				return renderJSON(cmd.OutOrStdout(), entries)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Kind", "Name", "Labels", "Description"})
			for _, e := range entries {
				t.AppendRow(table.Row{e.Kind, e.Name, e.Labels, e.Description})
			}
			t.Render()
			return nil
		},
	}
}
