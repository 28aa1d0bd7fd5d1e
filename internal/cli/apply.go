package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/qrep/internal/qexpr"
)

func newApplyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply [file]",
		Short: "Apply operators to the kets they act on",
		Long: `Apply every operator in the expression to the ket on its right,
using the operator's action on its eigenstates, and print the result.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			expr, err := readExpr(cmd.InOrStdin(), path, a.catalog)
			if err != nil {
				return err
			}
			result := qexpr.Apply(expr)

			if a.output == OutputJSON {
				return renderJSON(cmd.OutOrStdout(), map[string]string{
					"expr":   expr.String(),
					"result": result.String(),
				})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
}
