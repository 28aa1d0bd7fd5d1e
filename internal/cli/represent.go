package cli

import (
	"github.com/spf13/cobra"

	"github.com/aristath/qrep/internal/backend"
	"github.com/aristath/qrep/internal/modules/representation"
)

func newRepresentCommand(a *app) *cobra.Command {
	var (
		format  string
		basis   string
		index   int
		options map[string]string
	)

	cmd := &cobra.Command{
		Use:   "represent [file]",
		Short: "Represent an expression in a basis",
		Long: `Represent the expression in file (or stdin) and print the result.

Examples:
  qrep represent -f dense-numeric element.yaml
  qrep represent -f sparse-numeric --opt ndim=6 hamiltonian.json
  qrep represent -f dense-numeric --opt j=1 commutator.yaml
  qrep represent --basis N --index 2 raising.yaml`,
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

			f, err := backend.ParseFormat(format)
			if err != nil {
				return err
			}
			opts := representation.NewOptions(f).WithIndex(index)
			if basis != "" {
				b, err := a.catalog.Basis(basis)
				if err != nil {
					return err
				}
				opts = opts.WithBasis(b)
			}
			for k, v := range parseOptions(options) {
				opts = opts.WithExtra(k, v)
			}

			a.log.Debug().Str("expr", expr.String()).Str("options", opts.Fingerprint()).Msg("Representing")

			result, err := a.service.Represent(cmd.Context(), expr, opts)
			if err != nil {
				return err
			}

			if a.output == OutputJSON {
				return renderJSON(cmd.OutOrStdout(), result.Payload)
			}
			return renderPayload(cmd.OutOrStdout(), result.Payload)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(backend.Symbolic), "Result format (symbolic|dense-numeric|sparse-numeric)")
	cmd.Flags().StringVar(&basis, "basis", "", "Basis to represent in (see 'qrep catalog')")
	cmd.Flags().IntVar(&index, "index", 0, "1-based basis index used by the fallbacks")
	cmd.Flags().StringToStringVar(&options, "opt", nil, "Rule options as key=value (ndim, j)")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(backend.Formats))
		for i, f := range backend.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
