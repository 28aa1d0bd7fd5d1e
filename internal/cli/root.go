// Package cli provides the qrep command-line interface.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aristath/qrep/internal/modules/catalog"
	"github.com/aristath/qrep/internal/modules/representation"
	"github.com/aristath/qrep/pkg/logger"
)

// Version information (set at build time).
var Version = "0.1.0"

// Output modes accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// app carries what every subcommand needs. It is filled in by the root
// command before a subcommand runs.
type app struct {
	log      zerolog.Logger
	output   string
	catalog  *catalog.Registry
	service  *representation.Service
	logLevel string
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "qrep",
		Short: "qrep - represent quantum expressions in a basis",
		Long: `qrep turns quantum expressions (kets, bras, operators and their sums,
products, powers, commutators and tensor products) into matrices or symbolic
expressions in a chosen basis.

Expressions are read as YAML or JSON trees, for example:

  type: product
  args:
    - {type: bra, class: SHO, label: ["1"]}
    - {type: operator, class: LoweringOp}
    - {type: ket, class: SHO, label: ["2"]}`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", OutputTable, "Output format (table|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{OutputTable, OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newRepresentCommand(a))
	rootCmd.AddCommand(newApplyCommand(a))
	rootCmd.AddCommand(newCatalogCommand(a))

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	switch a.output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", a.output, OutputTable, OutputJSON)
	}

	a.log = logger.New(logger.Config{
		Level:  a.logLevel,
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	})
	a.catalog = catalog.New()
	a.service = representation.NewService(representation.NewEngine(a.log), nil, a.log)
	return nil
}
