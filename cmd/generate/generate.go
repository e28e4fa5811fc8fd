// Package generate builds PAIN.001 documents from instruction files.
package generate

import (
	"github.com/spf13/cobra"

	"bankstmt/iso20022/cmd/common"
	"bankstmt/iso20022/cmd/root"
)

// Cmd represents the generate command.
var Cmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a schema-valid PAIN.001 document from a YAML instruction file",
	Long: `Read a payment instruction file in YAML form and emit the corresponding
PAIN.001 customer credit transfer initiation as XML. The output is written to
the file given with --output, or to standard output when omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.RequireInput(); err != nil {
			return err
		}
		app := common.NewApp(root.Cfg, root.Log)
		return app.Generate(root.SharedFlags.Input, root.SharedFlags.Output)
	},
}
