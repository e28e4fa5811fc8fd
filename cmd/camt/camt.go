// Package camt handles CAMT.053 statement processing commands.
package camt

import (
	"github.com/spf13/cobra"

	"bankstmt/iso20022/cmd/common"
	"bankstmt/iso20022/cmd/root"
)

// Cmd represents the camt command.
var Cmd = &cobra.Command{
	Use:   "camt",
	Short: "Validate a CAMT.053 statement and export its entries",
	Long: `Validate a CAMT.053 bank statement against its XML schema and export the
selected report (transactions, balances or stats) as a table, CSV or Excel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.RequireInput(); err != nil {
			return err
		}
		app := common.NewApp(root.Cfg, root.Log)
		return app.ConvertCamt(root.SharedFlags.Input, root.SharedFlags.Output,
			root.SharedFlags.Format, root.SharedFlags.Report)
	},
}
