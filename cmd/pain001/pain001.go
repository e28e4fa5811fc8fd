// Package pain001 handles PAIN.001 payment initiation processing commands.
package pain001

import (
	"github.com/spf13/cobra"

	"bankstmt/iso20022/cmd/common"
	"bankstmt/iso20022/cmd/root"
)

// Cmd represents the pain001 command.
var Cmd = &cobra.Command{
	Use:   "pain001",
	Short: "Validate a PAIN.001 payment initiation and export its transfers",
	Long: `Validate a PAIN.001 customer credit transfer initiation against its XML
schema and export one row per instructed payment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.RequireInput(); err != nil {
			return err
		}
		app := common.NewApp(root.Cfg, root.Log)
		return app.ConvertPain001(root.SharedFlags.Input, root.SharedFlags.Output)
	},
}
