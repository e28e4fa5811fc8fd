// Package batch handles directory-wide statement conversion.
package batch

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bankstmt/iso20022/cmd/common"
	"bankstmt/iso20022/cmd/root"
)

// Cmd represents the batch command.
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert every CAMT.053 file in a directory",
	Long: `Convert all XML files in the input directory, writing one output file per
statement file into the output directory. Files that fail format or schema
validation are skipped. For batch, --input and --output name directories.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := root.RequireInput(); err != nil {
			return err
		}
		if root.SharedFlags.Output == "" {
			return errors.New("no output directory given (use --output)")
		}
		app := common.NewApp(root.Cfg, root.Log)
		count, err := app.BatchConvertCamt(root.SharedFlags.Input, root.SharedFlags.Output,
			root.SharedFlags.Format, root.SharedFlags.Report)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.Stdout, "Converted %d file(s)\n", count)
		return nil
	},
}
