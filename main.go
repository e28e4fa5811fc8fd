// Command bankstmt validates, extracts and generates ISO 20022 payment
// messages: CAMT.053 bank statements and PAIN.001 credit transfer initiations.
package main

import (
	"fmt"
	"os"

	"bankstmt/iso20022/cmd/batch"
	"bankstmt/iso20022/cmd/camt"
	"bankstmt/iso20022/cmd/generate"
	"bankstmt/iso20022/cmd/pain001"
	"bankstmt/iso20022/cmd/root"
)

func main() {
	root.Init()
	root.Cmd.AddCommand(camt.Cmd)
	root.Cmd.AddCommand(pain001.Cmd)
	root.Cmd.AddCommand(generate.Cmd)
	root.Cmd.AddCommand(batch.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
