// Command groupgraph discovers shared-number groups in a membership matrix file.
package main

import (
	"os"

	"srm-backend/interfaces/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
