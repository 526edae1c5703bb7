// Command catalog-explorer runs the catalog query API server and web UI.
package main

import (
	"fmt"
	"os"

	"github.com/storefront-tools/catalog-explorer/cmd/catalog-explorer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
