// Command cx is the command-line client for the catalog-explorer API.
package main

import "github.com/storefront-tools/catalog-explorer/cmd/cx/cmd"

func main() {
	cmd.Execute()
}
