// Seer - Business graph synthesis engine for component facts.
//
// Seer turns extracted frontend component facts into a unified business
// graph: features, user journeys, and domain clusters ready for export.
package main

import (
	"fmt"
	"os"

	"github.com/seergraph/seer-go/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
