// SPDX-License-Identifier: MIT

// Command gridflow solves AC power flow cases with the fast-decoupled method.
package main

import (
	"os"

	"github.com/katalvlaran/gridflow/cmd/gridflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
