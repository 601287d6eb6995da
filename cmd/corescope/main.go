// Command corescope is a diagnostics CLI for the ecmacore runtime
// package. It boots a runtime.Context directly, without a source-level
// lexer/parser/evaluator in front of it (that surface is out of scope
// for this module, spec.md §1) — it exists for inspecting the object
// graph and draining the microtask queue during development.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/ecmacore/cmd/corescope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
