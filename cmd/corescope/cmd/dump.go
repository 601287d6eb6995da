package cmd

import (
	"fmt"

	"github.com/cwbudde/ecmacore/internal/runtime"
	"github.com/cwbudde/ecmacore/internal/runtimedebug"
	"github.com/spf13/cobra"
)

var dumpTarget string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump a bootstrapped realm object graph as JSON",
	Long: `Boot a fresh runtime.Context, bootstrap every built-in prototype, and
print a JSON debug projection of one of its well-known objects.

Examples:
  corescope dump --target object-prototype
  corescope dump --target array-prototype`,
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().StringVar(&dumpTarget, "target", "object-prototype", "which realm object to dump (object-prototype, array-prototype, promise-prototype)")
}

func runDump(_ *cobra.Command, _ []string) error {
	ctx, _ := newRealm()

	var v runtime.Value
	switch dumpTarget {
	case "object-prototype":
		v = ctx.ObjectPrototype
	case "array-prototype":
		v = ctx.ArrayPrototype
	case "promise-prototype":
		v = ctx.PromisePrototype
	default:
		return fmt.Errorf("unknown dump target %q", dumpTarget)
	}

	fmt.Println(runtimedebug.Dump(ctx, v))
	return nil
}
