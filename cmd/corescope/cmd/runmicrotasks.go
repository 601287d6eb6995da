package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/ecmacore/internal/runtime"
	"github.com/spf13/cobra"
)

var runMicrotasksCmd = &cobra.Command{
	Use:   "run-microtasks",
	Short: "Boot a realm, settle a demo Promise chain, and drain the microtask queue",
	Long: `Exercises the Promise/microtask settlement core (spec.md §5) end to end:
resolves a Promise, chains two .then reactions onto it, and drains the
FIFO microtask queue to completion, printing how many reactions ran.`,
	RunE: runRunMicrotasks,
}

func init() {
	rootCmd.AddCommand(runMicrotasksCmd)
}

func runRunMicrotasks(_ *cobra.Command, _ []string) error {
	ctx, ev := newRealm()

	executor := runtime.NewNativeFunction(ctx, "", 2, func(ctx *runtime.Context, this runtime.Value, args []runtime.Value) (runtime.Value, *runtime.Error) {
		resolve := args[0].(*runtime.Object)
		_, err := resolve.Callable(ctx, runtime.Undefined, []runtime.Value{runtime.NewNumber(42)})
		return runtime.Undefined, err
	})
	p, perr := runtime.NewPromiseWithExecutor(ctx, executor)
	if perr != nil {
		return fmt.Errorf("constructing promise: %s", perr.Message)
	}

	ran := 0
	record := runtime.NewNativeFunction(ctx, "", 1, func(ctx *runtime.Context, this runtime.Value, args []runtime.Value) (runtime.Value, *runtime.Error) {
		ran++
		if verbose {
			fmt.Fprintf(os.Stderr, "reaction %d settled with %v\n", ran, args[0])
		}
		return args[0], nil
	})

	if _, err := runtime.PromiseThen(ctx, p, []runtime.Value{record, runtime.Undefined}); err != nil {
		return fmt.Errorf("then: %s", err.Message)
	}
	if _, err := runtime.PromiseThen(ctx, p, []runtime.Value{record, runtime.Undefined}); err != nil {
		return fmt.Errorf("then: %s", err.Message)
	}

	ev.queue.Drain()

	fmt.Printf("ran %d microtask reaction(s)\n", ran)
	return nil
}
