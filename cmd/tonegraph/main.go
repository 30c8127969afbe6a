package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/internal/cli"
	"github.com/matzehuels/tonegraph/pkg/errors"
)

// Exit statuses.
const (
	exitFailure  = 1
	exitInvalid  = 2   // bad flag value, format, layout or transform code
	exitCanceled = 130 // SIGINT
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRoot().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, context.Canceled):
		return exitCanceled
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.IsInvalid(err) {
		return exitInvalid
	}
	return exitFailure
}

// newRoot adds --verbose on top of the CLI command tree. The log level can only
// change after flags are parsed, so it is applied in the pre-run hook.
func newRoot() *cobra.Command {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging and stage tracing")

	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
			c.EnableTracing()
		}
		if next == nil {
			return nil
		}
		return next(cmd, args)
	}
	return root
}
