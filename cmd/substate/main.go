package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/substate/internal/config"
	"github.com/vango-dev/substate/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "substate",
		Short: "Replay scripted scenarios against a substate store",
		Long: `substate drives a keyed state store hosted in a headless component tree.

Consumers bind to one key of the store, or to the whole store, and
re-render only when their scope is written. Replay scripts mount
consumers, write to the store and check what every consumer rendered.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.BindFlags(rootCmd)

	rootCmd.AddCommand(
		replayCmd(),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printError prints err to stderr, with the full explanation for coded
// errors.
func printError(err error) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		fmt.Fprint(os.Stderr, e.Format())
		return
	}
	fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
}
