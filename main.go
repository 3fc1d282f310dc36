package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cottand/elab/cmd"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		if !errors.Is(err, cmd.ErrCheckFailed) {
			_, _ = fmt.Fprintln(os.Stderr, "elab:", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "elab [subcommand]",
	Short:         "elab checks and registers the declarations of desugared modules",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(cmd.CheckCmd)
}
