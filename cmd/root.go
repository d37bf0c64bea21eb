// Package cmd wires the command-line surface: argument parsing, help and
// version output, and the entry point that hands a built file system server
// to a real kernel mount.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd(fuseTail []string) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "execfs -c config.ini -f mount_point",
		Short:         "Present a directory of files backed by shell commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMount(f, fuseTail)
		},
	}

	bindFlags(cmd.Flags(), f)
	cmd.Flags().SortFlags = false

	return cmd
}

// Execute is the program's entry point, called from cmd/execfs/main.go with
// os.Args[1:]. It performs the "-f"/"--fuse" argv split described in
// SPEC_FULL.md §2.1 before handing the remainder to cobra, since cobra's
// flag parser has no notion of "everything after this flag belongs to
// someone else."
func Execute(argv []string) {
	ours, fuseTail, action := splitFuseArgs(argv)

	switch action {
	case "help":
		newRootCmd(nil).Help()
		return
	case "version":
		printVersion()
		return
	}

	rootCmd := newRootCmd(fuseTail)
	rootCmd.SetArgs(ours)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
