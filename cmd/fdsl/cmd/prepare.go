package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filesdsl/filesdsl/budget"
	"github.com/filesdsl/filesdsl/semantic"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <folder>",
	Short: "Build a semantic index for a folder in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrepare,
}

func runPrepare(cmd *cobra.Command, args []string) error {
	folder := args[0]
	store := semantic.NewStore()
	store.Logger = logger

	stats, err := store.Prepare(folder, budget.Unbounded())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fail(1, err)
	}

	fmt.Printf("Prepared semantic index for %s\n", stats.Folder)
	fmt.Printf("Database: %s\n", stats.DBPath)
	fmt.Printf("Indexed files: %d\n", stats.IndexedFiles)
	fmt.Printf("Indexed pages: %d\n", stats.IndexedPages)
	return nil
}
