package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/filesdsl/filesdsl/fdsl"
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Run a FilesDSL script, printing captured output",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]
	info, err := os.Stat(scriptPath)
	if err != nil {
		return fail(2, fmt.Errorf("script file not found: %s", scriptPath))
	}
	if !info.Mode().IsRegular() {
		return fail(2, fmt.Errorf("not a regular file: %s", scriptPath))
	}

	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return fail(2, fmt.Errorf("cannot read script: %w", err))
	}

	absScript, err := filepath.Abs(scriptPath)
	if err != nil {
		return fail(2, err)
	}
	cwd := filepath.Dir(absScript)
	root := sandboxRoot
	if root == "" {
		root = cwd
	}

	timeout := time.Duration(cfg.DefaultTimeoutSeconds * float64(time.Second))
	out, err := fdsl.ExecuteFDSL(string(source), cwd, root, &timeout)
	fmt.Fprint(os.Stdout, out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return fail(1, errors.New("script failed"))
	}
	return nil
}
