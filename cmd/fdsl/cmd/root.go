// Package cmd implements the fdsl command-line front end: a thin
// collaborator (spec.md §1) wrapping the embedding API's execute_fdsl,
// plus the prepare subcommand that builds a semantic index in place.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/filesdsl/filesdsl/docextract"
	"github.com/filesdsl/filesdsl/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:          "fdsl",
		Short:        "fdsl",
		SilenceUsage: true,
		Long:         `Run and prepare FilesDSL document-exploration scripts.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(logrus.DebugLevel)
			}
			loadConfig()
		},
	}

	sandboxRoot string
	verbose     bool
	configPath  string
	logger      = logrus.New()

	// cfg holds the operator-tunable defaults loaded from configPath
	// (or internal/config.FileName) once per process, before any
	// subcommand runs.
	cfg = config.Default()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&sandboxRoot, "sandbox-root", "", "path every DSL file operation is confined to (defaults to the script's directory for run, the target folder for prepare)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to fdsl.yaml (defaults to ./fdsl.yaml, missing file is not an error)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(prepareCmd)
}

// loadConfig applies the operator-tunable defaults (spec.md §A) to the
// process-wide knobs they govern: the text chunk size docextract uses,
// and a warning if OCR is requested but this build carries no OCR
// provider (spec.md §1 names OCR out of scope for the core).
func loadConfig() {
	loaded, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).WithField("path", configPath).Warn("could not load config, using defaults")
		return
	}
	cfg = loaded
	docextract.TextChunkLines = cfg.ChunkLines
	if cfg.OCREnabled && docextract.OCR == nil {
		logger.Warn("ocr_enabled is set but this build has no OCR provider wired in; image-only PDF pages will extract empty text")
	}
}

// exitCodeError lets a subcommand's RunE report a specific process
// exit code without pulling os.Exit into command logic itself.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

func fail(code int, err error) error {
	return &exitCodeError{code: code, err: err}
}

// Execute runs the root command and returns the process exit code:
// 0 on success, 1 on a syntax or runtime error, 2 when the script file
// is missing or not a regular file.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if ec, ok := err.(*exitCodeError); ok {
		return ec.code
	}
	return 1
}
