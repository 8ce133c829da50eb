// Package cmd holds the inlineedit command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/inlineedit/internal/log"
	"github.com/zjrosen/inlineedit/internal/paths"
)

const logBufferSize = 1000

var (
	version = "dev"

	dataDir    string
	debugFlag  bool
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "inlineedit",
	Short: "Edit form fields in place, in the terminal",
	Long: `inlineedit renders form fields as text and edits them in place with typed
inputs: text, password, number, time and single-select.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initLogging() },
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log to the data directory (or set "+log.DebugEnvVar+")")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", ".", "project or data directory")
}

// Execute runs the root command.
func Execute(v string) error {
	version = v
	return rootCmd.ExecuteContext(context.Background())
}

func initLogging() error {
	if !log.DebugRequested(debugFlag) {
		return nil
	}
	dir := paths.ResolveDir(dataDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	cleanup, err := log.Open(paths.LogFile(dir), "inlineedit", logBufferSize)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	logCleanup = cleanup
	log.Info(log.CatMode, "debug logging enabled", "version", version, "dir", dir)
	return nil
}
