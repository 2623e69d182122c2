// Command create builds a reference database snapshot from a directory of
// source tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anrid/covid-qaly/pkg/dataset"
)

const covidQALYDatabase = "/tmp/covid-qaly.json"

var (
	sourceDir string
	outFile   string
	force     bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "create",
		Short:        "Build a reference database snapshot",
		SilenceUsage: true,
		RunE:         runCreate,
	}
	cmd.Flags().StringVar(&sourceDir, "source", "", "directory of source tables (csv, xlsx, xls); embedded defaults when empty")
	cmd.Flags().StringVar(&outFile, "out", covidQALYDatabase, "snapshot file to write")
	cmd.Flags().BoolVar(&force, "force", false, "rebuild even if the snapshot exists")
	return cmd
}

func runCreate(cmd *cobra.Command, _ []string) error {
	db, found, err := dataset.LoadIfExists(outFile)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !found || force {
		if sourceDir != "" {
			db, err = dataset.LoadDir(sourceDir)
		} else {
			db, err = dataset.Default()
		}
		if err != nil {
			return fmt.Errorf("failed to load source tables: %w", err)
		}
		if err := db.Save(outFile); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved: '%s'\n", outFile)
	}

	db.Info(cmd.OutOrStdout())
	return nil
}
