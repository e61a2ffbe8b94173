package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"moldmes/internal/importer"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a BOM tree table (.tsv, .txt or .xlsx) without going through HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", importFile, err)
		}

		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx := cmd.Context()
		pool, tx, _, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		start := time.Now()
		res, err := importer.NewTreeImporter(tx, nil, openCache(ctx, cfg, logger), logger).Import(ctx, importer.Source{
			Filename:    filepath.Base(importFile),
			ContentType: mime.TypeByExtension(filepath.Ext(importFile)),
			Payload:     payload,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), `
=== Import Report ===
Import ID:      %s
Rows:           %d
BOM created:    %d
BOM updated:    %d
Skipped:        %d
Total time:     %s
=====================
`, res.ImportID, res.Rows, res.BOMCreated, res.BOMUpdated, res.Skipped, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Tree table file path (required)")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
