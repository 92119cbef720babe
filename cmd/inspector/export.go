package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/narender4sm/inspector-assistant/internal/export"
	"github.com/narender4sm/inspector-assistant/internal/pathutil"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the inspection dataset",
	Long:  `Export the generated inspection dataset as a PostgreSQL dump or a SQLite database file.`,
}

var exportSQLCmd = &cobra.Command{
	Use:   "sql",
	Short: "Write a PostgreSQL dump",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset := buildDataset(cfg)

		out, err := resolveOutPath(cmd, "inspector_ai_export.sql")
		if err != nil {
			return err
		}

		dump := export.SQLDump(dataset.All(), time.Now())
		if err := atomic.WriteFile(out, strings.NewReader(dump)); err != nil {
			return fmt.Errorf("write dump: %w", err)
		}

		fmt.Printf("Exported %d equipment records to %s\n", dataset.Len(), out)
		return nil
	},
}

var exportSQLiteCmd = &cobra.Command{
	Use:   "sqlite",
	Short: "Write a SQLite database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset := buildDataset(cfg)

		out, err := resolveOutPath(cmd, "inspector_ai.db")
		if err != nil {
			return err
		}

		if err := export.SQLite(dataset.All(), out); err != nil {
			return fmt.Errorf("write database: %w", err)
		}

		fmt.Printf("Exported %d equipment records to %s\n", dataset.Len(), out)
		return nil
	},
}

func resolveOutPath(cmd *cobra.Command, defaultName string) (string, error) {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = filepath.Join(cfg.Export.Dir, defaultName)
	}

	resolved, err := pathutil.Expand(out)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return resolved, nil
}

func init() {
	exportSQLCmd.Flags().String("out", "", "output path (default <export.dir>/inspector_ai_export.sql)")
	exportSQLiteCmd.Flags().String("out", "", "output path (default <export.dir>/inspector_ai.db)")
	exportCmd.AddCommand(exportSQLCmd)
	exportCmd.AddCommand(exportSQLiteCmd)
	rootCmd.AddCommand(exportCmd)
}
