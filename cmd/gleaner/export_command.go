package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gleaner/internal/catalog"
	"gleaner/internal/config"
	"gleaner/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var runFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a run's records to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *catalog.Store) error {
				run, err := resolveRun(cmd.Context(), store, runFlag)
				if err != nil {
					return err
				}
				recs, err := store.RecordsForRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				data, err := export.CSV(recs)
				if err != nil {
					return fmt.Errorf("render csv: %w", err)
				}
				target, err := resolveExportTarget(cfg, outputFlag)
				if err != nil {
					return err
				}
				if err := os.WriteFile(target, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records from run %s to %s\n",
					len(recs), run.UUID, target)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runFlag, "run", "", "Run UUID (defaults to the latest run)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Destination file (defaults to a dated file in the export directory)")
	return cmd
}

func resolveExportTarget(cfg *config.Config, outputFlag string) (string, error) {
	if target := strings.TrimSpace(outputFlag); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve export path: %w", err)
		}
		if dir := filepath.Dir(expanded); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create export directory %q: %w", dir, err)
			}
		}
		return expanded, nil
	}
	if err := os.MkdirAll(cfg.Paths.ExportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory %q: %w", cfg.Paths.ExportDir, err)
	}
	return filepath.Join(cfg.Paths.ExportDir, export.Filename(time.Now())), nil
}
