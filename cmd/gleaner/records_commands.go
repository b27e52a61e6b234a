package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gleaner/internal/catalog"
	"gleaner/internal/records"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				runs, err := store.ListRuns(cmd.Context())
				if err != nil {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.UUID,
						run.PlaylistID,
						string(run.Status),
						strconv.Itoa(run.ItemCount),
						strconv.Itoa(run.ReviewCount),
						run.CreatedAt.Local().Format(time.DateTime),
					})
				}
				headers := []string{"Run", "Playlist", "Status", "Records", "Review", "Created"}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 4, 5))
				return nil
			})
		},
	}
}

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect and edit extracted records",
	}

	recordsCmd.AddCommand(newRecordsListCommand(ctx))
	recordsCmd.AddCommand(newRecordsShowCommand(ctx))
	recordsCmd.AddCommand(newRecordsEditCommand(ctx))

	return recordsCmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	var runFlag string
	var reviewOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the records of a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				run, err := resolveRun(cmd.Context(), store, runFlag)
				if err != nil {
					return err
				}
				recs, err := store.RecordsForRun(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(recs))
				for index, record := range recs {
					if reviewOnly && !record.NeedsReview {
						continue
					}
					rows = append(rows, []string{
						strconv.Itoa(index),
						truncateStatus(record.Title),
						record.Category,
						records.JoinList(record.Platforms),
						fmt.Sprintf("%.2f", record.Confidence),
						yesNo(record.NeedsReview),
					})
				}
				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					if reviewOnly {
						fmt.Fprintln(out, "No records flagged for review.")
					} else {
						fmt.Fprintln(out, "Run holds no records.")
					}
					return nil
				}
				fmt.Fprintf(out, "Run %s (%s)\n", run.UUID, run.PlaylistID)
				headers := []string{"#", "Title", "Category", "Platform", "Confidence", "Review"}
				fmt.Fprintln(out, renderTable(headers, rows, 1, 5))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runFlag, "run", "", "Run UUID (defaults to the latest run)")
	cmd.Flags().BoolVar(&reviewOnly, "review", false, "Only show records flagged for review")
	return cmd
}

func newRecordsShowCommand(ctx *commandContext) *cobra.Command {
	var runFlag string

	cmd := &cobra.Command{
		Use:   "show <index>",
		Short: "Show every field of one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseRecordIndex(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *catalog.Store) error {
				run, err := resolveRun(cmd.Context(), store, runFlag)
				if err != nil {
					return err
				}
				record, err := store.GetRecord(cmd.Context(), run.ID, index)
				if err != nil {
					return err
				}

				rows := make([][]string, 0, len(records.Columns())+3)
				for _, column := range records.Columns() {
					value, err := records.CellValue(record, column)
					if err != nil {
						return err
					}
					rows = append(rows, []string{column, value})
				}
				rows = append(rows,
					[]string{"confidence", fmt.Sprintf("%.2f", record.Confidence)},
					[]string{"needs_review", yesNo(record.NeedsReview)},
					[]string{"errors", strings.Join(record.Errors, "\n")},
				)
				fmt.Fprintln(cmd.OutOrStdout(), renderKV(rows))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runFlag, "run", "", "Run UUID (defaults to the latest run)")
	return cmd
}

func newRecordsEditCommand(ctx *commandContext) *cobra.Command {
	var runFlag string

	cmd := &cobra.Command{
		Use:   "edit <index> <field> <value>",
		Short: "Edit one field of one record",
		Long: "Edit one field of one record. List-valued fields take " +
			"semicolon-separated values; needs_review takes true or false.",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseRecordIndex(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *catalog.Store) error {
				run, err := resolveRun(cmd.Context(), store, runFlag)
				if err != nil {
					return err
				}
				if err := store.UpdateRecordField(cmd.Context(), run.ID, index, args[1], args[2]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s of record %d in run %s\n", args[1], index, run.UUID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runFlag, "run", "", "Run UUID (defaults to the latest run)")
	return cmd
}

func parseRecordIndex(arg string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid record index %q", arg)
	}
	return index, nil
}
