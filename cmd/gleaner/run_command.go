package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gleaner/internal/catalog"
	"gleaner/internal/config"
	"gleaner/internal/extraction"
	"gleaner/internal/notifications"
	"gleaner/internal/pipeline"
	"gleaner/internal/playlist"
	"gleaner/internal/services/llm"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <playlist-id>",
		Short: "Fetch a playlist and extract one record per video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			lock := flock.New(cfg.LockPath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !locked {
				return errors.New("another gleaner run is already in progress")
			}
			defer func() { _ = lock.Unlock() }()

			fetcher, err := playlist.New(cfg.YouTube.APIKey, cfg.YouTube.BaseURL,
				playlist.WithPageSize(cfg.YouTube.PageSize))
			if err != nil {
				return fmt.Errorf("configure playlist client: %w", err)
			}

			completer, err := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				Referer:        cfg.LLM.Referer,
				Title:          cfg.LLM.Title,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			if err != nil {
				return fmt.Errorf("configure llm client: %w", err)
			}
			engine := extraction.NewEngine(completer,
				extraction.WithLogger(logger),
				extraction.WithConfidence(cfg.Pipeline.BaseConfidence, cfg.Pipeline.FallbackConfidence),
				extraction.WithDescriptionLimit(cfg.Pipeline.DescriptionLimit),
			)

			store, err := catalog.Open(cfg.CatalogPath())
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			progress, finish := newRunProgress(cmd)
			runner, err := pipeline.NewRunner(fetcher, engine,
				pipeline.WithLogger(logger),
				pipeline.WithPacing(time.Duration(cfg.Pipeline.PacingSeconds)*time.Second),
				pipeline.WithArchiver(store),
				pipeline.WithNotifier(notifications.NewService(cfg)),
				pipeline.WithProgress(progress),
			)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result, runErr := runner.Run(runCtx, args[0])
			finish()
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}

			out := cmd.OutOrStdout()
			if errors.Is(runErr, context.Canceled) {
				fmt.Fprintln(out, "Run interrupted; records extracted so far were kept.")
			}
			printRunSummary(out, cfg, result)
			return nil
		},
	}
	return cmd
}

// newRunProgress returns the per-item progress callback and a finisher.
// Interactive terminals get a live progress bar; everything else gets
// one plain line per item.
func newRunProgress(cmd *cobra.Command) (pipeline.ProgressFunc, func()) {
	errOut := cmd.ErrOrStderr()
	if !isTerminal(errOut) {
		return func(p pipeline.Progress) {
			fmt.Fprintf(errOut, "[%d/%d] %s\n", p.Index, p.Total, p.Status)
		}, func() {}
	}

	var bar *progressbar.ProgressBar
	progress := func(p pipeline.Progress) {
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetWriter(errOut),
				progressbar.OptionSetDescription("extracting"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		bar.Describe(truncateStatus(p.Status))
		_ = bar.Set(p.Index - 1)
	}
	finish := func() {
		if bar != nil {
			_ = bar.Finish()
		}
	}
	return progress, finish
}

func truncateStatus(status string) string {
	const limit = 40
	status = strings.TrimSpace(status)
	runes := []rune(status)
	if len(runes) <= limit {
		return status
	}
	return string(runes[:limit-1]) + "…"
}

func printRunSummary(out io.Writer, cfg *config.Config, result *pipeline.Result) {
	if result == nil || result.Run == nil {
		return
	}
	run := result.Run
	rows := [][]string{
		{"Run", run.UUID},
		{"Playlist", run.PlaylistID},
		{"Status", string(run.Status)},
		{"Records", fmt.Sprintf("%d", run.ItemCount)},
		{"Needs review", fmt.Sprintf("%d", run.ReviewCount)},
		{"Elapsed", result.Elapsed.Round(time.Second).String()},
	}
	fmt.Fprintln(out, renderKV(rows))
	if run.ReviewCount > 0 {
		fmt.Fprintf(out, "Review flagged records with `gleaner records list --review`.\n")
	}
	fmt.Fprintf(out, "Export with `gleaner export` (writes to %s).\n", cfg.Paths.ExportDir)
}
