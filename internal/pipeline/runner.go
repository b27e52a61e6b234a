package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gleaner/internal/catalog"
	"gleaner/internal/logging"
	"gleaner/internal/notifications"
	"gleaner/internal/records"
	"gleaner/internal/review"
)

// ErrNoItems indicates the playlist resolved to zero videos.
var ErrNoItems = errors.New("no items found in playlist")

// Fetcher lists every video of a playlist in playlist order.
type Fetcher interface {
	FetchAll(ctx context.Context, playlistID string) ([]records.RawItem, error)
}

// Extractor turns one raw item into exactly one record. Implementations
// must be total: failures degrade into fallback records, never errors.
type Extractor interface {
	Extract(ctx context.Context, item records.RawItem) records.Record
}

// Archiver persists a finished run. catalog.Store satisfies it.
type Archiver interface {
	SaveRun(ctx context.Context, run *catalog.Run, recs []records.Record) error
}

// Progress reports the item about to be processed. Index is 1-based.
type Progress struct {
	Index  int
	Total  int
	Status string
}

// ProgressFunc receives progress updates during a run.
type ProgressFunc func(Progress)

// Result summarizes a completed run.
type Result struct {
	Run     *catalog.Run
	Buffer  *review.Buffer
	Elapsed time.Duration
}

// Runner drives the fetch, extract, and buffer sequence for one playlist.
type Runner struct {
	fetcher   Fetcher
	extractor Extractor
	logger    *slog.Logger
	archiver  Archiver
	notifier  notifications.Service
	progress  ProgressFunc
	pacing    time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger attaches a logger for run diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logging.NewComponentLogger(logger, "pipeline")
		}
	}
}

// WithArchiver persists finished runs through the given store.
func WithArchiver(archiver Archiver) Option {
	return func(r *Runner) { r.archiver = archiver }
}

// WithNotifier publishes run milestones.
func WithNotifier(notifier notifications.Service) Option {
	return func(r *Runner) {
		if notifier != nil {
			r.notifier = notifier
		}
	}
}

// WithProgress registers a callback invoked before each item.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithPacing sets the delay inserted between consecutive items.
func WithPacing(delay time.Duration) Option {
	return func(r *Runner) {
		if delay >= 0 {
			r.pacing = delay
		}
	}
}

// withSleeper replaces the pacing sleep, which keeps tests fast.
func withSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Runner) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// NewRunner wires a runner from its collaborators.
func NewRunner(fetcher Fetcher, extractor Extractor, opts ...Option) (*Runner, error) {
	if fetcher == nil {
		return nil, errors.New("fetcher required")
	}
	if extractor == nil {
		return nil, errors.New("extractor required")
	}
	runner := &Runner{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logging.NewNop(),
		notifier:  notifications.NewNoop(),
		pacing:    time.Second,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run fetches the playlist and extracts one record per item, in playlist
// order. A fetch failure is terminal. Extraction failures are not: the
// extractor substitutes fallback records, so the buffer always holds
// exactly one record per fetched item. Cancellation between items stops
// the run while keeping the records produced so far.
func (r *Runner) Run(ctx context.Context, playlistID string) (*Result, error) {
	started := time.Now()
	runID := uuid.NewString()
	logger := r.logger.With(
		logging.String(logging.FieldRunID, runID),
		logging.String(logging.FieldPlaylistID, playlistID),
	)

	items, err := r.fetcher.FetchAll(ctx, playlistID)
	if err != nil {
		logger.Error("playlist fetch failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "fetch_failed"),
			logging.String(logging.FieldErrorHint, "verify the playlist id and API key"),
		)
		notifyErr := fmt.Errorf("fetch playlist %s: %w", playlistID, err)
		_ = r.notifier.NotifyRunFailed(ctx, playlistID, notifyErr)
		return nil, notifyErr
	}
	if len(items) == 0 {
		logger.Warn("playlist is empty",
			logging.String(logging.FieldEventType, "fetch_empty"),
		)
		return nil, fmt.Errorf("playlist %s: %w", playlistID, ErrNoItems)
	}

	logger.Info("run started",
		logging.Int(logging.FieldItemTotal, len(items)),
		logging.String(logging.FieldEventType, "run_started"),
	)
	_ = r.notifier.NotifyRunStarted(ctx, playlistID, len(items))

	buffer := review.NewBuffer()
	canceled := false
	for index, item := range items {
		if index > 0 {
			if err := r.sleep(ctx, r.pacing); err != nil {
				canceled = true
				break
			}
		}
		select {
		case <-ctx.Done():
			canceled = true
		default:
		}
		if canceled {
			break
		}

		r.reportProgress(Progress{Index: index + 1, Total: len(items), Status: item.Title})
		logger.Info("extracting item",
			logging.Int(logging.FieldItemIndex, index+1),
			logging.Int(logging.FieldItemTotal, len(items)),
			logging.String(logging.FieldVideoID, item.VideoID),
		)
		buffer.Append(r.extractor.Extract(ctx, item))
	}

	run := &catalog.Run{
		UUID:       runID,
		PlaylistID: playlistID,
		Status:     catalog.RunStatusCompleted,
	}
	if canceled {
		run.Status = catalog.RunStatusCanceled
	}

	recs := buffer.Records()
	if r.archiver != nil {
		if err := r.archiver.SaveRun(ctx, run, recs); err != nil {
			logger.Error("run archive failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "archive_failed"),
			)
			return nil, fmt.Errorf("archive run %s: %w", runID, err)
		}
	} else {
		run.ItemCount = len(recs)
		for _, record := range recs {
			if record.NeedsReview {
				run.ReviewCount++
			}
		}
	}

	elapsed := time.Since(started)
	logger.Info("run finished",
		logging.String("status", string(run.Status)),
		logging.Int("record_count", run.ItemCount),
		logging.Int("review_count", run.ReviewCount),
		logging.Duration("elapsed", elapsed),
		logging.String(logging.FieldEventType, "run_finished"),
	)
	if !canceled {
		_ = r.notifier.NotifyRunCompleted(ctx, playlistID, run.ItemCount, run.ReviewCount, elapsed)
	}

	result := &Result{Run: run, Buffer: buffer, Elapsed: elapsed}
	if canceled {
		return result, context.Canceled
	}
	return result, nil
}

func (r *Runner) reportProgress(progress Progress) {
	if r.progress != nil {
		r.progress(progress)
	}
}
