package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"gleaner/internal/logging"
	"gleaner/internal/records"
	"gleaner/internal/services/llm"
	"gleaner/internal/taxonomy"
)

const (
	defaultDescriptionLimit   = 2000
	defaultBaseConfidence     = 0.8
	defaultFallbackConfidence = 0.3

	// unknownVersion marks records where no game version could be
	// determined; versions must never be empty.
	unknownVersion = "unknown"
)

// Completer is the single LLM operation the engine depends on.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Engine turns one raw playlist item into exactly one record. Extract is
// total: every failure mode degrades into a review-flagged fallback
// record instead of an error, so callers never need per-item recovery.
type Engine struct {
	client             Completer
	logger             *slog.Logger
	descriptionLimit   int
	baseConfidence     float64
	fallbackConfidence float64
}

// Option customizes the engine.
type Option func(*Engine)

// WithLogger attaches a logger for extraction diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithConfidence overrides the clean and fallback confidence scores.
func WithConfidence(base, fallback float64) Option {
	return func(e *Engine) {
		e.baseConfidence = clampUnit(base)
		e.fallbackConfidence = clampUnit(fallback)
	}
}

// WithDescriptionLimit overrides the prompt description cap.
func WithDescriptionLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.descriptionLimit = limit
		}
	}
}

// NewEngine constructs an extraction engine around the supplied completer.
func NewEngine(client Completer, opts ...Option) *Engine {
	engine := &Engine{
		client:             client,
		logger:             logging.NewNop(),
		descriptionLimit:   defaultDescriptionLimit,
		baseConfidence:     defaultBaseConfidence,
		fallbackConfidence: defaultFallbackConfidence,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Extract produces the record for one item. It never returns an error:
// collaborator and parse failures yield a fallback record carrying the
// triggering diagnostic.
func (e *Engine) Extract(ctx context.Context, item records.RawItem) records.Record {
	record, err := e.attempt(ctx, item)
	if err != nil {
		e.logger.Warn("extraction degraded to fallback record",
			logging.Error(err),
			logging.String(logging.FieldVideoID, item.VideoID),
			logging.String(logging.FieldEventType, "extraction_fallback"),
		)
		return e.fallbackRecord(item, err)
	}
	return record
}

// extractionPayload mirrors the requested JSON field set. Every field is
// decoded as any so scalar-vs-list and number-vs-string mismatches can
// be coerced uniformly afterwards.
type extractionPayload struct {
	Title             any `json:"title"`
	Description       any `json:"description"`
	Category          any `json:"category"`
	Platform          any `json:"platform"`
	Versions          any `json:"versions"`
	Materials         any `json:"materials"`
	OptionalMaterials any `json:"optional_materials"`
	Tags              any `json:"tags"`
	FarmableItems     any `json:"farmable_items"`
	EstimatedTime     any `json:"estimated_time"`
	RequiredBiome     any `json:"required_biome"`
	Designer          any `json:"designer"`
	DropRateNote      any `json:"drop_rate_note"`
	Notes             any `json:"notes"`
}

func (e *Engine) attempt(ctx context.Context, item records.RawItem) (records.Record, error) {
	var empty records.Record
	content, err := e.client.CompleteJSON(ctx, extractionSystemPrompt, buildPrompt(item, e.descriptionLimit))
	if err != nil {
		return empty, fmt.Errorf("complete extraction: %w", err)
	}
	var payload extractionPayload
	if err := llm.DecodeLLMJSON(content, &payload); err != nil {
		return empty, fmt.Errorf("parse extraction payload: %w", err)
	}
	return e.normalizeRecord(item, payload), nil
}

func (e *Engine) normalizeRecord(item records.RawItem, payload extractionPayload) records.Record {
	record := records.Record{
		Title:             coerceText(payload.Title),
		Description:       coerceText(payload.Description),
		Platforms:         normalizePlatforms(coerceStringList(payload.Platform)),
		Versions:          coerceStringList(payload.Versions),
		SourceURL:         item.URL,
		Materials:         coerceText(payload.Materials),
		OptionalMaterials: coerceText(payload.OptionalMaterials),
		Tags:              coerceStringList(payload.Tags),
		FarmableItems:     coerceStringList(payload.FarmableItems),
		EstimatedTime:     coerceMinutes(payload.EstimatedTime),
		RequiredBiome:     coerceText(payload.RequiredBiome),
		Designer:          coerceText(payload.Designer),
		DropRateNote:      coerceText(payload.DropRateNote),
		Notes:             coerceText(payload.Notes),
		Confidence:        e.baseConfidence,
	}

	if record.Title == "" {
		record.Title = item.Title
	}
	if record.Description == "" {
		record.Description = truncateRunes(item.Description, e.descriptionLimit)
	}
	if len(record.Platforms) == 0 {
		record.Platforms = taxonomy.Platforms()
	}
	if len(record.Versions) == 0 {
		record.Versions = []string{unknownVersion}
	}

	category := coerceText(payload.Category)
	if category == "" {
		record.Category = taxonomy.DefaultCategory
	} else if canonical, ok := taxonomy.Canonical(category); ok {
		record.Category = canonical
	} else {
		record.Category = canonical
		record.AddError(fmt.Sprintf("invalid category %q", category))
	}

	return record
}

// fallbackRecord builds the degraded record used when extraction cannot
// complete cleanly. The item itself supplies everything recoverable.
func (e *Engine) fallbackRecord(item records.RawItem, cause error) records.Record {
	record := records.Record{
		Title:       item.Title,
		Description: truncateRunes(item.Description, e.descriptionLimit),
		Category:    taxonomy.DefaultCategory,
		Platforms:   taxonomy.Platforms(),
		Versions:    []string{unknownVersion},
		SourceURL:   item.URL,
		Confidence:  e.fallbackConfidence,
	}
	record.AddError(fmt.Sprintf("extraction failed: %v", cause))
	return record
}

func normalizePlatforms(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		canonical, _ := taxonomy.CanonicalPlatform(value)
		if canonical == "" {
			continue
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
