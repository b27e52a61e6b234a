package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gleaner/internal/records"
	"gleaner/internal/taxonomy"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (s *stubCompleter) CompleteJSON(_ context.Context, _ string, userPrompt string) (string, error) {
	s.calls++
	s.lastUser = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testItem() records.RawItem {
	return records.RawItem{
		VideoID:      "vid1",
		Title:        "EASY Creeper Farm Tutorial",
		Description:  "Build a creeper farm. Produces 2000 gunpowder per hour.",
		ChannelTitle: "FarmWorks",
		URL:          "https://www.youtube.com/watch?v=vid1",
	}
}

func TestExtractCleanPass(t *testing.T) {
	completer := &stubCompleter{response: `{
		"title": "Creeper Farm",
		"description": "Gunpowder farm using cats.",
		"category": "mob farm",
		"platform": "Java",
		"versions": ["1.20+"],
		"materials": "64 stone; 4 trapdoors",
		"tags": ["gunpowder", "easy"],
		"farmable_items": ["gunpowder"],
		"estimated_time": 45,
		"designer": "FarmWorks"
	}`}
	engine := NewEngine(completer)

	record := engine.Extract(context.Background(), testItem())

	if record.NeedsReview {
		t.Fatalf("unexpected review flag, errors: %#v", record.Errors)
	}
	if record.Category != "Mob Farm" {
		t.Fatalf("expected canonical category, got %q", record.Category)
	}
	if len(record.Platforms) != 1 || record.Platforms[0] != "Java" {
		t.Fatalf("expected scalar platform coerced to list, got %#v", record.Platforms)
	}
	if record.EstimatedTime == nil || *record.EstimatedTime != 45 {
		t.Fatalf("unexpected estimated time: %v", record.EstimatedTime)
	}
	if record.Confidence != 0.8 {
		t.Fatalf("unexpected confidence: %v", record.Confidence)
	}
	if record.SourceURL != "https://www.youtube.com/watch?v=vid1" {
		t.Fatalf("unexpected source url: %q", record.SourceURL)
	}
	if len(record.Errors) != 0 {
		t.Fatalf("expected no errors, got %#v", record.Errors)
	}
}

func TestExtractToleratesWrappedJSON(t *testing.T) {
	completer := &stubCompleter{
		response: "Here you go:\n```json\n{\"title\": \"Kelp Farm\", \"category\": \"Crop Farm\"}\n```\nEnjoy!",
	}
	engine := NewEngine(completer)

	record := engine.Extract(context.Background(), testItem())
	if record.Title != "Kelp Farm" {
		t.Fatalf("unexpected title: %q", record.Title)
	}
	if record.Category != "Crop Farm" {
		t.Fatalf("unexpected category: %q", record.Category)
	}
	if record.NeedsReview {
		t.Fatalf("unexpected review flag: %#v", record.Errors)
	}
}

func TestExtractInvalidCategoryKeepsRecordFlagsReview(t *testing.T) {
	completer := &stubCompleter{response: `{
		"title": "Bee Farm",
		"description": "Honey and combs.",
		"category": "bee sanctuary"
	}`}
	engine := NewEngine(completer)

	record := engine.Extract(context.Background(), testItem())
	if !record.NeedsReview {
		t.Fatal("expected review flag for invalid category")
	}
	if record.Title != "Bee Farm" {
		t.Fatalf("expected extracted title kept, got %q", record.Title)
	}
	if record.Category != "Bee Sanctuary" {
		t.Fatalf("expected title-cased passthrough category, got %q", record.Category)
	}
	found := false
	for _, message := range record.Errors {
		if strings.Contains(message, "invalid category") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected invalid category error, got %#v", record.Errors)
	}
	if record.Confidence != 0.8 {
		t.Fatalf("category mismatch should not lower confidence, got %v", record.Confidence)
	}
}

func TestExtractFallbackOnCompleterError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("connection refused")}
	engine := NewEngine(completer, WithConfidence(0.9, 0.25))

	item := testItem()
	record := engine.Extract(context.Background(), item)

	if !record.NeedsReview {
		t.Fatal("expected review flag on fallback record")
	}
	if record.Title != item.Title {
		t.Fatalf("expected title copied from item, got %q", record.Title)
	}
	if record.Category != taxonomy.DefaultCategory {
		t.Fatalf("expected default category, got %q", record.Category)
	}
	if len(record.Platforms) == 0 || len(record.Versions) == 0 {
		t.Fatalf("expected platform/version guesses, got %#v / %#v", record.Platforms, record.Versions)
	}
	if record.Confidence != 0.25 {
		t.Fatalf("unexpected fallback confidence: %v", record.Confidence)
	}
	if len(record.Errors) == 0 || !strings.Contains(record.Errors[0], "connection refused") {
		t.Fatalf("expected triggering error recorded, got %#v", record.Errors)
	}
}

func TestExtractFallbackOnUnparseableResponse(t *testing.T) {
	completer := &stubCompleter{response: "I am sorry, I cannot help with that."}
	engine := NewEngine(completer)

	record := engine.Extract(context.Background(), testItem())
	if !record.NeedsReview {
		t.Fatal("expected review flag on parse failure")
	}
	if record.Confidence != 0.3 {
		t.Fatalf("unexpected fallback confidence: %v", record.Confidence)
	}
}

func TestExtractDefaultsMissingFields(t *testing.T) {
	completer := &stubCompleter{response: `{"category": "XP Farm"}`}
	engine := NewEngine(completer)

	item := testItem()
	record := engine.Extract(context.Background(), item)

	if record.Title != item.Title {
		t.Fatalf("expected title defaulted from item, got %q", record.Title)
	}
	if record.Description == "" {
		t.Fatal("expected description defaulted from item")
	}
	if record.EstimatedTime != nil {
		t.Fatalf("expected nil estimated time, got %v", *record.EstimatedTime)
	}
	if len(record.Platforms) != len(taxonomy.Platforms()) {
		t.Fatalf("expected default platform guesses, got %#v", record.Platforms)
	}
	if len(record.Versions) != 1 || record.Versions[0] != unknownVersion {
		t.Fatalf("expected unknown version marker, got %#v", record.Versions)
	}
	if record.NeedsReview {
		t.Fatalf("defaults alone should not flag review: %#v", record.Errors)
	}
}

func TestPromptBoundsDescription(t *testing.T) {
	completer := &stubCompleter{response: `{}`}
	engine := NewEngine(completer, WithDescriptionLimit(10))

	item := testItem()
	item.Description = strings.Repeat("x", 100)
	engine.Extract(context.Background(), item)

	if strings.Contains(completer.lastUser, strings.Repeat("x", 11)) {
		t.Fatal("expected description truncated in prompt")
	}
	if !strings.Contains(completer.lastUser, strings.Repeat("x", 10)) {
		t.Fatal("expected truncated description prefix in prompt")
	}
	if !strings.Contains(completer.lastUser, taxonomy.DefaultCategory) {
		t.Fatal("expected allowed categories embedded in prompt")
	}
}
