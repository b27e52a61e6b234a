package review_test

import (
	"fmt"
	"sync"
	"testing"

	"gleaner/internal/records"
	"gleaner/internal/review"
)

func TestAppendPreservesOrder(t *testing.T) {
	buffer := review.NewBuffer()
	for i := 0; i < 5; i++ {
		buffer.Append(records.Record{Title: fmt.Sprintf("Farm %d", i)})
	}
	if buffer.Len() != 5 {
		t.Fatalf("unexpected length: %d", buffer.Len())
	}
	for i, record := range buffer.Records() {
		if record.Title != fmt.Sprintf("Farm %d", i) {
			t.Fatalf("record %d out of order: %q", i, record.Title)
		}
	}
}

func TestUpdateFieldChangesOnlyNamedField(t *testing.T) {
	buffer := review.NewBuffer()
	buffer.Append(records.Record{Title: "Farm 0", Category: "Mob Farm"})
	buffer.Append(records.Record{
		Title:     "Farm 1",
		Category:  "Mob Farm",
		Platforms: []string{"Java"},
		Notes:     "check rates",
	})

	if err := buffer.UpdateField(1, "category", "Crop Farm"); err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}

	updated, err := buffer.Get(1)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if updated.Category != "Crop Farm" {
		t.Fatalf("category not updated: %q", updated.Category)
	}
	if updated.Title != "Farm 1" || updated.Notes != "check rates" {
		t.Fatalf("unrelated fields changed: %#v", updated)
	}
	if len(updated.Platforms) != 1 || updated.Platforms[0] != "Java" {
		t.Fatalf("platforms changed: %#v", updated.Platforms)
	}

	untouched, err := buffer.Get(0)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if untouched.Category != "Mob Farm" {
		t.Fatalf("neighboring record changed: %#v", untouched)
	}
}

func TestUpdateFieldValidatesIndexAndField(t *testing.T) {
	buffer := review.NewBuffer()
	buffer.Append(records.Record{Title: "Farm"})

	if err := buffer.UpdateField(3, "title", "x"); err == nil {
		t.Fatal("expected out of range error")
	}
	if err := buffer.UpdateField(-1, "title", "x"); err == nil {
		t.Fatal("expected out of range error for negative index")
	}
	if err := buffer.UpdateField(0, "color", "green"); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestRecordsReturnsCopies(t *testing.T) {
	buffer := review.NewBuffer()
	buffer.Append(records.Record{Tags: []string{"farm"}})

	snapshot := buffer.Records()
	snapshot[0].Tags[0] = "mutated"
	snapshot[0].Title = "mutated"

	current, err := buffer.Get(0)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if current.Tags[0] != "farm" || current.Title != "" {
		t.Fatalf("snapshot mutation leaked into buffer: %#v", current)
	}
}

func TestConcurrentAppendAndEdit(t *testing.T) {
	buffer := review.NewBuffer()
	buffer.Append(records.Record{Title: "seed"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			buffer.Append(records.Record{Title: "appended"})
		}()
		go func() {
			defer wg.Done()
			_ = buffer.UpdateField(0, "notes", "edited")
		}()
	}
	wg.Wait()

	if buffer.Len() != 21 {
		t.Fatalf("unexpected length after concurrent appends: %d", buffer.Len())
	}
}
