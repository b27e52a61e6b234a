package records_test

import (
	"testing"

	"gleaner/internal/records"
)

func TestApplySetsScalarAndListFields(t *testing.T) {
	var rec records.Record

	if err := records.Apply(&rec, "category", " Mob Farm "); err != nil {
		t.Fatalf("Apply category: %v", err)
	}
	if rec.Category != "Mob Farm" {
		t.Fatalf("unexpected category: %q", rec.Category)
	}

	if err := records.Apply(&rec, "platform", "Java; Bedrock"); err != nil {
		t.Fatalf("Apply platform: %v", err)
	}
	if len(rec.Platforms) != 2 || rec.Platforms[1] != "Bedrock" {
		t.Fatalf("unexpected platforms: %#v", rec.Platforms)
	}

	if err := records.Apply(&rec, "estimated_time", "45"); err != nil {
		t.Fatalf("Apply estimated_time: %v", err)
	}
	if rec.EstimatedTime == nil || *rec.EstimatedTime != 45 {
		t.Fatalf("unexpected estimated time: %v", rec.EstimatedTime)
	}

	if err := records.Apply(&rec, "estimated_time", ""); err != nil {
		t.Fatalf("Apply empty estimated_time: %v", err)
	}
	if rec.EstimatedTime != nil {
		t.Fatal("expected estimated time to be unset")
	}
}

func TestApplyRejectsBadValues(t *testing.T) {
	var rec records.Record
	if err := records.Apply(&rec, "estimated_time", "soon"); err == nil {
		t.Fatal("expected parse error")
	}
	if err := records.Apply(&rec, "estimated_time", "-5"); err == nil {
		t.Fatal("expected negative minutes to be rejected")
	}
	if err := records.Apply(&rec, "flavor", "spicy"); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestApplyKeepsPlatformAndVersionsNonEmpty(t *testing.T) {
	rec := records.Record{
		Platforms: []string{"Java"},
		Versions:  []string{"1.21"},
	}

	if err := records.Apply(&rec, "platform", ""); err == nil {
		t.Fatal("expected empty platform edit to be rejected")
	}
	if err := records.Apply(&rec, "versions", " ; ; "); err == nil {
		t.Fatal("expected blank versions edit to be rejected")
	}

	if len(rec.Platforms) != 1 || rec.Platforms[0] != "Java" {
		t.Fatalf("platforms mutated by rejected edit: %#v", rec.Platforms)
	}
	if len(rec.Versions) != 1 || rec.Versions[0] != "1.21" {
		t.Fatalf("versions mutated by rejected edit: %#v", rec.Versions)
	}
}

func TestSplitListDropsEmptyEntries(t *testing.T) {
	got := records.SplitList("a; ;b;;c ")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("unexpected split: %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected split: %#v", got)
		}
	}
	if records.SplitList("   ") != nil {
		t.Fatal("expected blank cell to split to nil")
	}
}

func TestCellValueCoversEveryColumn(t *testing.T) {
	minutes := 30
	rec := records.Record{
		Title:         "Creeper Farm",
		Platforms:     []string{"Java"},
		EstimatedTime: &minutes,
	}
	for _, column := range records.Columns() {
		if _, err := records.CellValue(rec, column); err != nil {
			t.Fatalf("CellValue(%q) returned error: %v", column, err)
		}
	}
	if _, err := records.CellValue(rec, "nope"); err == nil {
		t.Fatal("expected unknown column error")
	}
}

func TestAddErrorFlagsReview(t *testing.T) {
	var rec records.Record
	rec.AddError("  invalid category \"Bee Farm\"  ")
	if !rec.NeedsReview {
		t.Fatal("expected review flag")
	}
	if len(rec.Errors) != 1 || rec.Errors[0] != `invalid category "Bee Farm"` {
		t.Fatalf("unexpected errors: %#v", rec.Errors)
	}
	rec.AddError("")
	if len(rec.Errors) != 1 {
		t.Fatal("expected blank error to be dropped")
	}
}

func TestCloneDoesNotAliasSlices(t *testing.T) {
	rec := records.Record{Tags: []string{"farm"}}
	clone := rec.Clone()
	clone.Tags[0] = "changed"
	if rec.Tags[0] != "farm" {
		t.Fatal("clone aliased tags slice")
	}
}
