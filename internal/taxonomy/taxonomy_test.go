package taxonomy_test

import (
	"testing"

	"gleaner/internal/taxonomy"
)

func TestIsValidIgnoresCaseAndWhitespace(t *testing.T) {
	if !taxonomy.IsValid("mob farm") {
		t.Fatal("expected lowercase label to validate")
	}
	if !taxonomy.IsValid("  XP Farm  ") {
		t.Fatal("expected padded label to validate")
	}
	if taxonomy.IsValid("Bee Sanctuary") {
		t.Fatal("expected unknown label to fail")
	}
	if taxonomy.IsValid("") {
		t.Fatal("expected empty label to fail")
	}
}

func TestCanonicalMapsKnownLabels(t *testing.T) {
	got, ok := taxonomy.Canonical("crop farm")
	if !ok || got != "Crop Farm" {
		t.Fatalf("Canonical(crop farm) = %q, %v", got, ok)
	}
	got, ok = taxonomy.Canonical("iron golem farm")
	if ok {
		t.Fatal("expected unknown category to report ok=false")
	}
	if got != "Iron Golem Farm" {
		t.Fatalf("expected title-cased passthrough, got %q", got)
	}
}

func TestCanonicalPlatform(t *testing.T) {
	got, ok := taxonomy.CanonicalPlatform("JAVA")
	if !ok || got != "Java" {
		t.Fatalf("CanonicalPlatform(JAVA) = %q, %v", got, ok)
	}
	if _, ok := taxonomy.CanonicalPlatform("console"); ok {
		t.Fatal("expected unknown platform to report ok=false")
	}
}

func TestCategoriesIncludesDefault(t *testing.T) {
	found := false
	for _, category := range taxonomy.Categories() {
		if category == taxonomy.DefaultCategory {
			found = true
		}
	}
	if !found {
		t.Fatalf("default category %q missing from Categories()", taxonomy.DefaultCategory)
	}
}
