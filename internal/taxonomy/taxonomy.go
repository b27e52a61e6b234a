// Package taxonomy defines the closed set of farm categories and
// platform tags records are validated against.
package taxonomy

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultCategory is used when extraction cannot determine a category.
const DefaultCategory = "Other"

var categories = []string{
	"Mob Farm",
	"Crop Farm",
	"Animal Farm",
	"Block Farm",
	"XP Farm",
	"Item Farm",
	"Redstone Contraption",
	"Storage System",
	DefaultCategory,
}

var platforms = []string{
	"Java",
	"Bedrock",
}

var titleCaser = cases.Title(language.English)

var categorySet = func() map[string]string {
	set := make(map[string]string, len(categories))
	for _, category := range categories {
		set[strings.ToLower(category)] = category
	}
	return set
}()

var platformSet = func() map[string]string {
	set := make(map[string]string, len(platforms))
	for _, platform := range platforms {
		set[strings.ToLower(platform)] = platform
	}
	return set
}()

// Categories returns the allowed category labels in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Platforms returns the recognized platform tags.
func Platforms() []string {
	out := make([]string, len(platforms))
	copy(out, platforms)
	return out
}

// IsValid reports whether the label matches a category, ignoring case
// and surrounding whitespace.
func IsValid(label string) bool {
	_, ok := categorySet[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// Canonical maps a label to its canonical category spelling. Unknown
// labels are returned title-cased with ok=false so callers can keep the
// original value while flagging it.
func Canonical(label string) (string, bool) {
	trimmed := strings.TrimSpace(label)
	if canonical, ok := categorySet[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}
	if trimmed == "" {
		return "", false
	}
	return titleCaser.String(trimmed), false
}

// CanonicalPlatform maps a tag to its canonical platform spelling.
func CanonicalPlatform(tag string) (string, bool) {
	trimmed := strings.TrimSpace(tag)
	if canonical, ok := platformSet[strings.ToLower(trimmed)]; ok {
		return canonical, true
	}
	if trimmed == "" {
		return "", false
	}
	return titleCaser.String(trimmed), false
}
