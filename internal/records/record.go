// Package records defines the raw playlist item and extracted record
// types shared by the fetcher, extraction engine, review buffer,
// catalog, and exporter.
package records

import "strings"

// RawItem is one playable entry fetched from a playlist. Immutable once
// produced by the fetcher.
type RawItem struct {
	VideoID      string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  string
	URL          string
	ThumbnailURL string
}

// Record is the structured result of extracting one RawItem.
type Record struct {
	Title             string
	Description       string
	Category          string
	Platforms         []string
	Versions          []string
	SourceURL         string
	Materials         string
	OptionalMaterials string
	Tags              []string
	FarmableItems     []string
	EstimatedTime     *int // minutes
	RequiredBiome     string
	Designer          string
	DropRateNote      string
	Notes             string

	Confidence  float64
	NeedsReview bool
	Errors      []string
}

// AddError appends a diagnostic note and flags the record for review.
func (r *Record) AddError(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	r.Errors = append(r.Errors, message)
	r.NeedsReview = true
}

// Clone returns a deep copy so buffer snapshots cannot alias shared slices.
func (r Record) Clone() Record {
	clone := r
	clone.Platforms = cloneStrings(r.Platforms)
	clone.Versions = cloneStrings(r.Versions)
	clone.Tags = cloneStrings(r.Tags)
	clone.FarmableItems = cloneStrings(r.FarmableItems)
	clone.Errors = cloneStrings(r.Errors)
	if r.EstimatedTime != nil {
		minutes := *r.EstimatedTime
		clone.EstimatedTime = &minutes
	}
	return clone
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// ListSeparator joins list-valued fields in the catalog and CSV export.
const ListSeparator = "; "

// JoinList renders a list-valued field as a single cell.
func JoinList(values []string) string {
	return strings.Join(values, ListSeparator)
}

// SplitList parses a semicolon-delimited cell back into a list, dropping
// empty entries.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
