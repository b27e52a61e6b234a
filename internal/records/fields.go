package records

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names accepted by Apply and used as export column headers.
const (
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldCategory          = "category"
	FieldPlatform          = "platform"
	FieldVersions          = "versions"
	FieldSourceURL         = "source_url"
	FieldMaterials         = "materials"
	FieldOptionalMaterials = "optional_materials"
	FieldTags              = "tags"
	FieldFarmableItems     = "farmable_items"
	FieldEstimatedTime     = "estimated_time"
	FieldRequiredBiome     = "required_biome"
	FieldDesigner          = "designer_attribution"
	FieldDropRateNote      = "drop_rate_note"
	FieldNotes             = "notes"
	FieldNeedsReview       = "needs_review"
)

// Columns returns the export column order. Every column except
// needs_review is also an editable field.
func Columns() []string {
	return []string{
		FieldTitle,
		FieldDescription,
		FieldCategory,
		FieldPlatform,
		FieldVersions,
		FieldSourceURL,
		FieldMaterials,
		FieldOptionalMaterials,
		FieldTags,
		FieldFarmableItems,
		FieldEstimatedTime,
		FieldRequiredBiome,
		FieldDesigner,
		FieldDropRateNote,
		FieldNotes,
	}
}

// CellValue renders the named column of a record as its export cell.
func CellValue(r Record, column string) (string, error) {
	switch column {
	case FieldTitle:
		return r.Title, nil
	case FieldDescription:
		return r.Description, nil
	case FieldCategory:
		return r.Category, nil
	case FieldPlatform:
		return JoinList(r.Platforms), nil
	case FieldVersions:
		return JoinList(r.Versions), nil
	case FieldSourceURL:
		return r.SourceURL, nil
	case FieldMaterials:
		return r.Materials, nil
	case FieldOptionalMaterials:
		return r.OptionalMaterials, nil
	case FieldTags:
		return JoinList(r.Tags), nil
	case FieldFarmableItems:
		return JoinList(r.FarmableItems), nil
	case FieldEstimatedTime:
		if r.EstimatedTime == nil {
			return "", nil
		}
		return strconv.Itoa(*r.EstimatedTime), nil
	case FieldRequiredBiome:
		return r.RequiredBiome, nil
	case FieldDesigner:
		return r.Designer, nil
	case FieldDropRateNote:
		return r.DropRateNote, nil
	case FieldNotes:
		return r.Notes, nil
	default:
		return "", fmt.Errorf("unknown column %q", column)
	}
}

// Apply sets the named field from its textual form. List fields accept
// semicolon-delimited values, and platform and versions must keep at
// least one value; estimated_time accepts a minute count or an empty
// string to unset; needs_review accepts a boolean.
func Apply(r *Record, field, value string) error {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldTitle:
		r.Title = value
	case FieldDescription:
		r.Description = value
	case FieldCategory:
		r.Category = strings.TrimSpace(value)
	case FieldPlatform:
		values := SplitList(value)
		if len(values) == 0 {
			return fmt.Errorf("platform: at least one value required")
		}
		r.Platforms = values
	case FieldVersions:
		values := SplitList(value)
		if len(values) == 0 {
			return fmt.Errorf("versions: at least one value required")
		}
		r.Versions = values
	case FieldSourceURL:
		r.SourceURL = strings.TrimSpace(value)
	case FieldMaterials:
		r.Materials = value
	case FieldOptionalMaterials:
		r.OptionalMaterials = value
	case FieldTags:
		r.Tags = SplitList(value)
	case FieldFarmableItems:
		r.FarmableItems = SplitList(value)
	case FieldEstimatedTime:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			r.EstimatedTime = nil
			return nil
		}
		minutes, err := strconv.Atoi(trimmed)
		if err != nil {
			return fmt.Errorf("estimated_time: parse %q: %w", trimmed, err)
		}
		if minutes < 0 {
			return fmt.Errorf("estimated_time: %d is negative", minutes)
		}
		r.EstimatedTime = &minutes
	case FieldRequiredBiome:
		r.RequiredBiome = value
	case FieldDesigner:
		r.Designer = value
	case FieldDropRateNote:
		r.DropRateNote = value
	case FieldNotes:
		r.Notes = value
	case FieldNeedsReview:
		flag, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("needs_review: parse %q: %w", value, err)
		}
		r.NeedsReview = flag
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}
