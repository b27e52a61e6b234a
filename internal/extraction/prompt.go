package extraction

import (
	"strings"

	"gleaner/internal/records"
	"gleaner/internal/taxonomy"
)

// extractionSystemPrompt captures the instructions sent with every
// extraction request. Keep updates centralized here so the field set and
// category rules are easy to tweak without hunting through call sites.
const extractionSystemPrompt = `You are an assistant that catalogs Minecraft farm tutorial videos into structured records.

You must respond ONLY with a single JSON object containing exactly these fields:

- "title": cleaned-up farm name taken from the video title
- "description": one or two sentence summary of what the farm does
- "category": one of the allowed categories listed in the user message
- "platform": list of platforms the design works on ("Java", "Bedrock")
- "versions": list of game version strings the design is confirmed for (e.g. "1.20+")
- "materials": semicolon-delimited "quantity name" entries for required materials (e.g. "64 cobblestone; 3 hoppers")
- "optional_materials": same format for optional materials, or ""
- "tags": list of short lowercase labels
- "farmable_items": list of item names the farm produces
- "estimated_time": build time in minutes as an integer, or null if unknown
- "required_biome": biome requirement, or ""
- "designer": who designed the farm if credited, or ""
- "drop_rate_note": note about drop or production rates, or ""
- "notes": anything else worth recording, or ""

Rules:

- Use only information present in the provided title and description. Do not invent quantities or rates.
- "category" MUST be chosen from the allowed list. If unsure, use "` + taxonomy.DefaultCategory + `".
- Prefer empty strings, empty lists, or null over guesses.
- Respond with the JSON object only. No prose, no code fences.`

// buildPrompt renders the per-item user message. The description is
// capped so prompt size stays bounded for very long video descriptions.
func buildPrompt(item records.RawItem, descriptionLimit int) string {
	var builder strings.Builder
	builder.WriteString("Allowed categories: ")
	builder.WriteString(strings.Join(taxonomy.Categories(), ", "))
	builder.WriteString("\n\nVideo title: ")
	builder.WriteString(strings.TrimSpace(item.Title))
	builder.WriteString("\nChannel: ")
	builder.WriteString(strings.TrimSpace(item.ChannelTitle))
	builder.WriteString("\n\nVideo description:\n")
	builder.WriteString(truncateRunes(item.Description, descriptionLimit))
	return builder.String()
}

func truncateRunes(value string, limit int) string {
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}
