// Package report renders an extraction record as a human-readable
// document: a sectioned markdown report, and a printable PDF produced by
// converting that markdown to HTML and printing it through headless
// Chromium.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/patentlens/patentlens/internal/recovery"
	"github.com/patentlens/patentlens/internal/shape"
)

// Sections appear in reading order; remaining top-level keys follow
// alphabetically so nothing the model produced is silently dropped.
var sectionOrder = []string{
	"patent_info",
	"document_summary_for_user",
	"material_description",
	"morphology_structure",
	"physical_chemical_properties_specific",
	"preparation_method_summary",
	"application_details",
	"key_claimed_advantages_or_problems_solved_by_invention",
	"representative_performance_data_from_examples_or_figures",
}

var skipInBody = map[string]bool{
	"source_file_name":     true,
	"language_of_document": true,
}

// BuildMarkdown renders the record as a markdown report. Failure records
// are rendered with their error and diagnostics instead of field sections.
func BuildMarkdown(rec recovery.Record) string {
	var b strings.Builder
	title, _ := rec["source_file_name"].(string)
	if title == "" {
		title = "Patent Extraction Report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if lang, ok := rec["language_of_document"].(string); ok && lang != "" {
		fmt.Fprintf(&b, "**Document language:** %s\n\n", lang)
	}

	if errMsg, ok := rec["error"].(string); ok {
		fmt.Fprintf(&b, "## Analysis failed\n\n%s\n\n", errMsg)
		if raw, ok := rec["raw_response"].(string); ok && raw != "" {
			fmt.Fprintf(&b, "### Raw model reply\n\n```\n%s\n```\n\n", clip(raw, 3000))
		}
		if cand, ok := rec["extracted_json_to_parse"].(string); ok && cand != "" {
			fmt.Fprintf(&b, "### Candidate JSON\n\n```\n%s\n```\n\n", clip(cand, 3000))
		}
		return b.String()
	}

	seen := map[string]bool{}
	for _, key := range sectionOrder {
		if v, ok := rec[key]; ok {
			writeSection(&b, key, v)
		}
		seen[key] = true
	}
	var rest []string
	for key := range rec {
		if !seen[key] && !skipInBody[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		writeSection(&b, key, rec[key])
	}
	return b.String()
}

func writeSection(b *strings.Builder, key string, v any) {
	fmt.Fprintf(b, "## %s\n\n", titleize(key))
	writeValue(b, v, 0)
	b.WriteString("\n")
}

// writeValue renders a value by structural shape. Object lists become
// bullet groups, scalar lists become comma-joined items, objects become
// labeled bullets, scalars print as-is.
func writeValue(b *strings.Builder, v any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch shape.Classify(v) {
	case shape.Absent:
		fmt.Fprintf(b, "%s_No information._\n", indent)
	case shape.Scalar:
		fmt.Fprintf(b, "%s%s\n", indent, scalarString(v))
	case shape.ScalarList:
		items := v.([]any)
		if len(items) == 0 {
			fmt.Fprintf(b, "%s_No information._\n", indent)
			return
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, scalarString(it))
		}
		fmt.Fprintf(b, "%s%s\n", indent, strings.Join(parts, ", "))
	case shape.Object:
		obj := v.(map[string]any)
		for _, k := range sortedKeys(obj) {
			child := obj[k]
			if shape.Classify(child) == shape.Scalar {
				fmt.Fprintf(b, "%s- **%s:** %s\n", indent, titleize(k), scalarString(child))
				continue
			}
			fmt.Fprintf(b, "%s- **%s:**\n", indent, titleize(k))
			writeValue(b, child, depth+1)
		}
	case shape.ObjectList, shape.MixedList:
		for i, item := range v.([]any) {
			fmt.Fprintf(b, "%s- Item %d\n", indent, i+1)
			writeValue(b, item, depth+1)
		}
	}
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return "_No information._"
	case string:
		if t == "" {
			return "_No information._"
		}
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func titleize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "\n[clipped]"
}
