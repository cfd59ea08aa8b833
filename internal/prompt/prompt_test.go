package prompt

import (
	"strings"
	"testing"
)

func TestBuildContainsDocumentAndMarkers(t *testing.T) {
	p := Build("the full patent body", "sample.pdf")

	begin := strings.Index(p, beginMarker)
	body := strings.Index(p, "the full patent body")
	end := strings.Index(p, endMarker)
	if begin < 0 || body < 0 || end < 0 {
		t.Fatalf("prompt missing markers or body: begin=%d body=%d end=%d", begin, body, end)
	}
	if !(begin < body && body < end) {
		t.Fatalf("document text not between markers: begin=%d body=%d end=%d", begin, body, end)
	}
}

func TestBuildPinsFilename(t *testing.T) {
	p := Build("text", "my doc (v2).pdf")
	if !strings.Contains(p, `"my doc (v2).pdf"`) {
		t.Fatal("filename directive missing or unquoted")
	}
	if !strings.Contains(p, "source_file_name") {
		t.Fatal("filename field not named in instructions")
	}
}

func TestBuildAsksForFencedJSON(t *testing.T) {
	p := Build("text", "a.pdf")
	if !strings.Contains(p, "```json") {
		t.Fatal("prompt does not request a fenced JSON reply")
	}
}

func TestBuildSchemaFields(t *testing.T) {
	p := Build("text", "a.pdf")
	for _, field := range []string{
		"patent_info",
		"material_description",
		"preparation_method_summary",
		"document_summary_for_user",
		"language_of_document",
	} {
		if !strings.Contains(p, field) {
			t.Fatalf("schema template missing field %q", field)
		}
	}
}
