// Package recovery turns a free-text model reply into a structured
// extraction record. Model replies are expected to contain a JSON object
// but are not guaranteed to contain only that object, so every step is
// defensive: each failure mode is tagged and keeps the raw material a
// human needs to debug a bad extraction.
package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Record is the recovered structured object. Beyond the three backfilled
// bookkeeping fields, all content is opaque pass-through from the model.
type Record map[string]any

// Kind classifies a recovery failure.
type Kind string

const (
	KindEmptyResponse  Kind = "empty_response"
	KindNoJSONBlock    Kind = "no_json_block_found"
	KindJSONSyntax     Kind = "json_syntax_error"
	KindUnparsableType Kind = "unparsable_type"
)

const (
	jsonFenceOpen  = "```json"
	jsonFenceClose = "```"

	// How much of the source document the language heuristic inspects.
	langDetectPrefixRunes = 2000

	langEnglish    = "English (Auto-Detected)"
	langNonEnglish = "Non-English (Auto-Detected)"
	langUnknown    = "Unknown"

	// SummarySentinel marks a record whose summary the model did not produce.
	SummarySentinel = "Summary was not generated."
)

// Failure describes why a reply could not be recovered. RawReply and
// Candidate are diagnostic artifacts; Candidate is empty when no JSON
// candidate was ever isolated.
type Failure struct {
	Kind      Kind
	Message   string
	RawReply  string
	Candidate string
	cause     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("recovery failed (%s): %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.cause }

// FailureRecord converts the failure into the error mapping surfaced to
// callers: always error, source_file_name and an Unknown language, plus
// whichever diagnostic artifacts exist for this failure kind.
func (f *Failure) FailureRecord(filename string) Record {
	rec := Record{
		"error":                f.Message,
		"source_file_name":     filename,
		"language_of_document": langUnknown,
	}
	if f.RawReply != "" {
		rec["raw_response"] = f.RawReply
	}
	if f.Candidate != "" {
		rec["extracted_json_to_parse"] = f.Candidate
	}
	return rec
}

// Recover extracts a JSON object from raw, parses it and backfills the
// required bookkeeping fields. filename is the authoritative name of the
// analyzed input; sourceText is the extracted document text used by the
// language heuristic. The returned Failure is nil on success.
func Recover(raw, filename, sourceText string) (Record, *Failure) {
	if strings.TrimSpace(raw) == "" {
		return nil, &Failure{
			Kind:     KindEmptyResponse,
			Message:  "model reply is empty",
			RawReply: raw,
		}
	}

	candidate, found := extractFencedJSON(raw)
	if !found {
		// No fence: accept the whole reply only when it structurally
		// looks like an object.
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
			return nil, &Failure{
				Kind:     KindNoJSONBlock,
				Message:  "model reply contains no fenced JSON block and is not itself a JSON object",
				RawReply: raw,
			}
		}
		candidate = trimmed
	}

	var parsed any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		kind := KindJSONSyntax
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			kind = KindUnparsableType
		}
		return nil, &Failure{
			Kind:      kind,
			Message:   fmt.Sprintf("failed to parse extracted JSON: %v", err),
			RawReply:  raw,
			Candidate: candidate,
			cause:     err,
		}
	}

	rec, ok := parsed.(map[string]any)
	if !ok {
		// A bare list or scalar is well-formed JSON but useless here;
		// treat it the same as malformed.
		return nil, &Failure{
			Kind:      KindJSONSyntax,
			Message:   "extracted JSON is not an object",
			RawReply:  raw,
			Candidate: candidate,
		}
	}

	backfill(rec, filename, sourceText)
	return rec, nil
}

// extractFencedJSON scans raw for a ```json fence and returns the trimmed
// text between it and the next closing fence. A fence whose body is empty
// counts as not found, matching the whole-reply fallback behavior.
func extractFencedJSON(raw string) (string, bool) {
	start := strings.Index(raw, jsonFenceOpen)
	if start < 0 {
		return "", false
	}
	body := raw[start+len(jsonFenceOpen):]
	end := strings.Index(body, jsonFenceClose)
	if end < 0 {
		return "", false
	}
	candidate := strings.TrimSpace(body[:end])
	if candidate == "" {
		return "", false
	}
	return candidate, true
}

func backfill(rec Record, filename, sourceText string) {
	// The filename is authoritative; the model is never trusted for it.
	if name, ok := rec["source_file_name"].(string); !ok || name != filename {
		rec["source_file_name"] = filename
	}
	if isEmptyString(rec["language_of_document"]) {
		rec["language_of_document"] = detectLanguage(sourceText)
	}
	if isEmptyString(rec["document_summary_for_user"]) {
		rec["document_summary_for_user"] = SummarySentinel
	}
}

func isEmptyString(v any) bool {
	s, ok := v.(string)
	return !ok || s == ""
}

// detectLanguage is a crude best-effort guess: any alphabetic rune above
// ASCII in the leading text marks the document non-English. Accented-Latin
// European text false-positives; stray symbols do not, since only letters
// count. Kept as-is rather than pulling in real language detection.
func detectLanguage(sourceText string) string {
	n := 0
	for _, r := range sourceText {
		if n >= langDetectPrefixRunes {
			break
		}
		n++
		if r > unicode.MaxASCII && unicode.IsLetter(r) {
			return langNonEnglish
		}
	}
	return langEnglish
}
