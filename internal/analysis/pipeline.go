// Package analysis runs the synchronous extraction pipeline for one
// uploaded document: text extraction, prompt assembly, a single model
// invocation, and response recovery. Every stage fault is converted into
// a tagged failure record; no error escapes the request boundary.
package analysis

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/patentlens/patentlens/internal/llm"
	"github.com/patentlens/patentlens/internal/pdftext"
	"github.com/patentlens/patentlens/internal/prompt"
	"github.com/patentlens/patentlens/internal/recovery"
)

// Result is the terminal outcome of one analysis request. Record is
// always non-nil: either the recovered extraction or a failure mapping
// with an "error" key and whatever diagnostics the failing stage left.
type Result struct {
	Filename  string
	PageTexts []string
	Warnings  []string
	Record    recovery.Record
	Failed    bool
}

type Pipeline struct {
	caller llm.Caller
}

func NewPipeline(caller llm.Caller) *Pipeline {
	return &Pipeline{caller: caller}
}

// Enabled reports whether a model caller was configured. Without one the
// pipeline cannot run and uploads are viewable only.
func (p *Pipeline) Enabled() bool { return p.caller != nil }

// Run executes the pipeline sequentially for one document. There is no
// automatic retry at any stage; a failure is terminal for this request.
func (p *Pipeline) Run(ctx context.Context, data []byte, filename string) Result {
	res := Result{Filename: filename}

	if p.caller == nil {
		res.Failed = true
		res.Record = failureRecord("Analysis is disabled: no model API credential is configured.", filename)
		return res
	}

	ext, err := pdftext.Extract(data)
	res.PageTexts = ext.PageTexts
	res.Warnings = ext.Warnings
	for _, w := range ext.Warnings {
		log.Printf("analysis %s: %s", filename, w)
	}
	if err != nil {
		res.Failed = true
		res.Record = failureRecord("Failed to open document as PDF: "+err.Error(), filename)
		return res
	}
	if !hasText(ext.PageTexts) {
		res.Failed = true
		res.Record = failureRecord("Failed to extract text from PDF.", filename)
		return res
	}

	reply, err := p.caller.Generate(ctx, prompt.Build(ext.FullText, filename))
	if err != nil {
		res.Failed = true
		res.Record = invocationFailureRecord(err, filename)
		return res
	}

	rec, failure := recovery.Recover(reply.Text, filename, ext.FullText)
	if failure != nil {
		log.Printf("analysis %s: %v", filename, failure)
		res.Failed = true
		res.Record = failure.FailureRecord(filename)
		return res
	}

	res.Record = rec
	return res
}

func failureRecord(msg, filename string) recovery.Record {
	return recovery.Record{
		"error":                msg,
		"source_file_name":     filename,
		"language_of_document": "Unknown",
	}
}

// invocationFailureRecord maps the invoker's error taxonomy onto the
// failure mapping, keeping endpoint diagnostics when the call completed
// without usable content.
func invocationFailureRecord(err error, filename string) recovery.Record {
	var empty *llm.EmptyReplyError
	if errors.As(err, &empty) {
		rec := failureRecord("Invalid or empty content from model for structured data extraction.", filename)
		if empty.FinishReason != "" {
			rec["finish_reason"] = empty.FinishReason
		}
		if len(empty.SafetyRatings) > 0 {
			rec["safety_ratings"] = empty.SafetyRatings
		}
		return rec
	}
	return failureRecord("API call failed: "+err.Error(), filename)
}

// hasText reports whether any page produced non-whitespace text. The
// concatenated full text always carries page markers, so it cannot be
// used for this check.
func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
