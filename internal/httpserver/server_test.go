package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/patentlens/patentlens/internal/analysis"
	"github.com/patentlens/patentlens/internal/history"
	"github.com/patentlens/patentlens/internal/llm"
	"github.com/patentlens/patentlens/internal/pdftext/pdftest"
)

type fakeCaller struct {
	reply llm.Reply
	err   error
}

func (f *fakeCaller) Generate(ctx context.Context, prompt string) (llm.Reply, error) {
	return f.reply, f.err
}

type fakePDFRenderer struct{}

func (fakePDFRenderer) Render(ctx context.Context, markdown string) ([]byte, error) {
	return []byte("%PDF-fake " + markdown[:min(len(markdown), 20)]), nil
}

func newTestServer(t *testing.T, caller llm.Caller) (http.Handler, *history.Store) {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return newServer(analysis.NewPipeline(caller), store, t.TempDir(), fakePDFRenderer{}), store
}

func uploadPDF(t *testing.T, h http.Handler, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rr.Body.String())
	}
	return payload
}

func successReply() llm.Reply {
	return llm.Reply{Text: "```json\n{\"patent_info\": {\"title_english\": \"Cathode\"}}\n```"}
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	payload := decodeJSON(t, rr)
	if payload["analysis_enabled"] != true {
		t.Fatalf("analysis_enabled = %v", payload["analysis_enabled"])
	}
}

func TestHealthDisabled(t *testing.T) {
	h, _ := newTestServer(t, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if decodeJSON(t, rr)["analysis_enabled"] != false {
		t.Fatal("analysis should be reported disabled")
	}
}

func TestAnalyze(t *testing.T) {
	h, store := newTestServer(t, &fakeCaller{reply: successReply()})
	doc := pdftest.MakePDF([]string{"sodium cathode text", "page two"})

	rr := uploadPDF(t, h, "cathode.pdf", doc)
	if rr.Code != 200 {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	payload := decodeJSON(t, rr)
	if payload["failed"] != false {
		t.Fatalf("failed = %v", payload["failed"])
	}
	if payload["page_count"] != float64(2) {
		t.Fatalf("page_count = %v", payload["page_count"])
	}
	rec := payload["record"].(map[string]any)
	if rec["source_file_name"] != "cathode.pdf" {
		t.Fatalf("source_file_name = %v", rec["source_file_name"])
	}

	entries, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != history.StatusCompleted {
		t.Fatalf("history entries = %+v", entries)
	}
}

func TestAnalyzeRequiresPost(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/analyze", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAnalyzeDisabled(t *testing.T) {
	h, _ := newTestServer(t, nil)
	rr := uploadPDF(t, h, "doc.pdf", pdftest.MakePDF([]string{"text"}))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAnalyzeUnopenableStillRecords(t *testing.T) {
	h, store := newTestServer(t, &fakeCaller{reply: successReply()})
	rr := uploadPDF(t, h, "junk.pdf", []byte("not a pdf"))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	payload := decodeJSON(t, rr)
	if payload["failed"] != true {
		t.Fatal("expected a failed analysis")
	}

	entries, err := store.List(10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != history.StatusFailed {
		t.Fatalf("history entries = %+v", entries)
	}
}

func TestResultLifecycle(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/result", nil))
	if rr.Code != 404 {
		t.Fatalf("status before analysis = %d", rr.Code)
	}

	uploadPDF(t, h, "doc.pdf", pdftest.MakePDF([]string{"page text"}))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/result", nil))
	if rr.Code != 200 {
		t.Fatalf("status after analysis = %d", rr.Code)
	}
	if decodeJSON(t, rr)["filename"] != "doc.pdf" {
		t.Fatal("result filename mismatch")
	}
}

func TestFieldView(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	uploadPDF(t, h, "doc.pdf", pdftest.MakePDF([]string{"page text"}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/result/field?path=patent_info.title_english", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	payload := decodeJSON(t, rr)
	if payload["value"] != "Cathode" {
		t.Fatalf("value = %v", payload["value"])
	}
	if payload["kind"] != "scalar" {
		t.Fatalf("kind = %v", payload["kind"])
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/result/field", nil))
	if rr.Code != 400 {
		t.Fatalf("status without path = %d", rr.Code)
	}
}

func TestDownloadJSON(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	uploadPDF(t, h, "my patent.pdf", pdftest.MakePDF([]string{"page text"}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download/json", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	cd := rr.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `"my patent_structured_data.json"`) {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.Contains(rr.Body.String(), "    \"patent_info\"") {
		t.Fatal("body not indented with four spaces")
	}
}

func TestDownloadXLSX(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	uploadPDF(t, h, "doc.pdf", pdftest.MakePDF([]string{"page text"}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/download/xlsx", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	if rr.Body.Len() == 0 {
		t.Fatal("empty workbook")
	}
}

func TestReportPDF(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	uploadPDF(t, h, "doc.pdf", pdftest.MakePDF([]string{"page text"}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/report-pdf", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-fake")) {
		t.Fatal("fake renderer output missing")
	}
	cd := rr.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `"doc_report.pdf"`) {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestPageEndpoint(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/page/1", nil))
	if rr.Code != 404 {
		t.Fatalf("status without document = %d", rr.Code)
	}

	uploadPDF(t, h, "doc.pdf", pdftest.MakePDF([]string{"one", "two"}))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/page/2", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content type = %q", ct)
	}

	for _, path := range []string{"/page/0", "/page/notanumber", "/page/99"} {
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code == 200 {
			t.Fatalf("expected an error for %s", path)
		}
	}
}

func TestDescriptions(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/descriptions", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	payload := decodeJSON(t, rr)
	descs := payload["descriptions"].(map[string]any)
	if _, ok := descs["patent_info"]; !ok {
		t.Fatal("descriptions missing patent_info")
	}
}

func TestHistoryEndpoints(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	uploadPDF(t, h, "doc.pdf", pdftest.MakePDF([]string{"page text"}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	analyses := decodeJSON(t, rr)["analyses"].([]any)
	if len(analyses) != 1 {
		t.Fatalf("got %d analyses, want 1", len(analyses))
	}
	id := int64(analyses[0].(map[string]any)["id"].(float64))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history/"+strconv.FormatInt(id, 10)+"/json", nil))
	if rr.Code != 200 {
		t.Fatalf("status for stored record = %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "source_file_name") {
		t.Fatal("stored record missing source_file_name")
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/history/notanumber/json", nil))
	if rr.Code != 400 {
		t.Fatalf("status for bad id = %d", rr.Code)
	}
}

func TestNewDocumentReplacesResult(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: successReply()})
	uploadPDF(t, h, "first.pdf", pdftest.MakePDF([]string{"first text"}))
	uploadPDF(t, h, "second.pdf", pdftest.MakePDF([]string{"second text"}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/result", nil))
	if decodeJSON(t, rr)["filename"] != "second.pdf" {
		t.Fatal("result not replaced by the newer analysis")
	}
}
