// Package httpserver exposes the analysis pipeline over HTTP: upload a
// patent PDF, run the synchronous analysis, browse the recovered fields,
// view pages of the source document, and download artifacts.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/patentlens/patentlens/internal/analysis"
	"github.com/patentlens/patentlens/internal/export"
	"github.com/patentlens/patentlens/internal/history"
	"github.com/patentlens/patentlens/internal/pageview"
	"github.com/patentlens/patentlens/internal/recovery"
	"github.com/patentlens/patentlens/internal/report"
	"github.com/patentlens/patentlens/internal/schema"
	"github.com/patentlens/patentlens/internal/shape"
)

const maxUploadBytes = 32 << 20

// PDFReportRenderer renders a markdown report into PDF bytes.
type PDFReportRenderer interface {
	Render(ctx context.Context, markdown string) ([]byte, error)
}

type Server struct {
	pipeline *analysis.Pipeline
	session  *analysis.Session
	store    *history.Store
	pages    *pageview.Renderer
	pdf      PDFReportRenderer
	webDir   string
}

func NewServer(pipeline *analysis.Pipeline, store *history.Store, webDir string) http.Handler {
	return newServer(pipeline, store, webDir, report.NewChromiumPDFRenderer())
}

func newServer(pipeline *analysis.Pipeline, store *history.Store, webDir string, pdf PDFReportRenderer) http.Handler {
	s := &Server{
		pipeline: pipeline,
		session:  analysis.NewSession(),
		store:    store,
		pages:    pageview.NewRenderer(),
		pdf:      pdf,
		webDir:   webDir,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/result", s.handleResult)
	mux.HandleFunc("/result/field", s.handleField)
	mux.HandleFunc("/download/json", s.handleDownloadJSON)
	mux.HandleFunc("/download/xlsx", s.handleDownloadXLSX)
	mux.HandleFunc("/report-pdf", s.handleReportPDF)
	mux.HandleFunc("/page/", s.handlePage)
	mux.HandleFunc("/descriptions", s.handleDescriptions)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/history/", s.handleHistoryRecord)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	http.ServeFile(w, r, filepath.Join(s.webDir, filepath.Clean(r.URL.Path)))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{
		"status":           "ok",
		"analysis_enabled": s.pipeline.Enabled(),
	})
}

// handleAnalyze accepts a multipart upload and runs the whole pipeline
// synchronously. The session is reset before anything else happens, so a
// failed run never leaves the previous document's result visible.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.pipeline.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "analysis is disabled: no model API credential configured")
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, 400, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, 400, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		writeError(w, 500, "failed to read uploaded file")
		return
	}
	if len(data) > maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "uploaded file too large")
		return
	}

	filename := filepath.Base(header.Filename)
	s.session.Reset()
	s.pages.Reset()
	s.session.SetDocument(filename, data)

	log.Printf("analyzing %s (%d bytes)", filename, len(data))
	res := s.pipeline.Run(r.Context(), data, filename)
	s.session.SetResult(res)

	if s.store != nil {
		if _, err := s.store.Record(filename, res.Record, res.Failed, len(res.PageTexts)); err != nil {
			log.Printf("record history for %s: %v", filename, err)
		}
	}

	writeJSON(w, 200, map[string]any{
		"filename":   filename,
		"failed":     res.Failed,
		"page_count": len(res.PageTexts),
		"warnings":   res.Warnings,
		"record":     res.Record,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	res := s.session.Result()
	if res == nil {
		writeError(w, 404, "no analysis result available")
		return
	}
	writeJSON(w, 200, map[string]any{
		"filename":   res.Filename,
		"failed":     res.Failed,
		"page_count": len(res.PageTexts),
		"warnings":   res.Warnings,
		"record":     res.Record,
	})
}

// handleField serves the field-by-field view: the fixed description for
// a dotted path plus the value found at that path, classified by shape.
func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	res := s.session.Result()
	if res == nil {
		writeError(w, 404, "no analysis result available")
		return
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		writeError(w, 400, "path query parameter is required")
		return
	}
	desc, ok := schema.FieldDescriptions[path]
	if !ok {
		desc = "No description is available for this field."
	}
	value := shape.GetByPath(res.Record, path)
	writeJSON(w, 200, map[string]any{
		"path":        path,
		"description": desc,
		"kind":        shape.Classify(value),
		"value":       value,
	})
}

func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	res := s.session.Result()
	if res == nil {
		writeError(w, 404, "no analysis result available")
		return
	}
	serveRecordJSON(w, res.Record, res.Filename)
}

func (s *Server) handleDownloadXLSX(w http.ResponseWriter, r *http.Request) {
	res := s.session.Result()
	if res == nil {
		writeError(w, 404, "no analysis result available")
		return
	}
	blob, err := export.RecordXLSX(res.Record)
	if err != nil {
		log.Printf("export xlsx: %v", err)
		writeError(w, 500, "failed to build workbook")
		return
	}
	name := baseName(res.Filename) + "_structured_data.xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(blob)
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	res := s.session.Result()
	if res == nil {
		writeError(w, 404, "no analysis result available")
		return
	}
	blob, err := s.pdf.Render(r.Context(), report.BuildMarkdown(res.Record))
	if err != nil {
		log.Printf("render report pdf: %v", err)
		writeError(w, 500, "failed to render report")
		return
	}
	name := baseName(res.Filename) + "_report.pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(blob)
}

// handlePage serves page n of the uploaded document as a single-page PDF
// for inline viewing. Path: /page/{n}, 1-based.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	_, data := s.session.Document()
	if len(data) == 0 {
		writeError(w, 404, "no document uploaded")
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/page/"), "/")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeError(w, 400, "invalid page number")
		return
	}
	blob, err := s.pages.Page(data, n)
	if err != nil {
		writeError(w, 404, err.Error())
		return
	}
	s.session.SetCurrentPage(n)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline")
	_, _ = w.Write(blob)
}

func (s *Server) handleDescriptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{
		"paths":        schema.Paths(),
		"descriptions": schema.FieldDescriptions,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, 404, "history is not enabled")
		return
	}
	entries, err := s.store.List(50)
	if err != nil {
		log.Printf("list history: %v", err)
		writeError(w, 500, "failed to list history")
		return
	}
	writeJSON(w, 200, map[string]any{"analyses": entries})
}

// handleHistoryRecord serves a stored record. Path: /history/{id}/json.
func (s *Server) handleHistoryRecord(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, 404, "history is not enabled")
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/history/"), "/")
	parts := strings.SplitN(rest, "/", 2)
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, 400, "invalid history id")
		return
	}
	entry, rec, err := s.store.Get(id)
	if err != nil {
		writeError(w, 404, "analysis not found")
		return
	}
	if rec == nil {
		writeError(w, 404, "no stored record for this analysis")
		return
	}
	serveRecordJSON(w, rec, entry.Filename)
}

// serveRecordJSON writes the record as a download named after the source
// document. Non-ASCII text stays unescaped; the files are read by people.
func serveRecordJSON(w http.ResponseWriter, rec recovery.Record, filename string) {
	name := baseName(filename) + "_structured_data.json"
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	_ = enc.Encode(rec)
}

func baseName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
