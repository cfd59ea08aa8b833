package analysis

import "sync"

// Session is the explicit per-analysis context: the uploaded document,
// its extracted page texts, the current result and the page being viewed.
// It replaces ambient process-wide state; every analysis request starts
// with a single Reset before new values are stored.
type Session struct {
	mu sync.RWMutex

	filename    string
	pdfBytes    []byte
	result      *Result
	currentPage int
}

func NewSession() *Session {
	return &Session{}
}

// Reset returns the session to its initial values. Called once at the
// start of each analysis request; the previous document and result are
// discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = ""
	s.pdfBytes = nil
	s.result = nil
	s.currentPage = 0
}

func (s *Session) SetDocument(filename string, pdfBytes []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filename = filename
	s.pdfBytes = pdfBytes
}

func (s *Session) SetResult(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &res
}

func (s *Session) Document() (filename string, pdfBytes []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filename, s.pdfBytes
}

// Result returns the current analysis result, or nil when no analysis
// has completed since the last Reset.
func (s *Session) Result() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Session) SetCurrentPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = n
}

func (s *Session) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPage
}
