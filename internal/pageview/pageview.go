// Package pageview serves single pages of an uploaded PDF for inline
// viewing. Extracting a page is a pure function of (document bytes, page
// index), so results are cached keyed on the document digest and page.
package pageview

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type cacheKey struct {
	digest [sha256.Size]byte
	page   int
}

type Renderer struct {
	mu    sync.Mutex
	cache map[cacheKey][]byte
}

func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[cacheKey][]byte)}
}

// Page returns a single-page PDF containing page n (1-based) of the
// document. Identical inputs are served from cache.
func (r *Renderer) Page(data []byte, n int) ([]byte, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid page number %d", n)
	}
	key := cacheKey{digest: sha256.Sum256(data), page: n}

	r.mu.Lock()
	cached, ok := r.cache[key]
	r.mu.Unlock()
	if ok {
		return cached, nil
	}

	total, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if n > total {
		return nil, fmt.Errorf("page %d out of range (document has %d)", n, total)
	}

	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(n)}, nil); err != nil {
		return nil, fmt.Errorf("extract page %d: %w", n, err)
	}

	out := buf.Bytes()
	r.mu.Lock()
	r.cache[key] = out
	r.mu.Unlock()
	return out, nil
}

// Reset drops all cached pages, typically when a new document replaces
// the previous one.
func (r *Renderer) Reset() {
	r.mu.Lock()
	r.cache = make(map[cacheKey][]byte)
	r.mu.Unlock()
}
