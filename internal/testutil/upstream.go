package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Upstream is an httptest server standing in for the live data CDN.
// Documents are served by request path; unknown paths return 404.
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	docs   map[string][]byte
	status map[string]int
	hits   map[string]int
}

// NewUpstream starts an Upstream closed automatically at test cleanup.
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{
		docs:   make(map[string][]byte),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

// Set serves body at path with status 200.
func (u *Upstream) Set(path string, body []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.docs[path] = body
}

// Fail answers path with the given status code.
func (u *Upstream) Fail(path string, status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status[path] = status
}

// Hits reports how many requests reached path.
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hits[r.URL.Path]++
	status, failing := u.status[r.URL.Path]
	body, ok := u.docs[r.URL.Path]
	u.mu.Unlock()

	if failing {
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "3")
		}
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}
