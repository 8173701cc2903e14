package prc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeAPI is an httptest-backed stand-in for the remote API. Handlers are
// registered by exact path under /server and calls are counted per path.
type fakeAPI struct {
	t  *testing.T
	ts *httptest.Server

	mu       sync.Mutex
	calls    map[string]int
	handlers map[string]http.HandlerFunc
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:        t,
		calls:    make(map[string]int),
		handlers: make(map[string]http.HandlerFunc),
	}
	f.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/server")
		if path == "" {
			path = "/"
		}
		f.mu.Lock()
		f.calls[path]++
		h := f.handlers[path]
		f.mu.Unlock()
		if h == nil {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.ts.Close)
	return f
}

func (f *fakeAPI) handle(path string, h http.HandlerFunc) {
	f.mu.Lock()
	f.handlers[path] = h
	f.mu.Unlock()
}

// respond registers a handler answering with a fixed JSON value.
func (f *fakeAPI) respond(path string, v any) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(f.t, w, v)
	})
}

// fail registers a handler answering with an API error payload.
func (f *fakeAPI) fail(path string, status, code int) {
	f.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		writeJSON(f.t, w, map[string]any{"code": code, "message": "nope"})
	})
}

func (f *fakeAPI) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) client(t *testing.T, opts Options) *Client {
	t.Helper()
	opts.BaseURL = f.ts.URL
	opts.HTTP = f.ts.Client()
	c, err := New(opts)
	require.NoError(t, err)
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// testServerKey builds a syntactically valid server-key. The tag (lowercase
// letters only) keeps both the key and the derived server id unique across
// tests, since rejected keys are blacklisted process-wide.
func testServerKey(tag string) string {
	return tag + strings.Repeat("abcde", 2) + "-" + pad40(tag+"wxyz")
}

// pad40 repeats seed until the string is 40 letters long.
func pad40(seed string) string {
	out := seed
	for len(out) < 40 {
		out += seed
	}
	return out[:40]
}
