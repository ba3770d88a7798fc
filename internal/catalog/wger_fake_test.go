package catalog_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// fakeWger serves muscle and exerciseinfo pages of pageSize items, linked through next urls.
type fakeWger struct {
	server    *httptest.Server
	muscles   []map[string]any
	exercises []map[string]any
	pageSize  int
	failWith  int
	requests  atomic.Int32
	language  atomic.Value
}

func newFakeWger(t *testing.T, pageSize int, muscles, exercises []map[string]any) *fakeWger {
	t.Helper()
	f := &fakeWger{
		muscles:   muscles,
		exercises: exercises,
		pageSize:  pageSize,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/muscle/", func(w http.ResponseWriter, r *http.Request) {
		f.servePage(w, r, "/api/v2/muscle/", f.muscles)
	})
	mux.HandleFunc("/api/v2/exerciseinfo/", func(w http.ResponseWriter, r *http.Request) {
		f.language.Store(r.URL.Query().Get("language"))
		f.servePage(w, r, "/api/v2/exerciseinfo/", f.exercises)
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeWger) servePage(w http.ResponseWriter, r *http.Request, path string, items []map[string]any) {
	f.requests.Add(1)
	if f.failWith != 0 {
		http.Error(w, "boom", f.failWith)
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	end := offset + f.pageSize
	if end > len(items) {
		end = len(items)
	}

	var next *string
	if end < len(items) {
		q := r.URL.Query()
		q.Set("offset", strconv.Itoa(end))
		n := fmt.Sprintf("%s%s?%s", f.server.URL, path, q.Encode())
		next = &n
	}

	page := map[string]any{
		"count":    len(items),
		"next":     next,
		"previous": nil,
		"results":  items[offset:end],
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(page)
}
