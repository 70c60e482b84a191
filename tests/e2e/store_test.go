//go:build e2e
// +build e2e

package e2e

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// fakeStore answers content store queries from canned results matched by
// substring and records every mutation it receives.
type fakeStore struct {
	mu        sync.Mutex
	results   map[string]string
	mutations []json.RawMessage
	uploads   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{results: make(map[string]string)}
}

func (fs *fakeStore) on(match, result string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.results[match] = result
}

func (fs *fakeStore) mutationCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.mutations)
}

func (fs *fakeStore) lastMutation() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if len(fs.mutations) == 0 {
		return ""
	}
	return string(fs.mutations[len(fs.mutations)-1])
}

func (fs *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.Contains(r.URL.Path, "/data/query/"):
		query := r.URL.Query().Get("query")
		result := "null"
		// Longest match wins so count queries don't hit list results.
		best := -1
		for match, res := range fs.results {
			if strings.Contains(query, match) && len(match) > best {
				result, best = res, len(match)
			}
		}
		fmt.Fprintf(w, `{"result":%s}`, result)

	case strings.Contains(r.URL.Path, "/data/mutate/"):
		body, _ := io.ReadAll(r.Body)
		fs.mutations = append(fs.mutations, body)
		fmt.Fprintf(w, `{"transactionId":"tx-%d","results":[{"id":"doc-%d","operation":"update"}]}`,
			len(fs.mutations), len(fs.mutations))

	case strings.Contains(r.URL.Path, "/assets/images/"):
		fs.uploads++
		fmt.Fprintf(w, `{"document":{"_id":"image-%d","url":"https://cdn.example.com/%d.png"}}`, fs.uploads, fs.uploads)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
