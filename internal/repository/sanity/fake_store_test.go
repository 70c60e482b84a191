package sanity

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront-admin/internal/config"
	"storefront-admin/internal/contentstore"
)

// fakeStore is an in-process stand-in for the content store HTTP API.
// Queries are answered from canned results matched by substring.
type fakeStore struct {
	t *testing.T

	mu        sync.Mutex
	results   []cannedResult
	queries   []recordedQuery
	mutations [][]map[string]json.RawMessage
	uploads   []string

	mutateStatus int
	mutateBody   string
}

type cannedResult struct {
	match  string
	result string
}

type recordedQuery struct {
	Query  string
	Params map[string]string
}

func newFakeStore(t *testing.T) (*fakeStore, *contentstore.Client) {
	t.Helper()
	fs := &fakeStore{t: t}
	server := httptest.NewServer(fs)
	t.Cleanup(server.Close)

	client := contentstore.NewClient(config.ContentStoreConfig{
		URL:        server.URL,
		Dataset:    "test",
		APIVersion: "2024-01-01",
		Token:      "token",
		Timeout:    2 * time.Second,
	})
	return fs, client
}

// on registers the raw JSON result returned for queries containing match.
func (fs *fakeStore) on(match, result string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.results = append(fs.results, cannedResult{match: match, result: result})
}

func (fs *fakeStore) failMutations(status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.mutateStatus = status
	fs.mutateBody = body
}

func (fs *fakeStore) recordedQueries() []recordedQuery {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]recordedQuery(nil), fs.queries...)
}

func (fs *fakeStore) recordedMutations() [][]map[string]json.RawMessage {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([][]map[string]json.RawMessage(nil), fs.mutations...)
}

func (fs *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	switch {
	case strings.Contains(r.URL.Path, "/data/query/"):
		q := r.URL.Query()
		rec := recordedQuery{Query: q.Get("query"), Params: map[string]string{}}
		for k, v := range q {
			if strings.HasPrefix(k, "$") {
				rec.Params[strings.TrimPrefix(k, "$")] = v[0]
			}
		}
		fs.queries = append(fs.queries, rec)

		result := "null"
		for _, c := range fs.results {
			if strings.Contains(rec.Query, c.match) {
				result = c.result
				break
			}
		}
		fmt.Fprintf(w, `{"result":%s}`, result)

	case strings.Contains(r.URL.Path, "/data/mutate/"):
		var body struct {
			Mutations []map[string]json.RawMessage `json:"mutations"`
		}
		raw, err := io.ReadAll(r.Body)
		if err == nil {
			err = json.Unmarshal(raw, &body)
		}
		if err != nil {
			fs.t.Errorf("bad mutate body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		fs.mutations = append(fs.mutations, body.Mutations)

		if fs.mutateStatus != 0 {
			w.WriteHeader(fs.mutateStatus)
			w.Write([]byte(fs.mutateBody))
			return
		}
		results := make([]string, 0, len(body.Mutations))
		for i := range body.Mutations {
			results = append(results, fmt.Sprintf(`{"id":"doc-%d","operation":"create"}`, i+1))
		}
		fmt.Fprintf(w, `{"transactionId":"tx-%d","results":[%s]}`, len(fs.mutations), strings.Join(results, ","))

	case strings.Contains(r.URL.Path, "/assets/images/"):
		fs.uploads = append(fs.uploads, r.URL.Query().Get("filename"))
		fmt.Fprintf(w, `{"document":{"_id":"image-%d-png","url":"https://cdn.example.com/%d.png"}}`, len(fs.uploads), len(fs.uploads))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}
