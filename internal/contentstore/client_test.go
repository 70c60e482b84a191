package contentstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.ContentStoreConfig{
		URL:        server.URL + "/",
		Dataset:    "production",
		APIVersion: "2024-01-01",
		Token:      "sk-test",
		Timeout:    2 * time.Second,
	})
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(config.ContentStoreConfig{ProjectID: "abc123", Dataset: "staging"})

	assert.Equal(t, "https://abc123.api.sanity.io", c.baseURL)
	assert.Equal(t, config.DefaultContentStoreAPIVersion, c.apiVersion)
	assert.Equal(t, config.DefaultContentStoreTimeout, c.httpClient.Timeout)
	assert.Equal(t, "staging", c.Dataset())
}

func TestFetch_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2024-01-01/data/query/production", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, `*[_type == "product" && _id == $id][0]`, r.URL.Query().Get("query"))
		assert.Equal(t, `"p1"`, r.URL.Query().Get("$id"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ms":3,"query":"...","result":{"_id":"p1","productName":"Lamp"}}`))
	})

	var doc struct {
		ID   string `json:"_id"`
		Name string `json:"productName"`
	}
	err := c.Fetch(context.Background(), `*[_type == "product" && _id == $id][0]`, map[string]any{"id": "p1"}, &doc)

	require.NoError(t, err)
	assert.Equal(t, "p1", doc.ID)
	assert.Equal(t, "Lamp", doc.Name)
}

func TestFetch_NullResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":null}`))
	})

	var doc *struct{ ID string }
	err := c.Fetch(context.Background(), `*[_id == "missing"][0]`, nil, &doc)

	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestFetch_NumericParam(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("$limit"))
		w.Write([]byte(`{"result":3}`))
	})

	var count int
	require.NoError(t, c.Fetch(context.Background(), `count(*[_type == "order"][0...$limit])`, map[string]any{"limit": 5}, &count))
	assert.Equal(t, 3, count)
}

func TestFetch_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"expected ']' following expression","type":"queryParseError"}}`))
	})

	err := c.Fetch(context.Background(), `*[`, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "queryParseError", apiErr.Type)
	assert.Contains(t, apiErr.Error(), "expected ']'")
	assert.False(t, IsNotFound(err))
}

func TestFetch_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	})

	err := c.Fetch(context.Background(), `now()`, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestFetch_NoRetry(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := c.Fetch(context.Background(), `now()`, nil, nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":null}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Fetch(ctx, `now()`, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "now()", r.URL.Query().Get("query"))
		w.Write([]byte(`{"result":"2026-03-01T12:00:00Z"}`))
	})

	assert.NoError(t, c.Ping(context.Background()))
}

// decodeMutations reads the mutate request body.
func decodeMutations(t *testing.T, r *http.Request) []map[string]json.RawMessage {
	t.Helper()
	var body struct {
		Mutations []map[string]json.RawMessage `json:"mutations"`
	}
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body))
	return body.Mutations
}

func TestCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-01-01/data/mutate/production", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("returnDocuments"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		mutations := decodeMutations(t, r)
		require.Len(t, mutations, 1)
		assert.JSONEq(t, `{"_type":"category","name":"Lamps","slug":"lamps"}`, string(mutations[0]["create"]))

		w.Write([]byte(`{"transactionId":"tx1","results":[{"id":"c1","operation":"create","document":{"_id":"c1","name":"Lamps"}}]}`))
	})

	var created struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	}
	id, err := c.Create(context.Background(), map[string]any{"_type": "category", "name": "Lamps", "slug": "lamps"}, &created)

	require.NoError(t, err)
	assert.Equal(t, "c1", id)
	assert.Equal(t, "Lamps", created.Name)
}

func TestCreate_NoResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transactionId":"tx1","results":[]}`))
	})

	_, err := c.Create(context.Background(), map[string]any{"_type": "category"}, nil)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestDelete(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mutations := decodeMutations(t, r)
		require.Len(t, mutations, 1)
		assert.JSONEq(t, `{"id":"o1"}`, string(mutations[0]["delete"]))
		w.Write([]byte(`{"transactionId":"tx2","results":[{"id":"o1","operation":"delete"}]}`))
	})

	assert.NoError(t, c.Delete(context.Background(), "o1"))
}

func TestDelete_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not Found","message":"document not found","statusCode":404}`))
	})

	err := c.Delete(context.Background(), "missing")

	assert.True(t, IsNotFound(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "document not found", apiErr.Description)
}

func TestPatch_Commit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mutations := decodeMutations(t, r)
		require.Len(t, mutations, 1)
		assert.JSONEq(t,
			`{"id":"o1","set":{"shipmentStatus":"shipped","trackingNumber":"TRK1"},"unset":["estimatedDeliveryDate"]}`,
			string(mutations[0]["patch"]))
		w.Write([]byte(`{"transactionId":"tx3","results":[{"id":"o1","operation":"update","document":{"_id":"o1","shipmentStatus":"shipped"}}]}`))
	})

	var order struct {
		Status string `json:"shipmentStatus"`
	}
	err := c.Patch("o1").
		Set(map[string]any{"shipmentStatus": "shipped"}).
		Set(map[string]any{"trackingNumber": "TRK1"}).
		Unset("estimatedDeliveryDate").
		Commit(context.Background(), &order)

	require.NoError(t, err)
	assert.Equal(t, "shipped", order.Status)
}

func TestPatch_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty patch must not reach the server")
	})

	err := c.Patch("o1").Commit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyMutation)
}

func TestTransaction_Commit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mutations := decodeMutations(t, r)
		require.Len(t, mutations, 3)
		assert.Contains(t, mutations[0], "delete")
		assert.Contains(t, mutations[1], "delete")
		assert.Contains(t, mutations[2], "patch")
		w.Write([]byte(`{"transactionId":"tx4","results":[{"id":"r1","operation":"delete"},{"id":"p1","operation":"delete"},{"id":"c1","operation":"update"}]}`))
	})

	tx := c.Transaction().
		Delete("r1").
		Delete("p1").
		Patch(c.Patch("c1").Set(map[string]any{"name": "Lamps"}))
	assert.Equal(t, 3, tx.Len())

	result, err := tx.Commit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tx4", result.TransactionID)
	assert.Len(t, result.Results, 3)
}

func TestTransaction_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty transaction must not reach the server")
	})

	_, err := c.Transaction().Commit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyMutation)
}

func TestUploadImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2024-01-01/assets/images/production", r.URL.Path)
		assert.Equal(t, "lamp.png", r.URL.Query().Get("filename"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

		w.Write([]byte(`{"document":{"_id":"image-abc-10x10-png","url":"https://cdn.example.com/abc.png"}}`))
	})

	asset, err := c.UploadImage(context.Background(), "lamp.png", "image/png", []byte{0x89, 'P', 'N', 'G'})

	require.NoError(t, err)
	assert.Equal(t, "image-abc-10x10-png", asset.ID)
	assert.Equal(t, "https://cdn.example.com/abc.png", asset.URL)
}

func TestUploadImage_MissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"document":{}}`))
	})

	_, err := c.UploadImage(context.Background(), "x.png", "", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestAPIError_Message(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"detailed", 409, `{"error":{"description":"Document exists","type":"mutationError"}}`, "content store returned status 409 (mutationError): Document exists"},
		{"plain", 401, `{"error":"Unauthorized","message":"Session not found"}`, "content store returned status 401 (Unauthorized): Session not found"},
		{"not_json", 502, `bad gateway`, "content store returned status 502: bad gateway"},
		{"empty", 500, ``, "content store returned status 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, newAPIError(tt.status, []byte(tt.body)).Error())
		})
	}
}
