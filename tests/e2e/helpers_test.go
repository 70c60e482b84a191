//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"
)

// TestClient is a browser stand-in: it keeps cookies and never follows redirects.
type TestClient struct {
	*http.Client
	t         *testing.T
	csrfToken string
}

// NewTestClient creates a new test client with cookie jar
func NewTestClient(t *testing.T) *TestClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return &TestClient{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		t: t,
	}
}

type userResponse struct {
	User *struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	CSRFToken string `json:"csrfToken"`
}

// Login signs in and remembers the CSRF token
func (tc *TestClient) Login(email, password string) (*http.Response, *userResponse) {
	tc.t.Helper()
	resp := tc.Send(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password})
	defer resp.Body.Close()

	var body userResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			tc.t.Fatalf("failed to decode login response: %v", err)
		}
		tc.csrfToken = body.CSRFToken
	}
	return resp, &body
}

// Send issues a JSON request, adding the CSRF token when one is known
func (tc *TestClient) Send(method, path string, body interface{}) *http.Response {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			tc.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		tc.t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tc.csrfToken != "" && method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", tc.csrfToken)
	}

	resp, err := tc.Do(req)
	if err != nil {
		tc.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// Get issues a GET and closes the body
func (tc *TestClient) Get(path string) *http.Response {
	tc.t.Helper()
	resp := tc.Send(http.MethodGet, path, nil)
	resp.Body.Close()
	return resp
}

// GetJSON decodes a GET response into out and returns the status code
func (tc *TestClient) GetJSON(path string, out interface{}) int {
	tc.t.Helper()
	resp := tc.Send(http.MethodGet, path, nil)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			tc.t.Fatalf("failed to decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

type catalogEvent struct {
	Type       string `json:"type"`
	DocumentID string `json:"document_id"`
	Actor      string `json:"actor"`
}

// awaitEvent waits for a message with the routing key, discarding others.
func awaitEvent(t *testing.T, routingKey string) catalogEvent {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case d, ok := <-events:
			if !ok {
				t.Fatalf("event channel closed while waiting for %s", routingKey)
			}
			if d.RoutingKey != routingKey {
				continue
			}
			var event catalogEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				t.Fatalf("failed to decode event: %v", err)
			}
			return event
		case <-timeout:
			t.Fatalf("timed out waiting for %s", routingKey)
		}
	}
}
