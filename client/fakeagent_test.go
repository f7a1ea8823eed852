package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeResponse struct {
	Status      int
	ContentType string
	Body        string
}

type recordedRequest struct {
	Path      string
	Body      map[string]interface{}
	RequestID string
}

// fakeAgent serves the wallet RPCs of an agent. Updates are served from a
// queue of responses, then from the fallback.
type fakeAgent struct {
	*httptest.Server

	mu       sync.Mutex
	updates  []fakeResponse
	fallback fakeResponse
	routes   map[string]fakeResponse
	froms    []uint64
	requests []recordedRequest
}

func newFakeAgent(t *testing.T, updates ...fakeResponse) *fakeAgent {
	t.Helper()
	a := &fakeAgent{
		updates:  updates,
		fallback: fakeResponse{Status: http.StatusOK, ContentType: "application/json", Body: "[]"},
		routes:   map[string]fakeResponse{},
	}
	a.Server = httptest.NewServer(http.HandlerFunc(a.serve))
	t.Cleanup(a.Close)
	return a
}

func (a *fakeAgent) serve(w http.ResponseWriter, req *http.Request) {
	b, _ := io.ReadAll(req.Body)
	body := map[string]interface{}{}
	_ = json.Unmarshal(b, &body)

	a.mu.Lock()
	a.requests = append(a.requests, recordedRequest{
		Path:      req.URL.Path,
		Body:      body,
		RequestID: req.Header.Get("X-Request-Id"),
	})
	var resp fakeResponse
	if req.URL.Path == "/api/updates" {
		from, _ := body["From"].(float64)
		a.froms = append(a.froms, uint64(from))
		if len(a.updates) > 0 {
			resp = a.updates[0]
			a.updates = a.updates[1:]
		} else {
			resp = a.fallback
			// Stands in for the agent's long poll.
			defer time.Sleep(5 * time.Millisecond)
		}
	} else {
		var ok bool
		resp, ok = a.routes[req.URL.Path]
		if !ok {
			resp = fakeResponse{Status: http.StatusOK}
		}
	}
	a.mu.Unlock()

	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}

func (a *fakeAgent) Route(path string, resp fakeResponse) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[path] = resp
}

func (a *fakeAgent) SetFallback(resp fakeResponse) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fallback = resp
}

func (a *fakeAgent) Froms() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint64{}, a.froms...)
}

func (a *fakeAgent) Requests() []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]recordedRequest{}, a.requests...)
}

func (a *fakeAgent) LastRequest(t *testing.T) recordedRequest {
	t.Helper()
	reqs := a.Requests()
	require.NotEmpty(t, reqs)
	return reqs[len(reqs)-1]
}

func jsonResponse(t *testing.T, v interface{}) fakeResponse {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return fakeResponse{Status: http.StatusOK, ContentType: "application/json", Body: string(b)}
}

func configEvent(n uint64) map[string]interface{} {
	return map[string]interface{}{
		"Type":      "config",
		"UpdateNum": n,
		"Config":    map[string]interface{}{"Username": "alice", "HorizonURL": "https://horizon-testnet.stellar.org"},
	}
}

func newTestClient(t *testing.T, url string, c Config) *Client {
	t.Helper()
	c.URL = url
	if c.Backoff == 0 {
		c.Backoff = 5 * time.Millisecond
	}
	client, err := New(c)
	require.NoError(t, err)
	return client
}

// receive receives n updates from the subscription.
func receive(t *testing.T, sub *Subscription, n int) []Update {
	t.Helper()
	updates := make([]Update, 0, n)
	timeout := time.After(5 * time.Second)
	for len(updates) < n {
		select {
		case u, ok := <-sub.Updates():
			require.True(t, ok, "subscription ended after %d updates: %v", len(updates), sub.Err())
			updates = append(updates, u)
		case <-timeout:
			require.FailNow(t, "timed out waiting for updates", "got %d of %d", len(updates), n)
		}
	}
	return updates
}

func waitDone(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case <-sub.Done():
	case <-time.After(5 * time.Second):
		require.FailNow(t, "timed out waiting for subscription to end")
	}
}
