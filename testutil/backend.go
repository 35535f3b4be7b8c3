package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// RecordedRequest is one request received by the fake backend
type RecordedRequest struct {
	BusinessID  string
	ContentType string
	UserAgent   string
	Message     string
	SessionID   *string
	RawBody     []byte
}

// Response is a canned backend response
type Response struct {
	Status int
	Body   string
}

// JSONReply builds a 200 response carrying a reply and an optional session id
func JSONReply(reply, sessionID string) Response {
	body := map[string]interface{}{"reply": reply}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	data, _ := json.Marshal(body)
	return Response{Status: http.StatusOK, Body: string(data)}
}

// Backend is a fake chat service mounted at /api/chat/{businessID}
type Backend struct {
	Server *httptest.Server

	mu        sync.Mutex
	requests  []RecordedRequest
	responses []Response
}

// NewBackend starts a fake backend that is closed when the test ends
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{}

	r := chi.NewRouter()
	r.Route("/api", func(api chi.Router) {
		api.Post("/chat/{businessID}", b.handleChat)
	})

	b.Server = httptest.NewServer(r)
	t.Cleanup(b.Server.Close)
	return b
}

// APIBaseURL returns the value to launch the widget with
func (b *Backend) APIBaseURL() string {
	return b.Server.URL + "/api"
}

// Enqueue adds responses served in order; once drained every request gets
// a plain reply without a session id
func (b *Backend) Enqueue(responses ...Response) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses = append(b.responses, responses...)
}

// Requests returns what the backend has received so far
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)

	var payload struct {
		Message   string  `json:"message"`
		SessionID *string `json:"session_id"`
	}
	_ = json.Unmarshal(raw, &payload)

	b.mu.Lock()
	b.requests = append(b.requests, RecordedRequest{
		BusinessID:  chi.URLParam(r, "businessID"),
		ContentType: r.Header.Get("Content-Type"),
		UserAgent:   r.Header.Get("User-Agent"),
		Message:     payload.Message,
		SessionID:   payload.SessionID,
		RawBody:     raw,
	})
	resp := JSONReply("ok", "")
	if len(b.responses) > 0 {
		resp = b.responses[0]
		b.responses = b.responses[1:]
	}
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_, _ = io.WriteString(w, resp.Body)
}
