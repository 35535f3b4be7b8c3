package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// DefaultReplyFields are the response keys tried, in order, for the reply text
var DefaultReplyFields = []string{"reply", "answer"}

// DefaultReplyPlaceholder is used when no reply field is present
const DefaultReplyPlaceholder = "No reply text."

const sessionIDField = "session_id"

// ChatRequest is the JSON body posted for each submitted message.
// SessionID is nil before the backend has issued one and encodes as null.
type ChatRequest struct {
	Message   string  `json:"message"`
	SessionID *string `json:"session_id"`
}

// ChatReply is the part of a backend response the widget uses
type ChatReply struct {
	Text      string
	SessionID string // "" when the response carried none
}

// Exchanger performs one request/response exchange with the chat backend
type Exchanger interface {
	Send(ctx context.Context, req ChatRequest) (*ChatReply, error)
}

// ChatClient talks to {apiBaseUrl}/chat/{businessId}
type ChatClient struct {
	httpClient  *http.Client
	endpoint    string
	replyFields []string
	placeholder string
	userAgent   string
}

// ClientOption configures a ChatClient
type ClientOption func(*ChatClient)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *ChatClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// withReplyFields sets the ordered list of candidate reply keys
func withReplyFields(fields ...string) ClientOption {
	return func(c *ChatClient) {
		if len(fields) > 0 {
			c.replyFields = append([]string(nil), fields...)
		}
	}
}

// withPlaceholder sets the reply used when no candidate key matches
func withPlaceholder(text string) ClientOption {
	return func(c *ChatClient) {
		c.placeholder = text
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *ChatClient) {
		c.userAgent = ua
	}
}

// NewChatClient creates a client for the endpoint derived from cfg.
// The default http.Client has no timeout.
func NewChatClient(cfg Config, opts ...ClientOption) *ChatClient {
	c := &ChatClient{
		httpClient:  &http.Client{},
		endpoint:    cfg.Endpoint(),
		replyFields: DefaultReplyFields,
		placeholder: DefaultReplyPlaceholder,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL requests are posted to
func (c *ChatClient) Endpoint() string {
	return c.endpoint
}

// Send posts one message and decodes the reply
func (c *ChatClient) Send(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, c.fail(0, ExchangeKindTransport, errors.Wrap(err, "encode chat request"))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, c.fail(0, ExchangeKindTransport, errors.Wrap(err, "build chat request"))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(0, ExchangeKindTransport, errors.Wrap(err, "post chat request"))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, c.fail(resp.StatusCode, ExchangeKindStatus, errors.Errorf("HTTP %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(resp.StatusCode, ExchangeKindTransport, errors.Wrap(err, "read chat response"))
	}

	if !json.Valid(data) {
		return nil, c.fail(resp.StatusCode, ExchangeKindDecode, errors.New("decode chat response: invalid JSON"))
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, c.fail(resp.StatusCode, ExchangeKindDecode, errors.New("chat response is null"))
	}

	// arrays, strings and numbers carry no reply keys and get the placeholder
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		fields = nil
	}

	reply := &ChatReply{
		Text:      c.extractReply(fields),
		SessionID: stringField(fields, sessionIDField),
	}
	Log().Debug().
		Str("endpoint", c.endpoint).
		Int("status", resp.StatusCode).
		Bool("session_id", reply.SessionID != "").
		Msg("chat exchange succeeded")
	return reply, nil
}

// extractReply walks the candidate keys in order and falls back to the placeholder
func (c *ChatClient) extractReply(fields map[string]json.RawMessage) string {
	for _, key := range c.replyFields {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			// not a string; try the next key
			continue
		}
		return text
	}
	return c.placeholder
}

func (c *ChatClient) fail(status int, kind ExchangeKind, err error) error {
	return &ExchangeError{Endpoint: c.endpoint, StatusCode: status, Kind: kind, Err: err}
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
