package internal

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultErrorMessage is the only failure text the user ever sees
const DefaultErrorMessage = "Something went wrong talking to the server."

// Session owns the configuration, transcript, backend session identifier
// and the single-flight send exchange for one widget instance.
//
// A submit appends the user's message before the request is issued and
// never removes it, even when the exchange fails.
type Session struct {
	cfg        Config
	client     Exchanger
	transcript *Transcript
	errMessage string

	mu        sync.Mutex
	sessionID string
	input     string
	sending   bool
	lastError string
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithErrorMessage overrides the failure text shown to the user
func WithErrorMessage(msg string) SessionOption {
	return func(s *Session) {
		if msg != "" {
			s.errMessage = msg
		}
	}
}

// NewSession creates a session manager for an already resolved config
func NewSession(cfg Config, client Exchanger, opts ...SessionOption) *Session {
	s := &Session{
		cfg:        cfg,
		client:     client,
		transcript: NewTranscript(),
		errMessage: DefaultErrorMessage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending is a submission that has been accepted and is waiting on the backend
type Pending struct {
	Message   Message // the user message already in the transcript
	SessionID string  // session id captured at submit time, "" for none
}

// Outcome is the result of one exchange
type Outcome struct {
	Reply *ChatReply
	Err   error
}

// State is a point-in-time snapshot for rendering
type State struct {
	Config    Config
	SessionID string
	Messages  []Message
	Input     string
	Sending   bool
	Error     string
}

// Config returns the resolved configuration
func (s *Session) Config() Config {
	return s.cfg
}

// SetInput replaces the current input text
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Input returns the current input text
func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SessionID returns the backend session identifier, "" before the first reply
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// Sending reports whether an exchange is in flight
func (s *Session) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// Error returns the displayed error, "" when none
func (s *Session) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Messages returns the transcript in display order
func (s *Session) Messages() []Message {
	return s.transcript.Messages()
}

// MessageCount returns the number of displayed messages
func (s *Session) MessageCount() int {
	return s.transcript.Len()
}

// CanSend reports whether a submit would be accepted right now
func (s *Session) CanSend() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canSendLocked()
}

func (s *Session) canSendLocked() bool {
	return s.cfg.Valid() && strings.TrimSpace(s.input) != "" && !s.sending
}

// State returns a snapshot of everything the widget renders
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Config:    s.cfg,
		SessionID: s.sessionID,
		Messages:  s.transcript.Messages(),
		Input:     s.input,
		Sending:   s.sending,
		Error:     s.lastError,
	}
}

// Begin accepts the current input for sending. It clears the input and
// any displayed error, appends the user message and marks the session as
// sending. It returns false, changing nothing, when CanSend is false.
func (s *Session) Begin() (*Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.canSendLocked() {
		switch {
		case s.sending:
			LogDebug("submit ignored: a send is already in flight")
		case !s.cfg.Valid():
			LogDebug("submit ignored: configuration not resolved")
		default:
			LogDebug("submit ignored: empty input")
		}
		return nil, false
	}

	text := strings.TrimSpace(s.input)
	s.input = ""
	s.lastError = ""

	msg := NewMessage(SenderUser, text)
	s.transcript.Append(msg)
	s.sending = true

	return &Pending{Message: msg, SessionID: s.sessionID}, true
}

// Exchange performs the backend request for p. It does not touch session
// state, so an event loop can run it off-loop and hand the Outcome back
// to Complete.
func (s *Session) Exchange(ctx context.Context, p *Pending) Outcome {
	req := ChatRequest{Message: p.Message.Text}
	if p.SessionID != "" {
		id := p.SessionID
		req.SessionID = &id
	}

	start := time.Now()
	reply, err := s.client.Send(ctx, req)
	if err != nil {
		return Outcome{Err: err}
	}
	Log().Debug().
		Str("business_id", s.cfg.BusinessID).
		Dur("elapsed", time.Since(start)).
		Msg("reply received")
	return Outcome{Reply: reply}
}

// Complete applies an Outcome: on success it adopts a new session id and
// appends the bot reply; on failure it sets the error message and leaves
// the transcript and session id alone. Either way the session returns to idle.
func (s *Session) Complete(out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.sending = false }()

	if out.Err != nil || out.Reply == nil {
		if out.Err != nil {
			LogWarn("chat exchange failed: %v", out.Err)
		}
		s.lastError = s.errMessage
		return
	}

	if id := out.Reply.SessionID; id != "" && id != s.sessionID {
		LogDebug("adopting session id %s", id)
		s.sessionID = id
	}
	s.transcript.Append(NewMessage(SenderBot, out.Reply.Text))
}

// Submit runs Begin, Exchange and Complete in sequence. It returns false
// when the submission was rejected.
func (s *Session) Submit(ctx context.Context) bool {
	p, ok := s.Begin()
	if !ok {
		return false
	}
	s.Complete(s.Exchange(ctx, p))
	return true
}

// SubmitText sets the input and submits it
func (s *Session) SubmitText(ctx context.Context, text string) bool {
	s.SetInput(text)
	return s.Submit(ctx)
}

// Conversation returns an export snapshot of the session
func (s *Session) Conversation() *Conversation {
	st := s.State()
	return &Conversation{
		BusinessID: st.Config.BusinessID,
		APIBaseURL: st.Config.APIBaseURL,
		SessionID:  st.SessionID,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Messages:   st.Messages,
	}
}
