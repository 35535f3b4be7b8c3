package internal

import (
	"context"
	"sync"
	"time"
)

// CreateTestConversation creates a conversation with one user/bot exchange
func CreateTestConversation(sessionID string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		BusinessID: DefaultBusinessID,
		APIBaseURL: DefaultAPIBaseURL,
		SessionID:  sessionID,
		ExportedAt: now.Format(time.RFC3339),
		Messages: []Message{
			{ID: "m1", Sender: SenderUser, Text: "hours?", CreatedAt: now},
			{ID: "m2", Sender: SenderBot, Text: "9-5", CreatedAt: now},
		},
	}
}

// CreateTestConversationWithMessages creates a conversation with custom messages
func CreateTestConversationWithMessages(sessionID string, messages []Message) *Conversation {
	return &Conversation{
		BusinessID: DefaultBusinessID,
		APIBaseURL: DefaultAPIBaseURL,
		SessionID:  sessionID,
		Messages:   messages,
	}
}

// StubExchanger is an Exchanger that replays canned outcomes and records requests
type StubExchanger struct {
	mu       sync.Mutex
	Requests []ChatRequest
	Replies  []Outcome
	// Gate, when set, blocks Send until it is closed or receives a value
	Gate chan struct{}
}

// Send records req and returns the next canned outcome. The request is
// recorded before waiting on Gate.
func (s *StubExchanger) Send(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	s.mu.Lock()
	s.Requests = append(s.Requests, req)
	s.mu.Unlock()

	if s.Gate != nil {
		select {
		case <-s.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Replies) == 0 {
		return &ChatReply{Text: DefaultReplyPlaceholder}, nil
	}
	out := s.Replies[0]
	s.Replies = s.Replies[1:]
	return out.Reply, out.Err
}

// Calls returns the recorded requests
func (s *StubExchanger) Calls() []ChatRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChatRequest(nil), s.Requests...)
}
