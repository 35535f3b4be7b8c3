package internal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Sender identifies who authored a message. It has exactly two values.
type Sender int

const (
	SenderUser Sender = iota + 1
	SenderBot
)

func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderBot:
		return "bot"
	default:
		return fmt.Sprintf("Sender(%d)", int(s))
	}
}

// ParseSender converts "user" or "bot" into a Sender.
func ParseSender(s string) (Sender, error) {
	switch s {
	case "user":
		return SenderUser, nil
	case "bot":
		return SenderBot, nil
	default:
		return 0, fmt.Errorf("invalid sender %q (want user or bot)", s)
	}
}

func (s Sender) MarshalJSON() ([]byte, error) {
	if s != SenderUser && s != SenderBot {
		return nil, fmt.Errorf("invalid sender %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Sender) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSender(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s Sender) MarshalYAML() (interface{}, error) {
	if s != SenderUser && s != SenderBot {
		return nil, fmt.Errorf("invalid sender %d", int(s))
	}
	return s.String(), nil
}

func (s *Sender) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseSender(node.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Message is one transcript entry. Messages are never mutated after creation.
type Message struct {
	ID        string    `json:"id" yaml:"id"`
	Sender    Sender    `json:"sender" yaml:"sender"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewMessage creates a message with a fresh client-side ID.
func NewMessage(sender Sender, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
