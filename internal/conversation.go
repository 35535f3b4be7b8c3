package internal

// Conversation is an export snapshot of a widget session
type Conversation struct {
	BusinessID string    `json:"business_id" yaml:"business_id"`
	APIBaseURL string    `json:"api_base_url" yaml:"api_base_url"`
	SessionID  string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	ExportedAt string    `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Messages   []Message `json:"messages" yaml:"messages"`
}

// Label returns a short identifier suitable for file names and headings
func (c *Conversation) Label() string {
	if c.SessionID != "" {
		return c.SessionID
	}
	return c.BusinessID
}
