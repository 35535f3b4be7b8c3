package internal

import "fmt"

// ExchangeKind classifies why a chat exchange failed
type ExchangeKind string

const (
	ExchangeKindStatus    ExchangeKind = "status"    // non-2xx response
	ExchangeKindTransport ExchangeKind = "transport" // request never completed
	ExchangeKindDecode    ExchangeKind = "decode"    // body was not a JSON object
)

// ExchangeError represents a failed request to the backend chat endpoint
type ExchangeError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Kind       ExchangeKind
	Err        error
}

func (e *ExchangeError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("exchange error [%s] %s (HTTP %d): %v", e.Kind, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("exchange error [%s] %s: %v", e.Kind, e.Endpoint, e.Err)
}

func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// LaunchError represents errors reading a launch parameter source
type LaunchError struct {
	Source string // "file", "url", "param"
	Value  string
	Err    error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch error [%s] %s: %v", e.Source, e.Value, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
