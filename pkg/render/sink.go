package render

import (
	"strings"
	"sync"
)

// Sink is the text buffer of one render pass together with its options. All
// contexts derived from the same root share one Sink.
type Sink struct {
	mu      sync.Mutex
	buf     strings.Builder
	options Options
}

// NewSink creates an empty Sink with the supplied options applied.
func NewSink(options ...Option) *Sink {
	s := &Sink{}
	s.Configure(options...)
	return s
}

// Append adds text to the buffer.
func (s *Sink) Append(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	s.buf.WriteString(text)
	s.mu.Unlock()
}

// Configure applies options to the shared record.
func (s *Sink) Configure(options ...Option) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s.options)
	}
}

// Options returns a copy of the current options record.
func (s *Sink) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// String returns the buffered text. In AutoTrimStartEnd mode the result is
// trimmed as a whole.
func (s *Sink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.buf.String()
	if s.options.AutoTrim == AutoTrimStartEnd {
		out = strings.TrimSpace(out)
	}
	return out
}
