package mip

import (
	"io"
)

// Config holds transport/protocol configuration. The teacher's
// session exposes these as a struct built by DefaultConfig and
// overridden with functional options; here the surface is far smaller
// since spec.md's configuration is just the diagnostic flag plus the
// timeouts already fixed by §4.5.
type Config struct {
	// Verbose is stored in the session configuration, but no layer
	// reads it; diagnostic output is controlled by the Logger given
	// with WithLogger.
	Verbose bool
}

// DefaultConfig returns the non-verbose default configuration.
func DefaultConfig() *Config {
	return &Config{Verbose: false}
}

// Session is the high-level entry point for one send or receive
// dialogue over a single TCP connection to a MIP endpoint.
type Session struct {
	config    *Config
	callbacks *Callbacks
	logger    Logger
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session configuration.
func WithConfig(config *Config) Option {
	return func(s *Session) { s.config = config }
}

// WithCallbacks sets the session callbacks.
func WithCallbacks(callbacks *Callbacks) Option {
	return func(s *Session) { s.callbacks = mergeCallbacks(callbacks) }
}

// WithLogger sets the session's diagnostic logger.
func WithLogger(logger Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession builds a Session from the given options, defaulting to a
// non-verbose configuration, inert callbacks, and a NoopLogger.
func NewSession(opts ...Option) *Session {
	s := &Session{
		config:    DefaultConfig(),
		callbacks: defaultCallbacks(),
		logger:    NoopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send transfers src to the MIP endpoint at addr under txid (a 9- or
// 14-character transmission id, normalized per spec.md §8).
func (s *Session) Send(addr, txid string, src io.Reader, size int64) error {
	full, err := NormalizeTxID(txid)
	if err != nil {
		return err
	}
	if full[0] != 'R' {
		return NewError(UsageError, "send requires a direction-R transmission id, got %q", string(full[0]))
	}
	return NewSender(s.callbacks, s.logger).Send(addr, full, src, size)
}

// Receive scans for and receives a file from the MIP endpoint at addr
// under txid, writing it to dst. It returns the sequence number that
// succeeded.
func (s *Session) Receive(addr, txid string, dst io.Writer) (int, error) {
	full, err := NormalizeTxID(txid)
	if err != nil {
		return 0, err
	}
	if full[0] != 'T' {
		return 0, NewError(UsageError, "receive requires a direction-T transmission id, got %q", string(full[0]))
	}
	return NewReceiver(s.callbacks, s.logger).Receive(addr, full, dst)
}
