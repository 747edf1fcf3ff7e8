package mip

import "time"

// Callbacks provides hooks for protocol and conversion events. Every
// field is optional; nil callbacks use default (inert) behavior.
type Callbacks struct {
	// OnProgress is called periodically during a transfer.
	// transferred/total are frame-payload bytes; total is 0 if unknown
	// (the sender passes the source size; the receiver always passes 0).
	OnProgress func(label string, transferred, total int64, rate float64)

	// OnEvent is called for protocol-level events, for debugging/logging,
	// not control flow. The receiver emits EventSequenceScan for each
	// sequence it moves past and the sender emits EventTransferComplete
	// after the final ACK; EventFrameSent, EventFrameReceived and
	// EventTransferStart are not emitted.
	OnEvent func(event Event)

	// OnWarning is called for conditions spec.md §7 classifies as
	// tolerated/log-only: a trailer block count mismatch, an
	// unexpected non-998 frame received where an ACK was expected, a
	// direction-byte mismatch tolerated during payload extraction.
	OnWarning func(context string, detail string)
}

// Event represents a protocol event for logging/debugging.
type Event struct {
	Type      EventType
	Message   string
	Timestamp time.Time
}

// EventType categorizes protocol events.
type EventType int

const (
	EventFrameSent EventType = iota
	EventFrameReceived
	EventSequenceScan
	EventTransferStart
	EventTransferComplete
)

func defaultCallbacks() *Callbacks {
	return &Callbacks{
		OnProgress: func(string, int64, int64, float64) {},
		OnEvent:    func(Event) {},
		OnWarning:  func(string, string) {},
	}
}

// mergeCallbacks fills unset fields of user with defaults. A nil user
// yields an all-default Callbacks.
func mergeCallbacks(user *Callbacks) *Callbacks {
	def := defaultCallbacks()
	if user == nil {
		return def
	}
	result := &Callbacks{
		OnProgress: user.OnProgress,
		OnEvent:    user.OnEvent,
		OnWarning:  user.OnWarning,
	}
	if result.OnProgress == nil {
		result.OnProgress = def.OnProgress
	}
	if result.OnEvent == nil {
		result.OnEvent = def.OnEvent
	}
	if result.OnWarning == nil {
		result.OnWarning = def.OnWarning
	}
	return result
}
