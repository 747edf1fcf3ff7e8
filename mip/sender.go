package mip

import (
	"io"
)

// Sender drives the send dialogue of spec.md §4.6 (direction R): write
// 004, stream data frames, write 998, validate the final ACK.
type Sender struct {
	callbacks *Callbacks
	log       Logger
}

// NewSender returns a Sender reporting through callbacks and log. Nil
// values fall back to inert defaults.
func NewSender(callbacks *Callbacks, log Logger) *Sender {
	if log == nil {
		log = NoopLogger{}
	}
	return &Sender{callbacks: mergeCallbacks(callbacks), log: log}
}

// Send transfers the entirety of src (an already-built IPM container,
// per spec.md §2's data-flow note that text input is converted before
// the protocol ever sees it) to addr under the given transmission id.
func (s *Sender) Send(addr string, txid string, src io.Reader, size int64) error {
	conn, err := dial(addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.writeFramed(buildHeader004(txid)); err != nil {
		return err
	}
	ackFrame, err := conn.readFramed()
	if err != nil {
		return err
	}
	if err := validateACK(ackFrame, s.callbacks.OnWarning); err != nil {
		return err
	}

	tracker := NewProgressTracker(s.callbacks.OnProgress, 0)
	tracker.Start(txid, size)

	var sent int64
	var frames uint32
	buf := make([]byte, maxDataChunk)
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if werr := conn.writeFramed(buildDataSend(buf[:n])); werr != nil {
				return werr
			}
			frames++
			sent += int64(n)
			tracker.Update(sent)
			s.log.Debug("sender: sent frame %d (%d bytes)", frames, n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return NewError(IoError, "read source: %v", rerr)
		}
	}
	tracker.Complete()

	if err := conn.writeFramed(buildTrailer998(frames + 1)); err != nil {
		return err
	}
	finalAck, err := conn.readFramed()
	if err != nil {
		return err
	}
	if err := validateACK(finalAck, s.callbacks.OnWarning); err != nil {
		return err
	}

	s.callbacks.OnEvent(Event{Type: EventTransferComplete, Message: txid})
	return nil
}
