package mip

import (
	"io"
	"strconv"
)

// Receiver drives the receive dialogue of spec.md §4.6 (direction T):
// sequence-scan over SS, header extraction, tolerant data-frame
// extraction, trailer validation, final purge.
type Receiver struct {
	callbacks *Callbacks
	log       Logger
}

// NewReceiver returns a Receiver reporting through callbacks and log.
// Nil values fall back to inert defaults.
func NewReceiver(callbacks *Callbacks, log Logger) *Receiver {
	if log == nil {
		log = NoopLogger{}
	}
	return &Receiver{callbacks: mergeCallbacks(callbacks), log: log}
}

// Receive scans sequence numbers starting at the SS encoded in txid
// through 99, looking for a peer willing to send under that sequence,
// then receives the file into dst. It returns the sequence number that
// succeeded.
func (r *Receiver) Receive(addr string, txid string, dst io.Writer) (int, error) {
	startSS := int(txid[12]-'0')*10 + int(txid[13]-'0')
	var lastErr error

	for ss := startSS; ss <= 99; ss++ {
		current := withSequence(txid, ss)
		used, err := r.tryReceive(addr, current, dst)
		if err == nil {
			return used, nil
		}
		if IsFatal(err) {
			return 0, err
		}
		lastErr = err
		r.callbacks.OnEvent(Event{Type: EventSequenceScan, Message: current})
	}

	detail := "no prior error"
	if lastErr != nil {
		detail = lastErr.Error()
	}
	return 0, NewError(NotFoundError, "no file available for %s..99: %s", txid[:12], detail)
}

// tryReceive performs one sequence attempt: a fresh connection, a 101
// request, and either a full receive dialogue (on 004) or an error. A
// declined or unexpected response lets the scan go on to the next
// sequence; a socket-level error, or any failure after the 004 header,
// ends the scan (see IsFatal).
func (r *Receiver) tryReceive(addr string, txid string, dst io.Writer) (int, error) {
	conn, err := dial(addr)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	if err := conn.writeFramed(buildRequest101(txid)); err != nil {
		return 0, err
	}
	first, err := conn.readFramed()
	if err != nil {
		return 0, err
	}

	code := recordCode(first)
	switch {
	case code == codeTrailer && ackReturnCode(first) != "00":
		reason := ""
		if len(first) > 7 {
			reason = decodeEBCDIC(first[7:])
		}
		return 0, NewError(NotFoundError, "sequence not available: %s", reason)
	case code == codeHeader:
		// fall through to receive dialogue
	default:
		return 0, NewError(ProtocolError, "unexpected response code %q to request", code)
	}

	fields, err := parseHeader004(first)
	if err != nil {
		return 0, err
	}

	// A header was found: this attempt owns dst from here on. Any
	// failure past this point has already written partial data to dst
	// and must abort the whole scan rather than be retried under the
	// next sequence number.

	blocks, err := r.receiveData(conn, dst, fields.expectedBlocks)
	if err != nil {
		return 0, fatal(err)
	}

	if err := conn.writeFramed(buildPurge999(fields.rxTxID)); err != nil {
		return 0, fatal(err)
	}
	finalAck, err := conn.readFramed()
	if err != nil {
		return 0, fatal(err)
	}
	if err := validateACK(finalAck, r.callbacks.OnWarning); err != nil {
		return 0, fatal(err)
	}

	ss := int(txid[12]-'0')*10 + int(txid[13]-'0')
	r.log.Info("receiver: sequence used = %d, blocks received = %d", ss, blocks)
	return ss, nil
}

// receiveData loops reading frames until the 998 trailer arrives,
// writing every data frame's extracted payload to dst.
func (r *Receiver) receiveData(conn *frameConn, dst io.Writer, expectedBlocks uint32) (int, error) {
	tracker := NewProgressTracker(r.callbacks.OnProgress, 0)
	tracker.Start("receive", 0)

	blocks := 0
	var received int64
	for {
		frame, err := conn.readFramed()
		if err != nil {
			return blocks, err
		}

		if recordCode(frame) == codeTrailer {
			t, err := parseTrailer998(frame)
			if err != nil {
				return blocks, err
			}
			if t.returnCode != "00" {
				return blocks, NewError(ProtocolError, "trailer returned non-zero code %q", t.returnCode)
			}
			if t.count != uint32(blocks+1) {
				r.callbacks.OnWarning("trailer", "block count mismatch: peer reported "+strconv.Itoa(int(t.count))+", received "+strconv.Itoa(blocks+1))
			}
			tracker.Complete()
			return blocks, nil
		}

		data, directionOK, err := extractPayload(frame)
		if err != nil {
			return blocks, err
		}
		if !directionOK {
			r.callbacks.OnWarning("data-frame", "direction indicator mismatch")
		}
		if _, err := dst.Write(data); err != nil {
			return blocks, NewError(IoError, "write destination: %v", err)
		}
		blocks++
		received += int64(len(data))
		tracker.Update(received)
		r.log.Debug("receiver: wrote block %d (%d bytes)", blocks, len(data))
	}
}
