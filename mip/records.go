package mip

// buildHeader004 builds the 60-byte 004 header record carrying txid.
// The two 4-byte "reserved" fields are emitted zero per spec.md §9
// (Open Question: no evidence any MIP variant populates them).
func buildHeader004(txid string) []byte {
	b := make([]byte, 0, 60)
	b = append(b, encodeEBCDIC(codeHeader)...)
	b = append(b, encodeEBCDIC(recordType)...)
	b = append(b, encodeEBCDIC(txid)...)
	b = append(b, make([]byte, 17)...) // filler
	b = append(b, make([]byte, 4)...)  // reserved
	b = append(b, make([]byte, 4)...)  // reserved
	b = append(b, make([]byte, 16)...) // filler
	return b
}

// buildRequest101 builds the 19-byte 101 request record carrying txid.
func buildRequest101(txid string) []byte {
	b := make([]byte, 0, 19)
	b = append(b, encodeEBCDIC(codeRequest)...)
	b = append(b, encodeEBCDIC(recordType)...)
	b = append(b, encodeEBCDIC(txid)...)
	return b
}

// buildTrailer998 builds the 11-byte 998 trailer record carrying count
// (data frames sent, trailer inclusive).
func buildTrailer998(count uint32) []byte {
	b := make([]byte, 0, 11)
	b = append(b, encodeEBCDIC(codeTrailer)...)
	b = append(b, encodeEBCDIC(recordType)...)
	b = append(b, encodeEBCDIC("00")...)
	b = append(b, putUint32BE(count)...)
	return b
}

// buildPurge999 builds the 21-byte 999 purge record carrying the
// receive-side transmission id.
func buildPurge999(rxTxID string) []byte {
	b := make([]byte, 0, 21)
	b = append(b, encodeEBCDIC(codePurge)...)
	b = append(b, encodeEBCDIC(recordType)...)
	b = append(b, encodeEBCDIC("00")...)
	b = append(b, encodeEBCDIC(rxTxID)...)
	return b
}

// buildDataSend wraps a chunk of source-file bytes with the 'R'
// direction indicator for a send-side data record.
func buildDataSend(chunk []byte) []byte {
	b := make([]byte, 0, 1+len(chunk))
	b = append(b, dirSend)
	b = append(b, chunk...)
	return b
}

// recordCode returns the 3-character EBCDIC code naming a frame's
// record type ("004", "101", "998", "999"), or "" if the frame is too
// short to carry one.
func recordCode(frame []byte) string {
	if len(frame) < 3 {
		return ""
	}
	return decodeEBCDIC(frame[0:3])
}

// isACK reports whether frame is an accepted ACK per spec.md §4.7:
// code 998 and return code "00" at bytes 5..7.
func isACK(frame []byte) bool {
	if recordCode(frame) != codeTrailer || len(frame) < 7 {
		return false
	}
	return decodeEBCDIC(frame[5:7]) == "00"
}

// ackReturnCode extracts the 2-char return code of a 998 frame.
func ackReturnCode(frame []byte) string {
	if len(frame) < 7 {
		return ""
	}
	return decodeEBCDIC(frame[5:7])
}

// validateACK implements spec.md §4.7: a non-998 frame at an ACK point
// is tolerated (reported via warn, not returned as an error); a 998
// frame with a non-"00" return code fails the current stage.
func validateACK(frame []byte, warn func(context, detail string)) error {
	code := recordCode(frame)
	if code != codeTrailer {
		if warn != nil {
			warn("ack", "expected 998 ack, got code "+code)
		}
		return nil
	}
	rc := ackReturnCode(frame)
	if rc != "00" {
		return NewError(ProtocolError, "ack returned non-zero code %q", rc)
	}
	return nil
}

// header004Fields holds the fields extracted from a 004 frame on the
// receive side (spec.md §4.6 step 3).
type header004Fields struct {
	rxTxID         string
	expectedBlocks uint32
}

// parseHeader004 extracts rxTxID (bytes 5..19) and expectedBlocks
// (bytes 36..40, big-endian) from a 004 frame.
func parseHeader004(frame []byte) (header004Fields, error) {
	if len(frame) < 40 {
		return header004Fields{}, NewError(ProtocolError, "004 frame too short: %d bytes", len(frame))
	}
	return header004Fields{
		rxTxID:         decodeEBCDIC(frame[5:19]),
		expectedBlocks: getUint32BE(frame[36:40]),
	}, nil
}

// trailer998Fields holds the fields extracted from a 998 trailer frame
// on the receive side (spec.md §4.6 step 4).
type trailer998Fields struct {
	returnCode string
	count      uint32
}

func parseTrailer998(frame []byte) (trailer998Fields, error) {
	if len(frame) < 11 {
		return trailer998Fields{}, NewError(ProtocolError, "998 frame too short: %d bytes", len(frame))
	}
	return trailer998Fields{
		returnCode: decodeEBCDIC(frame[5:7]),
		count:      getUint32BE(frame[7:11]),
	}, nil
}

// extractPayload implements the tolerant receive-side payload
// extractor of spec.md §4.6 step 4 / §9 ("load-bearing for
// interoperability"). It returns the data bytes following the
// direction indicator, and whether the direction byte matched the
// expected 0xE3 (a mismatch is a warning, not a failure).
func extractPayload(frame []byte) (data []byte, directionOK bool, err error) {
	offset := 0
	if len(frame) >= 4 {
		r1 := getUint32BE(frame[0:4])
		if r1 > 0 && int(r1) < len(frame)-4 {
			offset = 4
		}
	}
	if offset >= len(frame) {
		return nil, false, NewError(FramingError, "data frame too short after RDW offset")
	}
	if frame[offset] == 0xFF && offset+1 < len(frame) && frame[offset+1] == dirReceive {
		offset++
	}
	if offset >= len(frame) {
		return nil, false, NewError(FramingError, "data frame too short for direction byte")
	}
	directionOK = frame[offset] == dirReceive
	if offset+1 > len(frame) {
		return nil, directionOK, NewError(FramingError, "data frame has no payload after direction byte")
	}
	return frame[offset+1:], directionOK, nil
}
