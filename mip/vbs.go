package mip

// vbsEOF is the 4-byte zero marker terminating a VBS/RDW record stream.
var vbsEOF = []byte{0, 0, 0, 0}

// encodeVBS frames each record in records with a 4-byte big-endian RDW
// length prefix and appends the zero-length EOF marker.
func encodeVBS(records [][]byte) []byte {
	out := make([]byte, 0, len(records)*4)
	for _, r := range records {
		out = append(out, putUint32BE(uint32(len(r)))...)
		out = append(out, r...)
	}
	out = append(out, vbsEOF...)
	return out
}

// decodeVBS parses a VBS/RDW record stream, returning the records in
// order. Parsing stops at the zero-length EOF marker. A truncation that
// falls between records (fewer than 4 bytes remain, no EOF marker seen)
// is tolerated and returns the records collected so far. A length
// field whose declared record length exceeds the remaining buffer is a
// framing violation and returns a FramingError citing the offset and
// declared length.
func decodeVBS(data []byte) ([][]byte, error) {
	var records [][]byte
	pos := 0
	for pos+4 <= len(data) {
		n := getUint32BE(data[pos : pos+4])
		lenOffset := pos
		pos += 4
		if n == 0 {
			break
		}
		end := pos + int(n)
		if end > len(data) {
			return records, NewError(FramingError, "record length %d at offset %d exceeds remaining buffer", n, lenOffset)
		}
		records = append(records, data[pos:end])
		pos = end
	}
	return records, nil
}
