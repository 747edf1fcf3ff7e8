package mip

import (
	"golang.org/x/text/encoding/charmap"
)

// ebcdic is the Cp500/IBM500 codec used for every alphanumeric field on
// the wire and for IPM record payloads. charmap.CodePage500 is byte-exact
// with the standard IBM Cp500 table in both directions.
var ebcdic = charmap.CodePage500

// encodeEBCDIC converts an ASCII string to its Cp500 byte representation.
// Only single-byte printable ASCII input is expected; the charmap encoder
// stops at the first rune without a Cp500 mapping and its error is
// discarded, so the result then holds only the bytes before that rune.
func encodeEBCDIC(s string) []byte {
	b, _ := ebcdic.NewEncoder().Bytes([]byte(s))
	return b
}

// decodeEBCDIC converts Cp500 bytes to their ASCII/Latin-1 text
// representation.
func decodeEBCDIC(b []byte) string {
	out, _ := ebcdic.NewDecoder().Bytes(b)
	return string(out)
}

// putUint16BE writes v as a 2-byte big-endian value.
func putUint16BE(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

// getUint16BE decodes a 2-byte big-endian unsigned value.
func getUint16BE(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// putUint32BE writes v as a 4-byte big-endian value.
func putUint32BE(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// getUint32BE decodes a 4-byte big-endian unsigned value. Length fields
// are non-negative by contract; the high bit is treated as magnitude, not
// sign.
func getUint32BE(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// toASCIIPrintable replaces every rune outside the printable-ASCII range
// (and outside CR/LF/TAB) with '.'. The EBCDIC decoder yields one rune per
// input byte for Cp500, but a rune above 0x7F can take more than one byte
// once re-encoded as UTF-8, so this walks runes rather than bytes.
func toASCIIPrintable(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch {
		case c >= 0x20 && c <= 0x7E:
			out = append(out, c)
		case c == '\r' || c == '\n' || c == '\t':
			out = append(out, c)
		default:
			out = append(out, '.')
		}
	}
	return string(out)
}
