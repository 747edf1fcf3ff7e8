// Package mip implements the Mastercard Interface Processor (MIP) bulk
// file transfer protocol and the IPM container codec it carries.
//
// The package covers two coupled wire-level machines: the length-framed
// conversational protocol used to push and pull bulk IPM files over a
// single TCP connection (see Session, Sender, Receiver), and the
// byte-exact encode/decode of the on-wire IPM container format — 1014-byte
// physical blocking wrapping a VBS/RDW record stream of EBCDIC Cp500
// payloads (see Converter).
package mip

// Record codes, all three bytes, EBCDIC Cp500 on the wire.
const (
	codeHeader  = "004"
	codeRequest = "101"
	codeTrailer = "998"
	codePurge   = "999"
)

// recordType is the nominal 2-byte record-type field following the code.
const recordType = "01"

// Direction indicators prefixing every data record on the wire.
const (
	dirSend    = 0xD9 // EBCDIC 'R' — data flowing TO Mastercard
	dirReceive = 0xE3 // EBCDIC 'T' — data flowing FROM Mastercard
)

// pad40 is the EBCDIC space, used as block padding and as the 2-byte
// block trailer. The stray padding byte that extractPayload tolerates
// ahead of a receive data frame's direction byte is 0xFF, not pad40.
const pad40 = 0x40

// blockSize and dataPerBlock are the 1014-blocking physical layer
// parameters: 1012 payload bytes followed by two 0x40 trailer bytes.
const (
	blockSize    = 1014
	dataPerBlock = 1012
)

// maxDataChunk is the largest payload carried by one send-side data
// record (§4.6): one direction byte plus up to this many file bytes must
// still fit under the 2-byte frame length ceiling, and by convention
// matches the 1014-byte block size of the container format itself.
const maxDataChunk = 1014
