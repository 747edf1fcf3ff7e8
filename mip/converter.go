package mip

import (
	"bufio"
	"bytes"
	"io"
	"os"
)

// bom is the UTF-8 encoding of U+FEFF, stripped from the first line of
// text input during Encode if present — a detail carried over from the
// original tool's text reader, which strips it unconditionally before
// any blank-line skipping.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Converter converts between plain-text line-oriented records and the
// on-wire IPM container format (1014-blocking over a VBS/RDW stream of
// EBCDIC Cp500 payloads).
type Converter struct {
	log Logger
}

// NewConverter returns a Converter that reports progress through log.
// A nil log is replaced with NoopLogger.
func NewConverter(log Logger) *Converter {
	if log == nil {
		log = NoopLogger{}
	}
	return &Converter{log: log}
}

// Encode reads ASCII text lines from in and writes the corresponding
// blocked IPM container to out. Blank lines are skipped. Each
// non-blank line becomes one EBCDIC record.
func (c *Converter) Encode(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records [][]byte
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if first {
			line = bytes.TrimPrefix(line, bom)
			first = false
		}
		if len(line) == 0 {
			continue
		}
		records = append(records, encodeEBCDIC(string(line)))
		if len(records)%100 == 0 {
			c.log.Debug("encode: %d records processed", len(records))
		}
	}
	if err := scanner.Err(); err != nil {
		return NewError(IoError, "read text input: %v", err)
	}

	vbs := encodeVBS(records)
	blocked := applyBlocking(vbs)
	if _, err := out.Write(blocked); err != nil {
		return NewError(IoError, "write ipm container: %v", err)
	}
	c.log.Info("encode: wrote %d records, %d bytes blocked", len(records), len(blocked))
	return nil
}

// Decode reads a blocked or unblocked IPM container from in and writes
// one printable-ASCII text line per record to out. Blocking is detected
// automatically via detectBlocked.
func (c *Converter) Decode(in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return NewError(IoError, "read ipm container: %v", err)
	}

	vbs := raw
	if detectBlocked(raw) {
		vbs = removeBlocking(raw)
	}

	records, err := decodeVBS(vbs)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	for i, r := range records {
		line := toASCIIPrintable(decodeEBCDIC(r))
		if _, err := w.WriteString(line); err != nil {
			return NewError(IoError, "write text output: %v", err)
		}
		if _, err := w.WriteString("\n"); err != nil {
			return NewError(IoError, "write text output: %v", err)
		}
		if (i+1)%100 == 0 {
			c.log.Debug("decode: %d records processed", i+1)
		}
	}
	if err := w.Flush(); err != nil {
		return NewError(IoError, "flush text output: %v", err)
	}
	c.log.Info("decode: wrote %d records", len(records))
	return nil
}

// EncodeFile is a convenience wrapper over Encode for file paths.
func (c *Converter) EncodeFile(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return NewError(IoError, "open input: %v", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return NewError(IoError, "create output: %v", err)
	}
	defer out.Close()

	return c.Encode(in, out)
}

// DecodeFile is a convenience wrapper over Decode for file paths.
func (c *Converter) DecodeFile(inputPath, outputPath string) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return NewError(IoError, "open input: %v", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return NewError(IoError, "create output: %v", err)
	}
	defer out.Close()

	return c.Decode(in, out)
}
