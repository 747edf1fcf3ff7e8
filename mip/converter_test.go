package mip

import (
	"bytes"
	"strings"
	"testing"
)

func TestConverterEncodeSingleLine(t *testing.T) {
	// spec.md §8 scenario 1.
	c := NewConverter(nil)
	var out bytes.Buffer
	if err := c.Encode(strings.NewReader("ABC\n"), &out); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := out.Bytes()
	if len(got) != 1014 {
		t.Fatalf("got %d bytes, want 1014", len(got))
	}
	want := []byte{0x00, 0x00, 0x00, 0x03, 0xC1, 0xC2, 0xC3, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got[:len(want)], want) {
		t.Errorf("got %x, want %x", got[:len(want)], want)
	}
	for _, b := range got[len(want):] {
		if b != pad40 {
			t.Fatal("remaining bytes should all be 0x40 padding")
		}
	}
}

func TestConverterDecodeSingleLine(t *testing.T) {
	// spec.md §8 scenario 2, inverting scenario 1.
	c := NewConverter(nil)
	var ipm bytes.Buffer
	if err := c.Encode(strings.NewReader("ABC\n"), &ipm); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out bytes.Buffer
	if err := c.Decode(bytes.NewReader(ipm.Bytes()), &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.String() != "ABC\n" {
		t.Errorf("got %q, want %q", out.String(), "ABC\n")
	}
}

func TestConverterEncodeSkipsBlankLines(t *testing.T) {
	c := NewConverter(nil)
	var out bytes.Buffer
	if err := c.Encode(strings.NewReader("one\n\ntwo\n\n\nthree\n"), &out); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded bytes.Buffer
	if err := c.Decode(bytes.NewReader(out.Bytes()), &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.String() != "one\ntwo\nthree\n" {
		t.Errorf("got %q", decoded.String())
	}
}

func TestConverterEncodeStripsLeadingBOM(t *testing.T) {
	c := NewConverter(nil)
	input := string(bom) + "first\nsecond\n"
	var out bytes.Buffer
	if err := c.Encode(strings.NewReader(input), &out); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded bytes.Buffer
	if err := c.Decode(bytes.NewReader(out.Bytes()), &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.String() != "first\nsecond\n" {
		t.Errorf("got %q, want no BOM artifact", decoded.String())
	}
}

func TestConverterTextPreservation(t *testing.T) {
	c := NewConverter(nil)
	lines := "hello world\nthe quick brown FOX\n1234567890\n"
	var ipm bytes.Buffer
	if err := c.Encode(strings.NewReader(lines), &ipm); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var out bytes.Buffer
	if err := c.Decode(bytes.NewReader(ipm.Bytes()), &out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.String() != lines {
		t.Errorf("got %q, want %q", out.String(), lines)
	}
}
