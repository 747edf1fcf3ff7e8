package mip

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerSendASCIICleansUpTempFile(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("ABC\n"), 0644))

	var receivedBlocks [][]byte

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	addr := ln.Addr().String()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		readFrameRaw(t, conn)
		writeFrameRaw(t, conn, buildTrailer998(0))
		for {
			frame := readFrameRaw(t, conn)
			if recordCode(frame) == codeTrailer {
				writeFrameRaw(t, conn, buildTrailer998(0))
				return
			}
			receivedBlocks = append(receivedBlocks, frame[1:])
		}
	}()

	before, err := filepath.Glob(filepath.Join(os.TempDir(), "mip-*.ipm"))
	require.NoError(t, err)

	manager := NewManager()
	err = manager.Send(addr, "R1120015700101", textPath, ASCII)
	require.NoError(t, err)

	after, err := filepath.Glob(filepath.Join(os.TempDir(), "mip-*.ipm"))
	require.NoError(t, err)
	require.Equal(t, len(before), len(after), "temp IPM file must be removed after send")

	var wire []byte
	for _, b := range receivedBlocks {
		wire = append(wire, b...)
	}
	require.Len(t, wire, 1014)

	var decoded bytes.Buffer
	require.NoError(t, NewConverter(nil).Decode(bytes.NewReader(wire), &decoded))
	require.Equal(t, "ABC\n", decoded.String())
}

func TestManagerReceiveASCIIDecodesToRequestedPath(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "output.txt")

	var ipm bytes.Buffer
	require.NoError(t, NewConverter(nil).Encode(bytes.NewReader([]byte("hello\n")), &ipm))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	addr := ln.Addr().String()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		readFrameRaw(t, conn)
		header := buildHeader004("T1120015700101")
		writeFrameRaw(t, conn, header)

		dataFrame := append([]byte{dirReceive}, ipm.Bytes()...)
		writeFrameRaw(t, conn, dataFrame)
		writeFrameRaw(t, conn, buildTrailer998(1))

		readFrameRaw(t, conn)
		writeFrameRaw(t, conn, buildTrailer998(0))
	}()

	before, err := filepath.Glob(filepath.Join(os.TempDir(), "mip-*.ipm"))
	require.NoError(t, err)

	manager := NewManager()
	ss, err := manager.Receive(addr, "T1120015700101", outPath, ASCII)
	require.NoError(t, err)
	require.Equal(t, 1, ss)

	after, err := filepath.Glob(filepath.Join(os.TempDir(), "mip-*.ipm"))
	require.NoError(t, err)
	require.Equal(t, len(before), len(after), "temp IPM file must be removed after receive")

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "hello\n", string(got))
}
