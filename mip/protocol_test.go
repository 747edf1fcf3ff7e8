package mip

import (
	"bytes"
	"io"
	"net"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// listen starts a one-shot TCP listener on an ephemeral local port and
// returns its address plus the accepted connection, handed to handler
// in its own goroutine.
func listen(t *testing.T, handler func(conn net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handler(conn)
	}()

	return ln.Addr().String()
}

func readFrameRaw(t *testing.T, conn net.Conn) []byte {
	t.Helper()
	lenBuf := make([]byte, 2)
	_, err := io.ReadFull(conn, lenBuf)
	require.NoError(t, err)
	l := getUint16BE(lenBuf)
	buf := make([]byte, l)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	return buf
}

func writeFrameRaw(t *testing.T, conn net.Conn, payload []byte) {
	t.Helper()
	buf := make([]byte, 2+len(payload))
	copy(buf, putUint16BE(uint16(len(payload))))
	copy(buf[2:], payload)
	_, err := conn.Write(buf)
	require.NoError(t, err)
}

func TestSendDialogueHappyPath(t *testing.T) {
	fileData := bytes.Repeat([]byte{0xAA}, 3000)
	var receivedFrames [][]byte

	addr := listen(t, func(conn net.Conn) {
		header := readFrameRaw(t, conn)
		require.Equal(t, codeHeader, recordCode(header))
		writeFrameRaw(t, conn, buildTrailer998(0))

		for {
			frame := readFrameRaw(t, conn)
			if recordCode(frame) == codeTrailer {
				writeFrameRaw(t, conn, buildTrailer998(0))
				return
			}
			require.Equal(t, byte(dirSend), frame[0])
			receivedFrames = append(receivedFrames, frame[1:])
		}
	})

	session := NewSession()
	err := session.Send(addr, "R1120015700101", bytes.NewReader(fileData), int64(len(fileData)))
	require.NoError(t, err)

	var reassembled []byte
	for _, f := range receivedFrames {
		reassembled = append(reassembled, f...)
	}
	require.Equal(t, fileData, reassembled)
	require.Len(t, receivedFrames, 3) // 1014, 1014, 972
	require.Equal(t, 1014, len(receivedFrames[0]))
	require.Equal(t, 1014, len(receivedFrames[1]))
	require.Equal(t, 972, len(receivedFrames[2]))
}

func TestSendDialogueRejectsNonSendDirection(t *testing.T) {
	session := NewSession()
	err := session.Send("127.0.0.1:0", "T1120015700101", bytes.NewReader(nil), 0)
	require.Error(t, err)
	require.True(t, IsKind(err, UsageError))
}

func TestSendDialogueNonZeroAckFails(t *testing.T) {
	addr := listen(t, func(conn net.Conn) {
		readFrameRaw(t, conn)
		ack := buildTrailer998(0)
		copy(ack[5:7], encodeEBCDIC("09"))
		writeFrameRaw(t, conn, ack)
	})

	session := NewSession()
	err := session.Send(addr, "R1120015700101", bytes.NewReader([]byte("x")), 1)
	require.Error(t, err)
	require.True(t, IsKind(err, ProtocolError))
}

func TestReceiveSequenceScanAndDataExtraction(t *testing.T) {
	txid := "T1120015700101"
	payload := bytes.Repeat([]byte{0xBB}, 1014)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	addr := ln.Addr().String()

	go func() {
		// Attempt 1 (SS=01): decline.
		conn1, err := ln.Accept()
		if err != nil {
			return
		}
		readFrameRaw(t, conn1)
		decline := buildTrailer998(0)
		copy(decline[5:7], encodeEBCDIC("09"))
		writeFrameRaw(t, conn1, decline)
		conn1.Close()

		// Attempt 2 (SS=02): header + one data frame + trailer.
		conn2, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn2.Close()
		readFrameRaw(t, conn2)
		header := buildHeader004("T1120015700102")
		writeFrameRaw(t, conn2, header)

		dataFrame := append([]byte{dirReceive}, payload...)
		writeFrameRaw(t, conn2, dataFrame)
		writeFrameRaw(t, conn2, buildTrailer998(1))

		purge := readFrameRaw(t, conn2)
		require.Equal(t, codePurge, recordCode(purge))
		writeFrameRaw(t, conn2, buildTrailer998(0))
	}()

	session := NewSession()
	var out bytes.Buffer
	ss, err := session.Receive(addr, txid, &out)
	require.NoError(t, err)
	require.Equal(t, 2, ss)
	require.Equal(t, payload, out.Bytes())
}

func TestReceiveAbortsScanOnPostHeaderFailure(t *testing.T) {
	// Regression: once a 004 header is found for some SS, a later
	// failure in that same dialogue (here, a trailer with a non-zero
	// return code, which is a ProtocolError and not a NetworkError)
	// must abort the whole receive rather than be treated as "this SS
	// had nothing, try SS+1" — dst already holds the bytes written by
	// the failed attempt, and letting a later attempt succeed would
	// silently append after that partial write.
	txid := "T1120015700101"
	var secondAttemptStarted atomic.Bool

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	addr := ln.Addr().String()

	go func() {
		// Attempt 1 (SS=01): header, one data frame, then a trailer
		// reporting a non-zero return code.
		conn1, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn1.Close()
		readFrameRaw(t, conn1)
		writeFrameRaw(t, conn1, buildHeader004("T1120015700101"))
		writeFrameRaw(t, conn1, append([]byte{dirReceive}, bytes.Repeat([]byte{0xCC}, 10)...))
		badTrailer := buildTrailer998(1)
		copy(badTrailer[5:7], encodeEBCDIC("09"))
		writeFrameRaw(t, conn1, badTrailer)

		// Attempt 2 (SS=02) must never be dialed if the fix is correct.
		conn2, err := ln.Accept()
		if err != nil {
			return
		}
		secondAttemptStarted.Store(true)
		conn2.Close()
	}()

	session := NewSession()
	var out bytes.Buffer
	_, err = session.Receive(addr, txid, &out)
	require.Error(t, err)
	require.False(t, secondAttemptStarted.Load(), "scan must abort, not retry, after a post-header failure")
}

func TestReceiveNotFoundAfterExhaustingScan(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	addr := ln.Addr().String()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			readFrameRaw(t, conn)
			decline := buildTrailer998(0)
			copy(decline[5:7], encodeEBCDIC("09"))
			writeFrameRaw(t, conn, decline)
			conn.Close()
		}
	}()

	session := NewSession()
	var out bytes.Buffer
	_, err = session.Receive(addr, "T1120015700199", &out)
	require.Error(t, err)
	require.True(t, IsKind(err, NotFoundError))
}
