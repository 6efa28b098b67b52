package transport_test

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dtgillespie/llrp-client/transport"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	frame := []byte{0x04, 0x01, 0, 0, 0, 14, 0, 0, 0x03, 0xE9, 0xAA, 0xBB, 0xCC, 0xDD}

	require.NoError(t, transport.WriteFrame(&buf, frame))

	got, err := transport.ReadFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, frame, got)
}

func TestReadFrameHandlesPartialReads(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	frame := []byte{0x04, 0x01, 0, 0, 0, 14, 0, 0, 0x03, 0xE9, 0xAA, 0xBB, 0xCC, 0xDD}

	go func() {
		// dribble the frame out a couple bytes at a time to exercise the
		// "keep reading until length reached" path.
		for i := 0; i < len(frame); i += 3 {
			end := i + 3
			if end > len(frame) {
				end = len(frame)
			}
			server.Write(frame[i:end])
			time.Sleep(time.Millisecond)
		}
	}()

	got, err := transport.ReadFrame(client)
	require.NoError(t, err)
	require.Equal(t, frame, got)
}

func TestReadFrameMalformedLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x04, 0x01, 0, 0, 0, 4, 0, 0, 0, 0})
	_, err := transport.ReadFrame(buf)
	require.ErrorIs(t, err, transport.ErrMalformedFrame)
}

func TestReadFrameUnexpectedEOFOnHeader(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x04, 0x01, 0, 0})
	_, err := transport.ReadFrame(buf)
	require.ErrorIs(t, err, transport.ErrUnexpectedEOF)
}

func TestReadFrameUnexpectedEOFOnPayload(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x04, 0x01, 0, 0, 0, 20, 0, 0, 0x03, 0xE9})
	_, err := transport.ReadFrame(buf)
	require.ErrorIs(t, err, transport.ErrUnexpectedEOF)
}
