package session_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtgillespie/llrp-client/llrp"
	"github.com/dtgillespie/llrp-client/transport"
)

// mockReader is a minimal in-process stand-in for an LLRP reader: it
// accepts one connection and, for every inbound frame, invokes handle to
// decide what (if anything) to write back. This mirrors the teacher's own
// runServer/handleRequest shape, generalized from emulating one TLS/RFID
// server to a table of per-test response behaviors.
type mockReader struct {
	listener net.Listener
	t        *testing.T
}

func newMockReader(t *testing.T, handle func(conn net.Conn, msg *llrp.Message)) *mockReader {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	mr := &mockReader{listener: ln, t: t}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			raw, err := transport.ReadFrame(conn)
			if err != nil {
				return
			}
			msg, err := llrp.DecodeMessage(raw)
			if err != nil {
				return
			}
			handle(conn, msg)
		}
	}()

	return mr
}

func (m *mockReader) addr() string {
	return m.listener.Addr().String()
}

func (m *mockReader) close() {
	m.listener.Close()
}

func writeStatusOnlyResponse(t *testing.T, conn net.Conn, respType llrp.MessageType, id uint32, statusCode uint16) {
	t.Helper()
	var payload []byte
	payload = append(payload, byte(llrp.ParameterTypeLLRPStatus>>8), byte(llrp.ParameterTypeLLRPStatus))
	payload = append(payload, 0, 8) // TLV length: 4-byte header + 4-byte value (status + errordesc len)
	payload = append(payload, byte(statusCode>>8), byte(statusCode))
	payload = append(payload, 0, 0) // ErrorDescription length 0

	msg := llrp.NewMessage(respType, id, payload)
	require.NoError(t, transport.WriteFrame(conn, msg.Encode()))
}
