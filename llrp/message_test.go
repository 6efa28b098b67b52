package llrp_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtgillespie/llrp-client/llrp"
)

// TestEncodeDecodeRoundTrip exercises property 1: decode(encode(m)) == m
// for type, id, and payload.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []*llrp.Message{
		llrp.NewMessage(llrp.MessageTypeGetReaderCapabilities, 1001, []byte{0}),
		llrp.NewMessage(llrp.MessageTypeKeepalive, 1002, nil),
		llrp.NewMessage(llrp.MessageTypeCloseConnection, 4294967295, nil),
	}

	for _, m := range cases {
		encoded := m.Encode()
		decoded, err := llrp.DecodeMessage(encoded)
		require.NoError(t, err)
		require.Equal(t, m.Type, decoded.Type)
		require.Equal(t, m.ID, decoded.ID)
		require.Equal(t, m.Payload, decoded.Payload)
	}
}

// TestDecodeMessageMalformedLength exercises property 4: a header
// declaring a length larger than the buffer, or below 10, is always
// MalformedFrame.
func TestDecodeMessageMalformedLength(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{
			name: "length exceeds buffer",
			buf:  []byte{0x04, 0x01, 0, 0, 0, 50, 0, 0, 0x03, 0xE9},
		},
		{
			name: "length below header size",
			buf:  []byte{0x04, 0x01, 0, 0, 0, 9, 0, 0, 0x03, 0xE9},
		},
		{
			name: "buffer shorter than header",
			buf:  []byte{0x04, 0x01, 0, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := llrp.DecodeMessage(tc.buf)
			require.ErrorIs(t, err, llrp.ErrMalformedFrame)
		})
	}
}

// TestVersionTypeBitLayout pins the authoritative bit layout from spec.md
// §9: reserved(3) | version(3) | type(10).
func TestVersionTypeBitLayout(t *testing.T) {
	m := llrp.NewMessage(llrp.MessageTypeKeepalive, 1, nil)
	encoded := m.Encode()

	versionAndType := uint16(encoded[0])<<8 | uint16(encoded[1])
	require.Equal(t, uint16(llrp.MessageTypeKeepalive), versionAndType&0x3FF)
	require.Equal(t, uint16(1), (versionAndType>>10)&0x7)
}
