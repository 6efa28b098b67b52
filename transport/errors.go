package transport

import "errors"

// ErrUnexpectedEOF reports the peer closing the connection before a
// complete frame (header or declared length) was read.
var ErrUnexpectedEOF = errors.New("transport: connection closed before complete frame")

// ErrMalformedFrame reports a header declaring an impossible length.
var ErrMalformedFrame = errors.New("transport: malformed frame header")
