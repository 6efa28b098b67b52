package llrp

import "errors"

// Sentinel errors for the codec layer, checked with errors.Is by callers.
var (
	// ErrMalformedFrame is returned when a header's length field is out of
	// range, or the declared payload does not fit the supplied buffer.
	ErrMalformedFrame = errors.New("llrp: malformed frame")
	// ErrUnknownMessageType names a 10-bit message type absent from the
	// registry. DecodeMessage does not return it (it maps such a type to
	// MessageTypeUnknown); it is available to callers that treat an unknown
	// type as a hard failure.
	ErrUnknownMessageType = errors.New("llrp: unknown message type")
	// ErrUnknownTVType is returned when a TV parameter's 7-bit type has no
	// entry in the fixed-size table — the enclosing parse cannot continue
	// because the parameter's length is unknowable.
	ErrUnknownTVType = errors.New("llrp: unknown TV parameter type")
	// ErrMalformedResponse is returned when a required top-level parameter
	// is missing from a response body, or a sub-parameter's fixed fields
	// don't fit the available bytes.
	ErrMalformedResponse = errors.New("llrp: malformed response")
)
