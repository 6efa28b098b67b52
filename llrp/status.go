package llrp

import (
	"encoding/binary"
	"fmt"
)

// LLRPStatus is the status parameter every response-type message carries,
// reporting the reader's success/failure verdict for the request.
// StatusCode 0 is success; any other value is a reader-reported failure the
// caller should surface (e.g. in an ACK-only verb's return).
type LLRPStatus struct {
	StatusCode uint16
	ErrorDesc  uint16
}

// Success reports whether the reader accepted the request (StatusCode 0).
func (s LLRPStatus) Success() bool {
	return s.StatusCode == 0
}

func decodeLLRPStatus(value []byte) (LLRPStatus, error) {
	if len(value) < 4 {
		return LLRPStatus{}, fmt.Errorf("%w: LLRPStatus needs 4 bytes, have %d", ErrMalformedResponse, len(value))
	}
	return LLRPStatus{
		StatusCode: binary.BigEndian.Uint16(value[0:2]),
		ErrorDesc:  binary.BigEndian.Uint16(value[2:4]),
	}, nil
}

// DecodeStatusOnlyResponse decodes the LLRPStatus parameter out of an
// ACK-only response payload (SetReaderConfigResponse, AddROSpecResponse,
// EnableROSpecResponse, StartROSpecResponse, StopROSpecResponse,
// DeleteROSpecResponse) — every one of these carries nothing but a leading
// LLRPStatus, per spec.md §4.4's "ACK only" notes.
func DecodeStatusOnlyResponse(payload []byte) (LLRPStatus, error) {
	params, err := ParseParameters(payload)
	if err != nil {
		return LLRPStatus{}, err
	}
	statusParam, ok := findFirst(params, ParameterTypeLLRPStatus)
	if !ok {
		return LLRPStatus{}, fmt.Errorf("%w: response missing LLRPStatus", ErrMalformedResponse)
	}
	return decodeLLRPStatus(statusParam.Value)
}
