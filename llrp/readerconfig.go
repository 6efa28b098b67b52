package llrp

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Identification is the reader's device identity, reported inside
// GetReaderConfigResponse (spec.md §4.1).
type Identification struct {
	IDType uint8
	ID     []byte
}

func decodeIdentification(value []byte) (Identification, error) {
	if len(value) < 1 {
		return Identification{}, fmt.Errorf("%w: Identification needs at least 1 byte, have %d", ErrMalformedResponse, len(value))
	}
	return Identification{
		IDType: value[0],
		ID:     append([]byte(nil), value[1:]...),
	}, nil
}

// ReaderConfigResponse is the decoded body of a GetReaderConfigResponse
// (spec.md §4.1).
type ReaderConfigResponse struct {
	Status         LLRPStatus
	Identification *Identification
}

// DecodeGetReaderConfigResponse decodes a GetReaderConfigResponse payload.
func DecodeGetReaderConfigResponse(payload []byte) (ReaderConfigResponse, error) {
	params, err := ParseParameters(payload)
	if err != nil {
		return ReaderConfigResponse{}, err
	}

	statusParam, ok := findFirst(params, ParameterTypeLLRPStatus)
	if !ok {
		return ReaderConfigResponse{}, fmt.Errorf("%w: GetReaderConfigResponse missing LLRPStatus", ErrMalformedResponse)
	}
	status, err := decodeLLRPStatus(statusParam.Value)
	if err != nil {
		return ReaderConfigResponse{}, err
	}

	resp := ReaderConfigResponse{Status: status}
	for _, p := range params {
		switch p.Type {
		case ParameterTypeLLRPStatus:
			// already handled above
		case ParameterTypeIdentification:
			id, err := decodeIdentification(p.Value)
			if err != nil {
				return ReaderConfigResponse{}, err
			}
			resp.Identification = &id
		default:
			logrus.WithField("type", p.Type).Warn("llrp: unhandled top-level parameter in GetReaderConfigResponse")
		}
	}

	return resp, nil
}
