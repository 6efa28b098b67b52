package llrp

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Parameter is one decoded TLV or TV parameter: the type, its declared
// on-wire length (including the type/length header bytes), and its raw
// value bytes (sub-parameters, if any, are not pre-parsed — callers that
// know a type carries sub-parameters re-invoke ParseParameters over
// Value, per spec.md §4.1).
type Parameter struct {
	Type   ParameterType
	Length uint16
	Value  []byte
}

// containerTypes is the explicit allow-list of TLV types known to carry
// nested sub-parameters (spec.md §9 Open Question: "define the allow-list
// explicitly ... reject unknown TLV containers as opaque rather than
// silently descend into them"). ParseParameters itself does not
// auto-recurse; the typed decoders in capabilities.go and report.go recurse
// through parseSubParameters, which refuses any type missing from this set.
var containerTypes = map[ParameterType]bool{
	ParameterTypeGeneralDeviceCapabilities: true,
	ParameterTypeRegulatoryCapabilities:    true,
	ParameterTypeUHFBandCapabilities:       true,
	ParameterTypeFrequencyInformation:      true,
	ParameterTypeC1G2UHFRFModeTable:        true,
	ParameterTypeTagReportData:             true,
}

// IsContainerType reports whether t is in the explicit sub-parameter
// allow-list.
func IsContainerType(t ParameterType) bool {
	return containerTypes[t]
}

// parseSubParameters re-invokes ParseParameters over a container
// parameter's value, gated by IsContainerType: a decoder that tries to
// recurse into a type missing from the allow-list fails loudly instead of
// silently descending into it.
func parseSubParameters(t ParameterType, value []byte) ([]Parameter, error) {
	if !IsContainerType(t) {
		return nil, fmt.Errorf("%w: %v is not a registered container type", ErrMalformedResponse, t)
	}
	return ParseParameters(value)
}

// ParseParameters walks buf and returns the flat sequence of top-level
// parameters it contains, per spec.md §4.1: bit 7 of the first byte
// selects TV (set) vs TLV (clear) encoding.
func ParseParameters(buf []byte) ([]Parameter, error) {
	var params []Parameter

	for len(buf) > 0 {
		first := buf[0]

		if first&0x80 != 0 {
			// TV: 7-bit type, fixed size from the static table.
			typeValue := uint16(first & 0x7F)
			pt := ParameterTypeFromValue(typeValue)
			size, ok := tvFixedSizes[pt]
			if !ok {
				return nil, fmt.Errorf("%w: TV type %d", ErrUnknownTVType, typeValue)
			}
			buf = buf[1:]
			if len(buf) < size {
				return nil, fmt.Errorf("%w: TV type %d needs %d bytes, have %d", ErrMalformedResponse, typeValue, size, len(buf))
			}
			params = append(params, Parameter{
				Type:   pt,
				Length: uint16(1 + size),
				Value:  append([]byte(nil), buf[:size]...),
			})
			buf = buf[size:]
			continue
		}

		// TLV: 16-bit type, 16-bit length (including the 4-byte header).
		if len(buf) < 4 {
			return nil, fmt.Errorf("%w: TLV header needs 4 bytes, have %d", ErrMalformedResponse, len(buf))
		}
		typeValue := binary.BigEndian.Uint16(buf[0:2])
		length := binary.BigEndian.Uint16(buf[2:4])
		if length < 4 {
			return nil, fmt.Errorf("%w: TLV length %d below minimum 4", ErrMalformedResponse, length)
		}
		valueLen := int(length) - 4
		if len(buf) < 4+valueLen {
			return nil, fmt.Errorf("%w: TLV declares %d bytes, have %d", ErrMalformedResponse, valueLen, len(buf)-4)
		}
		value := buf[4 : 4+valueLen]
		pt := ParameterTypeFromValue(typeValue)
		if pt == ParameterTypeUnknown {
			logrus.WithField("type", typeValue).Debug("llrp: surfacing unknown TLV parameter as opaque")
		}
		params = append(params, Parameter{
			Type:   pt,
			Length: length,
			Value:  append([]byte(nil), value...),
		})
		buf = buf[4+valueLen:]
	}

	return params, nil
}

// findFirst returns the first parameter of type t in params, or false.
func findFirst(params []Parameter, t ParameterType) (Parameter, bool) {
	for _, p := range params {
		if p.Type == t {
			return p, true
		}
	}
	return Parameter{}, false
}
