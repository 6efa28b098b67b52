package llrp

import (
	"encoding/hex"
	"fmt"

	"github.com/sirupsen/logrus"
)

// TagReportData is one tag observation inside an ROAccessReport. EPC is
// always populated (from either the TLV EPCData or the TV EPC96 encoding,
// spec.md §4.1); EPCHex is a convenience rendering for logging and the
// admin-surface JSON view.
type TagReportData struct {
	EPC    []byte
	EPCHex string
}

// ROAccessReport is the decoded body of an ROAccessReport message (spec.md
// §4.1, §4.3): a batch of tag reads the reader pushes asynchronously.
type ROAccessReport struct {
	TagReports []TagReportData
}

// DecodeROAccessReport decodes an ROAccessReport payload: zero or more
// TagReportData parameters, each carrying exactly one EPC identifier as
// either the TLV EPCData sub-parameter or the TV EPC96 sub-parameter.
func DecodeROAccessReport(payload []byte) (ROAccessReport, error) {
	params, err := ParseParameters(payload)
	if err != nil {
		return ROAccessReport{}, err
	}

	var report ROAccessReport
	for _, p := range params {
		if p.Type != ParameterTypeTagReportData {
			logrus.WithField("type", p.Type).Warn("llrp: unexpected top-level parameter in ROAccessReport")
			continue
		}
		tag, err := decodeTagReportData(p.Value)
		if err != nil {
			return ROAccessReport{}, err
		}
		report.TagReports = append(report.TagReports, tag)
	}

	return report, nil
}

func decodeTagReportData(value []byte) (TagReportData, error) {
	sub, err := parseSubParameters(ParameterTypeTagReportData, value)
	if err != nil {
		return TagReportData{}, err
	}

	if epc, ok := findFirst(sub, ParameterTypeEPCData); ok {
		raw, err := decodeEPCData(epc.Value)
		if err != nil {
			return TagReportData{}, err
		}
		return TagReportData{EPC: raw, EPCHex: hex.EncodeToString(raw)}, nil
	}
	if epc96, ok := findFirst(sub, ParameterTypeEPC96); ok {
		return TagReportData{EPC: epc96.Value, EPCHex: hex.EncodeToString(epc96.Value)}, nil
	}

	return TagReportData{}, fmt.Errorf("%w: TagReportData has neither EPCData nor EPC96", ErrMalformedResponse)
}

func decodeEPCData(value []byte) ([]byte, error) {
	if len(value) < 2 {
		return nil, fmt.Errorf("%w: EPCData needs 2-byte bit-length prefix", ErrMalformedResponse)
	}
	bitLength := int(value[0])<<8 | int(value[1])
	byteLength := (bitLength + 7) / 8
	rest := value[2:]
	if len(rest) < byteLength {
		return nil, fmt.Errorf("%w: EPCData shorter than declared bit length", ErrMalformedResponse)
	}
	return append([]byte(nil), rest[:byteLength]...), nil
}
