package llrp_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtgillespie/llrp-client/llrp"
)

// TestParseParametersRoundTripsKnownTLVSubset exercises property 3: parsing
// the bytes emitted by the AddROSpec builder yields exactly the one
// top-level ROSpec parameter that was encoded.
func TestParseParametersRoundTripsKnownTLVSubset(t *testing.T) {
	msg := llrp.BuildAddROSpec(1001, llrp.ROSpecConfig{
		ROSpecID:               1,
		Priority:               0,
		Antennas:               []uint16{0},
		ROSpecStartTriggerType: 1,
		ROSpecStopTriggerType:  0,
		AISpecStopTriggerType:  0,
		InventoryParamSpecID:   1,
		AIProtocol:             1,
		ROReportTriggerType:    0,
		ROReportTriggerN:       0,
		ReportContentSelector:  0,
	})

	params, err := llrp.ParseParameters(msg.Payload)
	require.NoError(t, err)
	require.Len(t, params, 1)
	require.Equal(t, llrp.ParameterTypeROSpec, params[0].Type)
}

// TestParseParametersRoundTripsEPC96 exercises the TV half of property 3:
// an EPC96 TV parameter round-trips byte-for-byte.
func TestParseParametersRoundTripsEPC96(t *testing.T) {
	epc := bytes.Repeat([]byte{0xAB}, 12)
	buf := append([]byte{0x80 | byte(llrp.ParameterTypeEPC96)}, epc...)

	params, err := llrp.ParseParameters(buf)
	require.NoError(t, err)
	require.Len(t, params, 1)
	require.Equal(t, llrp.ParameterTypeEPC96, params[0].Type)
	require.Equal(t, epc, params[0].Value)
}

// TestEncodeAddROSpecLayout exercises scenario B: the nested
// ROSpecStartTrigger occupies exactly 5 bytes and the top-level ROSpec
// length matches the buffer length.
func TestEncodeAddROSpecLayout(t *testing.T) {
	msg := llrp.BuildAddROSpec(1001, llrp.ROSpecConfig{
		ROSpecID:               1,
		Priority:               0,
		Antennas:               []uint16{0},
		ROSpecStartTriggerType: 1,
		ROSpecStopTriggerType:  0,
		AISpecStopTriggerType:  0,
		InventoryParamSpecID:   1,
		AIProtocol:             1,
		ROReportTriggerType:    0,
		ROReportTriggerN:       0,
		ReportContentSelector:  0,
	})

	encoded := msg.Encode()
	require.Equal(t, uint32(len(encoded))-10, msg.Length-10)

	params, err := llrp.ParseParameters(msg.Payload)
	require.NoError(t, err)
	require.Len(t, params, 1)
	require.Equal(t, llrp.ParameterTypeROSpec, params[0].Type)
	require.Equal(t, int(params[0].Length), len(msg.Payload))

	// skip the ROSpec's fixed fields (ROSpecID 4, Priority 1, CurrentState 1)
	// before its nested parameters.
	sub, err := llrp.ParseParameters(params[0].Value[6:])
	require.NoError(t, err)

	var startTrigger *llrp.Parameter
	for i := range sub {
		if sub[i].Type == llrp.ParameterTypeROBoundarySpec {
			nested, err := llrp.ParseParameters(sub[i].Value)
			require.NoError(t, err)
			for j := range nested {
				if nested[j].Type == llrp.ParameterTypeROSpecStartTrigger {
					startTrigger = &nested[j]
				}
			}
		}
	}
	require.NotNil(t, startTrigger)
	require.EqualValues(t, 5, startTrigger.Length)
}

// TestDecodeEPC96FromTagReportData exercises scenario C: a TagReportData
// TLV wrapping a single EPC96 TV yields one TagReportData whose EPC equals
// the 12 raw bytes.
func TestDecodeEPC96FromTagReportData(t *testing.T) {
	epc := bytes.Repeat([]byte{0x11}, 12)
	tv := append([]byte{0x80 | byte(llrp.ParameterTypeEPC96)}, epc...)

	var tagReportValue []byte
	tagReportValue = append(tagReportValue, tv...)

	var payload []byte
	payload = append(payload, byte(llrp.ParameterTypeTagReportData>>8), byte(llrp.ParameterTypeTagReportData))
	length := 4 + len(tagReportValue)
	payload = append(payload, byte(length>>8), byte(length))
	payload = append(payload, tagReportValue...)

	report, err := llrp.DecodeROAccessReport(payload)
	require.NoError(t, err)
	require.Len(t, report.TagReports, 1)
	require.Equal(t, epc, report.TagReports[0].EPC)
}

// TestUnknownTVTypeAbortsParse exercises scenario D: a TV byte with an
// unregistered type aborts the enclosing parse with ErrUnknownTVType.
func TestUnknownTVTypeAbortsParse(t *testing.T) {
	buf := []byte{0x81, 0xFF, 0xFF, 0xFF}
	_, err := llrp.ParseParameters(buf)
	require.ErrorIs(t, err, llrp.ErrUnknownTVType)
}
