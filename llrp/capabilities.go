package llrp

import (
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ReaderCapabilities is the decoded body of a GetReaderCapabilitiesResponse
// (spec.md §4.1).
type ReaderCapabilities struct {
	Status               LLRPStatus
	GeneralDevice        GeneralDeviceCapabilities
	LLRP                 LLRPCapabilities
	Regulatory           RegulatoryCapabilities
	C1G2                 C1G2LLRPCapabilities
}

// GeneralDeviceCapabilities per spec.md §4.1.
type GeneralDeviceCapabilities struct {
	MaxNumberOfAntennasSupported uint16
	CanSetAntennaProperties      bool
	HasUTCClockCapability        bool
	DeviceManufacturerName       uint32
	ModelName                    uint32
	FirmwareVersion              string
	ReceiveSensitivityTable      []ReceiveSensitivityTableEntry
	GPIO                         *GPIOCapabilities
	PerAntennaAirProtocols       []PerAntennaAirProtocol
}

// ReceiveSensitivityTableEntry per spec.md §4.1.
type ReceiveSensitivityTableEntry struct {
	Index                    uint16
	ReceiveSensitivityValue  int16
}

// GPIOCapabilities per spec.md §4.1.
type GPIOCapabilities struct {
	NumGPIPorts uint16
	NumGPOPorts uint16
}

// PerAntennaAirProtocol per spec.md §4.1.
type PerAntennaAirProtocol struct {
	AntennaID   uint16
	ProtocolIDs []uint8
}

func decodeGeneralDeviceCapabilities(value []byte) (GeneralDeviceCapabilities, error) {
	if len(value) < 12 {
		return GeneralDeviceCapabilities{}, fmt.Errorf("%w: GeneralDeviceCapabilities needs 12 bytes, have %d", ErrMalformedResponse, len(value))
	}
	maxAntennas := binary.BigEndian.Uint16(value[0:2])
	flags := binary.BigEndian.Uint16(value[2:4])
	manufacturer := binary.BigEndian.Uint32(value[4:8])
	model := binary.BigEndian.Uint32(value[8:12])

	rest := value[12:]
	if len(rest) < 2 {
		return GeneralDeviceCapabilities{}, fmt.Errorf("%w: missing firmware length prefix", ErrMalformedResponse)
	}
	firmwareLen := int(binary.BigEndian.Uint16(rest[0:2]))
	rest = rest[2:]
	if len(rest) < firmwareLen {
		return GeneralDeviceCapabilities{}, fmt.Errorf("%w: firmware string shorter than declared length", ErrMalformedResponse)
	}
	firmware := string(rest[:firmwareLen])
	rest = rest[firmwareLen:]

	sub, err := parseSubParameters(ParameterTypeGeneralDeviceCapabilities, rest)
	if err != nil {
		return GeneralDeviceCapabilities{}, err
	}

	gdc := GeneralDeviceCapabilities{
		MaxNumberOfAntennasSupported: maxAntennas,
		CanSetAntennaProperties:      flags&0x8000 != 0,
		HasUTCClockCapability:        flags&0x4000 != 0,
		DeviceManufacturerName:       manufacturer,
		ModelName:                    model,
		FirmwareVersion:              firmware,
	}

	for _, p := range sub {
		switch p.Type {
		case ParameterTypeReceiveSensitivityTableEntry:
			entry, err := decodeReceiveSensitivityTableEntry(p.Value)
			if err != nil {
				return GeneralDeviceCapabilities{}, err
			}
			gdc.ReceiveSensitivityTable = append(gdc.ReceiveSensitivityTable, entry)
		case ParameterTypeGPIOCapabilities:
			gpio, err := decodeGPIOCapabilities(p.Value)
			if err != nil {
				return GeneralDeviceCapabilities{}, err
			}
			gdc.GPIO = &gpio
		case ParameterTypePerAntennaAirProtocol:
			proto, err := decodePerAntennaAirProtocol(p.Value)
			if err != nil {
				return GeneralDeviceCapabilities{}, err
			}
			gdc.PerAntennaAirProtocols = append(gdc.PerAntennaAirProtocols, proto)
		default:
			logrus.WithField("type", p.Type).Warn("llrp: unhandled sub-parameter in GeneralDeviceCapabilities")
		}
	}

	return gdc, nil
}

func decodeReceiveSensitivityTableEntry(value []byte) (ReceiveSensitivityTableEntry, error) {
	if len(value) < 4 {
		return ReceiveSensitivityTableEntry{}, fmt.Errorf("%w: ReceiveSensitivityTableEntry needs 4 bytes", ErrMalformedResponse)
	}
	return ReceiveSensitivityTableEntry{
		Index:                   binary.BigEndian.Uint16(value[0:2]),
		ReceiveSensitivityValue: int16(binary.BigEndian.Uint16(value[2:4])),
	}, nil
}

func decodeGPIOCapabilities(value []byte) (GPIOCapabilities, error) {
	if len(value) < 4 {
		return GPIOCapabilities{}, fmt.Errorf("%w: GPIOCapabilities needs 4 bytes", ErrMalformedResponse)
	}
	return GPIOCapabilities{
		NumGPIPorts: binary.BigEndian.Uint16(value[0:2]),
		NumGPOPorts: binary.BigEndian.Uint16(value[2:4]),
	}, nil
}

func decodePerAntennaAirProtocol(value []byte) (PerAntennaAirProtocol, error) {
	if len(value) < 3 {
		return PerAntennaAirProtocol{}, fmt.Errorf("%w: PerAntennaAirProtocol needs 3 bytes", ErrMalformedResponse)
	}
	antennaID := binary.BigEndian.Uint16(value[0:2])
	numProtocols := int(value[2])
	rest := value[3:]
	if len(rest) < numProtocols {
		return PerAntennaAirProtocol{}, fmt.Errorf("%w: PerAntennaAirProtocol protocol list truncated", ErrMalformedResponse)
	}
	return PerAntennaAirProtocol{
		AntennaID:   antennaID,
		ProtocolIDs: append([]byte(nil), rest[:numProtocols]...),
	}, nil
}

// LLRPCapabilities per spec.md §4.1.
type LLRPCapabilities struct {
	CanDoRFSurvey                           bool
	CanReportBufferFillWarning              bool
	SupportsClientRequestOpSpec             bool
	CanDoTagInventoryStateAwareSingulation  bool
	SupportsEventAndReportHolding           bool
	MaxNumPriorityLevelsSupported           uint8
	ClientRequestOpSpecTimeout              uint16
	MaxNumROSpecs                           uint32
	MaxNumSpecsPerROSpec                    uint32
	MaxNumInventoryParameterSpecsPerAISpec  uint32
	MaxNumAccessSpecs                       uint32
	MaxNumOpSpecsPerAccessSpec              uint32
}

func decodeLLRPCapabilities(value []byte) (LLRPCapabilities, error) {
	if len(value) < 24 {
		return LLRPCapabilities{}, fmt.Errorf("%w: LLRPCapabilities needs 24 bytes, have %d", ErrMalformedResponse, len(value))
	}
	flags := value[0]
	return LLRPCapabilities{
		CanDoRFSurvey:                          flags&0x80 != 0,
		CanReportBufferFillWarning:             flags&0x40 != 0,
		SupportsClientRequestOpSpec:            flags&0x20 != 0,
		CanDoTagInventoryStateAwareSingulation: flags&0x10 != 0,
		SupportsEventAndReportHolding:          flags&0x08 != 0,
		MaxNumPriorityLevelsSupported:          value[1],
		ClientRequestOpSpecTimeout:             binary.BigEndian.Uint16(value[2:4]),
		MaxNumROSpecs:                          binary.BigEndian.Uint32(value[4:8]),
		MaxNumSpecsPerROSpec:                   binary.BigEndian.Uint32(value[8:12]),
		MaxNumInventoryParameterSpecsPerAISpec: binary.BigEndian.Uint32(value[12:16]),
		MaxNumAccessSpecs:                      binary.BigEndian.Uint32(value[16:20]),
		MaxNumOpSpecsPerAccessSpec:             binary.BigEndian.Uint32(value[20:24]),
	}, nil
}

// RegulatoryCapabilities per spec.md §4.1.
type RegulatoryCapabilities struct {
	CountryCode            uint16
	CommunicationsStandard uint16
	UHFBand                *UHFBandCapabilities
}

func decodeRegulatoryCapabilities(value []byte) (RegulatoryCapabilities, error) {
	if len(value) < 4 {
		return RegulatoryCapabilities{}, fmt.Errorf("%w: RegulatoryCapabilities needs 4 bytes", ErrMalformedResponse)
	}
	countryCode := binary.BigEndian.Uint16(value[0:2])
	commsStandard := binary.BigEndian.Uint16(value[2:4])

	sub, err := parseSubParameters(ParameterTypeRegulatoryCapabilities, value[4:])
	if err != nil {
		return RegulatoryCapabilities{}, err
	}

	rc := RegulatoryCapabilities{CountryCode: countryCode, CommunicationsStandard: commsStandard}
	for _, p := range sub {
		if p.Type == ParameterTypeUHFBandCapabilities {
			uhf, err := decodeUHFBandCapabilities(p.Value)
			if err != nil {
				return RegulatoryCapabilities{}, err
			}
			rc.UHFBand = &uhf
		} else {
			logrus.WithField("type", p.Type).Warn("llrp: unhandled sub-parameter in RegulatoryCapabilities")
		}
	}
	return rc, nil
}

// UHFBandCapabilities per spec.md §4.1.
type UHFBandCapabilities struct {
	TransmitPowerLevels []TransmitPowerLevelTableEntry
	FrequencyInfo       *FrequencyInformation
	C1G2UHFRFModeTable  *C1G2UHFRFModeTable
}

// TransmitPowerLevelTableEntry per spec.md §4.1.
type TransmitPowerLevelTableEntry struct {
	Index               uint16
	TransmitPowerValue  uint16
}

func decodeUHFBandCapabilities(value []byte) (UHFBandCapabilities, error) {
	sub, err := parseSubParameters(ParameterTypeUHFBandCapabilities, value)
	if err != nil {
		return UHFBandCapabilities{}, err
	}
	var uhf UHFBandCapabilities
	for _, p := range sub {
		switch p.Type {
		case ParameterTypeTransmitPowerLevelTableEntry:
			if len(p.Value) < 4 {
				return UHFBandCapabilities{}, fmt.Errorf("%w: TransmitPowerLevelTableEntry needs 4 bytes", ErrMalformedResponse)
			}
			uhf.TransmitPowerLevels = append(uhf.TransmitPowerLevels, TransmitPowerLevelTableEntry{
				Index:              binary.BigEndian.Uint16(p.Value[0:2]),
				TransmitPowerValue: binary.BigEndian.Uint16(p.Value[2:4]),
			})
		case ParameterTypeFrequencyInformation:
			fi, err := decodeFrequencyInformation(p.Value)
			if err != nil {
				return UHFBandCapabilities{}, err
			}
			uhf.FrequencyInfo = &fi
		case ParameterTypeC1G2UHFRFModeTable:
			table, err := decodeC1G2UHFRFModeTable(p.Value)
			if err != nil {
				return UHFBandCapabilities{}, err
			}
			uhf.C1G2UHFRFModeTable = &table
		default:
			logrus.WithField("type", p.Type).Warn("llrp: unhandled sub-parameter in UHFBandCapabilities")
		}
	}
	return uhf, nil
}

// FrequencyInformation per spec.md §4.1.
type FrequencyInformation struct {
	Hopping           bool
	HopTables         []FrequencyHopTable
	FixedFrequencyTable *FixedFrequencyTable
}

// FrequencyHopTable per spec.md §4.1.
type FrequencyHopTable struct {
	HopTableID    uint16
	NumberOfHops  uint16
	Frequencies   []uint32
}

// FixedFrequencyTable per spec.md §4.1.
type FixedFrequencyTable struct {
	Frequencies []uint32
}

func decodeFrequencyInformation(value []byte) (FrequencyInformation, error) {
	if len(value) < 1 {
		return FrequencyInformation{}, fmt.Errorf("%w: FrequencyInformation needs 1 byte", ErrMalformedResponse)
	}
	hopping := value[0] != 0
	sub, err := parseSubParameters(ParameterTypeFrequencyInformation, value[1:])
	if err != nil {
		return FrequencyInformation{}, err
	}
	fi := FrequencyInformation{Hopping: hopping}
	for _, p := range sub {
		switch p.Type {
		case ParameterTypeFrequencyHopTable:
			ht, err := decodeFrequencyHopTable(p.Value)
			if err != nil {
				return FrequencyInformation{}, err
			}
			fi.HopTables = append(fi.HopTables, ht)
		case ParameterTypeFixedFrequencyTable:
			ft, err := decodeFixedFrequencyTable(p.Value)
			if err != nil {
				return FrequencyInformation{}, err
			}
			fi.FixedFrequencyTable = &ft
		default:
			logrus.WithField("type", p.Type).Warn("llrp: unhandled sub-parameter in FrequencyInformation")
		}
	}
	return fi, nil
}

func decodeFrequencyHopTable(value []byte) (FrequencyHopTable, error) {
	if len(value) < 6 {
		return FrequencyHopTable{}, fmt.Errorf("%w: FrequencyHopTable needs 6 bytes", ErrMalformedResponse)
	}
	hopTableID := binary.BigEndian.Uint16(value[0:2])
	numberOfHops := binary.BigEndian.Uint16(value[2:4])
	numFrequencies := int(binary.BigEndian.Uint16(value[4:6]))
	rest := value[6:]
	if len(rest) < numFrequencies*4 {
		return FrequencyHopTable{}, fmt.Errorf("%w: FrequencyHopTable frequencies truncated", ErrMalformedResponse)
	}
	freqs := make([]uint32, numFrequencies)
	for i := 0; i < numFrequencies; i++ {
		freqs[i] = binary.BigEndian.Uint32(rest[i*4 : i*4+4])
	}
	return FrequencyHopTable{HopTableID: hopTableID, NumberOfHops: numberOfHops, Frequencies: freqs}, nil
}

func decodeFixedFrequencyTable(value []byte) (FixedFrequencyTable, error) {
	if len(value) < 2 {
		return FixedFrequencyTable{}, fmt.Errorf("%w: FixedFrequencyTable needs 2 bytes", ErrMalformedResponse)
	}
	numFrequencies := int(binary.BigEndian.Uint16(value[0:2]))
	rest := value[2:]
	if len(rest) < numFrequencies*4 {
		return FixedFrequencyTable{}, fmt.Errorf("%w: FixedFrequencyTable frequencies truncated", ErrMalformedResponse)
	}
	freqs := make([]uint32, numFrequencies)
	for i := 0; i < numFrequencies; i++ {
		freqs[i] = binary.BigEndian.Uint32(rest[i*4 : i*4+4])
	}
	return FixedFrequencyTable{Frequencies: freqs}, nil
}

// C1G2UHFRFModeTable per spec.md §4.1.
type C1G2UHFRFModeTable struct {
	Entries []C1G2UHFRFModeTableEntry
}

// C1G2UHFRFModeTableEntry per spec.md §4.1.
type C1G2UHFRFModeTableEntry struct {
	ModeIdentifier            uint32
	DR                        bool
	EPCHagTAndCConformance    bool
	M                         uint8
	ForwardLinkModulation     uint8
	SpectralMaskIndicator     uint8
	BDR                       uint32
	PIE                       uint32
	MinTari                   uint32
	MaxTari                   uint32
}

func decodeC1G2UHFRFModeTable(value []byte) (C1G2UHFRFModeTable, error) {
	sub, err := parseSubParameters(ParameterTypeC1G2UHFRFModeTable, value)
	if err != nil {
		return C1G2UHFRFModeTable{}, err
	}
	var table C1G2UHFRFModeTable
	for _, p := range sub {
		if p.Type != ParameterTypeC1G2UHFRFModeTableEntry {
			logrus.WithField("type", p.Type).Warn("llrp: unexpected parameter in C1G2UHFRFModeTable")
			continue
		}
		entry, err := decodeC1G2UHFRFModeTableEntry(p.Value)
		if err != nil {
			return C1G2UHFRFModeTable{}, err
		}
		table.Entries = append(table.Entries, entry)
	}
	return table, nil
}

func decodeC1G2UHFRFModeTableEntry(value []byte) (C1G2UHFRFModeTableEntry, error) {
	if len(value) < 24 {
		return C1G2UHFRFModeTableEntry{}, fmt.Errorf("%w: C1G2UHFRFModeTableEntry needs 24 bytes, have %d", ErrMalformedResponse, len(value))
	}
	modeIdentifier := binary.BigEndian.Uint32(value[0:4])
	flags := value[4]
	return C1G2UHFRFModeTableEntry{
		ModeIdentifier:         modeIdentifier,
		DR:                     flags&0x80 != 0,
		EPCHagTAndCConformance: flags&0x40 != 0,
		M:                      value[5],
		ForwardLinkModulation:  value[6],
		SpectralMaskIndicator:  value[7],
		BDR:                    binary.BigEndian.Uint32(value[8:12]),
		PIE:                    binary.BigEndian.Uint32(value[12:16]),
		MinTari:                binary.BigEndian.Uint32(value[16:20]),
		MaxTari:                binary.BigEndian.Uint32(value[20:24]),
	}, nil
}

// C1G2LLRPCapabilities per spec.md §4.1.
type C1G2LLRPCapabilities struct {
	SupportsBlockErase                bool
	SupportsBlockWrite                bool
	SupportsBlockPermalock            bool
	SupportsTagRecommissioning        bool
	SupportsUMIMethod2                bool
	SupportsXPC                       bool
	MaxNumSelectFiltersPerQuery       uint16
}

func decodeC1G2LLRPCapabilities(value []byte) (C1G2LLRPCapabilities, error) {
	if len(value) < 3 {
		return C1G2LLRPCapabilities{}, fmt.Errorf("%w: C1G2LLRPCapabilities needs 3 bytes", ErrMalformedResponse)
	}
	flags := value[0]
	return C1G2LLRPCapabilities{
		SupportsBlockErase:          flags&0x80 != 0,
		SupportsBlockWrite:          flags&0x40 != 0,
		SupportsBlockPermalock:      flags&0x20 != 0,
		SupportsTagRecommissioning:  flags&0x10 != 0,
		SupportsUMIMethod2:          flags&0x08 != 0,
		SupportsXPC:                 flags&0x04 != 0,
		MaxNumSelectFiltersPerQuery: binary.BigEndian.Uint16(value[1:3]),
	}, nil
}

// DecodeGetReaderCapabilitiesResponse decodes a GetReaderCapabilitiesResponse
// payload per spec.md §4.1.
func DecodeGetReaderCapabilitiesResponse(payload []byte) (ReaderCapabilities, error) {
	params, err := ParseParameters(payload)
	if err != nil {
		return ReaderCapabilities{}, err
	}

	statusParam, ok := findFirst(params, ParameterTypeLLRPStatus)
	if !ok {
		return ReaderCapabilities{}, fmt.Errorf("%w: GetReaderCapabilitiesResponse missing LLRPStatus", ErrMalformedResponse)
	}
	status, err := decodeLLRPStatus(statusParam.Value)
	if err != nil {
		return ReaderCapabilities{}, err
	}

	var rc ReaderCapabilities
	rc.Status = status

	for _, p := range params {
		switch p.Type {
		case ParameterTypeGeneralDeviceCapabilities:
			gdc, err := decodeGeneralDeviceCapabilities(p.Value)
			if err != nil {
				return ReaderCapabilities{}, err
			}
			rc.GeneralDevice = gdc
		case ParameterTypeLLRPCapabilities:
			lc, err := decodeLLRPCapabilities(p.Value)
			if err != nil {
				return ReaderCapabilities{}, err
			}
			rc.LLRP = lc
		case ParameterTypeRegulatoryCapabilities:
			reg, err := decodeRegulatoryCapabilities(p.Value)
			if err != nil {
				return ReaderCapabilities{}, err
			}
			rc.Regulatory = reg
		case ParameterTypeC1G2LLRPCapabilities:
			c1g2, err := decodeC1G2LLRPCapabilities(p.Value)
			if err != nil {
				return ReaderCapabilities{}, err
			}
			rc.C1G2 = c1g2
		case ParameterTypeLLRPStatus:
			// already handled above
		default:
			logrus.WithField("type", p.Type).Warn("llrp: unhandled top-level parameter in GetReaderCapabilitiesResponse")
		}
	}

	return rc, nil
}
