// Package llrp implements the LLRP (Low Level Reader Protocol) wire format:
// message framing, TLV/TV parameter encoding and decoding, and the typed
// request builders and response decoders the client session needs.
package llrp

import "fmt"

// MessageType is the 10-bit LLRP message-type enumeration.
type MessageType uint16

// Message types used by this client. Values per the EPCglobal LLRP spec.
const (
	MessageTypeGetReaderCapabilities         MessageType = 1
	MessageTypeGetReaderConfig               MessageType = 2
	MessageTypeSetReaderConfig               MessageType = 3
	MessageTypeCloseConnectionResponse       MessageType = 4
	MessageTypeGetReaderCapabilitiesResponse MessageType = 11
	MessageTypeGetReaderConfigResponse       MessageType = 12
	MessageTypeSetReaderConfigResponse       MessageType = 13
	MessageTypeCloseConnection               MessageType = 14
	MessageTypeAddROSpec                     MessageType = 20
	MessageTypeAddROSpecResponse             MessageType = 30
	MessageTypeDeleteROSpec                  MessageType = 21
	MessageTypeDeleteROSpecResponse          MessageType = 31
	MessageTypeStartROSpec                   MessageType = 22
	MessageTypeStartROSpecResponse           MessageType = 32
	MessageTypeStopROSpec                    MessageType = 23
	MessageTypeStopROSpecResponse            MessageType = 33
	MessageTypeEnableROSpec                  MessageType = 24
	MessageTypeEnableROSpecResponse          MessageType = 34
	MessageTypeDisableROSpec                 MessageType = 25
	MessageTypeDisableROSpecResponse         MessageType = 35
	MessageTypeGetROSpecs                    MessageType = 26
	MessageTypeGetROSpecsResponse            MessageType = 36
	MessageTypeGetReport                     MessageType = 60
	MessageTypeROAccessReport                MessageType = 61
	MessageTypeKeepalive                     MessageType = 62
	MessageTypeReaderEventNotification       MessageType = 63
	MessageTypeEnableEventsAndReports        MessageType = 64
	MessageTypeKeepaliveAck                  MessageType = 72
	MessageTypeErrorMessage                  MessageType = 100
	MessageTypeCustomMessage                 MessageType = 1023
	// MessageTypeUnknown is the sentinel for a 10-bit value absent from the
	// registry above. Parsing continues; the caller logs it.
	MessageTypeUnknown MessageType = 0xFFFF
)

var messageTypeNames = map[MessageType]string{
	MessageTypeGetReaderCapabilities:         "GetReaderCapabilities",
	MessageTypeGetReaderConfig:               "GetReaderConfig",
	MessageTypeSetReaderConfig:               "SetReaderConfig",
	MessageTypeCloseConnectionResponse:       "CloseConnectionResponse",
	MessageTypeGetReaderCapabilitiesResponse: "GetReaderCapabilitiesResponse",
	MessageTypeGetReaderConfigResponse:       "GetReaderConfigResponse",
	MessageTypeSetReaderConfigResponse:       "SetReaderConfigResponse",
	MessageTypeCloseConnection:               "CloseConnection",
	MessageTypeAddROSpec:                     "AddROSpec",
	MessageTypeAddROSpecResponse:             "AddROSpecResponse",
	MessageTypeDeleteROSpec:                  "DeleteROSpec",
	MessageTypeDeleteROSpecResponse:          "DeleteROSpecResponse",
	MessageTypeStartROSpec:                   "StartROSpec",
	MessageTypeStartROSpecResponse:           "StartROSpecResponse",
	MessageTypeStopROSpec:                    "StopROSpec",
	MessageTypeStopROSpecResponse:            "StopROSpecResponse",
	MessageTypeEnableROSpec:                  "EnableROSpec",
	MessageTypeEnableROSpecResponse:          "EnableROSpecResponse",
	MessageTypeDisableROSpec:                 "DisableROSpec",
	MessageTypeDisableROSpecResponse:         "DisableROSpecResponse",
	MessageTypeGetROSpecs:                    "GetROSpecs",
	MessageTypeGetROSpecsResponse:            "GetROSpecsResponse",
	MessageTypeGetReport:                     "GetReport",
	MessageTypeROAccessReport:                "ROAccessReport",
	MessageTypeKeepalive:                     "Keepalive",
	MessageTypeReaderEventNotification:       "ReaderEventNotification",
	MessageTypeEnableEventsAndReports:        "EnableEventsAndReports",
	MessageTypeKeepaliveAck:                  "KeepaliveAck",
	MessageTypeErrorMessage:                  "ErrorMessage",
	MessageTypeCustomMessage:                 "CustomMessage",
}

// String implements fmt.Stringer.
func (t MessageType) String() string {
	if s, ok := messageTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// MessageTypeFromValue maps a wire value to a MessageType, or
// MessageTypeUnknown if the 10-bit value is not in the registry.
func MessageTypeFromValue(v uint16) MessageType {
	t := MessageType(v)
	if _, ok := messageTypeNames[t]; ok {
		return t
	}
	return MessageTypeUnknown
}

// ParameterType is the LLRP parameter-type enumeration (TLV 16-bit space,
// TV 7-bit space — both share this type since TV values are always < 128).
type ParameterType uint16

const (
	ParameterTypeEPC96                           ParameterType = 13
	ParameterTypeUTCTimeStamp                    ParameterType = 128
	ParameterTypeUptime                          ParameterType = 129
	ParameterTypeGeneralDeviceCapabilities       ParameterType = 137
	ParameterTypeReceiveSensitivityTableEntry    ParameterType = 139
	ParameterTypePerAntennaAirProtocol           ParameterType = 140
	ParameterTypeGPIOCapabilities                ParameterType = 141
	ParameterTypeLLRPCapabilities                ParameterType = 142
	ParameterTypeRegulatoryCapabilities          ParameterType = 143
	ParameterTypeUHFBandCapabilities             ParameterType = 144
	ParameterTypeTransmitPowerLevelTableEntry    ParameterType = 145
	ParameterTypeFrequencyInformation            ParameterType = 146
	ParameterTypeFrequencyHopTable               ParameterType = 147
	ParameterTypeFixedFrequencyTable             ParameterType = 148
	ParameterTypePerAntennaReceiveSensitivity    ParameterType = 149
	ParameterTypeRFSurveyFrequencyCapabilities   ParameterType = 365
	ParameterTypeMaximumReceiveSensitivity       ParameterType = 363
	ParameterTypeROSpec                          ParameterType = 177
	ParameterTypeROBoundarySpec                  ParameterType = 178
	ParameterTypeROSpecStartTrigger              ParameterType = 179
	ParameterTypePeriodicTriggerValue            ParameterType = 180
	ParameterTypeGPITriggerValue                 ParameterType = 181
	ParameterTypeROSpecStopTrigger               ParameterType = 182
	ParameterTypeAISpec                          ParameterType = 183
	ParameterTypeAISpecStopTrigger               ParameterType = 184
	ParameterTypeTagObservationTrigger           ParameterType = 185
	ParameterTypeInventoryParameterSpec          ParameterType = 186
	ParameterTypeRFSurveySpec                    ParameterType = 187
	ParameterTypeRFSurveySpecStopTrigger         ParameterType = 188
	ParameterTypeLoopSpec                        ParameterType = 355
	ParameterTypeAccessSpec                      ParameterType = 207
	ParameterTypeAccessSpecStopTrigger           ParameterType = 208
	ParameterTypeAccessCommand                   ParameterType = 209
	ParameterTypeClientRequestOpSpec             ParameterType = 210
	ParameterTypeClientRequestResponse           ParameterType = 211
	ParameterTypeLLRPConfigurationStateValue     ParameterType = 217
	ParameterTypeIdentification                  ParameterType = 218
	ParameterTypeGPOWriteData                    ParameterType = 219
	ParameterTypeKeepAliveSpec                   ParameterType = 220
	ParameterTypeAntennaProperties                ParameterType = 221
	ParameterTypeAntennaConfiguration            ParameterType = 222
	ParameterTypeRFReceiver                      ParameterType = 223
	ParameterTypeRFTransmitter                   ParameterType = 224
	ParameterTypeGPIPortCurrentState             ParameterType = 225
	ParameterTypeEventsAndReports                ParameterType = 226
	ParameterTypeROReportSpec                    ParameterType = 237
	ParameterTypeTagReportContentSelector        ParameterType = 238
	ParameterTypeTagReportData                   ParameterType = 240
	ParameterTypeEPCData                         ParameterType = 241
	ParameterTypeReaderEventNotificationData     ParameterType = 246
	ParameterTypeConnAttemptEvent                ParameterType = 256
	ParameterTypeConnCloseEvent                  ParameterType = 316
	ParameterTypeLLRPStatus                      ParameterType = 287
	ParameterTypeC1G2LLRPCapabilities            ParameterType = 327
	ParameterTypeC1G2UHFRFModeTable              ParameterType = 328
	ParameterTypeC1G2UHFRFModeTableEntry         ParameterType = 329
	// ParameterTypeUnknown is the sentinel for values outside the registry.
	ParameterTypeUnknown ParameterType = 0xFFFF
)

var parameterTypeNames = map[ParameterType]string{
	ParameterTypeEPC96:                        "EPC96",
	ParameterTypeUTCTimeStamp:                 "UTCTimeStamp",
	ParameterTypeUptime:                       "Uptime",
	ParameterTypeGeneralDeviceCapabilities:    "GeneralDeviceCapabilities",
	ParameterTypeReceiveSensitivityTableEntry: "ReceiveSensitivityTableEntry",
	ParameterTypePerAntennaAirProtocol:        "PerAntennaAirProtocol",
	ParameterTypeGPIOCapabilities:             "GPIOCapabilities",
	ParameterTypeLLRPCapabilities:             "LLRPCapabilities",
	ParameterTypeRegulatoryCapabilities:       "RegulatoryCapabilities",
	ParameterTypeUHFBandCapabilities:          "UHFBandCapabilities",
	ParameterTypeTransmitPowerLevelTableEntry: "TransmitPowerLevelTableEntry",
	ParameterTypeFrequencyInformation:         "FrequencyInformation",
	ParameterTypeFrequencyHopTable:            "FrequencyHopTable",
	ParameterTypeFixedFrequencyTable:          "FixedFrequencyTable",
	ParameterTypePerAntennaReceiveSensitivity: "PerAntennaReceiveSensitivityRange",
	ParameterTypeRFSurveyFrequencyCapabilities: "RFSurveyFrequencyCapabilities",
	ParameterTypeMaximumReceiveSensitivity:     "MaximumReceiveSensitivity",
	ParameterTypeROSpec:                        "ROSpec",
	ParameterTypeROBoundarySpec:                "ROBoundarySpec",
	ParameterTypeROSpecStartTrigger:            "ROSpecStartTrigger",
	ParameterTypePeriodicTriggerValue:          "PeriodicTriggerValue",
	ParameterTypeGPITriggerValue:               "GPITriggerValue",
	ParameterTypeROSpecStopTrigger:             "ROSpecStopTrigger",
	ParameterTypeAISpec:                        "AISpec",
	ParameterTypeAISpecStopTrigger:             "AISpecStopTrigger",
	ParameterTypeTagObservationTrigger:         "TagObservationTrigger",
	ParameterTypeInventoryParameterSpec:        "InventoryParameterSpec",
	ParameterTypeRFSurveySpec:                  "RFSurveySpec",
	ParameterTypeRFSurveySpecStopTrigger:       "RFSurveySpecStopTrigger",
	ParameterTypeLoopSpec:                      "LoopSpec",
	ParameterTypeAccessSpec:                    "AccessSpec",
	ParameterTypeAccessSpecStopTrigger:         "AccessSpecStopTrigger",
	ParameterTypeAccessCommand:                 "AccessCommand",
	ParameterTypeClientRequestOpSpec:           "ClientRequestOpSpec",
	ParameterTypeClientRequestResponse:         "ClientRequestResponse",
	ParameterTypeLLRPConfigurationStateValue:   "LLRPConfigurationStateValue",
	ParameterTypeIdentification:                "Identification",
	ParameterTypeGPOWriteData:                  "GPOWriteData",
	ParameterTypeKeepAliveSpec:                 "KeepAliveSpec",
	ParameterTypeAntennaProperties:             "AntennaProperties",
	ParameterTypeAntennaConfiguration:          "AntennaConfiguration",
	ParameterTypeRFReceiver:                    "RFReceiver",
	ParameterTypeRFTransmitter:                 "RFTransmitter",
	ParameterTypeGPIPortCurrentState:           "GPIPortCurrentState",
	ParameterTypeEventsAndReports:              "EventsAndReports",
	ParameterTypeROReportSpec:                  "ROReportSpec",
	ParameterTypeTagReportContentSelector:      "TagReportContentSelector",
	ParameterTypeTagReportData:                 "TagReportData",
	ParameterTypeEPCData:                       "EPCData",
	ParameterTypeReaderEventNotificationData:   "ReaderEventNotificationData",
	ParameterTypeConnAttemptEvent:              "ConnAttemptEvent",
	ParameterTypeConnCloseEvent:                "ConnCloseEvent",
	ParameterTypeLLRPStatus:                    "LLRPStatus",
	ParameterTypeC1G2LLRPCapabilities:          "C1G2LLRPCapabilities",
	ParameterTypeC1G2UHFRFModeTable:            "C1G2UHFRFModeTable",
	ParameterTypeC1G2UHFRFModeTableEntry:       "C1G2UHFRFModeTableEntry",
}

// String implements fmt.Stringer.
func (t ParameterType) String() string {
	if s, ok := parameterTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// ParameterTypeFromValue maps a wire value to a ParameterType, or
// ParameterTypeUnknown if absent from the registry.
func ParameterTypeFromValue(v uint16) ParameterType {
	t := ParameterType(v)
	if _, ok := parameterTypeNames[t]; ok {
		return t
	}
	return ParameterTypeUnknown
}

// tvFixedSizes is the static size table for TV-encoded parameters (spec.md
// §3: "the table must define a size for every accepted TV type; unknown TV
// types cannot be skipped and abort the enclosing parse").
var tvFixedSizes = map[ParameterType]int{
	ParameterTypeEPC96: 12,
}
