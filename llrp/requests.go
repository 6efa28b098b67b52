package llrp

import (
	"bytes"
	"encoding/binary"
)

// ReaderConfig is the reader_config section of the client configuration
// (spec.md §3/§6), consumed by BuildSetReaderConfig.
type ReaderConfig struct {
	HopTableID        uint16 `json:"hop_table_id"`
	ChannelIndex      uint16 `json:"channel_index"`
	TxPowerTableIndex uint16 `json:"tx_power_table_index"`
	RxPowerTableIndex uint16 `json:"rx_power_table_index"`
}

// ROSpecConfig is the rospec section of the client configuration (spec.md
// §6), consumed by BuildAddROSpec. Values are passed through to the wire
// without further validation (spec.md §4.5): a malformed choice is the
// reader's to reject via LLRPStatus.
type ROSpecConfig struct {
	ROSpecID               uint32   `json:"rospec_id"`
	Priority               uint8    `json:"priority"`
	AntennaCount           uint16   `json:"antenna_count"`
	Antennas               []uint16 `json:"antennas"`
	ROSpecStartTriggerType uint8    `json:"ROSpecStartTriggerType"`
	ROSpecStopTriggerType  uint8    `json:"ROSpecStopTriggerType"`
	AISpecStopTriggerType  uint8    `json:"AISpecStopTriggerType"`
	InventoryParamSpecID   uint16   `json:"InventoryParamSpecID"`
	AIProtocol             uint8    `json:"AIProtocol"`
	ROReportTriggerType    uint8    `json:"ROReportTriggerType"`
	ROReportTriggerN       uint16   `json:"ROReportTrigger_N"`
	ReportContentSelector  uint16   `json:"ReportContentSelector"`
}

// BuildEnableEventsAndReports builds an EnableEventsAndReports message
// (empty payload, spec.md §4.1).
func BuildEnableEventsAndReports(id uint32) *Message {
	return NewMessage(MessageTypeEnableEventsAndReports, id, nil)
}

// BuildGetReaderCapabilities builds a GetReaderCapabilities message
// (single requested-data byte, 0 = all, spec.md §4.1).
func BuildGetReaderCapabilities(id uint32) *Message {
	return NewMessage(MessageTypeGetReaderCapabilities, id, []byte{0})
}

// BuildGetReaderConfig builds a GetReaderConfig message (2+1+2+2 zero
// reserved selector bytes, spec.md §4.1).
func BuildGetReaderConfig(id uint32) *Message {
	payload := make([]byte, 2+1+2+2)
	return NewMessage(MessageTypeGetReaderConfig, id, payload)
}

// BuildSetReaderConfig builds a SetReaderConfig message: a reset-to-
// factory byte followed by an AntennaConfiguration TLV containing
// RFReceiver and RFTransmitter sub-parameters, per spec.md §4.1.
func BuildSetReaderConfig(id uint32, cfg ReaderConfig) *Message {
	var payload bytes.Buffer
	payload.WriteByte(0x80) // reset-to-factory bit set

	antennaConfig := &paramNode{
		typ: ParameterTypeAntennaConfiguration,
		write: func(buf *bytes.Buffer) {
			writeUint16(buf, 0) // AntennaID 0 = all
		},
		children: []*paramNode{
			{
				typ: ParameterTypeRFReceiver,
				write: func(buf *bytes.Buffer) {
					writeUint16(buf, cfg.RxPowerTableIndex)
				},
			},
			{
				typ: ParameterTypeRFTransmitter,
				write: func(buf *bytes.Buffer) {
					writeUint16(buf, cfg.HopTableID)
					writeUint16(buf, cfg.ChannelIndex)
					writeUint16(buf, cfg.TxPowerTableIndex)
				},
			},
		},
	}
	encodeParamTree(antennaConfig, &payload)

	return NewMessage(MessageTypeSetReaderConfig, id, payload.Bytes())
}

// BuildAddROSpec builds an AddROSpec message: a ROSpec TLV containing
// ROBoundarySpec (start/stop triggers), AISpec (antennas + stop trigger +
// InventoryParameterSpec), and ROReportSpec (trigger + content selector),
// per spec.md §4.1 and §8 scenario B.
func BuildAddROSpec(id uint32, cfg ROSpecConfig) *Message {
	roBoundarySpec := &paramNode{
		typ: ParameterTypeROBoundarySpec,
		children: []*paramNode{
			{
				typ: ParameterTypeROSpecStartTrigger,
				write: func(buf *bytes.Buffer) {
					buf.WriteByte(cfg.ROSpecStartTriggerType)
				},
			},
			{
				typ: ParameterTypeROSpecStopTrigger,
				write: func(buf *bytes.Buffer) {
					buf.WriteByte(cfg.ROSpecStopTriggerType)
					writeUint32(buf, 0) // null-field padding
				},
			},
		},
	}

	aiSpec := &paramNode{
		typ: ParameterTypeAISpec,
		write: func(buf *bytes.Buffer) {
			writeUint16(buf, uint16(len(cfg.Antennas)))
			for _, ant := range cfg.Antennas {
				writeUint16(buf, ant)
			}
		},
		children: []*paramNode{
			{
				typ: ParameterTypeAISpecStopTrigger,
				write: func(buf *bytes.Buffer) {
					buf.WriteByte(cfg.AISpecStopTriggerType)
					writeUint32(buf, 0) // null-field padding
				},
			},
			{
				typ: ParameterTypeInventoryParameterSpec,
				write: func(buf *bytes.Buffer) {
					writeUint16(buf, cfg.InventoryParamSpecID)
					buf.WriteByte(cfg.AIProtocol)
				},
			},
		},
	}

	roReportSpec := &paramNode{
		typ: ParameterTypeROReportSpec,
		write: func(buf *bytes.Buffer) {
			buf.WriteByte(cfg.ROReportTriggerType)
			writeUint16(buf, cfg.ROReportTriggerN)
		},
		children: []*paramNode{
			{
				typ: ParameterTypeTagReportContentSelector,
				write: func(buf *bytes.Buffer) {
					writeUint16(buf, cfg.ReportContentSelector)
				},
			},
		},
	}

	roSpec := &paramNode{
		typ: ParameterTypeROSpec,
		write: func(buf *bytes.Buffer) {
			writeUint32(buf, cfg.ROSpecID)
			buf.WriteByte(cfg.Priority)
			buf.WriteByte(0) // CurrentState
		},
		children: []*paramNode{roBoundarySpec, aiSpec, roReportSpec},
	}

	var payload bytes.Buffer
	encodeParamTree(roSpec, &payload)

	return NewMessage(MessageTypeAddROSpec, id, payload.Bytes())
}

// BuildEnableROSpec builds an EnableROSpec message (4-byte rospec_id
// payload, spec.md §4.1).
func BuildEnableROSpec(id uint32, rospecID uint32) *Message {
	return NewMessage(MessageTypeEnableROSpec, id, uint32Payload(rospecID))
}

// BuildStartROSpec builds a StartROSpec message.
func BuildStartROSpec(id uint32, rospecID uint32) *Message {
	return NewMessage(MessageTypeStartROSpec, id, uint32Payload(rospecID))
}

// BuildStopROSpec builds a StopROSpec message.
func BuildStopROSpec(id uint32, rospecID uint32) *Message {
	return NewMessage(MessageTypeStopROSpec, id, uint32Payload(rospecID))
}

// BuildDeleteROSpec builds a DeleteROSpec message. rospecID == 0 deletes
// all ROSpecs (spec.md §4.4).
func BuildDeleteROSpec(id uint32, rospecID uint32) *Message {
	return NewMessage(MessageTypeDeleteROSpec, id, uint32Payload(rospecID))
}

// BuildKeepalive builds a Keepalive message (empty payload).
func BuildKeepalive(id uint32) *Message {
	return NewMessage(MessageTypeKeepalive, id, nil)
}

// BuildKeepaliveAck builds a KeepaliveAck message (empty payload), sent in
// reply to a reader-initiated Keepalive per spec.md §4.4's ordering note.
func BuildKeepaliveAck(id uint32) *Message {
	return NewMessage(MessageTypeKeepaliveAck, id, nil)
}

// BuildCloseConnection builds a CloseConnection message (empty payload).
func BuildCloseConnection(id uint32) *Message {
	return NewMessage(MessageTypeCloseConnection, id, nil)
}

func uint32Payload(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}
