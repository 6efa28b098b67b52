package session_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dtgillespie/llrp-client/llrp"
	"github.com/dtgillespie/llrp-client/session"
	"github.com/dtgillespie/llrp-client/transport"
)

// TestHappyPathScenario exercises scenario A end-to-end: delete-all,
// set-config, enable-events, add, enable, start, one ROAccessReport,
// stop, close — each ACK observed in order, exactly one report delivered.
func TestHappyPathScenario(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var mu sync.Mutex
	var observed []llrp.MessageType

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			raw, err := transport.ReadFrame(conn)
			if err != nil {
				return
			}
			msg, err := llrp.DecodeMessage(raw)
			if err != nil {
				return
			}

			mu.Lock()
			observed = append(observed, msg.Type)
			mu.Unlock()

			switch msg.Type {
			case llrp.MessageTypeDeleteROSpec:
				writeStatusOnlyResponse(t, conn, llrp.MessageTypeDeleteROSpecResponse, msg.ID, 0)
			case llrp.MessageTypeSetReaderConfig:
				writeStatusOnlyResponse(t, conn, llrp.MessageTypeSetReaderConfigResponse, msg.ID, 0)
			case llrp.MessageTypeEnableEventsAndReports:
				// fire-and-forget: no response expected.
			case llrp.MessageTypeAddROSpec:
				writeStatusOnlyResponse(t, conn, llrp.MessageTypeAddROSpecResponse, msg.ID, 0)
			case llrp.MessageTypeEnableROSpec:
				writeStatusOnlyResponse(t, conn, llrp.MessageTypeEnableROSpecResponse, msg.ID, 0)
			case llrp.MessageTypeStartROSpec:
				writeStatusOnlyResponse(t, conn, llrp.MessageTypeStartROSpecResponse, msg.ID, 0)
				// immediately follow with one asynchronous report.
				report := buildSingleTagReport(t, 99)
				require.NoError(t, transport.WriteFrame(conn, report.Encode()))
			case llrp.MessageTypeStopROSpec:
				writeStatusOnlyResponse(t, conn, llrp.MessageTypeStopROSpecResponse, msg.ID, 0)
			case llrp.MessageTypeCloseConnection:
				writeStatusOnlyResponse(t, conn, llrp.MessageTypeCloseConnectionResponse, msg.ID, 0)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := session.Dial(ctx, session.Config{Host: ln.Addr().String(), ResponseTimeout: time.Second})
	require.NoError(t, err)

	reportCh, unsubscribe := s.Reports()
	defer unsubscribe()

	status, err := s.DeleteROSpec(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, status.Success())

	status, err = s.SetReaderConfig(context.Background(), llrp.ReaderConfig{})
	require.NoError(t, err)
	require.True(t, status.Success())

	require.NoError(t, s.EnableEventsAndReports())

	status, err = s.AddROSpec(context.Background(), llrp.ROSpecConfig{ROSpecID: 1, Antennas: []uint16{0}})
	require.NoError(t, err)
	require.True(t, status.Success())

	status, err = s.EnableROSpec(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, status.Success())

	status, err = s.StartROSpec(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, status.Success())

	select {
	case event := <-reportCh:
		require.NotNil(t, event.Payload)
		require.Len(t, event.Payload.TagReports, 1)
	case <-time.After(time.Second):
		t.Fatal("expected one ROAccessReport")
	}

	status, err = s.StopROSpec(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, status.Success())

	require.NoError(t, s.Close())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []llrp.MessageType{
		llrp.MessageTypeDeleteROSpec,
		llrp.MessageTypeSetReaderConfig,
		llrp.MessageTypeEnableEventsAndReports,
		llrp.MessageTypeAddROSpec,
		llrp.MessageTypeEnableROSpec,
		llrp.MessageTypeStartROSpec,
		llrp.MessageTypeStopROSpec,
		llrp.MessageTypeCloseConnection,
	}, observed)
}

func buildSingleTagReport(t *testing.T, epcByte byte) *llrp.Message {
	t.Helper()
	epc := make([]byte, 12)
	for i := range epc {
		epc[i] = epcByte
	}

	var tagReportValue []byte
	tagReportValue = append(tagReportValue, 0x80|byte(llrp.ParameterTypeEPC96))
	tagReportValue = append(tagReportValue, epc...)

	var tagReportTLV []byte
	tagReportTLV = append(tagReportTLV, byte(llrp.ParameterTypeTagReportData>>8), byte(llrp.ParameterTypeTagReportData))
	length := 4 + len(tagReportValue)
	tagReportTLV = append(tagReportTLV, byte(length>>8), byte(length))
	tagReportTLV = append(tagReportTLV, tagReportValue...)

	return llrp.NewMessage(llrp.MessageTypeROAccessReport, 0, tagReportTLV)
}
