package session

import (
	"context"
	"time"

	"github.com/dtgillespie/llrp-client/llrp"
)

// GetReaderCapabilities sends GetReaderCapabilities and decodes the
// matching GetReaderCapabilitiesResponse.
func (s *Session) GetReaderCapabilities(ctx context.Context) (llrp.ReaderCapabilities, error) {
	id := s.nextMessageID()
	req := llrp.BuildGetReaderCapabilities(id)
	resp, err := s.await(ctx, req, llrp.MessageTypeGetReaderCapabilitiesResponse)
	if err != nil {
		return llrp.ReaderCapabilities{}, err
	}
	return llrp.DecodeGetReaderCapabilitiesResponse(resp.Payload)
}

// GetReaderConfig sends GetReaderConfig and decodes the matching
// GetReaderConfigResponse.
func (s *Session) GetReaderConfig(ctx context.Context) (llrp.ReaderConfigResponse, error) {
	id := s.nextMessageID()
	req := llrp.BuildGetReaderConfig(id)
	resp, err := s.await(ctx, req, llrp.MessageTypeGetReaderConfigResponse)
	if err != nil {
		return llrp.ReaderConfigResponse{}, err
	}
	return llrp.DecodeGetReaderConfigResponse(resp.Payload)
}

// SetReaderConfig sends SetReaderConfig and waits for the ACK-only
// SetReaderConfigResponse, reporting its status.
func (s *Session) SetReaderConfig(ctx context.Context, cfg llrp.ReaderConfig) (llrp.LLRPStatus, error) {
	id := s.nextMessageID()
	req := llrp.BuildSetReaderConfig(id, cfg)
	return s.awaitStatus(ctx, req, llrp.MessageTypeSetReaderConfigResponse)
}

// AddROSpec sends AddROSpec and waits for the ACK-only AddROSpecResponse.
func (s *Session) AddROSpec(ctx context.Context, cfg llrp.ROSpecConfig) (llrp.LLRPStatus, error) {
	id := s.nextMessageID()
	req := llrp.BuildAddROSpec(id, cfg)
	return s.awaitStatus(ctx, req, llrp.MessageTypeAddROSpecResponse)
}

// EnableROSpec sends EnableROSpec and waits for the ACK-only
// EnableROSpecResponse.
func (s *Session) EnableROSpec(ctx context.Context, rospecID uint32) (llrp.LLRPStatus, error) {
	id := s.nextMessageID()
	req := llrp.BuildEnableROSpec(id, rospecID)
	return s.awaitStatus(ctx, req, llrp.MessageTypeEnableROSpecResponse)
}

// StartROSpec sends StartROSpec and waits for the ACK-only
// StartROSpecResponse.
func (s *Session) StartROSpec(ctx context.Context, rospecID uint32) (llrp.LLRPStatus, error) {
	id := s.nextMessageID()
	req := llrp.BuildStartROSpec(id, rospecID)
	return s.awaitStatus(ctx, req, llrp.MessageTypeStartROSpecResponse)
}

// StopROSpec sends StopROSpec and waits for the ACK-only
// StopROSpecResponse.
func (s *Session) StopROSpec(ctx context.Context, rospecID uint32) (llrp.LLRPStatus, error) {
	id := s.nextMessageID()
	req := llrp.BuildStopROSpec(id, rospecID)
	return s.awaitStatus(ctx, req, llrp.MessageTypeStopROSpecResponse)
}

// DeleteROSpec sends DeleteROSpec and waits for the ACK-only
// DeleteROSpecResponse. rospecID == 0 deletes all ROSpecs.
func (s *Session) DeleteROSpec(ctx context.Context, rospecID uint32) (llrp.LLRPStatus, error) {
	id := s.nextMessageID()
	req := llrp.BuildDeleteROSpec(id, rospecID)
	return s.awaitStatus(ctx, req, llrp.MessageTypeDeleteROSpecResponse)
}

// Keepalive sends Keepalive and waits for the ACK-only KeepaliveAck, which
// carries no payload of its own — receipt of the ack is the acknowledgement
// (spec.md §4.4). Callers that see ErrTimedOut here (spec.md §8 scenario E)
// should treat the reader as unresponsive.
func (s *Session) Keepalive(ctx context.Context) (llrp.LLRPStatus, error) {
	id := s.nextMessageID()
	req := llrp.BuildKeepalive(id)
	if _, err := s.await(ctx, req, llrp.MessageTypeKeepaliveAck); err != nil {
		return llrp.LLRPStatus{}, err
	}
	return llrp.LLRPStatus{}, nil
}

// EnableEventsAndReports sends EnableEventsAndReports. This verb has no
// response, per spec.md §4.4 — it is fire-and-forget.
func (s *Session) EnableEventsAndReports() error {
	id := s.nextMessageID()
	return s.writeMessage(llrp.BuildEnableEventsAndReports(id))
}

// AwaitROAccessReport subscribes to the report bus and returns the first
// decoded ROAccessReport delivered, or ErrTimedOut if response_timeout
// elapses first.
func (s *Session) AwaitROAccessReport(ctx context.Context) (*llrp.ROAccessReport, error) {
	ch, cancel := s.Reports()
	defer cancel()

	timer := time.NewTimer(s.responseTimeout)
	defer timer.Stop()

	select {
	case event, ok := <-ch:
		if !ok {
			return nil, ErrDisconnected
		}
		return event.Payload, nil
	case <-timer.C:
		return nil, ErrTimedOut
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// awaitStatus sends req, awaits the expected response type, and decodes
// its leading LLRPStatus — the shared shape of every ACK-only verb.
func (s *Session) awaitStatus(ctx context.Context, req *llrp.Message, expected llrp.MessageType) (llrp.LLRPStatus, error) {
	resp, err := s.await(ctx, req, expected)
	if err != nil {
		return llrp.LLRPStatus{}, err
	}
	return llrp.DecodeStatusOnlyResponse(resp.Payload)
}
