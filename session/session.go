// Package session owns one LLRP connection's lifecycle: dialing, the
// receive loop that demultiplexes synchronous responses from asynchronous
// reports and reader events, and the verb methods callers use to drive a
// reader.
package session

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dtgillespie/llrp-client/llrp"
	"github.com/dtgillespie/llrp-client/metrics"
	"github.com/dtgillespie/llrp-client/transport"
)

// Session is one open LLRP connection. Zero value is not
// usable; build one with Dial.
type Session struct {
	conn    net.Conn
	writeMu sync.Mutex

	log             *logrus.Logger
	responseTimeout time.Duration
	logResponseAck  bool

	nextID     uint32
	correlator *correlator
	reports    *broadcastBus[*llrp.ROAccessReport]
	events     *broadcastBus[*llrp.ReaderEventNotification]

	mu          sync.Mutex
	lastErr     error
	lastReportAt time.Time

	done chan struct{}
}

// Config is the subset of the client configuration a Session needs to
// connect and run (spec.md §6's host/response_timeout/log_response_ack
// keys).
type Config struct {
	Host            string
	ResponseTimeout time.Duration
	LogResponseAck  bool
	Logger          *logrus.Logger
}

// Dial opens a TCP connection to cfg.Host and starts the receive loop.
// The first message id issued by any subsequent verb is 1001, per spec.md
// §4.5.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}

	s := &Session{
		conn:            conn,
		log:             log,
		responseTimeout: cfg.ResponseTimeout,
		logResponseAck:  cfg.LogResponseAck,
		nextID:          1000,
		correlator:      newCorrelator(),
		reports:         newBroadcastBusWithLagHook[*llrp.ROAccessReport](metrics.ReportsLagged.Inc),
		events:          newBroadcastBus[*llrp.ReaderEventNotification](),
		done:            make(chan struct{}),
	}

	metrics.SessionConnected.Set(1)
	go s.receiveLoop()
	return s, nil
}

// ReportEvent is one item delivered from Reports(): a decoded
// ROAccessReport, plus a count of reports dropped since the last delivery
// if this subscriber fell behind.
type ReportEvent = busEvent[*llrp.ROAccessReport]

// ReaderEventNotificationEvent is one item delivered from Events().
type ReaderEventNotificationEvent = busEvent[*llrp.ReaderEventNotification]

// Reports returns a subscription to decoded ROAccessReport events. Cancel
// the returned func when the subscriber is done to release its buffer.
func (s *Session) Reports() (<-chan ReportEvent, func()) {
	return s.reports.subscribe()
}

// Events returns a subscription to decoded ReaderEventNotification events.
// Unused by the core verb set; exists for callers such as the interactive
// shell's connection banner (SPEC_FULL §9).
func (s *Session) Events() (<-chan ReaderEventNotificationEvent, func()) {
	return s.events.subscribe()
}

// LastError returns the most recently observed session-terminating error,
// or nil. This mirrors a get_last_error-style accessor for callers that
// prefer polling over the native error return values (SPEC_FULL §6.3).
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) setLastErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

// LastReportAt returns the timestamp of the most recently received
// ROAccessReport, or the zero time if none has arrived yet.
func (s *Session) LastReportAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReportAt
}

func (s *Session) touchLastReport() {
	s.mu.Lock()
	s.lastReportAt = time.Now()
	s.mu.Unlock()
}

// nextMessageID returns the next strictly increasing message id, starting
// at 1001 (spec.md §4.5). Wraparound past 32 bits is undefined, matching
// spec.md's explicit non-requirement.
func (s *Session) nextMessageID() uint32 {
	return atomic.AddUint32(&s.nextID, 1)
}

// Close sends CloseConnection best-effort and tears down the connection.
// Errors from the best-effort send are logged at warn and never returned,
// per spec.md §7's CloseConnection propagation policy.
func (s *Session) Close() error {
	id := s.nextMessageID()
	msg := llrp.BuildCloseConnection(id)
	if err := s.writeMessage(msg); err != nil {
		s.log.WithError(err).Warn("session: best-effort CloseConnection failed")
	}
	return s.conn.Close()
}

func (s *Session) writeMessage(msg *llrp.Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return transport.WriteFrame(s.conn, msg.Encode())
}

// receiveLoop owns all reads off the connection. It runs until a frame or
// decode error occurs, at which point it fails every outstanding waiter
// and closes both broadcast buses (spec.md §4.3).
func (s *Session) receiveLoop() {
	defer close(s.done)
	defer s.reports.closeAll()
	defer s.events.closeAll()
	defer metrics.SessionConnected.Set(0)

	for {
		raw, err := transport.ReadFrame(s.conn)
		if err != nil {
			s.log.WithError(err).Warn("session: receive loop terminating")
			s.setLastErr(ErrDisconnected)
			s.correlator.closeAll(ErrDisconnected)
			return
		}

		msg, err := llrp.DecodeMessage(raw)
		if err != nil {
			s.log.WithError(err).Warn("session: malformed frame, receive loop terminating")
			s.setLastErr(ErrDisconnected)
			s.correlator.closeAll(ErrDisconnected)
			return
		}

		switch msg.Type {
		case llrp.MessageTypeROAccessReport:
			report, err := llrp.DecodeROAccessReport(msg.Payload)
			if err != nil {
				s.log.WithError(err).Warn("session: failed to decode ROAccessReport")
				continue
			}
			s.touchLastReport()
			metrics.TagsReported.Add(float64(len(report.TagReports)))
			s.reports.publish(&report)
		case llrp.MessageTypeReaderEventNotification:
			ev, err := llrp.DecodeReaderEventNotification(msg.Payload)
			if err != nil {
				s.log.WithError(err).Warn("session: failed to decode ReaderEventNotification")
				continue
			}
			s.events.publish(&ev)
		case llrp.MessageTypeKeepalive:
			// reader-initiated keepalive: ack immediately, not correlated
			// to any outstanding waiter (spec.md §4.4 ordering note).
			ackID := s.nextMessageID()
			if err := s.writeMessage(llrp.BuildKeepaliveAck(ackID)); err != nil {
				s.log.WithError(err).Warn("session: failed to send KeepaliveAck")
			}
		default:
			if !s.correlator.dispatch(msg) {
				s.log.WithFields(logrus.Fields{"type": msg.Type, "id": msg.ID}).
					Warn("session: dropping unmatched response")
			} else if s.logResponseAck {
				s.log.WithFields(logrus.Fields{"type": msg.Type, "id": msg.ID}).Info("session: response ack")
			}
		}
	}
}

// await registers a waiter for id/expectedType, sends msg, and blocks
// until a matching response arrives, the session's response_timeout
// elapses, or ctx is cancelled.
func (s *Session) await(ctx context.Context, msg *llrp.Message, expectedType llrp.MessageType) (*llrp.Message, error) {
	resultCh := s.correlator.register(msg.ID, expectedType)

	if err := s.writeMessage(msg); err != nil {
		s.correlator.cancel(msg.ID)
		return nil, fmt.Errorf("%w: %v", ErrDisconnected, err)
	}

	timer := time.NewTimer(s.responseTimeout)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return nil, res.err
		}
		return res.msg, nil
	case <-timer.C:
		s.correlator.cancel(msg.ID)
		return nil, ErrTimedOut
	case <-ctx.Done():
		s.correlator.cancel(msg.ID)
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrDisconnected
	}
}
