package session_test

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dtgillespie/llrp-client/llrp"
	"github.com/dtgillespie/llrp-client/session"
)

func dial(t *testing.T, addr string, timeout time.Duration) *session.Session {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := session.Dial(ctx, session.Config{Host: addr, ResponseTimeout: timeout})
	require.NoError(t, err)
	return s
}

// TestMessageIDsStrictlyIncrease exercises property 5: every verb call
// issues a strictly greater message id than the last, starting above 1000.
func TestMessageIDsStrictlyIncrease(t *testing.T) {
	var seenIDs []uint32
	var mu sync.Mutex

	mock := newMockReader(t, func(conn net.Conn, msg *llrp.Message) {
		mu.Lock()
		seenIDs = append(seenIDs, msg.ID)
		mu.Unlock()
		writeStatusOnlyResponse(t, conn, llrp.MessageTypeStartROSpecResponse, msg.ID, 0)
	})
	defer mock.close()

	s := dial(t, mock.addr(), time.Second)
	defer s.Close()

	for i := 0; i < 5; i++ {
		_, err := s.StartROSpec(context.Background(), 1)
		require.NoError(t, err)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seenIDs, 5)
	for i, id := range seenIDs {
		require.Greater(t, id, uint32(1000))
		if i > 0 {
			require.Greater(t, id, seenIDs[i-1])
		}
	}
}

// TestConcurrentVerbsEachGetTheirOwnResponse exercises property 6: N
// concurrent verbs against one session each observe their own reply, never
// a sibling's.
func TestConcurrentVerbsEachGetTheirOwnResponse(t *testing.T) {
	mock := newMockReader(t, func(conn net.Conn, msg *llrp.Message) {
		writeStatusOnlyResponse(t, conn, llrp.MessageTypeEnableROSpecResponse, msg.ID, 0)
	})
	defer mock.close()

	s := dial(t, mock.addr(), 2*time.Second)
	defer s.Close()

	const n = 20
	var wg sync.WaitGroup
	var failures int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(rospecID uint32) {
			defer wg.Done()
			status, err := s.EnableROSpec(context.Background(), rospecID)
			if err != nil || !status.Success() {
				atomic.AddInt32(&failures, 1)
			}
		}(uint32(i + 1))
	}
	wg.Wait()

	require.Zero(t, atomic.LoadInt32(&failures))
}

// TestCancelledVerbDoesNotLeakCorrelatorEntry exercises property 7: a verb
// whose context is cancelled before any reply arrives does not keep the
// outstanding-request map growing — a later verb still gets served.
func TestCancelledVerbDoesNotLeakCorrelatorEntry(t *testing.T) {
	mock := newMockReader(t, func(conn net.Conn, msg *llrp.Message) {
		if msg.Type == llrp.MessageTypeStopROSpec {
			return // never reply to the first request
		}
		writeStatusOnlyResponse(t, conn, llrp.MessageTypeStartROSpecResponse, msg.ID, 0)
	})
	defer mock.close()

	s := dial(t, mock.addr(), 5*time.Second)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_, _ = s.StopROSpec(ctx, 1)
		close(done)
	}()
	cancel()
	<-done

	_, err := s.StartROSpec(context.Background(), 2)
	require.NoError(t, err)
}

// TestKeepaliveTimesOutWithoutReply exercises scenario E: a reader that
// never answers a Keepalive causes keepalive() to fail with ErrTimedOut
// once response_timeout elapses.
func TestKeepaliveTimesOutWithoutReply(t *testing.T) {
	mock := newMockReader(t, func(conn net.Conn, msg *llrp.Message) {
		// never reply
	})
	defer mock.close()

	s := dial(t, mock.addr(), 50*time.Millisecond)
	defer s.Close()

	_, err := s.Keepalive(context.Background())
	require.ErrorIs(t, err, session.ErrTimedOut)
}

// TestVerbTimesOutWithoutReply covers the same timeout path for an
// ACK-only ROSpec verb, distinct from the Keepalive-specific scenario E
// above.
func TestVerbTimesOutWithoutReply(t *testing.T) {
	mock := newMockReader(t, func(conn net.Conn, msg *llrp.Message) {
		// never reply
	})
	defer mock.close()

	s := dial(t, mock.addr(), 50*time.Millisecond)
	defer s.Close()

	_, err := s.StartROSpec(context.Background(), 1)
	require.ErrorIs(t, err, session.ErrTimedOut)
}

// TestReceiveLoopDeathFailsOutstandingWaiters exercises scenario F: the
// reader closing the connection mid-wait surfaces ErrDisconnected rather
// than hanging until the timeout.
func TestReceiveLoopDeathFailsOutstandingWaiters(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close() // drop the connection without ever replying
	}()

	s := dial(t, ln.Addr().String(), 5*time.Second)

	_, err = s.StartROSpec(context.Background(), 1)
	require.ErrorIs(t, err, session.ErrDisconnected)
}
