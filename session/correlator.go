package session

import (
	"sync"

	"github.com/dtgillespie/llrp-client/llrp"
)

// correlatorResult is what a waiter receives: either a matched response or
// a terminal error (ErrDisconnected on receive-loop death).
type correlatorResult struct {
	msg *llrp.Message
	err error
}

// correlator tracks one outstanding request per message id and routes
// inbound synchronous responses to their waiter, per spec.md §4.4: a
// response must match both the expected MessageType and the request's id;
// anything else is skipped with a warning rather than misdelivered.
type correlator struct {
	mu      sync.Mutex
	waiting map[uint32]waiter
	closed  bool
	closeErr error
}

type waiter struct {
	expectedType llrp.MessageType
	ch           chan correlatorResult
}

func newCorrelator() *correlator {
	return &correlator{waiting: make(map[uint32]waiter)}
}

// register records a new outstanding request and returns the channel its
// eventual response (or disconnect) arrives on. The returned channel is
// buffered (capacity 1) so dispatch never blocks on a waiter that gave up.
func (c *correlator) register(id uint32, expectedType llrp.MessageType) chan correlatorResult {
	ch := make(chan correlatorResult, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		ch <- correlatorResult{err: c.closeErr}
		return ch
	}
	c.waiting[id] = waiter{expectedType: expectedType, ch: ch}
	return ch
}

// cancel removes a waiter without delivering a result, used when a verb's
// context is cancelled or its timeout fires before a response arrives
// (spec.md §4.4's "per-verb context cancellation additionally removes the
// entry eagerly").
func (c *correlator) cancel(id uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.waiting, id)
}

// dispatch hands an inbound message to its waiter if one is registered and
// the message type matches what that id's request expects. It reports
// whether the message was consumed; callers should log and drop messages
// dispatch does not consume.
func (c *correlator) dispatch(msg *llrp.Message) bool {
	c.mu.Lock()
	w, ok := c.waiting[msg.ID]
	if !ok || w.expectedType != msg.Type {
		c.mu.Unlock()
		return false
	}
	delete(c.waiting, msg.ID)
	c.mu.Unlock()

	w.ch <- correlatorResult{msg: msg}
	return true
}

// closeAll fails every outstanding waiter with err and marks the
// correlator closed so that future register calls fail immediately,
// matching the "receive loop death fails every outstanding waiter with
// ErrDisconnected" propagation policy.
func (c *correlator) closeAll(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.closeErr = err
	for id, w := range c.waiting {
		w.ch <- correlatorResult{err: err}
		delete(c.waiting, id)
	}
}
