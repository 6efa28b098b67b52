package session

import "errors"

// ErrConnectFailed reports the initial TCP dial (or handshake) failing.
var ErrConnectFailed = errors.New("session: connect failed")

// ErrTimedOut reports a verb's response_timeout elapsing with no matching
// reply observed.
var ErrTimedOut = errors.New("session: timed out waiting for response")

// ErrDisconnected reports the receive loop dying (frame error or peer
// close); every outstanding and future waiter fails with this error.
var ErrDisconnected = errors.New("session: disconnected")
