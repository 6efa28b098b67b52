package config

import "errors"

// ErrBadConfig reports a missing, malformed, or incomplete configuration
// document (spec.md §7).
var ErrBadConfig = errors.New("config: bad config")
