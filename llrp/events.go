package llrp

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ReaderEventNotification is the decoded body of a ReaderEventNotification
// message. The core receive loop drops these by default (spec.md §4.3); a
// Session that wants them republishes the decoded form on its events
// broadcast (SPEC_FULL §9).
type ReaderEventNotification struct {
	ConnAttemptStatus *uint16
	ConnCloseSeen     bool
}

func decodeReaderEventNotificationData(value []byte) (ReaderEventNotification, error) {
	sub, err := ParseParameters(value)
	if err != nil {
		return ReaderEventNotification{}, err
	}

	var ev ReaderEventNotification
	for _, p := range sub {
		switch p.Type {
		case ParameterTypeConnAttemptEvent:
			if len(p.Value) < 2 {
				return ReaderEventNotification{}, fmt.Errorf("%w: ConnectionAttemptEvent needs 2 bytes", ErrMalformedResponse)
			}
			status := uint16(p.Value[0])<<8 | uint16(p.Value[1])
			ev.ConnAttemptStatus = &status
		case ParameterTypeConnCloseEvent:
			ev.ConnCloseSeen = true
		default:
			logrus.WithField("type", p.Type).Debug("llrp: unhandled ReaderEventNotificationData sub-parameter")
		}
	}
	return ev, nil
}

// DecodeReaderEventNotification decodes a ReaderEventNotification message
// payload: a single ReaderEventNotificationData wrapper around the actual
// event parameter.
func DecodeReaderEventNotification(payload []byte) (ReaderEventNotification, error) {
	params, err := ParseParameters(payload)
	if err != nil {
		return ReaderEventNotification{}, err
	}
	data, ok := findFirst(params, ParameterTypeReaderEventNotificationData)
	if !ok {
		return ReaderEventNotification{}, fmt.Errorf("%w: ReaderEventNotification missing ReaderEventNotificationData", ErrMalformedResponse)
	}
	return decodeReaderEventNotificationData(data.Value)
}
