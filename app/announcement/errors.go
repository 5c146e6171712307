package announcement

import "errors"

var (
	ErrFeedUnavailable      = errors.New("announcement feed unavailable")
	ErrMissingBody          = errors.New("article has no structured body")
	ErrMalformedDocument    = errors.New("article body is not valid JSON")
	ErrMalformedTimestamp   = errors.New("malformed timestamp")
	ErrNotifierUnconfigured = errors.New("notifier is not configured")
	ErrNotifierDelivery     = errors.New("notification delivery failed")
)
