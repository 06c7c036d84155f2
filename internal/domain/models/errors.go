package models

import "errors"

// Failure taxonomy for one evaluation cycle. Both are recoverable: an
// intrabar evaluation simply yields no signal, while a close
// confirmation must resolve the pending record to INVALIDATED.
var (
	ErrDataUnavailable     = errors.New("market data unavailable")
	ErrIndicatorIncomplete = errors.New("indicator window incomplete")
)
