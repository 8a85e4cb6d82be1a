package event

import "errors"

// ErrInvalidInput indicates an event that cannot be logged.
var ErrInvalidInput = errors.New("invalid event input")
