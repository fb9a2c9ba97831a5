package events

import "errors"

var (
	ErrUnknownKind    = errors.New("unknown envelope kind")
	ErrUnknownChannel = errors.New("unknown channel")
)
