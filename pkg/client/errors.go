package client

import "errors"

var (
	ErrConnClosed        = errors.New("connection closed")
	ErrAlreadySubscribed = errors.New("channel already subscribed")
)
