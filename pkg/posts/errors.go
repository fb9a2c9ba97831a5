package posts

import "errors"

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrReplyDepthExceeded = errors.New("replies cannot be nested")
	ErrAlreadyShared      = errors.New("post already shared")
)
