package v0_rest

import "errors"

var (
	ErrBadRequest    = errors.New("badRequest")      // 400
	ErrUnauthorized  = errors.New("unauthorized")    // 401
	ErrForbidden     = errors.New("forbidden")       // 403
	ErrNotFound      = errors.New("notFound")        // 404
	ErrAlreadyShared = errors.New("alreadyShared")   // 409
	ErrRatelimited   = errors.New("tooManyRequests") // 429
	ErrInternal      = errors.New("internal")        // 500
)
