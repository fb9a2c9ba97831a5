package networks

import "errors"

var ErrBlockNotFound = errors.New("block not found")
