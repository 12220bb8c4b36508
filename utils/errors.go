package utils

import "errors"

// ErrInvalidInput marks malformed or out-of-range numeric arguments. It is
// never recovered locally: it means the caller passed unvalidated data.
var ErrInvalidInput = errors.New("invalid input")
