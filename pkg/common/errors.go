package common

import "errors"

// ErrConfig is wrapped by every error caused by invalid configuration. Configuration errors are
// detected before any network call is made.
var ErrConfig = errors.New("invalid configuration")
