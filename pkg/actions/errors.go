package actions

import "errors"

// ErrInvalidCount is returned when a promotion cap is not positive.
var ErrInvalidCount = errors.New("number of items must be positive")
