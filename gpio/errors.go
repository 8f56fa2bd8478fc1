package gpio

import "errors"

// ErrInvalidArgument reports a configuration error made by the caller: an
// unknown direction, level, numbering mode or adapter option.  It is
// detected locally and never comes from a native driver.
var ErrInvalidArgument = errors.New("invalid_argument")
