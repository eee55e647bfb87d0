package analysis

import "errors"

var ErrInvalidAxis = errors.New("invalid search axis")
