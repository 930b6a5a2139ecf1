package domain

import "errors"

// ErrDataNotFound is returned by FSMPort.GetData for a missing key
var ErrDataNotFound = errors.New("data not found")
