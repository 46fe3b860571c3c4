package service

import "errors"

// ErrForbidden is shared by services that enforce ownership or role checks.
var ErrForbidden = errors.New("not allowed")
