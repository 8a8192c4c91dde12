package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedToken     = errors.New("malformed access token")
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrNoSignalServer     = errors.New("viewer ticket has no signal server")
	ErrKeyRequired        = errors.New("key not exists")
)

// BackendError is a reply whose result field is non-zero.
type BackendError struct {
	Op     string
	Result int
	Msg    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: result=%d msg=%q", e.Op, e.Result, e.Msg)
}

// Kind names the failure category for logs.
func Kind(err error) string {
	var be *BackendError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, ErrUnknownEnvironment):
		return "unknown_environment"
	case errors.Is(err, ErrNoSignalServer):
		return "no_signal_server"
	case errors.Is(err, ErrKeyRequired):
		return "key_required"
	case errors.As(err, &be):
		return "backend_failure"
	default:
		return "transport_failure"
	}
}
