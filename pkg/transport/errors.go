package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout: the request deadline elapsed before a response.
	ErrTimeout = errors.New("transport: request timed out")
	// ErrClosed: the connection is gone; pending calls and streams end
	// with this.
	ErrClosed = errors.New("transport: connection closed")
	// ErrStreamEnded: the notification stream terminated cleanly.
	ErrStreamEnded = errors.New("transport: notification stream ended")
)

// ResultCode is the service's result code for a completed request.
// The values mirror the subset of Steam EResult codes the client
// actually reacts to.
type ResultCode int32

const (
	ResultOK                ResultCode = 1
	ResultFail              ResultCode = 2
	ResultInvalidPassword   ResultCode = 5
	ResultLoggedInElsewhere ResultCode = 6
	ResultInvalidParam      ResultCode = 8
	ResultAccessDenied      ResultCode = 15
	ResultTimeout           ResultCode = 16
	ResultAccountDisabled   ResultCode = 27
	ResultAccountNotFound   ResultCode = 81
	ResultRateLimitExceeded ResultCode = 84
	ResultNeedTwoFactor     ResultCode = 85
)

// Error is a classified request failure. Code is zero when the
// failure happened below the service level (I/O, protocol).
type Error struct {
	Op   string
	Code ResultCode
	Err  error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("transport: %s failed: code=%d: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("transport: %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with the operation and service code that produced
// it.
func NewError(op string, code ResultCode, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}
