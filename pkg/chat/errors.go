package chat

import (
	"errors"

	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

// RetryDisposition tells callers how to react to a failed operation.
// The client itself never retries; it only classifies.
type RetryDisposition int

const (
	// RetryImmediate: safe to retry without backoff.
	RetryImmediate RetryDisposition = iota
	// RetryBackoff: retry is possible but should be delayed.
	RetryBackoff
	// Reauthenticate: the session must be re-established first.
	Reauthenticate
	// RetryFatal: retrying will not help; escalate.
	RetryFatal
)

func (d RetryDisposition) String() string {
	switch d {
	case RetryImmediate:
		return "immediate-retry"
	case RetryBackoff:
		return "backoff-retry"
	case Reauthenticate:
		return "reauthenticate"
	case RetryFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ErrorDomain is the component an error originated in.
type ErrorDomain int

const (
	DomainAuthentication ErrorDomain = iota
	DomainTransport
	DomainApplication
	DomainUnknown
)

func (d ErrorDomain) String() string {
	switch d {
	case DomainAuthentication:
		return "authentication"
	case DomainTransport:
		return "transport"
	case DomainApplication:
		return "application"
	default:
		return "unknown"
	}
}

// InventoryEntry summarizes how an upstream failure should be treated.
type InventoryEntry struct {
	Domain      ErrorDomain
	Disposition RetryDisposition
	Description string
}

// Classify maps a failure from the transport (or anywhere below the
// facade) onto the error inventory. Unrecognized errors default to
// backoff-retry in the unknown domain.
func Classify(err error) InventoryEntry {
	var terr *transport.Error
	if errors.As(err, &terr) && terr.Code != 0 {
		return classifyCode(terr.Code)
	}

	switch {
	case errors.Is(err, transport.ErrTimeout):
		return InventoryEntry{DomainTransport, RetryImmediate, "request timed out"}
	case errors.Is(err, transport.ErrClosed):
		return InventoryEntry{DomainTransport, RetryBackoff, "transport dropped connection"}
	case errors.Is(err, transport.ErrStreamEnded):
		return InventoryEntry{DomainTransport, RetryBackoff, "notification stream ended"}
	case errors.Is(err, ErrCallbackFailed):
		return InventoryEntry{DomainApplication, RetryFatal, "notification callback failed"}
	}
	return InventoryEntry{DomainUnknown, RetryBackoff, "unclassified error"}
}

func classifyCode(code transport.ResultCode) InventoryEntry {
	switch code {
	case transport.ResultOK:
		return InventoryEntry{DomainUnknown, RetryFatal, "unexpected OK error code"}
	case transport.ResultTimeout:
		return InventoryEntry{DomainTransport, RetryImmediate, "service backend timeout"}
	case transport.ResultRateLimitExceeded:
		return InventoryEntry{DomainTransport, RetryBackoff, "rate limited by service"}
	case transport.ResultInvalidPassword, transport.ResultAccountDisabled, transport.ResultAccountNotFound:
		return InventoryEntry{DomainAuthentication, RetryFatal, "invalid credentials"}
	case transport.ResultNeedTwoFactor:
		return InventoryEntry{DomainAuthentication, Reauthenticate, "two-factor confirmation required"}
	case transport.ResultAccessDenied, transport.ResultLoggedInElsewhere:
		return InventoryEntry{DomainAuthentication, Reauthenticate, "session no longer authorized"}
	case transport.ResultInvalidParam:
		return InventoryEntry{DomainApplication, RetryFatal, "invalid request"}
	default:
		return InventoryEntry{DomainUnknown, RetryBackoff, "unmapped service error code"}
	}
}
