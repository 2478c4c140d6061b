package chat

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KetherPL/SC-Sub-Poster/pkg/transport"
)

func TestClassifyResultCodes(t *testing.T) {
	cases := []struct {
		code        transport.ResultCode
		domain      ErrorDomain
		disposition RetryDisposition
	}{
		{transport.ResultTimeout, DomainTransport, RetryImmediate},
		{transport.ResultRateLimitExceeded, DomainTransport, RetryBackoff},
		{transport.ResultInvalidPassword, DomainAuthentication, RetryFatal},
		{transport.ResultAccountDisabled, DomainAuthentication, RetryFatal},
		{transport.ResultAccountNotFound, DomainAuthentication, RetryFatal},
		{transport.ResultNeedTwoFactor, DomainAuthentication, Reauthenticate},
		{transport.ResultAccessDenied, DomainAuthentication, Reauthenticate},
		{transport.ResultLoggedInElsewhere, DomainAuthentication, Reauthenticate},
		{transport.ResultInvalidParam, DomainApplication, RetryFatal},
		{transport.ResultFail, DomainUnknown, RetryBackoff},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("code_%d", tc.code), func(t *testing.T) {
			entry := Classify(transport.NewError("op", tc.code, nil))
			assert.Equal(t, tc.domain, entry.Domain)
			assert.Equal(t, tc.disposition, entry.Disposition)
		})
	}
}

func TestClassifySentinels(t *testing.T) {
	entry := Classify(transport.ErrTimeout)
	assert.Equal(t, DomainTransport, entry.Domain)
	assert.Equal(t, RetryImmediate, entry.Disposition)

	entry = Classify(transport.ErrClosed)
	assert.Equal(t, DomainTransport, entry.Domain)
	assert.Equal(t, RetryBackoff, entry.Disposition)

	entry = Classify(transport.ErrStreamEnded)
	assert.Equal(t, DomainTransport, entry.Domain)
	assert.Equal(t, RetryBackoff, entry.Disposition)

	entry = Classify(errors.Join(ErrCallbackFailed, errors.New("boom")))
	assert.Equal(t, DomainApplication, entry.Domain)
	assert.Equal(t, RetryFatal, entry.Disposition)
}

func TestClassifyWrapped(t *testing.T) {
	err := fmt.Errorf("sending: %w", transport.NewError("op", transport.ResultRateLimitExceeded, nil))
	entry := Classify(err)
	assert.Equal(t, DomainTransport, entry.Domain)
	assert.Equal(t, RetryBackoff, entry.Disposition)
}

func TestClassifyUnknown(t *testing.T) {
	entry := Classify(errors.New("mystery"))
	assert.Equal(t, DomainUnknown, entry.Domain)
	assert.Equal(t, RetryBackoff, entry.Disposition)
}

func TestDispositionStrings(t *testing.T) {
	assert.Equal(t, "immediate-retry", RetryImmediate.String())
	assert.Equal(t, "fatal", RetryFatal.String())
	assert.Equal(t, "authentication", DomainAuthentication.String())
	assert.Equal(t, "unknown", DomainUnknown.String())
}
