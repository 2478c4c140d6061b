package steamid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteam3(t *testing.T) {
	id, err := Parse("[U:1:1531059355]")
	require.NoError(t, err)
	assert.Equal(t, uint32(1531059355), id.AccountID())
	assert.Equal(t, "[U:1:1531059355]", id.Steam3())
	assert.True(t, id.IsValid())
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"[U:1:]",
		"[U:1:abc]",
		"[U:2:123]",
		"U:1:123",
		"[U:1:123",
		"[U:1:99999999999999999999]",
	} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %q", s)
	}
}

func TestRoundTrip(t *testing.T) {
	id := FromAccountID(42)
	parsed, err := Parse(id.Steam3())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestZeroAccountInvalid(t *testing.T) {
	assert.False(t, FromAccountID(0).IsValid())
}
