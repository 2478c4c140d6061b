// Package steamid implements the small slice of Steam account id
// handling the chat client needs: the steam3 "[U:1:n]" textual form
// and its 64-bit encoding.
package steamid

import (
	"errors"
	"strconv"
	"strings"
)

// Individual account in the public universe, desktop instance.
// steamID64 = (universe << 56) | (type << 52) | (instance << 32) | accountID
const individualBase uint64 = 0x0110000100000000

const steam3Prefix = "[U:1:"

var ErrInvalidFormat = errors.New("steamid: invalid steam3 format")

// SteamID is an opaque 64-bit account identifier. Equality is by raw
// value; no validation beyond the textual format is performed.
type SteamID uint64

// FromAccountID builds an individual-account SteamID from its 32-bit
// account id.
func FromAccountID(accountID uint32) SteamID {
	return SteamID(individualBase | uint64(accountID))
}

// Parse accepts the steam3 individual form "[U:1:12345]" only.
func Parse(s string) (SteamID, error) {
	if !strings.HasPrefix(s, steam3Prefix) || !strings.HasSuffix(s, "]") {
		return 0, ErrInvalidFormat
	}
	digits := s[len(steam3Prefix) : len(s)-1]
	if digits == "" {
		return 0, ErrInvalidFormat
	}
	accountID, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, ErrInvalidFormat
	}
	return FromAccountID(uint32(accountID)), nil
}

// AccountID returns the low 32 bits.
func (id SteamID) AccountID() uint32 {
	return uint32(id)
}

// Steam3 renders the "[U:1:n]" form.
func (id SteamID) Steam3() string {
	return steam3Prefix + strconv.FormatUint(uint64(id.AccountID()), 10) + "]"
}

func (id SteamID) String() string {
	return id.Steam3()
}

// IsValid reports whether the account id portion is non-zero.
func (id SteamID) IsValid() bool {
	return id.AccountID() != 0
}
