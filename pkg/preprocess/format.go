package preprocess

import (
	"fmt"
	"strings"

	"github.com/KetherPL/SC-Sub-Poster/pkg/steamid"
)

// Formatting type constants for FormatWithBBCode.
const (
	BBCodeTypeSpoiler  = "spoiler"
	BBCodeTypeCode     = "code"
	BBCodeTypeURL      = "url"
	BBCodeTypeEmoticon = "emoticon"
)

// FormatWithBBCode wraps message in the tags for the given formatting
// type. value is used by types that need one (the URL target, the
// emoticon name). Unknown types return the message unchanged.
func FormatWithBBCode(message, bbcodeType, value string) string {
	switch bbcodeType {
	case BBCodeTypeSpoiler:
		return fmt.Sprintf("[spoiler]%s[/spoiler]", message)
	case BBCodeTypeCode:
		return fmt.Sprintf("[code]%s[/code]", message)
	case BBCodeTypeURL:
		return fmt.Sprintf("[url=%s]%s[/url]", value, message)
	case BBCodeTypeEmoticon:
		return fmt.Sprintf("[emoticon:%s]", value)
	default:
		return message
	}
}

// CreateMention renders the token that mentions a specific user.
func CreateMention(id steamid.SteamID) string {
	return "@" + id.Steam3()
}

// CreateAllMention returns the @all broadcast token.
func CreateAllMention() string { return MentionAll }

// CreateHereMention returns the @here broadcast token.
func CreateHereMention() string { return MentionHere }

// HasMentionTokens is a cheap pre-check for mention-like content. It
// can report false positives (any "@"); use ExtractMentions for the
// real decision.
func HasMentionTokens(message string) bool {
	return strings.Contains(message, MentionAll) ||
		strings.Contains(message, MentionHere) ||
		strings.Contains(message, "@")
}
