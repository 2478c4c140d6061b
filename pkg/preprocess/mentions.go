package preprocess

import (
	"strings"

	"github.com/KetherPL/SC-Sub-Poster/pkg/steamid"
)

const (
	// MentionAll mentions every member of a group chat.
	MentionAll = "@all"
	// MentionHere mentions online/active members.
	MentionHere = "@here"
)

// Punctuation stripped from token edges before matching, so "@all!"
// still pings. Kept minimal: trimming more would eat id characters.
const mentionPunctuation = "!?,.;"

// Mentions holds the broadcast and per-user mention signals extracted
// from one message. A nil *Mentions means nothing fired; that is not
// the same thing as a Mentions with empty fields.
type Mentions struct {
	All     bool              `json:"mention_all"`
	Here    bool              `json:"mention_here"`
	UserIDs []steamid.SteamID `json:"mention_steamids"`
}

func (m *Mentions) hasAny() bool {
	return m.All || m.Here || len(m.UserIDs) > 0
}

// ExtractMentions scans message for @all, @here and steam3 id tokens.
// Matches are whole-token only: "email@all.com" does not ping anyone.
// Malformed id-like tokens are skipped silently. Returns nil when no
// signal fired.
func ExtractMentions(message string) *Mentions {
	var m Mentions
	for _, raw := range strings.Fields(message) {
		processMentionToken(raw, &m)
	}
	if !m.hasAny() {
		return nil
	}
	return &m
}

func processMentionToken(token string, m *Mentions) {
	cleaned := strings.Trim(token, mentionPunctuation)

	switch cleaned {
	case MentionAll:
		m.All = true
		return
	case MentionHere:
		m.Here = true
		return
	}

	if id, err := steamid.Parse(cleaned); err == nil {
		// First-seen order, duplicates preserved.
		m.UserIDs = append(m.UserIDs, id)
	}
}
