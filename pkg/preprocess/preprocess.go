// Package preprocess turns raw chat text into an annotated message
// record: a flat sequence of text/tag segments plus any mentions, with
// room for the sequencing metadata the server assigns later.
package preprocess

import "strings"

// ProcessedMessage is the annotated record attached to every message
// the client sends or receives.
//
// OriginalMessage is fixed at construction and never overwritten;
// ModifiedMessage tracks the last server-confirmed rendering. Ordinal
// and ServerTimestamp are nil until known. A pointer to 0 is a real
// ordinal (the server uses 0 for the first message at a timestamp),
// which is why these are pointers and not zero-defaulted values.
type ProcessedMessage struct {
	OriginalMessage string    `json:"original_message"`
	ModifiedMessage string    `json:"modified_message"`
	Parsed          []Content `json:"message_bbcode_parsed"`
	Mentions        *Mentions `json:"mentions,omitempty"`
	ServerTimestamp *uint32   `json:"server_timestamp,omitempty"`
	Ordinal         *uint32   `json:"ordinal,omitempty"`
}

var defaultParser = NewParser(DefaultAllowedTags)

// ParseBBCode parses message with the default allow-list.
func ParseBBCode(message string) []Content {
	return defaultParser.Parse(message)
}

// PreprocessMessage builds the provisional record for a message that
// has not yet been confirmed by the server.
func PreprocessMessage(message string) *ProcessedMessage {
	return &ProcessedMessage{
		OriginalMessage: message,
		ModifiedMessage: message,
		Parsed:          ParseBBCode(message),
		Mentions:        ExtractMentions(message),
	}
}

// PrepareForSending produces the wire text for an outbound message.
// The only transform is un-escaping backslash-escaped brackets, which
// lets a sender write literal brackets without triggering tag parsing.
func PrepareForSending(message string) string {
	message = strings.ReplaceAll(message, `\[`, "[")
	return strings.ReplaceAll(message, `\]`, "]")
}

// ProcessResponse builds the final record from the server's send
// response. The parser and extractor run over the server-modified
// text, since the server may have altered it.
//
// Ordinal is set unconditionally: 0 is a valid, present ordinal and
// must stay distinguishable from "not yet known".
func ProcessResponse(originalMessage, modifiedMessage string, serverTimestamp, ordinal uint32) *ProcessedMessage {
	return &ProcessedMessage{
		OriginalMessage: originalMessage,
		ModifiedMessage: modifiedMessage,
		Parsed:          ParseBBCode(modifiedMessage),
		Mentions:        ExtractMentions(modifiedMessage),
		ServerTimestamp: &serverTimestamp,
		Ordinal:         &ordinal,
	}
}
