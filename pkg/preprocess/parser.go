package preprocess

import "strings"

// DefaultAllowedTags is the set of inline tags Steam chat renders.
// Anything else inside brackets is treated as plain text.
var DefaultAllowedTags = []string{
	"emoticon", "code", "pre", "img", "url", "spoiler", "quote", "random", "flip",
	"tradeofferlink", "tradeoffer", "sticker", "gameinvite", "og", "roomeffect",
}

// TagNode is a single recognized tag occurrence, e.g. [spoiler] or
// [url=value]. Tags are leaves: the parser never attaches a body, even
// when a matching closing marker follows in the text.
type TagNode struct {
	Tag   string            `json:"tag"`
	Attrs map[string]string `json:"attrs"`
}

// Content is one segment of a parsed message. When Tag is nil the
// segment is literal text.
type Content struct {
	Text string   `json:"text,omitempty"`
	Tag  *TagNode `json:"tag,omitempty"`
}

// IsText reports whether the segment is a literal-text segment.
func (c Content) IsText() bool { return c.Tag == nil }

// Parser extracts allow-listed tags from free text. The allow-list is
// fixed at construction, so restricted per-instance policies are just
// separate parsers.
type Parser struct {
	allowed map[string]struct{}
}

// NewParser builds a parser over the given allow-list. Matching is
// case-sensitive and the list is copied.
func NewParser(allowedTags []string) *Parser {
	allowed := make(map[string]struct{}, len(allowedTags))
	for _, tag := range allowedTags {
		allowed[tag] = struct{}{}
	}
	return &Parser{allowed: allowed}
}

// Parse splits message into literal-text and tag segments in a single
// left-to-right scan. The output is never empty: an empty message
// yields one empty text segment.
//
// The scan is deliberately flat. A closing marker like [/spoiler] has
// a leading slash in its candidate name, fails the allow-list, and is
// folded back into the surrounding text; nothing is nested or paired.
func (p *Parser) Parse(message string) []Content {
	if message == "" {
		return []Content{{Text: ""}}
	}

	var parsed []Content
	var current strings.Builder

	i := 0
	for i < len(message) {
		rest := message[i:]
		start := strings.IndexByte(rest, '[')
		if start < 0 {
			current.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[start:], ']')
		if end < 0 {
			// Unterminated bracket: keep the remainder as text.
			current.WriteString(rest)
			break
		}

		current.WriteString(rest[:start])

		tagContent := rest[start+1 : start+end]
		if node := p.parseTag(tagContent); node != nil {
			if current.Len() > 0 {
				parsed = append(parsed, Content{Text: current.String()})
				current.Reset()
			}
			parsed = append(parsed, Content{Tag: node})
		} else {
			// Rejected span stays in the text, brackets included.
			current.WriteString(rest[start : start+end+1])
		}

		i += start + end + 1
	}

	if current.Len() > 0 {
		parsed = append(parsed, Content{Text: current.String()})
	}
	return parsed
}

// parseTag interprets the text between brackets. It returns nil when
// the candidate name is not allow-listed.
func (p *Parser) parseTag(tagContent string) *TagNode {
	name, value, hasValue := strings.Cut(tagContent, "=")
	name = strings.TrimSpace(name)

	if _, ok := p.allowed[name]; !ok {
		return nil
	}

	attrs := make(map[string]string)
	if hasValue {
		if v := strings.TrimSpace(value); v != "" {
			attrs["value"] = v
		}
	}
	return &TagNode{Tag: name, Attrs: attrs}
}
