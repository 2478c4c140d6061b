package preprocess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyMessage(t *testing.T) {
	parsed := ParseBBCode("")
	require.Len(t, parsed, 1)
	assert.True(t, parsed[0].IsText())
	assert.Equal(t, "", parsed[0].Text)
}

func TestParseRejectsUnknownTags(t *testing.T) {
	// Neither b nor /b is allow-listed, so both spans fold back into
	// the surrounding text and the message survives verbatim.
	parsed := ParseBBCode("Hello [b]world[/b]")
	require.Len(t, parsed, 1)
	assert.Equal(t, "Hello [b]world[/b]", parsed[0].Text)
}

func TestParseFlatSegmentation(t *testing.T) {
	parsed := ParseBBCode("[spoiler]hidden[/spoiler]")
	require.Len(t, parsed, 3)

	require.NotNil(t, parsed[0].Tag)
	assert.Equal(t, "spoiler", parsed[0].Tag.Tag)
	assert.Empty(t, parsed[0].Tag.Attrs)

	assert.Equal(t, "hidden", parsed[1].Text)

	// The closing marker's candidate name is "/spoiler", which is not
	// allow-listed, so it stays literal text.
	assert.Equal(t, "[/spoiler]", parsed[2].Text)
}

func TestParseTagWithValue(t *testing.T) {
	parsed := ParseBBCode("see [url=https://example.com]this")
	require.Len(t, parsed, 3)
	assert.Equal(t, "see ", parsed[0].Text)
	require.NotNil(t, parsed[1].Tag)
	assert.Equal(t, "url", parsed[1].Tag.Tag)
	assert.Equal(t, map[string]string{"value": "https://example.com"}, parsed[1].Tag.Attrs)
	assert.Equal(t, "this", parsed[2].Text)
}

func TestParseEmptyValueDropsAttribute(t *testing.T) {
	parsed := ParseBBCode("[url= ]")
	require.Len(t, parsed, 1)
	require.NotNil(t, parsed[0].Tag)
	assert.Empty(t, parsed[0].Tag.Attrs)
}

func TestParseTrimsTagName(t *testing.T) {
	parsed := ParseBBCode("[ spoiler ]")
	require.Len(t, parsed, 1)
	require.NotNil(t, parsed[0].Tag)
	assert.Equal(t, "spoiler", parsed[0].Tag.Tag)
}

func TestParseUnterminatedBracket(t *testing.T) {
	parsed := ParseBBCode("left [spoiler half open")
	require.Len(t, parsed, 1)
	assert.Equal(t, "left [spoiler half open", parsed[0].Text)
}

func TestParseCoalescesTextRuns(t *testing.T) {
	// Rejected spans and surrounding text end up in one segment.
	parsed := ParseBBCode("a [x] b [y] c")
	require.Len(t, parsed, 1)
	assert.Equal(t, "a [x] b [y] c", parsed[0].Text)
}

func TestParseCaseSensitiveAllowList(t *testing.T) {
	parsed := ParseBBCode("[Spoiler]")
	require.Len(t, parsed, 1)
	assert.True(t, parsed[0].IsText())
}

func TestParseCustomAllowList(t *testing.T) {
	p := NewParser([]string{"b"})
	parsed := p.Parse("[unknown]value[/unknown]")
	require.Len(t, parsed, 1)
	assert.True(t, parsed[0].IsText())
	assert.Equal(t, "[unknown]value[/unknown]", parsed[0].Text)

	parsed = p.Parse("[b]bold[/b]")
	require.Len(t, parsed, 3)
	require.NotNil(t, parsed[0].Tag)
	assert.Equal(t, "b", parsed[0].Tag.Tag)
}

// Re-rendering every segment must reconstruct the input character for
// character: rejected spans keep their brackets as text, recognized
// tags re-render from their name and value attribute.
func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"Hello [b]world[/b]",
		"[spoiler]hidden[/spoiler]",
		"mixed [code]x[/code] and [img=foo] tail",
		"unicode こんにちは [spoiler] друзья",
		"trailing open [",
		"[]",
		"[=value]",
	}
	for _, input := range inputs {
		var rebuilt strings.Builder
		for _, seg := range ParseBBCode(input) {
			if seg.IsText() {
				rebuilt.WriteString(seg.Text)
				continue
			}
			rebuilt.WriteString("[")
			rebuilt.WriteString(seg.Tag.Tag)
			if v, ok := seg.Tag.Attrs["value"]; ok {
				rebuilt.WriteString("=")
				rebuilt.WriteString(v)
			}
			rebuilt.WriteString("]")
		}
		assert.Equal(t, input, rebuilt.String(), "input %q", input)
	}
}

func TestParseIdempotent(t *testing.T) {
	input := "Nested [spoiler]outer [code]inner[/code][/spoiler] tags"
	first := ParseBBCode(input)
	second := ParseBBCode(input)
	assert.Equal(t, first, second)
}
