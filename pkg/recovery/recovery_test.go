package recovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirect(t *testing.T) {
	v := Parse("t", `{"a": 1}`)
	assert.Equal(t, map[string]any{"a": float64(1)}, v)
}

func TestParseFencedBlock(t *testing.T) {
	v := Parse("t", "```json\n{\"a\": 1}\n```")
	assert.Equal(t, map[string]any{"a": float64(1)}, v)
}

func TestParseBareFence(t *testing.T) {
	v := Parse("t", "```\n[1, 2, 3]\n```")
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, v)
}

func TestParseBraceExtraction(t *testing.T) {
	v := Parse("t", `Sure! Here it is: {"x": 2} Hope that helps.`)
	assert.Equal(t, map[string]any{"x": float64(2)}, v)
}

func TestParseBracketExtraction(t *testing.T) {
	v := Parse("t", `The list you asked for: ["a", "b"] enjoy`)
	assert.Equal(t, []any{"a", "b"}, v)
}

func TestParseCommentLines(t *testing.T) {
	input := "# generated output\n{\"a\": 1,\n# inline note\n\"b\": 2}\n"
	v := Parse("t", input)
	assert.Equal(t, map[string]any{"a": float64(1), "b": float64(2)}, v)
}

func TestParseSubstringScanLastResort(t *testing.T) {
	// The outermost brace span is invalid, so only the exhaustive scan can
	// find the embedded object.
	v := Parse("t", `{oops {"a": 1} trailing}`)
	assert.Equal(t, map[string]any{"a": float64(1)}, v)
}

func TestParsePassthroughVerbatim(t *testing.T) {
	input := "I cannot comply."
	v := Parse("t", input)
	require.IsType(t, "", v)
	assert.Equal(t, input, v)
}

func TestParsePassthroughKeepsOriginalNotStripped(t *testing.T) {
	// Fence stripping happens on a working copy; passthrough must return
	// the input exactly as received.
	input := "```\nnot json at all\n```"
	v := Parse("t", input)
	assert.Equal(t, input, v)
}

func TestParseValueIdempotentForStructured(t *testing.T) {
	var p Parser
	obj := map[string]any{"k": "v"}
	assert.Equal(t, obj, p.ParseValue("t", obj))

	arr := []any{float64(1)}
	assert.Equal(t, arr, p.ParseValue("t", arr))
}

func TestParseScanLimitSkipsOversizedInput(t *testing.T) {
	p := Parser{ScanLimit: 16}
	// Over the limit, invalid outer braces: the scan is skipped and the
	// text passes through even though a scan would have found the object.
	input := `{bad bad bad bad {"a": 1} bad bad}`
	require.Greater(t, len(input), 16)
	assert.Equal(t, input, p.Parse("t", input))
}

func TestParseLargeNonStructuredTerminates(t *testing.T) {
	input := strings.Repeat("no structure here. ", 200)
	v := Parse("t", input)
	assert.Equal(t, input, v)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1}  `))
	assert.Equal(t, "plain", StripFences("plain"))
}
