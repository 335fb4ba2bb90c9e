package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextPlainStringRoundTrip(t *testing.T) {
	body := FromText("hello\nworld")
	assert.Equal(t, KindText, body.Kind())
	assert.Equal(t, "hello\nworld", body.Text())
}

func TestTextFragments(t *testing.T) {
	body := FromFragments([]any{
		"first",
		map[string]any{"text": "second"},
		map[string]any{"content": "third"},
	})
	assert.Equal(t, "first\nsecond\nthird", body.Text())
}

func TestTextFragmentsPreferTextOverContent(t *testing.T) {
	body := FromFragments([]any{
		map[string]any{"content": "fallback", "text": "primary"},
	})
	assert.Equal(t, "primary", body.Text())
}

func TestTextFragmentsNoExtractablePieces(t *testing.T) {
	body := FromFragments([]any{
		map[string]any{"type": "image"},
		42,
	})
	// Nothing extractable: fall back to a rendering of the whole list.
	assert.Equal(t, "[map[type:image] 42]", body.Text())
}

func TestTextBag(t *testing.T) {
	assert.Equal(t, "inner", FromValue(map[string]any{"text": "inner"}).Text())
	assert.Equal(t, "inner", FromValue(map[string]any{"content": "inner"}).Text())
}

func TestTextBagWithoutKnownKeys(t *testing.T) {
	body := FromValue(map[string]any{"payload": "x"})
	assert.Equal(t, "map[payload:x]", body.Text())
}

func TestTextOtherShapes(t *testing.T) {
	assert.Equal(t, "42", FromValue(42).Text())
	assert.Equal(t, "<nil>", FromValue(nil).Text())
	assert.Equal(t, "true", FromValue(true).Text())
}

func TestFromValueClassification(t *testing.T) {
	assert.Equal(t, KindText, FromValue("s").Kind())
	assert.Equal(t, KindFragments, FromValue([]any{"a"}).Kind())
	assert.Equal(t, KindBag, FromValue(map[string]any{}).Kind())
	assert.Equal(t, KindOther, FromValue(3.14).Kind())
}
