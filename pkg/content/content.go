// Package content normalizes provider response bodies into plain text.
//
// Providers return bodies in a handful of shapes: a plain string, an ordered
// list of fragments (each a string or a keyed map), or a single keyed map.
// Body is a closed variant over those shapes with an explicit "other" case,
// so extraction is total and never panics on an unexpected payload.
package content

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a response body.
type Kind int

const (
	// KindText is a plain string body.
	KindText Kind = iota
	// KindFragments is an ordered list of string or keyed-map fragments.
	KindFragments
	// KindBag is a single keyed map carrying the text under a known key.
	KindBag
	// KindOther is any shape not covered above.
	KindOther
)

// Body is an immutable response body of one of the known shapes.
type Body struct {
	kind      Kind
	text      string
	fragments []any
	bag       map[string]any
	raw       any
}

// FromText wraps a plain string body.
func FromText(s string) Body {
	return Body{kind: KindText, text: s, raw: s}
}

// FromFragments wraps an ordered fragment list. Each fragment may be a
// string or a map carrying its text under "text" or "content".
func FromFragments(fragments []any) Body {
	return Body{kind: KindFragments, fragments: fragments, raw: fragments}
}

// FromValue classifies an arbitrary decoded value into a Body.
func FromValue(v any) Body {
	switch t := v.(type) {
	case string:
		return FromText(t)
	case []any:
		return FromFragments(t)
	case map[string]any:
		return Body{kind: KindBag, bag: t, raw: t}
	default:
		return Body{kind: KindOther, raw: v}
	}
}

// Kind returns the body's shape.
func (b Body) Kind() Kind {
	return b.kind
}

// Text flattens the body into a single string. Fragment pieces are joined
// with newlines in their original order. Shapes that carry no extractable
// text fall back to a formatted rendering of the whole value.
func (b Body) Text() string {
	switch b.kind {
	case KindText:
		return b.text
	case KindFragments:
		parts := make([]string, 0, len(b.fragments))
		for _, fragment := range b.fragments {
			switch item := fragment.(type) {
			case string:
				parts = append(parts, item)
			case map[string]any:
				if s, ok := bagText(item); ok {
					parts = append(parts, s)
				}
			}
		}
		if len(parts) == 0 {
			return render(b.raw)
		}
		return strings.Join(parts, "\n")
	case KindBag:
		if s, ok := bagText(b.bag); ok {
			return s
		}
		return render(b.raw)
	default:
		return render(b.raw)
	}
}

// bagText pulls the text value from a keyed map, preferring "text" over
// "content".
func bagText(bag map[string]any) (string, bool) {
	for _, key := range []string{"text", "content"} {
		v, ok := bag[key]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			return s, true
		}
		return render(v), true
	}
	return "", false
}

func render(v any) string {
	return fmt.Sprintf("%v", v)
}
