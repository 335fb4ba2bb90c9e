// Package recovery extracts structured JSON values from model output text.
//
// Model responses routinely surround the intended JSON payload with prose,
// markdown fences, preambles, or trailing commentary. Parse applies a cascade
// of strategies, cheapest and most specific first, and never fails the
// caller: when no strategy yields structured data the original text comes
// back unchanged. A string result therefore means "could not structure
// this", not an error.
package recovery

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// DefaultScanLimit bounds the input length, in bytes, eligible for the
// exhaustive substring scan. The scan is quadratic in input length, so
// oversized inputs skip it and fall through to passthrough.
const DefaultScanLimit = 2048

// Parser recovers structured values from text. The zero value is usable.
type Parser struct {
	// Logger receives per-strategy diagnostics at debug level. Nil disables.
	Logger *zap.Logger
	// ScanLimit overrides DefaultScanLimit when positive.
	ScanLimit int
}

// Parse is a convenience wrapper around a zero-value Parser.
func Parse(label, text string) any {
	var p Parser
	return p.Parse(label, text)
}

// ParseValue passes a string through Parse and returns any other value
// unchanged. Already-structured values never degrade.
func (p *Parser) ParseValue(label string, v any) any {
	if s, ok := v.(string); ok {
		return p.Parse(label, s)
	}
	return v
}

// Parse attempts to recover a JSON object or array from text. The label only
// names the call site in diagnostics. On total failure the original text is
// returned verbatim.
func (p *Parser) Parse(label, text string) any {
	if v, ok := parseJSON(text); ok {
		p.recovered(label, "direct")
		return v
	}

	cleaned := StripFences(text)
	if cleaned != text {
		if v, ok := parseJSON(cleaned); ok {
			p.recovered(label, "fence_strip")
			return v
		}
	}

	if v, ok := extractDelimited(cleaned, '{', '}'); ok {
		p.recovered(label, "brace_extract")
		return v
	}

	if v, ok := extractDelimited(cleaned, '[', ']'); ok {
		p.recovered(label, "bracket_extract")
		return v
	}

	if v, ok := parseJSON(stripCommentLines(cleaned)); ok {
		p.recovered(label, "comment_strip")
		return v
	}

	limit := p.ScanLimit
	if limit <= 0 {
		limit = DefaultScanLimit
	}
	if len(cleaned) <= limit {
		if v, ok := scanSubstrings(cleaned); ok {
			p.recovered(label, "substring_scan")
			return v
		}
	} else if p.Logger != nil {
		p.Logger.Debug("substring scan skipped, input over limit",
			zap.String("label", label),
			zap.Int("length", len(cleaned)),
			zap.Int("limit", limit))
	}

	if p.Logger != nil {
		p.Logger.Debug("no structure recovered, passing text through",
			zap.String("label", label),
			zap.Int("length", len(text)))
	}
	return text
}

func (p *Parser) recovered(label, strategy string) {
	if p.Logger != nil {
		p.Logger.Debug("recovered structured output",
			zap.String("label", label),
			zap.String("strategy", strategy))
	}
}

// StripFences removes a leading ```json or ``` marker and a trailing ```
// marker, then trims surrounding whitespace.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

// parseJSON attempts a direct parse of text as a JSON document.
func parseJSON(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

// extractDelimited parses the span from the first open delimiter to the last
// close delimiter, inclusive.
func extractDelimited(text string, opening, closing byte) (any, bool) {
	first := strings.IndexByte(text, opening)
	last := strings.LastIndexByte(text, closing)
	if first == -1 || last == -1 || last <= first {
		return nil, false
	}
	return parseJSON(text[first : last+1])
}

// stripCommentLines drops blank lines and lines starting with '#', then
// rejoins the remainder.
func stripCommentLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// scanSubstrings tries every contiguous substring, shortest start index
// first, and returns the first that parses into an object or array.
func scanSubstrings(text string) (any, bool) {
	for start := 0; start < len(text); start++ {
		for end := start + 1; end <= len(text); end++ {
			v, ok := parseJSON(text[start:end])
			if !ok {
				continue
			}
			switch v.(type) {
			case map[string]any, []any:
				return v, true
			}
		}
	}
	return nil, false
}
