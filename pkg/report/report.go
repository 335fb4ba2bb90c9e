// Package report builds and persists the audit report: a single JSON
// document keyed by stage name, with run metadata and advisory schema
// validation of the structured stages.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// rawContentNote marks entries whose recovery degraded to plain text so
// downstream consumers can tell structured data from best-effort text.
const rawContentNote = "unparsed model output, stored as raw text"

// Document is the persisted audit artifact.
type Document struct {
	Subject     string            `json:"subject"`
	RunID       string            `json:"run_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Oracles     map[string]string `json:"oracles,omitempty"`
	Stages      map[string]any    `json:"stages"`
	ContentHash string            `json:"content_hash"`
}

// Build assembles a document from the pipeline's stage-keyed results.
// Structured values are embedded as-is; values that stayed raw text are
// wrapped as {"raw_content": ..., "note": ...}. Partial result maps are
// fine: absent stages are simply absent from the document.
func Build(subject string, results map[string]any, oracles map[string]string) *Document {
	stages := make(map[string]any, len(results))
	for key, value := range results {
		if s, ok := value.(string); ok {
			stages[key] = map[string]any{
				"raw_content": s,
				"note":        rawContentNote,
			}
			continue
		}
		stages[key] = value
	}

	now := time.Now().UTC()
	doc := &Document{
		Subject:   subject,
		RunID:     fmt.Sprintf("%s-%s", now.Format("20060102T150405Z"), runSuffix(now)),
		CreatedAt: now,
		Oracles:   oracles,
		Stages:    stages,
	}
	doc.ContentHash = doc.computeHash()
	return doc
}

// Unparsed returns the stage keys that were persisted as raw text.
func (d *Document) Unparsed() []string {
	var keys []string
	for key, value := range d.Stages {
		bag, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if _, raw := bag["raw_content"]; raw && bag["note"] == rawContentNote {
			keys = append(keys, key)
		}
	}
	return keys
}

// Write persists the document under dir as
// audit_<subject>_<timestamp>.json and returns the file path.
func (d *Document) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	name := fmt.Sprintf("audit_%s_%s.json", slug(d.Subject), d.CreatedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

func (d *Document) computeHash() string {
	data, err := json.Marshal(d.Stages)
	if err != nil {
		data = []byte(fmt.Sprintf("%v", d.Stages))
	}
	h := sha256.New()
	h.Write([]byte(d.Subject))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func runSuffix(now time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d", now.UnixNano())))
	return hex.EncodeToString(sum[:4])
}

// slug lowercases the subject and replaces runs of non-alphanumerics with
// underscores.
func slug(s string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && sb.Len() > 0 {
				sb.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.TrimSuffix(sb.String(), "_")
	if out == "" {
		return "subject"
	}
	return out
}
