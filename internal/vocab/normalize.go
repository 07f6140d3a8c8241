// Package vocab normalizes symptom and disease names so that rule files and
// caller input agree on a single spelling.
package vocab

import "strings"

// Normalize canonicalizes a name: lowercase, trimmed, with runs of spaces
// and hyphens collapsed to single underscores and any other punctuation
// dropped. "Dry Cough" and "dry-cough" both normalize to "dry_cough".
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteRune('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// NormalizeIntensities returns a copy of the intensity map with every
// symptom name normalized. Duplicate names after normalization keep the
// larger intensity so a stray alias cannot silently zero a symptom.
func NormalizeIntensities(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, value := range in {
		key := Normalize(name)
		if key == "" {
			continue
		}
		if existing, ok := out[key]; !ok || value > existing {
			out[key] = value
		}
	}
	return out
}
