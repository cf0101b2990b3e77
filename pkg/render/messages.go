package render

import "strings"

// MergeMessages concatenates and normalises error message slices, trimming
// whitespace and removing duplicates while preserving order. Surfaces show
// these verbatim; there is no error taxonomy beyond the text itself.
func MergeMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MergeFieldErrors folds additional per-field messages into base, returning
// a copy. Nil maps are treated as empty.
func MergeFieldErrors(base map[string][]string, extra map[string][]string) map[string][]string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make(map[string][]string, len(base)+len(extra))
	for id, messages := range base {
		if normalized := normalizeMessages(messages); len(normalized) > 0 {
			out[id] = normalized
		}
	}
	for id, messages := range extra {
		out[id] = MergeMessages(out[id], messages...)
	}
	for id, messages := range out {
		if len(messages) == 0 {
			delete(out, id)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
