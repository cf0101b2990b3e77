package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	chunkPolicyOnce sync.Once
	chunkPolicy     *bluemonday.Policy
)

// sanitizeChunkMarkup cleans chunk content before it is embedded in the
// document preview. The KB returns text that may carry markup from the
// original document; only harmless inline formatting survives.
func sanitizeChunkMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(chunkSanitizer().Sanitize(trimmed))
}

func chunkSanitizer() *bluemonday.Policy {
	chunkPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"p", "br", "strong", "em", "b", "i", "code", "pre",
			"ul", "ol", "li", "blockquote", "h1", "h2", "h3", "h4",
		)
		chunkPolicy = policy
	})
	return chunkPolicy
}
