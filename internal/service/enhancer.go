package service

import "context"

// ContentEnhancer cleans up user-submitted content before storage, for
// example through an LLM. Implementations must be safe for concurrent use.
type ContentEnhancer interface {
	// Enhance returns an improved rendition of content. On failure the
	// caller stores the raw content unchanged.
	Enhance(ctx context.Context, content string) (string, error)
}

// enhanceOrFallthrough applies the enhancer when one is configured and
// returns the raw content on any failure. Enhancement never fails a post.
func enhanceOrFallthrough(ctx context.Context, enhancer ContentEnhancer, content string) (string, bool) {
	if enhancer == nil {
		return content, false
	}
	enhanced, err := enhancer.Enhance(ctx, content)
	if err != nil || enhanced == "" {
		return content, false
	}
	return enhanced, true
}
