package provider

import "github.com/Takeshi-Yoshimura-park/design-ai/internal/imagesearch/types"

// Normalize applies the provider-independent result rules: caption
// fallback to the query text, dedupe by final image URL keeping the first
// occurrence in order, then truncation to the limit. Records with a
// missing thumbnail are kept; the caller logs them.
func Normalize(images []types.Image, query string, limit int) []types.Image {
	seen := make(map[string]struct{}, len(images))
	out := make([]types.Image, 0, len(images))

	for _, img := range images {
		if img.Alt == "" {
			img.Alt = query
		}
		if _, dup := seen[img.URL]; dup {
			continue
		}
		seen[img.URL] = struct{}{}
		out = append(out, img)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
