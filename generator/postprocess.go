package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoContent       = errors.New("model returned empty content")
	ErrNotObject       = errors.New("content is not a JSON object")
	ErrNoPostsArray    = errors.New("content has no posts array")
	ErrMalformedPosts  = errors.New("malformed posts dropped")
	errUnsupportedType = errors.New("unsupported content type")
)

// ParseContent turns the model reply into posts. content may be JSON text (string, []byte,
// json.RawMessage) or a value the client library already decoded. The returned slice is never
// nil; a non-nil error explains what was discarded and is meant for logging only.
func ParseContent(content any, platforms []string) ([]Post, error) {
	parsed, err := decodeUntyped(content)
	if err != nil {
		return []Post{}, err
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return []Post{}, ErrNotObject
	}
	items, ok := obj["posts"].([]any)
	if !ok {
		return []Post{}, ErrNoPostsArray
	}

	posts := make([]Post, 0, len(items))
	dropped := 0
	for i, item := range items {
		p, ok := toPost(item)
		if !ok {
			dropped++
			continue
		}
		if p.Platform == "" {
			p.Platform = inferPlatform(platforms, i)
		}
		posts = append(posts, p)
	}
	if dropped > 0 {
		return posts, fmt.Errorf("%w: %d of %d", ErrMalformedPosts, dropped, len(items))
	}
	return posts, nil
}

func decodeUntyped(content any) (any, error) {
	var raw []byte
	switch c := content.(type) {
	case nil:
		return nil, ErrNoContent
	case string:
		raw = []byte(c)
	case []byte:
		raw = c
	case json.RawMessage:
		raw = c
	case map[string]any:
		return c, nil
	default:
		// structs and typed maps go through JSON so every shape is checked the same way
		b, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %T", errUnsupportedType, content)
		}
		raw = b
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil, ErrNoContent
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return v, nil
}

func toPost(item any) (Post, bool) {
	m, ok := item.(map[string]any)
	if !ok {
		return Post{}, false
	}
	caption, _ := m["caption"].(string)
	if strings.TrimSpace(caption) == "" {
		return Post{}, false
	}
	p := Post{Caption: caption}
	p.Platform, _ = m["platform"].(string)
	p.Headline, _ = m["headline"].(string)
	if tags, ok := m["hashtags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				p.Hashtags = append(p.Hashtags, s)
			}
		}
	}
	return p, true
}

func inferPlatform(platforms []string, i int) string {
	if len(platforms) == 0 {
		return DefaultPlatform
	}
	if i < len(platforms) {
		return platforms[i]
	}
	return platforms[0]
}
