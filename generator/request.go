package generator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// DecodeRequest parses an endpoint body leniently. Only the topic is validated: a missing,
// non-string or empty "topic" key yields ErrTopicRequired, including for valid JSON that is not
// an object. Keys match exactly. Unparsable JSON and a null body are decode errors.
// defaultCount fills in an absent or unusable count.
func DecodeRequest(data []byte, defaultCount int) (Request, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return Request{}, ErrTopicRequired
		}
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	if raw == nil {
		return Request{}, ErrNullRequest
	}

	var topic string
	if len(raw["topic"]) == 0 || json.Unmarshal(raw["topic"], &topic) != nil || topic == "" {
		return Request{}, ErrTopicRequired
	}

	req := Request{
		Topic:     topic,
		Platforms: decodePlatforms(raw["platforms"]),
		Count:     ClampCount(decodeCount(raw["count"]), defaultCount),
	}
	var tone string
	if len(raw["tone"]) > 0 && json.Unmarshal(raw["tone"], &tone) == nil {
		req.Tone = tone
	}
	return req, nil
}

// Normalize applies the same defaults to an already typed request. Only a nil platform list
// falls back to DefaultPlatform; an explicit empty list stays empty.
func Normalize(req Request, defaultCount int) Request {
	if req.Platforms == nil {
		req.Platforms = []string{DefaultPlatform}
	} else {
		platforms := make([]string, 0, len(req.Platforms))
		for _, p := range req.Platforms {
			if p != "" {
				platforms = append(platforms, p)
			}
		}
		req.Platforms = platforms
	}
	req.Count = ClampCount(req.Count, defaultCount)
	return req
}

// decodePlatforms keeps the string entries of an array. Anything that is not an array means
// the default platform.
func decodePlatforms(data json.RawMessage) []string {
	var items []any
	if len(data) == 0 || json.Unmarshal(data, &items) != nil || items == nil {
		return []string{DefaultPlatform}
	}
	platforms := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			platforms = append(platforms, s)
		}
	}
	return platforms
}

func decodeCount(data json.RawMessage) int {
	var f float64
	if len(data) == 0 || json.Unmarshal(data, &f) != nil {
		return 0
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}
