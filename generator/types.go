package generator

// DefaultPlatform is used when a request names no usable platform.
const DefaultPlatform = "instagram"

const (
	MinCount     = 1
	MaxCount     = 10
	DefaultCount = 3
)

// Request describes one generation: a topic plus the platforms to tailor posts for.
type Request struct {
	Topic     string   `json:"topic"`
	Platforms []string `json:"platforms"`
	Count     int      `json:"count,omitempty"`
	Tone      string   `json:"tone,omitempty"`
}

// Post is one generated draft. Hashtags are kept without the leading '#'.
type Post struct {
	Platform string   `json:"platform"`
	Headline string   `json:"headline,omitempty"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags,omitempty"`
}

// Response is the endpoint body. Posts is never nil on success.
type Response struct {
	Posts []Post `json:"posts"`
}

// ErrorResponse is the endpoint body on the 400/500 paths.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ClampCount pins n into [MinCount, MaxCount]; zero or negative means "not set".
func ClampCount(n, def int) int {
	if n <= 0 {
		n = def
	}
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}
