package generator

import (
	"context"
	"encoding/json"
	"strings"
)

// MockLLM is a local stand-in that never calls a remote model. Reply, when set, is returned
// verbatim; otherwise a single post echoing the instruction is produced.
type MockLLM struct {
	Reply string
}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	if m.Reply != "" {
		return m.Reply, nil
	}
	first, _, _ := strings.Cut(prompt.User, "\n")
	body, err := json.Marshal(Response{Posts: []Post{{
		Platform: DefaultPlatform,
		Headline: "Draft preview",
		Caption:  "Local draft for: " + strings.TrimSpace(first),
		Hashtags: []string{"draft", "preview"},
	}}})
	if err != nil {
		return "", err
	}
	return string(body), nil
}
