package generator

import (
	"fmt"
	"strings"
)

// DefaultSystemPrompt fixes the assistant persona.
const DefaultSystemPrompt = "You are a creative marketing assistant that generates engaging, long-form social media posts. Ensure outputs are platform-tailored, unique, and natural."

// SchemaName names the structured output format sent upstream.
const SchemaName = "social_media_posts"

// PostsSchema constrains the reply to { posts: Post[] }. The upstream treats it as a hint,
// so replies are still parsed with ParseContent.
var PostsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"posts": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"platform": map[string]any{"type": "string"},
					"headline": map[string]any{"type": "string"},
					"caption":  map[string]any{"type": "string"},
					"hashtags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []string{"platform", "caption"},
			},
		},
	},
	"required": []string{"posts"},
}

// Prompt is the system + user message pair sent to the LLM.
type Prompt struct {
	System string
	User   string
}

// PromptOptions are the tunable parts of the instruction.
type PromptOptions struct {
	System          string
	MinWordsPerPost int
	VaryTone        bool
}

// BuildPrompt renders the instruction for a normalized request.
func BuildPrompt(req Request, opts PromptOptions) Prompt {
	count := ClampCount(req.Count, DefaultCount)
	platforms := req.Platforms
	if platforms == nil {
		platforms = []string{DefaultPlatform}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate %d unique and different social media posts for topic: %q", count, req.Topic))
	if len(platforms) > 0 {
		sb.WriteString(" across the following platforms: " + strings.Join(platforms, ", "))
	}
	sb.WriteString(".\n\n")
	if opts.MinWordsPerPost > 0 {
		sb.WriteString(fmt.Sprintf("- Each post must be at least %d words long.\n", opts.MinWordsPerPost))
	}
	sb.WriteString("- Include an optional headline, a detailed caption, and relevant hashtags.\n")
	if opts.VaryTone {
		sb.WriteString("- Posts should not be repetitive in tone or style.\n")
	}
	if tone := strings.TrimSpace(req.Tone); tone != "" {
		sb.WriteString(fmt.Sprintf("- Write in a %s tone.\n", tone))
	}
	sb.WriteString("- Adapt writing style slightly for each platform (casual for Instagram, informative for LinkedIn, etc.).\n")
	sb.WriteString("- Return hashtags without the leading #.")

	system := opts.System
	if system == "" {
		system = DefaultSystemPrompt
	}
	return Prompt{System: system, User: sb.String()}
}
