package generator

import (
	"context"
	"errors"
	"time"

	"social_post_generator/logger"
	"social_post_generator/metrics"
)

// DefaultTimeout bounds a single upstream call.
const DefaultTimeout = 60 * time.Second

// AgentConfig tunes prompt construction and the upstream deadline.
type AgentConfig struct {
	Prompt       PromptOptions
	Timeout      time.Duration
	DefaultCount int
}

// Agent turns a request into posts with one upstream call.
type Agent struct {
	llm LLMClient
	cfg AgentConfig
}

func NewAgent(llm LLMClient, cfg AgentConfig) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DefaultCount <= 0 {
		cfg.DefaultCount = DefaultCount
	}
	return &Agent{llm: llm, cfg: cfg}, nil
}

// DefaultCount is the post count used when a request does not name one.
func (a *Agent) DefaultCount() int { return a.cfg.DefaultCount }

// Generate validates the topic, calls the model once and parses its reply permissively.
// Upstream parse problems never fail the call; they are logged and yield fewer (or no) posts.
func (a *Agent) Generate(ctx context.Context, req Request) ([]Post, error) {
	if req.Topic == "" {
		return nil, ErrTopicRequired
	}
	req = Normalize(req, a.cfg.DefaultCount)
	prompt := BuildPrompt(req, a.cfg.Prompt)

	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	start := time.Now()
	raw, err := a.llm.Complete(ctx, prompt)
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	posts, err := ParseContent(raw, req.Platforms)
	if err != nil {
		metrics.UpstreamParseFailures.Inc()
		logger.Warn(ctx, "failed to parse response content", "error", err.Error(), "posts_kept", len(posts))
	}
	return posts, nil
}
