package client

import (
	"context"
	"errors"
	"sync"

	"social_post_generator/generator"
)

var (
	// ErrBusy rejects a submit while another one is in flight.
	ErrBusy = errors.New("a generation is already in progress")
	// ErrTopicRequired rejects a submit with an empty topic before any request is made.
	ErrTopicRequired = errors.New("topic is required")
)

// Generator is the part of Client the form needs.
type Generator interface {
	Generate(ctx context.Context, req generator.Request) ([]generator.Post, error)
}

// State is a snapshot of the form.
type State struct {
	Topic   string
	Tone    string
	Count   int
	Loading bool
	Posts   []generator.Post
	Error   string
}

// Form mirrors the page's local state. It is safe for concurrent use; at most one submission
// is in flight at a time.
type Form struct {
	gen       Generator
	platforms []string

	mu      sync.Mutex
	topic   string
	tone    string
	count   int
	loading bool
	posts   []generator.Post
	errMsg  string
}

func NewForm(gen Generator) *Form {
	return &Form{
		gen:       gen,
		platforms: DefaultPlatforms,
		count:     generator.DefaultCount,
		posts:     []generator.Post{},
	}
}

func (f *Form) SetTopic(topic string) {
	f.mu.Lock()
	f.topic = topic
	f.mu.Unlock()
}

func (f *Form) SetTone(tone string) {
	f.mu.Lock()
	f.tone = tone
	f.mu.Unlock()
}

func (f *Form) SetCount(n int) {
	f.mu.Lock()
	f.count = generator.ClampCount(n, generator.DefaultCount)
	f.mu.Unlock()
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.loading && f.topic != ""
}

// Submit runs one generation. Loading is always cleared when it returns; failures are kept
// in State().Error and also returned.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return ErrBusy
	}
	if f.topic == "" {
		f.mu.Unlock()
		return ErrTopicRequired
	}
	f.loading = true
	f.errMsg = ""
	f.posts = []generator.Post{}
	req := generator.Request{
		Topic:     f.topic,
		Tone:      f.tone,
		Count:     f.count,
		Platforms: append([]string(nil), f.platforms...),
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()
	}()

	posts, err := f.gen.Generate(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.errMsg = err.Error()
		if f.errMsg == "" {
			f.errMsg = "Something went wrong."
		}
		return err
	}
	if posts == nil {
		posts = []generator.Post{}
	}
	f.posts = posts
	return nil
}

// State returns a copy of the current form state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State{
		Topic:   f.topic,
		Tone:    f.tone,
		Count:   f.count,
		Loading: f.loading,
		Posts:   append([]generator.Post{}, f.posts...),
		Error:   f.errMsg,
	}
}
