package generator

import "errors"

// ErrTopicRequired is the only user-correctable failure; it maps to HTTP 400.
var ErrTopicRequired = errors.New("Topic is required")

// ErrEmptyChoices is returned when the upstream replies without any message.
var ErrEmptyChoices = errors.New("openai: empty choices")

// ErrNullRequest is returned for a JSON null body, which has no fields to read.
var ErrNullRequest = errors.New("request body is null")
