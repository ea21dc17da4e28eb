// Package tokens estimates how many tokens a piece of conversation text costs.
package tokens

import (
	"log/slog"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"github.com/HMTking/greenify/internal/types"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens with a tiktoken encoding. When the encoding cannot be
// loaded it falls back to an estimate of one token per four runes.
type Counter struct {
	tokenizer *tiktoken.Tiktoken
	encoding  string
}

// New loads the named encoding, which may also be a model name such as
// "gpt-4". Loading failures are logged and leave the counter estimating.
func New(encoding string) *Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		enc, err = tiktoken.EncodingForModel(encoding)
	}
	if err != nil {
		slog.Warn("tokenizer unavailable, estimating", "encoding", encoding, "error", err)
		return &Counter{encoding: encoding}
	}
	return &Counter{tokenizer: enc, encoding: encoding}
}

// Exact reports whether counts come from a real tokenizer.
func (c *Counter) Exact() bool {
	return c.tokenizer != nil
}

func (c *Counter) Encoding() string {
	return c.encoding
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.tokenizer == nil {
		return Estimate(text)
	}
	return len(c.tokenizer.Encode(text, nil, nil))
}

// CountMessages sums the text of every message.
func (c *Counter) CountMessages(messages []types.Message) int {
	total := 0
	for _, m := range messages {
		total += c.Count(m.Text)
	}
	return total
}

// Estimate approximates a token count from the rune count.
func Estimate(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}
