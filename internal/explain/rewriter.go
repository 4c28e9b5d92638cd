// Package explain rewrites risk explanations into plain language for
// homebuyers using the OpenAI chat completions API. Every failure path
// falls back to the precomputed explanation so scoring never blocks on
// the language model.
package explain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type Rewriter struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewRewriter creates a rewriter. An empty apiKey yields a disabled
// rewriter whose Rewrite returns the fallback unchanged.
func NewRewriter(apiKey, model string, logger *slog.Logger) *Rewriter {
	r := &Rewriter{
		model:  model,
		logger: logger,
	}
	if apiKey != "" {
		r.client = openai.NewClient(apiKey)
	}
	return r
}

// Rewrite produces a one-to-two sentence plain-language explanation of the
// score from its signals. The fallback string is returned when the rewriter
// is disabled, there are no signals, or the completion fails.
func (r *Rewriter) Rewrite(ctx context.Context, signals []string, score int, label, fallback, location string) string {
	if r.client == nil || len(signals) == 0 {
		return fallback
	}

	loc := " for this area"
	if location != "" {
		loc = fmt.Sprintf(" for this location (ZIP/area: %s)", location)
	}
	prompt := fmt.Sprintf(
		"You are a real estate transparency assistant. In one or two short sentences, "+
			"explain to a family homebuyer why%s there is the following corporate acquisition risk: "+
			"score %d/10, %s. Be clear and helpful. Do not use bullet points. "+
			"Write as if speaking directly about this specific location.\n\n"+
			"Signals: %s",
		loc, score, label, strings.Join(signals, "; "),
	)

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: 150,
	})
	if err != nil {
		r.logger.Warn("explanation rewrite failed", "error", err)
		return fallback
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return fallback
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
