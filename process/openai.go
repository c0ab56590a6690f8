package process

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const summarizePrompt = "Summarize the following text:\n\n%s"

var ErrEmptySummary = errors.New("empty summary")

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type OpenAISummarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAISummarizer(client *openai.Client, model string, maxTokens int) *OpenAISummarizer {
	return &OpenAISummarizer{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Summarize sends the text in a single request. Text that does not fit the
// context window of the model makes the request fail.
func (sum *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := sum.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:     sum.model,
			MaxTokens: sum.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(summarizePrompt, text),
				},
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to fetch summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}

	summary := strings.TrimSpace(resp.Choices[len(resp.Choices)-1].Message.Content)
	if summary == "" {
		return "", ErrEmptySummary
	}

	return summary, nil
}
