package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"smartTube/core"
)

// Answer retrieves the chunks most relevant to question among those tagged
// with videoID and asks the chat model over them. Zero matches still invoke
// the model with empty context; the answer is poor but not an error.
func (p *Pipeline) Answer(ctx context.Context, videoID, question string) (string, error) {
	hits, err := p.store.Search(ctx, videoID, question, p.topK)
	if err != nil {
		return "", fmt.Errorf("search chunks for %s: %w", videoID, err)
	}

	prompt := buildPrompt(question, hits)

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	}

	resp, err := p.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no chat completion choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(question string, hits []core.Hit) string {
	parts := make([]string, 0, len(hits))
	for i, hit := range hits {
		parts = append(parts, fmt.Sprintf("Excerpt %d: %s", i+1, hit.Text))
	}
	contextStr := strings.Join(parts, "\n\n")

	return fmt.Sprintf(`You are an assistant answering questions about a video based on its subtitles.

Subtitle excerpts:
%s

Question: %s

Answer using only the excerpts above. If they do not contain enough information to answer, say so.`, contextStr, question)
}
