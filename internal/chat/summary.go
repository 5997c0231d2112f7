package chat

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// MaxSummaryContentLength is the character budget of document content included
// in the summary prompt.
const MaxSummaryContentLength = 4000

const summaryPrompt = `Please provide a concise summary of the following document.
Focus on the main topics, key points, and overall purpose of the document.

Document content:
%s

Please provide a summary:`

// Summarizer generates natural-language summaries of Markdown documents.
type Summarizer struct {
	client *Client
}

// NewSummarizer creates a Summarizer backed by the given chat client.
func NewSummarizer(client *Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize truncates the Markdown content to the summary character budget,
// embeds it in the instruction prompt and returns the model's summary text.
func (s *Summarizer) Summarize(ctx context.Context, markdown string, maxTokens int) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, truncate(markdown, MaxSummaryContentLength))

	summary, err := s.client.Complete(ctx, []Message{{Role: "user", Content: prompt}}, maxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	return summary, nil
}

// truncate cuts s to at most n characters without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 {
		if r, size := utf8.DecodeLastRuneInString(cut); r == utf8.RuneError && size <= 1 {
			cut = cut[:len(cut)-1]
			continue
		}
		break
	}
	return cut
}
