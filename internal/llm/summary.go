package llm

import (
	"context"
	"strings"
	"unicode/utf8"
)

const summarySystemPrompt = `You summarize internal news articles for a company portal feed. Respond with two to three plain sentences, no markdown, no preamble.`

const maxSummaryInput = 6000

// Summarize asks the model for a short plain-text summary of the article.
// Callers fall back to a truncated body when this fails.
func Summarize(ctx context.Context, c *Client, title, body string) (string, error) {
	if utf8.RuneCountInString(body) > maxSummaryInput {
		body = string([]rune(body)[:maxSummaryInput])
	}

	out, err := c.Complete(ctx, summarySystemPrompt, "Title: "+title+"\n\n"+body, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Truncate is the summary fallback: the first n runes of the body with an
// ellipsis when cut.
func Truncate(body string, n int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= n {
		return body
	}
	return strings.TrimSpace(string(runes[:n])) + "…"
}
