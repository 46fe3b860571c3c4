package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// maxCoachingRows bounds how many feedback rows end up in one prompt.
const maxCoachingRows = 50

// FeedbackItem is one feedback row as the coaching prompt sees it.
type FeedbackItem struct {
	OccurredAt time.Time
	Kind       string
	Category   string
	Text       string
}

// CoachingReport is the fixed shape callers always receive, possibly
// empty, never half-parsed.
type CoachingReport struct {
	Praise  []string `json:"praise"`
	Neutral []string `json:"neutral"`
	Improve []string `json:"improve"`
}

func EmptyReport() CoachingReport {
	return CoachingReport{Praise: []string{}, Neutral: []string{}, Improve: []string{}}
}

const coachingSystemPrompt = `You are a QA coaching assistant. Given a list of feedback entries for one employee, group the observations into three buckets. Respond with a JSON object of the exact shape {"praise": [...], "neutral": [...], "improve": [...]} where each bucket is an array of short observation strings. Do not include any other keys or prose.`

// BuildCoachingPrompt renders at most maxCoachingRows items into the user
// message for the coaching call.
func BuildCoachingPrompt(items []FeedbackItem) string {
	if len(items) > maxCoachingRows {
		items = items[:maxCoachingRows]
	}

	var b strings.Builder
	b.WriteString("Feedback entries:\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d. [%s] %s / %s: %s\n",
			i+1, it.OccurredAt.Format("2006-01-02"), it.Kind, it.Category, strings.TrimSpace(it.Text))
	}
	return b.String()
}

// Coach runs the coaching call and coerces the response. On any failure
// the zero-valued (but well-shaped) report is returned alongside the error.
func Coach(ctx context.Context, c *Client, items []FeedbackItem) (CoachingReport, error) {
	raw, err := c.Complete(ctx, coachingSystemPrompt, BuildCoachingPrompt(items), true)
	if err != nil {
		return EmptyReport(), err
	}
	return ParseCoachingReport(raw)
}

// ParseCoachingReport parses model output into a CoachingReport. It
// tolerates code fences, surrounding prose and non-string array entries;
// anything unusable yields the empty report plus an error.
func ParseCoachingReport(raw string) (CoachingReport, error) {
	raw = extractJSONObject(raw)
	if raw == "" {
		return EmptyReport(), fmt.Errorf("no JSON object in model output")
	}

	var loose map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return EmptyReport(), fmt.Errorf("model output is not valid JSON: %w", err)
	}

	report := EmptyReport()
	report.Praise = coerceStrings(loose["praise"])
	report.Neutral = coerceStrings(loose["neutral"])
	report.Improve = coerceStrings(loose["improve"])
	return report, nil
}

// extractJSONObject strips markdown fences and trims to the outermost
// {...} span, if any.
func extractJSONObject(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// coerceStrings reads a JSON array keeping only its string members. A
// missing or malformed value yields an empty slice.
func coerceStrings(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
