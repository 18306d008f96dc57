package agent

import (
	"context"
	"fmt"
	"strings"

	"trendspotter/internal/oracle"
	"trendspotter/internal/trend"
)

const popularitySystemPrompt = `You are given a social media trend.

Do NOT summarize the content of the trend.
ONLY return a single sentence stating:
- the trend, named in two to four words
- the total number of likes
- the total number of tweets
For example:
- Intelligentsia Coffee got 2282 likes and 5 people tweeted about it.
- Yurakucho Kakida in Tokyo received 3490 likes and was mentioned in 4 tweets.
- Sushi No Midori garnered 1212 likes and appeared in 1 tweet.`

// PopularityComposer answers "how many likes/tweets" follow-ups purely from
// the session's cached ranked list, without touching the store or rerunning
// retrieval.
type PopularityComposer struct {
	oracle oracle.Provider
}

// NewPopularityComposer creates a PopularityComposer.
func NewPopularityComposer(p oracle.Provider) *PopularityComposer {
	return &PopularityComposer{oracle: p}
}

// Compose summarizes the top cached entry's likes and mention count.
// With no cached list (or an empty one) it fails closed with the fixed
// "not available yet" message.
func (c *PopularityComposer) Compose(ctx context.Context, ranked trend.RankedList, hasRanked bool) (string, error) {
	top, ok := ranked.Top()
	if !hasRanked || !ok {
		return AnswerPopularityUnavailable, nil
	}

	req := oracle.Request{
		SystemPrompt: popularitySystemPrompt,
		UserPrompt: fmt.Sprintf("Trend tweets:\n%s\n\nTotal likes: %d\nTotal tweets: %d",
			strings.Join(top.Texts, "\n"), top.Likes, top.Count),
		MaxTokens: 128,
	}

	resp, err := c.oracle.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("popularity: %w", err)
	}

	answer := strings.TrimSpace(resp.Content)
	if answer == "" {
		return AnswerUnknown, nil
	}
	return answer, nil
}
