package prompts

import (
	"fmt"
	"strings"

	"github.com/deusflow/chaindigest/internal/headline"
)

const maxDescriptionRunes = 200

const NewsSystem = `You are a professional crypto news analyst writing the daily news digest for a crypto community Telegram channel.

Summarize the most important crypto and onchain news of the past 24 hours into one concise, well-structured Telegram post.

Guidelines:
- Format for Telegram HTML: only <b>, <i> and <a href="..."> tags. Escape &, < and > in plain text.
- Keep the post between 1500 and 2500 characters.
- Stories are listed by how many outlets covered them. Lead with the most covered story.
- Group related stories together.
- Focus on onchain activity, DeFi, token movements and market-moving events.
- Give brief context for why each story matters.
- End with a one-line market sentiment note.
- Do not put URLs in the post body.
- Be factual and balanced.`

// NewsUser renders the top n ranked headlines for the model. With no
// headlines it asks for a short "sources unavailable" note instead.
func NewsUser(ranked []headline.RankedHeadline, n int) string {
	var sb strings.Builder
	sb.WriteString("Here are the most covered crypto stories of the past 24 hours, ranked by how many outlets reported them. Please create a daily news digest Telegram post.\n\n")

	if len(ranked) == 0 {
		sb.WriteString("No recent articles found. Please write a brief note explaining that news sources are temporarily unavailable.\n")
		return sb.String()
	}

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	for i, h := range ranked {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, strings.Join(h.RelatedSources, ", "), h.Title)
		fmt.Fprintf(&sb, "   Coverage: %d %s\n", h.CoverageCount, pluralize(h.CoverageCount, "outlet", "outlets"))
		if h.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", truncateRunes(h.Description, maxDescriptionRunes))
		}
		fmt.Fprintf(&sb, "   Published: %s\n\n", FormatTime(h.Timestamp))
	}

	sb.WriteString("\nPlease create a formatted daily news digest Telegram post summarizing the most important stories above.")
	return sb.String()
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
