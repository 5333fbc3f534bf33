package scorer

import (
	"fmt"
	"strings"

	"cfpscout/internal/domain/entity"
	"cfpscout/internal/utils/text"
)

// buildPrompt constructs the scoring prompt from the abstract and the
// conference fields. The description is the primary relevance signal and is
// truncated to the configured budget; the reply must be a bare JSON object so
// both providers parse it the same way.
func buildPrompt(abstract string, conf *entity.Conference, maxPromptChars int) string {
	var b strings.Builder

	b.WriteString("You are an expert at judging how relevant a conference is to a scientific paper.\n\n")
	b.WriteString("Here is the abstract of our work:\n")
	b.WriteString(abstract)
	b.WriteString("\n\nAnd here are the conference details:\n")
	fmt.Fprintf(&b, "- Title: %s\n", conf.Title)
	fmt.Fprintf(&b, "- Acronym: %s\n", conf.Acronym)
	fmt.Fprintf(&b, "- When: %s\n", conf.When)
	fmt.Fprintf(&b, "- Where: %s\n", conf.Where)
	fmt.Fprintf(&b, "- Deadline: %s\n", conf.Deadline)
	if conf.Description != "" {
		fmt.Fprintf(&b, "- Description: %s\n",
			text.Truncate(text.CollapseSpace(conf.Description), maxPromptChars, "…"))
	}
	b.WriteString("\nRate the relevance of this conference for our work on a scale from 0 to 10.\n")
	b.WriteString(`Reply with only a JSON object with the keys "score" (an integer between 0 and 10) ` +
		`and "justification" (a short text explaining the rating).`)

	return b.String()
}
