package extract

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a research assistant that reads childcare provider
website content and extracts structured facts. Answer only with a single JSON
object and nothing else. Be conservative: when the content does not support a
claim, use the default value for that field.`

const fieldInstructions = `Extract exactly these six fields as a JSON object:
- "AgesServed": the age range the provider serves (e.g. "6 weeks - 5 years"), or "" if not stated.
- "Mandarin": "Yes" if Mandarin or Chinese language immersion/instruction is offered, otherwise "No".
- "MealsProvided": "Yes" if meals or lunches are provided by the program, otherwise "No".
- "Curriculum": a short name of the curriculum or educational approach (e.g. "Montessori", "Reggio Emilia", "play-based"), or "" if not stated.
- "CulturalDiversity": "High" if the content emphasizes multicultural or diverse community, "Low" if clearly homogeneous, otherwise "Unknown".
- "StaffStability": "Yes" if the content mentions long staff tenure or low turnover, otherwise "No".

Respond with the JSON object only.`

// buildSinglePrompt builds the user message for content from a single page.
func buildSinglePrompt(name, content string, budget int) string {
	return fmt.Sprintf("Provider name: %s\n\nWebsite content:\n%s\n\n%s",
		name, truncate(content, budget), fieldInstructions)
}

// buildSitePrompt builds the user message for content aggregated from a
// homepage plus discovered subpages. Page provenance headers are preserved
// so the model can weigh section context.
func buildSitePrompt(name, content string, budget int) string {
	return fmt.Sprintf("Provider name: %s\n\nContent gathered from multiple pages of the provider's website. Each section is labeled with its source URL.\n\n%s\n\n%s",
		name, truncate(content, budget), fieldInstructions)
}

// buildMultiPrompt builds the user message for content aggregated across
// several distinct websites for the same provider.
func buildMultiPrompt(name, content string, budget int) string {
	return fmt.Sprintf("Provider name: %s\n\nContent gathered from several websites describing this provider. Each section is labeled with its source URL. Reconcile conflicts in favor of the provider's own site.\n\n%s\n\n%s",
		name, truncate(content, budget), fieldInstructions)
}

// truncate caps content at budget characters. The cut is byte-based; a torn
// multibyte rune at the boundary is dropped.
func truncate(s string, budget int) string {
	if budget <= 0 || len(s) <= budget {
		return s
	}
	cut := s[:budget]
	return strings.ToValidUTF8(cut, "")
}
