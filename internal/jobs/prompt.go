package jobs

import (
	"fmt"
	"strings"
)

const promptRule = "============================================================"

// FormatForPrompt renders a position's requirement catalogue as the plain
// text block embedded in the analysis prompt.
func FormatForPrompt(p *Position) string {
	var b strings.Builder

	fmt.Fprintf(&b, "POSITION: %s\n\n", p.Title)
	writeLevel(&b, "MUST-HAVE REQUIREMENTS (60% weight):", p.MustHave)
	writeLevel(&b, "SHOULD-HAVE REQUIREMENTS (30% weight):", p.ShouldHave)
	writeLevel(&b, "NICE-TO-HAVE REQUIREMENTS (10% weight):", p.NiceToHave)

	return strings.TrimRight(b.String(), "\n")
}

func writeLevel(b *strings.Builder, heading string, categories []RequirementCategory) {
	b.WriteString(promptRule + "\n")
	b.WriteString(heading + "\n")
	b.WriteString(promptRule + "\n")
	for _, c := range categories {
		fmt.Fprintf(b, "\n%s (weight: %.0f%%):\n", c.Category, c.Weight*100)
		for _, skill := range c.Skills {
			fmt.Fprintf(b, "  - %s\n", skill)
		}
	}
	b.WriteString("\n")
}
