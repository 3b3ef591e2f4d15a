package browse

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// extractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (feed descriptions arrive entity-encoded),
// strips all tags, then collapses whitespace.
func extractText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// formatSalary renders the normalized range, falling back to the raw text.
func formatSalary(p model.Posting) string {
	if p.SalaryNormalized == nil {
		return p.SalaryRaw
	}
	r := p.SalaryNormalized
	if r.Min == r.Max {
		return fmt.Sprintf("%d (%s)", r.Min, p.SalaryRaw)
	}
	return fmt.Sprintf("%d - %d (%s)", r.Min, r.Max, p.SalaryRaw)
}
