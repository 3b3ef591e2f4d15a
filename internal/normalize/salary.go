package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/amishk599/jobscout/internal/model"
)

var (
	// $50K, $250,000 - $280,000, $100 to $200
	salaryPattern = regexp.MustCompile(`\$[\d,]+[kK]?(?:\s*(?:-|–|to)\s*\$[\d,]+[kK]?)?`)

	salaryTokenPattern = regexp.MustCompile(`(\d+)([kK]|,000)`)
)

// ExtractSalary returns the first salary-looking substring of text verbatim,
// or "" when there is none. The amounts are not interpreted.
func ExtractSalary(text string) string {
	return salaryPattern.FindString(text)
}

// SalaryNormalizer turns raw salary text into a numeric range.
//
// A digit run counts only when it is directly followed by "k"/"K" (multiplied
// by 1000) or by ",000". With ExpandThousands unset the run before ",000" is
// taken as-is, so "$45,000" yields 45; with it set the run is multiplied by
// 1000 and "$45,000" yields 45000.
type SalaryNormalizer struct {
	ExpandThousands bool
}

// Normalize returns nil when raw carries no suffixed amount.
func (n SalaryNormalizer) Normalize(raw string) *model.SalaryRange {
	if raw == "" {
		return nil
	}

	matches := salaryTokenPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	var r *model.SalaryRange
	for _, m := range matches {
		num := parseAmount(m[1], strings.EqualFold(m[2], "k") || n.ExpandThousands)
		if r == nil {
			r = &model.SalaryRange{Min: num, Max: num}
			continue
		}
		r.Min = min(r.Min, num)
		r.Max = max(r.Max, num)
	}
	return r
}

// parseAmount converts a digit run, multiplied by 1000 when thousands is set.
// Amounts that do not fit an int saturate at math.MaxInt.
func parseAmount(digits string, thousands bool) int {
	v, err := strconv.ParseInt(digits, 10, 0)
	if err != nil {
		return math.MaxInt
	}
	num := int(v)
	if thousands {
		if num > math.MaxInt/1000 {
			return math.MaxInt
		}
		num *= 1000
	}
	return num
}

// NormalizeSalary normalizes raw with the literal ",000" rule.
func NormalizeSalary(raw string) *model.SalaryRange {
	return SalaryNormalizer{}.Normalize(raw)
}
