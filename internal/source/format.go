package source

import (
	"math"
	"strconv"
	"strings"

	"poe2/pickit/internal/domain"
)

// FormatLine fills a rule template. Each placeholder is replaced once, at its
// first occurrence; {type} only when the item carries a type.
func FormatLine(template string, item domain.NormalizedItem) string {
	line := template
	if item.Type != "" {
		line = strings.Replace(line, "{type}", item.Type, 1)
	}
	line = strings.Replace(line, "{name}", item.Name, 1)
	line = strings.Replace(line, "{value}", FormatValue(item.Value), 1)
	return line
}

// exactDigits is enough fraction digits to tell a true tie at the second
// decimal from a neighbouring double.
const exactDigits = 40

// FormatValue renders a value with exactly two decimals. Rounding works on the
// exact binary value and resolves ties away from zero, so 0.125 gives "0.13"
// while 1.005 (stored just below) gives "1.00".
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	whole, frac, _ := strings.Cut(strconv.FormatFloat(v, 'f', exactDigits, 64), ".")
	digits := whole + frac[:2]
	if frac[2] >= '5' {
		digits = incrementDigits(digits)
	}

	cut := len(digits) - 2
	return sign + digits[:cut] + "." + digits[cut:]
}

// incrementDigits adds one to a string of decimal digits.
func incrementDigits(digits string) string {
	b := []byte(digits)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '9' {
			b[i]++
			return string(b)
		}
		b[i] = '0'
	}
	return "1" + string(b)
}
