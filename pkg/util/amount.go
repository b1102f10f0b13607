package util

import (
    "math"
    "regexp"
    "strconv"
    "strings"
)

// Disclosure filings report sizes as ranges like "$50K-$100K", "1K–15K" or
// "Over 1M". ParseAmountRange turns such a token into numeric bounds.

var amountToken = regexp.MustCompile(`\$?([\d,.]+)\s*([KkMm]?)`)

// ParseAmountRange parses a disclosure size token into (min, max) dollar
// bounds. A single value yields min == max; "Over X" yields (X, 0). Returns
// ok=false when no numeric token is present.
func ParseAmountRange(s string) (min, max float64, ok bool) {
    if s == "" {
        return 0, 0, false
    }
    matches := amountToken.FindAllStringSubmatch(s, 2)
    if len(matches) == 0 {
        return 0, 0, false
    }
    min = scaledAmount(matches[0])
    if len(matches) > 1 {
        max = scaledAmount(matches[1])
    } else if !strings.Contains(strings.ToLower(s), "over") {
        max = min
    }
    if max > 0 && max < min {
        min, max = max, min
    }
    return min, max, true
}

func scaledAmount(m []string) float64 {
    v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
    if err != nil {
        return 0
    }
    switch strings.ToUpper(m[2]) {
    case "K":
        v *= 1e3
    case "M":
        v *= 1e6
    }
    return v
}

// FormatThousands renders a dollar figure with comma separators, dropping
// the fraction ("75,000").
func FormatThousands(v float64) string {
    n := int64(math.Round(v))
    neg := n < 0
    if neg {
        n = -n
    }
    s := strconv.FormatInt(n, 10)
    var b strings.Builder
    if neg {
        b.WriteByte('-')
    }
    pre := len(s) % 3
    if pre > 0 {
        b.WriteString(s[:pre])
        if len(s) > pre {
            b.WriteByte(',')
        }
    }
    for i := pre; i < len(s); i += 3 {
        b.WriteString(s[i : i+3])
        if i+3 < len(s) {
            b.WriteByte(',')
        }
    }
    return b.String()
}
