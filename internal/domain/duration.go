package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Duration patterns in precedence order: hours, then minutes, then
// seconds. The first pattern that matches anywhere in the input wins, so
// "1 hour 30 minutes" parses as 1 hour.
var durationPatterns = []struct {
	re         *regexp.Regexp
	multiplier float64
}{
	{regexp.MustCompile(`(\d+\.?\d*)\s*h(?:ours?)?`), 3600},
	{regexp.MustCompile(`(\d+\.?\d*)\s*m(?:in(?:ute)?s?)?`), 60},
	{regexp.MustCompile(`(\d+\.?\d*)\s*s(?:ec(?:ond)?s?)?`), 1},
}

// ParseDuration converts a natural-language duration to whole seconds.
//
//	"5 minutes" -> 300
//	"1 hour"    -> 3600
//	"30 seconds" -> 30
//	"2m"        -> 120
//
// Fractional values are permitted and truncated on conversion. Input
// with no recognizable unit yields ErrInvalidDuration.
func ParseDuration(text string) (int, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, p := range durationPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, ErrInvalidDuration
		}
		return int(value * p.multiplier), nil
	}
	return 0, ErrInvalidDuration
}
