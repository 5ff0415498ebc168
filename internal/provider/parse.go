package provider

import (
	"strconv"
	"strings"
)

// ParsePrice extracts the leading numeric value from price display text,
// e.g. "231.59 +2.88 (+1.26%)" -> 231.59. Returns nil when no number leads
// the string.
func ParsePrice(text string) *float64 {
	text = strings.TrimSpace(text)

	end := 0
	for end < len(text) {
		c := text[end]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return nil
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(text[:end], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseVolume converts volume display text to a number of shares:
// "259.529M" -> 259529000, "1.2B" -> 1200000000, "845K" -> 845000,
// "1,234,567" -> 1234567. Returns nil for empty or placeholder text.
func ParseVolume(text string) *int64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" || text == "N/A" {
		return nil
	}

	multiplier := 1.0
	switch text[len(text)-1] {
	case 'K', 'k':
		multiplier = 1e3
		text = text[:len(text)-1]
	case 'M', 'm':
		multiplier = 1e6
		text = text[:len(text)-1]
	case 'B', 'b':
		multiplier = 1e9
		text = text[:len(text)-1]
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return nil
	}

	v := int64(f*multiplier + 0.5)
	return &v
}
