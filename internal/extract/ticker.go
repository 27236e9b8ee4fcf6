// Package extract pulls a candidate ticker symbol out of free text.
package extract

import "regexp"

// tickerPattern matches 1-5 consecutive uppercase letters on word boundaries.
var tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// Ticker returns the first token that looks like a ticker symbol, or "" when
// the text is empty or holds no match. This is a deliberately naive
// heuristic: it is not validated against any ticker registry and will happily
// match unrelated acronyms such as CEO or USA.
func Ticker(text string) string {
	if text == "" {
		return ""
	}
	return tickerPattern.FindString(text)
}
