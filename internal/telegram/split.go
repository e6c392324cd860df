package telegram

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minSplitRatio rejects boundaries that would leave a chunk shorter than
// this share of the limit.
const minSplitRatio = 0.3

// SplitMessage cuts text into chunks of at most limit UTF-16 code units.
// Each chunk ends at the last paragraph break that fits, else the last line
// break, else a hard cut. Leading whitespace of every following chunk is
// dropped.
func SplitMessage(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 || utf16Len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	remaining := text
	for remaining != "" {
		if utf16Len(remaining) <= limit {
			chunks = append(chunks, remaining)
			break
		}

		cut := boundary(remaining, "\n\n", limit)
		if cut < 0 {
			cut = boundary(remaining, "\n", limit)
		}
		if cut < 0 {
			cut = unitOffset(remaining, limit)
			if cut == 0 {
				// limit is narrower than the first rune
				_, cut = utf8.DecodeRuneInString(remaining)
			}
		}

		chunks = append(chunks, remaining[:cut])
		remaining = strings.TrimLeftFunc(remaining[cut:], unicode.IsSpace)
	}
	return chunks
}

// boundary returns the byte index of the last sep starting at or before
// limit units, or -1 when there is none or it sits too early.
func boundary(s, sep string, limit int) int {
	window := s[:unitOffset(s, limit+len(sep))]
	idx := strings.LastIndex(window, sep)
	if idx < 0 {
		return -1
	}
	if float64(utf16Len(s[:idx])) < float64(limit)*minSplitRatio {
		return -1
	}
	return idx
}

// utf16Len counts s in UTF-16 code units, the unit Telegram measures in.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// unitOffset returns the largest byte index whose prefix fits in units
// UTF-16 code units without splitting a rune.
func unitOffset(s string, units int) int {
	n := 0
	for i, r := range s {
		w := runeUnits(r)
		if n+w > units {
			return i
		}
		n += w
	}
	return len(s)
}

func runeUnits(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
