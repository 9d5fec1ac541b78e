package graph

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// A token ends at whitespace or just after a hyphen, so hyphenated words can
// break across lines.
var wrapTokenizer = regexp.MustCompile(`\S+?-|\S+`)

// WordWrap breaks s into lines of at most width characters where it can.
// The longest line is split at the point that best balances its halves,
// repeatedly, until every line fits or cannot be split further. Tokens longer
// than width are left intact.
func WordWrap(s string, width int) string {
	lines := [][]string{wrapTokenizer.FindAllString(s, -1)}

	for {
		i := overlong(lines, width)
		if i < 0 {
			break
		}
		left, right := balance(lines[i])
		lines = append(lines[:i], append([][]string{left, right}, lines[i+1:]...)...)
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = join(line)
	}
	return strings.Join(out, "\n")
}

// overlong returns the first line that is too long and has more than one
// token, or -1.
func overlong(lines [][]string, width int) int {
	for i, line := range lines {
		if len(line) > 1 && expectedLength(line) > width {
			return i
		}
	}
	return -1
}

// balance splits tokens where the two halves differ least in length. Ties go
// to the earlier breakpoint.
func balance(tokens []string) ([]string, []string) {
	best, lowest := 1, -1
	for i := 1; i < len(tokens); i++ {
		d := expectedLength(tokens[:i]) - expectedLength(tokens[i:])
		if d < 0 {
			d = -d
		}
		if lowest < 0 || d < lowest {
			best, lowest = i, d
		}
	}
	left := append([]string{}, tokens[:best]...)
	right := append([]string{}, tokens[best:]...)
	return left, right
}

// expectedLength is the length of tokens once joined.
func expectedLength(tokens []string) int {
	n := 0
	for i, t := range tokens {
		n += utf8.RuneCountInString(t)
		if i < len(tokens)-1 && !strings.HasSuffix(t, "-") {
			n++
		}
	}
	return n
}

// join puts a space between tokens, except after a hyphen.
func join(tokens []string) string {
	var sb strings.Builder
	for i, t := range tokens {
		sb.WriteString(t)
		if i < len(tokens)-1 && !strings.HasSuffix(t, "-") {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
