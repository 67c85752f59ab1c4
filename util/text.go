package util

import (
	"regexp"
	"strings"
	"unicode"
)

var lineBreak = regexp.MustCompile(`\r\n?|\n`)

func Lines(input string) []string {
	return lineBreak.Split(input, -1)
}

// TrimLines strips trailing spaces from every line and drops trailing
// empty lines.
func TrimLines(lines []string) []string {
	for i, it := range lines {
		lines[i] = strings.TrimRightFunc(it, unicode.IsSpace)
	}

	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// Text normalizes an indented multi-line literal: leading blank lines are
// dropped, the first line's indentation is removed from every line and
// tabs become four spaces.
func Text(input string) string {
	tabs := regexp.MustCompile(`^[\t]+`)
	out := make([]string, 0)
	pre := ""
	for _, it := range TrimLines(Lines(input)) {
		it = tabs.ReplaceAllStringFunc(it, func(input string) string {
			return strings.Replace(input, "\t", "    ", -1)
		})
		if len(out) == 0 {
			if strings.TrimSpace(it) == "" {
				continue
			}

			indent := len(it) - len(strings.TrimLeftFunc(it, unicode.IsSpace))
			pre = it[:indent]
		}

		out = append(out, strings.TrimPrefix(it, pre))
	}
	return strings.Join(out, "\n")
}
