package utils

import "strings"

// Substitute replaces {name} variables in the given string with their value
// from the vars map.
// Variables without a value substitute as an empty string. Text outside of
// braces is left untouched.
func Substitute(s string, vars map[string]string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '{')
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:start])
		name := s[start+1 : start+end]
		b.WriteString(vars[name])
		s = s[start+end+1:]
	}
	return b.String()
}
