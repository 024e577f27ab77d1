package main

import (
	"os"
	"strings"
)

// expandVariable expands %VAR% (Windows style) and $VAR / ${VAR} references in s.
// Unknown %VAR% references are left untouched.
func expandVariable(s string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			break
		}
		end += start + 1
		name := s[start+1 : end]
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(s[:start])
			b.WriteString(val)
		} else {
			b.WriteString(s[:end])
			// keep the closing '%' as a possible opening one
			s = s[end:]
			continue
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return os.ExpandEnv(b.String())
}
