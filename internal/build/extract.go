// File path: internal/build/extract.go
package build

import (
	"regexp"
	"strings"
)

var (
	rustBlockRe = regexp.MustCompile("(?s)```rust\\s*\\n(.*?)```")
	tsBlockRe   = regexp.MustCompile("(?s)```(?:typescript|ts)\\s*\\n(.*?)```")
	fenceRe     = regexp.MustCompile("(?s)```.*?```")
	anyFenceRe  = regexp.MustCompile("```")
)

// ExtractProgram returns the first fenced rust block from a generator
// response, or "" when the response carries none.
func ExtractProgram(response string) string {
	m := rustBlockRe.FindStringSubmatch(response)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1]) + "\n"
}

// ExtractSDK returns the first fenced typescript block.
func ExtractSDK(response string) string {
	return tsBlockAt(response, 0)
}

// ExtractTests returns the second fenced typescript block. Generators are
// prompted to emit the SDK first and the test suite second.
func ExtractTests(response string) string {
	return tsBlockAt(response, 1)
}

func tsBlockAt(response string, index int) string {
	matches := tsBlockRe.FindAllStringSubmatch(response, index+1)
	if len(matches) <= index {
		return ""
	}
	return strings.TrimSpace(matches[index][1]) + "\n"
}

// Preamble returns the narration a generator wrote before its first code
// fence, split into non-empty lines. Responses with no fence are narration
// in full.
func Preamble(response string) []string {
	text := response
	if loc := anyFenceRe.FindStringIndex(response); loc != nil {
		text = response[:loc[0]]
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// StripFences removes every fenced block, leaving only narration. Used when
// logging generator responses.
func StripFences(response string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(response, ""))
}
