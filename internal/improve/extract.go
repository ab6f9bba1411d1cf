// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package improve

import (
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)[ \t]*\r?\n(.*?)```")

// ExtractLastCodeBlock returns the contents and language tag of the last
// fenced code block in text. Generators tend to explain first and conclude
// with the final code, so the last block wins.
func ExtractLastCodeBlock(text string) (code, lang string, ok bool) {
	matches := fencedBlockPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", "", false
	}

	last := matches[len(matches)-1]

	return strings.TrimSpace(last[2]), last[1], true
}

// HasSolveMarker reports whether the candidate contains the solve entrypoint
// marker required by the problem's runner.
func HasSolveMarker(code, marker string) bool {
	return strings.Contains(code, marker)
}
