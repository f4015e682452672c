// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"strings"
	"unicode"
)

// maxBaseLen is the longest base name, in characters, kept before ".pdf".
const maxBaseLen = 100

// defaultBase names a form whose link text is empty or sanitizes to nothing.
const defaultBase = "document"

// illegalChars are removed outright from link text.
const illegalChars = `\/*?:"<>|`

// Sanitize turns raw link text into a safe filename stem: surrounding
// whitespace is trimmed, characters illegal in filenames are deleted, each
// run of whitespace becomes a single underscore, and the result is cut to
// 100 characters. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(text string) string {
	text = strings.TrimSpace(text)

	var b strings.Builder
	inSpace := false
	for _, r := range text {
		if strings.ContainsRune(illegalChars, r) {
			continue
		}
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}

	runes := []rune(b.String())
	if len(runes) > maxBaseLen {
		runes = runes[:maxBaseLen]
	}
	return string(runes)
}

// Filename returns the on-disk name for a link: Sanitize(linkText) + ".pdf",
// with "document" standing in for text that is empty or sanitizes to nothing.
func Filename(linkText string) string {
	base := Sanitize(linkText)
	if base == "" {
		base = defaultBase
	}
	return base + ".pdf"
}
