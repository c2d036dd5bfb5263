package content

import (
	"path"
	"strings"
	"unicode"
)

// Slug derives a post slug from its path relative to the collection
// directory: the extension is dropped, every segment is slugified and a
// trailing "/index" is removed. A top-level index keeps "index" as its slug
// so it still gets a feed link of its own.
func Slug(relPath string) string {
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	relPath = strings.TrimSuffix(relPath, path.Ext(relPath))

	segments := strings.Split(relPath, "/")

	for i, s := range segments {
		segments[i] = slugifySegment(s)
	}

	return strings.TrimSuffix(strings.Join(segments, "/"), "/index")
}

// slugifySegment lowercases s, turns spaces into dashes and drops every rune
// that is not a letter, digit, mark, underscore or dash.
func slugifySegment(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
			b.WriteRune(r)
		}
	}

	return b.String()
}
