package service

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^\w-]+`)
	dashRun       = regexp.MustCompile(`--+`)
)

// ProductSlug lowercases name, turns whitespace into dashes, drops anything
// that is not a word character or dash and trims stray dashes.
func ProductSlug(name string) string {
	s := strings.ToLower(name)
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CategorySlug lowercases name and turns whitespace into dashes.
func CategorySlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// ShortProductID returns the first four hex characters of a random UUID.
func ShortProductID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}
