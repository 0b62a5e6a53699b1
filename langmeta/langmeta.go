// Package langmeta provides language display metadata (native names,
// English names and emoji flags) used by the CLI and the AI prompts.
package langmeta

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	// Name is the language's name in itself ("Français").
	Name string
	// English is the English name ("French").
	English string
	// Flag is the emoji flag of the language's most likely region.
	Flag string
}

func canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) >= 2 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// Valid reports whether lang is a well-formed, known BCP 47 tag. Underscore
// separators (pt_BR) are accepted.
func Valid(lang string) bool {
	c := canonicalize(lang)
	if c == "" {
		return false
	}
	_, err := language.Parse(c)
	return err == nil
}

// Resolve returns best-effort metadata for lang. Unknown codes resolve to
// the code itself with no flag.
func Resolve(lang string) Meta {
	tag, err := language.Parse(canonicalize(lang))
	if err != nil {
		return Meta{Name: lang, English: lang}
	}

	m := Meta{
		Name:    capitalize(display.Self.Name(tag)),
		English: display.English.Tags().Name(tag),
		Flag:    flag(tag),
	}
	if m.Name == "" {
		m.Name = lang
	}
	if m.English == "" {
		m.English = lang
	}
	return m
}

// flag builds the regional-indicator pair for the tag's region.
func flag(tag language.Tag) string {
	region, conf := tag.Region()
	if conf == language.No || !region.IsCountry() {
		return ""
	}
	code := region.String()
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range code {
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}
