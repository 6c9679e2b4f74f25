package models

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AvatarBaseURL is the placeholder image service used for new users.
const AvatarBaseURL = "https://dummyimage.com/100x100/000/fff"

// DefaultAvatarLetter is used when the name has no usable first character.
const DefaultAvatarLetter = "U"

// AvatarLetter returns the upper-cased first character of the trimmed name,
// or DefaultAvatarLetter.
func AvatarLetter(name string) string {
	name = strings.TrimSpace(name)
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 || r == utf8.RuneError {
		return DefaultAvatarLetter
	}
	// cases.Caser keeps state, so one is built per call.
	return cases.Upper(language.Und).String(string(r))
}

// AvatarURL returns the placeholder avatar for name.
func AvatarURL(name string) string {
	return AvatarBaseURL + "&text=" + url.QueryEscape(AvatarLetter(name))
}
