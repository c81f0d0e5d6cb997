package sakhi

import "unicode"

// NeedsTranslation reports whether text should be routed through the
// Malayalam/English translation gateway. Any code point in the Malayalam
// Unicode block classifies the text as Malayalam; pure-ASCII, empty, and
// whitespace-only input is treated as English and passed through untouched.
func NeedsTranslation(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Malayalam, r) {
			return true
		}
	}
	return false
}
