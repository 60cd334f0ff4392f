package translation

// Language codes used across the service.
const (
	LanguageEnglish   = "en"
	LanguageMalayalam = "ml"
)

// Direction identifies a translation direction.
type Direction string

// Valid translation directions.
const (
	DirectionEN2ML Direction = "en2ml"
	DirectionML2EN Direction = "ml2en"
)

// ContainsMalayalam reports whether text contains any codepoint in the
// Malayalam Unicode block (U+0D00–U+0D7F).
func ContainsMalayalam(text string) bool {
	for _, r := range text {
		if r >= 0x0D00 && r <= 0x0D7F {
			return true
		}
	}
	return false
}

// DetectLanguage returns "ml" when text contains Malayalam codepoints,
// otherwise "en".
func DetectLanguage(text string) string {
	if ContainsMalayalam(text) {
		return LanguageMalayalam
	}
	return LanguageEnglish
}

// DetectDirection infers the translation direction from the script of the
// input: Malayalam text translates to English, anything else to Malayalam.
func DetectDirection(text string) Direction {
	if ContainsMalayalam(text) {
		return DirectionML2EN
	}
	return DirectionEN2ML
}

// Source returns the direction's source language code.
func (d Direction) Source() string {
	if d == DirectionML2EN {
		return LanguageMalayalam
	}
	return LanguageEnglish
}

// Target returns the direction's target language code.
func (d Direction) Target() string {
	if d == DirectionML2EN {
		return LanguageEnglish
	}
	return LanguageMalayalam
}

// Valid reports whether d is a recognized direction.
func (d Direction) Valid() bool {
	return d == DirectionEN2ML || d == DirectionML2EN
}
