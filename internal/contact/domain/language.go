package domain

import "golang.org/x/text/language"

// Language selects the wording of visitor-facing messages.
type Language string

const (
	LanguageGerman  Language = "de"
	LanguageEnglish Language = "en"
)

// DefaultLanguage is used when nothing better can be negotiated.
const DefaultLanguage = LanguageGerman

// SupportedTags lists the languages in preference order; the first is the
// fallback for language matchers.
var SupportedTags = []language.Tag{language.German, language.English}

// LanguageFromTag maps a matched tag onto a supported Language.
func LanguageFromTag(tag language.Tag) Language {
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return LanguageEnglish
	case "de":
		return LanguageGerman
	}
	return DefaultLanguage
}

type validationMessages struct {
	nameRequired    string
	emailRequired   string
	emailInvalid    string
	messageRequired string
}

var validationCatalog = map[Language]validationMessages{
	LanguageGerman: {
		nameRequired:    "Name ist erforderlich",
		emailRequired:   "E-Mail ist erforderlich",
		emailInvalid:    "Ungültige E-Mail-Adresse",
		messageRequired: "Nachricht ist erforderlich",
	},
	LanguageEnglish: {
		nameRequired:    "Name is required",
		emailRequired:   "Email is required",
		emailInvalid:    "Invalid email address",
		messageRequired: "Message is required",
	},
}

func validationMessagesFor(lang Language) validationMessages {
	if msgs, ok := validationCatalog[lang]; ok {
		return msgs
	}
	return validationCatalog[DefaultLanguage]
}
