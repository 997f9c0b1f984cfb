package public

import "github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"

type outcomeMessages struct {
	sent            string
	failed          string
	validationError string
	invalidRequest  string
	serviceNotFound string
	consentRequired string
}

var outcomeCatalog = map[domain.Language]outcomeMessages{
	domain.LanguageGerman: {
		sent:            "Ihre Nachricht wurde erfolgreich gesendet. Wir melden uns schnellstmöglich bei Ihnen.",
		failed:          "Es ist ein Fehler beim Senden aufgetreten. Bitte versuchen Sie es später erneut oder kontaktieren Sie uns telefonisch.",
		validationError: "Validierungsfehler",
		invalidRequest:  "Ungültige Anfrage",
		serviceNotFound: "Leistung nicht gefunden",
		consentRequired: "Feld \"accepted\" ist erforderlich",
	},
	domain.LanguageEnglish: {
		sent:            "Your message has been sent successfully. We will get back to you as soon as possible.",
		failed:          "An error occurred while sending. Please try again later or contact us by phone.",
		validationError: "Validation error",
		invalidRequest:  "Invalid request",
		serviceNotFound: "Service not found",
		consentRequired: "Field \"accepted\" is required",
	},
}

func messagesFor(lang domain.Language) outcomeMessages {
	if msgs, ok := outcomeCatalog[lang]; ok {
		return msgs
	}
	return outcomeCatalog[domain.DefaultLanguage]
}
