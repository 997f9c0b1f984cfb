package common

import (
	"net/http"

	"golang.org/x/text/language"

	"github.com/baumsteiger-allgaeu/site/api/internal/contact/domain"
)

var languageMatcher = language.NewMatcher(domain.SupportedTags)

// PreferredLanguage negotiates the response language. An explicit ?lang=
// query wins over Accept-Language; German is the fallback.
func PreferredLanguage(r *http.Request) domain.Language {
	tag, _ := language.MatchStrings(languageMatcher, r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
	return domain.LanguageFromTag(tag)
}
