package i18n

type DayKeywords struct {
	Today    []string
	Tomorrow []string
}

var dayKeywords = map[string]DayKeywords{
	"uz": {Today: []string{"bugun"}, Tomorrow: []string{"ertaga"}},
	"en": {Today: []string{"today"}, Tomorrow: []string{"tomorrow"}},
	"ru": {Today: []string{"сегодня"}, Tomorrow: []string{"завтра"}},
}

// Days returns the day keywords for lang, falling back to English.
func Days(lang string) DayKeywords {
	if kw, ok := dayKeywords[lang]; ok {
		return kw
	}
	return dayKeywords[DefaultLanguage]
}
