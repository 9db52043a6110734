// Package i18n defines the storefront locale set and its formatting contracts.
package i18n

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale is one of the supported storefront locales.
type Locale string

const (
	English  Locale = "en"
	Spanish  Locale = "es"
	Chinese  Locale = "zh"
	Japanese Locale = "ja"
)

// Default is used when neither the path nor the cookie names a locale.
const Default = English

var supported = []Locale{English, Spanish, Chinese, Japanese}

// Supported returns the locales in display order.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse matches raw against the supported codes exactly. Anything else,
// including differently cased codes, is not a locale.
func Parse(raw string) (Locale, bool) {
	for _, candidate := range supported {
		if raw == string(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// ParseOrDefault returns the parsed locale or Default.
func ParseOrDefault(raw string) Locale {
	if loc, ok := Parse(raw); ok {
		return loc
	}
	return Default
}

func (l Locale) String() string { return string(l) }

// Valid reports whether l is a supported locale.
func (l Locale) Valid() bool {
	_, ok := Parse(string(l))
	return ok
}

// Base returns the bare language tag used for message lookup.
func (l Locale) Base() language.Tag {
	switch l {
	case Spanish:
		return language.Spanish
	case Chinese:
		return language.Chinese
	case Japanese:
		return language.Japanese
	default:
		return language.English
	}
}

// Tag returns the region tag that drives number and currency formatting.
func (l Locale) Tag() language.Tag {
	switch l {
	case Spanish:
		return language.MustParse("es-ES")
	case Chinese:
		return language.MustParse("zh-CN")
	case Japanese:
		return language.MustParse("ja-JP")
	default:
		return language.AmericanEnglish
	}
}

// Currency returns the display currency for the locale.
func (l Locale) Currency() currency.Unit {
	switch l {
	case Japanese:
		return currency.JPY
	case Chinese:
		return currency.CNY
	default:
		return currency.USD
	}
}

// Localizer resolves message keys to localized strings.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Printer returns a message printer for l's region tag.
func (l Locale) Printer() *message.Printer {
	return message.NewPrinter(l.Tag())
}

// T is a nil-safe translation helper.
func T(loc Localizer, key string, args ...any) string {
	if loc == nil {
		return key
	}
	return loc.Sprintf(key, args...)
}
