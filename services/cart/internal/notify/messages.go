package notify

import (
	"context"

	"golang.org/x/text/language"
)

// DefaultLocale is the storefront's own language.
var DefaultLocale = language.BrazilianPortuguese

var Supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var matcher = language.NewMatcher(Supported)

var messages = map[language.Tag]map[Kind]string{
	language.BrazilianPortuguese: {
		KindInsufficientStock: "Quantidade solicitada fora de estoque",
		KindAddFailed:         "Erro na adição do produto",
		KindRemoveFailed:      "Erro na remoção do produto",
		KindUpdateFailed:      "Erro na alteração de quantidade do produto",
	},
	language.English: {
		KindInsufficientStock: "Requested quantity is out of stock",
		KindAddFailed:         "Failed to add product",
		KindRemoveFailed:      "Failed to remove product",
		KindUpdateFailed:      "Failed to update product amount",
	},
}

// Message returns the user-facing text for kind. Unsupported locales fall
// back to DefaultLocale; unknown kinds yield an empty string.
func Message(kind Kind, locale language.Tag) string {
	if m, ok := messages[locale]; ok {
		if s, ok := m[kind]; ok {
			return s
		}
	}
	return messages[DefaultLocale][kind]
}

// Negotiate picks a supported locale for an Accept-Language header value.
func Negotiate(acceptLanguage string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Supported[idx]
}

// ParseLocale resolves a configured locale name, defaulting to DefaultLocale.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	return Supported[idx]
}

type localeKey struct{}

// WithLocale attaches the locale a request negotiated, so notifications for
// that request use the same language as its response.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

func LocaleFrom(ctx context.Context, fallback language.Tag) language.Tag {
	if tag, ok := ctx.Value(localeKey{}).(language.Tag); ok && tag != language.Und {
		return tag
	}
	return fallback
}
