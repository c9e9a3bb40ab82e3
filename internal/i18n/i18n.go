// Package i18n resolves dotted keys against locale dictionaries. Lookup
// never fails visibly: a missing key renders as the key itself.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleFR Locale = "fr"

	DefaultLocale = LocaleEN
)

var Supported = []Locale{LocaleEN, LocaleFR}

//go:embed translations/*.json
var translationFS embed.FS

var dictionaries = map[Locale]map[string]any{}

func init() {
	for _, locale := range Supported {
		data, err := translationFS.ReadFile(fmt.Sprintf("translations/%s.json", locale))
		if err != nil {
			panic(fmt.Sprintf("i18n: missing dictionary for %s: %v", locale, err))
		}
		var dict map[string]any
		if err := json.Unmarshal(data, &dict); err != nil {
			panic(fmt.Sprintf("i18n: invalid dictionary for %s: %v", locale, err))
		}
		dictionaries[locale] = dict
	}
}

// Parse validates a locale string. Unsupported values report ok=false.
func Parse(s string) (Locale, bool) {
	for _, locale := range Supported {
		if s == string(locale) {
			return locale, true
		}
	}
	return DefaultLocale, false
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.French,
})

// Detect resolves the locale from the POSIX env chain (LC_ALL, LC_MESSAGES,
// LANG). Unsupported or missing values fall back to the default. lookup is
// os.Getenv in production.
func Detect(lookup func(string) string) Locale {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw := lookup(key)
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}
		// "fr_FR.UTF-8" -> "fr-FR"
		raw = strings.SplitN(raw, ".", 2)[0]
		raw = strings.SplitN(raw, "@", 2)[0]
		raw = strings.ReplaceAll(raw, "_", "-")

		tag, err := language.Parse(raw)
		if err != nil {
			continue
		}
		_, index, conf := matcher.Match(tag)
		if conf >= language.High {
			return Supported[index]
		}
	}
	return DefaultLocale
}

// Translator resolves keys for one locale.
type Translator struct {
	locale Locale
}

func New(locale Locale) *Translator {
	if _, ok := dictionaries[locale]; !ok {
		locale = DefaultLocale
	}
	return &Translator{locale: locale}
}

func (t *Translator) Locale() Locale {
	return t.locale
}

// T resolves a dotted key, substituting {param} placeholders by literal
// replacement. An absent key returns the key itself.
func (t *Translator) T(key string, params map[string]string) string {
	translation := lookupKey(dictionaries[t.locale], key)

	for name, value := range params {
		translation = strings.ReplaceAll(translation, "{"+name+"}", value)
	}
	return translation
}

func lookupKey(dict map[string]any, key string) string {
	var current any = dict
	for _, segment := range strings.Split(key, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return key
		}
		current, ok = node[segment]
		if !ok {
			return key
		}
	}

	if s, ok := current.(string); ok {
		return s
	}
	return key
}
