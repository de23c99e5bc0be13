package settings

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Languages the opening hours can be edited in.
var Languages = []string{"en", "fr", "es", "ar"}

// DefaultOpeningHours is shown when nothing usable is stored.
var DefaultOpeningHours = map[string][]string{
	"en": {"Open daily · 12:00 – 23:00"},
	"fr": {"Ouvert tous les jours · 12h00 – 23h00"},
	"es": {"Abierto todos los días · 12:00 – 23:00"},
	"ar": {"مفتوح يوميًا · 12:00 – 23:00"},
}

var lineSeparators = regexp.MustCompile(`[|\n\r]+`)

// BaseLanguage reduces a tag like fr-FR to fr. Empty means en.
func BaseLanguage(tag string) string {
	base := strings.SplitN(strings.ToLower(strings.TrimSpace(tag)), "-", 2)[0]
	if base == "" {
		return "en"
	}
	return base
}

func defaultsFor(lang string) []string {
	if d, ok := DefaultOpeningHours[lang]; ok {
		return append([]string(nil), d...)
	}
	return append([]string(nil), DefaultOpeningHours["en"]...)
}

// asLines accepts a string split on | or newlines, or a list of values.
func asLines(v any) []string {
	var raw []string
	switch t := v.(type) {
	case string:
		raw = lineSeparators.Split(t, -1)
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			if e == nil {
				continue
			}
			raw = append(raw, fmt.Sprint(e))
		}
	default:
		return nil
	}

	out := []string{}
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func fromConfig(cfg map[string]any, base, full string) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if v, ok := cfg[base]; ok {
		return asLines(v)
	}
	for _, k := range keys {
		if BaseLanguage(k) == base {
			return asLines(cfg[k])
		}
	}
	for _, k := range keys {
		if strings.EqualFold(k, full) {
			return asLines(cfg[k])
		}
	}
	for _, want := range []string{"default", "en"} {
		for _, k := range keys {
			if strings.EqualFold(k, want) {
				return asLines(cfg[k])
			}
		}
	}
	return nil
}

// ResolveOpeningHours picks the lines to show for language from a stored
// value. The value may be a JSON string, plain text, a list of lines or an
// object keyed by language.
func ResolveOpeningHours(raw any, language string) []string {
	base := BaseLanguage(language)
	fallback := defaultsFor(base)

	var lines []string
	switch v := raw.(type) {
	case nil:
		return fallback
	case string:
		var parsed any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			lines = asLines(v)
			break
		}
		switch p := parsed.(type) {
		case string, []any:
			lines = asLines(p)
		case map[string]any:
			lines = fromConfig(p, base, language)
		default:
			// numbers, booleans and null are shown as typed
			lines = asLines(v)
		}
	case []any, []string:
		lines = asLines(v)
	case map[string]any:
		lines = fromConfig(v, base, language)
	}

	if len(lines) == 0 {
		return fallback
	}
	return lines
}

// BuildOpeningHours turns editor text per language into the stored value.
// Blank languages are dropped; a default entry is always present.
func BuildOpeningHours(texts map[string]string) map[string][]string {
	payload := map[string][]string{}
	for _, lang := range Languages {
		if lines := splitNewlines(texts[lang]); len(lines) > 0 {
			payload[lang] = lines
		}
	}

	if len(payload) == 0 {
		payload["en"] = defaultsFor("en")
	}
	if _, ok := payload["default"]; !ok {
		fallback := defaultsFor("en")
		for _, lang := range Languages {
			if lines, ok := payload[lang]; ok {
				fallback = append([]string(nil), lines...)
				break
			}
		}
		payload["default"] = fallback
	}
	return payload
}

func splitNewlines(text string) []string {
	out := []string{}
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
