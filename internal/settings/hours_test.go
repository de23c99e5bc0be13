package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseLanguage(t *testing.T) {
	assert.Equal(t, "fr", BaseLanguage("fr-FR"))
	assert.Equal(t, "en", BaseLanguage(""))
	assert.Equal(t, "ar", BaseLanguage(" AR "))
}

func TestResolveOpeningHours(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		lang string
		want []string
	}{
		{"nil falls back", nil, "fr-FR", DefaultOpeningHours["fr"]},
		{"unknown language falls back to en", nil, "de", DefaultOpeningHours["en"]},
		{"plain text", "Mon-Fri 9-5 | Sat 10-2", "en", []string{"Mon-Fri 9-5", "Sat 10-2"}},
		{"json string list", `["a", " ", "b"]`, "en", []string{"a", "b"}},
		{"json object", `{"fr": "Lun-Ven"}`, "fr-CA", []string{"Lun-Ven"}},
		{"list", []any{"x", "y"}, "es", []string{"x", "y"}},
		{"base language key", map[string]any{"es-MX": []any{"hola"}, "default": []any{"d"}}, "es", []string{"hola"}},
		{"full tag key", map[string]any{"pt-br": "tudo"}, "pt-BR", []string{"tudo"}},
		{"default key", map[string]any{"default": []any{"d"}, "en": []any{"e"}}, "ar", []string{"d"}},
		{"en key", map[string]any{"en": []any{"e"}}, "ar", []string{"e"}},
		{"empty match falls back", map[string]any{"fr": []any{}}, "fr", DefaultOpeningHours["fr"]},
		{"json number kept as text", `42`, "en", []string{"42"}},
		{"json bool kept as text", `true`, "fr", []string{"true"}},
		{"json object without match falls back", `{"de": ""}`, "fr", DefaultOpeningHours["fr"]},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveOpeningHours(tc.raw, tc.lang))
		})
	}
}

func TestBuildOpeningHours(t *testing.T) {
	got := BuildOpeningHours(map[string]string{
		"fr": "Lun-Ven 12h\r\n\n  Sam 10h ",
		"es": "   ",
		"xx": "ignored",
	})
	assert.Equal(t, map[string][]string{
		"fr":      {"Lun-Ven 12h", "Sam 10h"},
		"default": {"Lun-Ven 12h", "Sam 10h"},
	}, got)

	got = BuildOpeningHours(nil)
	assert.Equal(t, DefaultOpeningHours["en"], got["en"])
	assert.Equal(t, DefaultOpeningHours["en"], got["default"])
}
