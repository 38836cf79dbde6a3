package coupon

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var disallowed = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// Transliterate переводит имя в латиницу в нижнем регистре. Диакритика
// латинских букв отбрасывается до транслитерации остальных письменностей.
func Transliterate(s string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	return strings.ToLower(unidecode.Unidecode(s))
}

func randomSuffix() string {
	return strings.SplitN(uuid.NewString(), "-", 2)[0]
}

// Code строит код купона из имени покупателя и случайного суффикса.
// Результат всегда соответствует ^[a-z0-9_]+$.
func Code(firstName, suffix string) string {
	var parts []string
	for _, token := range strings.Fields(firstName) {
		if latin := disallowed.ReplaceAllString(Transliterate(token), ""); latin != "" {
			parts = append(parts, latin)
		}
	}
	namePart := strings.Join(parts, "_")

	code := suffix
	if namePart != "" {
		code = namePart + "_" + suffix
	}
	return disallowed.ReplaceAllString(strings.ToLower(code), "")
}
