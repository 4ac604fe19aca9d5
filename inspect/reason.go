package inspect

import (
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"csi/bcd"
)

// Message keys, english text doubles as the key.
const (
	msgPrompt      = "Enter CSS to check browser support"
	msgUnsupported = "Not supported: %s"
	msgUnsupMore   = "Not supported: %s and %d more"
	msgLimit       = "Limited by %s (since version %s)"
	msgNoLimit     = "No limiting feature found"
)

var supportedLanguages = []language.Tag{language.English, language.Russian}

var reasonCatalog = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, key string, msg ...catalog.Message) {
		if err := b.Set(tag, key, msg...); err != nil {
			// catalog is static, this could only be a programming error
			panic(err)
		}
	}

	set(language.English, msgPrompt, catalog.String(msgPrompt))
	set(language.English, msgUnsupported, catalog.String(msgUnsupported))
	set(language.English, msgUnsupMore, plural.Selectf(2, "%d",
		"one", "Not supported: %[1]s and %[2]d more feature",
		"other", "Not supported: %[1]s and %[2]d more features"))
	set(language.English, msgLimit, catalog.String(msgLimit))
	set(language.English, msgNoLimit, catalog.String(msgNoLimit))

	set(language.Russian, msgPrompt, catalog.String("Введите CSS, чтобы проверить поддержку браузерами"))
	set(language.Russian, msgUnsupported, catalog.String("Не поддерживается: %s"))
	set(language.Russian, msgUnsupMore, plural.Selectf(2, "%d",
		"one", "Не поддерживается: %[1]s и ещё %[2]d возможность",
		"few", "Не поддерживается: %[1]s и ещё %[2]d возможности",
		"other", "Не поддерживается: %[1]s и ещё %[2]d возможностей"))
	set(language.Russian, msgLimit, catalog.String("Ограничено: %s (с версии %s)"))
	set(language.Russian, msgNoLimit, catalog.String("Ограничивающих возможностей не найдено"))
	return b
}

// MatchLanguage returns the closest language reasons can be produced in.
func MatchLanguage(tag language.Tag) language.Tag {
	_, idx, _ := language.NewMatcher(supportedLanguages).Match(tag)
	return supportedLanguages[idx]
}

// Reasons builds one line explanations of browser requirements.
type Reasons struct {
	p *message.Printer
}

// NewReasons creates reason builder for the requested language.
func NewReasons(tag language.Tag) *Reasons {
	return &Reasons{p: message.NewPrinter(MatchLanguage(tag), message.Catalog(reasonCatalog))}
}

// Prompt is the neutral text used when there is nothing to analyze.
func (r *Reasons) Prompt() string {
	return r.p.Sprintf(msgPrompt)
}

// Build explains tally: first unsupported feature (with number of remaining
// ones), or limiting feature and its version, or absence of limits.
func (r *Reasons) Build(t Tally) string {
	switch {
	case len(t.Unsupported) == 1:
		return r.p.Sprintf(msgUnsupported, t.Unsupported[0])
	case len(t.Unsupported) > 1:
		return r.p.Sprintf(msgUnsupMore, t.Unsupported[0], len(t.Unsupported)-1)
	case t.Limit != nil:
		return r.p.Sprintf(msgLimit, t.Limit.Feature.Label, bcd.FormatVersion(t.Limit.Version))
	}
	return r.p.Sprintf(msgNoLimit)
}
