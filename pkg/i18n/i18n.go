package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator localizes user facing messages. English is the default language and the
// fallback when a message id is missing from the requested locale.
type Translator struct {
	bundle *goi18n.Bundle
}

func New() (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, file := range []string{"locales/active.en.json", "locales/active.id.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return &Translator{bundle: bundle}, nil
}

// Localize returns the message for id in the best language of acceptLanguage.
// fallback is used when id is empty or unknown.
func (t *Translator) Localize(acceptLanguage, id, fallback string) string {
	if t == nil || id == "" {
		return fallback
	}

	localizer := goi18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:      id,
		DefaultMessage: &goi18n.Message{ID: id, Other: fallback},
	})
	if err != nil || msg == "" {
		return fallback
	}
	return msg
}

// Languages lists the tags the bundle can serve.
func (t *Translator) Languages() []language.Tag {
	if t == nil {
		return nil
	}
	return t.bundle.LanguageTags()
}
