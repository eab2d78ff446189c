package dashboard

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/repository"
)

// supportedLanguages lists the interface languages, the first one is the default
var supportedLanguages = []language.Tag{
	language.English, language.German, language.French, language.Spanish, language.Italian,
	language.Portuguese, language.Dutch, language.Polish, language.Turkish, language.Russian,
	language.Japanese, language.Chinese, language.Korean,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// Language returns the explicitly chosen language, false if the system language applies
func (d *Dashboard) Language(ctx context.Context) (string, bool) {
	stored := repository.Load(ctx, d.store, domain.KeyLanguage, "", nil).Value
	if stored == "" {
		return "", false
	}
	code, err := NormalizeLanguage(stored)
	if err != nil {
		return "", false
	}
	return code, true
}

// SetLanguage stores an explicit language, reduced to its base code
func (d *Dashboard) SetLanguage(ctx context.Context, lang string) (string, error) {
	code, err := NormalizeLanguage(lang)
	if err != nil {
		return "", err
	}
	d.store.Save(ctx, domain.KeyLanguage, code)
	return code, nil
}

// ClearLanguage removes the explicit language so the system language applies again
func (d *Dashboard) ClearLanguage(ctx context.Context) {
	d.store.Remove(ctx, domain.KeyLanguage)
}

// NormalizeLanguage parses a language tag and returns its base code if it is supported
func NormalizeLanguage(lang string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return "", fmt.Errorf("parse language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	for _, t := range supportedLanguages {
		if b, _ := t.Base(); b == base {
			return base.String(), nil
		}
	}
	return "", fmt.Errorf("language %q is not supported", lang)
}

// SystemLanguage picks the best supported language for an Accept-Language header,
// English if nothing matches
func SystemLanguage(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return supportedBase(0)
	}
	_, idx, conf := languageMatcher.Match(tags...)
	if conf == language.No {
		return supportedBase(0)
	}
	return supportedBase(idx)
}

func supportedBase(idx int) string {
	base, _ := supportedLanguages[idx].Base()
	return base.String()
}
