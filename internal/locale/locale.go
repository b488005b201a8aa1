// Package locale loads the embedded translation catalogs and resolves messages.
package locale

import (
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-tet/internal/config"
	"github.com/tartampluch/go-tet/internal/lunar"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message IDs for the active language.
// It is safe for concurrent use; SetLanguage may be called at any time.
type Translator struct {
	Bundle    *i18n.Bundle
	Languages []string // detected from the embedded catalog file names

	mu        sync.RWMutex
	lang      string
	localizer *i18n.Localizer
}

// New loads every embedded catalog and activates lang (config.DefaultLanguage when empty).
// Broken catalogs are logged and skipped; the translator then falls back to message IDs.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{Bundle: bundle}

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.LocaleSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocalePrefix), config.LocaleSuffix)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, config.LocalesDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.Languages = append(t.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active language. Unknown codes fall back to the
// bundle's default language at lookup time.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lang = lang
	t.localizer = i18n.NewLocalizer(t.Bundle, lang)
}

// Language returns the active language code.
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// Msg translates a plain message. Missing keys return the key itself.
func (t *Translator) Msg(key string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key})
}

// Format translates a message with template data.
func (t *Translator) Format(key string, data map[string]any) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
}

// Plural translates a message whose form depends on count.
// count is also exposed to the template as .Count.
func (t *Translator) Plural(key string, count int, data map[string]any) string {
	td := map[string]any{config.TplCount: count}
	for k, v := range data {
		td[k] = v
	}
	return t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: td, PluralCount: count})
}

// ErrorMessage renders err for display. Lookup misses get the localized
// message listing the supported years; other errors use err.Error().
func (t *Translator) ErrorMessage(err error) string {
	var nf *lunar.YearNotFoundError
	if !errors.As(err, &nf) {
		return err.Error()
	}

	years := make([]string, len(nf.Supported))
	for i, y := range nf.Supported {
		years[i] = strconv.Itoa(y)
	}
	msg := t.Format(config.TKeyErrYearMissing, map[string]any{
		config.TplYear:  nf.Year,
		config.TplYears: strings.Join(years, config.YearListSeparator),
	})
	if msg == config.TKeyErrYearMissing {
		return err.Error()
	}
	return msg
}

func (t *Translator) localize(lc *i18n.LocalizeConfig) string {
	t.mu.RLock()
	loc := t.localizer
	t.mu.RUnlock()

	if loc == nil {
		return lc.MessageID
	}
	msg, err := loc.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
	}
	// go-i18n still returns the default-language text alongside a not-found error.
	if msg == "" {
		return lc.MessageID
	}
	return msg
}
