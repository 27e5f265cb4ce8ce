package countdown

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "ja"

// Message IDs shared with the CLI.
const (
	msgFrame         = "CountdownFrame"
	msgLoading       = "CountdownLoading"
	msgExceeded      = "CountdownExceeded"
	msgFailed        = "CountdownFailed"
	MsgPersonsNone   = "PersonsNone"
	MsgAccountMarker = "PersonsAccountMarker"
)

var (
	bundle  = mustLoadBundle()
	matcher = language.NewMatcher(bundle.LanguageTags())
)

func mustLoadBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.Japanese)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		panic(fmt.Sprintf("read embedded locales: %v", err))
	}
	for _, entry := range entries {
		if _, err := b.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			panic(fmt.Sprintf("load locale %s: %v", entry.Name(), err))
		}
	}
	return b
}

// SupportedLanguages lists the bundled translations.
func SupportedLanguages() []string {
	var langs []string
	for _, tag := range bundle.LanguageTags() {
		langs = append(langs, tag.String())
	}
	sort.Strings(langs)
	return langs
}

// Messages localizes countdown text.
type Messages struct {
	localizer *i18n.Localizer
}

// NewMessages returns messages for lang ("ja", "en", "en-US", ...). Languages
// without a translation fall back to Japanese.
func NewMessages(lang string) (*Messages, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid language %q: %w", lang, err)
	}
	// The localizer's own matching maps unrelated European tags to English.
	if _, _, confidence := matcher.Match(tag); confidence < language.High {
		lang = DefaultLanguage
	}
	return &Messages{localizer: i18n.NewLocalizer(bundle, lang)}, nil
}

// Text returns the translation for id, or id itself when missing.
func (m *Messages) Text(id string) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return id
	}
	return msg
}

// Frame renders a breakdown with unit labels.
func (m *Messages) Frame(b Breakdown) string {
	f := b.Fields()
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{
		MessageID: msgFrame,
		TemplateData: map[string]string{
			"Years":   f[0],
			"Months":  f[1],
			"Days":    f[2],
			"Hours":   f[3],
			"Minutes": f[4],
			"Seconds": f[5],
		},
	})
	if err != nil {
		return strings.Join(f[:], ":")
	}
	return msg
}

// Line renders a full state.
func (m *Messages) Line(s State) string {
	switch s.Phase {
	case PhaseLoading:
		return m.Text(msgLoading)
	case PhaseExceeded:
		return m.Text(msgExceeded)
	case PhaseFailed:
		return m.Text(msgFailed)
	default:
		return m.Frame(s.Breakdown)
	}
}
