package lexicon

import (
	"log/slog"
	"strings"

	"github.com/spacesedan/reviewlens/internal/apperrors"
)

type AspectCategory struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// AspectTable maps trigger terms onto aspect categories. A term belongs to
// exactly one category; when two categories register the same term the last
// registration wins.
type AspectTable struct {
	categories   []string
	terms        []string
	termCategory map[string]string
}

func NewAspectTable(categories []AspectCategory) (*AspectTable, error) {
	if len(categories) == 0 {
		return nil, apperrors.Configuration("lexicon.NewAspectTable", "no aspect categories")
	}

	t := &AspectTable{
		termCategory: make(map[string]string),
	}
	seenCategory := make(map[string]bool, len(categories))

	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, apperrors.Configuration("lexicon.NewAspectTable", "aspect category without a name")
		}
		if len(c.Terms) == 0 {
			return nil, apperrors.Configurationf("lexicon.NewAspectTable", "aspect category %q has no terms", name)
		}
		if !seenCategory[name] {
			seenCategory[name] = true
			t.categories = append(t.categories, name)
		}

		for _, raw := range c.Terms {
			term := strings.ToLower(strings.TrimSpace(raw))
			if term == "" {
				return nil, apperrors.Configurationf("lexicon.NewAspectTable", "aspect category %q has an empty term", name)
			}

			prev, exists := t.termCategory[term]
			if !exists {
				t.terms = append(t.terms, term)
			} else if prev != name {
				slog.Warn("[Lexicon] Trigger term registered twice, last category wins",
					slog.String("term", term),
					slog.String("previous", prev),
					slog.String("category", name))
			}
			t.termCategory[term] = name
		}
	}

	return t, nil
}

// Terms returns the distinct trigger terms in first-registration order.
func (t *AspectTable) Terms() []string {
	return append([]string(nil), t.terms...)
}

func (t *AspectTable) CategoryOf(term string) (string, bool) {
	c, ok := t.termCategory[term]
	return c, ok
}

func (t *AspectTable) Categories() []string {
	return append([]string(nil), t.categories...)
}

func (t *AspectTable) Has(category string) bool {
	for _, c := range t.categories {
		if c == category {
			return true
		}
	}
	return false
}
