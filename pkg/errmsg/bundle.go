package errmsg

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultBundles []byte

// Bundle is a set of message templates for one language.
type Bundle struct {
	Language  language.Tag
	Templates map[string]string
}

// Resolvers returns a template resolver per error key, sorted by key.
func (b Bundle) Resolvers() []Resolver {
	keys := make([]string, 0, len(b.Templates))
	for key := range b.Templates {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	list := make([]Resolver, 0, len(keys))
	for _, key := range keys {
		list = append(list, TemplateFor(b.Language, key, b.Templates[key]))
	}
	return list
}

// ParseBundles parses YAML of the form language -> error key -> template.
// Bundles are returned sorted by language.
func ParseBundles(data []byte) ([]Bundle, error) {
	var raw map[string]map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Join(ErrInvalidBundle, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: no languages found", ErrInvalidBundle)
	}

	bundles := make([]Bundle, 0, len(raw))
	for lang, templates := range raw {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("%w: language %q", ErrInvalidBundle, lang), err)
		}
		bundles = append(bundles, Bundle{Language: tag, Templates: templates})
	}
	slices.SortFunc(bundles, func(a, b Bundle) int {
		switch {
		case a.Language.String() < b.Language.String():
			return -1
		case a.Language.String() > b.Language.String():
			return 1
		}
		return 0
	})
	return bundles, nil
}

// LoadBundles reads and parses a YAML bundle file.
func LoadBundles(path string) ([]Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("errmsg: read bundle file: %w", err)
	}
	return ParseBundles(data)
}

// MatchBundle returns the bundle best matching the preferred languages.
// Without a match the first bundle is returned.
func MatchBundle(bundles []Bundle, preferred ...language.Tag) (Bundle, error) {
	if len(bundles) == 0 {
		return Bundle{}, ErrNoBundles
	}
	tags := make([]language.Tag, len(bundles))
	for i, b := range bundles {
		tags[i] = b.Language
	}
	_, idx, conf := language.NewMatcher(tags).Match(preferred...)
	if conf == language.No {
		return bundles[0], nil
	}
	return bundles[idx], nil
}

var defaults = sync.OnceValue(func() []Bundle {
	bundles, err := ParseBundles(defaultBundles)
	if err != nil {
		panic(err)
	}
	return bundles
})

// DefaultBundles returns the embedded message bundles.
func DefaultBundles() []Bundle {
	return slices.Clone(defaults())
}

// DefaultResolvers returns the English default resolvers for the
// required, minlength, maxlength and email keys.
func DefaultResolvers() []Resolver {
	return DefaultResolversFor(language.English)
}

// DefaultResolversFor returns the default resolvers for the language best matching lang.
func DefaultResolversFor(lang language.Tag) []Resolver {
	b, _ := MatchBundle(defaults(), lang, language.English)
	return b.Resolvers()
}
