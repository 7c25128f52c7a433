package errmsg

import (
	"fmt"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var placeholderRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// ParamsProvider is implemented by error payloads exposing named template parameters.
type ParamsProvider interface {
	Params() map[string]any
}

// Params extracts named template parameters from an error payload.
// Payloads implementing ParamsProvider and plain maps are supported;
// anything else has no parameters.
func Params(payload any) map[string]string {
	var raw map[string]any
	switch p := payload.(type) {
	case ParamsProvider:
		raw = p.Params()
	case map[string]any:
		raw = p
	case map[string]int:
		raw = make(map[string]any, len(p))
		for k, v := range p {
			raw[k] = v
		}
	case map[string]string:
		raw = make(map[string]any, len(p))
		for k, v := range p {
			raw[k] = v
		}
	}
	params := make(map[string]string, len(raw))
	for k, v := range raw {
		params[k] = fmt.Sprint(v)
	}
	return params
}

// Template creates a resolver rendering tmpl in English.
// See TemplateFor for the placeholder rules.
func Template(key, tmpl string) Resolver {
	return TemplateFor(language.English, key, tmpl)
}

// TemplateFor creates a resolver rendering tmpl. %{label} is replaced with
// the label, %{Label} with the label title-cased for lang, and any other
// placeholder with the payload parameter of that name. Unknown placeholders
// are kept as is.
func TemplateFor(lang language.Tag, key, tmpl string) Resolver {
	return ResolverFunc(key, func(payload any, label string) string {
		params := Params(payload)
		return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
			name := match[2 : len(match)-1]
			switch name {
			case "label":
				return label
			case "Label":
				return cases.Title(lang, cases.NoLower).String(label)
			}
			if val, ok := params[name]; ok {
				return val
			}
			return match
		})
	})
}
