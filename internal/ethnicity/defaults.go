package ethnicity

import "strings"

// DefaultWildcard is the token replaced by the raw ethnicity value in template defaults.
const DefaultWildcard = "*"

// DefaultValue is one cell appended to a row that has no match in the lookup.
// A literal is written as-is; a template has the wildcard replaced by the row's
// ethnicity value.
type DefaultValue struct {
	text     string
	template bool
}

// Literal returns a default written verbatim.
func Literal(text string) DefaultValue {
	return DefaultValue{text: text}
}

// Template returns a default whose wildcard tokens are substituted per row.
func Template(text string) DefaultValue {
	return DefaultValue{text: text, template: true}
}

// ParseDefaultValues classifies plain strings: those containing the wildcard
// become templates, the rest literals.
func ParseDefaultValues(values []string, wildcard string) []DefaultValue {
	if wildcard == "" {
		wildcard = DefaultWildcard
	}
	parsed := make([]DefaultValue, 0, len(values))
	for _, v := range values {
		if strings.Contains(v, wildcard) {
			parsed = append(parsed, Template(v))
		} else {
			parsed = append(parsed, Literal(v))
		}
	}
	return parsed
}

// Text returns the unresolved value.
func (v DefaultValue) Text() string {
	return v.text
}

// IsTemplate reports whether the value is subject to wildcard substitution.
func (v DefaultValue) IsTemplate() bool {
	return v.template
}

// Resolve produces the cell for a row whose raw ethnicity cell is ethnicity.
func (v DefaultValue) Resolve(wildcard, ethnicity string) string {
	if !v.template || wildcard == "" {
		return v.text
	}
	return strings.ReplaceAll(v.text, wildcard, ethnicity)
}
