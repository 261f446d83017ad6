package binding

import (
	"strings"
	"unicode"
)

// Casing converts identifiers between naming conventions. It is bound
// into every render context under the name "casing" so templates can
// call, for example, $casing.Snake($typeName).
type Casing struct{}

// Pascal renders words in UpperCamelCase.
func (Casing) Pascal(s string) string {
	words := splitWords(s)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(capitalise(w))
	}
	return b.String()
}

// Camel renders words in lowerCamelCase.
func (c Casing) Camel(s string) string {
	words := splitWords(s)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(strings.ToLower(w))
			continue
		}
		b.WriteString(capitalise(w))
	}
	return b.String()
}

// Snake renders words in lower_snake_case.
func (Casing) Snake(s string) string {
	return strings.Join(lowered(splitWords(s)), "_")
}

// Kebab renders words in lower-kebab-case.
func (Casing) Kebab(s string) string {
	return strings.Join(lowered(splitWords(s)), "-")
}

// Upper uppercases the whole string.
func (Casing) Upper(s string) string {
	return strings.ToUpper(s)
}

// Lower lowercases the whole string.
func (Casing) Lower(s string) string {
	return strings.ToLower(s)
}

// Receiver derives a short method receiver name, the lowercased first
// rune of the identifier.
func (Casing) Receiver(s string) string {
	for _, r := range s {
		return string(unicode.ToLower(r))
	}
	return "x"
}

// splitWords cuts an identifier into words on delimiters and camel-case
// boundaries. Runs of capitals stay together until a lowercase rune
// starts the next word, so "APIKey" yields ["API", "Key"].
func splitWords(s string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.':
			flush()
		case unicode.IsUpper(r):
			if i > 0 && !unicode.IsUpper(runes[i-1]) {
				flush()
			} else if i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1]) {
				flush()
			}
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	return words
}

func lowered(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}

func capitalise(w string) string {
	if w == "" {
		return w
	}
	if upper := strings.ToUpper(w); upper == w {
		return w
	}
	runes := []rune(w)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
