package shell

import "unicode"

// splitQuoted splits a string on whitespace while respecting single and
// double quotes. Quote characters are kept in the tokens; stripQuotes
// removes them where a single layer should come off.
func splitQuoted(input string) []string {
	var tokens []string
	var current []rune
	var quote rune

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}

	for _, r := range input {
		switch {
		case quote != 0:
			current = append(current, r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			current = append(current, r)
		case unicode.IsSpace(r):
			flush()
		default:
			current = append(current, r)
		}
	}
	flush()
	return tokens
}

// stripQuotes removes one layer of matching surrounding quotes.
func stripQuotes(token string) string {
	if len(token) >= 2 {
		first, last := token[0], token[len(token)-1]
		if first == last && (first == '\'' || first == '"') {
			return token[1 : len(token)-1]
		}
	}
	return token
}
