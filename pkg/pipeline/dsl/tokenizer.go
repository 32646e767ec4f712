package dsl

import "strings"

const (
	openBracket  = "["
	closeBracket = "]"
)

// Tokenize splits brackets glued to words into tokens of their own, so that
// "[abc" and "x]]" read as "[", "abc" and "x", "]", "]".
func Tokenize(args []string) []string {
	tokens := make([]string, 0, len(args))

	for _, arg := range args {
		for arg != openBracket && strings.HasPrefix(arg, openBracket) {
			tokens = append(tokens, openBracket)
			arg = arg[len(openBracket):]
		}

		closing := 0
		for arg != closeBracket && strings.HasSuffix(arg, closeBracket) {
			closing++
			arg = arg[:len(arg)-len(closeBracket)]
		}

		tokens = append(tokens, arg)
		for range closing {
			tokens = append(tokens, closeBracket)
		}
	}

	return tokens
}
