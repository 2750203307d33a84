package main

import (
	"strconv"
	"strings"
)

// Token is one lexical unit of input. Quoted marks text that appeared
// between double quotes; such tokens are always string literals, never
// words or integers.
type Token struct {
	Text   string
	Quoted bool
}

// tokenize splits a unit of source into tokens. Text between matching
// double quotes becomes a single quoted token with no escape
// processing. Whitespace separates everything else. The second result
// is true when the source ends inside an open quote.
func tokenize(src string) (tokens []Token, open bool) {
	var sb strings.Builder
	inQuote := false
	flush := func(quoted bool) {
		tokens = append(tokens, Token{Text: sb.String(), Quoted: quoted})
		sb.Reset()
	}
	for _, r := range src {
		switch {
		case r == '"' && !inQuote:
			if sb.Len() > 0 {
				flush(false)
			}
			inQuote = true
		case r == '"' && inQuote:
			// empty quoted strings are still tokens
			flush(true)
			inQuote = false
		case isSpace(r) && !inQuote:
			if sb.Len() > 0 {
				flush(false)
			}
		default:
			sb.WriteRune(r)
		}
	}
	if inQuote {
		flush(true)
		return tokens, true
	}
	if sb.Len() > 0 {
		flush(false)
	}
	return tokens, false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// isInt reports whether an unquoted token reads as an integer literal:
// an optional leading minus followed by digits.
func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func parseInt(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}
