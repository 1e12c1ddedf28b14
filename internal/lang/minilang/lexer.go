package minilang

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type tokenType int

const (
	tkEOF tokenType = iota
	tkIdent
	tkInt
	tkString
	tkAssign // "="
	tkPlus
	tkMinus
	tkStar
	tkLParen
	tkRParen
	tkLBracket
	tkRBracket
	tkComma
	tkDot
	tkSemi
)

type token struct {
	typ  tokenType
	text string
	num  int64
}

// lex tokenizes a single statement. Newlines are treated as plain whitespace;
// statement boundaries are decided by the splitter, not the lexer.
func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '#':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == '=':
			toks = append(toks, token{typ: tkAssign, text: "="})
			i++
		case r == '+':
			toks = append(toks, token{typ: tkPlus, text: "+"})
			i++
		case r == '-':
			toks = append(toks, token{typ: tkMinus, text: "-"})
			i++
		case r == '*':
			toks = append(toks, token{typ: tkStar, text: "*"})
			i++
		case r == '(':
			toks = append(toks, token{typ: tkLParen, text: "("})
			i++
		case r == ')':
			toks = append(toks, token{typ: tkRParen, text: ")"})
			i++
		case r == '[':
			toks = append(toks, token{typ: tkLBracket, text: "["})
			i++
		case r == ']':
			toks = append(toks, token{typ: tkRBracket, text: "]"})
			i++
		case r == ',':
			toks = append(toks, token{typ: tkComma, text: ","})
			i++
		case r == '.':
			toks = append(toks, token{typ: tkDot, text: "."})
			i++
		case r == ';':
			toks = append(toks, token{typ: tkSemi, text: ";"})
			i++
		case r == '"':
			j := i + 1
			var b strings.Builder
			for j < len(runes) && runes[j] != '"' {
				if runes[j] == '\\' && j+1 < len(runes) {
					j++
					switch runes[j] {
					case 'n':
						b.WriteByte('\n')
					case 't':
						b.WriteByte('\t')
					default:
						b.WriteRune(runes[j])
					}
				} else {
					b.WriteRune(runes[j])
				}
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			toks = append(toks, token{typ: tkString, text: b.String()})
			i = j + 1
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			n, err := strconv.ParseInt(string(runes[i:j]), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bad integer literal %q: %w", string(runes[i:j]), err)
			}
			toks = append(toks, token{typ: tkInt, num: n})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			toks = append(toks, token{typ: tkIdent, text: string(runes[i:j])})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", string(r))
		}
	}
	toks = append(toks, token{typ: tkEOF})
	return toks, nil
}
