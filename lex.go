package gosymbolic

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Lexer
// ============================================================

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF marks the end of the input.
	tokenEOF
	// tokenNum is a decimal literal, possibly with an exponent.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenOp is one of + - * / ^. ** lexes as ^.
	tokenOp
	tokenOpen
	tokenClose
	// tokenSep separates function arguments.
	tokenSep
)

var tokenNames = [...]string{"none", "end of input", "number", "identifier", "operator", "(", ")", ","}

func (k tokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "token(" + strconv.Itoa(int(k)) + ")"
}

type lexToken struct {
	text string
	kind tokenKind
	// pos and end are byte offsets into the source.
	pos, end int
	num      float64
}

func (t lexToken) span() Span { return Span{Start: t.pos, End: t.end} }

// describe renders the token for expected/got messages.
func (t lexToken) describe() string {
	if t.kind == tokenEOF {
		return t.kind.String()
	}
	return t.text
}

const operators = "+-*/^"

// lex scans the whole source. The returned slice always ends in an EOF
// token when err is nil.
func lex(src string) ([]lexToken, error) {
	var toks []lexToken
	i := 0
	for i < len(src) {
		r, sz := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += sz
		case '0' <= r && r <= '9', r == '.':
			tok, err := scanNum(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = tok.end
		case r == '_', unicode.IsLetter(r):
			j := scanIdent(src, i)
			toks = append(toks, lexToken{text: src[i:j], kind: tokenIdent, pos: i, end: j})
			i = j
		case r == '*' && strings.HasPrefix(src[i:], "**"):
			toks = append(toks, lexToken{text: "^", kind: tokenOp, pos: i, end: i + 2})
			i += 2
		case strings.ContainsRune(operators, r):
			toks = append(toks, lexToken{text: string(r), kind: tokenOp, pos: i, end: i + 1})
			i++
		case r == '(':
			toks = append(toks, lexToken{text: "(", kind: tokenOpen, pos: i, end: i + 1})
			i++
		case r == ')':
			toks = append(toks, lexToken{text: ")", kind: tokenClose, pos: i, end: i + 1})
			i++
		case r == ',':
			toks = append(toks, lexToken{text: ",", kind: tokenSep, pos: i, end: i + 1})
			i++
		default:
			sp := NewSpan(i, i+sz)
			return nil, &Error{Code: CodeInvalidToken, Token: string(r), Span: &sp}
		}
	}
	toks = append(toks, lexToken{kind: tokenEOF, pos: len(src), end: len(src)})
	return toks, nil
}

// scanNum scans digits, at most one dot, and an optional exponent with
// sign. Letters directly after an exponent marker belong to the next
// token, so 2e reads as 2 followed by e, not as a malformed literal.
func scanNum(src string, start int) (lexToken, error) {
	i := start
	var dig, dot bool
	for ; i < len(src); i++ {
		c := src[i]
		if '0' <= c && c <= '9' {
			dig = true
			continue
		}
		if c != '.' {
			break
		}
		if dot {
			j := i + 1
			for j < len(src) && (src[j] == '.' || '0' <= src[j] && src[j] <= '9') {
				j++
			}
			sp := NewSpan(start, j)
			return lexToken{}, &Error{Code: CodeInvalidNumber, Token: src[start:j], Span: &sp}
		}
		dot = true
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') && dig {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		k := j
		for k < len(src) && '0' <= src[k] && src[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	text := src[start:i]
	v, err := strconv.ParseFloat(text, 64)
	if !dig || err != nil {
		sp := NewSpan(start, i)
		return lexToken{}, &Error{Code: CodeInvalidNumber, Token: text, Span: &sp}
	}
	return lexToken{text: text, kind: tokenNum, pos: start, end: i, num: v}, nil
}

func scanIdent(src string, start int) int {
	i := start
	for i < len(src) {
		r, sz := utf8.DecodeRuneInString(src[i:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += sz
	}
	return i
}
