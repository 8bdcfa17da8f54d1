package gosymbolic

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ============================================================
// Error taxonomy
// ============================================================

type ErrorCode uint32

const (
	CodeEmptyFormula ErrorCode = 100 + iota
	CodeInvalidSyntax
	CodeInvalidNumber
	CodeInvalidToken
	CodeUnexpectedToken
	CodeUnexpectedEnd
	CodeInvalidFunctionCall
)

const (
	CodeFixedAndDiff ErrorCode = 200 + iota
	CodeNameCollision
	CodeUnsupported
	CodeAmbiguousSequence
	CodeUnboundVariable
)

const (
	CodeMaxDepth ErrorCode = 300 + iota
	CodeMaxNodes
	CodeStackLimit
	CodeInvalidInput
)

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// SpanAt covers the single byte at pos.
func SpanAt(pos int) Span { return Span{Start: pos, End: pos + 1} }

func (s Span) Valid() bool { return s.End > s.Start }

// Display renders the span 1-indexed for error messages.
func (s Span) Display() string {
	switch {
	case !s.Valid():
		return ""
	case s.End-s.Start == 1:
		return " at position " + strconv.Itoa(s.Start+1)
	}
	return fmt.Sprintf(" at positions %d-%d", s.Start+1, s.End)
}

// Error is the single error type surfaced by parse, derive, simplify and
// compile. Which fields are set depends on Code.
type Error struct {
	Code       ErrorCode
	Token      string
	Expected   string
	Got        string
	Min        int
	Count      int
	Suggestion string
	Msg        string
	Span       *Span
}

func (e *Error) span() string {
	if e.Span == nil {
		return ""
	}
	return e.Span.Display()
}

func (e *Error) Error() string {
	switch e.Code {
	case CodeEmptyFormula:
		return "formula cannot be empty"
	case CodeInvalidSyntax:
		return "invalid syntax: " + e.Msg + e.span()
	case CodeInvalidNumber:
		return fmt.Sprintf("invalid number format: '%s'%s", e.Token, e.span())
	case CodeInvalidToken:
		return fmt.Sprintf("invalid token: '%s'%s", e.Token, e.span())
	case CodeUnexpectedToken:
		return fmt.Sprintf("expected '%s', but got '%s'%s", e.Expected, e.Got, e.span())
	case CodeUnexpectedEnd:
		return "unexpected end of input"
	case CodeInvalidFunctionCall:
		return fmt.Sprintf("function '%s' requires at least %d argument(s), but got %d", e.Token, e.Min, e.Count)
	case CodeFixedAndDiff:
		return fmt.Sprintf("variable '%s' cannot be both the differentiation variable and a fixed constant", e.Token)
	case CodeNameCollision:
		return fmt.Sprintf("name '%s' is declared as both a variable and a function", e.Token)
	case CodeUnsupported:
		return "unsupported operation: " + e.Msg
	case CodeAmbiguousSequence:
		return fmt.Sprintf("ambiguous identifier sequence '%s'%s: %s Consider using explicit multiplication (e.g. 'x*sin(y)') or declaring multi-character variables",
			e.Token, e.span(), e.Suggestion)
	case CodeUnboundVariable:
		return fmt.Sprintf("unbound variable '%s'", e.Token)
	case CodeMaxDepth:
		return "expression nesting depth exceeds maximum limit"
	case CodeMaxNodes:
		return "expression size exceeds maximum node count limit"
	case CodeStackLimit:
		return "compiled stack depth exceeds maximum limit" + withMsg(e.Msg)
	case CodeInvalidInput:
		return "invalid input" + withMsg(e.Msg)
	}
	return fmt.Sprintf("error %d%s", e.Code, withMsg(e.Msg))
}

func withMsg(msg string) string {
	if msg == "" {
		return ""
	}
	return ": " + msg
}

// Is matches any *Error carrying the same code, so the sentinels below
// work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrEmptyFormula        = &Error{Code: CodeEmptyFormula}
	ErrInvalidSyntax       = &Error{Code: CodeInvalidSyntax}
	ErrInvalidNumber       = &Error{Code: CodeInvalidNumber}
	ErrInvalidToken        = &Error{Code: CodeInvalidToken}
	ErrUnexpectedToken     = &Error{Code: CodeUnexpectedToken}
	ErrUnexpectedEnd       = &Error{Code: CodeUnexpectedEnd}
	ErrInvalidFunctionCall = &Error{Code: CodeInvalidFunctionCall}
	ErrFixedAndDiff        = &Error{Code: CodeFixedAndDiff}
	ErrNameCollision       = &Error{Code: CodeNameCollision}
	ErrUnsupported         = &Error{Code: CodeUnsupported}
	ErrAmbiguousSequence   = &Error{Code: CodeAmbiguousSequence}
	ErrUnboundVariable     = &Error{Code: CodeUnboundVariable}
	ErrMaxDepth            = &Error{Code: CodeMaxDepth}
	ErrMaxNodes            = &Error{Code: CodeMaxNodes}
	ErrStackLimit          = &Error{Code: CodeStackLimit}
	ErrInvalidInput        = &Error{Code: CodeInvalidInput}
)

func errAt(code ErrorCode, sp Span) *Error { return &Error{Code: code, Span: &sp} }

func errUnsupported(format string, args ...interface{}) *Error {
	return &Error{Code: CodeUnsupported, Msg: fmt.Sprintf(format, args...)}
}

func errInvalidInput(format string, args ...interface{}) *Error {
	return &Error{Code: CodeInvalidInput, Msg: fmt.Sprintf(format, args...)}
}

// EquivalenceError reports a sample point where a simplified expression
// disagrees with its original.
type EquivalenceError struct {
	Point      map[string]float64
	Original   float64
	Simplified float64
}

func (e *EquivalenceError) Error() string {
	names := maps.Keys(e.Point)
	slices.Sort(names)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + "=" + strconv.FormatFloat(e.Point[n], 'g', -1, 64)
	}
	return fmt.Sprintf("equivalence check failed at {%s}: original=%g simplified=%g",
		strings.Join(parts, ", "), e.Original, e.Simplified)
}
