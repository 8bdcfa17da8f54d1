package gosymbolic

import (
	"strings"
)

// Expr    = Term { ('+' | '-') Term }
// Term    = Unary { ('*' | '/') Unary | Unary }     juxtaposition multiplies
// Unary   = ('-' | '+') Unary | Power
// Power   = Primary [ ('^' | '**') Unary ]          right-associative
// Primary = num | name | name '(' [ Expr { ',' Expr } ] ')' | '(' Expr ')'

// Parse builds an expression from formula text. Names listed with
// FixedVars stay symbols even when they spell a function; functions are
// resolved against the option Context first and the built-in registry
// second. The MaxDepth and MaxNodes limits apply to the result.
func Parse(src string, opts ...Option) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &Error{Code: CodeEmptyFormula}
	}
	o := buildOptions(opts)
	if err := o.checkNames(); err != nil {
		return nil, err
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, opts: &o}
	e, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, unexpected(tok, tokenEOF.String())
	}
	if err := checkLimits(e, &o); err != nil {
		return nil, err
	}
	return e, nil
}

// MustParse is Parse for known-good input. It panics on error.
func MustParse(src string, opts ...Option) *Expr {
	e, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

type parser struct {
	toks  []lexToken
	i     int
	opts  *Options
	depth int
}

func (p *parser) peek() lexToken { return p.toks[p.i] }

func (p *parser) next() lexToken {
	tok := p.toks[p.i]
	if tok.kind != tokenEOF {
		p.i++
	}
	return tok
}

func unexpected(tok lexToken, expected string) error {
	sp := tok.span()
	if tok.kind == tokenEOF {
		return &Error{Code: CodeUnexpectedEnd, Span: &sp}
	}
	return &Error{Code: CodeUnexpectedToken, Expected: expected, Got: tok.describe(), Span: &sp}
}

// parseterm parses operators binding more tightly than until.
func (p *parser) parseterm(until operator) (*Expr, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return nil, ErrMaxDepth
	}
	lhs, err := p.parselhs(until)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if !prec.moreBinding(until) {
				return lhs, nil
			}
			p.next()
			rhs, err := p.parseterm(prec)
			if err != nil {
				return nil, err
			}
			lhs = combine(tok.text, lhs, rhs)
		case tokenNum, tokenIdent, tokenOpen:
			// 2x -> 2*x, 2(x+1) -> 2*(x+1), (a)(b) -> a*b
			if !termprec.moreBinding(until) {
				return lhs, nil
			}
			rhs, err := p.parseterm(termprec)
			if err != nil {
				return nil, err
			}
			lhs = MulOf(lhs, rhs)
		default:
			return lhs, nil
		}
	}
}

func combine(op string, a, b *Expr) *Expr {
	switch op {
	case "+":
		return AddOf(a, b)
	case "-":
		return SubOf(a, b)
	case "*":
		return MulOf(a, b)
	case "/":
		return DivOf(a, b)
	}
	return PowOf(a, b)
}

// parselhs parses the first operand of a term: a unary operator, a
// literal, a name or call, or a parenthesized expression.
func (p *parser) parselhs(until operator) (*Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNum:
		return N(tok.num), nil
	case tokenIdent:
		return p.parseident(tok)
	case tokenOp:
		prec := unop(tok.text)
		if prec.prec == 0 {
			return nil, unexpected(tok, "expression")
		}
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			prec = until
		}
		rhs, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		if tok.text == "+" {
			return rhs, nil
		}
		if rhs.kind == KindNumber {
			return N(-rhs.num), nil
		}
		return NegOf(rhs), nil
	case tokenOpen:
		inner, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		if end := p.next(); end.kind != tokenClose {
			return nil, unexpected(end, ")")
		}
		return inner, nil
	}
	return nil, unexpected(tok, "expression")
}

func (p *parser) parseident(tok lexToken) (*Expr, error) {
	name := tok.text
	_, fixed := p.opts.Fixed[name]
	if p.peek().kind != tokenOpen {
		if _, isFunc := p.opts.lookupFunc(name); isFunc && !fixed {
			return nil, unexpected(p.peek(), "(")
		}
		return SymOf(Intern(name)), nil
	}
	if fixed {
		sp := tok.span()
		return nil, &Error{Code: CodeNameCollision, Token: name, Span: &sp}
	}
	def, ok := p.opts.lookupFunc(name)
	if !ok {
		if err := p.ambiguous(tok); err != nil {
			return nil, err
		}
		sp := tok.span()
		return nil, &Error{Code: CodeUnsupported, Msg: "unknown function '" + name + "'", Span: &sp}
	}
	p.next()
	args, err := p.parseargs()
	if err != nil {
		return nil, err
	}
	if !def.CanCall(len(args)) {
		sp := tok.span()
		return nil, &Error{Code: CodeInvalidFunctionCall, Token: name, Min: def.MinArgs, Count: len(args), Span: &sp}
	}
	return FuncOf(name, args...), nil
}

// ambiguous reports a name like xsin in xsin(y) that ends in a known
// function name, suggesting the explicit product.
func (p *parser) ambiguous(tok lexToken) error {
	names := BuiltinNames()
	if p.opts.Context != nil {
		names = append(names, p.opts.Context.Names()...)
	}
	best := ""
	for _, f := range names {
		if len(f) < len(tok.text) && strings.HasSuffix(tok.text, f) && len(f) > len(best) {
			best = f
		}
	}
	if best == "" {
		return nil
	}
	prefix := tok.text[:len(tok.text)-len(best)]
	sp := tok.span()
	return &Error{
		Code:       CodeAmbiguousSequence,
		Token:      tok.text,
		Suggestion: "did you mean '" + prefix + "*" + best + "(...)'?",
		Span:       &sp,
	}
}

// parseargs parses the argument list after an open bracket, through the
// closing bracket.
func (p *parser) parseargs() ([]*Expr, error) {
	if p.peek().kind == tokenClose {
		p.next()
		return nil, nil
	}
	var args []*Expr
	for {
		arg, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		switch end := p.next(); end.kind {
		case tokenSep:
		case tokenClose:
			return args, nil
		default:
			return nil, unexpected(end, ")")
		}
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding; zero means
	// no such operator.
	prec int8
	// right indicates right-associativity.
	right bool
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

func binop(text string) operator {
	switch text {
	case "+", "-":
		return operator{1, false}
	case "*", "/":
		return operator{5, false}
	case "^":
		return operator{15, true}
	}
	return operator{}
}

func unop(text string) operator {
	switch text {
	case "+", "-":
		return operator{10, true}
	}
	return operator{}
}

var (
	// termprec is the precedence of implicit multiplication. It matches
	// explicit multiplication, so 1/2x is (1/2)*x.
	termprec = operator{5, false}
	// exprprec is the precedence required to parse a whole subexpression.
	exprprec = operator{-128, true}
)
