package gosymbolic

import (
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Rendering
// ============================================================

type printMode uint8

const (
	modeASCII printMode = iota
	modeLaTeX
	modeUnicode
)

// String renders e as ASCII infix, e.g. "2*x^2 - sin(y) + 1".
func (e *Expr) String() string { return render(e, modeASCII) }

func (e *Expr) LaTeX() string { return render(e, modeLaTeX) }

func (e *Expr) Unicode() string { return render(e, modeUnicode) }

func render(e *Expr, m printMode) string {
	var sb strings.Builder
	p := printer{mode: m, sb: &sb}
	p.expr(e)
	return sb.String()
}

type printer struct {
	mode printMode
	sb   *strings.Builder
}

func (p *printer) w(s string) { p.sb.WriteString(s) }

func (p *printer) open() {
	if p.mode == modeLaTeX {
		p.w(`\left(`)
		return
	}
	p.w("(")
}

func (p *printer) close() {
	if p.mode == modeLaTeX {
		p.w(`\right)`)
		return
	}
	p.w(")")
}

func (p *printer) paren(e *Expr, on bool) {
	if on {
		p.open()
		p.expr(e)
		p.close()
		return
	}
	p.expr(e)
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case isInteger(v) && math.Abs(v) < 1e15:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (p *printer) expr(e *Expr) {
	switch e.kind {
	case KindNumber:
		p.number(e.num)
	case KindSymbol:
		p.symbol(e.sym)
	case KindSum:
		p.sum(displayTerms(e.args))
	case KindProduct:
		p.product(e)
	case KindDiv:
		p.div(e.args[0], e.args[1])
	case KindPow:
		p.pow(e.args[0], e.args[1])
	case KindFunc:
		p.call(e)
	case KindDerivative:
		p.derivative(e)
	case KindPoly:
		p.expr(ExpandPoly(e))
	}
}

func (p *printer) number(v float64) {
	s := formatNumber(v)
	if p.mode == modeUnicode {
		switch {
		case math.IsInf(v, 1):
			s = "∞"
		case math.IsInf(v, -1):
			s = "-∞"
		}
	}
	p.w(s)
}

func (p *printer) symbol(s Symbol) {
	name := s.String()
	switch {
	case p.mode == modeLaTeX && name == "pi":
		name = `\pi`
	case p.mode == modeUnicode && name == "pi":
		name = "π"
	}
	p.w(name)
}

// displayTerms moves the constant of a sum to the end for display.
func displayTerms(terms []*Expr) []*Expr {
	if len(terms) < 2 || terms[0].kind != KindNumber {
		return terms
	}
	out := make([]*Expr, 0, len(terms))
	out = append(out, terms[1:]...)
	return append(out, terms[0])
}

// negativePart reports whether t displays with a leading minus and
// returns its magnitude.
func negativePart(t *Expr) (*Expr, bool) {
	switch {
	case t.kind == KindNumber && t.num < 0:
		return N(-t.num), true
	case t.kind == KindProduct && t.args[0].kind == KindNumber && t.args[0].num < 0:
		rest := append([]*Expr{N(-t.args[0].num)}, t.args[1:]...)
		return MulOf(rest...), true
	}
	return t, false
}

func (p *printer) sum(terms []*Expr) {
	for i, t := range terms {
		mag, neg := negativePart(t)
		switch {
		case i == 0 && neg:
			p.w("-")
		case i > 0 && neg:
			p.w(" - ")
		case i > 0:
			p.w(" + ")
		}
		p.paren(mag, neg && mag.kind == KindSum)
	}
}

func (p *printer) mulSep() {
	switch p.mode {
	case modeLaTeX:
		p.w(` \cdot `)
	case modeUnicode:
		p.w("·")
	default:
		p.w("*")
	}
}

func (p *printer) product(e *Expr) {
	factors := e.args
	if factors[0].isNum(-1) {
		p.w("-")
		factors = factors[1:]
	}
	for i, f := range factors {
		if i > 0 {
			p.mulSep()
		}
		p.paren(f, f.kind == KindSum || f.kind == KindPoly || (f.kind == KindDiv && p.mode != modeLaTeX) ||
			(i > 0 && f.kind == KindNumber && f.num < 0))
	}
}

func (p *printer) div(num, den *Expr) {
	if p.mode == modeLaTeX {
		p.w(`\frac{`)
		p.expr(num)
		p.w("}{")
		p.expr(den)
		p.w("}")
		return
	}
	p.paren(num, num.kind == KindSum || num.kind == KindPoly || num.kind == KindDiv)
	p.w("/")
	p.paren(den, den.kind != KindNumber && den.kind != KindSymbol && den.kind != KindFunc && den.kind != KindPow ||
		(den.kind == KindNumber && den.num < 0))
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹', '-': '⁻',
}

func (p *printer) pow(base, exp *Expr) {
	if p.mode == modeLaTeX && exp.kind == KindDiv && exp.args[0].isNum(1) && exp.args[1].isNum(2) {
		p.w(`\sqrt{`)
		p.expr(base)
		p.w("}")
		return
	}
	p.paren(base, base.kind != KindSymbol && base.kind != KindFunc && !(base.kind == KindNumber && base.num >= 0))
	switch p.mode {
	case modeLaTeX:
		p.w("^{")
		p.expr(exp)
		p.w("}")
		return
	case modeUnicode:
		if exp.kind == KindNumber && isInteger(exp.num) {
			p.w(toSuperscript(formatNumber(exp.num)))
			return
		}
	}
	p.w("^")
	p.paren(exp, exp.kind != KindSymbol && !(exp.kind == KindNumber && exp.num >= 0))
}

var latexFuncs = map[string]string{
	"sin": `\sin`, "cos": `\cos`, "tan": `\tan`, "cot": `\cot`, "sec": `\sec`, "csc": `\csc`,
	"asin": `\arcsin`, "acos": `\arccos`, "atan": `\arctan`,
	"sinh": `\sinh`, "cosh": `\cosh`, "tanh": `\tanh`, "coth": `\coth`,
	"exp": `\exp`, "ln": `\ln`, "gamma": `\Gamma`, "digamma": `\psi`,
}

func (p *printer) args(args []*Expr) {
	for i, a := range args {
		if i > 0 {
			p.w(", ")
		}
		p.expr(a)
	}
}

func (p *printer) call(e *Expr) {
	switch p.mode {
	case modeLaTeX:
		switch e.name {
		case "sqrt":
			p.w(`\sqrt{`)
			p.args(e.args)
			p.w("}")
			return
		case "cbrt":
			p.w(`\sqrt[3]{`)
			p.args(e.args)
			p.w("}")
			return
		case "abs":
			p.w(`\left|`)
			p.args(e.args)
			p.w(`\right|`)
			return
		}
		if cmd, ok := latexFuncs[e.name]; ok {
			p.w(cmd)
		} else {
			p.w(`\operatorname{` + e.name + "}")
		}
	case modeUnicode:
		switch e.name {
		case "sqrt":
			p.w("√")
		case "cbrt":
			p.w("∛")
		case "abs":
			p.w("|")
			p.args(e.args)
			p.w("|")
			return
		default:
			p.w(e.name)
		}
	default:
		p.w(e.name)
	}
	p.open()
	p.args(e.args)
	p.close()
}

func (p *printer) derivative(e *Expr) {
	order := strconv.FormatUint(uint64(e.order), 10)
	v := e.sym.String()
	switch p.mode {
	case modeLaTeX:
		if e.order == 1 {
			p.w(`\frac{\partial}{\partial ` + v + "}")
		} else {
			p.w(`\frac{\partial^{` + order + `}}{\partial ` + v + "^{" + order + "}}")
		}
		p.open()
		p.expr(e.args[0])
		p.close()
		return
	case modeUnicode:
		p.w("∂")
		if e.order > 1 {
			p.w(toSuperscript(order))
		}
		p.open()
		p.expr(e.args[0])
		p.close()
		p.w("/∂" + v)
		if e.order > 1 {
			p.w(toSuperscript(order))
		}
		return
	}
	p.w("d")
	if e.order > 1 {
		p.w("^" + order)
	}
	p.open()
	p.expr(e.args[0])
	p.close()
	p.w("/d" + v)
	if e.order > 1 {
		p.w("^" + order)
	}
}

func toSuperscript(s string) string {
	var sb strings.Builder
	for _, r := range s {
		sb.WriteRune(superscripts[r])
	}
	return sb.String()
}
