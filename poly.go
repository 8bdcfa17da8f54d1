package gosymbolic

import (
	"math"

	"golang.org/x/exp/slices"
)

// ============================================================
// Univariate polynomial fast path
// ============================================================

// PolyTerm is one coeff*base^Pow monomial of a Poly.
type PolyTerm struct {
	Pow   uint32
	Coeff float64
}

// PolyOf builds a polynomial in base. Terms are merged by power, zero
// coefficients dropped and the result sorted by ascending power.
// Degenerate polynomials collapse to an ordinary expression.
func PolyOf(base *Expr, terms []PolyTerm) *Expr {
	merged := make(map[uint32]float64, len(terms))
	for _, t := range terms {
		merged[t.Pow] += t.Coeff
	}
	norm := make([]PolyTerm, 0, len(merged))
	for p, c := range merged {
		if c != 0 {
			norm = append(norm, PolyTerm{Pow: p, Coeff: c})
		}
	}
	slices.SortFunc(norm, func(a, b PolyTerm) int { return cmpInt(int(a.Pow), int(b.Pow)) })

	switch {
	case len(norm) == 0:
		return N(0)
	case len(norm) == 1:
		return monomial(base, norm[0])
	case base.kind == KindNumber:
		return N(hornerEval(norm, base.num))
	}
	e := &Expr{kind: KindPoly, args: []*Expr{base}, terms: norm}
	e.hash = hashExpr(e)
	return e
}

func monomial(base *Expr, t PolyTerm) *Expr {
	switch t.Pow {
	case 0:
		return N(t.Coeff)
	case 1:
		return MulOf(N(t.Coeff), base)
	}
	return MulOf(N(t.Coeff), PowOf(base, N(float64(t.Pow))))
}

// Degree returns the highest power of a Poly, or -1 for other kinds.
func (e *Expr) Degree() int {
	if e.kind != KindPoly {
		return -1
	}
	return int(e.terms[len(e.terms)-1].Pow)
}

// hornerEval evaluates sparse ascending terms at x using Horner steps
// across the power gaps.
func hornerEval(terms []PolyTerm, x float64) float64 {
	if len(terms) == 0 {
		return 0
	}
	i := len(terms) - 1
	acc := terms[i].Coeff
	for ; i > 0; i-- {
		gap := terms[i].Pow - terms[i-1].Pow
		acc = acc*powi(x, int(gap)) + terms[i-1].Coeff
	}
	return acc * powi(x, int(terms[0].Pow))
}

// powi raises x to an integer power by repeated squaring.
func powi(x float64, n int) float64 {
	if n < 0 {
		return 1 / powi(x, -n)
	}
	r := 1.0
	for n > 0 {
		if n&1 == 1 {
			r *= x
		}
		x *= x
		n >>= 1
	}
	return r
}

// ExpandPoly rewrites a Poly as the equivalent Sum of monomials.
func ExpandPoly(e *Expr) *Expr {
	if e.kind != KindPoly {
		return e
	}
	parts := make([]*Expr, len(e.terms))
	for i, t := range e.terms {
		parts[i] = monomial(e.args[0], t)
	}
	return AddOf(parts...)
}

// polyDerivTerms differentiates terms with respect to the base.
func polyDerivTerms(terms []PolyTerm) []PolyTerm {
	out := make([]PolyTerm, 0, len(terms))
	for _, t := range terms {
		if t.Pow == 0 {
			continue
		}
		out = append(out, PolyTerm{Pow: t.Pow - 1, Coeff: t.Coeff * float64(t.Pow)})
	}
	return out
}

// AsPoly recognizes e as a polynomial in base with non-negative integer
// powers. Constants count as power zero.
func AsPoly(e, base *Expr) (*Expr, bool) {
	if e.kind == KindPoly {
		return e, e.args[0].Equal(base)
	}
	terms, ok := polyTermsOf(e, base)
	if !ok {
		return nil, false
	}
	return PolyOf(base, terms), true
}

func asMonomial(e, base *Expr) (PolyTerm, bool) {
	coeff := 1.0
	if e.kind == KindProduct && len(e.args) == 2 && e.args[0].kind == KindNumber {
		coeff = e.args[0].num
		e = e.args[1]
	}
	switch {
	case e.kind == KindNumber:
		return PolyTerm{Pow: 0, Coeff: coeff * e.num}, true
	case e.Equal(base):
		return PolyTerm{Pow: 1, Coeff: coeff}, true
	case e.kind == KindPow && e.args[0].Equal(base) && e.args[1].kind == KindNumber:
		p := e.args[1].num
		if p >= 0 && isInteger(p) && p <= math.MaxUint32 {
			return PolyTerm{Pow: uint32(p), Coeff: coeff}, true
		}
	}
	return PolyTerm{}, false
}

// PolyAdd adds two polynomials over the same base in one merge.
func PolyAdd(a, b *Expr) (*Expr, bool) {
	if a.kind != KindPoly || b.kind != KindPoly || !a.args[0].Equal(b.args[0]) {
		return nil, false
	}
	terms := make([]PolyTerm, 0, len(a.terms)+len(b.terms))
	terms = append(terms, a.terms...)
	terms = append(terms, b.terms...)
	return PolyOf(a.args[0], terms), true
}

// PolyMul multiplies two polynomials over the same base.
func PolyMul(a, b *Expr) (*Expr, bool) {
	if a.kind != KindPoly || b.kind != KindPoly || !a.args[0].Equal(b.args[0]) {
		return nil, false
	}
	return PolyOf(a.args[0], mulTerms(a.terms, b.terms)), true
}

func mulTerms(a, b []PolyTerm) []PolyTerm {
	terms := make([]PolyTerm, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			terms = append(terms, PolyTerm{Pow: x.Pow + y.Pow, Coeff: x.Coeff * y.Coeff})
		}
	}
	return terms
}

// polyTermsOf reads e as terms over base. Numbers are power 0, so a
// bare constant joins any base.
func polyTermsOf(e, base *Expr) ([]PolyTerm, bool) {
	if e.kind == KindPoly {
		return e.terms, e.args[0].Equal(base)
	}
	items := []*Expr{e}
	if e.kind == KindSum {
		items = e.args
	}
	terms := make([]PolyTerm, 0, len(items))
	for _, it := range items {
		t, ok := asMonomial(it, base)
		if !ok {
			return nil, false
		}
		terms = append(terms, t)
	}
	return terms, true
}

// expandPolys replaces every Poly in e with its expanded Sum. e itself
// comes back when it holds no Poly.
func expandPolys(e *Expr) *Expr {
	if e.kind == KindPoly {
		return expandPolys(ExpandPoly(e))
	}
	if len(e.args) == 0 {
		return e
	}
	args := make([]*Expr, len(e.args))
	for i, c := range e.args {
		args[i] = expandPolys(c)
	}
	if sameChildren(args, e.args) {
		return e
	}
	return rebuild(e, args)
}
