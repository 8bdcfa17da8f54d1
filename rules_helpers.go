package gosymbolic

import "math"

// patternEps is the tolerance for matching numeric constants inside
// patterns, e.g. an exponent of 0.5. Never used for equality or hashing.
const patternEps = 1e-12

// maxExact bounds integers float64 represents exactly.
const maxExact = 1 << 53

func approxEq(a, b float64) bool { return math.Abs(a-b) <= patternEps }

func gcd64(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// mulExact multiplies when the product is an exactly representable integer.
func mulExact(a, b int64) (int64, bool) {
	if math.Abs(float64(a))*math.Abs(float64(b)) >= maxExact {
		return 0, false
	}
	return a * b, true
}

func addExact(a, b int64) (int64, bool) {
	if math.Abs(float64(a))+math.Abs(float64(b)) >= maxExact {
		return 0, false
	}
	return a + b, true
}

// asRational matches an integer number or a quotient of two integers.
func asRational(e *Expr) (p, q int64, ok bool) {
	switch e.kind {
	case KindNumber:
		if isInteger(e.num) {
			return int64(e.num), 1, true
		}
	case KindDiv:
		n, d := e.args[0], e.args[1]
		if n.kind == KindNumber && d.kind == KindNumber && isInteger(n.num) && isInteger(d.num) && d.num != 0 {
			return int64(n.num), int64(d.num), true
		}
	}
	return 0, 0, false
}

// rational builds p/q in lowest terms with a positive denominator.
func rational(p, q int64) *Expr {
	if g := gcd64(p, q); g > 1 {
		p, q = p/g, q/g
	}
	if q < 0 {
		p, q = -p, -q
	}
	if q == 1 {
		return N(float64(p))
	}
	return DivOf(N(float64(p)), N(float64(q)))
}

// numericValue evaluates a number or a quotient of numbers.
func numericValue(e *Expr) (float64, bool) {
	switch e.kind {
	case KindNumber:
		return e.num, true
	case KindDiv:
		if e.args[0].kind == KindNumber && e.args[1].kind == KindNumber {
			return e.args[0].num / e.args[1].num, true
		}
	}
	return 0, false
}

// splitCoeff separates a leading numeric coefficient: 3*x*y gives
// (3, x*y). A bare number gives (n, nil).
func splitCoeff(e *Expr) (float64, *Expr) {
	switch e.kind {
	case KindNumber:
		return e.num, nil
	case KindProduct:
		if e.args[0].kind == KindNumber {
			return e.args[0].num, MulOf(e.args[1:]...)
		}
	}
	return 1, e
}

func withCoeff(c float64, rest *Expr) *Expr {
	if rest == nil {
		return N(c)
	}
	return MulOf(N(c), rest)
}

// splitPow returns base and exponent, treating x as x^1.
func splitPow(e *Expr) (*Expr, *Expr) {
	if e.kind == KindPow {
		return e.args[0], e.args[1]
	}
	return e, exprOne
}

// factorsOf lists the multiplicative factors of e.
func factorsOf(e *Expr) []*Expr {
	if e.kind == KindProduct {
		return e.args
	}
	return []*Expr{e}
}

// negated matches a term with a negative leading coefficient and
// returns its positive counterpart.
func negated(e *Expr) (*Expr, bool) {
	c, rest := splitCoeff(e)
	if c >= 0 {
		return nil, false
	}
	return withCoeff(-c, rest), true
}

// squareOf matches u^2 for a one-argument call to name and returns u.
func squareOf(e *Expr, name string) (*Expr, bool) {
	if e.kind != KindPow || !e.args[1].isNum(2) || !e.args[0].isFunc(name, 1) {
		return nil, false
	}
	return e.args[0].args[0], true
}

// replaceTerms returns a sum of terms with the positions in drop removed
// and extra appended.
func replaceTerms(terms []*Expr, drop map[int]bool, extra ...*Expr) *Expr {
	out := make([]*Expr, 0, len(terms)-len(drop)+len(extra))
	for i, t := range terms {
		if !drop[i] {
			out = append(out, t)
		}
	}
	return AddOf(append(out, extra...)...)
}

func replaceFactors(factors []*Expr, drop map[int]bool, extra ...*Expr) *Expr {
	out := make([]*Expr, 0, len(factors)-len(drop)+len(extra))
	for i, f := range factors {
		if !drop[i] {
			out = append(out, f)
		}
	}
	return MulOf(append(out, extra...)...)
}
