package gosymbolic

import "math"

// Numeric folding never produces NaN or Inf: such results stay unfolded.

func numericRules() []Rule {
	return []Rule{
		{
			Name:     "div_numeric",
			Category: CategoryNumeric,
			Priority: 100,
			Kinds:    []ExprKind{KindDiv},
			Apply:    divNumeric,
		},
		{
			Name:     "pow_numeric",
			Category: CategoryNumeric,
			Priority: 95,
			Kinds:    []ExprKind{KindPow},
			Apply:    powNumeric,
		},
		{
			Name:     "func_numeric",
			Category: CategoryNumeric,
			Priority: 90,
			Kinds:    []ExprKind{KindFunc},
			Apply:    funcNumeric,
		},
		{
			Name:     "sum_fractions",
			Category: CategoryNumeric,
			Priority: 85,
			Deps:     []string{"div_numeric"},
			Kinds:    []ExprKind{KindSum},
			Apply:    sumFractions,
		},
		{
			Name:     "product_fractions",
			Category: CategoryNumeric,
			Priority: 80,
			Deps:     []string{"div_numeric"},
			Kinds:    []ExprKind{KindProduct},
			Apply:    productFractions,
		},
	}
}

// divNumeric reduces integer quotients by their GCD and folds other
// number quotients when the result is finite.
func divNumeric(e *Expr, _ *RuleContext) *Expr {
	n, d := e.args[0], e.args[1]
	if n.kind != KindNumber || d.kind != KindNumber || d.num == 0 {
		return nil
	}
	if isInteger(n.num) && isInteger(d.num) {
		return rational(int64(n.num), int64(d.num))
	}
	if v := n.num / d.num; isFinite(v) {
		return N(v)
	}
	return nil
}

// powNumeric folds integer powers exactly. A negative integer exponent
// yields a fraction 1/b^n; a fractional exponent folds only when the
// result is an integer, as in 8^(1/3).
func powNumeric(e *Expr, _ *RuleContext) *Expr {
	b := e.args[0]
	if b.kind != KindNumber {
		return nil
	}
	x, ok := numericValue(e.args[1])
	if !ok {
		return nil
	}
	if isInteger(x) && math.Abs(x) <= 64 {
		r := powi(b.num, int(math.Abs(x)))
		switch {
		case !isFinite(r):
			return nil
		case x >= 0:
			return N(r)
		case r == 0:
			return nil
		case isInteger(r):
			return rational(1, int64(r))
		}
		return N(1 / r)
	}
	if b.num < 0 {
		return nil
	}
	if r := math.Pow(b.num, x); isInteger(r) && approxEq(math.Pow(r, 1/x), b.num) {
		return N(math.Round(r))
	}
	return nil
}

// funcNumeric folds calls on numeric arguments when the result is an
// integer, so sin(0) becomes 0 but sin(1) stays symbolic.
func funcNumeric(e *Expr, rc *RuleContext) *Expr {
	args := make([]float64, len(e.args))
	for i, a := range e.args {
		if a.kind != KindNumber {
			return nil
		}
		args[i] = a.num
	}
	def, ok := rc.lookupFunc(e.name)
	if !ok || def.Eval == nil || !def.CanCall(len(args)) {
		return nil
	}
	v, ok := def.Eval(args)
	if !ok || !isFinite(v) || !isInteger(v) {
		return nil
	}
	return N(v)
}

// sumFractions adds the rational constants of a sum into one fraction:
// 1/2 + 1/3 + x becomes 5/6 + x.
func sumFractions(e *Expr, _ *RuleContext) *Expr {
	var p, q int64 = 0, 1
	drop := make(map[int]bool)
	fractions := 0
	for i, t := range e.args {
		tp, tq, ok := asRational(t)
		if !ok {
			continue
		}
		if t.kind == KindDiv {
			fractions++
		}
		a, ok1 := mulExact(p, tq)
		b, ok2 := mulExact(tp, q)
		den, ok3 := mulExact(q, tq)
		if !ok1 || !ok2 || !ok3 {
			return nil
		}
		num, ok4 := addExact(a, b)
		if !ok4 {
			return nil
		}
		g := gcd64(num, den)
		if g == 0 {
			g = 1
		}
		p, q = num/g, den/g
		drop[i] = true
	}
	if fractions == 0 || len(drop) < 2 {
		return nil
	}
	return replaceTerms(e.args, drop, rational(p, q))
}

// productFractions multiplies the rational constants of a product:
// 2 * (1/3) * x becomes (2/3) * x, kept as a quotient 2*x/3.
func productFractions(e *Expr, _ *RuleContext) *Expr {
	var p, q int64 = 1, 1
	drop := make(map[int]bool)
	fractions := 0
	for i, f := range e.args {
		fp, fq, ok := asRational(f)
		if !ok {
			continue
		}
		if f.kind == KindDiv {
			fractions++
		}
		var ok1, ok2 bool
		p, ok1 = mulExact(p, fp)
		q, ok2 = mulExact(q, fq)
		if !ok1 || !ok2 {
			return nil
		}
		drop[i] = true
	}
	if fractions == 0 {
		return nil
	}
	r := rational(p, q)
	rest := replaceFactors(e.args, drop)
	if r.kind == KindNumber {
		return MulOf(r, rest)
	}
	return DivOf(MulOf(r.args[0], rest), r.args[1])
}
