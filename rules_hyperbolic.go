package gosymbolic

func hyperbolicRules() []Rule {
	return []Rule{
		{Name: "hyperbolic_parity", Category: CategoryHyperbolic, Priority: 100, Kinds: []ExprKind{KindFunc}, Apply: hyperbolicParity},
		{Name: "hyperbolic_identity", Category: CategoryHyperbolic, Priority: 90, Kinds: []ExprKind{KindSum}, Apply: hyperbolicIdentity},
		{
			Name:     "hyperbolic_from_exp",
			Category: CategoryHyperbolic,
			Priority: 85,
			Deps:     []string{"e_pow_to_exp"},
			Kinds:    []ExprKind{KindDiv},
			Apply:    hyperbolicFromExp,
		},
		{Name: "sinh_cosh_ratio", Category: CategoryHyperbolic, Priority: 80, Kinds: []ExprKind{KindDiv}, Apply: sinhCoshRatio},
	}
}

var (
	oddHyperbolic  = map[string]bool{"sinh": true, "tanh": true, "coth": true, "csch": true, "asinh": true, "atanh": true}
	evenHyperbolic = map[string]bool{"cosh": true, "sech": true}
)

func hyperbolicParity(e *Expr, _ *RuleContext) *Expr {
	return parity(e, oddHyperbolic, evenHyperbolic)
}

// hyperbolicIdentity: c*cosh(u)^2 - c*sinh(u)^2 = c.
func hyperbolicIdentity(e *Expr, _ *RuleContext) *Expr {
	return matchSquares(e, "cosh", "sinh", -1, func(c float64, _ *Expr) *Expr { return N(c) })
}

// expPair matches a two-term sum s*exp(u) + t*exp(-u) with unit
// coefficients s, t and returns u, s and t.
func expPair(e *Expr) (u *Expr, s, t float64, ok bool) {
	if e.kind != KindSum || len(e.args) != 2 {
		return nil, 0, 0, false
	}
	c1, r1 := splitCoeff(e.args[0])
	c2, r2 := splitCoeff(e.args[1])
	if r1 == nil || r2 == nil || (c1 != 1 && c1 != -1) || (c2 != 1 && c2 != -1) {
		return nil, 0, 0, false
	}
	if !r1.isFunc("exp", 1) || !r2.isFunc("exp", 1) {
		return nil, 0, 0, false
	}
	a, b := r1.args[0], r2.args[0]
	if pos, neg := negated(b); neg && pos.Equal(a) {
		return a, c1, c2, true
	}
	if pos, neg := negated(a); neg && pos.Equal(b) {
		return b, c2, c1, true
	}
	return nil, 0, 0, false
}

// hyperbolicFromExp recognizes
//
//	(exp(u) - exp(-u))/2 = sinh(u)
//	(exp(u) + exp(-u))/2 = cosh(u)
//	(exp(u) - exp(-u))/(exp(u) + exp(-u)) = tanh(u)
func hyperbolicFromExp(e *Expr, _ *RuleContext) *Expr {
	n, d := e.args[0], e.args[1]
	u, s, t, ok := expPair(n)
	if !ok {
		return nil
	}
	if d.isNum(2) {
		switch {
		case s == 1 && t == -1:
			return SinhOf(u)
		case s == -1 && t == 1:
			return NegOf(SinhOf(u))
		case s == 1 && t == 1:
			return CoshOf(u)
		case s == -1 && t == -1:
			return NegOf(CoshOf(u))
		}
		return nil
	}
	du, ds, dt, ok := expPair(d)
	if !ok || !du.Equal(u) || ds != 1 || dt != 1 {
		return nil
	}
	switch {
	case s == 1 && t == -1:
		return TanhOf(u)
	case s == -1 && t == 1:
		return NegOf(TanhOf(u))
	}
	return nil
}

// sinhCoshRatio: sinh(u)/cosh(u) = tanh(u) and cosh(u)/sinh(u) = coth(u).
func sinhCoshRatio(e *Expr, _ *RuleContext) *Expr {
	n, d := e.args[0], e.args[1]
	if len(n.args) != 1 || len(d.args) != 1 || !n.args[0].Equal(d.args[0]) {
		return nil
	}
	switch {
	case n.isFunc("sinh", 1) && d.isFunc("cosh", 1):
		return TanhOf(n.args[0])
	case n.isFunc("cosh", 1) && d.isFunc("sinh", 1):
		return FuncOf("coth", n.args[0])
	}
	return nil
}
