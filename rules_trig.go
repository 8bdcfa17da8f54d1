package gosymbolic

func trigRules() []Rule {
	return []Rule{
		{Name: "trig_parity", Category: CategoryTrigonometric, Priority: 100, Kinds: []ExprKind{KindFunc}, Apply: trigParity},
		{Name: "tan_atan", Category: CategoryTrigonometric, Priority: 95, Kinds: []ExprKind{KindFunc}, Apply: tanAtan},
		{
			Name:         "trig_inverse_compose",
			Category:     CategoryTrigonometric,
			Priority:     95,
			AltersDomain: true,
			Kinds:        []ExprKind{KindFunc},
			Apply:        trigInverseCompose,
		},
		{Name: "pythagorean", Category: CategoryTrigonometric, Priority: 90, Kinds: []ExprKind{KindSum}, Apply: pythagorean},
		{
			Name:     "pythagorean_complement",
			Category: CategoryTrigonometric,
			Priority: 85,
			Deps:     []string{"pythagorean"},
			Kinds:    []ExprKind{KindSum},
			Apply:    pythagoreanComplement,
		},
		{
			Name:     "double_angle_cos",
			Category: CategoryTrigonometric,
			Priority: 80,
			Deps:     []string{"pythagorean"},
			Kinds:    []ExprKind{KindSum},
			Apply:    doubleAngleCos,
		},
		{Name: "double_angle_sin", Category: CategoryTrigonometric, Priority: 80, Kinds: []ExprKind{KindProduct}, Apply: doubleAngleSin},
		{
			Name:     "tan_ratio",
			Category: CategoryTrigonometric,
			Priority: 70,
			Deps:     []string{"trig_parity"},
			Kinds:    []ExprKind{KindDiv},
			Apply:    tanRatio,
		},
	}
}

var (
	oddFuncs  = map[string]bool{"sin": true, "tan": true, "cot": true, "csc": true, "asin": true, "atan": true}
	evenFuncs = map[string]bool{"cos": true, "sec": true}
)

// parity pulls a negative sign out of an odd function and drops it
// from an even one.
func parity(e *Expr, odd, even map[string]bool) *Expr {
	if len(e.args) != 1 {
		return nil
	}
	pos, neg := negated(e.args[0])
	if !neg {
		return nil
	}
	switch {
	case odd[e.name]:
		return NegOf(FuncOf(e.name, pos))
	case even[e.name]:
		return FuncOf(e.name, pos)
	}
	return nil
}

func trigParity(e *Expr, _ *RuleContext) *Expr { return parity(e, oddFuncs, evenFuncs) }

func tanAtan(e *Expr, _ *RuleContext) *Expr {
	if e.isFunc("tan", 1) && e.args[0].isFunc("atan", 1) {
		return e.args[0].args[0]
	}
	return nil
}

// trigInverseCompose: sin(asin(x)) = x and cos(acos(x)) = x, both only
// for |x| <= 1.
func trigInverseCompose(e *Expr, _ *RuleContext) *Expr {
	if len(e.args) != 1 {
		return nil
	}
	inner := e.args[0]
	switch {
	case e.name == "sin" && inner.isFunc("asin", 1), e.name == "cos" && inner.isFunc("acos", 1):
		return inner.args[0]
	}
	return nil
}

// squareTerm describes a term c * f(u)^2.
type squareTerm struct {
	index int
	coeff float64
	arg   *Expr
}

// squareTerms indexes the c*f(u)^2 terms of a sum by u, for f = name.
func squareTerms(terms []*Expr, name string) *exprMap[squareTerm] {
	out := newExprMap[squareTerm]()
	for i, t := range terms {
		c, rest := splitCoeff(t)
		if rest == nil {
			continue
		}
		u, ok := squareOf(rest, name)
		if !ok {
			continue
		}
		if _, dup := out.get(u); !dup {
			out.put(u, squareTerm{index: i, coeff: c, arg: u})
		}
	}
	return out
}

// matchSquares pairs c*f(u)^2 with k*c*g(u)^2 and hands the pair to
// build, which returns the replacement term.
func matchSquares(e *Expr, f, g string, k float64, build func(c float64, u *Expr) *Expr) *Expr {
	fs := squareTerms(e.args, f)
	if fs.len() == 0 {
		return nil
	}
	gs := squareTerms(e.args, g)
	for i, t := range e.args {
		c, rest := splitCoeff(t)
		if rest == nil {
			continue
		}
		u, ok := squareOf(rest, f)
		if !ok {
			continue
		}
		if ft, _ := fs.get(u); ft.index != i {
			continue
		}
		gt, ok := gs.get(u)
		if !ok || gt.coeff != k*c {
			continue
		}
		return replaceTerms(e.args, map[int]bool{i: true, gt.index: true}, build(c, u))
	}
	return nil
}

// pythagorean: c*sin(u)^2 + c*cos(u)^2 = c.
func pythagorean(e *Expr, _ *RuleContext) *Expr {
	return matchSquares(e, "sin", "cos", 1, func(c float64, _ *Expr) *Expr { return N(c) })
}

// pythagoreanComplement: c - c*sin(u)^2 = c*cos(u)^2, and likewise for cos.
func pythagoreanComplement(e *Expr, _ *RuleContext) *Expr {
	if e.args[0].kind != KindNumber {
		return nil
	}
	c := e.args[0].num
	for _, pair := range [][2]string{{"sin", "cos"}, {"cos", "sin"}} {
		sq := squareTerms(e.args, pair[0])
		for i, t := range e.args {
			tc, rest := splitCoeff(t)
			if rest == nil || tc != -c {
				continue
			}
			u, ok := squareOf(rest, pair[0])
			if !ok {
				continue
			}
			if st, _ := sq.get(u); st.index != i {
				continue
			}
			repl := MulOf(N(c), PowOf(FuncOf(pair[1], u), N(2)))
			return replaceTerms(e.args, map[int]bool{0: true, i: true}, repl)
		}
	}
	return nil
}

// doubleAngleCos: c*cos(u)^2 - c*sin(u)^2 = c*cos(2u).
func doubleAngleCos(e *Expr, _ *RuleContext) *Expr {
	return matchSquares(e, "cos", "sin", -1, func(c float64, u *Expr) *Expr {
		return MulOf(N(c), CosOf(MulOf(N(2), u)))
	})
}

// doubleAngleSin: 2k*sin(u)*cos(u) = k*sin(2u).
func doubleAngleSin(e *Expr, _ *RuleContext) *Expr {
	c, _ := splitCoeff(e)
	if !isInteger(c) || int64(c)%2 != 0 || c == 0 {
		return nil
	}
	for i, f := range e.args {
		if !f.isFunc("sin", 1) {
			continue
		}
		for j, g := range e.args {
			if !g.isFunc("cos", 1) || !g.args[0].Equal(f.args[0]) {
				continue
			}
			drop := map[int]bool{0: true, i: true, j: true}
			return replaceFactors(e.args, drop, N(c/2), SinOf(MulOf(N(2), f.args[0])))
		}
	}
	return nil
}

// tanRatio: sin(u)/cos(u) = tan(u) and cos(u)/sin(u) = cot(u).
func tanRatio(e *Expr, _ *RuleContext) *Expr {
	n, d := e.args[0], e.args[1]
	if len(n.args) != 1 || len(d.args) != 1 || !n.args[0].Equal(d.args[0]) {
		return nil
	}
	switch {
	case n.isFunc("sin", 1) && d.isFunc("cos", 1):
		return TanOf(n.args[0])
	case n.isFunc("cos", 1) && d.isFunc("sin", 1):
		return FuncOf("cot", n.args[0])
	}
	return nil
}
