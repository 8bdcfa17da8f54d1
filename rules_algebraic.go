package gosymbolic

func algebraicRules() []Rule {
	return []Rule{
		{Name: "pow_identity", Category: CategoryAlgebraic, Priority: 100, Kinds: []ExprKind{KindPow}, Apply: powIdentity},
		{Name: "div_identity", Category: CategoryAlgebraic, Priority: 100, Kinds: []ExprKind{KindDiv}, Apply: divIdentity},
		{Name: "div_self", Category: CategoryAlgebraic, Priority: 95, Kinds: []ExprKind{KindDiv}, Apply: divSelf},
		{Name: "div_div_flatten", Category: CategoryAlgebraic, Priority: 90, Kinds: []ExprKind{KindDiv}, Apply: divDivFlatten},
		{Name: "pow_negative_to_div", Category: CategoryAlgebraic, Priority: 88, Kinds: []ExprKind{KindPow}, Apply: powNegativeToDiv},
		{Name: "power_of_power", Category: CategoryAlgebraic, Priority: 85, Kinds: []ExprKind{KindPow}, Apply: powerOfPower},
		{
			Name:         "power_of_power_general",
			Category:     CategoryAlgebraic,
			Priority:     84,
			Deps:         []string{"power_of_power"},
			AltersDomain: true,
			Kinds:        []ExprKind{KindPow},
			Apply:        powerOfPowerGeneral,
		},
		{Name: "power_of_product", Category: CategoryAlgebraic, Priority: 82, Kinds: []ExprKind{KindPow}, Apply: powerOfProduct},
		{Name: "distribute_numeric", Category: CategoryAlgebraic, Priority: 80, Kinds: []ExprKind{KindProduct}, Apply: distributeNumeric},
		{Name: "combine_like_factors", Category: CategoryAlgebraic, Priority: 75, Kinds: []ExprKind{KindProduct}, Apply: combineLikeFactors},
		{
			Name:     "product_div_merge",
			Category: CategoryAlgebraic,
			Priority: 70,
			Deps:     []string{"combine_like_factors"},
			Kinds:    []ExprKind{KindProduct},
			Apply:    productDivMerge,
		},
		{Name: "combine_like_terms", Category: CategoryAlgebraic, Priority: 65, Kinds: []ExprKind{KindSum}, Apply: combineLikeTerms},
		{Name: "sum_common_denominator", Category: CategoryAlgebraic, Priority: 60, Kinds: []ExprKind{KindSum}, Apply: sumCommonDenominator},
		{
			Name:     "div_cancel_common",
			Category: CategoryAlgebraic,
			Priority: 55,
			Deps:     []string{"div_div_flatten"},
			Kinds:    []ExprKind{KindDiv},
			Apply:    divCancelCommon,
		},
		{Name: "poly_merge", Category: CategoryAlgebraic, Priority: 50, Kinds: []ExprKind{KindSum, KindProduct}, Apply: polyMerge},
	}
}

func powIdentity(e *Expr, _ *RuleContext) *Expr {
	b, x := e.args[0], e.args[1]
	switch {
	case x.isNum(1):
		return b
	case x.isNum(0):
		return N(1)
	case b.isNum(1):
		return N(1)
	case b.isNum(0) && x.kind == KindNumber && x.num > 0:
		return N(0)
	}
	return nil
}

func divIdentity(e *Expr, _ *RuleContext) *Expr {
	n, d := e.args[0], e.args[1]
	switch {
	case d.isNum(1):
		return n
	case d.isNum(-1):
		return NegOf(n)
	case n.isNum(0) && !d.isNum(0):
		return N(0)
	}
	return nil
}

func divSelf(e *Expr, _ *RuleContext) *Expr {
	if e.args[0].Equal(e.args[1]) && !e.args[1].isNum(0) {
		return N(1)
	}
	return nil
}

// divDivFlatten: (a/b)/c = a/(b*c) and a/(b/c) = (a*c)/b.
func divDivFlatten(e *Expr, _ *RuleContext) *Expr {
	n, d := e.args[0], e.args[1]
	switch {
	case n.kind == KindDiv && d.kind == KindDiv:
		return DivOf(MulOf(n.args[0], d.args[1]), MulOf(n.args[1], d.args[0]))
	case n.kind == KindDiv:
		return DivOf(n.args[0], MulOf(n.args[1], d))
	case d.kind == KindDiv:
		return DivOf(MulOf(n, d.args[1]), d.args[0])
	}
	return nil
}

// powNegativeToDiv: x^-n = 1/x^n for a numeric n > 0.
func powNegativeToDiv(e *Expr, _ *RuleContext) *Expr {
	b, x := e.args[0], e.args[1]
	if b.kind == KindNumber || x.kind != KindNumber || x.num >= 0 {
		return nil
	}
	return DivOf(N(1), powOrBase(b, -x.num))
}

func powOrBase(b *Expr, x float64) *Expr {
	switch x {
	case 0:
		return N(1)
	case 1:
		return b
	}
	return PowOf(b, N(x))
}

// powerOfPower: (x^a)^n = x^(a*n) for an integer n.
func powerOfPower(e *Expr, _ *RuleContext) *Expr {
	b, n := e.args[0], e.args[1]
	if b.kind != KindPow || n.kind != KindNumber || !isInteger(n.num) {
		return nil
	}
	return PowOf(b.args[0], MulOf(b.args[1], n))
}

// powerOfPowerGeneral: (x^a)^b = x^(a*b). Fails for x < 0, e.g. (x^2)^(1/2).
func powerOfPowerGeneral(e *Expr, _ *RuleContext) *Expr {
	b, x := e.args[0], e.args[1]
	if b.kind != KindPow {
		return nil
	}
	return PowOf(b.args[0], MulOf(b.args[1], x))
}

// powerOfProduct: (a*b)^n = a^n * b^n for an integer n.
func powerOfProduct(e *Expr, _ *RuleContext) *Expr {
	b, n := e.args[0], e.args[1]
	if b.kind != KindProduct || n.kind != KindNumber || !isInteger(n.num) {
		return nil
	}
	out := make([]*Expr, len(b.args))
	for i, f := range b.args {
		out[i] = PowOf(f, n)
	}
	return MulOf(out...)
}

// distributeNumeric: c*(a + b) = c*a + c*b.
func distributeNumeric(e *Expr, _ *RuleContext) *Expr {
	if len(e.args) != 2 || e.args[0].kind != KindNumber || e.args[1].kind != KindSum {
		return nil
	}
	c := e.args[0]
	terms := e.args[1].args
	out := make([]*Expr, len(terms))
	for i, t := range terms {
		out[i] = MulOf(c, t)
	}
	return AddOf(out...)
}

type factorGroup struct {
	base *Expr
	exps []*Expr
}

// combineLikeFactors merges factors over the same base by adding
// exponents: x * x^2 = x^3.
func combineLikeFactors(e *Expr, _ *RuleContext) *Expr {
	index := newExprMap[int]()
	var groups []*factorGroup
	var numbers []*Expr
	merged := false
	for _, f := range e.args {
		if f.kind == KindNumber {
			numbers = append(numbers, f)
			continue
		}
		b, x := splitPow(f)
		if i, ok := index.get(b); ok {
			groups[i].exps = append(groups[i].exps, x)
			merged = true
			continue
		}
		index.put(b, len(groups))
		groups = append(groups, &factorGroup{base: b, exps: []*Expr{x}})
	}
	if !merged {
		return nil
	}
	out := numbers
	for _, g := range groups {
		x := AddOf(g.exps...)
		switch {
		case x.isNum(0):
		case x.isNum(1):
			out = append(out, g.base)
		default:
			out = append(out, PowOf(g.base, x))
		}
	}
	return MulOf(out...)
}

// productDivMerge: a * (b/c) = (a*b)/c.
func productDivMerge(e *Expr, _ *RuleContext) *Expr {
	var nums, dens []*Expr
	for _, f := range e.args {
		if f.kind == KindDiv {
			nums = append(nums, f.args[0])
			dens = append(dens, f.args[1])
			continue
		}
		nums = append(nums, f)
	}
	if len(dens) == 0 {
		return nil
	}
	return DivOf(MulOf(nums...), MulOf(dens...))
}

type termGroup struct {
	rest  *Expr
	coeff float64
}

// combineLikeTerms adds the coefficients of terms that differ only by
// coefficient: x + 2x = 3x. Grouping goes through a hash index rather
// than a scan of adjacent runs. Compare keys 3*x^2 on the base x^2 but
// x^3 on the base x, so a Sum sorts as x^2, x^3, 3*x^2 and like terms
// are not always neighbours. The index keeps the pass linear anyway.
func combineLikeTerms(e *Expr, _ *RuleContext) *Expr {
	index := newExprMap[int]()
	var groups []*termGroup
	var numbers []*Expr
	merged := false
	for _, t := range e.args {
		c, rest := splitCoeff(t)
		if rest == nil {
			numbers = append(numbers, t)
			continue
		}
		if i, ok := index.get(rest); ok {
			groups[i].coeff += c
			merged = true
			continue
		}
		index.put(rest, len(groups))
		groups = append(groups, &termGroup{rest: rest, coeff: c})
	}
	if !merged {
		return nil
	}
	out := numbers
	for _, g := range groups {
		if g.coeff == 0 {
			continue
		}
		out = append(out, withCoeff(g.coeff, g.rest))
	}
	return AddOf(out...)
}

// sumCommonDenominator: a/c + b/c = (a + b)/c.
func sumCommonDenominator(e *Expr, _ *RuleContext) *Expr {
	index := newExprMap[int]()
	type denGroup struct {
		den  *Expr
		nums []*Expr
	}
	var groups []*denGroup
	var others []*Expr
	merged := false
	for _, t := range e.args {
		if t.kind != KindDiv || t.args[1].kind == KindNumber {
			others = append(others, t)
			continue
		}
		if i, ok := index.get(t.args[1]); ok {
			groups[i].nums = append(groups[i].nums, t.args[0])
			merged = true
			continue
		}
		index.put(t.args[1], len(groups))
		groups = append(groups, &denGroup{den: t.args[1], nums: []*Expr{t.args[0]}})
	}
	if !merged {
		return nil
	}
	out := others
	for _, g := range groups {
		if len(g.nums) == 1 {
			out = append(out, DivOf(g.nums[0], g.den))
			continue
		}
		out = append(out, DivOf(AddOf(g.nums...), g.den))
	}
	return AddOf(out...)
}

// divCancelCommon cancels shared factors and reduces integer
// coefficients: 6*x^3 / (4*x) = 3*x^2 / 2.
func divCancelCommon(e *Expr, _ *RuleContext) *Expr {
	nc, nrest := splitCoeff(e.args[0])
	dc, drest := splitCoeff(e.args[1])
	var nf, df []*Expr
	if nrest != nil {
		nf = factorsOf(nrest)
	}
	if drest != nil {
		df = factorsOf(drest)
	}
	changed := false

	if isInteger(nc) && isInteger(dc) && dc != 0 {
		if g := gcd64(int64(nc), int64(dc)); g > 1 {
			nc, dc = nc/float64(g), dc/float64(g)
			changed = true
		}
	}
	if dc < 0 {
		nc, dc = -nc, -dc
		changed = true
	}

	newNum := make([]*Expr, 0, len(nf))
	usedDen := make([]bool, len(df))
	var extraDen []*Expr
	for _, f := range nf {
		b, x := splitPow(f)
		matched := false
		for j, g := range df {
			if usedDen[j] {
				continue
			}
			b2, x2 := splitPow(g)
			if !b.Equal(b2) {
				continue
			}
			xv, ok1 := numericValue(x)
			yv, ok2 := numericValue(x2)
			switch {
			case ok1 && ok2:
				if d := xv - yv; d > 0 {
					newNum = append(newNum, powOrBase(b, d))
				} else if d < 0 {
					extraDen = append(extraDen, powOrBase(b, -d))
				}
			case x.Equal(x2):
			default:
				continue
			}
			usedDen[j] = true
			matched = true
			break
		}
		if matched {
			changed = true
			continue
		}
		newNum = append(newNum, f)
	}
	if !changed {
		return nil
	}
	newDen := extraDen
	for j, g := range df {
		if !usedDen[j] {
			newDen = append(newDen, g)
		}
	}
	num := MulOf(append([]*Expr{N(nc)}, newNum...)...)
	den := MulOf(append([]*Expr{N(dc)}, newDen...)...)
	if den.isNum(1) {
		return num
	}
	return DivOf(num, den)
}

// polyMerge folds every operand that reads as a polynomial in the base
// of a Poly operand into that Poly: other Polys, numbers, monomials and
// same-base sums. Sums add term lists; products multiply them.
func polyMerge(e *Expr, _ *RuleContext) *Expr {
	type group struct {
		base  *Expr
		terms []PolyTerm
		slot  int
	}
	var groups []*group
	for i, a := range e.args {
		if a.kind != KindPoly {
			continue
		}
		found := false
		for _, g := range groups {
			if g.base.Equal(a.args[0]) {
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, &group{base: a.args[0], slot: i})
		}
	}
	if len(groups) == 0 {
		return nil
	}
	absorbed := make([]bool, len(e.args))
	merged := 0
	for i, a := range e.args {
		for _, g := range groups {
			t, ok := polyTermsOf(a, g.base)
			if !ok {
				continue
			}
			switch {
			case g.terms == nil:
				g.terms = append([]PolyTerm(nil), t...)
			case e.kind == KindProduct:
				g.terms = mulTerms(g.terms, t)
			default:
				g.terms = append(g.terms, t...)
			}
			absorbed[i] = true
			merged++
			break
		}
	}
	if merged == len(groups) {
		return nil
	}
	out := make([]*Expr, 0, len(e.args))
	for i, a := range e.args {
		for _, g := range groups {
			if g.slot == i {
				out = append(out, PolyOf(g.base, g.terms))
			}
		}
		if !absorbed[i] {
			out = append(out, a)
		}
	}
	return rebuild(e, out)
}
