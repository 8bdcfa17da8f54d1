package gosymbolic

func exponentialRules() []Rule {
	return []Rule{
		{Name: "e_pow_to_exp", Category: CategoryExponential, Priority: 100, Kinds: []ExprKind{KindPow}, Apply: ePowToExp},
		{Name: "ln_e", Category: CategoryExponential, Priority: 95, Kinds: []ExprKind{KindFunc}, Apply: lnE},
		{Name: "exp_ln", Category: CategoryExponential, Priority: 90, AltersDomain: true, Kinds: []ExprKind{KindFunc}, Apply: expLn},
		{Name: "ln_exp", Category: CategoryExponential, Priority: 90, AltersDomain: true, Kinds: []ExprKind{KindFunc}, Apply: lnExp},
		{Name: "ln_power", Category: CategoryExponential, Priority: 85, AltersDomain: true, Kinds: []ExprKind{KindFunc}, Apply: lnPower},
		{Name: "exp_power", Category: CategoryExponential, Priority: 80, Kinds: []ExprKind{KindPow}, Apply: expPower},
		{
			Name:     "exp_product_merge",
			Category: CategoryExponential,
			Priority: 75,
			Deps:     []string{"combine_like_factors"},
			Kinds:    []ExprKind{KindProduct},
			Apply:    expProductMerge,
		},
	}
}

// ePowToExp: e^u = exp(u).
func ePowToExp(e *Expr, _ *RuleContext) *Expr {
	if isEuler(e.args[0]) {
		return ExpOf(e.args[1])
	}
	return nil
}

func lnE(e *Expr, _ *RuleContext) *Expr {
	if e.isFunc("ln", 1) && isEuler(e.args[0]) {
		return N(1)
	}
	return nil
}

// expLn: exp(ln(u)) = u, only for u > 0.
func expLn(e *Expr, _ *RuleContext) *Expr {
	if e.isFunc("exp", 1) && e.args[0].isFunc("ln", 1) {
		return e.args[0].args[0]
	}
	return nil
}

func lnExp(e *Expr, _ *RuleContext) *Expr {
	if e.isFunc("ln", 1) && e.args[0].isFunc("exp", 1) {
		return e.args[0].args[0]
	}
	return nil
}

// lnPower: ln(u^n) = n*ln(u), only for u > 0.
func lnPower(e *Expr, _ *RuleContext) *Expr {
	if !e.isFunc("ln", 1) || e.args[0].kind != KindPow {
		return nil
	}
	p := e.args[0]
	return MulOf(p.args[1], LnOf(p.args[0]))
}

// expPower: exp(a)^n = exp(n*a).
func expPower(e *Expr, _ *RuleContext) *Expr {
	if !e.args[0].isFunc("exp", 1) {
		return nil
	}
	return ExpOf(MulOf(e.args[1], e.args[0].args[0]))
}

// expProductMerge: exp(a)*exp(b) = exp(a + b).
func expProductMerge(e *Expr, _ *RuleContext) *Expr {
	var exps []*Expr
	drop := make(map[int]bool)
	for i, f := range e.args {
		if f.isFunc("exp", 1) {
			exps = append(exps, f.args[0])
			drop[i] = true
		}
	}
	if len(exps) < 2 {
		return nil
	}
	return replaceFactors(e.args, drop, ExpOf(AddOf(exps...)))
}
