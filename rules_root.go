package gosymbolic

import "math"

func rootRules() []Rule {
	return []Rule{
		{Name: "pow_to_root", Category: CategoryRoot, Priority: 100, Kinds: []ExprKind{KindPow}, Apply: powToRoot},
		{
			Name:         "sqrt_of_square",
			Category:     CategoryRoot,
			Priority:     90,
			Deps:         []string{"pow_to_root"},
			AltersDomain: true,
			Kinds:        []ExprKind{KindFunc},
			Apply:        sqrtOfSquare,
		},
		{Name: "cbrt_of_cube", Category: CategoryRoot, Priority: 90, Kinds: []ExprKind{KindFunc}, Apply: cbrtOfCube},
		{
			Name:         "sqrt_power",
			Category:     CategoryRoot,
			Priority:     85,
			AltersDomain: true,
			Kinds:        []ExprKind{KindPow},
			Apply:        sqrtPower,
		},
		{Name: "cbrt_power", Category: CategoryRoot, Priority: 85, Kinds: []ExprKind{KindPow}, Apply: cbrtPower},
	}
}

// powToRoot: u^(1/2) = sqrt(u) and u^(1/3) = cbrt(u).
func powToRoot(e *Expr, _ *RuleContext) *Expr {
	x, ok := numericValue(e.args[1])
	if !ok {
		return nil
	}
	switch {
	case approxEq(x, 0.5):
		return SqrtOf(e.args[0])
	case approxEq(x, 1.0/3):
		return CbrtOf(e.args[0])
	}
	return nil
}

// evenPower matches u^(2k) and returns u^k.
func evenPower(e *Expr, k float64) (*Expr, bool) {
	if e.kind != KindPow || e.args[1].kind != KindNumber {
		return nil, false
	}
	n := e.args[1].num
	if !isInteger(n) || n == 0 || math.Mod(n, k) != 0 {
		return nil, false
	}
	return powOrBase(e.args[0], n/k), true
}

// sqrtOfSquare: sqrt(u^(2k)) = u^k. True only for u >= 0; |u| in general.
func sqrtOfSquare(e *Expr, _ *RuleContext) *Expr {
	if !e.isFunc("sqrt", 1) {
		return nil
	}
	if r, ok := evenPower(e.args[0], 2); ok {
		return r
	}
	return nil
}

// cbrtOfCube: cbrt(u^(3k)) = u^k, valid for all real u.
func cbrtOfCube(e *Expr, _ *RuleContext) *Expr {
	if !e.isFunc("cbrt", 1) {
		return nil
	}
	if r, ok := evenPower(e.args[0], 3); ok {
		return r
	}
	return nil
}

// sqrtPower: sqrt(u)^(2k) = u^k. The left side is undefined for u < 0.
func sqrtPower(e *Expr, _ *RuleContext) *Expr {
	if !e.args[0].isFunc("sqrt", 1) {
		return nil
	}
	if r, ok := evenPower(PowOf(e.args[0].args[0], e.args[1]), 2); ok {
		return r
	}
	return nil
}

func cbrtPower(e *Expr, _ *RuleContext) *Expr {
	if !e.args[0].isFunc("cbrt", 1) {
		return nil
	}
	if r, ok := evenPower(PowOf(e.args[0].args[0], e.args[1]), 3); ok {
		return r
	}
	return nil
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule {
	var rules []Rule
	rules = append(rules, numericRules()...)
	rules = append(rules, algebraicRules()...)
	rules = append(rules, trigRules()...)
	rules = append(rules, hyperbolicRules()...)
	rules = append(rules, exponentialRules()...)
	rules = append(rules, rootRules()...)
	return rules
}
