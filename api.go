package gosymbolic

// ============================================================
// Formula-level helpers
// ============================================================

// Simplify parses formula, simplifies it and renders the result.
func Simplify(formula string, opts ...Option) (string, error) {
	e, err := Parse(formula, opts...)
	if err != nil {
		return "", err
	}
	out, err := SimplifyExpr(e, opts...)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// Diff parses formula, differentiates it with respect to variable and
// returns the simplified derivative.
func Diff(formula, variable string, opts ...Option) (string, error) {
	d, err := DiffExpr(formula, variable, opts...)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

func DiffExpr(formula, variable string, opts ...Option) (*Expr, error) {
	e, err := Parse(formula, opts...)
	if err != nil {
		return nil, err
	}
	d, err := Derive(e, Intern(variable), opts...)
	if err != nil {
		return nil, err
	}
	return SimplifyExpr(d, opts...)
}

// Evaluate parses formula and evaluates it with env.
func Evaluate(formula string, env map[string]float64, opts ...Option) (float64, error) {
	e, err := Parse(formula, opts...)
	if err != nil {
		return 0, err
	}
	return e.Eval(env, opts...)
}
