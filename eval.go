package gosymbolic

import "math"

// ============================================================
// Tree evaluation
// ============================================================

// Eval evaluates e with variables bound by name in env. The named
// constants pi and e resolve when not bound. Only an unbound variable,
// an unknown function or an unresolved derivative is an error; domain
// problems produce NaN or Inf as IEEE arithmetic does.
func (e *Expr) Eval(env map[string]float64, opts ...Option) (float64, error) {
	o := buildOptions(opts)
	ev := treeEval{env: env, opts: &o, memo: make(map[*Expr]float64)}
	return ev.eval(e)
}

type treeEval struct {
	env  map[string]float64
	opts *Options
	memo map[*Expr]float64
}

func (ev *treeEval) eval(e *Expr) (float64, error) {
	if v, ok := ev.memo[e]; ok {
		return v, nil
	}
	v, err := ev.evalNode(e)
	if err != nil {
		return 0, err
	}
	ev.memo[e] = v
	return v, nil
}

func (ev *treeEval) evalNode(e *Expr) (float64, error) {
	switch e.kind {
	case KindNumber:
		return e.num, nil
	case KindSymbol:
		if v, ok := ev.env[e.sym.name]; ok && e.sym.name != "" {
			return v, nil
		}
		if v, ok := constantValue(e.sym); ok {
			return v, nil
		}
		return 0, &Error{Code: CodeUnboundVariable, Token: e.sym.String()}
	case KindSum:
		acc := 0.0
		for _, c := range e.args {
			v, err := ev.eval(c)
			if err != nil {
				return 0, err
			}
			acc += v
		}
		return acc, nil
	case KindProduct:
		acc := 1.0
		for _, c := range e.args {
			v, err := ev.eval(c)
			if err != nil {
				return 0, err
			}
			acc *= v
		}
		return acc, nil
	case KindDiv, KindPow:
		a, err := ev.eval(e.args[0])
		if err != nil {
			return 0, err
		}
		b, err := ev.eval(e.args[1])
		if err != nil {
			return 0, err
		}
		if e.kind == KindDiv {
			return a / b, nil
		}
		return math.Pow(a, b), nil
	case KindFunc:
		def, ok := ev.opts.lookupFunc(e.name)
		if !ok {
			return 0, errUnsupported("unknown function '%s'", e.name)
		}
		if !def.CanCall(len(e.args)) {
			return 0, &Error{Code: CodeInvalidFunctionCall, Token: e.name, Min: def.MinArgs, Count: len(e.args)}
		}
		args := make([]float64, len(e.args))
		for i, c := range e.args {
			v, err := ev.eval(c)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		if def.Eval == nil {
			return 0, errUnsupported("function '%s' has no numeric evaluator", e.name)
		}
		v, ok := def.Eval(args)
		if !ok {
			return math.NaN(), nil
		}
		return v, nil
	case KindPoly:
		x, err := ev.eval(e.args[0])
		if err != nil {
			return 0, err
		}
		return hornerEval(e.terms, x), nil
	case KindDerivative:
		return 0, errUnsupported("cannot evaluate unresolved derivative of %s", e.args[0].String())
	}
	return 0, errUnsupported("cannot evaluate %s node", e.kind)
}

// PartialEval substitutes the bound variables of env and folds every
// subtree that became fully numeric. Folds producing NaN or Inf are
// left symbolic.
func PartialEval(e *Expr, env map[string]float64, opts ...Option) *Expr {
	o := buildOptions(opts)
	values := make(map[Symbol]*Expr, len(env))
	for name, v := range env {
		if s, ok := LookupSymbol(name); ok {
			values[s] = N(v)
		}
	}
	return foldConstants(SubstituteAll(e, values), &o)
}

func foldConstants(e *Expr, o *Options) *Expr {
	return Map(e, func(n *Expr) *Expr {
		switch n.kind {
		case KindFunc, KindPow, KindDiv:
		default:
			return n
		}
		for _, c := range n.args {
			if c.kind != KindNumber {
				return n
			}
		}
		ev := treeEval{opts: o, memo: make(map[*Expr]float64)}
		v, err := ev.eval(n)
		if err != nil || !isFinite(v) {
			return n
		}
		return N(v)
	})
}
