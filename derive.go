package gosymbolic

// ============================================================
// Differentiation
// ============================================================

// Derive returns the derivative of e with respect to v. The result is
// not simplified; pass it through a Simplifier for a readable form.
func Derive(e *Expr, v Symbol, opts ...Option) (*Expr, error) {
	o := buildOptions(opts)
	if o.isFixed(v) {
		return nil, &Error{Code: CodeFixedAndDiff, Token: v.String()}
	}
	if err := o.checkNames(); err != nil {
		return nil, err
	}
	if err := checkLimits(e, &o); err != nil {
		return nil, err
	}
	d := deriver{v: v, opts: &o, memo: newExprMap[*Expr]()}
	out, err := d.derive(e, 1)
	if err != nil {
		return nil, err
	}
	if NodeCount(out) > o.MaxNodes {
		return nil, ErrMaxNodes
	}
	return out, nil
}

// DeriveN applies Derive n times.
func DeriveN(e *Expr, v Symbol, n int, opts ...Option) (*Expr, error) {
	out := e
	for i := 0; i < n; i++ {
		var err error
		if out, err = Derive(out, v, opts...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type deriver struct {
	v    Symbol
	opts *Options
	memo *exprMap[*Expr]
}

func (d *deriver) derive(e *Expr, depth int) (*Expr, error) {
	if depth > d.opts.MaxDepth {
		return nil, ErrMaxDepth
	}
	if r, ok := d.memo.get(e); ok {
		return r, nil
	}
	r, err := d.deriveNode(e, depth)
	if err != nil {
		return nil, err
	}
	d.memo.put(e, r)
	return r, nil
}

func (d *deriver) all(items []*Expr, depth int) ([]*Expr, error) {
	out := make([]*Expr, len(items))
	for i, it := range items {
		r, err := d.derive(it, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func (d *deriver) deriveNode(e *Expr, depth int) (*Expr, error) {
	switch e.kind {
	case KindNumber:
		return N(0), nil
	case KindSymbol:
		if e.sym.id == d.v.id {
			return N(1), nil
		}
		return N(0), nil
	case KindSum:
		ds, err := d.all(e.args, depth)
		if err != nil {
			return nil, err
		}
		return AddOf(ds...), nil
	case KindProduct:
		return d.product(e.args, depth)
	case KindDiv:
		return d.quotient(e.args[0], e.args[1], depth)
	case KindPow:
		return d.power(e.args[0], e.args[1], depth)
	case KindFunc:
		return d.call(e, depth)
	case KindDerivative:
		inner := e.args[0]
		if e.sym.id == d.v.id {
			return DerivOf(inner, d.v, e.order+1), nil
		}
		if !Contains(inner, d.v) {
			return N(0), nil
		}
		return DerivOf(e, d.v, 1), nil
	case KindPoly:
		db, err := d.derive(e.args[0], depth+1)
		if err != nil {
			return nil, err
		}
		if db.IsZero() {
			return N(0), nil
		}
		return MulOf(PolyOf(e.args[0], polyDerivTerms(e.terms)), db), nil
	}
	return nil, errUnsupported("cannot differentiate %s node", e.kind)
}

// product folds the product rule pairwise: (fg)' = f'g + fg'.
func (d *deriver) product(factors []*Expr, depth int) (*Expr, error) {
	acc := factors[0]
	dacc, err := d.derive(acc, depth+1)
	if err != nil {
		return nil, err
	}
	for _, g := range factors[1:] {
		dg, err := d.derive(g, depth+1)
		if err != nil {
			return nil, err
		}
		switch {
		case dacc.IsZero() && dg.IsZero():
		case dg.IsZero():
			dacc = MulOf(dacc, g)
		case dacc.IsZero():
			dacc = MulOf(acc, dg)
		default:
			dacc = AddOf(MulOf(dacc, g), MulOf(acc, dg))
		}
		acc = MulOf(acc, g)
	}
	return dacc, nil
}

func (d *deriver) quotient(u, w *Expr, depth int) (*Expr, error) {
	du, err := d.derive(u, depth+1)
	if err != nil {
		return nil, err
	}
	dw, err := d.derive(w, depth+1)
	if err != nil {
		return nil, err
	}
	switch {
	case dw.IsZero():
		if du.IsZero() {
			return N(0), nil
		}
		return DivOf(du, w), nil
	case du.IsZero():
		return DivOf(NegOf(MulOf(u, dw)), PowOf(w, N(2))), nil
	}
	return DivOf(SubOf(MulOf(du, w), MulOf(u, dw)), PowOf(w, N(2))), nil
}

func (d *deriver) power(b, x *Expr, depth int) (*Expr, error) {
	db, err := d.derive(b, depth+1)
	if err != nil {
		return nil, err
	}
	dx, err := d.derive(x, depth+1)
	if err != nil {
		return nil, err
	}
	switch {
	case db.IsZero() && dx.IsZero():
		return N(0), nil
	case dx.IsZero():
		// x * b^(x-1) * b'
		var lowered *Expr
		if x.kind == KindNumber {
			switch x.num - 1 {
			case 0:
				lowered = N(1)
			case 1:
				lowered = b
			default:
				lowered = PowOf(b, N(x.num-1))
			}
		} else {
			lowered = PowOf(b, SubOf(x, N(1)))
		}
		return MulOf(x, lowered, db), nil
	case db.IsZero():
		// b^x * ln(b) * x'
		if isEuler(b) {
			return MulOf(PowOf(b, x), dx), nil
		}
		return MulOf(PowOf(b, x), LnOf(b), dx), nil
	}
	// b^x * (x' ln b + x b'/b)
	return MulOf(PowOf(b, x), AddOf(MulOf(dx, LnOf(b)), DivOf(MulOf(x, db), b))), nil
}

func isEuler(e *Expr) bool { return e.kind == KindSymbol && e.sym.name == "e" }

func (d *deriver) call(e *Expr, depth int) (*Expr, error) {
	def, ok := d.opts.lookupFunc(e.name)
	if !ok {
		return nil, errUnsupported("no derivative known for function '%s'", e.name)
	}
	if !def.CanCall(len(e.args)) {
		return nil, &Error{Code: CodeInvalidFunctionCall, Token: e.name, Min: def.MinArgs, Count: len(e.args)}
	}
	dargs, err := d.all(e.args, depth)
	if err != nil {
		return nil, err
	}
	constant := true
	for _, da := range dargs {
		if !da.IsZero() {
			constant = false
			break
		}
	}
	switch {
	case constant:
		return N(0), nil
	case len(def.Partials) == len(e.args):
		terms := make([]*Expr, 0, len(e.args))
		for i, da := range dargs {
			if da.IsZero() {
				continue
			}
			terms = append(terms, MulOf(def.Partials[i](e.args), da))
		}
		return AddOf(terms...), nil
	case def.Derivative != nil:
		return def.Derivative(e.args, dargs), nil
	}
	return DerivOf(e, d.v, 1), nil
}
