package gosymbolic

// ============================================================
// Taylor series
// ============================================================

// TaylorSeries expands e about v = at through the given order:
// sum over k of f^(k)(at) / k! * (v - at)^k.
func TaylorSeries(e *Expr, v Symbol, at *Expr, order int, opts ...Option) (*Expr, error) {
	if order < 0 {
		return nil, errInvalidInput("series order must be non-negative, got %d", order)
	}
	s := NewSimplifier(opts...)
	shift := SubOf(SymOf(v), at)
	cur := e
	fact := 1.0
	var terms []*Expr
	for k := 0; k <= order; k++ {
		if k > 0 {
			fact *= float64(k)
			d, err := Derive(cur, v, opts...)
			if err != nil {
				return nil, err
			}
			if cur, err = s.Simplify(d); err != nil {
				return nil, err
			}
		}
		c, err := s.Simplify(DivOf(Substitute(cur, v, at), N(fact)))
		if err != nil {
			return nil, err
		}
		if c.IsZero() {
			continue
		}
		terms = append(terms, MulOf(c, powOrBase(shift, float64(k))))
	}
	return s.Simplify(AddOf(terms...))
}

// MaclaurinSeries is TaylorSeries about zero.
func MaclaurinSeries(e *Expr, v Symbol, order int, opts ...Option) (*Expr, error) {
	return TaylorSeries(e, v, N(0), order, opts...)
}
