package gosymbolic

// ============================================================
// Uncertainty propagation
// ============================================================

// CovEntry is one cell of a covariance matrix. The zero value is 0.
type CovEntry struct {
	e *Expr
}

func CovNum(v float64) CovEntry { return CovEntry{N(v)} }
func CovExpr(e *Expr) CovEntry  { return CovEntry{e} }

func (c CovEntry) isZero() bool { return c.e == nil || c.e.IsZero() }

func (c CovEntry) Expr() *Expr {
	if c.e == nil {
		return N(0)
	}
	return c.e
}

// CovarianceMatrix is a symmetric n x n matrix of covariances, indexed
// in the order of the variables it is used with.
type CovarianceMatrix struct {
	n     int
	cells []CovEntry
}

// NewCovarianceMatrix checks that rows form a square matrix whose cells
// mirror across the diagonal.
func NewCovarianceMatrix(rows [][]CovEntry) (*CovarianceMatrix, error) {
	n := len(rows)
	c := &CovarianceMatrix{n: n, cells: make([]CovEntry, 0, n*n)}
	for i, r := range rows {
		if len(r) != n {
			return nil, errInvalidInput("covariance row %d has %d entries, want %d", i, len(r), n)
		}
		c.cells = append(c.cells, r...)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !c.At(i, j).Equal(c.At(j, i)) {
				return nil, errInvalidInput("covariance matrix is not symmetric at [%d,%d]", i, j)
			}
		}
	}
	return c, nil
}

// DiagonalCovariance builds a matrix of independent variables.
func DiagonalCovariance(variances ...CovEntry) *CovarianceMatrix {
	n := len(variances)
	c := &CovarianceMatrix{n: n, cells: make([]CovEntry, n*n)}
	for i, v := range variances {
		c.cells[i*n+i] = v
	}
	return c
}

func (c *CovarianceMatrix) Dim() int { return c.n }

func (c *CovarianceMatrix) At(i, j int) *Expr { return c.cells[i*c.n+j].Expr() }

// symbolicVariances stands in sigma_v^2 for every variable.
func symbolicVariances(vars []Symbol) *CovarianceMatrix {
	vs := make([]CovEntry, len(vars))
	for i, v := range vars {
		vs[i] = CovExpr(PowOf(S("sigma_"+v.Name()), N(2)))
	}
	return DiagonalCovariance(vs...)
}

// UncertaintyPropagation returns the first-order standard deviation of
// e, sqrt(sum_ij df/dxi * df/dxj * Cov(xi, xj)). A nil cov treats the
// variables as independent with variances sigma_<name>^2.
func UncertaintyPropagation(e *Expr, vars []Symbol, cov *CovarianceMatrix, opts ...Option) (*Expr, error) {
	s := NewSimplifier(opts...)
	return propagate(s, e, vars, cov, opts)
}

// RelativeUncertainty returns sigma_f / |f|.
func RelativeUncertainty(e *Expr, vars []Symbol, cov *CovarianceMatrix, opts ...Option) (*Expr, error) {
	s := NewSimplifier(opts...)
	sigma, err := propagate(s, e, vars, cov, opts)
	if err != nil {
		return nil, err
	}
	return s.Simplify(DivOf(sigma, AbsOf(e)))
}

func propagate(s *Simplifier, e *Expr, vars []Symbol, cov *CovarianceMatrix, opts []Option) (*Expr, error) {
	if cov == nil {
		cov = symbolicVariances(vars)
	}
	if cov.n != len(vars) {
		return nil, errInvalidInput("covariance matrix is %dx%d for %d variables", cov.n, cov.n, len(vars))
	}
	grad := make([]*Expr, len(vars))
	for i, v := range vars {
		d, err := partial(s, e, opts, v)
		if err != nil {
			return nil, err
		}
		grad[i] = d
	}
	var terms []*Expr
	for i := range vars {
		if grad[i].IsZero() {
			continue
		}
		for j := i; j < len(vars); j++ {
			if grad[j].IsZero() || cov.cells[i*cov.n+j].isZero() {
				continue
			}
			if i == j {
				terms = append(terms, MulOf(PowOf(grad[i], N(2)), cov.At(i, i)))
				continue
			}
			terms = append(terms, MulOf(N(2), grad[i], grad[j], cov.At(i, j)))
		}
	}
	if len(terms) == 0 {
		return N(0), nil
	}
	return s.Simplify(SqrtOf(AddOf(terms...)))
}
