package gosymbolic

import (
	"fmt"
	"strings"
)

// ============================================================
// Symbolic matrices
// ============================================================

// Matrix is a dense rows x cols grid of expressions. Entries are shared
// immutable nodes, so copying a Matrix copies only pointers.
type Matrix struct {
	rows, cols int
	data       []*Expr
}

func NewMatrix(rows, cols int) *Matrix {
	m := &Matrix{rows: rows, cols: cols, data: make([]*Expr, rows*cols)}
	zero := N(0)
	for i := range m.data {
		m.data[i] = zero
	}
	return m
}

// MatrixFromSlice fills a matrix row by row.
func MatrixFromSlice(rows, cols int, entries []*Expr) (*Matrix, error) {
	if len(entries) != rows*cols {
		return nil, errInvalidInput("%dx%d matrix needs %d entries, got %d", rows, cols, rows*cols, len(entries))
	}
	return &Matrix{rows: rows, cols: cols, data: append([]*Expr(nil), entries...)}, nil
}

func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	one := N(1)
	for i := 0; i < n; i++ {
		m.data[i*n+i] = one
	}
	return m
}

func (m *Matrix) checkBounds(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("gosymbolic: matrix index [%d,%d] out of range for %dx%d", row, col, m.rows, m.cols))
	}
}

func (m *Matrix) Get(row, col int) *Expr {
	m.checkBounds(row, col)
	return m.data[row*m.cols+col]
}

func (m *Matrix) Set(row, col int, e *Expr) {
	m.checkBounds(row, col)
	m.data[row*m.cols+col] = e
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) String() string { return m.render("[", "]", ", ", "[", "]", ", ", (*Expr).String) }

func (m *Matrix) LaTeX() string {
	return m.render(`\begin{pmatrix}`, `\end{pmatrix}`, ` \\ `, "", "", " & ", (*Expr).LaTeX)
}

func (m *Matrix) render(open, close, rowSep, rowOpen, rowClose, colSep string, cell func(*Expr) string) string {
	var sb strings.Builder
	sb.WriteString(open)
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			sb.WriteString(rowSep)
		}
		sb.WriteString(rowOpen)
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(colSep)
			}
			sb.WriteString(cell(m.data[i*m.cols+j]))
		}
		sb.WriteString(rowClose)
	}
	sb.WriteString(close)
	return sb.String()
}

func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			t.data[j*m.rows+i] = m.data[i*m.cols+j]
		}
	}
	return t
}

// Simplify simplifies every entry with one shared Simplifier.
func (m *Matrix) Simplify(opts ...Option) (*Matrix, error) {
	s := NewSimplifier(opts...)
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]*Expr, len(m.data))}
	for i, e := range m.data {
		r, err := s.Simplify(e)
		if err != nil {
			return nil, err
		}
		out.data[i] = r
	}
	return out, nil
}

func (m *Matrix) Add(o *Matrix) (*Matrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, errInvalidInput("cannot add %dx%d and %dx%d matrices", m.rows, m.cols, o.rows, o.cols)
	}
	out := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = AddOf(m.data[i], o.data[i])
	}
	return out, nil
}

func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, errInvalidInput("cannot multiply %dx%d by %dx%d", m.rows, m.cols, o.rows, o.cols)
	}
	out := NewMatrix(m.rows, o.cols)
	terms := make([]*Expr, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < o.cols; j++ {
			for k := 0; k < m.cols; k++ {
				terms[k] = MulOf(m.data[i*m.cols+k], o.data[k*o.cols+j])
			}
			out.data[i*o.cols+j] = AddOf(terms...)
		}
	}
	return out, nil
}

func (m *Matrix) Scale(c *Expr) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, e := range m.data {
		out.data[i] = MulOf(c, e)
	}
	return out
}

func (m *Matrix) Trace() (*Expr, error) {
	if m.rows != m.cols {
		return nil, errInvalidInput("trace needs a square matrix, got %dx%d", m.rows, m.cols)
	}
	terms := make([]*Expr, m.rows)
	for i := range terms {
		terms[i] = m.data[i*m.cols+i]
	}
	return AddOf(terms...), nil
}

// Det expands the determinant along the first row.
func (m *Matrix) Det() (*Expr, error) {
	if m.rows != m.cols {
		return nil, errInvalidInput("determinant needs a square matrix, got %dx%d", m.rows, m.cols)
	}
	if m.rows == 0 {
		return N(1), nil
	}
	return m.det(), nil
}

func (m *Matrix) det() *Expr {
	n := m.rows
	switch n {
	case 1:
		return m.data[0]
	case 2:
		return SubOf(MulOf(m.data[0], m.data[3]), MulOf(m.data[1], m.data[2]))
	}
	terms := make([]*Expr, n)
	for j := 0; j < n; j++ {
		t := MulOf(m.data[j], m.minor(0, j).det())
		if j%2 == 1 {
			t = NegOf(t)
		}
		terms[j] = t
	}
	return AddOf(terms...)
}

func (m *Matrix) minor(row, col int) *Matrix {
	out := &Matrix{rows: m.rows - 1, cols: m.cols - 1, data: make([]*Expr, 0, (m.rows-1)*(m.cols-1))}
	for i := 0; i < m.rows; i++ {
		if i == row {
			continue
		}
		for j := 0; j < m.cols; j++ {
			if j != col {
				out.data = append(out.data, m.data[i*m.cols+j])
			}
		}
	}
	return out
}

// Eval evaluates every entry, row by row.
func (m *Matrix) Eval(env map[string]float64, opts ...Option) ([][]float64, error) {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = make([]float64, m.cols)
		for j := range out[i] {
			v, err := m.data[i*m.cols+j].Eval(env, opts...)
			if err != nil {
				return nil, err
			}
			out[i][j] = v
		}
	}
	return out, nil
}

// ============================================================
// Vector calculus
// ============================================================

// Gradient returns the simplified partial derivatives of e, one per var.
func Gradient(e *Expr, vars []Symbol, opts ...Option) ([]*Expr, error) {
	s := NewSimplifier(opts...)
	out := make([]*Expr, len(vars))
	for i, v := range vars {
		d, err := partial(s, e, opts, v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// partial differentiates e along vs in turn, simplifying after each step.
func partial(s *Simplifier, e *Expr, opts []Option, vs ...Symbol) (*Expr, error) {
	for _, v := range vs {
		d, err := Derive(e, v, opts...)
		if err != nil {
			return nil, err
		}
		if e, err = s.Simplify(d); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func Jacobian(fs []*Expr, vars []Symbol, opts ...Option) (*Matrix, error) {
	s := NewSimplifier(opts...)
	m := NewMatrix(len(fs), len(vars))
	for i, f := range fs {
		for j, v := range vars {
			d, err := partial(s, f, opts, v)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, d)
		}
	}
	return m, nil
}

func Hessian(e *Expr, vars []Symbol, opts ...Option) (*Matrix, error) {
	s := NewSimplifier(opts...)
	n := len(vars)
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			d, err := partial(s, e, opts, vars[i], vars[j])
			if err != nil {
				return nil, err
			}
			m.Set(i, j, d)
			m.Set(j, i, d)
		}
	}
	return m, nil
}

// Laplacian returns the sum of unmixed second partials.
func Laplacian(e *Expr, vars []Symbol, opts ...Option) (*Expr, error) {
	s := NewSimplifier(opts...)
	terms := make([]*Expr, len(vars))
	for i, v := range vars {
		d, err := partial(s, e, opts, v, v)
		if err != nil {
			return nil, err
		}
		terms[i] = d
	}
	return s.Simplify(AddOf(terms...))
}

func Divergence(field []*Expr, vars []Symbol, opts ...Option) (*Expr, error) {
	if len(field) != len(vars) {
		return nil, errInvalidInput("divergence needs one variable per component, got %d and %d", len(field), len(vars))
	}
	s := NewSimplifier(opts...)
	terms := make([]*Expr, len(field))
	for i := range field {
		d, err := partial(s, field[i], opts, vars[i])
		if err != nil {
			return nil, err
		}
		terms[i] = d
	}
	return s.Simplify(AddOf(terms...))
}

// Curl returns the curl of a three-component field.
func Curl(field [3]*Expr, vars [3]Symbol, opts ...Option) ([3]*Expr, error) {
	s := NewSimplifier(opts...)
	var out [3]*Expr
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		a, err := partial(s, field[k], opts, vars[j])
		if err != nil {
			return out, err
		}
		b, err := partial(s, field[j], opts, vars[k])
		if err != nil {
			return out, err
		}
		if out[i], err = s.Simplify(SubOf(a, b)); err != nil {
			return out, err
		}
	}
	return out, nil
}
