package gosymbolic_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosymbolic"
)

func sampleMatrix(t *testing.T) *gosymbolic.Matrix {
	t.Helper()
	m, err := gosymbolic.MatrixFromSlice(2, 2, []*gosymbolic.Expr{
		x, y,
		gosymbolic.N(1), gosymbolic.N(2),
	})
	require.NoError(t, err)
	return m
}

func TestMatrix_Basics(t *testing.T) {
	m := sampleMatrix(t)
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, "[[x, y], [1, 2]]", m.String())
	assert.Equal(t, `\begin{pmatrix}x & y \\ 1 & 2\end{pmatrix}`, m.LaTeX())
	assert.Equal(t, "[[x, 1], [y, 2]]", m.Transpose().String())
	assert.Equal(t, "[[1, 0], [0, 1]]", gosymbolic.Identity(2).String())

	_, err := gosymbolic.MatrixFromSlice(2, 2, []*gosymbolic.Expr{x})
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))
	assert.Panics(t, func() { m.Get(2, 0) })
}

func TestMatrix_Arithmetic(t *testing.T) {
	m := sampleMatrix(t)

	sum, err := m.Add(gosymbolic.Identity(2))
	require.NoError(t, err)
	assert.Equal(t, "[[x + 1, y], [1, 3]]", sum.String())

	prod, err := m.Mul(gosymbolic.Identity(2))
	require.NoError(t, err)
	prod, err = prod.Simplify()
	require.NoError(t, err)
	assert.Equal(t, m.String(), prod.String())

	tr, err := m.Trace()
	require.NoError(t, err)
	assert.Equal(t, "x + 2", tr.String())

	det, err := m.Det()
	require.NoError(t, err)
	assert.Equal(t, "2*x - y", det.String())

	vals, err := m.Scale(gosymbolic.N(2)).Eval(map[string]float64{"x": 3, "y": 4})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{6, 8}, {2, 4}}, vals)

	_, err = m.Add(gosymbolic.NewMatrix(3, 3))
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))
	_, err = m.Mul(gosymbolic.NewMatrix(3, 1))
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))
	_, err = gosymbolic.NewMatrix(2, 3).Det()
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))
}

func TestMatrix_Det3x3(t *testing.T) {
	n := gosymbolic.N
	m, err := gosymbolic.MatrixFromSlice(3, 3, []*gosymbolic.Expr{
		n(2), n(0), n(1),
		n(1), n(3), n(2),
		n(1), n(1), n(2),
	})
	require.NoError(t, err)
	det, err := m.Det()
	require.NoError(t, err)
	v, err := det.Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)
}

func TestVectorCalculus(t *testing.T) {
	vars := []gosymbolic.Symbol{gosymbolic.Intern("x"), gosymbolic.Intern("y"), gosymbolic.Intern("z")}
	f := gosymbolic.MustParse("x^2*y + sin(z)")

	g, err := gosymbolic.Gradient(f, vars)
	require.NoError(t, err)
	require.Len(t, g, 3)
	env := map[string]float64{"x": 1.5, "y": -2, "z": 0.25}
	want := []float64{2 * 1.5 * -2, 1.5 * 1.5, 0.9689124217106447}
	for i := range g {
		assert.InDelta(t, want[i], mustEval(t, g[i], env), 1e-12, g[i].String())
	}

	h, err := gosymbolic.Hessian(f, vars)
	require.NoError(t, err)
	assert.True(t, h.Get(0, 1).Equal(h.Get(1, 0)))
	hv, err := h.Eval(env)
	require.NoError(t, err)
	assert.InDelta(t, -4.0, hv[0][0], 1e-12)
	assert.InDelta(t, 3.0, hv[0][1], 1e-12)

	l, err := gosymbolic.Laplacian(f, vars)
	require.NoError(t, err)
	assert.InDelta(t, 2*-2.0-0.24740395925452294, mustEval(t, l, env), 1e-12)

	field := [3]*gosymbolic.Expr{gosymbolic.NegOf(y), x, gosymbolic.N(0)}
	curl, err := gosymbolic.Curl(field, [3]gosymbolic.Symbol{vars[0], vars[1], vars[2]})
	require.NoError(t, err)
	assert.Equal(t, "0", curl[0].String())
	assert.Equal(t, "0", curl[1].String())
	assert.Equal(t, "2", curl[2].String())

	_, err = gosymbolic.Divergence([]*gosymbolic.Expr{x}, vars)
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))
}
