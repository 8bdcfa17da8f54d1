package gosymbolic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosymbolic"
)

func TestVerifier_Accepts(t *testing.T) {
	v := gosymbolic.NewVerifier()
	orig := gosymbolic.MustParse("x*x + 2*x*y + y*y")
	simp := gosymbolic.MustParse("(x + y)^2")
	assert.NoError(t, v.Verify(orig, simp))

	// constants have no variables and are checked once per point
	assert.NoError(t, v.Verify(gosymbolic.MustParse("2 + 3"), gosymbolic.N(5)))
}

func TestVerifier_Mismatch(t *testing.T) {
	v := gosymbolic.NewVerifier()
	err := v.Verify(gosymbolic.MustParse("x^2"), gosymbolic.MustParse("2*x"))
	require.Error(t, err)

	var eq *gosymbolic.EquivalenceError
	require.True(t, errors.As(err, &eq))
	assert.Equal(t, -2.0, eq.Point["x"])
	assert.Equal(t, 4.0, eq.Original)
	assert.Equal(t, -4.0, eq.Simplified)
	assert.Equal(t, "equivalence check failed at {x=-2}: original=4 simplified=-4", err.Error())
}

func TestVerifier_RotatesVariables(t *testing.T) {
	// x - y and 0 agree whenever x == y; rotation guarantees x != y
	err := gosymbolic.NewVerifier().Verify(gosymbolic.MustParse("x - y"), gosymbolic.N(0))
	var eq *gosymbolic.EquivalenceError
	require.True(t, errors.As(err, &eq))
	assert.NotEqual(t, eq.Point["x"], eq.Point["y"])
}

func TestVerifier_SkipsNonFinite(t *testing.T) {
	v := &gosymbolic.Verifier{Points: []float64{0}, Tol: 1e-9}
	// 1/x is infinite at the only sample, so nothing is compared
	assert.NoError(t, v.Verify(gosymbolic.MustParse("1/x"), gosymbolic.N(7)))

	v = &gosymbolic.Verifier{}
	assert.NoError(t, v.Verify(gosymbolic.S("x"), gosymbolic.N(1)))
}

func TestVerifier_UnboundSkipped(t *testing.T) {
	v := gosymbolic.NewVerifier()
	orig := gosymbolic.DerivOf(gosymbolic.FuncOf("trigamma", x), gosymbolic.Intern("x"), 1)
	assert.NoError(t, v.Verify(orig, orig))
}

func TestSimplifyVerified(t *testing.T) {
	out, err := gosymbolic.SimplifyVerified(gosymbolic.MustParse("sin(x)^2 + cos(x)^2"))
	require.NoError(t, err)
	assert.Equal(t, "1", out.String())

	out, err = gosymbolic.SimplifyVerified(gosymbolic.MustParse("(x^2 - 1)/(x - 1)"))
	require.NoError(t, err)
	assert.False(t, math.IsNaN(mustEval(t, out, map[string]float64{"x": 3})))
}

func mustEval(t *testing.T, e *gosymbolic.Expr, env map[string]float64) float64 {
	t.Helper()
	v, err := e.Eval(env)
	require.NoError(t, err)
	return v
}

func TestAtan2_ZeroNumeratorKeepsBranch(t *testing.T) {
	e := gosymbolic.MustParse("atan2(sin(sinh(0))/(cos(x^2)*sin(x)^2*sinh(x)), y)")
	simp, err := gosymbolic.SimplifyExpr(e)
	require.NoError(t, err)

	env := map[string]float64{"x": 2.1, "y": -0.9}
	assert.InDelta(t, math.Pi, mustEval(t, e, env), 1e-12)
	assert.InDelta(t, math.Pi, mustEval(t, simp, env), 1e-12)

	prog, err := gosymbolic.Compile(e, []string{"x", "y"})
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, prog.Eval(2.1, -0.9), 1e-12)

	assert.NoError(t, gosymbolic.NewVerifier().Verify(e, simp))
	assert.NoError(t, (&gosymbolic.Verifier{Points: []float64{2.1, -0.9}, Tol: 1e-9}).Verify(e, simp))
}
