package gosymbolic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosymbolic"
)

// ============================================================
// Finite-difference checks
// ============================================================

func centralDiff(t *testing.T, f *gosymbolic.Expr, at float64) float64 {
	t.Helper()
	const h = 1e-5
	hi, err := f.Eval(map[string]float64{"x": at + h})
	require.NoError(t, err)
	lo, err := f.Eval(map[string]float64{"x": at - h})
	require.NoError(t, err)
	return (hi - lo) / (2 * h)
}

func TestDerive_FiniteDifference(t *testing.T) {
	formulas := []string{
		"x^3 - 2*x + 7",
		"sin(x)*cos(x)",
		"exp(2*x)/(1 + x^2)",
		"ln(x^2 + 1)",
		"sqrt(x + 3)",
		"tan(x/2)",
		"x^x",
		"atan(x) + atan2(x, 2)",
		"sinh(x)*tanh(x)",
		"cbrt(x^2 + 1)",
		"erf(x)",
		"log(2, x + 4)",
		"sinc(x)",
		"2^x",
		"e^(x^2)",
		"gamma(x + 2)",
	}
	points := []float64{0.3, 0.9, 1.7}
	for _, src := range formulas {
		f, err := gosymbolic.Parse(src)
		require.NoError(t, err, src)
		d, err := gosymbolic.Derive(f, gosymbolic.Intern("x"))
		require.NoError(t, err, src)
		for _, p := range points {
			got, err := d.Eval(map[string]float64{"x": p})
			require.NoError(t, err, src)
			want := centralDiff(t, f, p)
			assert.InDelta(t, want, got, 1e-5*math.Max(1, math.Abs(want)), "%s at %g", src, p)
		}
	}
}

func TestDerive_Simple(t *testing.T) {
	d, err := gosymbolic.Derive(gosymbolic.MustParse("x^2 + 3*x + 5"), gosymbolic.Intern("x"))
	require.NoError(t, err)
	assert.Equal(t, "2*x + 3", d.String())

	d, err = gosymbolic.Derive(gosymbolic.MustParse("y^2"), gosymbolic.Intern("x"))
	require.NoError(t, err)
	assert.True(t, d.IsZero())
}

func TestDeriveN(t *testing.T) {
	d, err := gosymbolic.DeriveN(gosymbolic.MustParse("x^4"), gosymbolic.Intern("x"), 3)
	require.NoError(t, err)
	v, err := d.Eval(map[string]float64{"x": 2})
	require.NoError(t, err)
	assert.Equal(t, 48.0, v)

	same, err := gosymbolic.DeriveN(x, gosymbolic.Intern("x"), 0)
	require.NoError(t, err)
	assert.Same(t, x, same)
}

// ============================================================
// Fixed variables and errors
// ============================================================

func TestDerive_FixedVars(t *testing.T) {
	f := gosymbolic.MustParse("a*x^2 + a^2")
	d, err := gosymbolic.Derive(f, gosymbolic.Intern("x"), gosymbolic.FixedVars("a"))
	require.NoError(t, err)
	v, err := d.Eval(map[string]float64{"a": 3, "x": 2})
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)

	_, err = gosymbolic.Derive(f, gosymbolic.Intern("a"), gosymbolic.FixedVars("a"))
	assert.True(t, errors.Is(err, gosymbolic.ErrFixedAndDiff))
}

func TestDerive_UnknownFunction(t *testing.T) {
	f := gosymbolic.FuncOf("nosuchfn", x)
	_, err := gosymbolic.Derive(f, gosymbolic.Intern("x"))
	assert.True(t, errors.Is(err, gosymbolic.ErrUnsupported))
}

func TestDerive_ArityMismatch(t *testing.T) {
	_, err := gosymbolic.Derive(gosymbolic.FuncOf("sin", x, y), gosymbolic.Intern("x"))
	var e *gosymbolic.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, gosymbolic.CodeInvalidFunctionCall, e.Code)
}

func TestDerive_NoDerivativeLeavesMarker(t *testing.T) {
	d, err := gosymbolic.Derive(gosymbolic.FuncOf("trigamma", x), gosymbolic.Intern("x"))
	require.NoError(t, err)
	require.Equal(t, gosymbolic.KindDerivative, d.Kind())
	assert.Equal(t, uint32(1), d.Order())
	assert.Equal(t, "d(trigamma(x))/dx", d.String())

	dd, err := gosymbolic.Derive(d, gosymbolic.Intern("x"))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), dd.Order())

	dy, err := gosymbolic.Derive(d, gosymbolic.Intern("y"))
	require.NoError(t, err)
	assert.True(t, dy.IsZero())
}

func TestDerive_Limits(t *testing.T) {
	deep := x
	for i := 0; i < 20; i++ {
		deep = gosymbolic.SinOf(deep)
	}
	_, err := gosymbolic.Derive(deep, gosymbolic.Intern("x"), gosymbolic.MaxDepth(10))
	assert.True(t, errors.Is(err, gosymbolic.ErrMaxDepth))

	_, err = gosymbolic.Derive(deep, gosymbolic.Intern("x"), gosymbolic.MaxNodes(30))
	assert.True(t, errors.Is(err, gosymbolic.ErrMaxNodes))
}

func TestDerive_ContextFunction(t *testing.T) {
	ctx := gosymbolic.NewContext()
	require.NoError(t, ctx.Register(gosymbolic.FuncDef{
		Name:    "sq",
		MinArgs: 1,
		MaxArgs: 1,
		Eval:    func(a []float64) (float64, bool) { return a[0] * a[0], true },
		Derivative: func(args, dargs []*gosymbolic.Expr) *gosymbolic.Expr {
			return gosymbolic.MulOf(gosymbolic.N(2), args[0], dargs[0])
		},
	}))
	require.NoError(t, ctx.Register(gosymbolic.FuncDef{Name: "opaque", MinArgs: 1, MaxArgs: 1}))

	opts := gosymbolic.WithContext(ctx)
	f, err := gosymbolic.Parse("sq(3*x)", opts)
	require.NoError(t, err)
	d, err := gosymbolic.Derive(f, gosymbolic.Intern("x"), opts)
	require.NoError(t, err)
	v, err := d.Eval(map[string]float64{"x": 1}, opts)
	require.NoError(t, err)
	assert.Equal(t, 18.0, v)

	g, err := gosymbolic.Parse("opaque(x)", opts)
	require.NoError(t, err)
	dg, err := gosymbolic.Derive(g, gosymbolic.Intern("x"), opts)
	require.NoError(t, err)
	assert.Equal(t, gosymbolic.KindDerivative, dg.Kind())
}
