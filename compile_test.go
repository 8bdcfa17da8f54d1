package gosymbolic_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosymbolic"
)

func mustCompile(t *testing.T, src string, params ...string) *gosymbolic.Program {
	t.Helper()
	p, err := gosymbolic.Compile(gosymbolic.MustParse(src), params)
	require.NoError(t, err, src)
	return p
}

func closeOrBothNaN(t *testing.T, want, got float64, msg string) {
	t.Helper()
	if math.IsNaN(want) {
		assert.True(t, math.IsNaN(got), msg)
		return
	}
	if math.IsInf(want, 0) {
		assert.Equal(t, want, got, msg)
		return
	}
	assert.InDelta(t, want, got, 1e-12*math.Max(1, math.Abs(want)), msg)
}

// ============================================================
// Compiler
// ============================================================

func TestCompile_Polynomial(t *testing.T) {
	p := mustCompile(t, "x^2 + 3*x + 5", "x")
	assert.Equal(t, 15.0, p.Eval(2))
	assert.Equal(t, 3, p.StackDepth())
	assert.Equal(t, []string{"x"}, p.Params())
	assert.Contains(t, p.String(), "square")
	assert.Equal(t, p.Len(), strings.Count(p.String(), "\n"))
}

func TestCompile_SincDerivativeAtZero(t *testing.T) {
	d, err := gosymbolic.DiffExpr("sinc(x)", "x")
	require.NoError(t, err)
	p, err := gosymbolic.Compile(d, []string{"x"})
	require.NoError(t, err)
	v := p.Eval(0)
	require.False(t, math.IsNaN(v))
	assert.InDelta(t, 0, v, 1e-10)

	// near zero the result tracks -x/3
	assert.InDelta(t, -1e-6/3, p.Eval(1e-6), 1e-15)
}

func TestCompile_FusedPowers(t *testing.T) {
	cases := []struct {
		src string
		op  string
		at  float64
	}{
		{"x^2", "square", 1.5},
		{"x^3", "cube", 1.5},
		{"x^-1", "recip", 1.5},
		{"x^0.5", "sqrt", 2.25},
		{"x^5", "powi", 1.5},
		{"x^-4", "powi", 1.5},
		{"x^2.5", "pow", 1.5},
		{"1/x", "recip", 4},
	}
	for _, c := range cases {
		e := gosymbolic.MustParse(c.src)
		p, err := gosymbolic.Compile(e, []string{"x"})
		require.NoError(t, err, c.src)
		assert.Contains(t, p.String(), c.op, c.src)
		want, err := e.Eval(map[string]float64{"x": c.at})
		require.NoError(t, err)
		assert.InDelta(t, want, p.Eval(c.at), 1e-12, c.src)
	}
}

func TestCompile_NamedConstants(t *testing.T) {
	p := mustCompile(t, "pi*x + e", "x")
	assert.InDelta(t, math.Pi+math.E, p.Eval(1), 1e-15)

	// listed as a parameter, e is an ordinary input
	p = mustCompile(t, "e*x", "x", "e")
	assert.Equal(t, 6.0, p.Eval(2, 3))
}

func TestCompile_Poly(t *testing.T) {
	p, err := gosymbolic.Compile(samplePoly(), []string{"x"})
	require.NoError(t, err)
	assert.Contains(t, p.String(), "poly")
	assert.Equal(t, 1+3*4.0-16, p.Eval(2))
}

func TestCompile_Errors(t *testing.T) {
	_, err := gosymbolic.Compile(gosymbolic.AddOf(x, y), []string{"x"})
	assert.True(t, errors.Is(err, gosymbolic.ErrUnboundVariable))

	_, err = gosymbolic.Compile(gosymbolic.FuncOf("nosuchfn", x), []string{"x"})
	assert.True(t, errors.Is(err, gosymbolic.ErrUnsupported))

	_, err = gosymbolic.Compile(gosymbolic.FuncOf("sin", x, y), []string{"x", "y"})
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidFunctionCall))

	s, _ := x.Symbol()
	_, err = gosymbolic.Compile(gosymbolic.DerivOf(gosymbolic.FuncOf("trigamma", x), s, 1), []string{"x"})
	assert.True(t, errors.Is(err, gosymbolic.ErrUnsupported))

	_, err = gosymbolic.Compile(x, []string{"x", "x"})
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))
}

func TestCompile_StackLimit(t *testing.T) {
	e := x
	for i := 0; i < gosymbolic.MaxStackDepth+10; i++ {
		e = gosymbolic.PowOf(x, e)
	}
	_, err := gosymbolic.Compile(e, []string{"x"}, gosymbolic.MaxDepth(1<<20), gosymbolic.MaxNodes(1<<20))
	assert.True(t, errors.Is(err, gosymbolic.ErrStackLimit))

	_, err = gosymbolic.Compile(e, []string{"x"})
	assert.True(t, errors.Is(err, gosymbolic.ErrMaxDepth))
}

func TestCompile_ContextFunctions(t *testing.T) {
	ctx := gosymbolic.NewContext()
	require.NoError(t, ctx.Register(gosymbolic.FuncDef{
		Name: "hyp", MinArgs: 2, MaxArgs: 2,
		Eval: func(a []float64) (float64, bool) { return math.Hypot(a[0], a[1]), true },
	}))
	require.NoError(t, ctx.Register(gosymbolic.FuncDef{
		Name: "sin", MinArgs: 1, MaxArgs: 1,
		Eval: func([]float64) (float64, bool) { return 42, true },
	}))
	require.NoError(t, ctx.Register(gosymbolic.FuncDef{Name: "noeval", MinArgs: 1, MaxArgs: 1}))
	opts := gosymbolic.WithContext(ctx)

	e, err := gosymbolic.Parse("hyp(x, y) + sin(x)", opts)
	require.NoError(t, err)
	p, err := gosymbolic.Compile(e, []string{"x", "y"}, opts)
	require.NoError(t, err)
	assert.Contains(t, p.String(), "call   hyp/2")
	assert.Contains(t, p.String(), "sin/1", "a shadowed built-in goes through the call op")
	assert.InDelta(t, 47.0, p.Eval(3, 4), 1e-12)

	_, err = gosymbolic.Compile(gosymbolic.FuncOf("noeval", x), []string{"x"}, opts)
	assert.True(t, errors.Is(err, gosymbolic.ErrUnsupported))
}

// ============================================================
// Executors
// ============================================================

var compiledFormulas = []string{
	"x^2 + 3*x*y - y^3",
	"sin(x)*cos(y) + tan(x/3)",
	"exp(-x^2)/(1 + y^2)",
	"ln(x^2 + y^2 + 1)",
	"sqrt(abs(x*y)) - cbrt(x)",
	"atan2(y, x) + atan(x)",
	"sinh(x) - cosh(y) + tanh(x*y)",
	"x^y",
	"sinc(x) + dsinc(y)",
	"erf(x) + gamma(y + 3)",
	"log(2, x^2 + 1) + log10(y^2 + 1)",
	"-(x - y)^5 + x^-2",
	"1/(x - 1)",
}

func TestCompile_MatchesTreeEval(t *testing.T) {
	points := [][2]float64{{0, 0}, {1, 1}, {-1.5, 0.7}, {2.25, -3}, {0.1, 10}, {-7, -0.25}}
	for _, src := range compiledFormulas {
		e := gosymbolic.MustParse(src)
		p, err := gosymbolic.Compile(e, []string{"x", "y"})
		require.NoError(t, err, src)
		for _, pt := range points {
			want, err := e.Eval(map[string]float64{"x": pt[0], "y": pt[1]})
			require.NoError(t, err, src)
			closeOrBothNaN(t, want, p.Eval(pt[0], pt[1]), src)
		}
	}
}

func TestEval_WrongInputCountPanics(t *testing.T) {
	p := mustCompile(t, "x + y", "x", "y")
	assert.Panics(t, func() { p.Eval(1) })
}

func columnsFor(n int) [][]float64 {
	xs, ys := make([]float64, n), make([]float64, n)
	for i := range xs {
		xs[i] = -3 + 6*float64(i)/float64(n)
		ys[i] = 0.5 + float64(i%7)/3
	}
	return [][]float64{xs, ys}
}

func sameBits(t *testing.T, want, got []float64, msg string) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.Float64bits(want[i]) != math.Float64bits(got[i]) {
			t.Errorf("%s: row %d: want %v, got %v", msg, i, want[i], got[i])
			return
		}
	}
}

func TestEvalBatch_MatchesScalar(t *testing.T) {
	const rows = 103
	cols := columnsFor(rows)
	for _, src := range compiledFormulas {
		p := mustCompile(t, src, "x", "y")
		want := make([]float64, rows)
		for r := range want {
			want[r] = p.Eval(cols[0][r], cols[1][r])
		}
		got := make([]float64, rows)
		require.NoError(t, p.EvalBatch(cols, got))
		sameBits(t, want, got, src)
	}
}

func TestEvalParallel_MatchesBatch(t *testing.T) {
	const rows = 1001
	cols := columnsFor(rows)
	for _, src := range compiledFormulas {
		p := mustCompile(t, src, "x", "y")
		want := make([]float64, rows)
		require.NoError(t, p.EvalBatch(cols, want))
		for _, workers := range []int{0, 1, 3, 8, 64} {
			got := make([]float64, rows)
			require.NoError(t, p.EvalParallel(cols, got, workers))
			sameBits(t, want, got, src)
		}
	}
}

func TestEvalBatch_ContextCall(t *testing.T) {
	ctx := gosymbolic.NewContext()
	require.NoError(t, ctx.Register(gosymbolic.FuncDef{
		Name: "hyp", MinArgs: 2, MaxArgs: 2,
		Eval: func(a []float64) (float64, bool) { return math.Hypot(a[0], a[1]), true },
	}))
	opts := gosymbolic.WithContext(ctx)
	e, err := gosymbolic.Parse("hyp(x, y)*2", opts)
	require.NoError(t, err)
	p, err := gosymbolic.Compile(e, []string{"x", "y"}, opts)
	require.NoError(t, err)

	cols := [][]float64{{3, 5, 8, 7, 9}, {4, 12, 15, 24, 40}}
	out := make([]float64, 5)
	require.NoError(t, p.EvalBatch(cols, out))
	assert.InDeltaSlice(t, []float64{10, 26, 34, 50, 82}, out, 1e-12)
}

func TestEvalBatch_ShapeErrors(t *testing.T) {
	p := mustCompile(t, "x + y", "x", "y")
	err := p.EvalBatch([][]float64{{1, 2}}, make([]float64, 2))
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))

	err = p.EvalParallel([][]float64{{1, 2}, {1}}, make([]float64, 2), 2)
	assert.True(t, errors.Is(err, gosymbolic.ErrInvalidInput))

	require.NoError(t, p.EvalBatch([][]float64{{}, {}}, nil))
}

func BenchmarkEvalScalar(b *testing.B) {
	p, _ := gosymbolic.Compile(gosymbolic.MustParse(compiledFormulas[1]), []string{"x", "y"})
	for i := 0; i < b.N; i++ {
		p.Eval(0.5, 1.5)
	}
}

func BenchmarkEvalBatch(b *testing.B) {
	p, _ := gosymbolic.Compile(gosymbolic.MustParse(compiledFormulas[1]), []string{"x", "y"})
	cols := columnsFor(4096)
	out := make([]float64, 4096)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.EvalBatch(cols, out)
	}
}
