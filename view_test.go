package gosymbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosymbolic"
)

// ============================================================
// Poly
// ============================================================

func samplePoly() *gosymbolic.Expr {
	// 1 + 3x^2 - x^4, given out of order with a duplicate power
	return gosymbolic.PolyOf(x, []gosymbolic.PolyTerm{
		{Pow: 4, Coeff: -1}, {Pow: 0, Coeff: 1}, {Pow: 2, Coeff: 1}, {Pow: 2, Coeff: 2},
	})
}

func TestPolyOf_Normalizes(t *testing.T) {
	p := samplePoly()
	require.Equal(t, gosymbolic.KindPoly, p.Kind())
	assert.Equal(t, []gosymbolic.PolyTerm{{Pow: 0, Coeff: 1}, {Pow: 2, Coeff: 3}, {Pow: 4, Coeff: -1}}, p.PolyTerms())
	assert.Equal(t, 4, p.Degree())
	assert.Equal(t, -1, x.Degree())
}

func TestPolyOf_Degenerate(t *testing.T) {
	assert.True(t, gosymbolic.PolyOf(x, nil).IsZero())
	mono := gosymbolic.PolyOf(x, []gosymbolic.PolyTerm{{Pow: 1, Coeff: 2}})
	assert.Equal(t, "2*x", mono.String())
	num := gosymbolic.PolyOf(gosymbolic.N(2), []gosymbolic.PolyTerm{{Pow: 0, Coeff: 1}, {Pow: 1, Coeff: 1}})
	v, ok := num.NumberValue()
	require.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestPoly_EvalMatchesExpanded(t *testing.T) {
	p := samplePoly()
	expanded := gosymbolic.ExpandPoly(p)
	for _, xv := range []float64{-2, -0.5, 0, 1, 3} {
		a, err := p.Eval(map[string]float64{"x": xv})
		require.NoError(t, err)
		b, err := expanded.Eval(map[string]float64{"x": xv})
		require.NoError(t, err)
		assert.InDelta(t, b, a, 1e-12)
	}
}

func TestAsPoly(t *testing.T) {
	e := gosymbolic.AddOf(gosymbolic.N(1), gosymbolic.MulOf(gosymbolic.N(3), pow(x, 2)), x)
	p, ok := gosymbolic.AsPoly(e, x)
	require.True(t, ok)
	assert.Equal(t, 2, p.Degree())

	_, ok = gosymbolic.AsPoly(gosymbolic.AddOf(x, gosymbolic.SinOf(x)), x)
	assert.False(t, ok)
}

func TestPolyArithmetic(t *testing.T) {
	a := gosymbolic.PolyOf(x, []gosymbolic.PolyTerm{{Pow: 0, Coeff: 1}, {Pow: 1, Coeff: 1}})
	b := gosymbolic.PolyOf(x, []gosymbolic.PolyTerm{{Pow: 0, Coeff: -1}, {Pow: 1, Coeff: 1}})

	sum, ok := gosymbolic.PolyAdd(a, b)
	require.True(t, ok)
	assert.Equal(t, "2*x", sum.String())

	prod, ok := gosymbolic.PolyMul(a, b)
	require.True(t, ok)
	assert.Equal(t, []gosymbolic.PolyTerm{{Pow: 0, Coeff: -1}, {Pow: 2, Coeff: 1}}, prod.PolyTerms())

	_, ok = gosymbolic.PolyAdd(a, gosymbolic.PolyOf(y, []gosymbolic.PolyTerm{{Pow: 0, Coeff: 1}, {Pow: 1, Coeff: 1}}))
	assert.False(t, ok)
}

func TestPoly_Derive(t *testing.T) {
	d, err := gosymbolic.Derive(samplePoly(), gosymbolic.Intern("x"))
	require.NoError(t, err)
	for _, xv := range []float64{-1.5, 0.25, 2} {
		v, err := d.Eval(map[string]float64{"x": xv})
		require.NoError(t, err)
		assert.InDelta(t, 6*xv-4*xv*xv*xv, v, 1e-12)
	}
}

func TestPoly_SimplifiesLikeExpandedSum(t *testing.T) {
	p := gosymbolic.PolyOf(x, []gosymbolic.PolyTerm{{Pow: 0, Coeff: 1}, {Pow: 2, Coeff: 3}})
	sum := gosymbolic.ExpandPoly(p)
	simp := func(e *gosymbolic.Expr) *gosymbolic.Expr {
		out, err := gosymbolic.SimplifyExpr(e)
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, "0", simp(gosymbolic.AddOf(p, gosymbolic.NegOf(sum))).String())
	assert.Equal(t, "0", simp(gosymbolic.SubOf(sum, p)).String())
	assert.Equal(t, "3*x^2", simp(gosymbolic.AddOf(p, gosymbolic.N(-1))).String())

	cases := []struct {
		name      string
		poly, sum *gosymbolic.Expr
	}{
		{"alone", p, sum},
		{"plus number", gosymbolic.AddOf(p, gosymbolic.N(4)), gosymbolic.AddOf(sum, gosymbolic.N(4))},
		{"plus monomial", gosymbolic.AddOf(p, pow(x, 2)), gosymbolic.AddOf(sum, pow(x, 2))},
		{"times number", gosymbolic.MulOf(gosymbolic.N(2), p), gosymbolic.MulOf(gosymbolic.N(2), sum)},
		{"other base", gosymbolic.AddOf(p, y), gosymbolic.AddOf(sum, y)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b := simp(tc.poly), simp(tc.sum)
			assert.True(t, a.Equal(b), "%s vs %s", a, b)
			assert.NotEqual(t, gosymbolic.KindPoly, a.Kind())
		})
	}
}

func TestPoly_ProductAbsorbsMonomial(t *testing.T) {
	p := gosymbolic.PolyOf(x, []gosymbolic.PolyTerm{{Pow: 0, Coeff: 1}, {Pow: 1, Coeff: 1}})
	out, err := gosymbolic.SimplifyExpr(gosymbolic.MulOf(gosymbolic.N(3), x, p))
	require.NoError(t, err)
	sampleEqual(t, out, gosymbolic.MustParse("3*x + 3*x^2"), "x")
}

// ============================================================
// View
// ============================================================

func TestView_HidesPoly(t *testing.T) {
	v := samplePoly().View()
	require.Equal(t, gosymbolic.ViewSum, v.Kind)
	require.Len(t, v.Children, 3)
	for _, c := range v.Children {
		assert.NotEqual(t, gosymbolic.KindPoly, c.Kind())
	}
}

func TestView_Kinds(t *testing.T) {
	s, _ := x.Symbol()
	cases := []struct {
		e    *gosymbolic.Expr
		kind gosymbolic.ViewKind
	}{
		{gosymbolic.N(2), gosymbolic.ViewNumber},
		{x, gosymbolic.ViewSymbol},
		{gosymbolic.AddOf(x, y), gosymbolic.ViewSum},
		{gosymbolic.MulOf(x, y), gosymbolic.ViewProduct},
		{gosymbolic.DivOf(x, y), gosymbolic.ViewDiv},
		{pow(x, 3), gosymbolic.ViewPow},
		{gosymbolic.FuncOf("atan2", y, x), gosymbolic.ViewFunction},
		{gosymbolic.DerivOf(gosymbolic.FuncOf("f", x), s, 2), gosymbolic.ViewDerivative},
	}
	for _, c := range cases {
		assert.Equal(t, c.kind, c.e.View().Kind, c.e.String())
	}

	d := cases[len(cases)-1].e.View()
	assert.Equal(t, uint32(2), d.Order)
	assert.Equal(t, "x", d.Var.Name())
	assert.Equal(t, "atan2", cases[6].e.View().Name)
}

func TestWalk_NeverSeesPoly(t *testing.T) {
	e := gosymbolic.AddOf(gosymbolic.SinOf(samplePoly()), y)
	symbols := 0
	gosymbolic.Walk(e, func(n *gosymbolic.Expr, v gosymbolic.View) bool {
		if v.Kind == gosymbolic.ViewSymbol {
			symbols++
		}
		return true
	})
	// y, plus x in each of the two non-constant monomials
	assert.Equal(t, 3, symbols)
}

func TestWalk_SkipChildren(t *testing.T) {
	visited := 0
	gosymbolic.Walk(gosymbolic.AddOf(gosymbolic.SinOf(x), y), func(n *gosymbolic.Expr, v gosymbolic.View) bool {
		visited++
		return v.Kind != gosymbolic.ViewFunction
	})
	assert.Equal(t, 3, visited)
}
