package gosymbolic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njchilds90/gosymbolic"
)

func TestString(t *testing.T) {
	n := gosymbolic.N
	cases := []struct {
		e    *gosymbolic.Expr
		want string
	}{
		{gosymbolic.MulOf(n(2), pow(x, 2)), "2*x^2"},
		{gosymbolic.AddOf(x, n(-1)), "x - 1"},
		{gosymbolic.SubOf(x, y), "x - y"},
		{gosymbolic.NegOf(x), "-x"},
		{gosymbolic.DivOf(gosymbolic.AddOf(x, n(1)), y), "(x + 1)/y"},
		{gosymbolic.DivOf(x, gosymbolic.MulOf(n(2), y)), "x/(2*y)"},
		{gosymbolic.DivOf(x, n(-2)), "x/(-2)"},
		{gosymbolic.PowOf(gosymbolic.AddOf(x, n(1)), n(2)), "(x + 1)^2"},
		{gosymbolic.PowOf(x, n(-1)), "x^(-1)"},
		{gosymbolic.PowOf(x, gosymbolic.AddOf(y, n(1))), "x^(y + 1)"},
		{gosymbolic.MulOf(n(2), gosymbolic.AddOf(x, n(1))), "2*(x + 1)"},
		{gosymbolic.FuncOf("atan2", y, x), "atan2(y, x)"},
		{gosymbolic.DerivOf(gosymbolic.FuncOf("trigamma", x), gosymbolic.Intern("x"), 2), "d^2(trigamma(x))/dx^2"},
		{n(0.5), "0.5"},
		{n(1e20), "1e+20"},
		{n(math.NaN()), "NaN"},
		{n(math.Inf(-1)), "-Inf"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.e.String())
	}
}

func TestLaTeX(t *testing.T) {
	n := gosymbolic.N
	cases := []struct {
		e    *gosymbolic.Expr
		want string
	}{
		{gosymbolic.DivOf(x, n(2)), `\frac{x}{2}`},
		{gosymbolic.SqrtOf(x), `\sqrt{x}`},
		{gosymbolic.PowOf(x, gosymbolic.DivOf(n(1), n(2))), `\sqrt{x}`},
		{gosymbolic.MulOf(n(2), x), `2 \cdot x`},
		{gosymbolic.S("pi"), `\pi`},
		{gosymbolic.SinOf(x), `\sin\left(x\right)`},
		{pow(x, 2), `x^{2}`},
		{gosymbolic.AbsOf(x), `\left|x\right|`},
		{gosymbolic.FuncOf("erf", x), `\operatorname{erf}\left(x\right)`},
		{gosymbolic.DerivOf(gosymbolic.FuncOf("trigamma", x), gosymbolic.Intern("x"), 1),
			`\frac{\partial}{\partial x}\left(\operatorname{trigamma}\left(x\right)\right)`},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.e.LaTeX())
	}
}

func TestUnicode(t *testing.T) {
	n := gosymbolic.N
	cases := []struct {
		e    *gosymbolic.Expr
		want string
	}{
		{pow(x, 2), "x²"},
		{pow(x, -12), "x⁻¹²"},
		{gosymbolic.SqrtOf(x), "√(x)"},
		{gosymbolic.MulOf(n(2), gosymbolic.S("pi")), "2·π"},
		{gosymbolic.AbsOf(x), "|x|"},
		{n(math.Inf(1)), "∞"},
		{gosymbolic.DerivOf(gosymbolic.FuncOf("trigamma", x), gosymbolic.Intern("x"), 3), "∂³(trigamma(x))/∂x³"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.e.Unicode())
	}
}

func TestString_PolyExpands(t *testing.T) {
	p := samplePoly()
	assert.Equal(t, gosymbolic.ExpandPoly(p).String(), p.String())
}
