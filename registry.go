package gosymbolic

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ============================================================
// Function registry
// ============================================================

// FuncDef describes a named function: its arity range, a numeric
// evaluator and the pieces needed to differentiate it.
type FuncDef struct {
	Name    string
	MinArgs int
	MaxArgs int
	// Eval returns false when it cannot produce a value for args.
	// Domain problems are reported as NaN, not as false.
	Eval func(args []float64) (float64, bool)
	// Derivative builds d/dx f(args) given the argument derivatives.
	Derivative func(args, dargs []*Expr) *Expr
	// Partials[i] builds the partial derivative with respect to args[i].
	// Used instead of Derivative when set.
	Partials []func(args []*Expr) *Expr
}

func (d *FuncDef) CanCall(n int) bool { return n >= d.MinArgs && n <= d.MaxArgs }

var builtins = map[string]*FuncDef{}

func register(def *FuncDef) { builtins[def.Name] = def }

// LookupFunc returns the built-in definition for name.
func LookupFunc(name string) (*FuncDef, bool) {
	def, ok := builtins[name]
	return def, ok
}

// BuiltinNames lists the built-in functions in lexical order.
func BuiltinNames() []string {
	names := maps.Keys(builtins)
	slices.Sort(names)
	return names
}

// unary registers a one-argument function whose derivative is
// deriv(u) * u'. A nil deriv leaves the function without a derivative.
func unary(name string, eval func(float64) float64, deriv func(u *Expr) *Expr) {
	def := &FuncDef{
		Name:    name,
		MinArgs: 1,
		MaxArgs: 1,
		Eval:    func(a []float64) (float64, bool) { return eval(a[0]), true },
	}
	if deriv != nil {
		def.Derivative = func(args, dargs []*Expr) *Expr { return MulOf(deriv(args[0]), dargs[0]) }
	}
	register(def)
}

func square(u *Expr) *Expr { return PowOf(u, N(2)) }

func recip(u *Expr) *Expr { return DivOf(N(1), u) }

func zeroDeriv(*Expr) *Expr { return N(0) }

func init() {
	unary("sin", math.Sin, func(u *Expr) *Expr { return CosOf(u) })
	unary("cos", math.Cos, func(u *Expr) *Expr { return NegOf(SinOf(u)) })
	unary("tan", math.Tan, func(u *Expr) *Expr { return recip(square(CosOf(u))) })
	unary("cot", func(x float64) float64 { return 1 / math.Tan(x) },
		func(u *Expr) *Expr { return NegOf(recip(square(SinOf(u)))) })
	unary("sec", func(x float64) float64 { return 1 / math.Cos(x) },
		func(u *Expr) *Expr { return MulOf(FuncOf("sec", u), TanOf(u)) })
	unary("csc", func(x float64) float64 { return 1 / math.Sin(x) },
		func(u *Expr) *Expr { return NegOf(MulOf(FuncOf("csc", u), FuncOf("cot", u))) })
	unary("asin", math.Asin, func(u *Expr) *Expr { return recip(SqrtOf(SubOf(N(1), square(u)))) })
	unary("acos", math.Acos, func(u *Expr) *Expr { return NegOf(recip(SqrtOf(SubOf(N(1), square(u))))) })
	unary("atan", math.Atan, func(u *Expr) *Expr { return recip(AddOf(N(1), square(u))) })

	unary("sinh", math.Sinh, func(u *Expr) *Expr { return CoshOf(u) })
	unary("cosh", math.Cosh, func(u *Expr) *Expr { return SinhOf(u) })
	unary("tanh", math.Tanh, func(u *Expr) *Expr { return recip(square(CoshOf(u))) })
	unary("coth", func(x float64) float64 { return 1 / math.Tanh(x) },
		func(u *Expr) *Expr { return NegOf(recip(square(SinhOf(u)))) })
	unary("sech", func(x float64) float64 { return 1 / math.Cosh(x) },
		func(u *Expr) *Expr { return NegOf(MulOf(FuncOf("sech", u), TanhOf(u))) })
	unary("csch", func(x float64) float64 { return 1 / math.Sinh(x) },
		func(u *Expr) *Expr { return NegOf(MulOf(FuncOf("csch", u), FuncOf("coth", u))) })
	unary("asinh", math.Asinh, func(u *Expr) *Expr { return recip(SqrtOf(AddOf(square(u), N(1)))) })
	unary("acosh", math.Acosh, func(u *Expr) *Expr { return recip(SqrtOf(SubOf(square(u), N(1)))) })
	unary("atanh", math.Atanh, func(u *Expr) *Expr { return recip(SubOf(N(1), square(u))) })

	unary("exp", math.Exp, func(u *Expr) *Expr { return ExpOf(u) })
	unary("ln", math.Log, recip)
	unary("log10", math.Log10, func(u *Expr) *Expr { return recip(MulOf(u, LnOf(N(10)))) })
	unary("log2", math.Log2, func(u *Expr) *Expr { return recip(MulOf(u, LnOf(N(2)))) })
	unary("sqrt", math.Sqrt, func(u *Expr) *Expr { return recip(MulOf(N(2), SqrtOf(u))) })
	unary("cbrt", math.Cbrt, func(u *Expr) *Expr { return recip(MulOf(N(3), square(CbrtOf(u)))) })

	unary("abs", math.Abs, func(u *Expr) *Expr { return FuncOf("sign", u) })
	unary("sign", sign, zeroDeriv)
	unary("floor", math.Floor, zeroDeriv)
	unary("ceil", math.Ceil, zeroDeriv)
	unary("round", math.Round, zeroDeriv)

	unary("erf", math.Erf, func(u *Expr) *Expr {
		return MulOf(DivOf(N(2), SqrtOf(S("pi"))), ExpOf(NegOf(square(u))))
	})
	unary("erfc", math.Erfc, func(u *Expr) *Expr {
		return MulOf(DivOf(N(-2), SqrtOf(S("pi"))), ExpOf(NegOf(square(u))))
	})
	unary("gamma", math.Gamma, func(u *Expr) *Expr { return MulOf(FuncOf("gamma", u), FuncOf("digamma", u)) })
	unary("digamma", digamma, func(u *Expr) *Expr { return FuncOf("trigamma", u) })
	unary("trigamma", trigamma, nil)

	unary("sinc", sinc, func(u *Expr) *Expr { return FuncOf("dsinc", u) })
	// d/dx dsinc(x) = ((2 - x^2) sin x - 2x cos x) / x^3
	unary("dsinc", dsinc, func(u *Expr) *Expr {
		n := SubOf(MulOf(SubOf(N(2), square(u)), SinOf(u)), MulOf(N(2), u, CosOf(u)))
		return DivOf(n, PowOf(u, N(3)))
	})

	register(&FuncDef{
		Name:    "atan2",
		MinArgs: 2,
		MaxArgs: 2,
		Eval:    func(a []float64) (float64, bool) { return atan2(a[0], a[1]), true },
		Partials: []func([]*Expr) *Expr{
			func(a []*Expr) *Expr { return DivOf(a[1], AddOf(square(a[0]), square(a[1]))) },
			func(a []*Expr) *Expr { return DivOf(NegOf(a[0]), AddOf(square(a[0]), square(a[1]))) },
		},
	})
	// log(b, x) is the base-b logarithm of x.
	register(&FuncDef{
		Name:    "log",
		MinArgs: 2,
		MaxArgs: 2,
		Eval:    func(a []float64) (float64, bool) { return math.Log(a[1]) / math.Log(a[0]), true },
		Partials: []func([]*Expr) *Expr{
			func(a []*Expr) *Expr {
				return NegOf(DivOf(LnOf(a[1]), MulOf(a[0], square(LnOf(a[0])))))
			},
			func(a []*Expr) *Expr { return recip(MulOf(a[1], LnOf(a[0]))) },
		},
	})
}
