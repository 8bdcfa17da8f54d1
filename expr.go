package gosymbolic

import (
	"math"

	"golang.org/x/exp/slices"
)

// ============================================================
// Expression kinds
// ============================================================

type ExprKind uint8

const (
	KindNumber ExprKind = iota
	KindSymbol
	KindSum
	KindProduct
	KindFunc
	KindPow
	KindDiv
	KindDerivative
	KindPoly
)

var kindNames = [...]string{"number", "symbol", "sum", "product", "func", "pow", "div", "derivative", "poly"}

func (k ExprKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ============================================================
// Immutable shared node
// ============================================================

// Expr is an immutable expression node. Children are shared between
// trees freely; no constructor ever mutates an existing node.
//
// Child layout by kind:
//
//	Sum, Product  args = terms / factors, canonically ordered
//	Func          args = call arguments, name = function name
//	Pow           args = [base, exponent]
//	Div           args = [numerator, denominator]
//	Derivative    args = [inner], sym = variable, order = order
//	Poly          args = [base], terms = sparse (power, coeff) list
type Expr struct {
	kind  ExprKind
	hash  uint64
	num   float64
	sym   Symbol
	name  string
	args  []*Expr
	order uint32
	terms []PolyTerm
}

func (e *Expr) Kind() ExprKind { return e.kind }
func (e *Expr) Hash() uint64   { return e.hash }

// Children returns the direct operands. The slice must not be modified.
func (e *Expr) Children() []*Expr { return e.args }

func (e *Expr) NumberValue() (float64, bool) { return e.num, e.kind == KindNumber }
func (e *Expr) Symbol() (Symbol, bool)       { return e.sym, e.kind == KindSymbol }
func (e *Expr) FuncName() string             { return e.name }
func (e *Expr) Order() uint32                { return e.order }
func (e *Expr) DerivVar() Symbol             { return e.sym }
func (e *Expr) PolyTerms() []PolyTerm        { return e.terms }

func (e *Expr) Base() *Expr {
	switch e.kind {
	case KindPow, KindPoly:
		return e.args[0]
	}
	return nil
}

func (e *Expr) Exponent() *Expr {
	if e.kind == KindPow {
		return e.args[1]
	}
	return nil
}

func (e *Expr) Numerator() *Expr {
	if e.kind == KindDiv {
		return e.args[0]
	}
	return nil
}

func (e *Expr) Denominator() *Expr {
	if e.kind == KindDiv {
		return e.args[1]
	}
	return nil
}

func (e *Expr) Inner() *Expr {
	if e.kind == KindDerivative {
		return e.args[0]
	}
	return nil
}

func (e *Expr) IsNumber() bool { return e.kind == KindNumber }
func (e *Expr) IsZero() bool   { return e.kind == KindNumber && e.num == 0 }
func (e *Expr) IsOne() bool    { return e.kind == KindNumber && e.num == 1 }

func (e *Expr) isNum(v float64) bool { return e.kind == KindNumber && e.num == v }

func (e *Expr) isSym(s Symbol) bool { return e.kind == KindSymbol && e.sym.id == s.id }

func (e *Expr) isFunc(name string, arity int) bool {
	return e.kind == KindFunc && e.name == name && len(e.args) == arity
}

// Equal reports structural equality. Hashes reject most mismatches
// before any recursion happens.
func (e *Expr) Equal(o *Expr) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	if e.hash != o.hash || e.kind != o.kind {
		return false
	}
	switch e.kind {
	case KindNumber:
		return numEqual(e.num, o.num)
	case KindSymbol:
		return e.sym.id == o.sym.id
	case KindFunc:
		if e.name != o.name {
			return false
		}
	case KindDerivative:
		if e.sym.id != o.sym.id || e.order != o.order {
			return false
		}
	case KindPoly:
		if !slices.Equal(e.terms, o.terms) {
			return false
		}
	}
	if len(e.args) != len(o.args) {
		return false
	}
	for i := range e.args {
		if !e.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func numEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// isInteger reports whether v is an integer exactly representable as int64.
func isInteger(v float64) bool {
	return v == math.Trunc(v) && math.Abs(v) < 1<<53
}

// ============================================================
// Constructors
// ============================================================

func newNode(kind ExprKind, args ...*Expr) *Expr {
	e := &Expr{kind: kind, args: args}
	e.hash = hashExpr(e)
	return e
}

// N returns a numeric leaf. Negative zero is normalized to zero.
func N(v float64) *Expr {
	if v == 0 {
		v = 0
	}
	e := &Expr{kind: KindNumber, num: v}
	e.hash = hashExpr(e)
	return e
}

// S interns name and returns the symbol leaf.
func S(name string) *Expr { return SymOf(Intern(name)) }

func SymOf(s Symbol) *Expr {
	e := &Expr{kind: KindSymbol, sym: s}
	e.hash = hashExpr(e)
	return e
}

// AddOf builds an N-ary sum: nested sums are flattened, numeric terms
// folded into one leading constant, and the rest canonically sorted.
func AddOf(terms ...*Expr) *Expr {
	rest, acc, folded := foldNumbers(flatten(KindSum, terms), 0, func(a, b float64) float64 { return a + b })
	if folded && acc != 0 {
		rest = append(rest, N(acc))
	}
	switch len(rest) {
	case 0:
		return N(0)
	case 1:
		return rest[0]
	}
	slices.SortStableFunc(rest, Compare)
	return newNode(KindSum, rest...)
}

// MulOf builds an N-ary product. A zero coefficient collapses the whole
// product and a unit coefficient is dropped.
func MulOf(factors ...*Expr) *Expr {
	rest, acc, folded := foldNumbers(flatten(KindProduct, factors), 1, func(a, b float64) float64 { return a * b })
	if folded {
		if acc == 0 {
			return N(0)
		}
		if acc != 1 {
			rest = append(rest, N(acc))
		}
	}
	switch len(rest) {
	case 0:
		return N(1)
	case 1:
		return rest[0]
	}
	slices.SortStableFunc(rest, Compare)
	return newNode(KindProduct, rest...)
}

func flatten(kind ExprKind, items []*Expr) []*Expr {
	out := make([]*Expr, 0, len(items))
	for _, it := range items {
		if it.kind == kind {
			out = append(out, it.args...)
			continue
		}
		out = append(out, it)
	}
	return out
}

// foldNumbers pulls numeric leaves out of items and combines them with op.
// When the combined value is not finite the leaves are kept as they were.
func foldNumbers(items []*Expr, identity float64, op func(a, b float64) float64) ([]*Expr, float64, bool) {
	var nums []*Expr
	rest := make([]*Expr, 0, len(items)+1)
	acc := identity
	for _, it := range items {
		if it.kind == KindNumber {
			nums = append(nums, it)
			acc = op(acc, it.num)
			continue
		}
		rest = append(rest, it)
	}
	if len(nums) == 0 {
		return rest, identity, false
	}
	if !isFinite(acc) {
		return append(rest, nums...), identity, false
	}
	return rest, acc, true
}

func DivOf(num, den *Expr) *Expr { return newNode(KindDiv, num, den) }

func PowOf(base, exp *Expr) *Expr { return newNode(KindPow, base, exp) }

func FuncOf(name string, args ...*Expr) *Expr {
	e := &Expr{kind: KindFunc, name: name, args: append([]*Expr(nil), args...)}
	e.hash = hashExpr(e)
	return e
}

// DerivOf builds an unevaluated derivative marker. Markers on the same
// variable merge into one with the summed order.
func DerivOf(inner *Expr, v Symbol, order uint32) *Expr {
	if order == 0 {
		return inner
	}
	if inner.kind == KindDerivative && inner.sym.id == v.id {
		order += inner.order
		inner = inner.args[0]
	}
	e := &Expr{kind: KindDerivative, sym: v, order: order, args: []*Expr{inner}}
	e.hash = hashExpr(e)
	return e
}

func NegOf(e *Expr) *Expr {
	if e.kind == KindNumber {
		return N(-e.num)
	}
	return MulOf(N(-1), e)
}

func SubOf(a, b *Expr) *Expr { return AddOf(a, NegOf(b)) }

func SinOf(arg *Expr) *Expr  { return FuncOf("sin", arg) }
func CosOf(arg *Expr) *Expr  { return FuncOf("cos", arg) }
func TanOf(arg *Expr) *Expr  { return FuncOf("tan", arg) }
func ExpOf(arg *Expr) *Expr  { return FuncOf("exp", arg) }
func LnOf(arg *Expr) *Expr   { return FuncOf("ln", arg) }
func SqrtOf(arg *Expr) *Expr { return FuncOf("sqrt", arg) }
func CbrtOf(arg *Expr) *Expr { return FuncOf("cbrt", arg) }
func AbsOf(arg *Expr) *Expr  { return FuncOf("abs", arg) }
func SinhOf(arg *Expr) *Expr { return FuncOf("sinh", arg) }
func CoshOf(arg *Expr) *Expr { return FuncOf("cosh", arg) }
func TanhOf(arg *Expr) *Expr { return FuncOf("tanh", arg) }

// rebuild constructs a node of e's kind over new children so the
// constructor normalizations run again.
func rebuild(e *Expr, args []*Expr) *Expr {
	switch e.kind {
	case KindSum:
		return AddOf(args...)
	case KindProduct:
		return MulOf(args...)
	case KindFunc:
		return FuncOf(e.name, args...)
	case KindPow:
		return PowOf(args[0], args[1])
	case KindDiv:
		return DivOf(args[0], args[1])
	case KindDerivative:
		return DerivOf(args[0], e.sym, e.order)
	case KindPoly:
		return PolyOf(args[0], e.terms)
	}
	return e
}

func sameChildren(a, b []*Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// constantValue resolves the named constants pi and e. Lookup goes by
// name so constants survive ClearSymbols.
func constantValue(s Symbol) (float64, bool) {
	switch s.name {
	case "pi":
		return math.Pi, true
	case "e":
		return math.E, true
	}
	return 0, false
}
