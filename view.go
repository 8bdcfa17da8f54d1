package gosymbolic

import "strconv"

// ============================================================
// Kind-uniform read-only access
// ============================================================

// ViewKind mirrors ExprKind without the Poly fast path.
type ViewKind uint8

const (
	ViewNumber ViewKind = iota
	ViewSymbol
	ViewSum
	ViewProduct
	ViewDiv
	ViewPow
	ViewFunction
	ViewDerivative
)

var viewKindNames = [...]string{"number", "symbol", "sum", "product", "div", "pow", "function", "derivative"}

func (k ViewKind) String() string {
	if int(k) < len(viewKindNames) {
		return viewKindNames[k]
	}
	return "view(" + strconv.Itoa(int(k)) + ")"
}

// View presents a node uniformly for external consumers. A Poly node is
// expanded on demand and shows up as the equivalent Sum or monomial.
type View struct {
	Kind     ViewKind
	Number   float64
	Symbol   Symbol
	Name     string
	Children []*Expr
	Var      Symbol
	Order    uint32
}

func (e *Expr) View() View {
	switch e.kind {
	case KindNumber:
		return View{Kind: ViewNumber, Number: e.num}
	case KindSymbol:
		return View{Kind: ViewSymbol, Symbol: e.sym}
	case KindSum:
		return View{Kind: ViewSum, Children: e.args}
	case KindProduct:
		return View{Kind: ViewProduct, Children: e.args}
	case KindDiv:
		return View{Kind: ViewDiv, Children: e.args}
	case KindPow:
		return View{Kind: ViewPow, Children: e.args}
	case KindFunc:
		return View{Kind: ViewFunction, Name: e.name, Children: e.args}
	case KindDerivative:
		return View{Kind: ViewDerivative, Children: e.args, Var: e.sym, Order: e.order}
	}
	return ExpandPoly(e).View()
}

// Walk visits e and its descendants depth first through their views.
// Returning false from fn skips the node's children.
func Walk(e *Expr, fn func(*Expr, View) bool) {
	v := e.View()
	if !fn(e, v) {
		return
	}
	for _, c := range v.Children {
		Walk(c, fn)
	}
}
