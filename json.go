package gosymbolic

import (
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// ============================================================
// JSON serialization
// ============================================================

var jsonx = jsoniter.Config{
	IndentionStep:          2,
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// exprJSON is the wire form: an object tagged by "type" with the fields
// of that node kind. Numbers travel as strings so NaN and Inf survive.
type exprJSON struct {
	Type    string         `json:"type"`
	Value   string         `json:"value,omitempty"`
	Name    string         `json:"name,omitempty"`
	Terms   []*exprJSON    `json:"terms,omitempty"`
	Factors []*exprJSON    `json:"factors,omitempty"`
	Num     *exprJSON      `json:"num,omitempty"`
	Den     *exprJSON      `json:"den,omitempty"`
	Base    *exprJSON      `json:"base,omitempty"`
	Exp     *exprJSON      `json:"exp,omitempty"`
	Args    []*exprJSON    `json:"args,omitempty"`
	Inner   *exprJSON      `json:"inner,omitempty"`
	Var     string         `json:"var,omitempty"`
	Order   uint32         `json:"order,omitempty"`
	Coeffs  []polyTermJSON `json:"coeffs,omitempty"`
}

type polyTermJSON struct {
	Pow   uint32 `json:"pow"`
	Coeff string `json:"coeff"`
}

func formatJSONNumber(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// ToJSON encodes e. Anonymous symbols have no name and cannot be encoded.
func ToJSON(e *Expr) (string, error) {
	b, err := MarshalExpr(e)
	return string(b), err
}

func MarshalExpr(e *Expr) ([]byte, error) {
	n, err := toJSONNode(e)
	if err != nil {
		return nil, err
	}
	b, err := jsonx.Marshal(n)
	return b, errors.Wrap(err, "encode expression")
}

func toJSONNode(e *Expr) (*exprJSON, error) {
	list := func(items []*Expr) ([]*exprJSON, error) {
		out := make([]*exprJSON, len(items))
		for i, it := range items {
			n, err := toJSONNode(it)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	var err error
	n := &exprJSON{}
	switch e.kind {
	case KindNumber:
		n.Type, n.Value = "num", formatJSONNumber(e.num)
	case KindSymbol:
		if e.sym.IsAnonymous() {
			return nil, errInvalidInput("anonymous symbol %s cannot be serialized", e.sym)
		}
		n.Type, n.Name = "sym", e.sym.name
	case KindSum:
		n.Type = "add"
		n.Terms, err = list(e.args)
	case KindProduct:
		n.Type = "mul"
		n.Factors, err = list(e.args)
	case KindDiv:
		n.Type = "div"
		if n.Num, err = toJSONNode(e.args[0]); err == nil {
			n.Den, err = toJSONNode(e.args[1])
		}
	case KindPow:
		n.Type = "pow"
		if n.Base, err = toJSONNode(e.args[0]); err == nil {
			n.Exp, err = toJSONNode(e.args[1])
		}
	case KindFunc:
		n.Type, n.Name = "func", e.name
		n.Args, err = list(e.args)
	case KindDerivative:
		if e.sym.IsAnonymous() {
			return nil, errInvalidInput("anonymous symbol %s cannot be serialized", e.sym)
		}
		n.Type, n.Var, n.Order = "deriv", e.sym.name, e.order
		n.Inner, err = toJSONNode(e.args[0])
	case KindPoly:
		n.Type = "poly"
		n.Base, err = toJSONNode(e.args[0])
		for _, t := range e.terms {
			n.Coeffs = append(n.Coeffs, polyTermJSON{Pow: t.Pow, Coeff: formatJSONNumber(t.Coeff)})
		}
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// FromJSON decodes the form written by ToJSON. Sums and products are
// rebuilt through the constructors, so the result is canonical even if
// the input was not.
func FromJSON(data []byte) (*Expr, error) {
	var n exprJSON
	if err := jsonx.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "decode expression")
	}
	return fromJSONNode(&n)
}

// FromJSONValue decodes an already-unmarshalled JSON value, such as a
// tool parameter.
func FromJSONValue(v interface{}) (*Expr, error) {
	b, err := jsonx.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "re-encode expression")
	}
	return FromJSON(b)
}

func fromJSONNode(n *exprJSON) (*Expr, error) {
	if n == nil {
		return nil, errInvalidInput("expression must be an object")
	}
	child := func(field string, c *exprJSON) (*Expr, error) {
		if c == nil {
			return nil, errInvalidInput("%s: missing %q", n.Type, field)
		}
		e, err := fromJSONNode(c)
		return e, errors.Wrapf(err, "%s: %s", n.Type, field)
	}
	list := func(field string, items []*exprJSON) ([]*Expr, error) {
		out := make([]*Expr, len(items))
		for i, it := range items {
			e, err := fromJSONNode(it)
			if err != nil {
				return nil, errors.Wrapf(err, "%s: %s[%d]", n.Type, field, i)
			}
			out[i] = e
		}
		return out, nil
	}
	number := func(field, s string) (float64, error) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errInvalidInput("%s: %q is not a number: %q", n.Type, field, s)
		}
		return v, nil
	}
	switch n.Type {
	case "num":
		v, err := number("value", n.Value)
		if err != nil {
			return nil, err
		}
		return N(v), nil
	case "sym":
		if n.Name == "" {
			return nil, errInvalidInput("sym: 'name' must be a non-empty string")
		}
		return S(n.Name), nil
	case "add", "mul":
		field, items := "terms", n.Terms
		if n.Type == "mul" {
			field, items = "factors", n.Factors
		}
		if len(items) == 0 {
			return nil, errInvalidInput("%s: %q must be a non-empty array", n.Type, field)
		}
		args, err := list(field, items)
		if err != nil {
			return nil, err
		}
		if n.Type == "add" {
			return AddOf(args...), nil
		}
		return MulOf(args...), nil
	case "div", "pow":
		fa, fb, a, b := "num", "den", n.Num, n.Den
		if n.Type == "pow" {
			fa, fb, a, b = "base", "exp", n.Base, n.Exp
		}
		x, err := child(fa, a)
		if err != nil {
			return nil, err
		}
		y, err := child(fb, b)
		if err != nil {
			return nil, err
		}
		if n.Type == "div" {
			return DivOf(x, y), nil
		}
		return PowOf(x, y), nil
	case "func":
		if n.Name == "" {
			return nil, errInvalidInput("func: 'name' must be a non-empty string")
		}
		args, err := list("args", n.Args)
		if err != nil {
			return nil, err
		}
		return FuncOf(n.Name, args...), nil
	case "deriv":
		if n.Var == "" || n.Order == 0 {
			return nil, errInvalidInput("deriv: needs 'var' and a positive 'order'")
		}
		inner, err := child("inner", n.Inner)
		if err != nil {
			return nil, err
		}
		return DerivOf(inner, Intern(n.Var), n.Order), nil
	case "poly":
		base, err := child("base", n.Base)
		if err != nil {
			return nil, err
		}
		terms := make([]PolyTerm, len(n.Coeffs))
		for i, t := range n.Coeffs {
			c, err := number("coeff", t.Coeff)
			if err != nil {
				return nil, err
			}
			terms[i] = PolyTerm{Pow: t.Pow, Coeff: c}
		}
		return PolyOf(base, terms), nil
	case "":
		return nil, errInvalidInput("missing 'type' field")
	}
	return nil, errInvalidInput("unknown expression type: %s", n.Type)
}
