package gosymbolic

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// ============================================================
// Tool interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
	// Code is the ErrorCode when Error came from the engine.
	Code ErrorCode `json:"code,omitempty"`
}

func toolError(err error) ToolResponse {
	resp := ToolResponse{Error: err.Error()}
	var e *Error
	if errors.As(err, &e) {
		resp.Code = e.Code
	}
	return resp
}

// jsonFloat maps NaN and Inf, which JSON cannot carry, to null.
func jsonFloat(v float64) interface{} {
	if !isFinite(v) {
		return nil
	}
	return v
}

type toolParams map[string]interface{}

func (p toolParams) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p toolParams) str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", errInvalidInput("missing param: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errInvalidInput("param %s must be a string", key)
	}
	return s, nil
}

func (p toolParams) strs(key string) ([]string, error) {
	raw, ok := p[key].([]interface{})
	if !ok {
		return nil, errInvalidInput("param %s must be an array of strings", key)
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		s, ok := r.(string)
		if !ok {
			return nil, errInvalidInput("param %s[%d] must be a string", key, i)
		}
		out[i] = s
	}
	return out, nil
}

func (p toolParams) symbols(key string) ([]Symbol, error) {
	names, err := p.strs(key)
	if err != nil {
		return nil, err
	}
	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = Intern(n)
	}
	return out, nil
}

func (p toolParams) number(key string, def float64) (float64, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, errInvalidInput("param %s must be a number", key)
	}
	return f, nil
}

// expr reads an expression given either as formula text or as the JSON
// object form.
func (p toolParams) expr(key string, opts []Option) (*Expr, error) {
	v, ok := p[key]
	if !ok {
		return nil, errInvalidInput("missing param: %s", key)
	}
	return exprParam(key, v, opts)
}

func exprParam(key string, v interface{}, opts []Option) (*Expr, error) {
	switch val := v.(type) {
	case string:
		return Parse(val, opts...)
	case map[string]interface{}:
		e, err := FromJSONValue(val)
		return e, errors.Wrapf(err, "param %s", key)
	}
	return nil, errInvalidInput("param %s must be a formula string or expression object", key)
}

// variances reads an optional array of per-variable variances, given as
// numbers or expressions. Absent means symbolic sigma_<name>^2.
func (p toolParams) variances(key string, opts []Option) (*CovarianceMatrix, error) {
	if !p.has(key) {
		return nil, nil
	}
	raw, ok := p[key].([]interface{})
	if !ok {
		return nil, errInvalidInput("param %s must be an array", key)
	}
	entries := make([]CovEntry, len(raw))
	for i, r := range raw {
		if f, ok := r.(float64); ok {
			entries[i] = CovNum(f)
			continue
		}
		e, err := exprParam(fmt.Sprintf("%s[%d]", key, i), r, opts)
		if err != nil {
			return nil, err
		}
		entries[i] = CovExpr(e)
	}
	return DiagonalCovariance(entries...), nil
}

func (p toolParams) exprs(key string, opts []Option) ([]*Expr, error) {
	raw, ok := p[key].([]interface{})
	if !ok {
		return nil, errInvalidInput("param %s must be an array of expressions", key)
	}
	out := make([]*Expr, len(raw))
	for i, r := range raw {
		e, err := exprParam(fmt.Sprintf("%s[%d]", key, i), r, opts)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// options reads domain_safe, fixed, max_depth, max_nodes and
// max_iterations.
func (p toolParams) options() ([]Option, error) {
	var opts []Option
	if v, ok := p["domain_safe"]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, errInvalidInput("param domain_safe must be a boolean")
		}
		opts = append(opts, DomainSafe(b))
	}
	if p.has("fixed") {
		names, err := p.strs("fixed")
		if err != nil {
			return nil, err
		}
		opts = append(opts, FixedVars(names...))
	}
	for _, l := range toolLimits {
		if !p.has(l.key) {
			continue
		}
		n, err := p.number(l.key, 0)
		if err != nil {
			return nil, err
		}
		if n <= 0 || n != math.Trunc(n) {
			return nil, errInvalidInput("param %s must be a positive integer, got %v", l.key, n)
		}
		if n > float64(l.ceiling) {
			n = float64(l.ceiling)
		}
		opts = append(opts, l.opt(int(n)))
	}
	return opts, nil
}

// Requested limits above these ceilings are clamped.
const (
	ToolMaxDepth      = 10 * DefaultMaxDepth
	ToolMaxNodes      = 100 * DefaultMaxNodes
	ToolMaxIterations = 10 * DefaultMaxIterations
)

var toolLimits = []struct {
	key     string
	ceiling int
	opt     func(int) Option
}{
	{"max_depth", ToolMaxDepth, MaxDepth},
	{"max_nodes", ToolMaxNodes, MaxNodes},
	{"max_iterations", ToolMaxIterations, MaxIterations},
}

func respondExpr(e *Expr) ToolResponse {
	n, err := toJSONNode(e)
	if err != nil {
		return toolError(err)
	}
	return ToolResponse{Result: n, LaTeX: e.LaTeX(), String: e.String()}
}

func respondExprs(es []*Expr) ToolResponse {
	strs := make([]string, len(es))
	tex := make([]string, len(es))
	for i, e := range es {
		strs[i] = e.String()
		tex[i] = e.LaTeX()
	}
	return ToolResponse{Result: strs, String: "[" + strings.Join(strs, ", ") + "]", LaTeX: strings.Join(tex, ", ")}
}

func respondMatrix(m *Matrix) ToolResponse {
	cells := make([][]string, m.rows)
	for i := range cells {
		cells[i] = make([]string, m.cols)
		for j := range cells[i] {
			cells[i][j] = m.Get(i, j).String()
		}
	}
	return ToolResponse{
		Result: map[string]interface{}{"rows": m.rows, "cols": m.cols, "entries": cells},
		LaTeX:  m.LaTeX(),
		String: m.String(),
	}
}

// HandleToolCall runs one tool request. Failures are reported in the
// response, never as a panic.
func HandleToolCall(req ToolRequest) ToolResponse {
	p := toolParams(req.Params)
	opts, err := p.options()
	if err != nil {
		return toolError(err)
	}
	resp, err := runTool(req.Tool, p, opts)
	if err != nil {
		return toolError(err)
	}
	return resp
}

func runTool(tool string, p toolParams, opts []Option) (ToolResponse, error) {
	switch tool {
	case "mcp_spec":
		return ToolResponse{String: MCPToolSpec()}, nil
	case "jacobian", "divergence":
		fs, err := p.exprs("exprs", opts)
		if err != nil {
			return ToolResponse{}, err
		}
		vars, err := p.symbols("vars")
		if err != nil {
			return ToolResponse{}, err
		}
		if tool == "jacobian" {
			m, err := Jacobian(fs, vars, opts...)
			if err != nil {
				return ToolResponse{}, err
			}
			return respondMatrix(m), nil
		}
		d, err := Divergence(fs, vars, opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(d), nil
	}

	e, err := p.expr("expr", opts)
	if err != nil {
		return ToolResponse{}, err
	}
	switch tool {
	case "parse":
		return respondExpr(e), nil
	case "simplify":
		out, err := SimplifyExpr(e, opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(out), nil
	case "diff":
		v, err := p.str("var")
		if err != nil {
			return ToolResponse{}, err
		}
		n, err := p.number("n", 1)
		if err != nil {
			return ToolResponse{}, err
		}
		if n < 0 {
			return ToolResponse{}, errInvalidInput("param n must be >= 0")
		}
		d, err := DeriveN(e, Intern(v), int(n), opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		out, err := SimplifyExpr(d, opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(out), nil
	case "gradient", "hessian", "laplacian":
		vars, err := p.symbols("vars")
		if err != nil {
			return ToolResponse{}, err
		}
		switch tool {
		case "gradient":
			g, err := Gradient(e, vars, opts...)
			if err != nil {
				return ToolResponse{}, err
			}
			return respondExprs(g), nil
		case "hessian":
			h, err := Hessian(e, vars, opts...)
			if err != nil {
				return ToolResponse{}, err
			}
			return respondMatrix(h), nil
		}
		l, err := Laplacian(e, vars, opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(l), nil
	case "uncertainty":
		vars, err := p.symbols("vars")
		if err != nil {
			return ToolResponse{}, err
		}
		cov, err := p.variances("variances", opts)
		if err != nil {
			return ToolResponse{}, err
		}
		fn := UncertaintyPropagation
		if rel, _ := p["relative"].(bool); rel {
			fn = RelativeUncertainty
		}
		out, err := fn(e, vars, cov, opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(out), nil
	case "taylor":
		v, err := p.str("var")
		if err != nil {
			return ToolResponse{}, err
		}
		at := N(0)
		if p.has("around") {
			if at, err = p.expr("around", opts); err != nil {
				return ToolResponse{}, err
			}
		}
		order, err := p.number("order", 5)
		if err != nil {
			return ToolResponse{}, err
		}
		s, err := TaylorSeries(e, Intern(v), at, int(order), opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(s), nil
	case "eval":
		env, err := p.env("env")
		if err != nil {
			return ToolResponse{}, err
		}
		v, err := e.Eval(env, opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return ToolResponse{Result: jsonFloat(v), String: formatNumber(v)}, nil
	case "compile_eval":
		return compileEvalTool(e, p, opts)
	case "verify":
		simp, err := SimplifyExpr(e, opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		if p.has("simplified") {
			if simp, err = p.expr("simplified", opts); err != nil {
				return ToolResponse{}, err
			}
		}
		verr := NewVerifier().Verify(e, simp, opts...)
		result := map[string]interface{}{"equivalent": verr == nil, "simplified": simp.String()}
		if verr != nil {
			result["detail"] = verr.Error()
		}
		return ToolResponse{Result: result, String: simp.String(), LaTeX: simp.LaTeX()}, nil
	case "latex", "to_latex":
		return ToolResponse{Result: e.LaTeX(), LaTeX: e.LaTeX(), String: e.String()}, nil
	case "unicode":
		return ToolResponse{Result: e.Unicode(), String: e.Unicode()}, nil
	case "free_symbols":
		syms := FreeSymbols(e)
		names := make([]string, len(syms))
		for i, s := range syms {
			names[i] = s.String()
		}
		return ToolResponse{Result: names, String: strings.Join(names, ", ")}, nil
	case "substitute":
		v, err := p.str("var")
		if err != nil {
			return ToolResponse{}, err
		}
		val, err := p.expr("value", opts)
		if err != nil {
			return ToolResponse{}, err
		}
		out, err := SimplifyExpr(Substitute(e, Intern(v), val), opts...)
		if err != nil {
			return ToolResponse{}, err
		}
		return respondExpr(out), nil
	}
	return ToolResponse{}, errUnsupported("unknown tool: %s", tool)
}

func (p toolParams) env(key string) (map[string]float64, error) {
	raw, ok := p[key]
	if !ok {
		return nil, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errInvalidInput("param %s must be an object of numbers", key)
	}
	env := make(map[string]float64, len(m))
	for k, v := range m {
		f, ok := v.(float64)
		if !ok {
			return nil, errInvalidInput("param %s.%s must be a number", key, k)
		}
		env[k] = f
	}
	return env, nil
}

// compileEvalTool compiles expr over vars and evaluates it at every row
// of points through the batched executor.
func compileEvalTool(e *Expr, p toolParams, opts []Option) (ToolResponse, error) {
	vars, err := p.strs("vars")
	if err != nil {
		return ToolResponse{}, err
	}
	prog, err := Compile(e, vars, opts...)
	if err != nil {
		return ToolResponse{}, err
	}
	rows, ok := p["points"].([]interface{})
	if !ok {
		return ToolResponse{}, errInvalidInput("param points must be an array of number arrays")
	}
	columns := make([][]float64, len(vars))
	for i := range columns {
		columns[i] = make([]float64, len(rows))
	}
	for r, raw := range rows {
		row, ok := raw.([]interface{})
		if !ok || len(row) != len(vars) {
			return ToolResponse{}, errInvalidInput("points[%d] must hold %d numbers", r, len(vars))
		}
		for i, v := range row {
			f, ok := v.(float64)
			if !ok {
				return ToolResponse{}, errInvalidInput("points[%d][%d] must be a number", r, i)
			}
			columns[i][r] = f
		}
	}
	out := make([]float64, len(rows))
	if err := prog.EvalBatch(columns, out); err != nil {
		return ToolResponse{}, err
	}
	vals := make([]interface{}, len(out))
	strs := make([]string, len(out))
	for i, v := range out {
		vals[i] = jsonFloat(v)
		strs[i] = formatNumber(v)
	}
	return ToolResponse{Result: vals, String: strings.Join(strs, ", ")}, nil
}

// ============================================================
// Tool schema
// ============================================================

type toolSpec struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema inputSchema `json:"inputSchema"`
}

type inputSchema struct {
	Type       string                       `json:"type"`
	Properties map[string]map[string]string `json:"properties"`
	Required   []string                     `json:"required"`
}

func ts(name, description string, required []string, props map[string]string) toolSpec {
	properties := make(map[string]map[string]string, len(props)+2)
	for k, typ := range props {
		properties[k] = map[string]string{"type": typ}
	}
	properties["domain_safe"] = map[string]string{"type": "boolean"}
	properties["fixed"] = map[string]string{"type": "array"}
	return toolSpec{
		Name:        name,
		Description: description,
		InputSchema: inputSchema{Type: "object", Properties: properties, Required: required},
	}
}

func toolSpecs() []toolSpec {
	return []toolSpec{
		ts("parse", "Parse a formula into an expression object", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("simplify", "Simplify an expression to a fixpoint of the rewrite rules", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("diff", "Derivative d^n/dvar^n, simplified. n defaults to 1", []string{"expr", "var"}, map[string]string{"expr": "string", "var": "string", "n": "integer"}),
		ts("gradient", "Gradient vector of partial derivatives", []string{"expr", "vars"}, map[string]string{"expr": "string", "vars": "array"}),
		ts("hessian", "Hessian matrix of second partials", []string{"expr", "vars"}, map[string]string{"expr": "string", "vars": "array"}),
		ts("laplacian", "Sum of unmixed second partials", []string{"expr", "vars"}, map[string]string{"expr": "string", "vars": "array"}),
		ts("jacobian", "Jacobian matrix of exprs over vars", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}),
		ts("divergence", "Divergence of the field exprs over vars", []string{"exprs", "vars"}, map[string]string{"exprs": "array", "vars": "array"}),
		ts("uncertainty", "Propagated standard deviation sqrt(sum (df/dxi)^2 var_i); relative divides by |f|", []string{"expr", "vars"}, map[string]string{"expr": "string", "vars": "array", "variances": "array", "relative": "boolean"}),
		ts("taylor", "Taylor series around a point (default 0), order defaults to 5", []string{"expr", "var"}, map[string]string{"expr": "string", "var": "string", "around": "string", "order": "integer"}),
		ts("eval", "Evaluate numerically with env {name: value}", []string{"expr"}, map[string]string{"expr": "string", "env": "object"}),
		ts("compile_eval", "Compile to bytecode and evaluate at points [[v1, v2, ...], ...]", []string{"expr", "vars", "points"}, map[string]string{"expr": "string", "vars": "array", "points": "array"}),
		ts("verify", "Simplify, then check equivalence at sample points", []string{"expr"}, map[string]string{"expr": "string", "simplified": "string"}),
		ts("latex", "Render as LaTeX", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("unicode", "Render with Unicode symbols", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("free_symbols", "List free symbol names", []string{"expr"}, map[string]string{"expr": "string"}),
		ts("substitute", "Replace var with value and simplify", []string{"expr", "var", "value"}, map[string]string{"expr": "string", "var": "string", "value": "string"}),
		ts("mcp_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
}

// ToolNames lists the advertised tools in schema order.
func ToolNames() []string {
	specs := toolSpecs()
	names := make([]string, len(specs))
	for i, t := range specs {
		names[i] = t.Name
	}
	return names
}

// KnownTool reports whether HandleToolCall dispatches name. to_latex is
// an alias of latex.
func KnownTool(name string) bool {
	return name == "to_latex" || slices.Contains(ToolNames(), name)
}

// MCPToolSpec returns the JSON schema of every tool. Expressions may be
// passed as formula strings or expression objects.
func MCPToolSpec() string {
	b, err := jsonx.MarshalIndent(map[string]interface{}{"tools": toolSpecs()}, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}
