package gosymbolic_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gosymbolic"
)

func callTool(t *testing.T, tool string, params map[string]interface{}) gosymbolic.ToolResponse {
	t.Helper()
	return gosymbolic.HandleToolCall(gosymbolic.ToolRequest{Tool: tool, Params: params})
}

func evalAt(t *testing.T, formula string, env map[string]float64) float64 {
	t.Helper()
	v, err := gosymbolic.Evaluate(formula, env)
	require.NoError(t, err, formula)
	return v
}

func TestTool_Simplify(t *testing.T) {
	resp := callTool(t, "simplify", map[string]interface{}{"expr": "1/2 + 1/3"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "5/6", resp.String)
	assert.Equal(t, `\frac{5}{6}`, resp.LaTeX)
	assert.NotNil(t, resp.Result)
}

func TestTool_Diff(t *testing.T) {
	resp := callTool(t, "diff", map[string]interface{}{"expr": "x^3", "var": "x"})
	require.Empty(t, resp.Error)
	assert.InDelta(t, 12.0, evalAt(t, resp.String, map[string]float64{"x": 2}), 1e-12)

	resp = callTool(t, "diff", map[string]interface{}{"expr": "x^3", "var": "x", "n": 2.0})
	require.Empty(t, resp.Error)
	assert.InDelta(t, 12.0, evalAt(t, resp.String, map[string]float64{"x": 2}), 1e-12)

	resp = callTool(t, "diff", map[string]interface{}{"expr": "x", "var": "x", "n": -1.0})
	assert.Equal(t, gosymbolic.CodeInvalidInput, resp.Code)

	resp = callTool(t, "diff", map[string]interface{}{"expr": "x*y", "var": "x", "fixed": []interface{}{"x"}})
	assert.Equal(t, gosymbolic.CodeFixedAndDiff, resp.Code)
}

func TestTool_Eval(t *testing.T) {
	resp := callTool(t, "eval", map[string]interface{}{
		"expr": "x*y",
		"env":  map[string]interface{}{"x": 2.0, "y": 3.0},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, 6.0, resp.Result)

	resp = callTool(t, "eval", map[string]interface{}{"expr": "1/x", "env": map[string]interface{}{"x": 0.0}})
	require.Empty(t, resp.Error)
	assert.Nil(t, resp.Result)
	assert.Equal(t, "Inf", resp.String)

	resp = callTool(t, "eval", map[string]interface{}{"expr": "x"})
	assert.Equal(t, gosymbolic.CodeUnboundVariable, resp.Code)
}

func TestTool_CompileEval(t *testing.T) {
	resp := callTool(t, "compile_eval", map[string]interface{}{
		"expr":   "x^2 + y",
		"vars":   []interface{}{"x", "y"},
		"points": []interface{}{[]interface{}{1.0, 2.0}, []interface{}{3.0, 4.0}},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, []interface{}{3.0, 13.0}, resp.Result)
	assert.Equal(t, "3, 13", resp.String)

	resp = callTool(t, "compile_eval", map[string]interface{}{
		"expr":   "x",
		"vars":   []interface{}{"x"},
		"points": []interface{}{[]interface{}{1.0, 2.0}},
	})
	assert.Equal(t, gosymbolic.CodeInvalidInput, resp.Code)
}

func TestTool_Calculus(t *testing.T) {
	resp := callTool(t, "gradient", map[string]interface{}{"expr": "x*y", "vars": []interface{}{"x", "y"}})
	require.Empty(t, resp.Error)
	assert.Equal(t, []string{"y", "x"}, resp.Result)

	resp = callTool(t, "hessian", map[string]interface{}{"expr": "x*y", "vars": []interface{}{"x", "y"}})
	require.Empty(t, resp.Error)
	entries := resp.Result.(map[string]interface{})["entries"]
	assert.Equal(t, [][]string{{"0", "1"}, {"1", "0"}}, entries)

	resp = callTool(t, "jacobian", map[string]interface{}{
		"exprs": []interface{}{"x*y", "x + y"},
		"vars":  []interface{}{"x", "y"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "[[y, x], [1, 1]]", resp.String)

	resp = callTool(t, "divergence", map[string]interface{}{
		"exprs": []interface{}{"x^2", "y"},
		"vars":  []interface{}{"x", "y"},
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x + 1", resp.String)

	resp = callTool(t, "laplacian", map[string]interface{}{"expr": "x^2 + y^2", "vars": []interface{}{"x", "y"}})
	require.Empty(t, resp.Error)
	assert.Equal(t, "4", resp.String)

	resp = callTool(t, "taylor", map[string]interface{}{"expr": "exp(x)", "var": "x", "order": 2.0})
	require.Empty(t, resp.Error)
	assert.InDelta(t, 1.105, evalAt(t, resp.String, map[string]float64{"x": 0.1}), 1e-12)
}

func TestTool_Verify(t *testing.T) {
	resp := callTool(t, "verify", map[string]interface{}{"expr": "x + x"})
	require.Empty(t, resp.Error)
	result := resp.Result.(map[string]interface{})
	assert.Equal(t, true, result["equivalent"])
	assert.Equal(t, "2*x", result["simplified"])

	resp = callTool(t, "verify", map[string]interface{}{"expr": "x + x", "simplified": "3*x"})
	require.Empty(t, resp.Error)
	result = resp.Result.(map[string]interface{})
	assert.Equal(t, false, result["equivalent"])
	assert.Contains(t, result["detail"], "equivalence check failed")
}

func TestTool_Rendering(t *testing.T) {
	resp := callTool(t, "latex", map[string]interface{}{"expr": "x/2"})
	assert.Equal(t, `\frac{x}{2}`, resp.Result)

	resp = callTool(t, "unicode", map[string]interface{}{"expr": "x^2"})
	assert.Equal(t, "x²", resp.String)

	resp = callTool(t, "free_symbols", map[string]interface{}{"expr": "x + y*pi"})
	assert.Equal(t, []string{"pi", "x", "y"}, resp.Result)

	resp = callTool(t, "substitute", map[string]interface{}{"expr": "x^2 + 1", "var": "x", "value": "3"})
	require.Empty(t, resp.Error)
	assert.Equal(t, "10", resp.String)

	resp = callTool(t, "parse", map[string]interface{}{"expr": map[string]interface{}{"type": "sym", "name": "x"}})
	require.Empty(t, resp.Error)
	assert.Equal(t, "x", resp.String)
}

func TestTool_Errors(t *testing.T) {
	cases := []struct {
		tool   string
		params map[string]interface{}
		code   gosymbolic.ErrorCode
	}{
		{"nope", map[string]interface{}{"expr": "x"}, gosymbolic.CodeUnsupported},
		{"simplify", map[string]interface{}{}, gosymbolic.CodeInvalidInput},
		{"simplify", map[string]interface{}{"expr": 3.0}, gosymbolic.CodeInvalidInput},
		{"simplify", map[string]interface{}{"expr": "x +"}, gosymbolic.CodeUnexpectedEnd},
		{"simplify", map[string]interface{}{"expr": "x", "domain_safe": "yes"}, gosymbolic.CodeInvalidInput},
		{"simplify", map[string]interface{}{"expr": "x", "fixed": "x"}, gosymbolic.CodeInvalidInput},
		{"diff", map[string]interface{}{"expr": "x"}, gosymbolic.CodeInvalidInput},
		{"gradient", map[string]interface{}{"expr": "x", "vars": []interface{}{1.0}}, gosymbolic.CodeInvalidInput},
		{"parse", map[string]interface{}{"expr": map[string]interface{}{"type": "bogus"}}, gosymbolic.CodeInvalidInput},
	}
	for _, c := range cases {
		resp := callTool(t, c.tool, c.params)
		assert.NotEmpty(t, resp.Error, c.tool)
		assert.Equal(t, c.code, resp.Code, "%s %v: %s", c.tool, c.params, resp.Error)
	}
}

func TestMCPToolSpec(t *testing.T) {
	spec := gosymbolic.MCPToolSpec()
	var doc struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(spec), &doc))
	names := make([]string, len(doc.Tools))
	for i, tool := range doc.Tools {
		names[i] = tool.Name
	}
	assert.Contains(t, names, "compile_eval")
	assert.Contains(t, names, "simplify")

	resp := callTool(t, "mcp_spec", nil)
	assert.Equal(t, spec, resp.String)
}

func TestTool_LimitParams(t *testing.T) {
	for _, bad := range []interface{}{0.0, -3.0, 2.5, "10"} {
		for _, key := range []string{"max_depth", "max_nodes", "max_iterations"} {
			resp := callTool(t, "simplify", map[string]interface{}{"expr": "x + x", key: bad})
			assert.Equal(t, gosymbolic.CodeInvalidInput, resp.Code, "%s=%v", key, bad)
		}
	}

	resp := callTool(t, "simplify", map[string]interface{}{
		"expr": "x + x", "max_depth": 1e300, "max_nodes": 1e19, "max_iterations": 50.0,
	})
	require.Empty(t, resp.Error)
	assert.Equal(t, "2*x", resp.String)
}

func TestKnownTool(t *testing.T) {
	for _, name := range gosymbolic.ToolNames() {
		assert.True(t, gosymbolic.KnownTool(name), name)
	}
	assert.True(t, gosymbolic.KnownTool("to_latex"))
	assert.False(t, gosymbolic.KnownTool("nope"))
	assert.Contains(t, gosymbolic.ToolNames(), "simplify")
}

func TestTool_Uncertainty(t *testing.T) {
	resp := callTool(t, "uncertainty", map[string]interface{}{
		"expr": "x*y", "vars": []interface{}{"x", "y"}, "variances": []interface{}{0.04, 0.09},
	})
	require.Empty(t, resp.Error)
	assert.InDelta(t, math.Sqrt(0.72), evalAt(t, resp.String, map[string]float64{"x": 2, "y": 3}), 1e-9)

	resp = callTool(t, "uncertainty", map[string]interface{}{
		"expr": "x*y", "vars": []interface{}{"x", "y"}, "variances": []interface{}{0.04, "0.09"}, "relative": true,
	})
	require.Empty(t, resp.Error)
	assert.InDelta(t, math.Sqrt(0.02), evalAt(t, resp.String, map[string]float64{"x": 2, "y": 3}), 1e-9)

	resp = callTool(t, "uncertainty", map[string]interface{}{
		"expr": "x*y", "vars": []interface{}{"x", "y"}, "variances": []interface{}{0.04},
	})
	assert.Equal(t, gosymbolic.CodeInvalidInput, resp.Code)
}
