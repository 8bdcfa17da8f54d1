package gosymbolic

import "math"

// ============================================================
// Equivalence verification
// ============================================================

// Verifier checks a simplification by sampling, not by proof: both trees
// are evaluated at a fixed set of points and must agree within Tol
// wherever both are finite.
//
// Constant folding drops the sign of zero, so atan2 evaluates a zero
// argument as +0. atan2(0, x) for x < 0 is therefore pi in every
// evaluator even when IEEE arithmetic would produce -0 and -pi.
type Verifier struct {
	Points []float64
	Tol    float64
}

func NewVerifier() *Verifier {
	return &Verifier{Points: []float64{-2, -1, 0, 1, 2}, Tol: 1e-6}
}

// Verify returns an *EquivalenceError for the first sample where orig and
// simp disagree. With several free variables, variable i takes
// Points[(k+i) mod len(Points)] at sample k, so distinct variables are not
// always bound to the same value.
func (v *Verifier) Verify(orig, simp *Expr, opts ...Option) error {
	vars := unionVariables(freeVariables(orig), freeVariables(simp))
	if len(v.Points) == 0 {
		return nil
	}
	for k := range v.Points {
		env := make(map[string]float64, len(vars))
		for i, name := range vars {
			env[name] = v.Points[(k+i)%len(v.Points)]
		}
		a, errA := orig.Eval(env, opts...)
		b, errB := simp.Eval(env, opts...)
		if errA != nil || errB != nil || !isFinite(a) || !isFinite(b) {
			continue
		}
		if math.Abs(a-b) > v.Tol*math.Max(1, math.Abs(a)) {
			return &EquivalenceError{Point: env, Original: a, Simplified: b}
		}
	}
	return nil
}

func unionVariables(a, b []Symbol) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var names []string
	for _, list := range [][]Symbol{a, b} {
		for _, s := range list {
			if s.name == "" || seen[s.name] {
				continue
			}
			seen[s.name] = true
			names = append(names, s.name)
		}
	}
	return names
}

// SimplifyVerified simplifies e and checks the result with the default
// Verifier. On a mismatch the simplified tree is still returned alongside
// the *EquivalenceError so callers can fall back to e.
func SimplifyVerified(e *Expr, opts ...Option) (*Expr, error) {
	out, err := SimplifyExpr(e, opts...)
	if err != nil {
		return nil, err
	}
	if err := NewVerifier().Verify(e, out, opts...); err != nil {
		return out, err
	}
	return out, nil
}
