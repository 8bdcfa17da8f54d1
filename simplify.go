package gosymbolic

import (
	"fmt"

	tmlog "github.com/tendermint/tendermint/libs/log"
	"golang.org/x/exp/slices"
)

// ============================================================
// Rules
// ============================================================

type RuleCategory uint8

const (
	CategoryNumeric RuleCategory = iota
	CategoryAlgebraic
	CategoryTrigonometric
	CategoryHyperbolic
	CategoryExponential
	CategoryRoot
)

var categoryNames = [...]string{"numeric", "algebraic", "trigonometric", "hyperbolic", "exponential", "root"}

func (c RuleCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// RuleContext is handed to every rule application.
type RuleContext struct {
	opts *Options
}

func (rc *RuleContext) lookupFunc(name string) (*FuncDef, bool) { return rc.opts.lookupFunc(name) }

// Rule is a fixed rewrite: Apply returns the rewritten node, or nil
// when the rule does not match.
type Rule struct {
	Name     string
	Category RuleCategory
	// Priority orders rules inside a category; higher runs first.
	Priority int
	// Deps names rules that must run before this one.
	Deps []string
	// AltersDomain marks rewrites valid only on part of the domain.
	// These are skipped when the DomainSafe option is set.
	AltersDomain bool
	// Kinds restricts the rule to these node kinds; empty means all.
	Kinds []ExprKind
	Apply func(e *Expr, rc *RuleContext) *Expr
}

func (r *Rule) matchesKind(k ExprKind) bool {
	return len(r.Kinds) == 0 || slices.Contains(r.Kinds, k)
}

// orderRules sorts by category and priority, then moves rules after
// their dependencies. Among rules that are ready, the earlier in the
// category/priority order goes first.
func orderRules(rules []*Rule) ([]*Rule, error) {
	base := append([]*Rule(nil), rules...)
	slices.SortStableFunc(base, func(a, b *Rule) int {
		if a.Category != b.Category {
			return cmpInt(int(a.Category), int(b.Category))
		}
		return cmpInt(b.Priority, a.Priority)
	})
	index := make(map[string]int, len(base))
	for i, r := range base {
		if _, dup := index[r.Name]; dup {
			return nil, errInvalidInput("duplicate rule '%s'", r.Name)
		}
		index[r.Name] = i
	}
	indeg := make([]int, len(base))
	next := make([][]int, len(base))
	for i, r := range base {
		for _, dep := range r.Deps {
			j, ok := index[dep]
			if !ok {
				return nil, errInvalidInput("rule '%s' depends on unknown rule '%s'", r.Name, dep)
			}
			indeg[i]++
			next[j] = append(next[j], i)
		}
	}
	ordered := make([]*Rule, 0, len(base))
	done := make([]bool, len(base))
	for len(ordered) < len(base) {
		pick := -1
		for i := range base {
			if !done[i] && indeg[i] == 0 {
				pick = i
				break
			}
		}
		if pick < 0 {
			return nil, errInvalidInput("rule dependencies form a cycle")
		}
		done[pick] = true
		ordered = append(ordered, base[pick])
		for _, k := range next[pick] {
			indeg[k]--
		}
	}
	return ordered, nil
}

// ============================================================
// Simplifier
// ============================================================

// SimplifyStats describes the most recent Simplify call.
type SimplifyStats struct {
	Iterations int
	Rewrites   int
	CacheHits  int
	// Exhausted is set when the iteration budget ran out before a fixpoint.
	Exhausted bool
	// Cycle is set when a pass reproduced an earlier tree.
	Cycle bool
}

// Simplifier rewrites expressions to a fixpoint of its rule set. Each
// instance keeps per-rule memo caches and must not be used from several
// goroutines at once.
type Simplifier struct {
	opts   Options
	rules  []*Rule
	caches map[string]*exprMap[*Expr]
	logger tmlog.Logger
	stats  SimplifyStats
}

// NewSimplifier returns a simplifier loaded with the built-in rules.
func NewSimplifier(opts ...Option) *Simplifier {
	s, err := NewSimplifierWithRules(DefaultRules(), opts...)
	if err != nil {
		panic(fmt.Sprintf("gosymbolic: built-in rules are inconsistent: %v", err))
	}
	return s
}

func NewSimplifierWithRules(rules []Rule, opts ...Option) (*Simplifier, error) {
	o := buildOptions(opts)
	s := &Simplifier{
		opts:   o,
		caches: make(map[string]*exprMap[*Expr]),
		logger: o.Logger.With("module", "simplifier"),
	}
	ptrs := make([]*Rule, len(rules))
	for i := range rules {
		r := rules[i]
		ptrs[i] = &r
	}
	ordered, err := orderRules(ptrs)
	if err != nil {
		return nil, err
	}
	s.rules = ordered
	return s, nil
}

// AddRule registers an extra rule and re-derives the rule order.
func (s *Simplifier) AddRule(r Rule) error {
	if r.Apply == nil || r.Name == "" {
		return errInvalidInput("rule needs a name and an Apply function")
	}
	ordered, err := orderRules(append(append([]*Rule(nil), s.rules...), &r))
	if err != nil {
		return err
	}
	s.rules = ordered
	return nil
}

// RuleNames lists the rules in application order.
func (s *Simplifier) RuleNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.Name
	}
	return names
}

func (s *Simplifier) Stats() SimplifyStats { return s.stats }

// Simplify rewrites e until a pass changes nothing, a pass reproduces a
// tree already seen in this call, or the iteration budget runs out. The
// last case is not an error; the tree reached so far is returned and
// Stats().Exhausted is set. The result never holds a Poly.
func (s *Simplifier) Simplify(e *Expr) (*Expr, error) {
	s.stats = SimplifyStats{}
	if err := s.opts.checkNames(); err != nil {
		return nil, err
	}
	if err := checkLimits(e, &s.opts); err != nil {
		return nil, err
	}
	rc := &RuleContext{opts: &s.opts}
	seen := newExprMap[struct{}]()
	seen.put(e, struct{}{})
	cur := e
	for s.stats.Iterations < s.opts.MaxIterations {
		s.stats.Iterations++
		next := s.bottomUp(cur, 1, rc, newExprMap[*Expr]())
		if NodeCount(next) > s.opts.MaxNodes {
			return nil, ErrMaxNodes
		}
		if next.Equal(cur) {
			// Poly is a working form only. Expanding at the fixpoint lets
			// a Poly and its expanded Sum settle on the same tree.
			if ex := expandPolys(next); ex != next {
				cur = ex
				continue
			}
			return next, nil
		}
		if seen.has(next) {
			s.stats.Cycle = true
			s.logger.Debug("rewrite cycle detected", "iteration", s.stats.Iterations, "expr", next.String())
			return expandPolys(next), nil
		}
		seen.put(next, struct{}{})
		cur = next
	}
	s.stats.Exhausted = true
	s.logger.Info("simplification iteration budget exhausted",
		"max_iterations", s.opts.MaxIterations, "expr", cur.String())
	return expandPolys(cur), nil
}

// bottomUp simplifies children first, rebuilds the node, then runs the
// rules on it. Beyond MaxDepth subtrees are returned untouched.
func (s *Simplifier) bottomUp(e *Expr, depth int, rc *RuleContext, pass *exprMap[*Expr]) *Expr {
	if depth > s.opts.MaxDepth {
		return e
	}
	if r, ok := pass.get(e); ok {
		return r
	}
	out := e
	if len(e.args) > 0 {
		args := make([]*Expr, len(e.args))
		for i, c := range e.args {
			args[i] = s.bottomUp(c, depth+1, rc, pass)
		}
		if !sameChildren(args, e.args) {
			out = rebuild(e, args)
		}
	}
	out = s.applyRules(out, rc)
	pass.put(e, out)
	return out
}

func (s *Simplifier) applyRules(e *Expr, rc *RuleContext) *Expr {
	for _, r := range s.rules {
		if !r.matchesKind(e.kind) {
			continue
		}
		if r.AltersDomain && s.opts.DomainSafe {
			continue
		}
		cache, ok := s.caches[r.Name]
		if !ok {
			cache = newExprMap[*Expr]()
			s.caches[r.Name] = cache
		}
		out, hit := cache.get(e)
		if hit {
			s.stats.CacheHits++
		} else {
			out = r.Apply(e, rc)
			cache.put(e, out)
		}
		if out == nil || out.Equal(e) {
			continue
		}
		s.stats.Rewrites++
		if s.opts.Trace {
			s.logger.Debug("rule applied", "rule", r.Name, "from", e.String(), "to", out.String())
		}
		e = out
	}
	return e
}

// CacheSize returns the number of memoized entries for rule name.
func (s *Simplifier) CacheSize(name string) int {
	if c, ok := s.caches[name]; ok {
		return c.len()
	}
	return 0
}

// ClearCaches drops every per-rule memo.
func (s *Simplifier) ClearCaches() {
	s.caches = make(map[string]*exprMap[*Expr])
}

// SimplifyExpr runs a fresh Simplifier over e.
func SimplifyExpr(e *Expr, opts ...Option) (*Expr, error) {
	return NewSimplifier(opts...).Simplify(e)
}
