package gosymbolic

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

// ============================================================
// Tree analysis
// ============================================================

// NodeCount returns the size of e counted as a tree, so a subtree
// shared by two parents counts twice. The count saturates at MaxInt.
func NodeCount(e *Expr) int {
	memo := make(map[*Expr]int)
	var walk func(*Expr) int
	walk = func(n *Expr) int {
		if c, ok := memo[n]; ok {
			return c
		}
		c := 1
		for _, ch := range n.args {
			k := walk(ch)
			if c > math.MaxInt-k {
				c = math.MaxInt
				break
			}
			c += k
		}
		memo[n] = c
		return c
	}
	return walk(e)
}

// Depth returns the nesting depth of e; a leaf has depth 1.
func Depth(e *Expr) int {
	memo := make(map[*Expr]int)
	var walk func(*Expr) int
	walk = func(n *Expr) int {
		if d, ok := memo[n]; ok {
			return d
		}
		d := 0
		for _, ch := range n.args {
			if k := walk(ch); k > d {
				d = k
			}
		}
		memo[n] = d + 1
		return d + 1
	}
	return walk(e)
}

func checkLimits(e *Expr, o *Options) error {
	if Depth(e) > o.MaxDepth {
		return ErrMaxDepth
	}
	if NodeCount(e) > o.MaxNodes {
		return ErrMaxNodes
	}
	return nil
}

// FreeSymbols returns the distinct symbols of e ordered by name.
// Derivative variables count as free.
func FreeSymbols(e *Expr) []Symbol {
	seen := make(map[uint64]Symbol)
	visited := make(map[*Expr]struct{})
	var walk func(*Expr)
	walk = func(n *Expr) {
		if _, ok := visited[n]; ok {
			return
		}
		visited[n] = struct{}{}
		switch n.kind {
		case KindSymbol, KindDerivative:
			seen[n.sym.id] = n.sym
		}
		for _, ch := range n.args {
			walk(ch)
		}
	}
	walk(e)
	out := make([]Symbol, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Symbol) int {
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		return cmpUint64(a.id, b.id)
	})
	return out
}

// freeVariables is FreeSymbols without the named constants.
func freeVariables(e *Expr) []Symbol {
	all := FreeSymbols(e)
	out := all[:0]
	for _, s := range all {
		if _, ok := constantValue(s); !ok {
			out = append(out, s)
		}
	}
	return out
}

// Contains reports whether symbol s occurs in e.
func Contains(e *Expr, s Symbol) bool {
	visited := make(map[*Expr]struct{})
	var walk func(*Expr) bool
	walk = func(n *Expr) bool {
		if n.isSym(s) {
			return true
		}
		if _, ok := visited[n]; ok {
			return false
		}
		visited[n] = struct{}{}
		for _, ch := range n.args {
			if walk(ch) {
				return true
			}
		}
		return false
	}
	return walk(e)
}

// Map rebuilds e bottom-up, replacing every node with fn(node) after its
// children have been mapped. Shared subtrees are mapped once.
func Map(e *Expr, fn func(*Expr) *Expr) *Expr {
	memo := make(map[*Expr]*Expr)
	var walk func(*Expr) *Expr
	walk = func(n *Expr) *Expr {
		if r, ok := memo[n]; ok {
			return r
		}
		out := n
		if len(n.args) > 0 {
			args := make([]*Expr, len(n.args))
			for i, ch := range n.args {
				args[i] = walk(ch)
			}
			if !sameChildren(args, n.args) {
				out = rebuild(n, args)
			}
		}
		out = fn(out)
		memo[n] = out
		return out
	}
	return walk(e)
}

// Substitute replaces every occurrence of s in e with value.
func Substitute(e *Expr, s Symbol, value *Expr) *Expr {
	return SubstituteAll(e, map[Symbol]*Expr{s: value})
}

func SubstituteAll(e *Expr, values map[Symbol]*Expr) *Expr {
	if len(values) == 0 {
		return e
	}
	byID := make(map[uint64]*Expr, len(values))
	for s, v := range values {
		byID[s.id] = v
	}
	return Map(e, func(n *Expr) *Expr {
		if n.kind == KindSymbol {
			if v, ok := byID[n.sym.id]; ok {
				return v
			}
		}
		return n
	})
}
