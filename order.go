package gosymbolic

import "strings"

// ============================================================
// Canonical ordering
// ============================================================

var exprOne = N(1)

// sortKey splits a term into base, exponent and numeric coefficient.
// A nil exponent stands for 1. Atomic terms are their own base.
type sortKey struct {
	base   *Expr
	exp    *Expr
	coeff  float64
	atomic bool
}

func extractKey(e *Expr) sortKey {
	switch e.kind {
	case KindPow:
		return sortKey{base: e.args[0], exp: e.args[1], coeff: 1}
	case KindProduct:
		if len(e.args) == 2 && e.args[0].kind == KindNumber {
			return sortKey{base: e.args[1], coeff: e.args[0].num}
		}
	}
	return sortKey{base: e, coeff: 1, atomic: true}
}

// Compare is the canonical order used for Sum and Product children.
// Numbers sort first. Other terms order by base, then exponent, then
// coefficient, so x, 2x, x^2, 3x^2 end up adjacent. Structurally
// different terms never compare equal.
func Compare(a, b *Expr) int {
	if c := compareKeyed(a, b); c != 0 {
		return c
	}
	if a.Equal(b) {
		return 0
	}
	if c := compareStrict(a, b); c != 0 {
		return c
	}
	return cmpUint64(a.hash, b.hash)
}

func compareKeyed(a, b *Expr) int {
	an, bn := a.kind == KindNumber, b.kind == KindNumber
	switch {
	case an && bn:
		return cmpFloat(a.num, b.num)
	case an:
		return -1
	case bn:
		return 1
	}

	ka, kb := extractKey(a), extractKey(b)
	if ka.atomic && kb.atomic {
		return compareStrict(a, b)
	}
	if c := compareKeyed(ka.base, kb.base); c != 0 {
		return c
	}
	ea, eb := ka.exp, kb.exp
	if ea != nil || eb != nil {
		if ea == nil {
			ea = exprOne
		}
		if eb == nil {
			eb = exprOne
		}
		if c := compareKeyed(ea, eb); c != 0 {
			return c
		}
	}
	return cmpFloat(ka.coeff, kb.coeff)
}

// kindRank is the type order used when two atomic terms differ in kind.
var kindRank = [...]int{
	KindNumber:     0,
	KindSymbol:     1,
	KindSum:        2,
	KindProduct:    3,
	KindFunc:       4,
	KindPow:        5,
	KindDiv:        6,
	KindDerivative: 7,
	KindPoly:       8,
}

func compareStrict(a, b *Expr) int {
	if a.kind != b.kind {
		return cmpInt(kindRank[a.kind], kindRank[b.kind])
	}
	switch a.kind {
	case KindNumber:
		return cmpFloat(a.num, b.num)
	case KindSymbol:
		if c := strings.Compare(a.sym.name, b.sym.name); c != 0 {
			return c
		}
		return cmpUint64(a.sym.id, b.sym.id)
	case KindFunc:
		if c := strings.Compare(a.name, b.name); c != 0 {
			return c
		}
		if c := compareArgs(a.args, b.args); c != 0 {
			return c
		}
		return cmpInt(len(a.args), len(b.args))
	case KindSum, KindProduct:
		if c := cmpInt(len(a.args), len(b.args)); c != 0 {
			return c
		}
		return compareArgs(a.args, b.args)
	case KindPow, KindDiv:
		return compareArgs(a.args, b.args)
	case KindDerivative:
		if c := strings.Compare(a.sym.name, b.sym.name); c != 0 {
			return c
		}
		if c := cmpInt(int(a.order), int(b.order)); c != 0 {
			return c
		}
		return compareKeyed(a.args[0], b.args[0])
	case KindPoly:
		if c := compareKeyed(a.args[0], b.args[0]); c != 0 {
			return c
		}
		for i := 0; i < len(a.terms) && i < len(b.terms); i++ {
			if c := cmpInt(int(a.terms[i].Pow), int(b.terms[i].Pow)); c != 0 {
				return c
			}
			if c := cmpFloat(a.terms[i].Coeff, b.terms[i].Coeff); c != 0 {
				return c
			}
		}
		return cmpInt(len(a.terms), len(b.terms))
	}
	return 0
}

func compareArgs(a, b []*Expr) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareKeyed(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
