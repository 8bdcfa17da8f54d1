package gosymbolic

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// canonicalNaN keeps every NaN payload hashing alike, matching Equal.
const canonicalNaN = 0x7ff8000000000001

type hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (h *hasher) u64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) f64(v float64) {
	if math.IsNaN(v) {
		h.u64(canonicalNaN)
		return
	}
	if v == 0 {
		v = 0
	}
	h.u64(math.Float64bits(v))
}

// hashExpr computes the structural hash over kind, payload and the
// ordered hashes of the children. Children are already hashed.
func hashExpr(e *Expr) uint64 {
	h := hasher{d: xxhash.New()}
	h.u64(uint64(e.kind))
	switch e.kind {
	case KindNumber:
		h.f64(e.num)
	case KindSymbol:
		h.u64(e.sym.id)
	case KindFunc:
		_, _ = h.d.WriteString(e.name)
		_, _ = h.d.Write([]byte{0})
	case KindDerivative:
		h.u64(e.sym.id)
		h.u64(uint64(e.order))
	case KindPoly:
		h.u64(uint64(len(e.terms)))
		for _, t := range e.terms {
			h.u64(uint64(t.Pow))
			h.f64(t.Coeff)
		}
	}
	h.u64(uint64(len(e.args)))
	for _, c := range e.args {
		h.u64(c.hash)
	}
	return h.d.Sum64()
}
