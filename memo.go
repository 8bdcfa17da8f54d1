package gosymbolic

// exprMap is a hash-bucketed map keyed by structural equality, so two
// independently built but equal trees share one entry.
type exprMap[V any] struct {
	buckets map[uint64][]exprEntry[V]
	n       int
}

type exprEntry[V any] struct {
	key *Expr
	val V
}

func newExprMap[V any]() *exprMap[V] {
	return &exprMap[V]{buckets: make(map[uint64][]exprEntry[V])}
}

func (m *exprMap[V]) get(k *Expr) (V, bool) {
	for _, ent := range m.buckets[k.hash] {
		if ent.key.Equal(k) {
			return ent.val, true
		}
	}
	var zero V
	return zero, false
}

func (m *exprMap[V]) put(k *Expr, v V) {
	b := m.buckets[k.hash]
	for i := range b {
		if b[i].key.Equal(k) {
			b[i].val = v
			return
		}
	}
	m.buckets[k.hash] = append(b, exprEntry[V]{key: k, val: v})
	m.n++
}

func (m *exprMap[V]) has(k *Expr) bool {
	_, ok := m.get(k)
	return ok
}

func (m *exprMap[V]) len() int { return m.n }
