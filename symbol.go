package gosymbolic

import (
	"strconv"
	"sync"

	"golang.org/x/exp/slices"
)

// ============================================================
// Symbol interning
// ============================================================

// Symbol is an interned variable identity. Two symbols are the same
// variable exactly when their IDs match.
type Symbol struct {
	id   uint64
	name string
}

func (s Symbol) ID() uint64        { return s.id }
func (s Symbol) Name() string      { return s.name }
func (s Symbol) IsAnonymous() bool { return s.name == "" }

func (s Symbol) String() string {
	if s.name == "" {
		return "$" + strconv.FormatUint(s.id, 10)
	}
	return s.name
}

type symbolTable struct {
	mu     sync.RWMutex
	byName map[string]Symbol
	byID   map[uint64]Symbol
	next   uint64
}

// IDs start at 1 and are never reused, even across ClearSymbols.
var symbols = &symbolTable{
	byName: make(map[string]Symbol),
	byID:   make(map[uint64]Symbol),
	next:   1,
}

// Intern returns the symbol registered under name, creating it if needed.
func Intern(name string) Symbol {
	symbols.mu.RLock()
	s, ok := symbols.byName[name]
	symbols.mu.RUnlock()
	if ok {
		return s
	}

	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	if s, ok := symbols.byName[name]; ok {
		return s
	}
	s = Symbol{id: symbols.next, name: name}
	symbols.next++
	symbols.byName[name] = s
	symbols.byID[s.id] = s
	return s
}

// AnonSymbol allocates a fresh symbol with no display name.
func AnonSymbol() Symbol {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	s := Symbol{id: symbols.next}
	symbols.next++
	symbols.byID[s.id] = s
	return s
}

func LookupSymbol(name string) (Symbol, bool) {
	symbols.mu.RLock()
	defer symbols.mu.RUnlock()
	s, ok := symbols.byName[name]
	return s, ok
}

func SymbolByID(id uint64) (Symbol, bool) {
	symbols.mu.RLock()
	defer symbols.mu.RUnlock()
	s, ok := symbols.byID[id]
	return s, ok
}

// RemoveSymbol drops name from the table. Trees that already hold the
// symbol keep it; a later Intern(name) yields a new identity.
func RemoveSymbol(name string) bool {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	s, ok := symbols.byName[name]
	if !ok {
		return false
	}
	delete(symbols.byName, name)
	delete(symbols.byID, s.id)
	return true
}

func ClearSymbols() {
	symbols.mu.Lock()
	defer symbols.mu.Unlock()
	symbols.byName = make(map[string]Symbol)
	symbols.byID = make(map[uint64]Symbol)
}

func SymbolCount() int {
	symbols.mu.RLock()
	defer symbols.mu.RUnlock()
	return len(symbols.byID)
}

// SymbolNames returns the named symbols in lexical order.
func SymbolNames() []string {
	symbols.mu.RLock()
	names := make([]string, 0, len(symbols.byName))
	for name := range symbols.byName {
		names = append(names, name)
	}
	symbols.mu.RUnlock()
	slices.Sort(names)
	return names
}
