package gosymbolic

import (
	"strings"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Context holds session-local function definitions. It is consulted
// before the built-in registry, so a session can shadow a built-in
// without affecting other sessions. Safe for concurrent use.
type Context struct {
	mu    sync.RWMutex
	funcs map[string]*FuncDef
}

func NewContext() *Context {
	return &Context{funcs: make(map[string]*FuncDef)}
}

// Register adds def. Each name can be registered once per context.
func (c *Context) Register(def FuncDef) error {
	def.Name = strings.TrimSpace(def.Name)
	switch {
	case def.Name == "":
		return errInvalidInput("function name is empty")
	case def.MinArgs < 0 || def.MaxArgs < def.MinArgs:
		return errInvalidInput("function '%s' has invalid arity [%d, %d]", def.Name, def.MinArgs, def.MaxArgs)
	case len(def.Partials) > 0 && len(def.Partials) != def.MaxArgs:
		return errInvalidInput("function '%s' needs %d partials, got %d", def.Name, def.MaxArgs, len(def.Partials))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.funcs[def.Name]; ok {
		return &Error{Code: CodeNameCollision, Token: def.Name}
	}
	c.funcs[def.Name] = &def
	return nil
}

func (c *Context) Lookup(name string) (*FuncDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.funcs[name]
	return def, ok
}

func (c *Context) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

func (c *Context) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.funcs)
}

func (c *Context) Names() []string {
	c.mu.RLock()
	names := maps.Keys(c.funcs)
	c.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = make(map[string]*FuncDef)
}
