package gosymbolic

import (
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// ============================================================
// Configuration
// ============================================================

const (
	DefaultMaxDepth      = 100
	DefaultMaxNodes      = 10000
	DefaultMaxIterations = 1000
)

// Options is the configuration shared by Parse, Derive, Simplify and
// Compile. Each operation reads only the fields that concern it.
type Options struct {
	// DomainSafe skips rewrite rules that are only valid on part of the
	// real line, such as exp(ln(x)) = x.
	DomainSafe bool
	// MaxDepth bounds AST nesting; exceeding it is a hard error.
	MaxDepth int
	// MaxNodes bounds total node count; exceeding it is a hard error.
	MaxNodes int
	// MaxIterations caps simplification passes. Running out is not an
	// error: the best tree so far is returned.
	MaxIterations int
	// Fixed names symbols treated as constants.
	Fixed   map[string]struct{}
	Context *Context
	Logger  tmlog.Logger
	// Trace logs every rule application at debug level.
	Trace bool
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		MaxDepth:      DefaultMaxDepth,
		MaxNodes:      DefaultMaxNodes,
		MaxIterations: DefaultMaxIterations,
		Logger:        tmlog.NewNopLogger(),
	}
}

func DomainSafe(on bool) Option { return func(o *Options) { o.DomainSafe = on } }

func MaxDepth(n int) Option { return func(o *Options) { o.MaxDepth = n } }

func MaxNodes(n int) Option { return func(o *Options) { o.MaxNodes = n } }

func MaxIterations(n int) Option { return func(o *Options) { o.MaxIterations = n } }

// FixedVars marks names as constants: they differentiate to zero.
func FixedVars(names ...string) Option {
	return func(o *Options) {
		if o.Fixed == nil {
			o.Fixed = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			o.Fixed[n] = struct{}{}
		}
	}
}

func WithTrace(on bool) Option { return func(o *Options) { o.Trace = on } }

func WithContext(c *Context) Option { return func(o *Options) { o.Context = c } }

func WithLogger(l tmlog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

func (o *Options) isFixed(s Symbol) bool {
	_, ok := o.Fixed[s.name]
	return ok
}

// lookupFunc resolves name against the session context first and the
// built-in registry second.
func (o *Options) lookupFunc(name string) (*FuncDef, bool) {
	if o.Context != nil {
		if def, ok := o.Context.Lookup(name); ok {
			return def, true
		}
	}
	return LookupFunc(name)
}

// checkNames rejects a fixed constant that is also a session function.
func (o *Options) checkNames() error {
	if o.Context == nil {
		return nil
	}
	for name := range o.Fixed {
		if o.Context.Has(name) {
			return &Error{Code: CodeNameCollision, Token: name}
		}
	}
	return nil
}
