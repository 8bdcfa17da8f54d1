package gosymbolic

import (
	"math"
)

// ============================================================
// Compiler
// ============================================================

// MaxStackDepth bounds the value stack of a compiled program.
const MaxStackDepth = 1024

const maxPowi = 64

// Compile lowers e to bytecode whose inputs are params in order. It fails
// on an unknown function, an arity mismatch, a free variable missing from
// params, an unresolved derivative, or a program needing more than
// MaxStackDepth stack slots. Named constants pi and e compile to constants
// unless listed in params.
func Compile(e *Expr, params []string, opts ...Option) (*Program, error) {
	o := buildOptions(opts)
	if err := o.checkNames(); err != nil {
		return nil, err
	}
	if err := checkLimits(e, &o); err != nil {
		return nil, err
	}
	c := &compiler{
		opts:   &o,
		p:      &Program{params: append([]string(nil), params...)},
		index:  make(map[string]int, len(params)),
		consts: make(map[uint64]int),
	}
	for i, name := range params {
		if _, dup := c.index[name]; dup {
			return nil, errInvalidInput("duplicate parameter '%s'", name)
		}
		c.index[name] = i
	}
	if err := c.emit(e); err != nil {
		return nil, err
	}
	if err := verifyStack(c.p); err != nil {
		return nil, err
	}
	return c.p, nil
}

// CompileSymbols is Compile with the parameters given as symbols.
func CompileSymbols(e *Expr, params []Symbol, opts ...Option) (*Program, error) {
	names := make([]string, len(params))
	for i, s := range params {
		names[i] = s.name
	}
	return Compile(e, names, opts...)
}

type compiler struct {
	opts   *Options
	p      *Program
	index  map[string]int
	consts map[uint64]int
	depth  int
}

func (c *compiler) push(in Instr) error {
	pop, push := c.p.effect(in)
	if c.depth < pop {
		return &Error{Code: CodeStackLimit, Msg: "stack underflow at " + in.Op.String()}
	}
	c.depth += push - pop
	if c.depth > MaxStackDepth {
		return &Error{Code: CodeStackLimit, Msg: "program needs more than the maximum stack depth"}
	}
	if c.depth > c.p.maxStack {
		c.p.maxStack = c.depth
	}
	c.p.code = append(c.p.code, in)
	return nil
}

func (c *compiler) constant(v float64) error {
	bits := math.Float64bits(v)
	i, ok := c.consts[bits]
	if !ok {
		i = len(c.p.consts)
		c.p.consts = append(c.p.consts, v)
		c.consts[bits] = i
	}
	return c.push(Instr{Op: OpConst, Arg: int32(i)})
}

func (c *compiler) op(o Op) error { return c.push(Instr{Op: o}) }

func (c *compiler) emit(e *Expr) error {
	switch e.kind {
	case KindNumber:
		return c.constant(e.num)
	case KindSymbol:
		if i, ok := c.index[e.sym.name]; ok && e.sym.name != "" {
			return c.push(Instr{Op: OpParam, Arg: int32(i)})
		}
		if v, ok := constantValue(e.sym); ok {
			return c.constant(v)
		}
		return &Error{Code: CodeUnboundVariable, Token: e.sym.String()}
	case KindSum:
		return c.sum(e.args)
	case KindProduct:
		if e.args[0].isNum(-1) {
			if err := c.product(e.args[1:]); err != nil {
				return err
			}
			return c.op(OpNeg)
		}
		return c.product(e.args)
	case KindDiv:
		if e.args[0].isNum(1) {
			if err := c.emit(e.args[1]); err != nil {
				return err
			}
			return c.op(OpRecip)
		}
		return c.binary(OpDiv, e.args[0], e.args[1])
	case KindPow:
		return c.pow(e.args[0], e.args[1])
	case KindFunc:
		return c.call(e)
	case KindPoly:
		if err := c.emit(e.args[0]); err != nil {
			return err
		}
		c.p.polys = append(c.p.polys, e.terms)
		return c.push(Instr{Op: OpPoly, Arg: int32(len(c.p.polys) - 1)})
	case KindDerivative:
		return errUnsupported("cannot compile unresolved derivative of %s", e.args[0].String())
	}
	return errUnsupported("cannot compile %s node", e.kind)
}

func (c *compiler) binary(o Op, a, b *Expr) error {
	if err := c.emit(a); err != nil {
		return err
	}
	if err := c.emit(b); err != nil {
		return err
	}
	return c.op(o)
}

// sum folds left; a -1*t term becomes a subtraction of t.
func (c *compiler) sum(terms []*Expr) error {
	if err := c.emit(terms[0]); err != nil {
		return err
	}
	for _, t := range terms[1:] {
		if t.kind == KindProduct && t.args[0].isNum(-1) {
			if err := c.product(t.args[1:]); err != nil {
				return err
			}
			if err := c.op(OpSub); err != nil {
				return err
			}
			continue
		}
		if err := c.emit(t); err != nil {
			return err
		}
		if err := c.op(OpAdd); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) product(factors []*Expr) error {
	if err := c.emit(factors[0]); err != nil {
		return err
	}
	for _, f := range factors[1:] {
		if err := c.emit(f); err != nil {
			return err
		}
		if err := c.op(OpMul); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) pow(b, x *Expr) error {
	if x.kind != KindNumber {
		return c.binary(OpPow, b, x)
	}
	var fused Instr
	switch n := x.num; {
	case n == 2:
		fused = Instr{Op: OpSquare}
	case n == 3:
		fused = Instr{Op: OpCube}
	case n == -1:
		fused = Instr{Op: OpRecip}
	case n == 0.5:
		fused = Instr{Op: OpSqrt}
	case isInteger(n) && math.Abs(n) <= maxPowi:
		fused = Instr{Op: OpPowi, Arg: int32(n)}
	default:
		return c.binary(OpPow, b, x)
	}
	if err := c.emit(b); err != nil {
		return err
	}
	return c.push(fused)
}

func (c *compiler) call(e *Expr) error {
	def, ok := c.opts.lookupFunc(e.name)
	if !ok {
		return errUnsupported("unknown function '%s'", e.name)
	}
	if !def.CanCall(len(e.args)) {
		return &Error{Code: CodeInvalidFunctionCall, Token: e.name, Min: def.MinArgs, Count: len(e.args)}
	}
	for _, a := range e.args {
		if err := c.emit(a); err != nil {
			return err
		}
	}
	builtin, _ := LookupFunc(e.name)
	if def == builtin {
		if o, ok := unaryOps[e.name]; ok {
			return c.op(o)
		}
		if e.name == "atan2" {
			return c.op(OpAtan2)
		}
	}
	if def.Eval == nil {
		return errUnsupported("function '%s' has no numeric evaluator", e.name)
	}
	c.p.calls = append(c.p.calls, callSite{def: def, argc: len(e.args)})
	return c.push(Instr{Op: OpCall, Arg: int32(len(c.p.calls) - 1)})
}

// verifyStack replays the stack effects of p and checks that the stack
// never underflows, never exceeds the recorded maximum, and ends holding
// exactly one value. The executors rely on this.
func verifyStack(p *Program) error {
	depth := 0
	for i, in := range p.code {
		if in.Op >= opCount {
			return errInvalidInput("invalid opcode %d at %d", in.Op, i)
		}
		pop, push := p.effect(in)
		if depth < pop {
			return &Error{Code: CodeStackLimit, Msg: "stack underflow at instruction " + in.Op.String()}
		}
		depth += push - pop
		if depth > p.maxStack || depth > MaxStackDepth {
			return &Error{Code: CodeStackLimit, Msg: "stack exceeds proven depth at instruction " + in.Op.String()}
		}
	}
	if depth != 1 {
		return &Error{Code: CodeStackLimit, Msg: "program does not leave exactly one value"}
	}
	return nil
}
