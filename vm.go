package gosymbolic

import (
	"fmt"
	"math"
)

// ============================================================
// Scalar executor
// ============================================================

// Eval runs the program on one input vector. It panics if the number of
// inputs differs from the number of parameters.
func (p *Program) Eval(inputs ...float64) float64 {
	if len(inputs) != len(p.params) {
		panic(fmt.Sprintf("gosymbolic: program takes %d inputs, got %d", len(p.params), len(inputs)))
	}
	var small [32]float64
	var stack []float64
	if p.maxStack <= len(small) {
		stack = small[:p.maxStack]
	} else {
		stack = make([]float64, p.maxStack)
	}
	return p.run(inputs, stack, make([]float64, p.maxCallArgs()))
}

func (p *Program) maxCallArgs() int {
	n := 0
	for _, c := range p.calls {
		if c.argc > n {
			n = c.argc
		}
	}
	return n
}

// run executes on a stack of len >= maxStack. verifyStack has proven
// every push and pop in range.
func (p *Program) run(inputs, stack, scratch []float64) float64 {
	sp := 0
	for _, in := range p.code {
		switch in.Op {
		case OpConst:
			stack[sp] = p.consts[in.Arg]
			sp++
		case OpParam:
			stack[sp] = inputs[in.Arg]
			sp++
		case OpAdd, OpSub, OpMul, OpDiv, OpPow, OpAtan2:
			sp--
			stack[sp-1] = binaryFns[in.Op](stack[sp-1], stack[sp])
		case OpPowi:
			stack[sp-1] = powi(stack[sp-1], int(in.Arg))
		case OpPoly:
			stack[sp-1] = hornerEval(p.polys[in.Arg], stack[sp-1])
		case OpCall:
			c := p.calls[in.Arg]
			sp -= c.argc
			args := scratch[:c.argc]
			copy(args, stack[sp:sp+c.argc])
			stack[sp] = callValue(c, args)
			sp++
		default:
			stack[sp-1] = unaryFns[in.Op](stack[sp-1])
		}
	}
	return stack[0]
}

func callValue(c callSite, args []float64) float64 {
	v, ok := c.def.Eval(args)
	if !ok {
		return math.NaN()
	}
	return v
}
