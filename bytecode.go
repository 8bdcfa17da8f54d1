package gosymbolic

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================
// Instruction set
// ============================================================

type Op uint8

const (
	OpConst Op = iota // push consts[Arg]
	OpParam           // push inputs[Arg]
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
	OpNeg
	OpSquare
	OpCube
	OpRecip
	OpPowi  // x^int32(Arg)
	OpPoly  // Horner over polys[Arg]
	OpCall  // calls[Arg], pops its arity
	OpAtan2 // atan2(y, x)
	// Unary math ops; see unaryOps.
	OpSqrt
	OpCbrt
	OpExp
	OpLn
	OpSin
	OpCos
	OpTan
	OpSinh
	OpCosh
	OpTanh
	OpAbs
	OpSinc
	OpDsinc
	opCount
)

var opNames = [opCount]string{
	"const", "param", "add", "sub", "mul", "div", "pow", "neg", "square", "cube",
	"recip", "powi", "poly", "call", "atan2", "sqrt", "cbrt", "exp", "ln", "sin",
	"cos", "tan", "sinh", "cosh", "tanh", "abs", "sinc", "dsinc",
}

func (o Op) String() string {
	if o < opCount {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// unaryOps maps function names to dedicated opcodes. Every other
// function goes through OpCall.
var unaryOps = map[string]Op{
	"sqrt": OpSqrt, "cbrt": OpCbrt, "exp": OpExp, "ln": OpLn,
	"sin": OpSin, "cos": OpCos, "tan": OpTan,
	"sinh": OpSinh, "cosh": OpCosh, "tanh": OpTanh,
	"abs": OpAbs, "sinc": OpSinc, "dsinc": OpDsinc,
}

// unaryFns and binaryFns are shared by the scalar, batch and parallel
// executors so all three produce identical bits.
var unaryFns = [opCount]func(float64) float64{
	OpNeg:    func(x float64) float64 { return -x },
	OpSquare: func(x float64) float64 { return x * x },
	OpCube:   func(x float64) float64 { return x * x * x },
	OpRecip:  func(x float64) float64 { return 1 / x },
	OpSqrt:   math.Sqrt,
	OpCbrt:   math.Cbrt,
	OpExp:    math.Exp,
	OpLn:     math.Log,
	OpSin:    math.Sin,
	OpCos:    math.Cos,
	OpTan:    math.Tan,
	OpSinh:   math.Sinh,
	OpCosh:   math.Cosh,
	OpTanh:   math.Tanh,
	OpAbs:    math.Abs,
	OpSinc:   sinc,
	OpDsinc:  dsinc,
}

var binaryFns = [opCount]func(a, b float64) float64{
	OpAdd:   func(a, b float64) float64 { return a + b },
	OpSub:   func(a, b float64) float64 { return a - b },
	OpMul:   func(a, b float64) float64 { return a * b },
	OpDiv:   func(a, b float64) float64 { return a / b },
	OpPow:   math.Pow,
	OpAtan2: atan2,
}

type Instr struct {
	Op  Op
	Arg int32
}

type callSite struct {
	def  *FuncDef
	argc int
}

// Program is compiled bytecode. It is immutable after Compile and safe
// for concurrent use.
type Program struct {
	code     []Instr
	consts   []float64
	polys    [][]PolyTerm
	calls    []callSite
	params   []string
	maxStack int
}

// effect returns how many values in pops and pushes.
func (p *Program) effect(in Instr) (pop, push int) {
	switch in.Op {
	case OpConst, OpParam:
		return 0, 1
	case OpAdd, OpSub, OpMul, OpDiv, OpPow, OpAtan2:
		return 2, 1
	case OpCall:
		return p.calls[in.Arg].argc, 1
	}
	return 1, 1
}

func (p *Program) Params() []string { return append([]string(nil), p.params...) }

// StackDepth is the proven maximum stack height.
func (p *Program) StackDepth() int { return p.maxStack }

func (p *Program) Len() int { return len(p.code) }

func (p *Program) Instructions() []Instr { return append([]Instr(nil), p.code...) }

// String disassembles the program, one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	for i, in := range p.code {
		fmt.Fprintf(&sb, "%04d %-6s", i, in.Op)
		switch in.Op {
		case OpConst:
			fmt.Fprintf(&sb, " %s", formatNumber(p.consts[in.Arg]))
		case OpParam:
			fmt.Fprintf(&sb, " %s", p.params[in.Arg])
		case OpPowi:
			fmt.Fprintf(&sb, " %d", in.Arg)
		case OpPoly:
			fmt.Fprintf(&sb, " #%d (%d terms)", in.Arg, len(p.polys[in.Arg]))
		case OpCall:
			c := p.calls[in.Arg]
			fmt.Fprintf(&sb, " %s/%d", c.def.Name, c.argc)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
