package gosymbolic

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Batched and parallel executors
// ============================================================

const lanes = 4

type lane [lanes]float64

// EvalBatch evaluates the program for every row of columns, where
// columns[i] holds the values of parameter i, and writes row r to out[r].
// Rows are processed four at a time with each instruction applied across
// the lanes; the tail runs on the scalar path.
func (p *Program) EvalBatch(columns [][]float64, out []float64) error {
	if err := p.checkColumns(columns, len(out)); err != nil {
		return err
	}
	p.evalRange(columns, out, 0, len(out))
	return nil
}

// EvalParallel splits the rows into contiguous chunks evaluated by up to
// workers goroutines. workers <= 0 uses GOMAXPROCS. Results are identical
// to EvalBatch.
func (p *Program) EvalParallel(columns [][]float64, out []float64, workers int) error {
	if err := p.checkColumns(columns, len(out)); err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := len(out)
	chunk := (n + workers - 1) / workers
	chunk = (chunk + lanes - 1) / lanes * lanes
	if chunk < lanes {
		chunk = lanes
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			p.evalRange(columns, out, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

func (p *Program) checkColumns(columns [][]float64, rows int) error {
	if len(columns) != len(p.params) {
		return errInvalidInput("program takes %d input columns, got %d", len(p.params), len(columns))
	}
	for i, col := range columns {
		if len(col) != rows {
			return errInvalidInput("column '%s' has %d rows, output has %d", p.params[i], len(col), rows)
		}
	}
	return nil
}

func (p *Program) evalRange(columns [][]float64, out []float64, lo, hi int) {
	stack := make([]lane, p.maxStack)
	inputs := make([]lane, len(columns))
	scratch := make([]float64, p.maxCallArgs())
	r := lo
	for ; r+lanes <= hi; r += lanes {
		for i, col := range columns {
			copy(inputs[i][:], col[r:r+lanes])
		}
		res := p.runLanes(inputs, stack, scratch)
		copy(out[r:r+lanes], res[:])
	}
	if r < hi {
		sstack := make([]float64, p.maxStack)
		row := make([]float64, len(columns))
		for ; r < hi; r++ {
			for i, col := range columns {
				row[i] = col[r]
			}
			out[r] = p.run(row, sstack, scratch)
		}
	}
}

func (p *Program) runLanes(inputs, stack []lane, scratch []float64) lane {
	sp := 0
	for _, in := range p.code {
		switch in.Op {
		case OpConst:
			v := p.consts[in.Arg]
			stack[sp] = lane{v, v, v, v}
			sp++
		case OpParam:
			stack[sp] = inputs[in.Arg]
			sp++
		case OpAdd, OpSub, OpMul, OpDiv, OpPow, OpAtan2:
			sp--
			fn := binaryFns[in.Op]
			a, b := &stack[sp-1], &stack[sp]
			for l := 0; l < lanes; l++ {
				a[l] = fn(a[l], b[l])
			}
		case OpPowi:
			a := &stack[sp-1]
			for l := 0; l < lanes; l++ {
				a[l] = powi(a[l], int(in.Arg))
			}
		case OpPoly:
			a := &stack[sp-1]
			for l := 0; l < lanes; l++ {
				a[l] = hornerEval(p.polys[in.Arg], a[l])
			}
		case OpCall:
			c := p.calls[in.Arg]
			sp -= c.argc
			var res lane
			args := scratch[:c.argc]
			for l := 0; l < lanes; l++ {
				for k := 0; k < c.argc; k++ {
					args[k] = stack[sp+k][l]
				}
				res[l] = callValue(c, args)
			}
			stack[sp] = res
			sp++
		default:
			fn := unaryFns[in.Op]
			a := &stack[sp-1]
			for l := 0; l < lanes; l++ {
				a[l] = fn(a[l])
			}
		}
	}
	return stack[0]
}
