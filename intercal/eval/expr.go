/*
 * ICK - Expression evaluation.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package eval

import (
	"github.com/rcornwell/ick/intercal/ast"
	"github.com/rcornwell/ick/intercal/bitops"
	"github.com/rcornwell/ick/intercal/ierr"
)

// evalExpr reduces an expression to a value. The Rs* operators are
// optimizer output; they run here too since the constant-output pass
// re-executes optimized programs.
func (e *Eval) evalExpr(x *ast.Expr) (Val, error) {
	switch x.Op {
	case ast.ExNum:
		if x.VType == ast.I16 {
			return Val{ast.I16, x.Val & 0xffff}, nil
		}
		return Val{ast.I32, x.Val}, nil

	case ast.ExVar:
		return e.lookup(x.VRef)

	case ast.ExMingle:
		v, err := e.evalExpr(x.L)
		if err != nil {
			return Val{}, err
		}
		w, err := e.evalExpr(x.R)
		if err != nil {
			return Val{}, err
		}
		z, err := bitops.Mingle(v.AsU32(), w.AsU32())
		if err != nil {
			return Val{}, err
		}
		return Val{ast.I32, z}, nil

	case ast.ExSelect:
		v, err := e.evalExpr(x.L)
		if err != nil {
			return Val{}, err
		}
		w, err := e.evalExpr(x.R)
		if err != nil {
			return Val{}, err
		}
		return Val{ast.I32, bitops.Select(v.AsU32(), w.AsU32())}, nil

	case ast.ExAnd:
		return e.evalUnary(x.L, bitops.And16, bitops.And32)
	case ast.ExOr:
		return e.evalUnary(x.L, bitops.Or16, bitops.Or32)
	case ast.ExXor:
		return e.evalUnary(x.L, bitops.Xor16, bitops.Xor32)

	case ast.ExRsAnd:
		return e.evalBinary(x, func(v, w uint32) uint32 { return v & w })
	case ast.ExRsOr:
		return e.evalBinary(x, func(v, w uint32) uint32 { return v | w })
	case ast.ExRsXor:
		return e.evalBinary(x, func(v, w uint32) uint32 { return v ^ w })
	case ast.ExRsPlus:
		return e.evalBinary(x, func(v, w uint32) uint32 { return v + w })
	case ast.ExRsMinus:
		return e.evalBinary(x, func(v, w uint32) uint32 { return v - w })
	case ast.ExRsRshift:
		return e.evalBinary(x, func(v, w uint32) uint32 { return v >> w })
	case ast.ExRsLshift:
		return e.evalBinary(x, func(v, w uint32) uint32 { return v << w })
	case ast.ExRsNotEqual:
		return e.evalBinary(x, func(v, w uint32) uint32 {
			if v != w {
				return 1
			}
			return 0
		})

	case ast.ExRsNot:
		v, err := e.evalExpr(x.L)
		if err != nil {
			return Val{}, err
		}
		return Val{ast.I32, ^v.AsU32()}, nil
	}
	return Val{}, ierr.New(ierr.IE774)
}

// Unary INTERCAL operator: the width of the operand picks the ring.
func (e *Eval) evalUnary(operand *ast.Expr, op16, op32 func(uint32) uint32) (Val, error) {
	v, err := e.evalExpr(operand)
	if err != nil {
		return Val{}, err
	}
	if v.VType == ast.I16 {
		return Val{ast.I16, op16(v.V)}, nil
	}
	return Val{ast.I32, op32(v.V)}, nil
}

// Native two-operand arithmetic on the 32-bit ring; the result takes
// the narrow tag when it fits.
func (e *Eval) evalBinary(x *ast.Expr, op func(uint32, uint32) uint32) (Val, error) {
	v, err := e.evalExpr(x.L)
	if err != nil {
		return Val{}, err
	}
	w, err := e.evalExpr(x.R)
	if err != nil {
		return Val{}, err
	}
	return FromU32(op(v.AsU32(), w.AsU32())), nil
}
