/*
 * ICK - Program optimizer.
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

/*
 * The optimizer gets the whole program and runs several passes:
 *
 *  - constant folding: reduces (sub)expressions involving no variables
 *  - expressions: replaces common INTERCAL operator patterns with
 *    equivalent native operator expressions
 *  - constant output (can be disabled): a program that neither takes
 *    input nor draws random numbers has constant output; generate it
 *    with the evaluator and replace the program by a Print of that
 *    output followed by a GIVE UP
 *  - abstain check: marks statements no ABSTAIN/REINSTATE can reach
 *  - var check: marks variables never IGNOREd or STASHed
 *
 * The expression patterns form a fixed catalog, selected for the
 * operator combinations INTERCAL programs build arithmetic out of.
 */

package opt

import (
	"bytes"
	"math/bits"
	"strings"

	"github.com/rcornwell/ick/intercal/ast"
	"github.com/rcornwell/ick/intercal/bitops"
	"github.com/rcornwell/ick/intercal/eval"
)

// Rewrites strictly shrink the tree, so this depth is never reached;
// it caps the re-application recursion if a pattern ever regresses.
const maxRewriteDepth = 64

type Optimizer struct {
	program       *ast.Program
	allowConstOut bool
}

func New(program *ast.Program, allowConstOut bool) *Optimizer {
	return &Optimizer{program: program, allowConstOut: allowConstOut}
}

// Optimize runs all passes in order and returns the rewritten program.
func (o *Optimizer) Optimize() *ast.Program {
	constantFold(o.program)
	optExpressions(o.program)
	if o.allowConstOut {
		constOutput(o.program)
	}
	abstainCheck(o.program)
	varCheck(o.program)
	return o.program
}

func n32(v uint32) *ast.Expr {
	return &ast.Expr{Op: ast.ExNum, VType: ast.I32, Val: v}
}

func isNum(e *ast.Expr, v uint32) bool {
	return e != nil && e.Op == ast.ExNum && e.Val == v
}

func numOf(e *ast.Expr) (uint32, bool) {
	if e != nil && e.Op == ast.ExNum {
		return e.Val, true
	}
	return 0, false
}

// Constant folding. 32-bit literals do not exist in the source, so
// programs build them from 16-bit halves; most of those collapse here.
func constantFold(program *ast.Program) {
	for _, stmt := range program.Stmts {
		if expr := stmt.OptExpr(); expr != nil {
			fold(expr)
		}
	}
}

func fold(e *ast.Expr) {
	var result *ast.Expr
	switch e.Op {
	case ast.ExMingle:
		fold(e.L)
		fold(e.R)
		if v, ok := numOf(e.L); ok {
			if w, ok := numOf(e.R); ok {
				if v <= 0xffff && w <= 0xffff {
					z, err := bitops.Mingle(v, w)
					if err == nil {
						result = n32(z)
					}
				}
			}
		}
	case ast.ExSelect:
		fold(e.L)
		fold(e.R)
		if v, ok := numOf(e.L); ok {
			if w, ok := numOf(e.R); ok {
				result = n32(bitops.Select(v, w))
			}
		}
	case ast.ExAnd:
		fold(e.L)
		if v, ok := numOf(e.L); ok {
			result = foldUnary(e.L.VType, v, bitops.And16, bitops.And32)
		}
	case ast.ExOr:
		fold(e.L)
		if v, ok := numOf(e.L); ok {
			result = foldUnary(e.L.VType, v, bitops.Or16, bitops.Or32)
		}
	case ast.ExXor:
		fold(e.L)
		if v, ok := numOf(e.L); ok {
			result = foldUnary(e.L.VType, v, bitops.Xor16, bitops.Xor32)
		}
	}
	if result != nil {
		*e = *result
	}
}

func foldUnary(vtype ast.VType, v uint32, op16, op32 func(uint32) uint32) *ast.Expr {
	if vtype == ast.I16 {
		return &ast.Expr{Op: ast.ExNum, VType: ast.I16, Val: op16(v)}
	}
	return &ast.Expr{Op: ast.ExNum, VType: ast.I32, Val: op32(v)}
}

// Expression rewriting.
func optExpressions(program *ast.Program) {
	for _, stmt := range program.Stmts {
		if expr := stmt.OptExpr(); expr != nil {
			optExpr(expr, 0)
		}
	}
}

// Match one INTERCAL unary operator applied to a mingle, giving the
// mingle halves and the matching native operator.
func unopMingle(e *ast.Expr) (ast.ExprOp, *ast.Expr, *ast.Expr, bool) {
	if e == nil || e.L == nil || e.L.Op != ast.ExMingle {
		return 0, nil, nil, false
	}
	switch e.Op {
	case ast.ExAnd:
		return ast.ExRsAnd, e.L.L, e.L.R, true
	case ast.ExOr:
		return ast.ExRsOr, e.L.L, e.L.R, true
	case ast.ExXor:
		return ast.ExRsXor, e.L.L, e.L.R, true
	}
	return 0, nil, nil, false
}

// Match RsOp(Select(x, mask), Select(y, mask)).
func selectPair(e *ast.Expr, op ast.ExprOp, mask uint32) (*ast.Expr, *ast.Expr, bool) {
	if e.Op != op {
		return nil, nil, false
	}
	if e.L.Op != ast.ExSelect || !isNum(e.L.R, mask) {
		return nil, nil, false
	}
	if e.R.Op != ast.ExSelect || !isNum(e.R.R, mask) {
		return nil, nil, false
	}
	return e.L.L, e.R.L, true
}

// Match RsOp(Select(x, mask), literal).
func selectLit(e *ast.Expr, op ast.ExprOp, mask uint32) (*ast.Expr, uint32, bool) {
	if e.Op != op {
		return nil, 0, false
	}
	if e.L.Op != ast.ExSelect || !isNum(e.L.R, mask) {
		return nil, 0, false
	}
	v, ok := numOf(e.R)
	return e.L.L, v, ok
}

func optExpr(e *ast.Expr, depth int) {
	var result *ast.Expr
	switch e.Op {
	case ast.ExSelect:
		optExpr(e.L, depth)
		optExpr(e.R, depth)
		switch {
		// Select(UnOp(Mingle(x, y)), 0x5555_5555) -> RsOp(x, y)
		case isNum(e.R, 0x55555555):
			if op, m1, m2, ok := unopMingle(e.L); ok {
				result = &ast.Expr{Op: op, L: m1.Clone(), R: m2.Clone()}
			}
		// Select(Mingle(x, 0), 0x2AAA_AAAB) -> (x << 1) & 0xFFFF
		case isNum(e.R, 0x2aaaaaab):
			if e.L.Op == ast.ExMingle && isNum(e.L.R, 0) {
				result = &ast.Expr{Op: ast.ExRsAnd,
					L: &ast.Expr{Op: ast.ExRsLshift, L: e.L.L.Clone(), R: n32(1)},
					R: n32(0xffff)}
			}
		default:
			// Select(x, N) is a shift and mask when the set bits of N
			// form one contiguous run
			if i, ok := numOf(e.R); ok &&
				bits.OnesCount32(i)+bits.LeadingZeros32(i)+bits.TrailingZeros32(i) == 32 {
				tz := uint32(bits.TrailingZeros32(i))
				switch {
				case tz == 0:
					result = &ast.Expr{Op: ast.ExRsAnd, L: e.L.Clone(), R: n32(i)}
				case bits.LeadingZeros32(i) == 0:
					result = &ast.Expr{Op: ast.ExRsRshift, L: e.L.Clone(), R: n32(tz)}
				default:
					result = &ast.Expr{Op: ast.ExRsAnd,
						L: &ast.Expr{Op: ast.ExRsRshift, L: e.L.Clone(), R: n32(tz)},
						R: n32((uint32(1) << bits.OnesCount32(i)) - 1)}
				}
			}
		}

	case ast.ExMingle:
		optExpr(e.L, depth)
		optExpr(e.R, depth)
		// (x ~ 0xA..A) OP (y ~ 0xA..A) $ (x ~ 0x5..5) OP (y ~ 0x5..5)
		// -> (x OP y) in 32 bits
		for _, op := range []ast.ExprOp{ast.ExRsAnd, ast.ExRsOr, ast.ExRsXor} {
			if ax, bx, ok := selectPair(e.L, op, 0xaaaaaaaa); ok {
				if cx, dx, ok := selectPair(e.R, op, 0x55555555); ok {
					if ax.Equal(cx) && bx.Equal(dx) {
						result = &ast.Expr{Op: op, L: ax.Clone(), R: bx.Clone()}
						break
					}
				}
			}
			// (x ~ 0xA..A) OP y1 $ (x ~ 0x5..5) OP y2
			// -> (x OP (y1 << 16 | y2)) in 32 bits
			if ax, bn, ok := selectLit(e.L, op, 0xaaaaaaaa); ok {
				if cx, dn, ok := selectLit(e.R, op, 0x55555555); ok {
					if ax.Equal(cx) {
						result = &ast.Expr{Op: op, L: ax.Clone(), R: n32((bn << 16) | dn)}
						break
					}
				}
			}
		}
		// (x != y) $ (z != w) -> ((x != y) << 1) | (z != w)
		if result == nil && e.L.Op == ast.ExRsNotEqual && e.R.Op == ast.ExRsNotEqual {
			result = &ast.Expr{Op: ast.ExRsOr,
				L: &ast.Expr{Op: ast.ExRsLshift, L: e.L.Clone(), R: n32(1)},
				R: e.R.Clone()}
		}

	case ast.ExAnd, ast.ExOr, ast.ExXor, ast.ExRsNot:
		optExpr(e.L, depth)

	case ast.ExRsAnd:
		optExpr(e.L, depth)
		optExpr(e.R, depth)
		switch {
		// (x ~ x) & 1 -> x != 0
		case e.L.Op == ast.ExSelect && e.L.L.Equal(e.L.R) && isNum(e.R, 1):
			result = &ast.Expr{Op: ast.ExRsNotEqual, L: e.L.L.Clone(), R: n32(0)}
		// ?(x $ 1) & 3 -> 1 + (x & 1)
		case e.L.Op == ast.ExXor && e.L.L.Op == ast.ExMingle &&
			isNum(e.L.L.R, 1) && isNum(e.R, 3):
			result = &ast.Expr{Op: ast.ExRsPlus, L: n32(1),
				R: &ast.Expr{Op: ast.ExRsAnd, L: e.L.L.L.Clone(), R: n32(1)}}
		// ?(x $ 2) & 3 -> 2 - (x & 1)
		case e.L.Op == ast.ExXor && e.L.L.Op == ast.ExMingle &&
			isNum(e.L.L.R, 2) && isNum(e.R, 3):
			result = &ast.Expr{Op: ast.ExRsMinus, L: n32(2),
				R: &ast.Expr{Op: ast.ExRsAnd, L: e.L.L.L.Clone(), R: n32(1)}}
		// x & 0xFFFFFFFF has no effect
		case isNum(e.R, 0xffffffff):
			result = e.L.Clone()
		// ((x & y) & y) -> second & has no effect
		case e.L.Op == ast.ExRsAnd && e.L.R.Equal(e.R):
			result = e.L.Clone()
		// ((x != y) & 1) -> & has no effect
		case e.L.Op == ast.ExRsNotEqual && isNum(e.R, 1):
			result = e.L.Clone()
		// UnOp(Mingle(x, y)) & 1 -> RsOp(x & 1, y & 1)
		case isNum(e.R, 1):
			if op, m1, m2, ok := unopMingle(e.L); ok {
				result = &ast.Expr{Op: op,
					L: &ast.Expr{Op: ast.ExRsAnd, L: m1.Clone(), R: n32(1)},
					R: &ast.Expr{Op: ast.ExRsAnd, L: m2.Clone(), R: n32(1)}}
			}
		}

	case ast.ExRsXor:
		optExpr(e.L, depth)
		optExpr(e.R, depth)
		if isNum(e.R, 0xffffffff) {
			result = &ast.Expr{Op: ast.ExRsNot, L: e.L.Clone()}
		} else if isNum(e.L, 0xffffffff) {
			result = &ast.Expr{Op: ast.ExRsNot, L: e.R.Clone()}
		}

	case ast.ExRsOr, ast.ExRsRshift, ast.ExRsLshift,
		ast.ExRsNotEqual, ast.ExRsMinus, ast.ExRsPlus:
		optExpr(e.L, depth)
		optExpr(e.R, depth)
	}
	if result != nil {
		// rewrites can expose further patterns
		if depth < maxRewriteDepth {
			optExpr(result, depth+1)
		}
		*e = *result
	}
}

// Constant output. A program with no chance statements, no input and
// no calls into the random stdlib routines always produces the same
// output; run it now and keep only the output.
func constOutput(program *ast.Program) {
	possible := true
	prevLbl := uint16(0)
	for _, stmt := range program.Stmts {
		// a statement with % has no constant outcome, except for the
		// stdlib's own entry stubs
		if stmt.Props.Chance < 100 {
			if !(program.AddedSyslib && prevLbl == 1901) &&
				!(program.AddedFloatlib && (prevLbl == 5401 || prevLbl == 5402)) {
				possible = false
				break
			}
		}
		switch stmt.Body.Op {
		case ast.StWriteIn:
			possible = false
		case ast.StDoNext:
			n := stmt.Body.Label
			if (n == 1900 || n == 1910 || n == 5400) && prevLbl != 1911 {
				possible = false
			}
		}
		if !possible {
			break
		}
		prevLbl = stmt.Props.Label
	}
	if !possible {
		return
	}
	// evaluate against a captured sink; if that faults, leave the
	// program alone
	var out bytes.Buffer
	if _, err := eval.New(program, strings.NewReader(""), &out, false).Run(); err != nil {
		return
	}
	program.Stmts = []*ast.Stmt{
		{Body: ast.StmtBody{Op: ast.StPrint, Bytes: out.Bytes()}, Props: ast.StmtProps{Chance: 100}},
		{Body: ast.StmtBody{Op: ast.StGiveUp}, Props: ast.StmtProps{Chance: 100}},
	}
	program.Labels = map[uint16]int{}
	program.StmtTypes = []ast.Abstain{{}, {}}
	program.SpotInfo = nil
	program.TwoSpotInfo = nil
	program.TailInfo = nil
	program.HybridInfo = nil
	program.UsesComplexComeFrom = false
	program.AddedSyslib = false
	program.AddedFloatlib = false
	program.Bugline = 2
}

// Mark the statements some ABSTAIN or REINSTATE can actually reach.
func abstainCheck(program *ast.Program) {
	canAbstain := make([]bool, len(program.Stmts))
	for _, stmt := range program.Stmts {
		switch stmt.Body.Op {
		case ast.StAbstain, ast.StReinstate:
			for _, what := range stmt.Body.Targets {
				if what.Label != 0 {
					if idx, ok := program.Labels[what.Label]; ok {
						canAbstain[idx] = true
					}
				} else {
					for i, st := range program.StmtTypes {
						if st == what {
							canAbstain[i] = true
						}
					}
				}
			}
		}
	}
	for i, stmt := range program.Stmts {
		if stmt.Body.Op != ast.StGiveUp {
			stmt.CanAbstain = canAbstain[i]
		}
	}
}

// Determine which variables any STASH or IGNORE can name.
func varCheck(program *ast.Program) {
	reset := func(vis []ast.VarInfo) {
		for i := range vis {
			vis[i] = ast.VarInfo{}
		}
	}
	reset(program.SpotInfo)
	reset(program.TwoSpotInfo)
	reset(program.TailInfo)
	reset(program.HybridInfo)
	mark := func(program *ast.Program, v *ast.Var, stash bool) {
		var vi *ast.VarInfo
		switch v.Kind {
		case ast.Spot:
			vi = &program.SpotInfo[v.Num]
		case ast.TwoSpot:
			vi = &program.TwoSpotInfo[v.Num]
		case ast.Tail:
			vi = &program.TailInfo[v.Num]
		case ast.Hybrid:
			vi = &program.HybridInfo[v.Num]
		default:
			return
		}
		if stash {
			vi.CanStash = true
		} else {
			vi.CanIgnore = true
		}
	}
	for _, stmt := range program.Stmts {
		switch stmt.Body.Op {
		case ast.StStash, ast.StRetrieve:
			for _, v := range stmt.Body.Vars {
				mark(program, v, true)
			}
		case ast.StIgnore, ast.StRemember:
			for _, v := range stmt.Body.Vars {
				mark(program, v, false)
			}
		}
	}
}
