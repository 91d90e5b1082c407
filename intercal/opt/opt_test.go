/*
 * ICK - Optimizer test cases.
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

package opt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/ick/intercal/ast"
	"github.com/rcornwell/ick/intercal/eval"
)

func num(v uint32) *ast.Expr {
	vt := ast.I32
	if v <= 0xffff {
		vt = ast.I16
	}
	return &ast.Expr{Op: ast.ExNum, VType: vt, Val: v}
}

func spotx(n int) *ast.Expr {
	return &ast.Expr{Op: ast.ExVar, VRef: &ast.Var{Kind: ast.Spot, Num: n}}
}

func bin(op ast.ExprOp, l, r *ast.Expr) *ast.Expr {
	return &ast.Expr{Op: op, L: l, R: r}
}

func un(op ast.ExprOp, l *ast.Expr) *ast.Expr {
	return &ast.Expr{Op: op, L: l}
}

func sel(l, r *ast.Expr) *ast.Expr    { return bin(ast.ExSelect, l, r) }
func mingle(l, r *ast.Expr) *ast.Expr { return bin(ast.ExMingle, l, r) }

func do(op ast.StmtOp) *ast.Stmt {
	return &ast.Stmt{Body: ast.StmtBody{Op: op}, Props: ast.StmtProps{Chance: 100}}
}

func calc(v *ast.Var, e *ast.Expr) *ast.Stmt {
	s := do(ast.StCalc)
	s.Body.VRef = v
	s.Body.Expr = e
	return s
}

func spotv(n int) *ast.Var { return &ast.Var{Kind: ast.Spot, Num: n} }

func prog(stmts ...*ast.Stmt) *ast.Program {
	p := &ast.Program{
		Stmts:       stmts,
		Labels:      map[uint16]int{},
		SpotInfo:    make([]ast.VarInfo, 8),
		TwoSpotInfo: make([]ast.VarInfo, 8),
		TailInfo:    make([]ast.VarInfo, 8),
		HybridInfo:  make([]ast.VarInfo, 8),
	}
	for i, s := range stmts {
		if s.Props.Srcline == 0 {
			s.Props.Srcline = i + 1
		}
		if s.Props.Label != 0 {
			p.Labels[s.Props.Label] = i
		}
		p.StmtTypes = append(p.StmtTypes, ast.Abstain{Gerund: s.Body.Gerund()})
	}
	p.Bugline = len(stmts) + 1
	return p
}

// Rewrite a single expression through the peephole pass.
func rewrite(e *ast.Expr) *ast.Expr {
	p := prog(calc(spotv(1), e), do(ast.StGiveUp))
	optExpressions(p)
	return p.Stmts[0].Body.Expr
}

func TestConstantFold(t *testing.T) {
	p := prog(
		calc(spotv(1), mingle(num(5), num(9))),
		calc(spotv(2), sel(num(0xdead), num(0xff00))),
		calc(spotv(3), un(ast.ExXor, num(77))),
		do(ast.StGiveUp),
	)
	constantFold(p)

	e := p.Stmts[0].Body.Expr
	require.Equal(t, ast.ExNum, e.Op)
	assert.Equal(t, uint32(0x63), e.Val) // mingle(5, 9) = 0b1100011

	e = p.Stmts[1].Body.Expr
	require.Equal(t, ast.ExNum, e.Op)
	assert.Equal(t, uint32(0xde), e.Val)

	e = p.Stmts[2].Body.Expr
	require.Equal(t, ast.ExNum, e.Op)
	assert.Equal(t, uint32(32875), e.Val)
	assert.Equal(t, ast.I16, e.VType)
}

// Mingling values over 16 bits is a runtime error; folding must leave
// it for the evaluator to report.
func TestConstantFoldKeepsBadMingle(t *testing.T) {
	p := prog(calc(spotv(1), mingle(num(0x10000), num(0))), do(ast.StGiveUp))
	constantFold(p)
	assert.Equal(t, ast.ExMingle, p.Stmts[0].Body.Expr.Op)
}

func TestFoldNested(t *testing.T) {
	// (#3 $ #5) ~ (#0 $ #65535) folds bottom-up to a literal
	p := prog(calc(spotv(1), sel(mingle(num(3), num(5)), mingle(num(0), num(65535)))), do(ast.StGiveUp))
	constantFold(p)
	e := p.Stmts[0].Body.Expr
	require.Equal(t, ast.ExNum, e.Op)
	// selecting the even bits out of a mingle recovers the right operand
	assert.Equal(t, uint32(5), e.Val)
}

func TestSelectUnopMingle(t *testing.T) {
	for _, c := range []struct {
		unop ast.ExprOp
		want ast.ExprOp
	}{
		{ast.ExAnd, ast.ExRsAnd},
		{ast.ExOr, ast.ExRsOr},
		{ast.ExXor, ast.ExRsXor},
	} {
		e := rewrite(sel(un(c.unop, mingle(spotx(1), spotx(2))), num(0x55555555)))
		require.Equal(t, c.want, e.Op)
		assert.Equal(t, ast.ExVar, e.L.Op)
		assert.Equal(t, ast.ExVar, e.R.Op)
	}
}

func TestSelectMaskRuns(t *testing.T) {
	// run reaching bit 0: plain mask
	e := rewrite(sel(spotx(1), num(0x0000ffff)))
	require.Equal(t, ast.ExRsAnd, e.Op)
	assert.Equal(t, uint32(0xffff), e.R.Val)

	// run reaching bit 31: plain shift
	e = rewrite(sel(spotx(1), num(0xffff0000)))
	require.Equal(t, ast.ExRsRshift, e.Op)
	assert.Equal(t, uint32(16), e.R.Val)

	// inner run: shift then mask
	e = rewrite(sel(spotx(1), num(0x00ff0000)))
	require.Equal(t, ast.ExRsAnd, e.Op)
	require.Equal(t, ast.ExRsRshift, e.L.Op)
	assert.Equal(t, uint32(16), e.L.R.Val)
	assert.Equal(t, uint32(0xff), e.R.Val)

	// broken run: no rewrite
	e = rewrite(sel(spotx(1), num(0x00ff00ff)))
	assert.Equal(t, ast.ExSelect, e.Op)
}

func TestSelectMingleShift(t *testing.T) {
	e := rewrite(sel(mingle(spotx(1), num(0)), num(0x2aaaaaab)))
	require.Equal(t, ast.ExRsAnd, e.Op)
	require.Equal(t, ast.ExRsLshift, e.L.Op)
	assert.Equal(t, uint32(0xffff), e.R.Val)
}

func TestMinglePairPattern(t *testing.T) {
	// (x~alpha & y~alpha) $ (x~beta & y~beta) -> x & y in 32 bits
	x, y := spotx(1), spotx(2)
	e := rewrite(mingle(
		bin(ast.ExRsAnd, sel(x.Clone(), num(0xaaaaaaaa)), sel(y.Clone(), num(0xaaaaaaaa))),
		bin(ast.ExRsAnd, sel(x.Clone(), num(0x55555555)), sel(y.Clone(), num(0x55555555)))))
	require.Equal(t, ast.ExRsAnd, e.Op)
	assert.True(t, e.L.Equal(x))
	assert.True(t, e.R.Equal(y))
}

func TestMingleLiteralPattern(t *testing.T) {
	x := spotx(1)
	e := rewrite(mingle(
		bin(ast.ExRsOr, sel(x.Clone(), num(0xaaaaaaaa)), num(0x12)),
		bin(ast.ExRsOr, sel(x.Clone(), num(0x55555555)), num(0x34))))
	require.Equal(t, ast.ExRsOr, e.Op)
	assert.True(t, e.L.Equal(x))
	assert.Equal(t, uint32(0x12<<16|0x34), e.R.Val)
}

func TestMingleNotEqualPattern(t *testing.T) {
	ne1 := bin(ast.ExRsNotEqual, spotx(1), num(0))
	ne2 := bin(ast.ExRsNotEqual, spotx(2), num(0))
	e := rewrite(mingle(ne1, ne2))
	require.Equal(t, ast.ExRsOr, e.Op)
	assert.Equal(t, ast.ExRsLshift, e.L.Op)
	assert.Equal(t, ast.ExRsNotEqual, e.R.Op)
}

func TestRsAndPatterns(t *testing.T) {
	// (x ~ x) & 1 -> x != 0
	e := rewrite(bin(ast.ExRsAnd, sel(spotx(1), spotx(1)), num(1)))
	require.Equal(t, ast.ExRsNotEqual, e.Op)
	assert.Equal(t, uint32(0), e.R.Val)

	// ?(x $ 1) & 3 -> 1 + (x & 1)
	e = rewrite(bin(ast.ExRsAnd, un(ast.ExXor, mingle(spotx(1), num(1))), num(3)))
	require.Equal(t, ast.ExRsPlus, e.Op)
	assert.Equal(t, uint32(1), e.L.Val)

	// ?(x $ 2) & 3 -> 2 - (x & 1)
	e = rewrite(bin(ast.ExRsAnd, un(ast.ExXor, mingle(spotx(1), num(2))), num(3)))
	require.Equal(t, ast.ExRsMinus, e.Op)
	assert.Equal(t, uint32(2), e.L.Val)

	// x & 0xFFFFFFFF -> x
	e = rewrite(bin(ast.ExRsAnd, spotx(1), num(0xffffffff)))
	assert.Equal(t, ast.ExVar, e.Op)

	// ((x & y) & y) -> (x & y)
	e = rewrite(bin(ast.ExRsAnd, bin(ast.ExRsAnd, spotx(1), spotx(2)), spotx(2)))
	require.Equal(t, ast.ExRsAnd, e.Op)
	assert.Equal(t, ast.ExVar, e.L.Op)

	// ((x != y) & 1) -> (x != y)
	e = rewrite(bin(ast.ExRsAnd, bin(ast.ExRsNotEqual, spotx(1), num(4)), num(1)))
	assert.Equal(t, ast.ExRsNotEqual, e.Op)

	// &(x $ y) & 1 -> (x & 1) & (y & 1)
	e = rewrite(bin(ast.ExRsAnd, un(ast.ExAnd, mingle(spotx(1), spotx(2))), num(1)))
	require.Equal(t, ast.ExRsAnd, e.Op)
	require.Equal(t, ast.ExRsAnd, e.L.Op)
	require.Equal(t, ast.ExRsAnd, e.R.Op)
}

func TestRsXorToNot(t *testing.T) {
	e := rewrite(bin(ast.ExRsXor, spotx(1), num(0xffffffff)))
	require.Equal(t, ast.ExRsNot, e.Op)
	e = rewrite(bin(ast.ExRsXor, num(0xffffffff), spotx(1)))
	require.Equal(t, ast.ExRsNot, e.Op)
}

// Rewrites compose: collapsing a child exposes a match on the parent.
func TestRewriteComposes(t *testing.T) {
	e := rewrite(bin(ast.ExRsAnd,
		bin(ast.ExRsAnd, spotx(1), num(0xffffffff)),
		num(0xffffffff)))
	assert.Equal(t, ast.ExVar, e.Op)
}

// The full pipeline must not change what a program prints.
func TestOptimizeSoundness(t *testing.T) {
	build := func() *ast.Program {
		readOut := do(ast.StReadOut)
		readOut.Body.Exprs = []*ast.Expr{spotx(1), spotx(2), spotx(3)}
		return prog(
			calc(spotv(1), sel(un(ast.ExXor, mingle(spotx(2), num(1))), num(0x0000ffff))),
			calc(spotv(2), mingle(num(0xff), num(0xf0))),
			calc(spotv(3), sel(un(ast.ExAnd, mingle(spotx(1), spotx(2))), num(0x55555555))),
			readOut,
			do(ast.StGiveUp),
		)
	}

	var plain bytes.Buffer
	_, err := eval.New(build(), strings.NewReader(""), &plain, false).Run()
	require.NoError(t, err)

	optimized := New(build(), false).Optimize()
	var opted bytes.Buffer
	_, err = eval.New(optimized, strings.NewReader(""), &opted, false).Run()
	require.NoError(t, err)

	assert.Equal(t, plain.String(), opted.String())
}

func TestConstOutput(t *testing.T) {
	readOut := do(ast.StReadOut)
	readOut.Body.Exprs = []*ast.Expr{spotx(1)}
	p := prog(
		calc(spotv(1), num(7)),
		readOut,
		do(ast.StGiveUp),
	)

	var want bytes.Buffer
	_, err := eval.New(p, strings.NewReader(""), &want, false).Run()
	require.NoError(t, err)

	constOutput(p)
	require.Len(t, p.Stmts, 2)
	assert.Equal(t, ast.StPrint, p.Stmts[0].Body.Op)
	assert.Equal(t, ast.StGiveUp, p.Stmts[1].Body.Op)
	assert.Empty(t, p.Labels)
	assert.Equal(t, 2, p.Bugline)

	var got bytes.Buffer
	_, err = eval.New(p, strings.NewReader(""), &got, false).Run()
	require.NoError(t, err)
	assert.Equal(t, want.String(), got.String())
}

func TestConstOutputSkipsChance(t *testing.T) {
	c := calc(spotv(1), num(7))
	c.Props.Chance = 50
	p := prog(c, do(ast.StGiveUp))
	constOutput(p)
	assert.Len(t, p.Stmts, 2)
	assert.Equal(t, ast.StCalc, p.Stmts[0].Body.Op)
}

func TestConstOutputSkipsWriteIn(t *testing.T) {
	wi := do(ast.StWriteIn)
	wi.Body.VRef = spotv(1)
	p := prog(wi, do(ast.StGiveUp))
	constOutput(p)
	assert.Equal(t, ast.StWriteIn, p.Stmts[0].Body.Op)
}

func TestConstOutputSkipsRandomStdlib(t *testing.T) {
	next := do(ast.StDoNext)
	next.Body.Label = 1900
	p := prog(next, do(ast.StGiveUp))
	constOutput(p)
	assert.Equal(t, ast.StDoNext, p.Stmts[0].Body.Op)
}

// A faulting program is left alone.
func TestConstOutputKeepsFailing(t *testing.T) {
	resume := do(ast.StResume)
	resume.Body.Expr = num(1)
	p := prog(resume, do(ast.StGiveUp))
	constOutput(p)
	assert.Equal(t, ast.StResume, p.Stmts[0].Body.Op)
}

func TestAbstainCheck(t *testing.T) {
	abstain := do(ast.StAbstain)
	abstain.Body.Targets = []ast.Abstain{{Label: 5}, {Gerund: ast.GerNexting}}
	next := do(ast.StDoNext)
	next.Body.Label = 5
	p := prog(
		abstain,
		label5(calc(spotv(1), num(1))),
		next,
		calc(spotv(2), num(2)),
		do(ast.StGiveUp),
	)
	abstainCheck(p)
	assert.True(t, p.Stmts[1].CanAbstain, "labelled target")
	assert.True(t, p.Stmts[2].CanAbstain, "gerund target")
	assert.False(t, p.Stmts[3].CanAbstain, "untargeted calc")
	assert.False(t, p.Stmts[4].CanAbstain, "GIVE UP can never be abstained")
}

func label5(s *ast.Stmt) *ast.Stmt {
	s.Props.Label = 5
	return s
}

func TestVarCheck(t *testing.T) {
	stash := do(ast.StStash)
	stash.Body.Vars = []*ast.Var{spotv(1)}
	ignore := do(ast.StIgnore)
	ignore.Body.Vars = []*ast.Var{spotv(2), {Kind: ast.Tail, Num: 3}}
	p := prog(stash, ignore, do(ast.StGiveUp))
	varCheck(p)
	assert.True(t, p.SpotInfo[1].CanStash)
	assert.False(t, p.SpotInfo[1].CanIgnore)
	assert.True(t, p.SpotInfo[2].CanIgnore)
	assert.False(t, p.SpotInfo[2].CanStash)
	assert.True(t, p.TailInfo[3].CanIgnore)
	assert.False(t, p.SpotInfo[4].CanStash)
}
