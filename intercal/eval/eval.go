/*
 * ICK - Evaluator: statement fetch and execute.
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
	"bufio"
	"io"
	"log/slog"

	"github.com/rcornwell/ick/intercal/ast"
	"github.com/rcornwell/ick/intercal/bitops"
	"github.com/rcornwell/ick/intercal/ierr"
	"github.com/rcornwell/ick/intercal/numerals"
	"github.com/rcornwell/ick/intercal/store"
)

// Maximum NEXT stack depth before the program vanishes into the black
// lagoon.
const maxNext = 80

// Eval runs a program. The program is shared and never written; all
// mutable state lives here for the duration of one Run.
type Eval struct {
	program *ast.Program
	in      *bufio.Reader
	out     io.Writer
	trace   bool

	spot    []*store.Bind[uint16]
	twospot []*store.Bind[uint32]
	tail    []*store.Array[uint16]
	hybrid  []*store.Array[uint32]

	jumps   []int // NEXT return sites
	abstain []bool
	lastIn  uint8
	lastOut uint8
	stmtCtr int
}

// Result of one statement dispatch.
type stmtRes int

const (
	resNext stmtRes = iota // fall through
	resJump                // NEXT: push return site, skip COME FROM check
	resBack                // RESUME: transfer, COME FROM still applies
	resEnd                 // GIVE UP
)

// New builds an evaluator over a program, reading WRITE IN input from
// in and sending READ OUT output to out.
func New(program *ast.Program, in io.Reader, out io.Writer, trace bool) *Eval {
	e := &Eval{
		program: program,
		in:      bufio.NewReader(in),
		out:     out,
		trace:   trace,
		abstain: make([]bool, len(program.Stmts)),
	}
	for i, stmt := range program.Stmts {
		e.abstain[i] = stmt.Props.Disabled
	}
	e.spot = make([]*store.Bind[uint16], len(program.SpotInfo))
	for i := range e.spot {
		e.spot[i] = store.NewBind[uint16]()
	}
	e.twospot = make([]*store.Bind[uint32], len(program.TwoSpotInfo))
	for i := range e.twospot {
		e.twospot[i] = store.NewBind[uint32]()
	}
	e.tail = make([]*store.Array[uint16], len(program.TailInfo))
	for i := range e.tail {
		e.tail[i] = store.NewArray[uint16]()
	}
	e.hybrid = make([]*store.Array[uint32], len(program.HybridInfo))
	for i := range e.hybrid {
		e.hybrid[i] = store.NewArray[uint32]()
	}
	return e
}

// Run executes from the first statement and returns the number of
// statements reached, or the first runtime error annotated with its
// source line.
func (e *Eval) Run() (int, error) {
	pctr := 0
	stmts := e.program.Stmts
	bitops.SeedChance()
	for {
		// check for falling off the end
		if pctr >= len(stmts) {
			last := stmts[len(stmts)-1]
			return e.stmtCtr, ierr.WithLine(ierr.IE663, last.Props.Srcline)
		}
		e.stmtCtr++
		stmt := stmts[pctr]
		// execute unless abstained or the chance roll skips it
		if !e.abstain[pctr] && bitops.CheckChance(stmt.Props.Chance) {
			if e.trace {
				slog.Debug("executing", "line", stmt.Props.Srcline, "stmt", stmt.String())
			}
			res, target, err := e.evalStmt(stmt)
			if err != nil {
				var ie *ierr.Error
				if !errorAs(err, &ie) {
					return e.stmtCtr, err
				}
				ie.SetLine(stmt.Props.Srcline)
				return e.stmtCtr, ie
			}
			switch res {
			case resNext:
			case resJump:
				e.jumps = append(e.jumps, pctr)
				pctr = target
				continue // no COME FROM check on the way out
			case resBack:
				pctr = target
			case resEnd:
				return e.stmtCtr, nil
			}
		}
		// a COME FROM pointing at this statement takes over, unless
		// the COME FROM itself is abstained
		if cf := stmts[pctr].ComeFrom; cf != nil && !e.abstain[*cf] {
			pctr = *cf
			continue
		}
		pctr++
	}
}

func errorAs(err error, target **ierr.Error) bool {
	ie, ok := err.(*ierr.Error)
	if ok {
		*target = ie
	}
	return ok
}

// Dispatch one statement body.
func (e *Eval) evalStmt(stmt *ast.Stmt) (stmtRes, int, error) {
	b := &stmt.Body
	switch b.Op {
	case ast.StCalc:
		val, err := e.evalExpr(b.Expr)
		if err != nil {
			return resNext, 0, err
		}
		return resNext, 0, e.assign(b.VRef, val)

	case ast.StDim:
		return resNext, 0, e.arrayDim(b.VRef, b.Exprs)

	case ast.StDoNext:
		target, ok := e.program.Labels[b.Label]
		if !ok {
			return resNext, 0, ierr.New(ierr.IE129)
		}
		if len(e.jumps) >= maxNext {
			return resNext, 0, ierr.New(ierr.IE123)
		}
		return resJump, target, nil

	case ast.StComeFrom:
		// nothing to do here at runtime
		return resNext, 0, nil

	case ast.StResume:
		val, err := e.evalExpr(b.Expr)
		if err != nil {
			return resNext, 0, err
		}
		target, _, err := popJumps(&e.jumps, val.AsU32(), true)
		if err != nil {
			return resNext, 0, err
		}
		return resBack, target, nil

	case ast.StForget:
		val, err := e.evalExpr(b.Expr)
		if err != nil {
			return resNext, 0, err
		}
		_, _, err = popJumps(&e.jumps, val.AsU32(), false)
		return resNext, 0, err

	case ast.StIgnore:
		for _, v := range b.Vars {
			e.setRW(v, false)
		}
		return resNext, 0, nil

	case ast.StRemember:
		for _, v := range b.Vars {
			e.setRW(v, true)
		}
		return resNext, 0, nil

	case ast.StStash:
		for _, v := range b.Vars {
			e.stashVar(v)
		}
		return resNext, 0, nil

	case ast.StRetrieve:
		for _, v := range b.Vars {
			if err := e.retrieveVar(v); err != nil {
				return resNext, 0, err
			}
		}
		return resNext, 0, nil

	case ast.StAbstain:
		for _, t := range b.Targets {
			e.setAbstain(t, true)
		}
		return resNext, 0, nil

	case ast.StReinstate:
		for _, t := range b.Targets {
			e.setAbstain(t, false)
		}
		return resNext, 0, nil

	case ast.StReadOut:
		for _, item := range b.Exprs {
			if err := e.readOut(item); err != nil {
				return resNext, 0, err
			}
		}
		return resNext, 0, nil

	case ast.StWriteIn:
		return resNext, 0, e.writeIn(b.VRef)

	case ast.StGiveUp:
		return resEnd, 0, nil

	case ast.StPrint:
		_, err := e.out.Write(b.Bytes)
		return resNext, 0, err

	case ast.StError:
		if b.Err == nil {
			return resNext, 0, ierr.New(ierr.IE774)
		}
		return resNext, 0, b.Err.Clone()
	}
	return resNext, 0, ierr.New(ierr.IE774)
}

// popJumps takes n entries off the NEXT stack and returns the last one
// popped. Strict mode (RESUME) faults on zero and on popping past the
// bottom; FORGET clamps silently.
func popJumps(jumps *[]int, n uint32, strict bool) (int, bool, error) {
	if n == 0 {
		if strict {
			return 0, false, ierr.New(ierr.IE621)
		}
		return 0, false, nil
	}
	depth := uint32(len(*jumps))
	if depth < n {
		if strict {
			return 0, false, ierr.New(ierr.IE632)
		}
		*jumps = (*jumps)[:0]
		return 0, false, nil
	}
	target := (*jumps)[depth-n]
	*jumps = (*jumps)[:depth-n]
	return target, true, nil
}

// READ OUT of one item: whole arrays use the byte path, scalars and
// literals print as Roman numerals.
func (e *Eval) readOut(item *ast.Expr) error {
	switch {
	case item.Op == ast.ExVar && item.VRef.IsDim():
		return e.arrayReadout(item.VRef)
	case item.Op == ast.ExVar:
		val, err := e.lookup(item.VRef)
		if err != nil {
			return err
		}
		return numerals.WriteNumber(e.out, val.AsU32())
	case item.Op == ast.ExNum:
		return numerals.WriteNumber(e.out, item.Val)
	}
	return ierr.New(ierr.IE774)
}

// WRITE IN to one variable: whole arrays use the byte path, scalars
// read an English number.
func (e *Eval) writeIn(v *ast.Var) error {
	if v.IsDim() {
		return e.arrayWritein(v)
	}
	n, err := numerals.ReadNumber(e.in)
	if err != nil {
		return err
	}
	return e.assign(v, FromU32(n))
}

// Evaluate subscripts to usable indices.
func (e *Eval) evalSubs(subs []*ast.Expr) ([]int, error) {
	res := make([]int, len(subs))
	for i, s := range subs {
		val, err := e.evalExpr(s)
		if err != nil {
			return nil, err
		}
		res[i] = int(val.AsU32())
	}
	return res, nil
}

// Dimension an array.
func (e *Eval) arrayDim(v *ast.Var, dims []*ast.Expr) error {
	ds, err := e.evalSubs(dims)
	if err != nil {
		return err
	}
	switch v.Kind {
	case ast.Tail:
		return e.tail[v.Num].Dimension(ds)
	case ast.Hybrid:
		return e.hybrid[v.Num].Dimension(ds)
	}
	return ierr.New(ierr.IE774)
}

// Assign to a variable.
func (e *Eval) assign(v *ast.Var, val Val) error {
	switch v.Kind {
	case ast.Spot:
		n, err := val.AsU16()
		if err != nil {
			return err
		}
		e.spot[v.Num].Assign(n)
		return nil
	case ast.TwoSpot:
		e.twospot[v.Num].Assign(val.AsU32())
		return nil
	case ast.Tail:
		subs, err := e.evalSubs(v.Subs)
		if err != nil {
			return err
		}
		n, err := val.AsU16()
		if err != nil {
			return err
		}
		return e.tail[v.Num].SubAssign(subs, n)
	case ast.Hybrid:
		subs, err := e.evalSubs(v.Subs)
		if err != nil {
			return err
		}
		return e.hybrid[v.Num].SubAssign(subs, val.AsU32())
	}
	return ierr.New(ierr.IE774)
}

// Look up the value of a variable.
func (e *Eval) lookup(v *ast.Var) (Val, error) {
	switch v.Kind {
	case ast.Spot:
		return Val{ast.I16, uint32(e.spot[v.Num].Val)}, nil
	case ast.TwoSpot:
		return Val{ast.I32, e.twospot[v.Num].Val}, nil
	case ast.Tail:
		subs, err := e.evalSubs(v.Subs)
		if err != nil {
			return Val{}, err
		}
		n, err := e.tail[v.Num].SubLookup(subs)
		return Val{ast.I16, uint32(n)}, err
	case ast.Hybrid:
		subs, err := e.evalSubs(v.Subs)
		if err != nil {
			return Val{}, err
		}
		n, err := e.hybrid[v.Num].SubLookup(subs)
		return Val{ast.I32, n}, err
	}
	return Val{}, ierr.New(ierr.IE774)
}

func (e *Eval) stashVar(v *ast.Var) {
	switch v.Kind {
	case ast.Spot:
		e.spot[v.Num].Stash()
	case ast.TwoSpot:
		e.twospot[v.Num].Stash()
	case ast.Tail:
		e.tail[v.Num].Stash()
	case ast.Hybrid:
		e.hybrid[v.Num].Stash()
	}
}

func (e *Eval) retrieveVar(v *ast.Var) error {
	switch v.Kind {
	case ast.Spot:
		return e.spot[v.Num].Retrieve()
	case ast.TwoSpot:
		return e.twospot[v.Num].Retrieve()
	case ast.Tail:
		return e.tail[v.Num].Retrieve()
	case ast.Hybrid:
		return e.hybrid[v.Num].Retrieve()
	}
	return nil
}

// IGNORE and REMEMBER. Cannot fail.
func (e *Eval) setRW(v *ast.Var, rw bool) {
	switch v.Kind {
	case ast.Spot:
		e.spot[v.Num].RW = rw
	case ast.TwoSpot:
		e.twospot[v.Num].RW = rw
	case ast.Tail:
		e.tail[v.Num].RW = rw
	case ast.Hybrid:
		e.hybrid[v.Num].RW = rw
	}
}

// ABSTAIN and REINSTATE. Cannot fail.
func (e *Eval) setAbstain(what ast.Abstain, abstain bool) {
	if what.Label != 0 {
		if idx, ok := e.program.Labels[what.Label]; ok {
			e.abstain[idx] = abstain
		}
		return
	}
	for i, st := range e.program.StmtTypes {
		if st == what {
			e.abstain[i] = abstain
		}
	}
}

func (e *Eval) arrayReadout(v *ast.Var) error {
	switch v.Kind {
	case ast.Tail:
		return e.tail[v.Num].Readout(e.out, &e.lastOut)
	case ast.Hybrid:
		return e.hybrid[v.Num].Readout(e.out, &e.lastOut)
	}
	return ierr.New(ierr.IE774)
}

func (e *Eval) arrayWritein(v *ast.Var) error {
	switch v.Kind {
	case ast.Tail:
		return e.tail[v.Num].Writein(e.in, &e.lastIn)
	case ast.Hybrid:
		return e.hybrid[v.Num].Writein(e.in, &e.lastIn)
	}
	return ierr.New(ierr.IE774)
}
