/*
 * ICK - Program loader: reads the parser's program dump.
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

package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rcornwell/ick/intercal/ast"
)

// Load reads a program dump produced by the parser and rebuilds the
// derived tables: the label map, the gerund tags, the COME FROM links
// and the variable tables.
func Load(r io.Reader) (*ast.Program, error) {
	var program ast.Program
	dec := json.NewDecoder(r)
	if err := dec.Decode(&program); err != nil {
		return nil, fmt.Errorf("program dump unreadable: %w", err)
	}
	if len(program.Stmts) == 0 {
		return nil, fmt.Errorf("program dump holds no statements")
	}
	if err := link(&program); err != nil {
		return nil, err
	}
	return &program, nil
}

func link(program *ast.Program) error {
	program.Labels = make(map[uint16]int)
	program.StmtTypes = make([]ast.Abstain, len(program.Stmts))
	for i, stmt := range program.Stmts {
		if lbl := stmt.Props.Label; lbl != 0 {
			if _, dup := program.Labels[lbl]; dup {
				return fmt.Errorf("label (%d) appears twice", lbl)
			}
			program.Labels[lbl] = i
		}
		program.StmtTypes[i] = ast.Abstain{Gerund: stmt.Body.Gerund()}
		stmt.ComeFrom = nil
	}

	// Wire every COME FROM to its target statement. The parser must
	// not let two of them share a target.
	for i, stmt := range program.Stmts {
		if stmt.Body.Op != ast.StComeFrom {
			continue
		}
		target, ok := program.Labels[stmt.Body.Label]
		if !ok {
			return fmt.Errorf("COME FROM (%d) has no target", stmt.Body.Label)
		}
		if program.Stmts[target].ComeFrom != nil {
			return fmt.Errorf("two COME FROMs fight over label (%d)", stmt.Body.Label)
		}
		idx := i
		program.Stmts[target].ComeFrom = &idx
	}

	sizeVarTables(program)
	if program.Bugline == 0 {
		program.Bugline = program.Stmts[len(program.Stmts)-1].Props.Srcline + 1
	}
	return nil
}

// Size the four variable tables from the highest index each class
// reaches anywhere in the program.
func sizeVarTables(program *ast.Program) {
	var count [4]int
	note := func(v *ast.Var) {
		if v != nil && v.Num >= count[v.Kind] {
			count[v.Kind] = v.Num + 1
		}
	}
	var walkExpr func(e *ast.Expr)
	walkExpr = func(e *ast.Expr) {
		if e == nil {
			return
		}
		if e.VRef != nil {
			note(e.VRef)
			for _, sub := range e.VRef.Subs {
				walkExpr(sub)
			}
		}
		walkExpr(e.L)
		walkExpr(e.R)
	}
	for _, stmt := range program.Stmts {
		b := &stmt.Body
		if b.VRef != nil {
			note(b.VRef)
			for _, sub := range b.VRef.Subs {
				walkExpr(sub)
			}
		}
		walkExpr(b.Expr)
		for _, x := range b.Exprs {
			walkExpr(x)
		}
		for _, v := range b.Vars {
			note(v)
			for _, sub := range v.Subs {
				walkExpr(sub)
			}
		}
	}
	program.SpotInfo = make([]ast.VarInfo, count[ast.Spot])
	program.TwoSpotInfo = make([]ast.VarInfo, count[ast.TwoSpot])
	program.TailInfo = make([]ast.VarInfo, count[ast.Tail])
	program.HybridInfo = make([]ast.VarInfo, count[ast.Hybrid])
}
