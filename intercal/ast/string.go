/*
 * ICK - Renderers and structural helpers for the program model.
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

package ast

import (
	"fmt"
	"strings"
)

var varSigil = map[VarKind]string{
	Spot:    ".",
	TwoSpot: ":",
	Tail:    ",",
	Hybrid:  ";",
}

func (v *Var) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%d", varSigil[v.Kind], v.Num)
	for _, sub := range v.Subs {
		sb.WriteString(" SUB ")
		sb.WriteString(sub.String())
	}
	return sb.String()
}

func (e *Expr) String() string {
	switch e.Op {
	case ExNum:
		return fmt.Sprintf("#%d", e.Val)
	case ExVar:
		return e.VRef.String()
	case ExMingle:
		return fmt.Sprintf("(%s $ %s)", e.L, e.R)
	case ExSelect:
		return fmt.Sprintf("(%s ~ %s)", e.L, e.R)
	case ExAnd:
		return fmt.Sprintf("&(%s)", e.L)
	case ExOr:
		return fmt.Sprintf("V(%s)", e.L)
	case ExXor:
		return fmt.Sprintf("?(%s)", e.L)
	case ExRsAnd:
		return fmt.Sprintf("(%s & %s)", e.L, e.R)
	case ExRsOr:
		return fmt.Sprintf("(%s | %s)", e.L, e.R)
	case ExRsXor:
		return fmt.Sprintf("(%s ^ %s)", e.L, e.R)
	case ExRsNot:
		return fmt.Sprintf("!(%s)", e.L)
	case ExRsRshift:
		return fmt.Sprintf("(%s >> %s)", e.L, e.R)
	case ExRsLshift:
		return fmt.Sprintf("(%s << %s)", e.L, e.R)
	case ExRsPlus:
		return fmt.Sprintf("(%s + %s)", e.L, e.R)
	case ExRsMinus:
		return fmt.Sprintf("(%s - %s)", e.L, e.R)
	case ExRsNotEqual:
		return fmt.Sprintf("(%s != %s)", e.L, e.R)
	}
	return "?expr?"
}

func (a Abstain) String() string {
	if a.Label != 0 {
		return fmt.Sprintf("(%d)", a.Label)
	}
	names := map[Gerund]string{
		GerCalculating: "CALCULATING",
		GerNexting:     "NEXTING",
		GerComingFrom:  "COMING FROM",
		GerResuming:    "RESUMING",
		GerForgetting:  "FORGETTING",
		GerIgnoring:    "IGNORING",
		GerRemembering: "REMEMBERING",
		GerStashing:    "STASHING",
		GerRetrieving:  "RETRIEVING",
		GerAbstaining:  "ABSTAINING",
		GerReinstating: "REINSTATING",
		GerReadingOut:  "READING OUT",
		GerWritingIn:   "WRITING IN",
	}
	return names[a.Gerund]
}

func varList(vars []*Var) string {
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = v.String()
	}
	return strings.Join(parts, " + ")
}

func (s *Stmt) String() string {
	var sb strings.Builder
	if s.Props.Label != 0 {
		fmt.Fprintf(&sb, "(%d) ", s.Props.Label)
	}
	sb.WriteString("DO ")
	if s.Props.Chance < 100 {
		fmt.Fprintf(&sb, "%%%d ", s.Props.Chance)
	}
	b := &s.Body
	switch b.Op {
	case StCalc:
		fmt.Fprintf(&sb, "%s <- %s", b.VRef, b.Expr)
	case StDim:
		parts := make([]string, len(b.Exprs))
		for i, d := range b.Exprs {
			parts[i] = d.String()
		}
		fmt.Fprintf(&sb, "%s <- %s", b.VRef, strings.Join(parts, " BY "))
	case StDoNext:
		fmt.Fprintf(&sb, "(%d) NEXT", b.Label)
	case StComeFrom:
		fmt.Fprintf(&sb, "COME FROM (%d)", b.Label)
	case StResume:
		fmt.Fprintf(&sb, "RESUME %s", b.Expr)
	case StForget:
		fmt.Fprintf(&sb, "FORGET %s", b.Expr)
	case StIgnore:
		fmt.Fprintf(&sb, "IGNORE %s", varList(b.Vars))
	case StRemember:
		fmt.Fprintf(&sb, "REMEMBER %s", varList(b.Vars))
	case StStash:
		fmt.Fprintf(&sb, "STASH %s", varList(b.Vars))
	case StRetrieve:
		fmt.Fprintf(&sb, "RETRIEVE %s", varList(b.Vars))
	case StAbstain:
		parts := make([]string, len(b.Targets))
		for i, t := range b.Targets {
			parts[i] = t.String()
		}
		fmt.Fprintf(&sb, "ABSTAIN FROM %s", strings.Join(parts, " + "))
	case StReinstate:
		parts := make([]string, len(b.Targets))
		for i, t := range b.Targets {
			parts[i] = t.String()
		}
		fmt.Fprintf(&sb, "REINSTATE %s", strings.Join(parts, " + "))
	case StReadOut:
		parts := make([]string, len(b.Exprs))
		for i, x := range b.Exprs {
			parts[i] = x.String()
		}
		fmt.Fprintf(&sb, "READ OUT %s", strings.Join(parts, " + "))
	case StWriteIn:
		fmt.Fprintf(&sb, "WRITE IN %s", b.VRef)
	case StGiveUp:
		sb.WriteString("GIVE UP")
	case StPrint:
		fmt.Fprintf(&sb, "PRINT %d BYTES", len(b.Bytes))
	case StError:
		sb.WriteString("COMPILER ERROR")
	}
	return sb.String()
}

// Clone makes a deep copy of an expression tree. The peephole rewrites
// duplicate subtrees into two positions; trees never share children.
func (e *Expr) Clone() *Expr {
	if e == nil {
		return nil
	}
	c := &Expr{Op: e.Op, VType: e.VType, Val: e.Val}
	if e.VRef != nil {
		c.VRef = e.VRef.Clone()
	}
	c.L = e.L.Clone()
	c.R = e.R.Clone()
	return c
}

func (v *Var) Clone() *Var {
	if v == nil {
		return nil
	}
	c := &Var{Kind: v.Kind, Num: v.Num}
	for _, sub := range v.Subs {
		c.Subs = append(c.Subs, sub.Clone())
	}
	return c
}

// Equal reports structural equality of two expression trees.
func (e *Expr) Equal(o *Expr) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Op != o.Op || e.VType != o.VType || e.Val != o.Val {
		return false
	}
	if !e.VRef.Equal(o.VRef) {
		return false
	}
	return e.L.Equal(o.L) && e.R.Equal(o.R)
}

func (v *Var) Equal(o *Var) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.Kind != o.Kind || v.Num != o.Num || len(v.Subs) != len(o.Subs) {
		return false
	}
	for i := range v.Subs {
		if !v.Subs[i].Equal(o.Subs[i]) {
			return false
		}
	}
	return true
}
