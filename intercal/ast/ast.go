/*
 * ICK - Program model for parsed INTERCAL.
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
	"github.com/rcornwell/ick/intercal/ierr"
)

// Width tag of a value or literal.
type VType int

const (
	I16 VType = iota // 16-bit (spot, tail)
	I32              // 32-bit (twospot, hybrid)
)

// Variable classes. The four classes index four separate tables.
type VarKind int

const (
	Spot    VarKind = iota // .n  16-bit scalar
	TwoSpot                // :n  32-bit scalar
	Tail                   // ,n  16-bit array
	Hybrid                 // ;n  32-bit array
)

// A variable reference. Num is the index into the class table. Subs
// holds subscript expressions; an array reference with no subscripts
// names the whole array (DIM, STASH, READ OUT, WRITE IN).
type Var struct {
	Kind VarKind `json:"kind"`
	Num  int     `json:"num"`
	Subs []*Expr `json:"subs,omitempty"`
}

// Whole-array reference (array class, no subscripts).
func (v *Var) IsDim() bool {
	return (v.Kind == Tail || v.Kind == Hybrid) && len(v.Subs) == 0
}

// Expression operators.
type ExprOp int

const (
	ExNum    ExprOp = iota // literal
	ExVar                  // variable lookup
	ExMingle               // $  bit interleave
	ExSelect               // ~  bit select
	ExAnd                  // unary &, v AND rotr1(v)
	ExOr                   // unary V
	ExXor                  // unary ?

	// Native operators, introduced by the optimizer only.
	ExRsAnd
	ExRsOr
	ExRsXor
	ExRsNot
	ExRsRshift
	ExRsLshift
	ExRsPlus
	ExRsMinus
	ExRsNotEqual
)

// Expression node. Num carries VType and Val; Var carries VRef; unary
// operators use L only.
type Expr struct {
	Op    ExprOp  `json:"op"`
	VType VType   `json:"vtype,omitempty"`
	Val   uint32  `json:"val,omitempty"`
	VRef  *Var    `json:"var,omitempty"`
	L     *Expr   `json:"l,omitempty"`
	R     *Expr   `json:"r,omitempty"`
}

// Statement operators.
type StmtOp int

const (
	StCalc StmtOp = iota
	StDim
	StDoNext
	StComeFrom
	StResume
	StForget
	StIgnore
	StRemember
	StStash
	StRetrieve
	StAbstain
	StReinstate
	StReadOut
	StWriteIn
	StGiveUp
	StPrint // optimizer generated
	StError // parser generated
)

// Statement body. A single flat record dispatched on Op; only the
// fields the operator needs are set.
type StmtBody struct {
	Op      StmtOp      `json:"op"`
	VRef    *Var        `json:"var,omitempty"`     // Calc, Dim, WriteIn
	Expr    *Expr       `json:"expr,omitempty"`    // Calc, Resume, Forget
	Exprs   []*Expr     `json:"exprs,omitempty"`   // Dim shape, ReadOut items
	Vars    []*Var      `json:"vars,omitempty"`    // Ignore/Remember/Stash/Retrieve
	Label   uint16      `json:"target,omitempty"`  // DoNext, ComeFrom
	Targets []Abstain   `json:"targets,omitempty"` // Abstain, Reinstate
	Bytes   []byte      `json:"bytes,omitempty"`   // Print
	Err     *ierr.Error `json:"-"`                 // Error
}

// Statement properties from the source.
type StmtProps struct {
	Label    uint16 `json:"label,omitempty"`
	Srcline  int    `json:"srcline"`
	Chance   uint8  `json:"chance"`
	Disabled bool   `json:"disabled,omitempty"`
}

// One statement. ComeFrom, when non-nil, is the index of the COME FROM
// statement that fires after this one completes; the parser guarantees
// at most one. CanAbstain is computed by the optimizer.
type Stmt struct {
	Body       StmtBody  `json:"body"`
	Props      StmtProps `json:"props"`
	ComeFrom   *int      `json:"comefrom,omitempty"`
	CanAbstain bool      `json:"-"`
}

// Gerund classes for ABSTAIN/REINSTATE bulk targeting.
type Gerund int

const (
	GerNone Gerund = iota
	GerCalculating
	GerNexting
	GerComingFrom
	GerResuming
	GerForgetting
	GerIgnoring
	GerRemembering
	GerStashing
	GerRetrieving
	GerAbstaining
	GerReinstating
	GerReadingOut
	GerWritingIn
)

// An ABSTAIN/REINSTATE target: a specific label, or every statement of
// a gerund class.
type Abstain struct {
	Label  uint16 `json:"label,omitempty"`
	Gerund Gerund `json:"gerund,omitempty"`
}

// Gerund class of a statement body, GerNone for the unclassifiable.
func (b *StmtBody) Gerund() Gerund {
	switch b.Op {
	case StCalc, StDim:
		return GerCalculating
	case StDoNext:
		return GerNexting
	case StComeFrom:
		return GerComingFrom
	case StResume:
		return GerResuming
	case StForget:
		return GerForgetting
	case StIgnore:
		return GerIgnoring
	case StRemember:
		return GerRemembering
	case StStash:
		return GerStashing
	case StRetrieve:
		return GerRetrieving
	case StAbstain:
		return GerAbstaining
	case StReinstate:
		return GerReinstating
	case StReadOut:
		return GerReadingOut
	case StWriteIn:
		return GerWritingIn
	}
	return GerNone
}

// Per-variable flags computed by the optimizer for the code generator.
type VarInfo struct {
	CanStash  bool `json:"-"`
	CanIgnore bool `json:"-"`
}

// A whole program as handed over by the parser.
type Program struct {
	Stmts     []*Stmt        `json:"stmts"`
	Labels    map[uint16]int `json:"-"` // label -> statement index
	StmtTypes []Abstain      `json:"-"` // gerund tag per statement

	// Variable tables, one entry per variable of each class.
	SpotInfo    []VarInfo `json:"-"`
	TwoSpotInfo []VarInfo `json:"-"`
	TailInfo    []VarInfo `json:"-"`
	HybridInfo  []VarInfo `json:"-"`

	UsesComplexComeFrom bool `json:"uses_complex_comefrom,omitempty"`
	AddedSyslib         bool `json:"added_syslib,omitempty"`
	AddedFloatlib       bool `json:"added_floatlib,omitempty"`

	// Line just past the last statement. The evaluator does not read
	// it: falling off the end reports the last statement's line.
	Bugline int `json:"bugline,omitempty"`
}

// Statements appearing in a Calc/Resume/Forget position carry a single
// expression the optimizer may rewrite.
func (s *Stmt) OptExpr() *Expr {
	switch s.Body.Op {
	case StCalc, StResume, StForget:
		return s.Body.Expr
	}
	return nil
}
