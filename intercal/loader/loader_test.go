/*
 * ICK - Program loader test cases.
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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcornwell/ick/intercal/ast"
	"github.com/rcornwell/ick/intercal/eval"
)

// A program dump the way the parser writes one: (2) DO .1 <- #7,
// a COME FROM (2), READ OUT .1 and GIVE UP.
func sampleDump(t *testing.T) string {
	t.Helper()
	p := ast.Program{
		Stmts: []*ast.Stmt{
			{
				Body: ast.StmtBody{
					Op:   ast.StCalc,
					VRef: &ast.Var{Kind: ast.Spot, Num: 1},
					Expr: &ast.Expr{Op: ast.ExNum, VType: ast.I16, Val: 7},
				},
				Props: ast.StmtProps{Label: 2, Srcline: 1, Chance: 100},
			},
			{
				Body:  ast.StmtBody{Op: ast.StComeFrom, Label: 2},
				Props: ast.StmtProps{Srcline: 2, Chance: 100},
			},
			{
				Body: ast.StmtBody{
					Op:    ast.StReadOut,
					Exprs: []*ast.Expr{{Op: ast.ExVar, VRef: &ast.Var{Kind: ast.Spot, Num: 1}}},
				},
				Props: ast.StmtProps{Srcline: 3, Chance: 100},
			},
			{
				Body:  ast.StmtBody{Op: ast.StGiveUp},
				Props: ast.StmtProps{Srcline: 4, Chance: 100},
			},
		},
	}
	raw, err := json.Marshal(&p)
	require.NoError(t, err)
	return string(raw)
}

func TestLoad(t *testing.T) {
	program, err := Load(strings.NewReader(sampleDump(t)))
	require.NoError(t, err)

	require.Len(t, program.Stmts, 4)
	assert.Equal(t, map[uint16]int{2: 0}, program.Labels)
	require.NotNil(t, program.Stmts[0].ComeFrom)
	assert.Equal(t, 1, *program.Stmts[0].ComeFrom)

	require.Len(t, program.StmtTypes, 4)
	assert.Equal(t, ast.GerCalculating, program.StmtTypes[0].Gerund)
	assert.Equal(t, ast.GerComingFrom, program.StmtTypes[1].Gerund)
	assert.Equal(t, ast.GerReadingOut, program.StmtTypes[2].Gerund)
	assert.Equal(t, ast.GerNone, program.StmtTypes[3].Gerund)

	// .1 is the highest spot variable
	assert.Len(t, program.SpotInfo, 2)
	assert.Empty(t, program.TwoSpotInfo)
	assert.Equal(t, 5, program.Bugline)
}

// A loaded program runs.
func TestLoadAndRun(t *testing.T) {
	program, err := Load(strings.NewReader(sampleDump(t)))
	require.NoError(t, err)

	var out bytes.Buffer
	count, err := eval.New(program, strings.NewReader(""), &out, false).Run()
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Contains(t, out.String(), "VII")
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(strings.NewReader("no such dump"))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`{"stmts":[]}`))
	assert.Error(t, err)

	// duplicate label
	dup := `{"stmts":[
	  {"body":{"op":14},"props":{"label":3,"srcline":1,"chance":100}},
	  {"body":{"op":14},"props":{"label":3,"srcline":2,"chance":100}}]}`
	_, err = Load(strings.NewReader(dup))
	assert.Error(t, err)

	// COME FROM without a target
	lost := `{"stmts":[
	  {"body":{"op":3,"target":9},"props":{"srcline":1,"chance":100}},
	  {"body":{"op":14},"props":{"srcline":2,"chance":100}}]}`
	_, err = Load(strings.NewReader(lost))
	assert.Error(t, err)
}
