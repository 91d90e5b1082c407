/*
 * ICK - INTERCAL error taxonomy.
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

package ierr

import (
	"fmt"
	"strings"
)

// Kind is one member of the closed set of runtime error conditions.
// The message text is tradition and must not be improved.
type Kind struct {
	Num int
	Msg string
}

var (
	IE017 = &Kind{17, "DO YOU EXPECT ME TO FIGURE THIS OUT?"}
	IE079 = &Kind{79, "PROGRAMMER IS INSUFFICIENTLY POLITE"}
	IE099 = &Kind{99, "PROGRAMMER IS OVERLY POLITE"}
	IE123 = &Kind{123, "PROGRAM HAS DISAPPEARED INTO THE BLACK LAGOON"}
	IE129 = &Kind{129, "PROGRAM HAS GOTTEN LOST ON THE WAY TO WHO KNOWS WHERE"}
	IE240 = &Kind{240, "IS IT REALLY NECESSARY TO HAVE A ZERO-DIMENSIONAL ARRAY?"}
	IE241 = &Kind{241, "VARIABLES MAY NOT BE STORED IN WEST HYPERSPACE"}
	IE275 = &Kind{275, "DON'T BYTE OFF MORE THAN YOU CAN CHEW"}
	IE436 = &Kind{436, "THROW STICK BEFORE RETRIEVING!"}
	IE533 = &Kind{533, "YOU WANT MAYBE WE SHOULD IMPLEMENT 64-BIT VARIABLES?"}
	IE562 = &Kind{562, "I DO NOT COMPUTE"}
	IE579 = &Kind{579, "WHAT BASE AND/OR LANGUAGE INCLUDES {}?"}
	IE621 = &Kind{621, "ERROR TYPE 621 ENCOUNTERED"}
	IE632 = &Kind{632, "THE NEXT STACK RUPTURES.  ALL DIE.  OH, THE EMBARRASSMENT!"}
	IE663 = &Kind{663, "PROGRAM FELL OFF THE EDGE"}
	IE774 = &Kind{774, "RANDOM COMPILER BUG"}
)

// Error is a runtime failure: a kind, an optional source line, and an
// optional addendum spliced into the message (the offending word for
// IE579).
type Error struct {
	kind     *Kind
	line     int // 0 when not yet annotated
	addendum string
}

func New(k *Kind) *Error {
	return &Error{kind: k}
}

func WithText(k *Kind, text string) *Error {
	return &Error{kind: k, addendum: text}
}

func WithLine(k *Kind, line int) *Error {
	return &Error{kind: k, line: line}
}

// SetLine annotates the source line unless an inner error already
// carries one.
func (e *Error) SetLine(line int) {
	if e.line == 0 {
		e.line = line
	}
}

func (e *Error) Code() int { return e.kind.Num }

func (e *Error) Line() int { return e.line }

func (e *Error) Is(k *Kind) bool { return e.kind == k }

// Clone returns a copy that may be line-annotated independently.
// Error statements hold a preformed error shared by every execution.
func (e *Error) Clone() *Error {
	c := *e
	return &c
}

func (e *Error) message() string {
	if strings.Contains(e.kind.Msg, "{}") {
		return strings.Replace(e.kind.Msg, "{}", e.addendum, 1)
	}
	return e.kind.Msg
}

// Error renders the classic three-line report.
func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ICL%03dI %s\n", e.kind.Num, e.message())
	if e.line > 0 {
		fmt.Fprintf(&sb, "        ON THE WAY TO STATEMENT %04d\n", e.line)
	} else {
		sb.WriteString("        ON THE WAY TO WHO KNOWS WHERE\n")
	}
	sb.WriteString("        CORRECT SOURCE AND RESUBMIT\n")
	return sb.String()
}
