/*
 * ICK - Width-tagged runtime values.
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
	"github.com/rcornwell/ick/intercal/ierr"
)

// Val is a width-tagged integer.
type Val struct {
	VType ast.VType
	V     uint32
}

// AsU16 narrows; a wide value over 16 bits faults.
func (v Val) AsU16() (uint16, error) {
	if v.VType == ast.I32 && v.V > 0xffff {
		return 0, ierr.New(ierr.IE275)
	}
	return uint16(v.V), nil
}

// AsU32 widens; always exact.
func (v Val) AsU32() uint32 {
	return v.V
}

// FromU32 tags with the smallest width that fits.
func FromU32(v uint32) Val {
	if v&0xffff == v {
		return Val{ast.I16, v}
	}
	return Val{ast.I32, v}
}
