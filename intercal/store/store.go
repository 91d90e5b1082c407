/*
 * ICK - Variable store: bindable cells and arrays.
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

package store

import (
	"bufio"
	"io"

	"github.com/rcornwell/ick/intercal/ierr"
	"github.com/rcornwell/ick/intercal/numerals"
)

// Word is a variable cell width: spot and tail variables are 16 bits,
// twospot and hybrid are 32.
type Word interface {
	~uint16 | ~uint32
}

type bindState[T Word] struct {
	val T
	rw  bool
}

// Bind is a scalar cell: a value, a write-enable flag, and a stack of
// stashed prior states.
type Bind[T Word] struct {
	Val   T
	RW    bool
	stash []bindState[T]
}

func NewBind[T Word]() *Bind[T] {
	return &Bind[T]{RW: true}
}

// Assign sets the value unless the cell is IGNOREd. Never fails.
func (b *Bind[T]) Assign(v T) {
	if b.RW {
		b.Val = v
	}
}

// Stash pushes the current state.
func (b *Bind[T]) Stash() {
	b.stash = append(b.stash, bindState[T]{b.Val, b.RW})
}

// Retrieve pops the last stashed state.
func (b *Bind[T]) Retrieve() error {
	n := len(b.stash)
	if n == 0 {
		return ierr.New(ierr.IE436)
	}
	b.Val = b.stash[n-1].val
	b.RW = b.stash[n-1].rw
	b.stash = b.stash[:n-1]
	return nil
}

type arrayState[T Word] struct {
	dims []int
	vals []T
	rw   bool
}

// Array is an array cell: a shape, a flat row-major backing vector,
// the write-enable flag, and a stash stack of full snapshots.
type Array[T Word] struct {
	Dims  []int
	Vals  []T
	RW    bool
	stash []arrayState[T]
}

func NewArray[T Word]() *Array[T] {
	return &Array[T]{RW: true}
}

// Dimension sets the shape and clears the contents. A zero dimension
// fails.
func (a *Array[T]) Dimension(dims []int) error {
	total := 1
	for _, d := range dims {
		if d == 0 {
			return ierr.New(ierr.IE240)
		}
		total *= d
	}
	a.Dims = dims
	a.Vals = make([]T, total)
	return nil
}

// Flat row-major index from 1-based subscripts.
func (a *Array[T]) index(subs []int) (int, error) {
	if len(subs) != len(a.Dims) {
		return 0, ierr.New(ierr.IE241)
	}
	ix := 0
	for i, sub := range subs {
		if sub < 1 || sub > a.Dims[i] {
			return 0, ierr.New(ierr.IE241)
		}
		ix = ix*a.Dims[i] + (sub - 1)
	}
	return ix, nil
}

// SubAssign stores an element, subject to the write-enable gate.
func (a *Array[T]) SubAssign(subs []int, v T) error {
	ix, err := a.index(subs)
	if err != nil {
		return err
	}
	if a.RW {
		a.Vals[ix] = v
	}
	return nil
}

// SubLookup fetches an element.
func (a *Array[T]) SubLookup(subs []int) (T, error) {
	ix, err := a.index(subs)
	if err != nil {
		return 0, err
	}
	return a.Vals[ix], nil
}

// Stash pushes a full snapshot of shape, contents and flag.
func (a *Array[T]) Stash() {
	st := arrayState[T]{
		dims: append([]int(nil), a.Dims...),
		vals: append([]T(nil), a.Vals...),
		rw:   a.RW,
	}
	a.stash = append(a.stash, st)
}

// Retrieve pops the last stashed snapshot.
func (a *Array[T]) Retrieve() error {
	n := len(a.stash)
	if n == 0 {
		return ierr.New(ierr.IE436)
	}
	a.Dims = a.stash[n-1].dims
	a.Vals = a.stash[n-1].vals
	a.RW = a.stash[n-1].rw
	a.stash = a.stash[:n-1]
	return nil
}

// Readout writes every element as a delta-coded byte: the byte sent is
// the running state minus the element, and the state becomes the
// element's low byte. The state is shared across all arrays and lives
// on the evaluator.
func (a *Array[T]) Readout(w io.Writer, state *uint8) error {
	for _, v := range a.Vals {
		b := *state - uint8(v)
		if err := numerals.WriteByte(w, b); err != nil {
			return err
		}
		*state = uint8(v)
	}
	return nil
}

// Writein fills every element from delta-coded input bytes, inverting
// Readout: the element is the running state minus the input byte, and
// the state becomes the stored element's low byte. EOF reads as 256,
// which the delta treats as zero. An IGNOREd array drops the stores,
// so the state advances by the unchanged element instead.
func (a *Array[T]) Writein(r *bufio.Reader, state *uint8) error {
	for i := range a.Vals {
		b := numerals.ReadByte(r)
		v := *state - uint8(b)
		if a.RW {
			a.Vals[i] = T(v)
		}
		*state = uint8(a.Vals[i])
	}
	return nil
}
