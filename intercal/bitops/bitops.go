/*
 * ICK - INTERCAL bit operators.
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

package bitops

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rcornwell/ick/intercal/ierr"
)

// Mingle interleaves the low 16 bits of v and w; v supplies the odd
// result bits, w the even ones. Operands above 16 bits fail.
func Mingle(v, w uint32) (uint32, error) {
	if v > 0xffff || w > 0xffff {
		return 0, ierr.New(ierr.IE533)
	}
	v = ((v & 0x0000ff00) << 8) | (v & 0x000000ff)
	v = ((v & 0x00f000f0) << 4) | (v & 0x000f000f)
	v = ((v & 0x0c0c0c0c) << 2) | (v & 0x03030303)
	v = ((v & 0x22222222) << 1) | (v & 0x11111111)
	w = ((w & 0x0000ff00) << 8) | (w & 0x000000ff)
	w = ((w & 0x00f000f0) << 4) | (w & 0x000f000f)
	w = ((w & 0x0c0c0c0c) << 2) | (w & 0x03030303)
	w = ((w & 0x22222222) << 1) | (w & 0x11111111)
	return (v << 1) | w, nil
}

// Select picks the bits of v at the set positions of w and packs them
// at the low end.
func Select(v, w uint32) uint32 {
	var t uint32
	i := uint32(1)
	for w > 0 {
		if w&i != 0 {
			t |= v & i
			w ^= i
			i <<= 1
		} else {
			w >>= 1
			v >>= 1
		}
	}
	return t
}

// The unary operators combine a value with itself rotated right by one
// within the operand width.

func And16(v uint32) uint32 {
	v &= 0xffff
	w := v >> 1
	if v&1 != 0 {
		w |= 0x8000
	}
	return w & v
}

func And32(v uint32) uint32 {
	w := v >> 1
	if v&1 != 0 {
		w |= 0x80000000
	}
	return w & v
}

func Or16(v uint32) uint32 {
	v &= 0xffff
	w := v >> 1
	if v&1 != 0 {
		w |= 0x8000
	}
	return w | v
}

func Or32(v uint32) uint32 {
	w := v >> 1
	if v&1 != 0 {
		w |= 0x80000000
	}
	return w | v
}

func Xor16(v uint32) uint32 {
	v &= 0xffff
	w := v >> 1
	if v&1 != 0 {
		w |= 0x8000
	}
	return w ^ v
}

func Xor32(v uint32) uint32 {
	w := v >> 1
	if v&1 != 0 {
		w |= 0x80000000
	}
	return w ^ v
}

// CheckOvf verifies a value fits in 16 bits.
func CheckOvf(v uint32) (uint32, error) {
	if v > 0xffff {
		return 0, ierr.New(ierr.IE275)
	}
	return v, nil
}

var (
	chanceRng  *rand.Rand
	chanceOnce sync.Once
	seedValue  int64
	seedGiven  bool
)

// Seed fixes the chance PRNG seed for reproducible runs. Must be
// called before the evaluator starts.
func Seed(n int64) {
	seedValue = n
	seedGiven = true
}

// SeedChance initializes the process-wide PRNG once per run.
func SeedChance() {
	chanceOnce.Do(func() {
		if !seedGiven {
			seedValue = time.Now().UnixNano()
		}
		chanceRng = rand.New(rand.NewSource(seedValue))
	})
}

// CheckChance rolls the per-statement execution chance. 100 always
// executes.
func CheckChance(chance uint8) bool {
	if chance == 100 {
		return true
	}
	return chanceRng.Float64() <= float64(chance)/100
}
