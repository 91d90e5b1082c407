/*
 * ICK - Number I/O: Roman numeral output, English digit input.
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

package numerals

import (
	"bufio"
	"io"
	"strings"

	"github.com/rcornwell/ick/intercal/ierr"
)

// Which entries of the place row make up each decimal digit. The
// digits are emitted lowest place first and the lines reversed at the
// end, so each group is listed back to front.
var romanTransTbl = [10]struct {
	n   int
	dig [4]int
}{
	{0, [4]int{0, 0, 0, 0}},
	{1, [4]int{0, 0, 0, 0}},
	{2, [4]int{0, 0, 0, 0}},
	{3, [4]int{0, 0, 0, 0}},
	{2, [4]int{2, 1, 0, 0}},
	{1, [4]int{2, 0, 0, 0}},
	{2, [4]int{1, 2, 0, 0}},
	{3, [4]int{1, 1, 2, 0}},
	{4, [4]int{1, 1, 1, 2}},
	{2, [4]int{3, 1, 0, 0}},
}

// Roman digits per 10^n place: overbar line character, then letter.
var romanDigitTbl = [10][4][2]byte{
	{{' ', 'I'}, {' ', 'I'}, {' ', 'V'}, {' ', 'X'}},
	{{' ', 'X'}, {' ', 'X'}, {' ', 'L'}, {' ', 'C'}},
	{{' ', 'C'}, {' ', 'C'}, {' ', 'D'}, {' ', 'M'}},
	{{' ', 'M'}, {'_', 'I'}, {'_', 'V'}, {'_', 'X'}},
	{{'_', 'X'}, {'_', 'X'}, {'_', 'L'}, {'_', 'C'}},
	{{'_', 'C'}, {'_', 'C'}, {'_', 'D'}, {'_', 'M'}},
	{{'_', 'M'}, {' ', 'i'}, {' ', 'v'}, {' ', 'x'}},
	{{' ', 'x'}, {' ', 'x'}, {' ', 'l'}, {' ', 'c'}},
	{{' ', 'c'}, {' ', 'c'}, {' ', 'd'}, {' ', 'm'}},
	{{' ', 'm'}, {'_', 'i'}, {'_', 'v'}, {'_', 'x'}},
}

// ToRoman renders a value as two lines, overbars above letters.
func ToRoman(val uint32) string {
	if val == 0 {
		// zero is just a lone overbar
		return "_\n\n"
	}
	var l1, l2 []byte
	place := 0
	for val > 0 {
		digit := val % 10
		t := &romanTransTbl[digit]
		for j := 0; j < t.n; j++ {
			idx := t.dig[j]
			l1 = append(l1, romanDigitTbl[place][idx][0])
			l2 = append(l2, romanDigitTbl[place][idx][1])
		}
		place++
		val /= 10
	}
	reverse(l1)
	reverse(l2)
	return string(l1) + "\n" + string(l2) + "\n"
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

var englishDigits = []struct {
	word string
	val  uint64
}{
	{"ZERO", 0},
	{"OH", 0},
	{"ONE", 1},
	{"TWO", 2},
	{"THREE", 3},
	{"FOUR", 4},
	{"FIVE", 5},
	{"SIX", 6},
	{"SEVEN", 7},
	{"EIGHT", 8},
	{"NINE", 9},
	{"NINER", 9},
}

// FromEnglish parses whitespace-separated digit words, most
// significant first.
func FromEnglish(s string) (uint32, error) {
	var digits []uint64
	for _, word := range strings.Fields(s) {
		found := false
		for _, d := range englishDigits {
			if d.word == word {
				digits = append(digits, d.val)
				found = true
				break
			}
		}
		if !found {
			return 0, ierr.WithText(ierr.IE579, word)
		}
	}
	var res uint64
	for _, d := range digits {
		res = res*10 + d
		if res > 0xffffffff {
			return 0, ierr.New(ierr.IE533)
		}
	}
	return uint32(res), nil
}

// WriteNumber writes the Roman rendering of a value.
func WriteNumber(w io.Writer, val uint32) error {
	_, err := io.WriteString(w, ToRoman(val))
	return err
}

// WriteByte emits one raw byte.
func WriteByte(w io.Writer, b uint8) error {
	_, err := w.Write([]byte{b})
	return err
}

// ReadNumber reads one line of digit words. EOF before any input, or
// a line holding no words, is an error.
func ReadNumber(r *bufio.Reader) (uint32, error) {
	line, _ := r.ReadString('\n')
	if strings.TrimSpace(line) == "" {
		return 0, ierr.New(ierr.IE562)
	}
	return FromEnglish(line)
}

// ReadByte reads one byte; EOF is defined to be 256.
func ReadByte(r *bufio.Reader) uint16 {
	b, err := r.ReadByte()
	if err != nil {
		return 256
	}
	return uint16(b)
}
