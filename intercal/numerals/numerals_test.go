/*
 * ICK - Number I/O test cases.
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
	"strings"
	"testing"

	"github.com/rcornwell/ick/intercal/ierr"
)

func TestToRoman(t *testing.T) {
	cases := []struct {
		val  uint32
		want string
	}{
		{0, "_\n\n"},
		{1, " \nI\n"},
		{4, "  \nIV\n"},
		{7, "   \nVII\n"},
		{1970, "      \nMCMLXX\n"},
		{3999, "         \nMMMCMXCIX\n"},
		{4000, "__\nIV\n"},
	}
	for _, c := range cases {
		if got := ToRoman(c.val); got != c.want {
			t.Errorf("ToRoman(%d) not correct got: %q wanted: %q", c.val, got, c.want)
		}
	}
}

func TestFromEnglish(t *testing.T) {
	cases := []struct {
		in   string
		want uint32
	}{
		{"ZERO", 0},
		{"OH", 0},
		{"ONE TWO THREE", 123},
		{"NINER NINER", 99},
		{"THREE TWO SEVEN SIX SEVEN", 32767},
		{"FOUR TWO NINE FOUR NINE SIX SEVEN TWO NINE FIVE", 4294967295},
		{"  ONE\tTWO  ", 12},
		{"", 0},
	}
	for _, c := range cases {
		got, err := FromEnglish(c.in)
		if err != nil {
			t.Errorf("FromEnglish(%q) unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("FromEnglish(%q) not correct got: %d wanted: %d", c.in, got, c.want)
		}
	}
}

func TestFromEnglishErrors(t *testing.T) {
	_, err := FromEnglish("ONE TEN")
	if err == nil {
		t.Fatalf("unknown word not detected")
	}
	if ie, ok := err.(*ierr.Error); !ok || !ie.Is(ierr.IE579) {
		t.Errorf("unknown word wrong error: %v", err)
	} else if !strings.Contains(ie.Error(), "TEN") {
		t.Errorf("IE579 should name the word: %q", ie.Error())
	}

	_, err = FromEnglish("FOUR TWO NINE FOUR NINE SIX SEVEN TWO NINE SIX")
	if err == nil {
		t.Fatalf("overflow not detected")
	}
	if ie, ok := err.(*ierr.Error); !ok || !ie.Is(ierr.IE533) {
		t.Errorf("overflow wrong error: %v", err)
	}
}

func TestReadNumber(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("SIX FIVE FIVE THREE FIVE\n"))
	got, err := ReadNumber(r)
	if err != nil {
		t.Fatalf("ReadNumber unexpected error: %v", err)
	}
	if got != 65535 {
		t.Errorf("ReadNumber not correct got: %d wanted: %d", got, 65535)
	}

	_, err = ReadNumber(bufio.NewReader(strings.NewReader("")))
	if err == nil {
		t.Fatalf("EOF not detected")
	}
	if ie, ok := err.(*ierr.Error); !ok || !ie.Is(ierr.IE562) {
		t.Errorf("EOF wrong error: %v", err)
	}
}

func TestReadByte(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\x00A"))
	if got := ReadByte(r); got != 0 {
		t.Errorf("ReadByte not correct got: %d wanted: %d", got, 0)
	}
	if got := ReadByte(r); got != 'A' {
		t.Errorf("ReadByte not correct got: %d wanted: %d", got, 'A')
	}
	if got := ReadByte(r); got != 256 {
		t.Errorf("ReadByte at EOF not correct got: %d wanted: %d", got, 256)
	}
}
