/*
 * ICK - Option file parser test cases.
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

package options

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.cfg")
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	var logFile string
	var trace bool
	RegisterOption("LOGFILE", func(v string) error {
		logFile = v
		return nil
	})
	RegisterSwitch("TRACE", func(string) error {
		trace = true
		return nil
	})

	path := writeFile(t, `
# run options
logfile "run one.log"   # quoted value
TRACE
`)
	if err := LoadFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logFile != "run one.log" {
		t.Errorf("LOGFILE not correct got: %q wanted: %q", logFile, "run one.log")
	}
	if !trace {
		t.Errorf("TRACE switch not set")
	}
}

func TestLoadFileErrors(t *testing.T) {
	RegisterSwitch("NOCONST", func(string) error { return nil })

	if err := LoadFile(writeFile(t, "BOGUS 1\n")); err == nil {
		t.Errorf("unknown option not detected")
	}
	if err := LoadFile(writeFile(t, "NOCONST yes\n")); err == nil {
		t.Errorf("switch with value not detected")
	}
	if err := LoadFile(writeFile(t, "LOGFILE\n")); err == nil {
		t.Errorf("option without value not detected")
	}
}
