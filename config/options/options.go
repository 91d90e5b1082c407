/*
 * ICK - Run option file parser.
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
	"bufio"
	"fmt"
	"os"
	"strings"
)

/* Option file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <key> [<whitespace> <value>]
 * <key> is case insensitive. <value> runs to end of line and may be
 * quoted to keep leading or trailing blanks.
 */

// Handler for one option key. Called with the value text, which is
// empty for bare switches.
type optionDef struct {
	set      func(string) error
	isSwitch bool
}

var handlers = map[string]optionDef{}

var lineNumber int

// RegisterOption should be called from init functions. The handler
// receives the option value.
func RegisterOption(name string, fn func(string) error) {
	handlers[strings.ToUpper(name)] = optionDef{set: fn}
}

// RegisterSwitch should be called from init functions. The handler is
// called with an empty value.
func RegisterSwitch(name string, fn func(string) error) {
	handlers[strings.ToUpper(name)] = optionDef{set: fn, isSwitch: true}
}

// LoadFile processes an option file line by line.
func LoadFile(fileName string) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	lineNumber = 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNumber++
		if err := parseLine(scanner.Text()); err != nil {
			return fmt.Errorf("%s line %d: %w", fileName, lineNumber, err)
		}
	}
	return scanner.Err()
}

func parseLine(line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	key := line
	value := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		key = line[:i]
		value = strings.TrimSpace(line[i+1:])
	}
	value = strings.Trim(value, `"`)
	def, ok := handlers[strings.ToUpper(key)]
	if !ok {
		return fmt.Errorf("unknown option %q", key)
	}
	if def.isSwitch && value != "" {
		return fmt.Errorf("option %q takes no value", key)
	}
	if !def.isSwitch && value == "" {
		return fmt.Errorf("option %q needs a value", key)
	}
	return def.set(value)
}
