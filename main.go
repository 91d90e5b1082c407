/*
 * ICK - Main process.
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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/ick/config/options"
	"github.com/rcornwell/ick/intercal/bitops"
	"github.com/rcornwell/ick/intercal/eval"
	"github.com/rcornwell/ick/intercal/loader"
	"github.com/rcornwell/ick/intercal/opt"
	"github.com/rcornwell/ick/util/logger"
)

var Logger *slog.Logger

// Settings collected from the option file and the command line.
var run struct {
	logFile string
	input   string
	trace   bool
	noConst bool
}

func init() {
	options.RegisterOption("LOGFILE", func(v string) error {
		run.logFile = v
		return nil
	})
	options.RegisterOption("INPUT", func(v string) error {
		run.input = v
		return nil
	})
	options.RegisterOption("SEED", func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		bitops.Seed(n)
		return nil
	})
	options.RegisterSwitch("TRACE", func(string) error {
		run.trace = true
		return nil
	})
	options.RegisterSwitch("NOCONST", func(string) error {
		run.noConst = true
		return nil
	})
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Option file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optTrace := getopt.BoolLong("trace", 't', "Trace statements to the log")
	optNoConst := getopt.BoolLong("no-const-out", 'F', "Disable the constant output pass")
	optSeed := getopt.StringLong("seed", 's', "", "Chance PRNG seed")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	if *optConfig != "" {
		if err := options.LoadFile(*optConfig); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *optLogFile != "" {
		run.logFile = *optLogFile
	}
	if *optTrace {
		run.trace = true
	}
	if *optNoConst {
		run.noConst = true
	}
	if *optSeed != "" {
		n, err := strconv.ParseInt(*optSeed, 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "seed must be a number")
			os.Exit(1)
		}
		bitops.Seed(n)
	}

	var file *os.File
	if run.logFile != "" {
		file, _ = os.Create(run.logFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, run.trace))
	slog.SetDefault(Logger)

	args := getopt.Args()
	if len(args) != 1 {
		Logger.Error("Please specify one program dump to run")
		os.Exit(1)
	}

	dump, err := os.Open(args[0])
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	program, err := loader.Load(dump)
	dump.Close()
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	program = opt.New(program, !run.noConst).Optimize()

	in := os.Stdin
	if run.input != "" {
		in, err = os.Open(run.input)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		defer in.Close()
	}

	count, err := eval.New(program, in, os.Stdout, run.trace).Run()
	if err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		os.Exit(1)
	}
	Logger.Info("Run complete", "statements", strconv.Itoa(count))
}
