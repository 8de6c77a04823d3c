// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sinc compiles a single SIN source file into x86-64 NASM
// assembly.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/driver"
	"github.com/rlannon/sinc/internal/sinerr"
)

const version = "sinc version 0.1.0"

var (
	outfile = flag.String("o", "", "output file (default: input with extension replaced by .s)")
	mode    = flag.String("m", "normal", "compilation mode: lax, normal, or strict")
	micro   = flag.Bool("micro", false, "accepted for a reduced-footprint codegen mode; has no effect on the output")
	showVer = flag.Bool("version", false, "print version and exit")
)

func init() {
	flag.StringVar(outfile, "outfile", "", "output file (default: input with extension replaced by .s)")
	flag.StringVar(mode, "mode", "normal", "compilation mode: lax, normal, or strict")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: sinc [-o outfile] [-m lax|normal|strict] [--micro] filename\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("sinc: ")
	flag.Parse()

	if *showVer {
		fmt.Println(version)
		return
	}

	if flag.NArg() != 1 {
		usage()
	}

	m, err := sinerr.ParseMode(*mode)
	if err != nil {
		log.Print(err)
		os.Exit(2)
	}

	opts := driver.Options{
		InputPath:  flag.Arg(0),
		OutputPath: *outfile,
		Mode:       m,
		Micro:      *micro,
	}

	result, err := driver.Run(unimplementedParser{}, opts)
	if err != nil {
		log.Print(err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (build id %s)\n", result.OutputPath, result.BuildID)
}

// unimplementedParser satisfies driver.Parser for the CLI binary. The
// lexer and parser are a separate, swappable front-end component that
// this core does not implement; internal/compiler and internal/driver
// are exercised directly against hand-built internal/ast trees in
// their test suites.
type unimplementedParser struct{}

func (unimplementedParser) ParseFile(path string) ([]ast.Stmt, error) {
	return nil, fmt.Errorf("sinc: no front end is wired into this build; parse %q via a driver.Parser implementation", path)
}
