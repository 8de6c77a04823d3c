// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver ties the pipeline together: reading the input file,
// resolving `include` statements, running the compiler, concatenating
// sections, and writing the finished NASM output, plus stamping each
// run with a content-addressed build id.
package driver

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/compiler"
	"github.com/rlannon/sinc/internal/diag"
	"github.com/rlannon/sinc/internal/sinerr"
)

// sreEntryPoints are externs every compiled unit may reference,
// declared unconditionally so every translation unit links against the
// full SRE surface regardless of which entry points it actually calls.
var sreEntryPoints = []string{
	"SRE_INIT", "SRE_CLEAN", "SRE_REQUEST_RESOURCE", "SRE_REALLOCATE",
	"SRE_ADD_REF", "SRE_FREE", "SINL_RTE_OUT_OF_BOUNDS",
	"sinl_string_concat", "sinl_string_copy", "sinl_array_copy",
	"sinl_dynamic_array_alloc", "sinl_float_mod",
}

// Parser is the lexer/parser boundary the driver depends on, supplied
// by the caller. A real front end implements this by tokenizing and
// parsing one file into its top-level statement list.
type Parser interface {
	ParseFile(path string) ([]ast.Stmt, error)
}

// Options configures one compilation run.
type Options struct {
	InputPath  string
	OutputPath string // empty means default to InputPath with ".s"
	Mode       sinerr.Mode
	Micro      bool // --micro, reserved for a reduced-codegen mode
}

// Result reports what a run produced, for the CLI to summarize.
type Result struct {
	OutputPath string
	BuildID    string
	Warnings   int
}

// Run executes one full compile: parse, resolve includes, compile,
// assemble sections, and write output.
func Run(p Parser, opts Options) (*Result, error) {
	out := opts.OutputPath
	if out == "" {
		out = defaultOutputPath(opts.InputPath)
	}

	sec := compiler.NewSections()
	c := compiler.New(sec)
	c.Mode = opts.Mode

	inc := newIncludeSet()
	stmts, err := loadWithIncludes(p, opts.InputPath, inc)
	if err != nil {
		return nil, err
	}

	if err := c.CompileUnit(stmts); err != nil {
		return nil, err
	}
	c.EmitMainWrapper()

	for _, name := range sreEntryPoints {
		sec.RequireExtern(name)
	}

	asmText := assemble(sec)

	if err := os.WriteFile(out, []byte(asmText), 0o644); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}

	id := buildID(asmText)

	warnings := c.Sink.Len()
	var sb strings.Builder
	c.Sink.Flush(&sb)
	if sb.Len() > 0 {
		fmt.Fprint(os.Stderr, sb.String())
	}

	return &Result{OutputPath: out, BuildID: id, Warnings: warnings}, nil
}

// defaultOutputPath replaces the input's extension with .s.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".s"
}

// signBitMasks are the two sign-bit masks prepended to .rodata, used by
// the unary-minus float negation sequence (eval_unary.go).
const signBitMasks = "sinl_sp_mask: dd 0x80000000\nsinl_dp_mask: dq 0x8000000000000000\n"

// assemble lays out the final output: `default rel`, then .text with
// its `extern` directives appended at its end, then .rodata (masks
// first), .data, .bss.
func assemble(sec *compiler.Sections) string {
	var out strings.Builder
	out.WriteString("default rel\n\n")
	out.WriteString("section .text\n")
	out.WriteString(sec.Text.String())
	for name := range sec.Externs {
		fmt.Fprintf(&out, "extern %s\n", name)
	}
	out.WriteString("\nsection .rodata\n")
	out.WriteString(signBitMasks)
	out.WriteString(sec.Rodata.String())
	out.WriteString("\nsection .data\n")
	out.WriteString(sec.Data.String())
	out.WriteString("\nsection .bss\n")
	out.WriteString(sec.Bss.String())
	return out.String()
}

// buildID hashes the finished assembly text with blake2b and renders
// the first 16 bytes as hex. A single-file, single-invocation compiler
// has no need for the action-ID/content-ID pairing a multi-package
// build cache would want; one content hash per output is enough.
func buildID(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return fmt.Sprintf("%x", sum[:16])
}

// WriteBuildID appends a build-id comment line to an already-written
// assembly file, for callers that want the id embedded rather than
// just reported on stdout.
func WriteBuildID(path, id string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "; build id: %s\n", id)
	return w.Flush()
}
