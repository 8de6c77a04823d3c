// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler is the core compilation pipeline from parsed AST to
// emitted x86-64 NASM assembly: the expression evaluator, the
// assignment/move/construct machinery, the statement compiler, and
// function machinery. These subsystems mutate shared register and
// symbol-table state and are therefore kept in one package, rather
// than split across package boundaries that would just reintroduce
// that coupling through exported state.
package compiler

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/diag"
	"github.com/rlannon/sinc/internal/reg"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/symtab"
	"github.com/rlannon/sinc/internal/types"
)

// rax/rbx are the evaluator's two working registers, named for
// readability at call sites: push RAX, evaluate the right operand,
// mov RBX, RAX, pop RAX.
const (
	rax = x86asm.RAX
	rbx = x86asm.RBX
	rdx = x86asm.RDX
)

// counters holds the monotonic label-numbering state for a translation
// unit.
type counters struct {
	str, list, flt, ite, while, bounds, main int
}

// Sections accumulates the four output sections the driver concatenates.
// A strings.Builder per section keeps each segment's accumulation
// independent of emission order.
type Sections struct {
	Text   strings.Builder
	Rodata strings.Builder
	Data   strings.Builder
	Bss    strings.Builder

	// Externs records every SRE entry point or extern symbol referenced,
	// so the driver can emit `extern` directives exactly once each.
	Externs map[string]bool
}

func NewSections() *Sections {
	return &Sections{Externs: make(map[string]bool)}
}

func (s *Sections) RequireExtern(name string) {
	s.Externs[name] = true
}

// Compiler is the compilation context threaded through every stage:
// symbol/struct tables, the current scope, the register file stack, the
// label counters, the output sections, and the diagnostic sink.
type Compiler struct {
	Symbols *symtab.Table
	Structs *symtab.StructTable
	Sink    *diag.Sink
	Mode    sinerr.Mode

	sections *Sections

	regStack []*reg.File // pushed on function entry, popped on exit

	scopeName  string
	scopeLevel uint
	maxOffset  int // running RBP-relative allocation cursor; starts at 8

	currentFunction *symtab.FunctionSymbol
	currentStruct   string // name of the struct whose method body is being compiled, "" otherwise

	counters counters
}

// New returns a Compiler ready to compile a translation unit into sec.
func New(sec *Sections) *Compiler {
	c := &Compiler{
		Symbols:   symtab.NewTable(),
		Structs:   symtab.NewStructTable(),
		Sink:      diag.NewSink(),
		sections:  sec,
		scopeName: "global",
		maxOffset: 8,
	}
	c.regStack = []*reg.File{reg.New()}
	return c
}

// Regs returns the active (innermost) register file.
func (c *Compiler) Regs() *reg.File { return c.regStack[len(c.regStack)-1] }

// PushRegFile pushes a fresh register file, e.g. on entering a function.
func (c *Compiler) PushRegFile() {
	c.regStack = append(c.regStack, reg.New())
}

// PopRegFile pops the innermost register file.
func (c *Compiler) PopRegFile() {
	c.regStack = c.regStack[:len(c.regStack)-1]
}

// emit appends a line of assembly (already including its own
// indentation/newline conventions) to the text section.
func (c *Compiler) emit(format string, args ...interface{}) {
	fmt.Fprintf(&c.sections.Text, "\t"+format+"\n", args...)
}

// emitLabel writes a bare label line (no leading tab).
func (c *Compiler) emitLabel(label string) {
	fmt.Fprintf(&c.sections.Text, "%s:\n", label)
}

// emitComment writes a `;`-prefixed comment line.
func (c *Compiler) emitComment(format string, args ...interface{}) {
	fmt.Fprintf(&c.sections.Text, "\t; "+format+"\n", args...)
}

func (c *Compiler) nextLabel(prefix string, n *int) string {
	label := fmt.Sprintf("%s_%d", prefix, *n)
	*n++
	return label
}

// width32Name renders the register name at the given width, widening
// any width below 4 bytes to the 32-bit name: a 2-byte integer literal
// is zero-extended to 4 bytes before being stored into a 4-byte slot.
func width32Name(r x86asm.Reg, width int) string {
	if width < 4 {
		width = 4
	}
	return reg.Name(r, width)
}

// slotWidth is the number of bytes a stack allocation reserves for t:
// its own width, or 8 bytes minimum so every local lands on a
// qword-aligned RBP offset.
func slotWidth(t types.DataType) int {
	if w := t.Width(); w >= 8 {
		return w
	}
	return 8
}

// isInScope reports whether sym is reachable from the current scope: it
// is global, or its scope name matches the current function/block scope
// at a level at or below the current level.
func (c *Compiler) isInScope(sym *symtab.Symbol) bool {
	if sym.ScopeName == "global" {
		return true
	}
	return sym.ScopeName == c.scopeName && sym.ScopeLevel <= c.scopeLevel
}

// CompileUnit compiles a whole top-level statement list, the AST
// statements at global scope (level 0), in source order.
func (c *Compiler) CompileUnit(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}
