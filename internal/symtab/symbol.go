// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package symtab implements the scoped symbol table and the struct
// table.
package symtab

import (
	"golang.org/x/arch/x86/x86asm"

	"github.com/rlannon/sinc/internal/types"
)

// Kind distinguishes a variable from a function or struct symbol.
type Kind uint8

const (
	KindVariable Kind = iota
	KindFunction
	KindStruct
)

// Symbol is a single named binding: a variable, formal parameter, or
// (embedded in FunctionSymbol) a function.
type Symbol struct {
	Name        string
	ScopeName   string
	ScopeLevel  uint
	Type        types.DataType
	StackOffset int // positive = below RBP; negative = parameter region above RBP
	Kind        Kind

	Initialized bool
	Freed       bool
	Defined     bool
	IsParameter bool

	Line int

	hasReg  bool
	reg     x86asm.Reg
	mangled string
}

// mangled is set once by the table on insertion and returned by Find;
// stored here so a symbol looked up by its unmangled name still reports
// the name code was emitted under.
func (s *Symbol) setMangledName(mangled string) { s.mangled = mangled }

// Mangled returns the name code was emitted under.
func (s *Symbol) Mangled() string { return s.mangled }

// NewSymbol constructs an uninitialized, undefined variable symbol.
func NewSymbol(name, scopeName string, scopeLevel uint, t types.DataType, stackOffset int, line int) *Symbol {
	return &Symbol{Name: name, ScopeName: scopeName, ScopeLevel: scopeLevel, Type: t, StackOffset: stackOffset, Line: line}
}

// Register reports the register currently holding the symbol's value,
// if any.
func (s *Symbol) Register() (x86asm.Reg, bool) { return s.reg, s.hasReg }

// SetRegister records the register currently holding the symbol's value.
func (s *Symbol) SetRegister(r x86asm.Reg) { s.reg, s.hasReg = r, true }

// ClearRegister forgets the symbol's current register binding (it has
// been stored back to memory or spilled).
func (s *Symbol) ClearRegister() { s.hasReg = false }
