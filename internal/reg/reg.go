// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reg tracks which of the 16 general-purpose and 8 SSE x86-64
// registers are currently in use, and by which symbol, for a single
// function's compilation. Register identities reuse
// golang.org/x/arch/x86/x86asm's Reg vocabulary instead of a hand-rolled
// enum, the way a Go codebase reaches for the ecosystem's existing x86
// register names.
package reg

import (
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Class distinguishes integer/pointer registers from floating-point
// registers when asking for an available one.
type Class uint8

const (
	ClassInt Class = iota
	ClassFloat
)

// Owner is the minimal contract a held value must satisfy so this
// package does not need to import internal/symtab (which does not need
// to import this package either, avoiding a cycle): a register's owner
// is anything with a stable identity and a "still reachable from the
// current scope" predicate the caller can evaluate.
type Owner interface {
	Mangled() string
}

// widths, in the order [8-byte, 4-byte, 2-byte, 1-byte], for each of the
// 16 GP registers, as x86asm.Reg constants.
var gpWidths = map[x86asm.Reg][4]x86asm.Reg{
	x86asm.RAX: {x86asm.RAX, x86asm.EAX, x86asm.AX, x86asm.AL},
	x86asm.RBX: {x86asm.RBX, x86asm.EBX, x86asm.BX, x86asm.BL},
	x86asm.RCX: {x86asm.RCX, x86asm.ECX, x86asm.CX, x86asm.CL},
	x86asm.RDX: {x86asm.RDX, x86asm.EDX, x86asm.DX, x86asm.DL},
	x86asm.RSI: {x86asm.RSI, x86asm.ESI, x86asm.SI, x86asm.SIB},
	x86asm.RDI: {x86asm.RDI, x86asm.EDI, x86asm.DI, x86asm.DIB},
	x86asm.R8:  {x86asm.R8, x86asm.R8L, x86asm.R8W, x86asm.R8B},
	x86asm.R9:  {x86asm.R9, x86asm.R9L, x86asm.R9W, x86asm.R9B},
	x86asm.R10: {x86asm.R10, x86asm.R10L, x86asm.R10W, x86asm.R10B},
	x86asm.R11: {x86asm.R11, x86asm.R11L, x86asm.R11W, x86asm.R11B},
	x86asm.R12: {x86asm.R12, x86asm.R12L, x86asm.R12W, x86asm.R12B},
	x86asm.R13: {x86asm.R13, x86asm.R13L, x86asm.R13W, x86asm.R13B},
	x86asm.R14: {x86asm.R14, x86asm.R14L, x86asm.R14W, x86asm.R14B},
	x86asm.R15: {x86asm.R15, x86asm.R15L, x86asm.R15W, x86asm.R15B},
}

// orderedGP and orderedXMM fix the deterministic iteration order
// register allocation walks: RAX, RBX, RCX, RDX, RSI, RDI, R8-R15,
// then XMM0-XMM7.
var orderedGP = []x86asm.Reg{
	x86asm.RAX, x86asm.RBX, x86asm.RCX, x86asm.RDX, x86asm.RSI, x86asm.RDI,
	x86asm.R8, x86asm.R9, x86asm.R10, x86asm.R11, x86asm.R12, x86asm.R13, x86asm.R14, x86asm.R15,
}

var orderedXMM = []x86asm.Reg{
	x86asm.X0, x86asm.X1, x86asm.X2, x86asm.X3, x86asm.X4, x86asm.X5, x86asm.X6, x86asm.X7,
}

// All lists every register this package tracks, in fixed iteration order.
var All = append(append([]x86asm.Reg{}, orderedGP...), orderedXMM...)

// IsFloat reports whether r is one of the 8 tracked XMM registers.
func IsFloat(r x86asm.Reg) bool {
	for _, x := range orderedXMM {
		if x == r {
			return true
		}
	}
	return false
}

type node struct {
	inUse      bool
	everUsed   bool
	owner      Owner
}

// File is a per-scope register file; a new one is pushed when entering
// a function and popped on return to the caller's scope.
type File struct {
	regs map[x86asm.Reg]*node
}

// New returns a File with all 24 tracked registers free.
func New() *File {
	f := &File{regs: make(map[x86asm.Reg]*node, len(All))}
	for _, r := range All {
		f.regs[r] = &node{}
	}
	return f
}

// GetAvailable returns the first free register of the requested class in
// fixed iteration order, or false if none is free.
func (f *File) GetAvailable(class Class) (x86asm.Reg, bool) {
	order := orderedGP
	if class == ClassFloat {
		order = orderedXMM
	}
	for _, r := range order {
		if !f.regs[r].inUse {
			return r, true
		}
	}
	return 0, false
}

// IsInUse reports whether r currently holds a live value.
func (f *File) IsInUse(r x86asm.Reg) bool { return f.regs[r].inUse }

// WasUsed reports whether r has ever been marked in-use in this file's
// lifetime, even if it has since been cleared.
func (f *File) WasUsed(r x86asm.Reg) bool { return f.regs[r].everUsed }

// Owner returns the symbol currently held by r, if any.
func (f *File) Owner(r x86asm.Reg) Owner { return f.regs[r].owner }

// Set marks r in-use, optionally recording its owning symbol.
func (f *File) Set(r x86asm.Reg, owner Owner) {
	n := f.regs[r]
	n.inUse = true
	n.everUsed = true
	n.owner = owner
}

// Clear marks r available and forgets its owner.
func (f *File) Clear(r x86asm.Reg) {
	n := f.regs[r]
	n.inUse = false
	n.owner = nil
}

// InUse returns every currently in-use register, in fixed order.
func (f *File) InUse() []x86asm.Reg {
	var out []x86asm.Reg
	for _, r := range All {
		if f.regs[r].inUse {
			out = append(out, r)
		}
	}
	return out
}

// Name renders the width-appropriate sub-register name for r: 8 means
// the 64-bit name, 4 the 32-bit name, 2 the 16-bit name, 1 the 8-bit
// name. Floating-point registers ignore width (always e.g. "xmm0").
func Name(r x86asm.Reg, width int) string {
	if IsFloat(r) {
		// x86asm spells these X0-X7.
		return "xmm" + strings.TrimPrefix(strings.ToLower(r.String()), "x")
	}
	widths, ok := gpWidths[r]
	if !ok {
		return strings.ToLower(r.String())
	}
	var sub x86asm.Reg
	switch {
	case width >= 8:
		sub = widths[0]
	case width == 4:
		sub = widths[1]
	case width == 2:
		sub = widths[2]
	default:
		sub = widths[3]
	}
	// x86asm spells sil/dil as SIB/DIB and r8d-r15d as R8L-R15L.
	name := strings.ToLower(sub.String())
	switch {
	case name == "sib" || name == "dib":
		name = name[:2] + "l"
	case strings.HasPrefix(name, "r") && strings.HasSuffix(name, "l"):
		name = name[:len(name)-1] + "d"
	}
	return name
}
