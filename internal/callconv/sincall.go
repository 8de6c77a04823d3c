// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package callconv implements SINCALL, the compiler's sole supported
// calling convention: integer/pointer args in RSI, RDI, RCX, RDX, R8,
// R9 (in that order); float args in XMM0-XMM5; RAX/XMM0 for returns;
// large values by reference or spilled to the stack in reverse order
// when registers are exhausted.
package callconv

import (
	"golang.org/x/arch/x86/x86asm"

	"github.com/rlannon/sinc/internal/symtab"
	"github.com/rlannon/sinc/internal/types"
)

// IntArgRegs and FloatArgRegs are the eligible argument registers, in
// assignment order. Float argument count has been a point of drift
// across descriptions of SINCALL; this implementation fixes it at six
// registers, XMM0-XMM5.
var IntArgRegs = []x86asm.Reg{x86asm.RSI, x86asm.RDI, x86asm.RCX, x86asm.RDX, x86asm.R8, x86asm.R9}
var FloatArgRegs = []x86asm.Reg{x86asm.X0, x86asm.X1, x86asm.X2, x86asm.X3, x86asm.X4, x86asm.X5}

// passByRegister reports whether a value of type t is small enough to
// live in a single register: everything except arrays, structs, and
// tuples that aren't dynamic (a dynamic-qualified type is an 8-byte
// managed pointer regardless of primary).
func passByRegister(t types.DataType) bool {
	if t.Qualities.Has(types.Dynamic) {
		return true
	}
	switch t.Primary {
	case types.ARRAY, types.STRUCT, types.TUPLE:
		return false
	default:
		return true
	}
}

// isFloat reports whether t occupies an XMM argument register.
func isFloat(t types.DataType) bool {
	return t.Primary == types.FLOAT && !t.Qualities.Has(types.Dynamic)
}

// Classify assigns each formal parameter a register or a stack slot.
// Stack-spilled parameters are assigned positive offsets from RBP in
// reverse order (the last parameter gets baseOffset, the one before it
// baseOffset+8, and so on, matching a caller that pushes spilled
// arguments left-to-right before the call), starting at baseOffset
// (typically 16, past the saved return address and frame pointer).
func Classify(formals []*symtab.Symbol, baseOffset int) []symtab.ArgLoc {
	locs := make([]symtab.ArgLoc, len(formals))
	nextInt, nextFloat := 0, 0

	var spillIdx []int
	for i, f := range formals {
		if isFloat(f.Type) {
			if nextFloat < len(FloatArgRegs) {
				locs[i] = symtab.ArgLoc{Reg: FloatArgRegs[nextFloat], HasReg: true}
				nextFloat++
				continue
			}
		} else {
			if nextInt < len(IntArgRegs) {
				reg := IntArgRegs[nextInt]
				locs[i] = symtab.ArgLoc{Reg: reg, HasReg: true, ByPointer: !passByRegister(f.Type)}
				nextInt++
				continue
			}
		}
		spillIdx = append(spillIdx, i)
	}

	// Spilled parameters are laid out in reverse parameter order,
	// matching a left-to-right push sequence before the call.
	offset := baseOffset
	for j := len(spillIdx) - 1; j >= 0; j-- {
		i := spillIdx[j]
		locs[i] = symtab.ArgLoc{HasReg: false, StackSlot: offset, ByPointer: !passByRegister(formals[i].Type)}
		offset += 8
	}

	return locs
}

// ReturnLocation reports whether a value of type t returns in RAX/XMM0
// (register=true) or via a caller-supplied pointer left in RAX
// (register=false).
func ReturnLocation(t types.DataType) (useFloatReg bool, byRegister bool) {
	if t.Primary == types.VOID {
		return false, true
	}
	return isFloat(t), passByRegister(t)
}
