package symtab

import (
	"golang.org/x/arch/x86/x86asm"

	"github.com/rlannon/sinc/internal/types"
)

// CallConv names a calling convention; SINCALL is the only one the
// compiler supports emitting.
type CallConv uint8

const (
	Sincall CallConv = iota
)

// ArgLoc describes where one formal parameter lives: a register (holding
// the value, or its address when ByPointer is set), or, once the
// registers of its class are exhausted, a stack slot StackSlot bytes
// above RBP.
type ArgLoc struct {
	Reg       x86asm.Reg
	HasReg    bool
	ByPointer bool // large aggregate passed by address
	StackSlot int  // valid when !HasReg
}

// FunctionSymbol extends Symbol with the ordered formal parameters, the
// computed argument-register assignment, and the calling convention.
type FunctionSymbol struct {
	Symbol

	Formals  []*Symbol
	ArgLocs  []ArgLoc
	CallConv CallConv

	// IsMethod records whether this function was defined inside a struct
	// body, requiring a synthetic 'this' receiver.
	IsMethod     bool
	ReceiverType string
	IsStatic     bool
}

// Matches reports whether two function signatures are identical in name,
// return type, and formal parameter types (used for declare/define
// reconciliation and overload-free duplicate checks).
func (f *FunctionSymbol) Matches(other *FunctionSymbol) bool {
	if f.Name != other.Name || len(f.Formals) != len(other.Formals) {
		return false
	}
	if !types.IsCompatible(f.Type, other.Type) {
		return false
	}
	for i := range f.Formals {
		if !types.IsCompatible(f.Formals[i].Type, other.Formals[i].Type) {
			return false
		}
	}
	return true
}
