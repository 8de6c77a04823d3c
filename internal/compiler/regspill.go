package compiler

import (
	"golang.org/x/arch/x86/x86asm"

	"github.com/rlannon/sinc/internal/reg"
	"github.com/rlannon/sinc/internal/symtab"
)

// pushedMark records which registers pushUsed actually pushed (as
// opposed to stored back to a symbol's slot), so popUsed knows which to
// pop.
type pushedMark struct {
	regs []x86asm.Reg
}

// pushUsed stores-or-pushes every in-use register ahead of a call. If
// a register holds a symbol still reachable from the current scope,
// its value is stored to that symbol's stack slot instead of pushed
// (cheaper, and the slot already exists). With ignoreAB, RAX and RBX
// are skipped since the evaluator uses them as its own working
// registers.
func (c *Compiler) pushUsed(ignoreAB bool) pushedMark {
	var mark pushedMark
	for _, r := range c.Regs().InUse() {
		if ignoreAB && (r == x86asm.RAX || r == x86asm.RBX) {
			continue
		}
		owner := c.Regs().Owner(r)
		if sym, ok := owner.(*symtab.Symbol); ok && sym != nil && c.isInScope(sym) {
			c.storeSymbol(sym, r)
			c.Regs().Clear(r)
			continue
		}
		c.emit("push %s", reg.Name(r, 8))
		mark.regs = append(mark.regs, r)
		c.Regs().Clear(r)
	}
	return mark
}

// popUsed is push_used's mirror: pop only the registers that were
// actually pushed, in reverse order.
func (c *Compiler) popUsed(mark pushedMark) {
	for i := len(mark.regs) - 1; i >= 0; i-- {
		r := mark.regs[i]
		c.emit("pop %s", reg.Name(r, 8))
		c.Regs().Set(r, nil)
	}
}

// storeSymbol emits the store-to-stack-slot instruction for a symbol
// currently held in register r.
func (c *Compiler) storeSymbol(sym *symtab.Symbol, r x86asm.Reg) {
	width := sym.Type.Width()
	operand := c.slotOperand(sym)
	if reg.IsFloat(r) {
		instr := "movss"
		if width == types8 {
			instr = "movsd"
		}
		c.emit("%s %s, %s", instr, operand, reg.Name(r, width))
		return
	}
	c.emit("mov %s, %s", operand, width32Name(r, width))
}

const types8 = 8

// slotOperand renders a symbol's memory operand: `[name]` for static
// globals, `[rbp-off]`/`[rbp+off]` for automatic storage.
func (c *Compiler) slotOperand(sym *symtab.Symbol) string {
	if sym.ScopeName == "global" {
		return "[" + sym.Mangled() + "]"
	}
	if sym.StackOffset < 0 {
		return fmtOffset("rbp+", -sym.StackOffset)
	}
	return fmtOffset("rbp-", sym.StackOffset)
}

func fmtOffset(base string, n int) string {
	return "[" + base + itoa(n) + "]"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// restoreAcrossScope runs when control crosses from one scope into
// another (e.g. after an if/else branch rejoins): for each in-use
// register of leaving that holds a symbol, the symbol is stored back to
// its slot if it is still reachable from the entering scope, and the
// register is then marked free in the active register file. It does not
// consult the entering scope's register file and reloads nothing.
func (c *Compiler) restoreAcrossScope(leaving *reg.File, enteringScope string, enteringLevel uint) {
	for _, r := range leaving.InUse() {
		owner, _ := leaving.Owner(r).(*symtab.Symbol)
		if owner == nil {
			continue
		}
		stillReachable := owner.ScopeName == "global" || (owner.ScopeName == enteringScope && owner.ScopeLevel <= enteringLevel)
		if stillReachable {
			c.storeSymbol(owner, r)
		}
		c.Regs().Clear(r)
	}
}
