package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// compileAssignment compiles an Assignment statement: compute
// the destination, free any previously-held reference value, evaluate
// the right-hand side, store it, and add-ref the new value when the
// destination merely gained another reference to existing data (as
// opposed to freshly-allocated data it now owns outright).
func (c *Compiler) compileAssignment(a *ast.Assignment) error {
	destType, err := c.staticType(a.LHS)
	if err != nil {
		return err
	}
	if destType.Qualities.Has(types.Const) {
		return sinerr.New(a.Line(), sinerr.ConstAssignment, "cannot assign to a const value")
	}
	if destType.Qualities.Has(types.Final) && c.destInitialized(a.LHS) {
		return sinerr.New(a.Line(), sinerr.FinalAssignment, "cannot reassign a final value")
	}

	if destType.MustFree() {
		if err := c.freeDestination(a.LHS, destType); err != nil {
			return err
		}
	}

	if _, _, err := c.addressOf(a.LHS); err != nil {
		return err
	}
	c.emit("push rbx") // preserve the destination address across RHS evaluation

	if _, _, err := c.EvalExpr(a.RHS, &destType); err != nil {
		return err
	}

	c.emit("pop rbx")
	c.storeValue(destType)

	if destType.MustFree() && isCopySource(a.RHS) {
		c.callSREPreserving(sreAddRef, func() {
			c.emit("mov rdi, rax")
		})
	}

	c.markInitialized(a.LHS)
	return nil
}

// storeValue writes RAX (or XMM0 for a float) to [rbx], the address
// addressOf left for the assignment destination.
func (c *Compiler) storeValue(t types.DataType) {
	if !passRegisterSized(t) {
		c.copyAggregate(t)
		return
	}
	if t.Primary == types.FLOAT {
		instr := "movss"
		if t.Width() == types.WidthDouble {
			instr = "movsd"
		}
		c.emit("%s [rbx], xmm0", instr)
	} else {
		c.emit("mov [rbx], %s", width32Name(rax, t.Width()))
	}
}

// copyAggregate copies a string/array/struct/tuple value whose address
// is in RAX into the destination address in RBX, via the matching SRE
// copy helper (or a raw struct-width copy for non-managed structs).
func (c *Compiler) copyAggregate(t types.DataType) {
	switch t.Primary {
	case types.STRING:
		c.callSREPreserving(sreStringCopy, func() {
			c.emit("mov rsi, rax")
			c.emit("mov rdi, rbx")
		})
	case types.ARRAY:
		c.callSREPreserving(sreArrayCopy, func() {
			c.emit("mov rsi, rax")
			c.emit("mov rdi, rbx")
		})
	default:
		mark := c.pushUsed(true)
		c.emit("mov rsi, rax")
		c.emit("mov rdi, rbx")
		c.emit("mov rcx, %d", t.Width())
		c.emit("rep movsb")
		c.popUsed(mark)
	}
}

// freeDestination emits an SRE free call for the value currently held at
// the assignment's destination, skipped if the destination has not yet
// been initialized (nothing to free).
func (c *Compiler) freeDestination(dest ast.Expr, t types.DataType) error {
	id, ok := dest.(*ast.Identifier)
	if !ok {
		return nil // only simple identifiers track Initialized precisely enough to skip safely
	}
	sym, err := c.Symbols.Find(id.Name, c.scopeName)
	if err != nil {
		return nil
	}
	if !sym.Initialized || sym.Freed {
		return nil
	}
	operand, _, err := c.addressOf(dest)
	if err != nil {
		return err
	}
	if operand != "rbx" {
		c.emit("mov rbx, %s", operand)
	}
	c.callSREPreserving(sreFree, func() {
		c.emit("mov rdi, [rbx]")
	})
	return nil
}

func (c *Compiler) destInitialized(dest ast.Expr) bool {
	id, ok := dest.(*ast.Identifier)
	if !ok {
		return true
	}
	sym, err := c.Symbols.Find(id.Name, c.scopeName)
	if err != nil {
		return false
	}
	return sym.Initialized
}

func (c *Compiler) markInitialized(dest ast.Expr) {
	id, ok := dest.(*ast.Identifier)
	if !ok {
		return
	}
	if sym, err := c.Symbols.Find(id.Name, c.scopeName); err == nil {
		sym.Initialized = true
		sym.Freed = false
	}
}

// isCopySource reports whether rhs names an existing value (so its
// reference count must be incremented) as opposed to a fresh allocation
// or literal the destination now owns outright without any other
// outstanding reference.
func isCopySource(rhs ast.Expr) bool {
	switch rhs.(type) {
	case *ast.Identifier, *ast.Indexed, *ast.Binary:
		return true
	default:
		return false
	}
}
