package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// compileMovement compiles a Movement statement (`lhs ->
// rhs`): ownership of a reference-typed value transfers from lhs to
// rhs without touching its refcount, and lhs is left zeroed so its
// eventual scope-exit free is a no-op. For a non-reference type, a
// move degrades to an ordinary copy-assignment.
func (c *Compiler) compileMovement(m *ast.Movement) error {
	lhsID, ok := m.LHS.(*ast.Identifier)
	if !ok {
		return sinerr.New(m.Line(), sinerr.IllegalMoveTarget, "move source must be a named value")
	}
	srcType, err := c.staticType(m.LHS)
	if err != nil {
		return err
	}

	if !srcType.MustFree() {
		return c.compileAssignment(&ast.Assignment{LHS: m.RHS, RHS: m.LHS})
	}

	destType, err := c.staticType(m.RHS)
	if err != nil {
		return err
	}
	if destType.Qualities.Has(types.Const) {
		return sinerr.New(m.Line(), sinerr.ConstAssignment, "cannot move into a const value")
	}

	if err := c.freeDestination(m.RHS, destType); err != nil {
		return err
	}

	if _, _, err := c.addressOf(m.RHS); err != nil {
		return err
	}
	c.emit("push rbx")

	sym, err := c.Symbols.Find(lhsID.Name, c.scopeName)
	if err != nil {
		return sinerr.New(m.Line(), sinerr.SymbolNotFound, "symbol %q not found", lhsID.Name)
	}
	srcOperand, _, err := c.addressOf(m.LHS)
	if err != nil {
		return err
	}
	if srcOperand != "rbx" {
		c.emit("mov rbx, %s", srcOperand)
	}
	c.emit("mov rax, [rbx]")
	c.emit("mov qword [rbx], 0")
	sym.Freed = true

	c.emit("pop rbx")
	c.storeValue(destType)
	c.markInitialized(m.RHS)
	return nil
}
