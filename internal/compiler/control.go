package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// compileIf compiles an IfThenElse statement, using the
// `.sinl_ite_N` / `.sinl_ite_else_N` / `.sinl_ite_done_N` label
// schema.
func (c *Compiler) compileIf(n *ast.IfThenElse) error {
	id := c.nextLabel(".sinl_ite", &c.counters.ite)
	elseLabel := id + "_else"
	doneLabel := id + "_done"

	condType, _, err := c.EvalExpr(n.Condition, nil)
	if err != nil {
		return err
	}
	if condType.Primary != types.BOOL {
		return sinerr.New(n.Line(), sinerr.TypeError, "if condition must be bool")
	}
	c.emit("cmp al, 0")
	target := doneLabel
	if n.Else != nil {
		target = elseLabel
	}
	c.emit("je %s", target)

	enteringScope, enteringLevel := c.scopeName, c.scopeLevel

	if err := c.compileBranchBlock(n.Then); err != nil {
		return err
	}
	c.restoreAcrossScope(c.Regs(), enteringScope, enteringLevel)

	if n.Else != nil {
		c.emit("jmp %s", doneLabel)
		c.emitLabel(elseLabel)
		if err := c.compileBranchBlock(n.Else); err != nil {
			return err
		}
		c.restoreAcrossScope(c.Regs(), enteringScope, enteringLevel)
	}

	c.emitLabel(doneLabel)
	return nil
}

// compileWhile compiles a WhileLoop statement, using the
// `.sinl_while_N` / `.sinl_while_done_N` label schema.
func (c *Compiler) compileWhile(n *ast.WhileLoop) error {
	id := c.nextLabel(".sinl_while", &c.counters.while)
	doneLabel := id + "_done"

	c.emitLabel(id)
	condType, _, err := c.EvalExpr(n.Condition, nil)
	if err != nil {
		return err
	}
	if condType.Primary != types.BOOL {
		return sinerr.New(n.Line(), sinerr.TypeError, "while condition must be bool")
	}
	c.emit("cmp al, 0")
	c.emit("je %s", doneLabel)

	enteringScope, enteringLevel := c.scopeName, c.scopeLevel
	if err := c.compileBranchBlock(n.Body); err != nil {
		return err
	}
	c.restoreAcrossScope(c.Regs(), enteringScope, enteringLevel)

	c.emit("jmp %s", id)
	c.emitLabel(doneLabel)
	return nil
}

// compileBranchBlock compiles a ScopedBlock as a control-flow branch
// body (if/else/while), entering and leaving its scope level.
func (c *Compiler) compileBranchBlock(b *ast.ScopedBlock) error {
	return c.compileScopedBlock(b)
}
