package compiler

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"

	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/reg"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/symtab"
	"github.com/rlannon/sinc/internal/types"
)

// EvalExpr is the expression evaluator's contract: emit assembly that,
// on completion, leaves the value in RAX (integers,
// pointers, bools, characters) or XMM0 (floats), or leaves an address in
// RAX for values too large for a register. It returns k, the count of
// RC-owned temporaries whose addresses remain pushed to the stack and
// must eventually be freed by the caller; before returning, if k > 1 the
// evaluator consolidates down to k=1 by freeing all but the top.
func (c *Compiler) EvalExpr(e ast.Expr, hint *types.DataType) (resultType types.DataType, k int, err error) {
	switch n := e.(type) {
	case *ast.Literal:
		resultType, k, err = c.evalLiteral(n, hint)
	case *ast.Identifier:
		resultType, k, err = c.evalIdentifier(n)
	case *ast.Indexed:
		resultType, k, err = c.evalIndexed(n)
	case *ast.ListExpression:
		resultType, k, err = c.evalList(n, hint)
	case *ast.Binary:
		resultType, k, err = c.evalBinary(n, hint)
	case *ast.Unary:
		resultType, k, err = c.evalUnary(n, hint)
	case *ast.Cast:
		resultType, k, err = c.evalCast(n)
	case *ast.AttributeSelection:
		resultType, k, err = c.evalAttribute(n)
	case *ast.CallExpression:
		resultType, k, err = c.evalCallExpr(n)
	default:
		return types.DataType{}, 0, sinerr.New(e.Line(), sinerr.InvalidExpressionType, "invalid expression type reaching the evaluator")
	}
	if err != nil {
		return resultType, k, err
	}
	return resultType, c.consolidate(k), nil
}

// consolidate implements the "if k > 1, free all but the top" rule: pops
// every RC temporary address below the top of the k-deep run and emits
// an SRE free for each.
func (c *Compiler) consolidate(k int) int {
	// Not bracketed with pushUsed/popUsed: the popped values here are the
	// k-deep run of temporary addresses already sitting on the data
	// stack, so an interleaved push would pop the wrong slot back out.
	for k > 1 {
		c.emit("pop rdi")
		c.callSRE(sreFree)
		k--
	}
	return k
}

// passRegisterSized reports whether a value of type t fits in a single
// general-purpose/SSE register (as opposed to living at an address that
// must be loaded piecewise: strings, structs, arrays, non-dynamic
// tuples).
func passRegisterSized(t types.DataType) bool {
	if t.Qualities.Has(types.Dynamic) {
		return true
	}
	switch t.Primary {
	case types.STRING, types.ARRAY, types.STRUCT, types.TUPLE:
		return false
	default:
		return true
	}
}

func (c *Compiler) evalLiteral(lit *ast.Literal, hint *types.DataType) (types.DataType, int, error) {
	switch lit.Kind {
	case ast.LitInt:
		t := types.New(types.INT, types.NewQualities(types.Signed))
		if hint != nil && hint.Primary == types.INT {
			t = *hint
		}
		width := t.Width()
		if width < 4 {
			// A 2-byte (or smaller) integer literal is zero-extended to
			// 4 bytes before being stored into a 4-byte slot.
			c.emit("mov eax, %s", lit.Value)
		} else {
			c.emit("mov %s, %s", reg.Name(x86asm.RAX, width), lit.Value)
		}
		return t, 0, nil
	case ast.LitFloat:
		t := types.New(types.FLOAT, types.NewQualities())
		if hint != nil && hint.Primary == types.FLOAT {
			t = *hint
		}
		label := c.nextLabel("sinl_fltc", &c.counters.flt)
		directive, instr := "dd", "movss"
		if t.Width() == types.WidthDouble {
			directive, instr = "dq", "movsd"
		}
		fmt.Fprintf(&c.sections.Data, "%s: %s %s\n", label, directive, lit.Value)
		c.emit("%s xmm0, [%s]", instr, label)
		return t, 0, nil
	case ast.LitBool:
		v := "0"
		if lit.Value == "true" {
			v = "1"
		}
		c.emit("mov al, %s", v)
		return types.New(types.BOOL, types.NewQualities()), 0, nil
	case ast.LitChar:
		c.emit("mov al, `%s`", lit.Value)
		return types.New(types.CHAR, types.NewQualities()), 0, nil
	case ast.LitString:
		label := c.nextLabel("sinl_strc", &c.counters.str)
		fmt.Fprintf(&c.sections.Rodata, "%s: dd %d\n\tdb `%s`, 0\n", label, len(lit.Value), lit.Value)
		c.emit("lea rax, [%s]", label)
		return types.New(types.STRING, types.NewQualities()), 0, nil
	case ast.LitVoid:
		c.emit("mov rax, 0")
		return types.New(types.VOID, types.NewQualities()), 0, nil
	}
	return types.DataType{}, 0, sinerr.New(lit.Line(), sinerr.InvalidExpressionType, "unrecognized literal kind")
}

// operand renders a symbol's value operand for an Identifier
// expression: `[name]` for a static global, `[[rbp-off]]` for a
// dynamic local (the slot holds a pointer to the value), `[rbp-off]`
// otherwise.
func (c *Compiler) operand(sym *symtab.Symbol) string {
	slot := c.slotOperand(sym)
	if sym.ScopeName != "global" && sym.Type.Qualities.Has(types.Dynamic) {
		return "[" + slot + "]"
	}
	return slot
}

func (c *Compiler) evalIdentifier(id *ast.Identifier) (types.DataType, int, error) {
	sym, err := c.Symbols.Find(id.Name, c.scopeName)
	if err != nil {
		return types.DataType{}, 0, sinerr.New(id.Line(), sinerr.SymbolNotFound, "symbol %q not found", id.Name)
	}
	if !c.isInScope(sym) {
		return types.DataType{}, 0, sinerr.New(id.Line(), sinerr.OutOfScope, "symbol %q is out of scope", id.Name)
	}
	if !sym.Initialized {
		return types.DataType{}, 0, sinerr.New(id.Line(), sinerr.ReferencedBeforeInit, "%q referenced before initialization", id.Name)
	}
	if sym.Freed {
		c.Sink.Warnf(id.Line(), sinerr.Declaration, "%q may have been freed", id.Name)
	}

	t := sym.Type
	if !passRegisterSized(t) {
		c.emit("lea rax, %s", c.slotOperand(sym))
		return t, 0, nil
	}

	if r, ok := sym.Register(); ok {
		if reg.IsFloat(r) {
			c.emit("movss xmm0, %s", reg.Name(r, t.Width()))
		} else {
			c.emit("mov %s, %s", reg.Name(x86asm.RAX, t.Width()), reg.Name(r, t.Width()))
		}
		return t, 0, nil
	}

	operand := c.operand(sym)
	if t.Primary == types.FLOAT {
		instr := "movss"
		if t.Width() == types.WidthDouble {
			instr = "movsd"
		}
		c.emit("%s xmm0, %s", instr, operand)
	} else {
		c.emit("mov %s, %s", reg.Name(x86asm.RAX, t.Width()), operand)
	}
	return t, 0, nil
}
