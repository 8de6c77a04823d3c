package compiler

import (
	"golang.org/x/arch/x86/x86asm"

	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/callconv"
	"github.com/rlannon/sinc/internal/reg"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// evalCallExpr compiles a CallExpression: evaluate
// each argument into its SINCALL location (register or stack slot,
// with spilled arguments pushed in parameter order so each lands at the
// slot callconv.Classify gave it), align the stack to 16 bytes, call,
// and collect the return value.
func (c *Compiler) evalCallExpr(call *ast.CallExpression) (types.DataType, int, error) {
	fn, err := c.Symbols.FindFunction(call.Name, "global")
	if err != nil {
		return types.DataType{}, 0, sinerr.New(call.Line(), sinerr.SymbolNotFound, "function %q not found", call.Name)
	}
	if len(call.Args) != len(fn.Formals) {
		return types.DataType{}, 0, sinerr.New(call.Line(), sinerr.TypeError, "%q expects %d arguments, got %d", call.Name, len(fn.Formals), len(call.Args))
	}

	locs := fn.ArgLocs
	if locs == nil {
		locs = callconv.Classify(fn.Formals, 16)
	}

	spillCount := 0
	for _, l := range locs {
		if !l.HasReg {
			spillCount++
		}
	}

	// Preserve every caller-saved register currently holding a live value
	// before touching any argument registers; popped back after the call
	// returns. Pushed ahead of the spilled-argument pushes below, so the
	// two nest correctly as a single LIFO run.
	mark := c.pushUsed(true)

	// The alignment pad goes below the spilled arguments, so it does not
	// sit between them and the return address.
	alignPad := spillCount%2 != 0
	if alignPad {
		c.emit("sub rsp, 8")
	}

	// Evaluate and push spilled (stack) arguments first, in argument
	// order, so the last spilled argument is pushed last and sits at
	// [rbp+16] in the callee, the offset callconv.Classify assigns it.
	for i := 0; i < len(call.Args); i++ {
		if locs[i].HasReg {
			continue
		}
		if _, _, err := c.EvalExpr(call.Args[i], &fn.Formals[i].Type); err != nil {
			return types.DataType{}, 0, err
		}
		if locs[i].ByPointer {
			c.emit("lea rax, [rax]")
		}
		if fn.Formals[i].Type.Primary == types.FLOAT {
			c.emit("sub rsp, 8")
			c.emit("movsd [rsp], xmm0")
		} else {
			c.emit("push rax")
		}
	}

	// Evaluate register-resident arguments left to right, staging each
	// result through RAX/XMM0 before moving it to its assigned register
	// so an earlier argument's register isn't clobbered evaluating a
	// later one.
	for i, arg := range call.Args {
		if !locs[i].HasReg {
			continue
		}
		if _, _, err := c.EvalExpr(arg, &fn.Formals[i].Type); err != nil {
			return types.DataType{}, 0, err
		}
		if fn.Formals[i].Type.Primary == types.FLOAT {
			c.emit("movsd %s, xmm0", reg.Name(locs[i].Reg, fn.Formals[i].Type.Width()))
		} else if locs[i].ByPointer {
			c.emit("mov %s, rax", reg.Name(locs[i].Reg, 8))
		} else {
			c.emit("mov %s, %s", reg.Name(locs[i].Reg, fn.Formals[i].Type.Width()), reg.Name(x86asm.RAX, fn.Formals[i].Type.Width()))
		}
	}

	c.emit("call %s", fn.Mangled())

	stackCleanup := spillCount * 8
	if alignPad {
		stackCleanup += 8
	}
	if stackCleanup > 0 {
		c.emit("add rsp, %d", stackCleanup)
	}

	c.popUsed(mark)

	return fn.Type, 0, nil
}

// evalCallStatement is the statement-level call form (a call whose
// result is discarded), sharing evalCallExpr's argument machinery.
func (c *Compiler) evalCallStatement(call *ast.CallExpression) error {
	_, _, err := c.evalCallExpr(call)
	return err
}
