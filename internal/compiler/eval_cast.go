package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// evalCast compiles a Cast expression: classify via
// types.Cast, re-evaluate a literal operand in place for a same-primary
// FLOAT width change, and otherwise evaluate the operand once and emit
// the conversion instruction the classification calls for.
func (c *Compiler) evalCast(cst *ast.Cast) (types.DataType, int, error) {
	if lit, ok := cst.Operand.(*ast.Literal); ok && lit.Kind == ast.LitFloat {
		probe, _, err := c.peekType(lit)
		if err == nil && types.SameWidthRecast(probe, cst.Target) {
			return c.evalLiteral(lit, &cst.Target)
		}
	}

	oldType, k, err := c.EvalExpr(cst.Operand, nil)
	if err != nil {
		return types.DataType{}, 0, err
	}

	op, narrowing, err := types.Cast(oldType, cst.Target)
	if err != nil {
		return types.DataType{}, 0, sinerr.New(cst.Line(), sinerr.InvalidCast, "%s", err)
	}
	if narrowing {
		if c.Mode == sinerr.ModeStrict {
			return types.DataType{}, 0, sinerr.New(cst.Line(), sinerr.DataWidth, "cast from %s to %s narrows the value", oldType, cst.Target)
		}
		c.Sink.Warnf(cst.Line(), sinerr.DataWidth, "cast from %s to %s narrows the value", oldType, cst.Target)
	}

	switch op {
	case types.CastIntToBool:
		c.emit("cmp %s, 0", width32Name(rax, oldType.Width()))
		c.emit("setne al")
		c.emit("movzx rax, al")
	case types.CastIntToInt:
		if cst.Target.Width() > oldType.Width() {
			if oldType.Qualities.Has(types.Signed) {
				c.emit("movsx rax, %s", width32Name(rax, oldType.Width()))
			} else {
				c.emit("movzx rax, %s", width32Name(rax, oldType.Width()))
			}
		}
	case types.CastIntToFloat:
		instr := "cvtsi2ss"
		if cst.Target.Width() == types.WidthDouble {
			instr = "cvtsi2sd"
		}
		c.emit("%s xmm0, %s", instr, width32Name(rax, oldType.Width()))
	case types.CastIntToChar:
		c.emit("movzx rax, al")
	case types.CastFloatToBool:
		c.emit("xorps xmm1, xmm1")
		suffix := "ss"
		if oldType.Width() == types.WidthDouble {
			suffix = "sd"
		}
		c.emit("comis%s xmm0, xmm1", suffix)
		c.emit("setne al")
		c.emit("movzx rax, al")
	case types.CastFloatToInt:
		instr := "cvttss2si"
		if oldType.Width() == types.WidthDouble {
			instr = "cvttsd2si"
		}
		c.emit("%s rax, xmm0", instr)
	case types.CastFloatToFloat:
		if oldType.Width() == types.WidthDouble {
			c.emit("cvtsd2ss xmm0, xmm0")
		} else {
			c.emit("cvtss2sd xmm0, xmm0")
		}
	case types.CastBoolToInt:
		c.emit("movzx rax, al")
	case types.CastBoolToFloat:
		c.emit("movzx rax, al")
		c.emit("cvtsi2sd xmm0, eax")
	case types.CastCharToChar, types.CastNone:
		// no instruction needed
	default:
		return types.DataType{}, 0, sinerr.New(cst.Line(), sinerr.InvalidCast, "unsupported cast")
	}

	return cst.Target, k, nil
}

// peekType reports a literal's natural type without emitting any
// assembly, so evalCast can decide whether a FLOAT literal recast
// should be re-emitted rather than converted.
func (c *Compiler) peekType(lit *ast.Literal) (types.DataType, int, error) {
	switch lit.Kind {
	case ast.LitFloat:
		return types.New(types.FLOAT, types.NewQualities()), 0, nil
	default:
		return types.DataType{}, 0, nil
	}
}
