package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// evalUnary compiles a Unary expression.
func (c *Compiler) evalUnary(u *ast.Unary, hint *types.DataType) (types.DataType, int, error) {
	if u.Op == ast.OpAddress {
		r, t, err := c.addressOf(u.Operand)
		if err != nil {
			return types.DataType{}, 0, err
		}
		if r != "rax" {
			c.emit("mov rax, %s", r)
		}
		return types.NewPtr(types.PTR, t, types.NewQualities()), 0, nil
	}

	operandType, k, err := c.EvalExpr(u.Operand, nil)
	if err != nil {
		return types.DataType{}, 0, err
	}

	switch u.Op {
	case ast.OpUnaryPlus:
		c.Sink.Notef(u.Line(), "unary plus operator has no effect")
		return operandType, k, nil

	case ast.OpUnaryMinus:
		switch operandType.Primary {
		case types.FLOAT:
			if operandType.Width() == types.WidthDouble {
				c.emit("movsd xmm1, [sinl_dp_mask]")
				c.emit("xorpd xmm0, xmm1")
			} else {
				c.emit("movss xmm1, [sinl_sp_mask]")
				c.emit("xorps xmm0, xmm1")
			}
		case types.INT:
			if operandType.Qualities.Has(types.Unsigned) {
				c.Sink.Warnf(u.Line(), sinerr.WidthMismatch, "unary minus on unsigned data may lose data")
			}
			c.emit("neg %s", width32Name(rax, operandType.Width()))
		default:
			return types.DataType{}, 0, sinerr.New(u.Line(), sinerr.UnaryTypeNotSupported, "unary minus not supported for %s", operandType.Primary)
		}
		return operandType, k, nil

	case ast.OpNot:
		if operandType.Primary != types.BOOL {
			return types.DataType{}, 0, sinerr.New(u.Line(), sinerr.UnaryTypeNotSupported, "'not' requires bool")
		}
		c.emit("mov ah, 0xFF")
		c.emit("xor al, ah")
		return operandType, k, nil

	case ast.OpBitNot:
		if operandType.Primary != types.INT {
			return types.DataType{}, 0, sinerr.New(u.Line(), sinerr.UnaryTypeNotSupported, "bitwise not requires an integer")
		}
		c.emit("not %s", width32Name(rax, operandType.Width()))
		return operandType, k, nil

	case ast.OpDereference:
		if operandType.Subtype == nil {
			return types.DataType{}, 0, sinerr.New(u.Line(), sinerr.IllegalIndirection, "cannot dereference a non-pointer type")
		}
		sub := *operandType.Subtype
		if passRegisterSized(sub) {
			c.emit("mov %s, [rax]", width32Name(rax, sub.Width()))
		} else {
			c.emit("mov rax, [rax]")
		}
		return sub, k, nil

	default:
		return types.DataType{}, 0, sinerr.New(u.Line(), sinerr.InvalidUnaryOperator, "invalid unary operator")
	}
}
