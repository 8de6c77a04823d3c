package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// evalBinary compiles a Binary expression: left first, then right, with
// the float/int operand-staging dance, then an operator x primary
// dispatch.
func (c *Compiler) evalBinary(b *ast.Binary, hint *types.DataType) (types.DataType, int, error) {
	if b.Op == ast.OpDot {
		operand, t, err := c.memberAddress(b)
		if err != nil {
			return types.DataType{}, 0, err
		}
		if operand != "rbx" {
			c.emit("mov rbx, %s", operand)
		}
		if passRegisterSized(t) {
			c.emit("mov %s, [rbx]", width32Name(rax, t.Width()))
		} else {
			c.emit("mov rax, rbx")
		}
		return t, 0, nil
	}

	leftType, kLeft, err := c.EvalExpr(b.Left, hint)
	if err != nil {
		return types.DataType{}, 0, err
	}

	isFloat := leftType.Primary == types.FLOAT

	if isFloat {
		c.emit("sub rsp, 16")
		c.emit("movdqu [rsp], xmm0")
	} else {
		c.emit("push rax")
	}

	rightType, kRight, err := c.EvalExpr(b.Right, &leftType)
	if err != nil {
		return types.DataType{}, 0, err
	}

	if isFloat {
		c.emit("movsd xmm1, xmm0")
		c.emit("movdqu xmm0, [rsp]")
		c.emit("add rsp, 16")
	} else {
		c.emit("mov rbx, rax")
		c.emit("pop rax")
	}

	k := kLeft + kRight

	if leftType.Qualities.Has(types.Signed) != rightType.Qualities.Has(types.Signed) &&
		leftType.Primary == types.INT && rightType.Primary == types.INT {
		c.Sink.Warnf(b.Line(), sinerr.SignMismatch, "operands to %v have mismatched signedness", b.Op)
	}
	if leftType.Primary == types.INT && rightType.Primary == types.INT && leftType.Width() != rightType.Width() &&
		isBitwiseOp(b.Op) {
		if c.Mode == sinerr.ModeStrict {
			return types.DataType{}, 0, sinerr.New(b.Line(), sinerr.WidthMismatch, "bitwise operands have mismatched widths")
		}
		c.Sink.Warnf(b.Line(), sinerr.WidthMismatch, "bitwise operands have mismatched widths")
	}

	resultType, err := c.emitOperator(b, leftType, rightType)
	if err != nil {
		return types.DataType{}, 0, err
	}
	return resultType, k, nil
}

func isBitwiseOp(op ast.Operator) bool {
	switch op {
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor:
		return true
	}
	return false
}

// emitOperator dispatches on operator x primary type. Left operand in
// RAX/XMM0, right in RBX/XMM1 on entry.
func (c *Compiler) emitOperator(b *ast.Binary, left, right types.DataType) (types.DataType, error) {
	switch left.Primary {
	case types.STRING:
		return c.emitStringOperator(b, left, right)
	case types.FLOAT:
		return c.emitFloatOperator(b, left)
	case types.BOOL:
		return c.emitBoolOperator(b, left)
	case types.PTR, types.REFERENCE:
		return c.emitPointerOperator(b, left, right)
	case types.INT, types.CHAR:
		return c.emitIntOperator(b, left, right)
	default:
		return types.DataType{}, sinerr.New(b.Line(), sinerr.OperatorTypeError, "operator not supported for %s", left.Primary)
	}
}

// signExtendInstr returns the mnemonic that sign-extends RAX/EAX/AX into
// RDX:RAX/EDX:EAX/DX:AX ahead of a signed idiv of the given operand width.
func signExtendInstr(width int) string {
	switch {
	case width <= 2:
		return "cwd"
	case width <= 4:
		return "cdq"
	default:
		return "cqo"
	}
}

func (c *Compiler) emitIntOperator(b *ast.Binary, left, right types.DataType) (types.DataType, error) {
	w := width32Name(rax, left.Width())
	bw := width32Name(rbx, left.Width())
	signed := left.Qualities.Has(types.Signed) || !left.Qualities.Has(types.Unsigned)
	switch b.Op {
	case ast.OpPlus:
		c.emit("add %s, %s", w, bw)
		return left, nil
	case ast.OpMinus:
		c.emit("sub %s, %s", w, bw)
		return left, nil
	case ast.OpMult:
		if signed {
			c.emit("imul %s, %s", w, bw)
		} else {
			c.emit("mul %s", bw)
		}
		return left, nil
	case ast.OpDiv:
		if signed {
			c.emit(signExtendInstr(left.Width()))
			c.emit("idiv %s", bw)
		} else {
			c.emit("xor rdx, rdx")
			c.emit("div %s", bw)
		}
		return left, nil
	case ast.OpMod:
		if signed {
			c.emit(signExtendInstr(left.Width()))
			c.emit("idiv %s", bw)
		} else {
			c.emit("xor rdx, rdx")
			c.emit("div %s", bw)
		}
		c.emit("mov %s, %s", w, width32Name(rdx, left.Width()))
		return left, nil
	case ast.OpBitAnd:
		c.emit("and %s, %s", w, bw)
		return left, nil
	case ast.OpBitOr:
		c.emit("or %s, %s", w, bw)
		return left, nil
	case ast.OpBitXor:
		c.emit("xor %s, %s", w, bw)
		return left, nil
	case ast.OpEqual, ast.OpNotEqual, ast.OpGreater, ast.OpLess, ast.OpGreaterEq, ast.OpLessEq:
		return c.emitCompare(b.Op, w, bw, signed)
	default:
		return types.DataType{}, sinerr.New(b.Line(), sinerr.OperatorTypeError, "operator not supported for int")
	}
}

var setccSigned = map[ast.Operator]string{
	ast.OpEqual: "sete", ast.OpNotEqual: "setne",
	ast.OpGreater: "setg", ast.OpLess: "setl",
	ast.OpGreaterEq: "setge", ast.OpLessEq: "setle",
}

var setccUnsigned = map[ast.Operator]string{
	ast.OpEqual: "sete", ast.OpNotEqual: "setne",
	ast.OpGreater: "seta", ast.OpLess: "setb",
	ast.OpGreaterEq: "setae", ast.OpLessEq: "setbe",
}

func (c *Compiler) emitCompare(op ast.Operator, w, bw string, signed bool) (types.DataType, error) {
	c.emit("cmp %s, %s", w, bw)
	setcc := setccUnsigned[op]
	if signed {
		setcc = setccSigned[op]
	}
	c.emit("%s al", setcc)
	c.emit("movzx rax, al")
	return types.New(types.BOOL, types.NewQualities()), nil
}

func (c *Compiler) emitFloatOperator(b *ast.Binary, left types.DataType) (types.DataType, error) {
	suffix := "ss"
	if left.Width() == types.WidthDouble {
		suffix = "sd"
	}
	switch b.Op {
	case ast.OpPlus:
		c.emit("add%s xmm0, xmm1", suffix)
		return left, nil
	case ast.OpMinus:
		c.emit("sub%s xmm0, xmm1", suffix)
		return left, nil
	case ast.OpMult:
		c.emit("mul%s xmm0, xmm1", suffix)
		return left, nil
	case ast.OpDiv:
		c.emit("div%s xmm0, xmm1", suffix)
		return left, nil
	case ast.OpMod:
		// Float modulo has no direct SSE instruction; lowered to a
		// runtime helper instead.
		c.callSRE(sreFloatMod)
		return left, nil
	case ast.OpEqual, ast.OpNotEqual, ast.OpGreater, ast.OpLess, ast.OpGreaterEq, ast.OpLessEq:
		c.emit("comis%s xmm0, xmm1", suffix[len(suffix)-1:])
		setcc := setccUnsigned[b.Op]
		c.emit("%s al", setcc)
		c.emit("movzx rax, al")
		return types.New(types.BOOL, types.NewQualities()), nil
	default:
		return types.DataType{}, sinerr.New(b.Line(), sinerr.OperatorTypeError, "operator not supported for float")
	}
}

func (c *Compiler) emitBoolOperator(b *ast.Binary, left types.DataType) (types.DataType, error) {
	switch b.Op {
	case ast.OpAnd:
		c.emit("and al, bl")
	case ast.OpOr:
		c.emit("or al, bl")
	case ast.OpXor:
		c.emit("xor al, bl")
	case ast.OpEqual:
		c.emit("cmp al, bl")
		c.emit("sete al")
	case ast.OpNotEqual:
		c.emit("cmp al, bl")
		c.emit("setne al")
	default:
		return types.DataType{}, sinerr.New(b.Line(), sinerr.OperatorTypeError, "operator not supported for bool")
	}
	return left, nil
}

func (c *Compiler) emitPointerOperator(b *ast.Binary, left, right types.DataType) (types.DataType, error) {
	stride := 1
	if left.Subtype != nil {
		stride = left.Subtype.Width()
		if stride == 0 {
			stride = 1
		}
	}
	switch b.Op {
	case ast.OpPlus:
		c.emit("imul rbx, %d", stride)
		c.emit("add rax, rbx")
		return left, nil
	case ast.OpMinus:
		if right.Primary == types.PTR || right.Primary == types.REFERENCE {
			c.emit("sub rax, rbx")
			c.emit("cqo")
			c.emit("mov rcx, %d", stride)
			c.emit("idiv rcx")
			return types.New(types.INT, types.NewQualities(types.Signed, types.Long)), nil
		}
		c.emit("imul rbx, %d", stride)
		c.emit("sub rax, rbx")
		return left, nil
	case ast.OpEqual, ast.OpNotEqual, ast.OpGreater, ast.OpLess, ast.OpGreaterEq, ast.OpLessEq:
		return c.emitCompare(b.Op, "rax", "rbx", false)
	default:
		return types.DataType{}, sinerr.New(b.Line(), sinerr.OperatorTypeError, "operator not supported for pointers")
	}
}

// emitStringOperator implements '+' via sinl_string_concat and
// '='/'!=' via a repe cmpsb loop over the length-prefixed bytes;
// all other operators are invalid on strings.
func (c *Compiler) emitStringOperator(b *ast.Binary, left, right types.DataType) (types.DataType, error) {
	switch b.Op {
	case ast.OpPlus:
		c.callSREPreserving(sreStringConcat, func() {
			c.emit("mov rsi, rax")
			c.emit("mov rdi, rbx")
		})
		return left, nil
	case ast.OpEqual, ast.OpNotEqual:
		c.emit("mov rsi, rax")
		c.emit("mov rdi, rbx")
		c.emit("mov ecx, [rsi]")
		c.emit("add ecx, 4")
		c.emit("repe cmpsb")
		if b.Op == ast.OpEqual {
			c.emit("sete al")
		} else {
			c.emit("setne al")
		}
		c.emit("movzx rax, al")
		return types.New(types.BOOL, types.NewQualities()), nil
	default:
		return types.DataType{}, sinerr.New(b.Line(), sinerr.OperatorTypeError, "operator not supported for string")
	}
}
