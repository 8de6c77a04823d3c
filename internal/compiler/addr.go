package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// addressOf places the address of e into a named register operand
// (returned as a string, e.g. "rbx") without loading the value, and
// reports e's type.
func (c *Compiler) addressOf(e ast.Expr) (operand string, t types.DataType, err error) {
	switch n := e.(type) {
	case *ast.Identifier:
		sym, err := c.Symbols.Find(n.Name, c.scopeName)
		if err != nil {
			return "", types.DataType{}, sinerr.New(n.Line(), sinerr.SymbolNotFound, "symbol %q not found", n.Name)
		}
		if sym.ScopeName == "global" {
			c.emit("lea rbx, [%s]", sym.Mangled())
			return "rbx", sym.Type, nil
		}
		if sym.Type.IsReferenceType() {
			c.emit("mov rbx, %s", c.slotOperand(sym))
			return "rbx", sym.Type, nil
		}
		c.emit("lea rbx, %s", c.slotOperand(sym))
		return "rbx", sym.Type, nil

	case *ast.Unary:
		if n.Op != ast.OpDereference {
			return "", types.DataType{}, sinerr.New(n.Line(), sinerr.IllegalAddressOf, "illegal address-of argument")
		}
		inner, innerType, err := c.addressOf(n.Operand)
		if err != nil {
			return "", types.DataType{}, err
		}
		if inner != "rbx" {
			c.emit("mov rbx, %s", inner)
		}
		c.emit("mov rbx, [rbx]")
		if innerType.Subtype == nil {
			return "", types.DataType{}, sinerr.New(n.Line(), sinerr.IllegalIndirection, "cannot dereference a non-pointer type")
		}
		return "rbx", *innerType.Subtype, nil

	case *ast.Indexed:
		baseOperand, baseType, err := c.addressOf(n.Base)
		if err != nil {
			return "", types.DataType{}, err
		}
		if baseOperand != "rbx" {
			c.emit("mov rbx, %s", baseOperand)
		}
		if baseType.Subtype == nil {
			return "", types.DataType{}, sinerr.New(n.Line(), sinerr.TypeNotSubscriptable, "type is not subscriptable")
		}
		elem := *baseType.Subtype

		c.emit("push rbx")
		if _, _, err := c.EvalExpr(n.Index, nil); err != nil {
			return "", types.DataType{}, err
		}
		c.emit("pop rbx")

		label := c.nextLabel(".sinl_rtbounds", &c.counters.bounds)
		c.emit("cmp [rbx], eax")
		c.emit("ja %s", label)
		c.callSRE(sreOutOfBounds)
		c.emitLabel(label)
		c.emit("mov ecx, %d", elem.Width())
		c.emit("mul ecx")
		c.emit("add rax, 4")
		c.emit("add rbx, rax")
		return "rbx", elem, nil

	case *ast.Binary:
		if n.Op != ast.OpDot {
			return "", types.DataType{}, sinerr.New(n.Line(), sinerr.IllegalAddressOf, "illegal binary operand in address-of expression")
		}
		return c.memberAddress(n)

	default:
		return "", types.DataType{}, sinerr.New(e.Line(), sinerr.IllegalAddressOf, "illegal address-of argument")
	}
}

// memberAddress walks a left-to-right dot chain, accumulating member
// offsets via struct-table lookups, leaving the final address available
// via the returned operand (RBX).
func (c *Compiler) memberAddress(dot *ast.Binary) (string, types.DataType, error) {
	leftOperand, leftType, err := c.addressOf(dot.Left)
	if err != nil {
		return "", types.DataType{}, err
	}
	if leftOperand != "rbx" {
		c.emit("mov rbx, %s", leftOperand)
	}
	if leftType.Primary == types.REFERENCE || leftType.Primary == types.PTR {
		c.emit("mov rbx, [rbx]")
		if leftType.Subtype != nil {
			leftType = *leftType.Subtype
		}
	}
	if leftType.Primary != types.STRUCT {
		return "", types.DataType{}, sinerr.New(dot.Line(), sinerr.TypeError, "left-hand side of '.' must be a struct")
	}
	memberName, ok := dot.Right.(*ast.Identifier)
	if !ok {
		return "", types.DataType{}, sinerr.New(dot.Line(), sinerr.TypeError, "right-hand side of '.' must name a member")
	}
	info, ok := c.Structs.Find(leftType.StructName)
	if !ok {
		return "", types.DataType{}, sinerr.New(dot.Line(), sinerr.Undefined, "undefined struct %q", leftType.StructName)
	}
	member, ok := info.Member(memberName.Name)
	if !ok {
		return "", types.DataType{}, sinerr.New(dot.Line(), sinerr.SymbolNotFound, "struct %q has no member %q", leftType.StructName, memberName.Name)
	}
	if member.StackOffset != 0 {
		c.emit("add rbx, %d", member.StackOffset)
	}
	return "rbx", member.Type, nil
}
