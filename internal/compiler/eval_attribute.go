package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// evalAttribute compiles an AttributeSelection expression:
// `expr:len` and `expr:size`. len reads the runtime length prefix of an
// array/string (or resolves to the literal array length when it is
// statically known); size is always a compile-time constant, the
// operand's width in bytes.
func (c *Compiler) evalAttribute(a *ast.AttributeSelection) (types.DataType, int, error) {
	switch a.Attribute {
	case "size":
		baseType, err := c.staticType(a.Base)
		if err != nil {
			return types.DataType{}, 0, err
		}
		c.emit("mov rax, %d", baseType.Width())
		return types.New(types.INT, types.NewQualities(types.Unsigned, types.Long)), 0, nil

	case "len":
		baseType, err := c.staticType(a.Base)
		if err != nil {
			return types.DataType{}, 0, err
		}
		switch baseType.Primary {
		case types.ARRAY:
			if baseType.HasArrayLength {
				c.emit("mov rax, %d", baseType.ArrayLength)
				return types.New(types.INT, types.NewQualities(types.Unsigned, types.Long)), 0, nil
			}
			operand, _, err := c.addressOf(a.Base)
			if err != nil {
				return types.DataType{}, 0, err
			}
			if operand != "rbx" {
				c.emit("mov rbx, %s", operand)
			}
			c.emit("mov eax, [rbx]")
			return types.New(types.INT, types.NewQualities(types.Unsigned, types.Long)), 0, nil
		case types.STRING:
			operand, _, err := c.addressOf(a.Base)
			if err != nil {
				return types.DataType{}, 0, err
			}
			if operand != "rbx" {
				c.emit("mov rbx, %s", operand)
			}
			c.emit("mov eax, [rbx]")
			return types.New(types.INT, types.NewQualities(types.Unsigned, types.Long)), 0, nil
		default:
			return types.DataType{}, 0, sinerr.New(a.Line(), sinerr.TypeError, "':len' requires an array or string")
		}

	default:
		return types.DataType{}, 0, sinerr.New(a.Line(), sinerr.TypeError, "unknown attribute %q", a.Attribute)
	}
}

// staticType resolves e's type for attribute selections where only the
// type (not the value) is needed. An identifier's type comes from the
// symbol table with no code emitted; an indexed or dotted expression is
// resolved through its address computation, which does emit code.
func (c *Compiler) staticType(e ast.Expr) (types.DataType, error) {
	switch n := e.(type) {
	case *ast.Identifier:
		sym, err := c.Symbols.Find(n.Name, c.scopeName)
		if err != nil {
			return types.DataType{}, sinerr.New(n.Line(), sinerr.SymbolNotFound, "symbol %q not found", n.Name)
		}
		return sym.Type, nil
	case *ast.Indexed:
		_, t, err := c.addressOf(n)
		return t, err
	case *ast.Binary:
		if n.Op == ast.OpDot {
			_, t, err := c.memberAddress(n)
			return t, err
		}
	}
	return types.DataType{}, sinerr.New(e.Line(), sinerr.TypeError, "cannot resolve attribute base type statically")
}
