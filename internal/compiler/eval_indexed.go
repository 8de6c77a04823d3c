package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/types"
)

// evalIndexed compiles an Indexed expression: compute the
// bounds-checked element address, then load the final value (or leave
// the address in RAX for large element types).
func (c *Compiler) evalIndexed(idx *ast.Indexed) (types.DataType, int, error) {
	operand, elemType, err := c.addressOf(idx)
	if err != nil {
		return types.DataType{}, 0, err
	}
	if operand != "rbx" {
		c.emit("mov rbx, %s", operand)
	}
	if !passRegisterSized(elemType) {
		c.emit("mov rax, rbx")
		return elemType, 0, nil
	}
	if elemType.Primary == types.FLOAT {
		instr := "movss"
		if elemType.Width() == types.WidthDouble {
			instr = "movsd"
		}
		c.emit("%s xmm0, [rbx]", instr)
	} else {
		c.emit("mov %s, [rbx]", width32Name(rax, elemType.Width()))
	}
	return elemType, 0, nil
}

// evalList compiles a ListExpression: allocate a .bss region
// sized for the aggregate, write the length (for ARRAY) into the first
// doubleword, and evaluate each element at the correct offset.
func (c *Compiler) evalList(list *ast.ListExpression, hint *types.DataType) (types.DataType, int, error) {
	label := c.nextLabel("sinl_list", &c.counters.list)

	var elemType types.DataType
	isArray := hint == nil || hint.Primary == types.ARRAY
	if hint != nil && hint.Subtype != nil {
		elemType = *hint.Subtype
	} else if len(list.Elements) > 0 {
		// peek the declared hint is unavailable; default elements to INT
		elemType = types.New(types.INT, types.NewQualities(types.Signed))
	}

	totalWidth := 0
	if isArray {
		totalWidth = 4
	}
	for range list.Elements {
		totalWidth += elemType.Width()
	}
	c.sections.Bss.WriteString(label + ": resb " + itoa(totalWidth) + "\n")

	offset := 0
	if isArray {
		c.emit("mov dword [%s], %d", label, len(list.Elements))
		offset = 4
	}
	for _, el := range list.Elements {
		_, _, err := c.EvalExpr(el, &elemType)
		if err != nil {
			return types.DataType{}, 0, err
		}
		if elemType.Primary == types.FLOAT {
			instr := "movss"
			if elemType.Width() == types.WidthDouble {
				instr = "movsd"
			}
			c.emit("%s [%s+%d], xmm0", instr, label, offset)
		} else {
			c.emit("mov [%s+%d], %s", label, offset, width32Name(rax, elemType.Width()))
		}
		offset += elemType.Width()
	}

	c.emit("lea rax, [%s]", label)
	if isArray {
		return types.NewArray(elemType, int64(len(list.Elements)), types.NewQualities()), 0, nil
	}
	contained := make([]types.DataType, len(list.Elements))
	for i := range contained {
		contained[i] = elemType
	}
	return types.NewTuple(contained, types.NewQualities()), 0, nil
}
