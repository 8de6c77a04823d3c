package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// compileConstruction compiles a Construction statement:
// every member of the named struct must receive exactly one
// initializer, by name, or the `default` sentinel (which zero-fills
// that member's slot); any member named twice, or left out entirely
// without `default`, is a compile error.
func (c *Compiler) compileConstruction(con *ast.Construction) error {
	info, ok := c.Structs.Find(con.Struct)
	if !ok {
		return sinerr.New(con.Line(), sinerr.Undefined, "undefined struct %q", con.Struct)
	}
	if !info.WidthKnown {
		return sinerr.New(con.Line(), sinerr.InvalidSymbolType, "struct %q is only forward-declared", con.Struct)
	}

	seen := make(map[string]bool, len(con.Inits))
	initByMember := make(map[string]ast.ConstructionInit, len(con.Inits))
	for _, init := range con.Inits {
		if seen[init.Member] {
			return sinerr.New(con.Line(), sinerr.ConstructionNumber, "member %q initialized more than once", init.Member)
		}
		seen[init.Member] = true
		initByMember[init.Member] = init
	}
	for _, m := range info.Members {
		if !seen[m.Name] {
			return sinerr.New(con.Line(), sinerr.ConstructionNumber, "member %q of %q was never initialized", m.Name, con.Struct)
		}
	}

	baseOperand, _, err := c.addressOf(con.Target)
	if err != nil {
		return err
	}
	if baseOperand != "rbx" {
		c.emit("mov rbx, %s", baseOperand)
	}
	c.emit("push rbx")

	for _, m := range info.Members {
		init := initByMember[m.Name]
		c.emit("pop rbx")
		c.emit("push rbx")
		if m.StackOffset != 0 {
			c.emit("lea rbx, [rbx+%d]", m.StackOffset)
		}
		c.emit("push rbx")

		if init.Default && !passRegisterSized(m.Type) {
			c.emit("pop rbx")
			c.emit("xor rax, rax")
			c.emit("mov rdi, rbx")
			c.emit("mov rcx, %d", m.Type.Width())
			c.emit("rep stosb")
			continue
		}
		if init.Default {
			c.zeroMember(m.Type)
		} else {
			if _, _, err := c.EvalExpr(init.Value, &m.Type); err != nil {
				return err
			}
		}

		c.emit("pop rbx")
		c.storeValue(m.Type)
	}
	c.emit("pop rbx")
	return nil
}

// zeroMember implements the `default` initializer for a register-sized
// member: RAX/XMM0 is set to the type's zero value ahead of storeValue.
func (c *Compiler) zeroMember(t types.DataType) {
	if t.Primary == types.FLOAT {
		c.emit("xorps xmm0, xmm0")
		return
	}
	c.emit("xor rax, rax")
}
