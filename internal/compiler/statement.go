package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/symtab"
	"github.com/rlannon/sinc/internal/types"
)

// compileStatement is the top-level statement dispatch.
func (c *Compiler) compileStatement(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.Include:
		return nil // resolved by the driver before the compiler ever sees statements
	case *ast.Declaration:
		return c.compileDeclaration(n)
	case *ast.Allocation:
		return c.compileAllocation(n)
	case *ast.Assignment:
		return c.compileAssignment(n)
	case *ast.Movement:
		return c.compileMovement(n)
	case *ast.Construction:
		return c.compileConstruction(n)
	case *ast.Return:
		return c.compileReturn(n)
	case *ast.IfThenElse:
		return c.compileIf(n)
	case *ast.WhileLoop:
		return c.compileWhile(n)
	case *ast.FunctionDefinition:
		return c.compileFunctionDefinition(n)
	case *ast.StructDefinition:
		return c.compileStructDefinition(n)
	case *ast.Call:
		return c.evalCallStatement(&ast.CallExpression{Name: n.Name, Args: n.Args})
	case *ast.InlineAssembly:
		if c.Mode == sinerr.ModeStrict {
			return sinerr.New(n.Line(), sinerr.UnsafeInlineAsm, "inline assembly is unsafe")
		}
		c.Sink.Warnf(n.Line(), sinerr.UnsafeInlineAsm, "inline assembly is unsafe")
		c.emitComment("begin asm")
		c.sections.Text.WriteString(n.Body)
		if len(n.Body) == 0 || n.Body[len(n.Body)-1] != '\n' {
			c.sections.Text.WriteString("\n")
		}
		c.emitComment("end asm")
		return nil
	case *ast.Free:
		return c.compileFree(n)
	case *ast.ScopedBlock:
		return c.compileScopedBlock(n)
	default:
		return sinerr.New(s.Line(), sinerr.InvalidExpressionType, "unrecognized statement type")
	}
}

// compileDeclaration registers an extern/forward declaration without
// allocating storage.
func (c *Compiler) compileDeclaration(d *ast.Declaration) error {
	sym := symtab.NewSymbol(d.Name, c.scopeName, c.scopeLevel, d.Type, 0, d.Line())
	sym.Defined = false
	_, err := c.Symbols.Insert(sym, d.Extern)
	return err
}

// compileAllocation compiles an Allocation statement: assign
// a stack slot (or a static .bss/.data label at global scope), insert
// the symbol, and if an initializer is present, evaluate and store it.
func (c *Compiler) compileAllocation(a *ast.Allocation) error {
	var sym *symtab.Symbol
	if c.scopeName == "global" {
		sym = symtab.NewSymbol(a.Name, "global", 0, a.Type, 0, a.Line())
	} else {
		width := slotWidth(a.Type)
		c.maxOffset += width
		c.emit("sub rsp, %d", width)
		sym = symtab.NewSymbol(a.Name, c.scopeName, c.scopeLevel, a.Type, c.maxOffset, a.Line())
	}

	inserted, err := c.Symbols.Insert(sym, false)
	if err != nil {
		return err
	}
	inserted.Defined = true

	if c.scopeName == "global" {
		c.emitGlobalStorage(inserted)
	}

	if a.Initializer == nil {
		if a.Type.Qualities.Has(types.Const) || a.Type.Qualities.Has(types.Final) {
			return sinerr.New(a.Line(), sinerr.DataWidth, "const/final allocation %q requires an initializer", a.Name)
		}
		return nil
	}

	if _, _, err := c.EvalExpr(a.Initializer, &a.Type); err != nil {
		return err
	}
	if inserted.ScopeName == "global" {
		c.emit("mov [%s], %s", inserted.Mangled(), regOrMem(a.Type))
	} else {
		c.storeIntoSlot(inserted)
	}
	inserted.Initialized = true
	if a.Type.MustFree() && isCopySource(a.Initializer) {
		c.callSREPreserving(sreAddRef, func() {
			c.emit("mov rdi, rax")
		})
	}
	return nil
}

func regOrMem(t types.DataType) string {
	if t.Primary == types.FLOAT {
		return "xmm0"
	}
	return width32Name(rax, t.Width())
}

// storeIntoSlot writes the evaluator's result register to sym's stack
// slot (or, for a dynamic-qualified local, to the pointer the slot
// holds).
func (c *Compiler) storeIntoSlot(sym *symtab.Symbol) {
	slot := c.slotOperand(sym)
	if !passRegisterSized(sym.Type) {
		c.emit("mov %s, rax", slot)
		return
	}
	if sym.Type.Primary == types.FLOAT {
		instr := "movss"
		if sym.Type.Width() == types.WidthDouble {
			instr = "movsd"
		}
		c.emit("%s %s, xmm0", instr, slot)
	} else {
		c.emit("mov %s, %s", slot, width32Name(rax, sym.Type.Width()))
	}
}

// emitGlobalStorage reserves static storage for a global symbol in
// .bss (uninitialized scalars) ahead of its first use.
func (c *Compiler) emitGlobalStorage(sym *symtab.Symbol) {
	width := sym.Type.Width()
	if width <= 0 {
		width = 8
	}
	c.sections.Bss.WriteString(sym.Mangled() + ": resb " + itoa(width) + "\n")
}

// compileReturn compiles a Return statement: evaluate the value (if
// any) into RAX/XMM0, free the function's locals, and jump to the
// epilogue.
func (c *Compiler) compileReturn(r *ast.Return) error {
	if c.currentFunction == nil {
		return sinerr.New(r.Line(), sinerr.IllegalReturn, "return statement outside a function")
	}
	if r.Value == nil {
		if c.currentFunction.Type.Primary != types.VOID {
			return sinerr.New(r.Line(), sinerr.ReturnMismatch, "missing return value for non-void function %q", c.currentFunction.Name)
		}
	} else {
		if c.currentFunction.Type.Primary == types.VOID {
			return sinerr.New(r.Line(), sinerr.ReturnMismatch, "void function %q cannot return a value", c.currentFunction.Name)
		}
		if _, _, err := c.EvalExpr(r.Value, &c.currentFunction.Type); err != nil {
			return err
		}
	}
	c.freeFunctionLocals()
	c.emit("jmp %s", c.functionEpilogueLabel())
	return nil
}

// compileFree compiles a Free statement: an explicit early SRE_FREE of
// a managed value, marking the symbol freed so a later scope-exit pass
// does not double-free it.
func (c *Compiler) compileFree(f *ast.Free) error {
	t, err := c.staticType(f.Target)
	if err != nil {
		return err
	}
	if !t.MustFree() {
		return sinerr.New(f.Line(), sinerr.IllegalOperation, "cannot free a non-reference value")
	}
	operand, _, err := c.addressOf(f.Target)
	if err != nil {
		return err
	}
	if operand != "rbx" {
		c.emit("mov rbx, %s", operand)
	}
	c.callSREPreserving(sreFree, func() {
		c.emit("mov rdi, [rbx]")
	})
	c.emit("mov qword [rbx], 0")
	if id, ok := f.Target.(*ast.Identifier); ok {
		if sym, err := c.Symbols.Find(id.Name, c.scopeName); err == nil {
			sym.Freed = true
		}
	}
	return nil
}

// compileScopedBlock implements a bare `{ ... }` block: a new scope
// level with no new function or loop context.
func (c *Compiler) compileScopedBlock(b *ast.ScopedBlock) error {
	c.scopeLevel++
	defer c.leaveBlock()
	for _, s := range b.Statements {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

// leaveBlock frees every reference-typed local declared at the
// departing level, pops them from the symbol table, reclaims their
// stack slots, and steps the scope level back down.
func (c *Compiler) leaveBlock() {
	toFree := c.Symbols.SymbolsToFree(c.scopeName, c.scopeLevel, false)
	if len(toFree) > 0 {
		mark := c.pushUsed(true)
		for _, sym := range toFree {
			if sym.Freed || !sym.Initialized {
				continue
			}
			c.emit("mov rdi, %s", c.slotOperand(sym))
			c.callSRE(sreFree)
		}
		c.popUsed(mark)
	}
	reclaimed := c.Symbols.LeaveScope(c.scopeName, c.scopeLevel)
	if reclaimed > 0 {
		c.emit("add rsp, %d", reclaimed)
		c.maxOffset -= reclaimed
	}
	c.scopeLevel--
}

// freeFunctionLocals frees every reference-typed local anywhere in the
// current function body, for use ahead of a return or at the natural
// end of a function. No add rsp is needed here: the epilogue's mov rsp,
// rbp discards every outstanding reservation unconditionally.
func (c *Compiler) freeFunctionLocals() {
	toFree := c.Symbols.SymbolsToFree(c.scopeName, 1, true)
	if len(toFree) == 0 {
		return
	}
	mark := c.pushUsed(true)
	for _, sym := range toFree {
		if sym.Freed || !sym.Initialized {
			continue
		}
		c.emit("mov rdi, %s", c.slotOperand(sym))
		c.callSRE(sreFree)
	}
	c.popUsed(mark)
}
