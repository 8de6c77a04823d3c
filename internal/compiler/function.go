package compiler

import (
	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/callconv"
	"github.com/rlannon/sinc/internal/reg"
	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/symtab"
	"github.com/rlannon/sinc/internal/types"
)

// mainRequiredSignature is the one signature `main` is permitted to
// take: `int main(dynamic array<string> args)`.
func mainRequiredSignature(params []ast.Param, ret types.DataType) bool {
	if ret.Primary != types.INT {
		return false
	}
	if len(params) != 1 {
		return false
	}
	p := params[0].Type
	return p.Primary == types.ARRAY && p.Qualities.Has(types.Dynamic) &&
		p.Subtype != nil && p.Subtype.Primary == types.STRING
}

// compileFunctionDefinition compiles a FunctionDefinition: signature
// construction, prologue/epilogue emission, and body compilation. A
// nil Body is a declaration only and allocates no code.
func (c *Compiler) compileFunctionDefinition(fd *ast.FunctionDefinition) error {
	if fd.Name == "main" {
		if !mainRequiredSignature(fd.Params, fd.ReturnType) {
			return sinerr.New(fd.Line(), sinerr.MainSignature, "main must have signature int main(dynamic array<string> args)")
		}
	}

	isMethod := c.currentStruct != ""
	fnScope := "global"
	bodyScope := fd.Name
	if isMethod {
		fnScope = c.currentStruct
		bodyScope = c.currentStruct + "_" + fd.Name
	}

	formals := make([]*symtab.Symbol, 0, len(fd.Params)+1)
	if isMethod && !fd.IsStatic {
		thisGiven := len(fd.Params) > 0 && fd.Params[0].Name == "this"
		if thisGiven {
			if fd.Params[0].Type.Primary != types.REFERENCE || fd.Params[0].Type.Subtype == nil || fd.Params[0].Type.Subtype.StructName != c.currentStruct {
				return sinerr.New(fd.Line(), sinerr.IllegalThis, "'this' parameter must be ref<%s>", c.currentStruct)
			}
		} else {
			formals = append(formals, symtab.NewSymbol("this",
				bodyScope, 1,
				types.NewPtr(types.REFERENCE, types.NewStruct(c.currentStruct, types.NewQualities()), types.NewQualities()),
				-16, fd.Line()))
		}
	} else if isMethod && fd.IsStatic {
		if len(fd.Params) > 0 && fd.Params[0].Name == "this" {
			return sinerr.New(fd.Line(), sinerr.IllegalThis, "static method %q cannot take 'this'", fd.Name)
		}
	}

	baseOffset := -16
	for i, p := range fd.Params {
		if isMethod && !fd.IsStatic && i == 0 && p.Name == "this" {
			formals = append(formals, symtab.NewSymbol("this", bodyScope, 1, p.Type, baseOffset, fd.Line()))
			baseOffset -= 8
			continue
		}
		formals = append(formals, symtab.NewSymbol(p.Name, bodyScope, 1, p.Type, baseOffset, fd.Line()))
		baseOffset -= 8
	}

	locs := callconv.Classify(formals, 16)
	for i, loc := range locs {
		if !loc.HasReg {
			formals[i].StackOffset = -loc.StackSlot
		}
	}
	fn := &symtab.FunctionSymbol{
		Symbol:   symtab.Symbol{Name: fd.Name, ScopeName: fnScope, Type: fd.ReturnType, Line: fd.Line(), Kind: symtab.KindFunction},
		Formals:  formals,
		ArgLocs:  locs,
		CallConv: symtab.Sincall,
		IsMethod: isMethod,
		IsStatic: fd.IsStatic,
	}
	fn.ReceiverType = c.currentStruct
	fn.Defined = fd.Body != nil

	inserted, err := c.Symbols.InsertFunction(fn, fd.Extern)
	if err != nil {
		return err
	}

	if fd.Body == nil {
		return nil
	}

	prevFn := c.currentFunction
	prevScope, prevLevel, prevOffset := c.scopeName, c.scopeLevel, c.maxOffset
	c.currentFunction = inserted
	c.scopeName = bodyScope
	c.scopeLevel = 1
	c.maxOffset = 8
	c.PushRegFile()

	for i, f := range inserted.Formals {
		if _, err := c.Symbols.Insert(f, false); err != nil {
			return err
		}
		f.Initialized = true
		f.Defined = true
		if locs[i].HasReg {
			f.SetRegister(locs[i].Reg)
		}
	}

	label := inserted.Mangled()
	if inserted.Name == "main" {
		label = c.mainEntryLabel()
	}
	c.emitLabel(label)
	c.emit("push rbp")
	c.emit("mov rbp, rsp")

	for _, s := range fd.Body.Statements {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}

	c.freeFunctionLocals()
	c.emitLabel(c.functionEpilogueLabel())
	c.emit("mov rsp, rbp")
	c.emit("pop rbp")
	c.emit("ret")

	c.PopRegFile()
	c.Symbols.LeaveScope(c.scopeName, c.scopeLevel)
	c.currentFunction = prevFn
	c.scopeName, c.scopeLevel, c.maxOffset = prevScope, prevLevel, prevOffset
	return nil
}

// functionEpilogueLabel names the per-function jump target `return`
// statements use to reach the shared prologue teardown.
func (c *Compiler) functionEpilogueLabel() string {
	return ".sinl_epilogue_" + c.scopeName
}

// mainEntryLabel is the compiled body `%[SIN_MAIN]` calls into once
// the translation-unit entry wrapper has finished setup.
func (c *Compiler) mainEntryLabel() string {
	return "sinl_user_main"
}

// EmitMainWrapper emits the translation-unit-level entry point,
// `%[SIN_MAIN]`, if this unit defined `main`. It preserves argc/argv,
// initializes the SRE, builds the `dynamic array<string>` argument
// SINCALL expects in its first integer register, calls the compiled
// `main` body, tears the SRE down, and exits with main's return value.
// Reports whether it emitted anything.
func (c *Compiler) EmitMainWrapper() bool {
	fn, err := c.Symbols.FindFunction("main", "global")
	if err != nil || !fn.Defined {
		return false
	}

	c.emitLabel(c.macro("SIN_MAIN"))
	c.emit("push rdi") // argc
	c.emit("push rsi") // argv
	c.callSRE(sreInit)

	// Build the dynamic array<string> from argv: element count in rdi,
	// element width (8, a managed string pointer) in rsi.
	c.emit("mov rdi, [rsp+8]") // argc
	c.emit("mov rsi, 8")
	c.callSRE(sreDynArrayAlloc)
	c.emit("mov rbx, rax") // rbx: the new array's base address

	c.emit("xor rcx, rcx")
	loop := c.nextLabel(".sinl_main_argv", &c.counters.main)
	done := loop + "_done"
	c.emitLabel(loop)
	c.emit("cmp rcx, [rsp+8]")
	c.emit("jge %s", done)
	c.emit("mov rdx, [rsp]") // argv
	c.emit("mov rdx, [rdx+rcx*8]")
	c.emit("mov [rbx+rcx*8], rdx")
	c.emit("inc rcx")
	c.emit("jmp %s", loop)
	c.emitLabel(done)

	c.emit("mov %s, rbx", reg.Name(callconv.IntArgRegs[0], 8))
	c.emit("call %s", c.mainEntryLabel())
	c.emit("push rax") // main's return value, kept across SRE_CLEAN
	c.callSRE(sreClean)
	c.emit("pop rax")
	c.emit("add rsp, 16")
	c.emit("ret")
	return true
}

// compileStructDefinition compiles a struct declare/define
// statement: members compute offsets via StructTable.Define, and methods
// compile as ordinary functions scoped to the struct's name, with
// `currentStruct` set so compileFunctionDefinition can synthesize
// `this`. Nesting a struct definition inside a function body is
// illegal.
func (c *Compiler) compileStructDefinition(sd *ast.StructDefinition) error {
	if c.scopeName != "global" {
		return sinerr.New(sd.Line(), sinerr.IllegalOperation, "struct %q cannot be defined inside a function body", sd.Name)
	}
	if err := c.Structs.Declare(sd.Name, sd.Line()); err != nil {
		return err
	}

	var members []*symtab.Symbol
	var methods []*ast.FunctionDefinition
	for _, m := range sd.Members {
		if m.Alloc != nil {
			members = append(members, symtab.NewSymbol(m.Alloc.Name, sd.Name, 0, m.Alloc.Type, 0, m.Alloc.Line()))
		} else if m.Method != nil {
			methods = append(methods, m.Method)
		}
	}

	for i := range members {
		members[i].Type.ResolveWidth(c.Structs.Width)
	}
	if _, err := c.Structs.Define(sd.Name, members, nil, sd.Line()); err != nil {
		return err
	}

	prevStruct := c.currentStruct
	c.currentStruct = sd.Name
	for _, m := range methods {
		if err := c.compileFunctionDefinition(m); err != nil {
			return err
		}
	}
	c.currentStruct = prevStruct
	return nil
}
