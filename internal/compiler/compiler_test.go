package compiler

import (
	"strings"
	"testing"

	"github.com/rlannon/sinc/internal/ast"
	"github.com/rlannon/sinc/internal/types"
)

func newTestCompiler() *Compiler {
	return New(NewSections())
}

func intLit(n string) *ast.Literal {
	return &ast.Literal{Kind: ast.LitInt, Value: n}
}

func TestCompileGlobalAllocationWithInitializer(t *testing.T) {
	c := newTestCompiler()
	alloc := &ast.Allocation{
		Name:        "x",
		Type:        types.New(types.INT, types.NewQualities()),
		Initializer: intLit("5"),
	}
	if err := c.compileStatement(alloc); err != nil {
		t.Fatalf("compileStatement: %v", err)
	}

	sym, err := c.Symbols.Find("x", "global")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !sym.Initialized {
		t.Errorf("want x marked initialized")
	}
	if !strings.Contains(c.sections.Bss.String(), "SIN_x: resb") {
		t.Errorf(".bss should reserve storage for the global; got %q", c.sections.Bss.String())
	}
	if !strings.Contains(c.sections.Text.String(), "mov [SIN_x], eax") {
		t.Errorf("text should store the initializer into the global; got %q", c.sections.Text.String())
	}
}

func TestCompileLocalAllocationUsesStackSlot(t *testing.T) {
	c := newTestCompiler()
	c.scopeName = "f"
	c.scopeLevel = 1
	alloc := &ast.Allocation{
		Name:        "x",
		Type:        types.New(types.INT, types.NewQualities()),
		Initializer: intLit("1"),
	}
	if err := c.compileStatement(alloc); err != nil {
		t.Fatalf("compileStatement: %v", err)
	}
	sym, err := c.Symbols.Find("x", "f")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if sym.StackOffset == 0 {
		t.Errorf("want a nonzero stack offset for a local allocation")
	}
	if strings.Contains(c.sections.Bss.String(), "SIN_") {
		t.Errorf("a local allocation should not reserve .bss storage")
	}
}

func TestConstAllocationWithoutInitializerIsAnError(t *testing.T) {
	c := newTestCompiler()
	alloc := &ast.Allocation{
		Name: "x",
		Type: types.New(types.INT, types.NewQualities(types.Const)),
	}
	if err := c.compileStatement(alloc); err == nil {
		t.Fatalf("want an error for a const allocation with no initializer")
	}
}

func TestAssignmentAllowsFirstButRejectsSecondAssignmentToFinal(t *testing.T) {
	c := newTestCompiler()
	// A bare declaration (as an extern boundary would produce) carries no
	// initializer and leaves Initialized false, unlike an Allocation of a
	// final value, which must be initialized at the point of declaration.
	decl := &ast.Declaration{Name: "x", Type: types.New(types.INT, types.NewQualities(types.Final))}
	if err := c.compileStatement(decl); err != nil {
		t.Fatalf("compileStatement decl: %v", err)
	}
	// First assignment to an uninitialized final is allowed.
	assign1 := &ast.Assignment{LHS: &ast.Identifier{Name: "x"}, RHS: intLit("1")}
	if err := c.compileStatement(assign1); err != nil {
		t.Fatalf("first assignment to final: %v", err)
	}
	// A second assignment to an already-initialized final must fail.
	assign2 := &ast.Assignment{LHS: &ast.Identifier{Name: "x"}, RHS: intLit("2")}
	if err := c.compileStatement(assign2); err == nil {
		t.Fatalf("want an error re-assigning an already-initialized final")
	}
}

func TestReturnOutsideFunctionIsAnError(t *testing.T) {
	c := newTestCompiler()
	if err := c.compileStatement(&ast.Return{Value: intLit("0")}); err == nil {
		t.Fatalf("want an error for a return statement outside a function")
	}
}

func TestCompileSimpleFunctionEmitsPrologueAndEpilogue(t *testing.T) {
	c := newTestCompiler()
	fd := &ast.FunctionDefinition{
		Name:       "f",
		ReturnType: types.New(types.INT, types.NewQualities()),
		Body: &ast.ScopedBlock{
			Statements: []ast.Stmt{
				&ast.Return{Value: intLit("42")},
			},
		},
	}
	if err := c.compileStatement(fd); err != nil {
		t.Fatalf("compileStatement: %v", err)
	}

	text := c.sections.Text.String()
	if !strings.Contains(text, "SIN_f:") {
		t.Errorf("want the mangled function label emitted; got %q", text)
	}
	if !strings.Contains(text, "push rbp") || !strings.Contains(text, "pop rbp") {
		t.Errorf("want a standard prologue/epilogue; got %q", text)
	}
	if !strings.Contains(text, ".sinl_epilogue_f:") {
		t.Errorf("want the function's epilogue label emitted; got %q", text)
	}

	fn, err := c.Symbols.FindFunction("f", "global")
	if err != nil {
		t.Fatalf("FindFunction: %v", err)
	}
	if !fn.Defined {
		t.Errorf("want f marked as defined after compiling its body")
	}
}

func TestMainWithWrongSignatureIsAnError(t *testing.T) {
	c := newTestCompiler()
	fd := &ast.FunctionDefinition{
		Name:       "main",
		ReturnType: types.New(types.VOID, types.NewQualities()),
		Body:       &ast.ScopedBlock{},
	}
	if err := c.compileStatement(fd); err == nil {
		t.Fatalf("want an error for a main with the wrong signature")
	}
}

func TestEmitMainWrapperNoOpWithoutMain(t *testing.T) {
	c := newTestCompiler()
	if c.EmitMainWrapper() {
		t.Errorf("want EmitMainWrapper to report false when no main was defined")
	}
}

func TestEmitMainWrapperEmitsSINMainLabel(t *testing.T) {
	c := newTestCompiler()
	fd := &ast.FunctionDefinition{
		Name:       "main",
		ReturnType: types.New(types.INT, types.NewQualities()),
		Params: []ast.Param{
			{Name: "args", Type: types.NewArray(types.New(types.STRING, types.NewQualities()), 0, types.NewQualities(types.Dynamic))},
		},
		Body: &ast.ScopedBlock{Statements: []ast.Stmt{&ast.Return{Value: intLit("0")}}},
	}
	if err := c.compileStatement(fd); err != nil {
		t.Fatalf("compileStatement: %v", err)
	}
	if !c.EmitMainWrapper() {
		t.Fatalf("want EmitMainWrapper to report true once main is defined")
	}
	if !strings.Contains(c.sections.Text.String(), "%[SIN_MAIN]:") {
		t.Errorf("want the public entry label emitted")
	}
	if !c.sections.Externs["SIN_MAIN"] {
		t.Errorf("want SIN_MAIN recorded as an extern-worthy macro reference")
	}
}
