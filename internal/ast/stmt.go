package ast

import "github.com/rlannon/sinc/internal/types"

// Include is a source inclusion, valid only at global scope before any
// other statement.
type Include struct {
	baseStmt
	Path string
}

// Declaration declares a symbol without allocating/initializing it
// (used for `extern` declarations pulled in via Include, and for
// forward declarations).
type Declaration struct {
	baseStmt
	Name   string
	Type   types.DataType
	Extern bool
}

// Allocation introduces a new local or global symbol, with an optional
// initializer expression (the alloc-init form required for const,
// final, and ref<T>).
type Allocation struct {
	baseStmt
	Name        string
	Type        types.DataType
	Initializer Expr // nil if uninitialized
}

// Assignment is `lhs = rhs`.
type Assignment struct {
	baseStmt
	LHS Expr
	RHS Expr
}

// Movement is `lhs -> rhs` (move assignment).
type Movement struct {
	baseStmt
	LHS Expr
	RHS Expr
}

// ConstructionInit is one `member: expr` pair within a Construction
// statement, or the sentinel `default` initializer.
type ConstructionInit struct {
	Member  string
	Value   Expr
	Default bool
}

// Construction initializes a struct instance's members.
type Construction struct {
	baseStmt
	Target  Expr
	Struct  string
	Inits   []ConstructionInit
}

// Return is a return statement; Value is nil for a void return.
type Return struct {
	baseStmt
	Value Expr
}

// IfThenElse is a conditional statement; Else may be nil.
type IfThenElse struct {
	baseStmt
	Condition Expr
	Then      *ScopedBlock
	Else      *ScopedBlock
}

// WhileLoop is a pretest loop.
type WhileLoop struct {
	baseStmt
	Condition Expr
	Body      *ScopedBlock
}

// Param is one formal parameter in a FunctionDefinition.
type Param struct {
	Name    string
	Type    types.DataType
	Default Expr // nil if no default value
}

// FunctionDefinition defines or (if Body is nil) declares a function.
type FunctionDefinition struct {
	baseStmt
	Name       string
	Params     []Param
	ReturnType types.DataType
	Body       *ScopedBlock // nil for a declaration-only form
	Extern     bool
	IsStatic   bool // true for a static struct method
}

// StructMember is either a data member (Alloc != nil) or a method
// (Method != nil) within a StructDefinition's body.
type StructMember struct {
	Alloc  *Allocation
	Method *FunctionDefinition
}

// StructDefinition defines a struct's members and methods.
type StructDefinition struct {
	baseStmt
	Name    string
	Members []StructMember
}

// Call is a statement-level (non-value-returning-in-context) function
// call, `@name(args)`.
type Call struct {
	baseStmt
	Name string
	Args []Expr
}

// InlineAssembly is a verbatim assembly passthrough block.
type InlineAssembly struct {
	baseStmt
	Body string
}

// Free is an explicit early release of a managed value.
type Free struct {
	baseStmt
	Target Expr
}

// ScopedBlock is a `{ ... }` statement sequence introducing a new scope
// level.
type ScopedBlock struct {
	baseStmt
	Statements []Stmt
}
