package symtab

import (
	"fmt"

	"github.com/rlannon/sinc/internal/sinerr"
	"github.com/rlannon/sinc/internal/types"
)

// localEntry is one insertion-order stack entry for a local symbol.
type localEntry struct {
	name       string
	scopeName  string
	scopeLevel uint
}

// Table is the symbol table: a mapping from mangled name to symbol, plus
// the insertion-order stack used to discard locals on scope exit.
type Table struct {
	symbols   map[string]*Symbol
	functions map[string]*FunctionSymbol
	locals    []localEntry
}

// NewTable returns an empty symbol table.
func NewTable() *Table {
	return &Table{symbols: make(map[string]*Symbol), functions: make(map[string]*FunctionSymbol)}
}

// InsertFunction adds fn under its mangled (or, for extern/SINCALL-C64
// boundary functions, raw) name, per the same duplicate-definition rules
// Insert applies to variables.
func (t *Table) InsertFunction(fn *FunctionSymbol, extern bool) (*FunctionSymbol, error) {
	mangled := fn.Name
	if !extern {
		mangled = Mangle(fn.Name, fn.ScopeName)
	}
	fn.Kind = KindFunction

	if existing, ok := t.functions[mangled]; ok {
		if !existing.Defined && fn.Defined {
			existing.Defined = true
			existing.Formals = fn.Formals
			existing.ArgLocs = fn.ArgLocs
			return existing, nil
		}
		return nil, sinerr.New(fn.Line, sinerr.DuplicateDefinition, "function %q already defined", fn.Name)
	}

	fn.setMangledName(mangled)
	t.functions[mangled] = fn
	return fn, nil
}

// FindFunction looks up a function by its mangled form, falling back to
// the raw name (e.g. an extern C64 entry point).
func (t *Table) FindFunction(name, scopeName string) (*FunctionSymbol, error) {
	if f, ok := t.functions[Mangle(name, scopeName)]; ok {
		return f, nil
	}
	if f, ok := t.functions[name]; ok {
		return f, nil
	}
	return nil, sinerr.New(0, sinerr.SymbolNotFound, "function %q not found", name)
}

// Mangle produces the mangled form of a name: "SIN_<name>" at global
// scope, "SIN_<scope>_<name>" within a named scope.
func Mangle(name, scopeName string) string {
	if scopeName == "" || scopeName == "global" {
		return "SIN_" + name
	}
	return "SIN_" + scopeName + "_" + name
}

// Insert adds sym to the table. If the name already exists as an
// undefined declaration and sym is a definition, the prior entry is
// marked defined and returned; otherwise a duplicate-symbol (variable)
// or duplicate-definition (function) error is raised.
func (t *Table) Insert(sym *Symbol, extern bool) (*Symbol, error) {
	mangled := sym.Name
	if !extern {
		mangled = Mangle(sym.Name, sym.ScopeName)
	}

	if existing, ok := t.symbols[mangled]; ok {
		if !existing.Defined && sym.Defined {
			existing.Defined = true
			existing.Initialized = sym.Initialized
			return existing, nil
		}
		code := sinerr.DuplicateSymbol
		if sym.Kind == KindFunction {
			code = sinerr.DuplicateDefinition
		}
		return nil, sinerr.New(sym.Line, code, "symbol %q already defined in scope %q", sym.Name, sym.ScopeName)
	}

	sym.setMangledName(mangled)
	t.symbols[mangled] = sym
	t.locals = append(t.locals, localEntry{sym.Name, sym.ScopeName, sym.ScopeLevel})
	return sym, nil
}

// Find tries the mangled form first, then the raw form, so an extern
// (stored under its raw name) still resolves by its plain identifier.
func (t *Table) Find(name, scopeName string) (*Symbol, error) {
	if s, ok := t.symbols[Mangle(name, scopeName)]; ok {
		return s, nil
	}
	if s, ok := t.symbols[name]; ok {
		return s, nil
	}
	return nil, sinerr.New(0, sinerr.SymbolNotFound, "symbol %q not found", name)
}

// Contains reports whether name (mangled or raw) is already bound.
func (t *Table) Contains(name, scopeName string) bool {
	_, err := t.Find(name, scopeName)
	return err == nil
}

// LeaveScope pops entries from the insertion stack while their
// (scope, level) match, summing the reclaimed storage width. Global
// symbols are never reclaimed.
func (t *Table) LeaveScope(scopeName string, level uint) int {
	width := 0
	for len(t.locals) > 0 {
		top := t.locals[len(t.locals)-1]
		if top.scopeLevel != level || top.scopeName != scopeName {
			break
		}
		t.locals = t.locals[:len(t.locals)-1]
		if top.scopeName == "global" {
			continue
		}
		mangled := Mangle(top.name, top.scopeName)
		if sym, ok := t.symbols[mangled]; ok {
			width += slotWidth(sym.Type)
			delete(t.symbols, mangled)
		}
	}
	return width
}

// slotWidth mirrors the minimum-8-byte stack slot every automatic local
// reserves, so a reclaimed scope's width matches what was actually
// subtracted from RSP when its locals were allocated.
func slotWidth(t types.DataType) int {
	if w := t.Width(); w >= 8 {
		return w
	}
	return 8
}

// SymbolsToFree collects, in reverse insertion order, the locals
// requiring an RC decrement on scope exit: those whose type's MustFree
// reports true. When isFunction is true, the selection walks every
// level at or above level through the whole function body, matching
// get_symbols_to_free's is_function branch.
func (t *Table) SymbolsToFree(scopeName string, level uint, isFunction bool) []*Symbol {
	var out []*Symbol
	for i := len(t.locals) - 1; i >= 0; i-- {
		e := t.locals[i]
		match := false
		if isFunction {
			match = e.scopeLevel >= level
		} else {
			match = e.scopeLevel == level && e.scopeName == scopeName
		}
		if !match {
			break
		}
		if sym, ok := t.symbols[Mangle(e.name, e.scopeName)]; ok {
			if sym.Type.MustFree() {
				out = append(out, sym)
			}
		}
	}
	return out
}

// GetAllSymbols returns every symbol currently bound, in no particular
// order.
func (t *Table) GetAllSymbols() []*Symbol {
	out := make([]*Symbol, 0, len(t.symbols))
	for _, s := range t.symbols {
		out = append(out, s)
	}
	return out
}

// GetLocalStructs returns struct-typed locals defined within scopeName
// at scopeLevel (or, when isFunction, anywhere in the enclosing
// function).
func (t *Table) GetLocalStructs(scopeName string, level uint, isFunction bool) []*Symbol {
	var out []*Symbol
	for i := len(t.locals) - 1; i >= 0; i-- {
		e := t.locals[i]
		match := false
		if isFunction {
			match = e.scopeLevel >= level
		} else {
			match = e.scopeLevel == level && e.scopeName == scopeName
		}
		if !match {
			break
		}
		if sym, ok := t.symbols[Mangle(e.name, e.scopeName)]; ok && sym.Type.Primary == types.STRUCT {
			out = append(out, sym)
		}
	}
	return out
}

// StructTable maps struct name to its layout information.
type StructTable struct {
	structs map[string]*StructInfo
}

// NewStructTable returns an empty struct table.
func NewStructTable() *StructTable {
	return &StructTable{structs: make(map[string]*StructInfo)}
}

// Declare inserts a forward declaration. Re-declaring after a completed
// (width-known) entry is an error.
func (st *StructTable) Declare(name string, line int) error {
	if existing, ok := st.structs[name]; ok && existing.WidthKnown {
		return sinerr.New(line, sinerr.DuplicateDefinition, "struct %q already defined", name)
	}
	if _, ok := st.structs[name]; !ok {
		st.structs[name] = NewForwardDeclared(name, line)
	}
	return nil
}

// Define completes a struct's layout. Redefinition after a completed
// entry is an error.
func (st *StructTable) Define(name string, members []*Symbol, methods []*FunctionSymbol, line int) (*StructInfo, error) {
	info, ok := st.structs[name]
	if ok && info.WidthKnown {
		return nil, sinerr.New(line, sinerr.DuplicateDefinition, "struct %q already defined", name)
	}
	if !ok {
		info = NewForwardDeclared(name, line)
		st.structs[name] = info
	}
	info.Define(members)
	info.Methods = methods
	return info, nil
}

// Find looks up a struct by name.
func (st *StructTable) Find(name string) (*StructInfo, bool) {
	s, ok := st.structs[name]
	return s, ok
}

// Width is a convenience adapter satisfying types.DataType.ResolveWidth's
// structWidth callback signature.
func (st *StructTable) Width(name string) (int, bool) {
	s, ok := st.structs[name]
	if !ok || !s.WidthKnown {
		return 0, false
	}
	return s.Width, true
}

func (st *StructTable) String() string {
	return fmt.Sprintf("StructTable(%d structs)", len(st.structs))
}
