package symtab

// StructInfo describes a struct's layout: its ordered members (each with
// a computed offset), total width, and whether that width is known yet
// (false for a forward-declared struct).
type StructInfo struct {
	Name    string
	Members []*Symbol // offsets recorded via Symbol.StackOffset, reused here as the member's byte offset
	Methods []*FunctionSymbol

	Width      int
	WidthKnown bool

	Line int
}

// Member looks up a member by name.
func (s *StructInfo) Member(name string) (*Symbol, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// NewForwardDeclared returns a width-unknown placeholder, inserted the
// first time a struct name is referenced before its definition.
func NewForwardDeclared(name string, line int) *StructInfo {
	return &StructInfo{Name: name, Line: line}
}

// Define computes member offsets in source order and fills in the
// struct's total width. Each member's StackOffset is overwritten with
// its offset within the struct (not a stack offset - structs are never
// allocated directly on a stack frame of their own).
func (s *StructInfo) Define(members []*Symbol) {
	offset := 0
	for _, m := range members {
		m.StackOffset = offset
		offset += m.Type.Width()
	}
	s.Members = members
	s.Width = offset
	s.WidthKnown = true
}
