package symtab

import (
	"testing"

	"github.com/rlannon/sinc/internal/types"
)

func TestMangle(t *testing.T) {
	cases := []struct {
		name, scope, want string
	}{
		{"x", "global", "SIN_x"},
		{"x", "", "SIN_x"},
		{"x", "main", "SIN_main_x"},
	}
	for _, c := range cases {
		if got := Mangle(c.name, c.scope); got != c.want {
			t.Errorf("Mangle(%q, %q) = %q, want %q", c.name, c.scope, got, c.want)
		}
	}
}

func TestInsertAndFind(t *testing.T) {
	tbl := NewTable()
	sym := NewSymbol("x", "global", 0, types.New(types.INT, types.NewQualities()), 8, 1)
	if _, err := tbl.Insert(sym, false); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	found, err := tbl.Find("x", "global")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found != sym {
		t.Errorf("Find returned a different symbol than was inserted")
	}
}

func TestInsertDuplicateIsAnError(t *testing.T) {
	tbl := NewTable()
	a := NewSymbol("x", "global", 0, types.New(types.INT, types.NewQualities()), 8, 1)
	a.Defined = true
	b := NewSymbol("x", "global", 0, types.New(types.INT, types.NewQualities()), 16, 2)
	b.Defined = true
	if _, err := tbl.Insert(a, false); err != nil {
		t.Fatalf("Insert a: %v", err)
	}
	if _, err := tbl.Insert(b, false); err == nil {
		t.Fatalf("want a duplicate-symbol error inserting b")
	}
}

func TestInsertReconcilesForwardDeclaration(t *testing.T) {
	tbl := NewTable()
	decl := NewSymbol("x", "global", 0, types.New(types.INT, types.NewQualities()), 8, 1)
	def := NewSymbol("x", "global", 0, types.New(types.INT, types.NewQualities()), 8, 2)
	def.Defined = true
	def.Initialized = true

	if _, err := tbl.Insert(decl, false); err != nil {
		t.Fatalf("Insert decl: %v", err)
	}
	got, err := tbl.Insert(def, false)
	if err != nil {
		t.Fatalf("Insert def: %v", err)
	}
	if got != decl {
		t.Errorf("want the original declaration's identity reused, not replaced")
	}
	if !decl.Defined || !decl.Initialized {
		t.Errorf("want the original declaration updated in place")
	}
}

func TestFindFunctionFallsBackToRawNameForExtern(t *testing.T) {
	tbl := NewTable()
	fn := &FunctionSymbol{Symbol: Symbol{Name: "puts", ScopeName: "global", Type: types.New(types.INT, types.NewQualities())}}
	if _, err := tbl.InsertFunction(fn, true); err != nil {
		t.Fatalf("InsertFunction: %v", err)
	}
	got, err := tbl.FindFunction("puts", "global")
	if err != nil {
		t.Fatalf("FindFunction: %v", err)
	}
	if got != fn {
		t.Errorf("want the extern function found by its raw name")
	}
}

func TestLeaveScopeDiscardsOnlyMatchingLevel(t *testing.T) {
	tbl := NewTable()
	inner := NewSymbol("y", "f", 2, types.New(types.INT, types.NewQualities()), 8, 1)
	outer := NewSymbol("x", "f", 1, types.New(types.INT, types.NewQualities()), 16, 1)
	if _, err := tbl.Insert(outer, false); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Insert(inner, false); err != nil {
		t.Fatal(err)
	}

	tbl.LeaveScope("f", 2)
	if tbl.Contains("y", "f") {
		t.Errorf("want the level-2 local discarded")
	}
	if !tbl.Contains("x", "f") {
		t.Errorf("want the level-1 local to survive leaving level 2")
	}
}

func TestSymbolsToFreeOnlyCollectsManagedTypesInReverseOrder(t *testing.T) {
	tbl := NewTable()
	a := NewSymbol("a", "f", 1, types.New(types.STRING, types.NewQualities()), 8, 1)
	b := NewSymbol("b", "f", 1, types.New(types.INT, types.NewQualities()), 16, 1)
	c := NewSymbol("c", "f", 1, types.New(types.STRING, types.NewQualities()), 24, 1)
	for _, s := range []*Symbol{a, b, c} {
		if _, err := tbl.Insert(s, false); err != nil {
			t.Fatal(err)
		}
	}

	got := tbl.SymbolsToFree("f", 1, false)
	if len(got) != 2 {
		t.Fatalf("want 2 managed symbols, got %d", len(got))
	}
	if got[0].Name != "c" || got[1].Name != "a" {
		t.Errorf("want reverse insertion order [c, a], got [%s, %s]", got[0].Name, got[1].Name)
	}
}
