package callconv

import (
	"testing"

	"github.com/rlannon/sinc/internal/symtab"
	"github.com/rlannon/sinc/internal/types"
)

func formal(name string, t types.DataType) *symtab.Symbol {
	return symtab.NewSymbol(name, "f", 1, t, 0, 1)
}

func TestClassifyAssignsIntAndFloatRegsIndependently(t *testing.T) {
	formals := []*symtab.Symbol{
		formal("a", types.New(types.INT, types.NewQualities())),
		formal("b", types.New(types.FLOAT, types.NewQualities())),
		formal("c", types.New(types.INT, types.NewQualities())),
	}
	locs := Classify(formals, 16)

	if !locs[0].HasReg || locs[0].Reg != IntArgRegs[0] {
		t.Errorf("first int formal should get %v, got %+v", IntArgRegs[0], locs[0])
	}
	if !locs[1].HasReg || locs[1].Reg != FloatArgRegs[0] {
		t.Errorf("float formal should get %v independent of int count, got %+v", FloatArgRegs[0], locs[1])
	}
	if !locs[2].HasReg || locs[2].Reg != IntArgRegs[1] {
		t.Errorf("second int formal should get %v, got %+v", IntArgRegs[1], locs[2])
	}
}

func TestClassifySpillsExcessArgumentsToStack(t *testing.T) {
	var formals []*symtab.Symbol
	for i := 0; i < len(IntArgRegs)+2; i++ {
		formals = append(formals, formal("p", types.New(types.INT, types.NewQualities())))
	}
	locs := Classify(formals, 16)

	for i := 0; i < len(IntArgRegs); i++ {
		if !locs[i].HasReg {
			t.Fatalf("formal %d should still be in a register", i)
		}
	}
	spilled := locs[len(IntArgRegs):]
	for _, l := range spilled {
		if l.HasReg {
			t.Fatalf("want spilled formals to have no register, got %+v", l)
		}
	}
	// Last parameter spills to the slot nearest the base offset.
	if spilled[len(spilled)-1].StackSlot != 16 {
		t.Errorf("want the last formal nearest baseOffset, got slot %d", spilled[len(spilled)-1].StackSlot)
	}
}

func TestClassifyArrayFormalPassedByPointer(t *testing.T) {
	arr := types.NewArray(types.New(types.INT, types.NewQualities()), 4, types.NewQualities())
	locs := Classify([]*symtab.Symbol{formal("xs", arr)}, 16)
	if !locs[0].HasReg {
		t.Fatalf("want the array formal still assigned a register slot to hold its address")
	}
	if !locs[0].ByPointer {
		t.Errorf("want an array formal passed by pointer")
	}
}

func TestReturnLocationVoidIsByRegisterNoOp(t *testing.T) {
	useFloat, byReg := ReturnLocation(types.New(types.VOID, types.NewQualities()))
	if useFloat {
		t.Errorf("void should not use the float return register")
	}
	if !byReg {
		t.Errorf("void should report byRegister=true (nothing to write through a pointer)")
	}
}

func TestReturnLocationFloatUsesXMM0(t *testing.T) {
	useFloat, byReg := ReturnLocation(types.New(types.FLOAT, types.NewQualities()))
	if !useFloat || !byReg {
		t.Errorf("float return should be (useFloatReg=true, byRegister=true), got (%v, %v)", useFloat, byReg)
	}
}

func TestReturnLocationStructIsByPointer(t *testing.T) {
	_, byReg := ReturnLocation(types.NewStruct("Big", types.NewQualities()))
	if byReg {
		t.Errorf("a struct return should not be reported as passed by register")
	}
}
