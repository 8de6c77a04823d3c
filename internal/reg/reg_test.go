package reg

import (
	"testing"

	"golang.org/x/arch/x86/x86asm"
)

func TestGetAvailableFollowsFixedOrder(t *testing.T) {
	f := New()
	r, ok := f.GetAvailable(ClassInt)
	if !ok || r != x86asm.RAX {
		t.Fatalf("first available int register = %v, %v; want RAX, true", r, ok)
	}
	f.Set(x86asm.RAX, nil)
	r, ok = f.GetAvailable(ClassInt)
	if !ok || r != x86asm.RBX {
		t.Fatalf("next available int register = %v, %v; want RBX, true", r, ok)
	}
}

func TestSetClearRoundTrip(t *testing.T) {
	f := New()
	if f.IsInUse(x86asm.RCX) {
		t.Fatalf("RCX should start free")
	}
	f.Set(x86asm.RCX, nil)
	if !f.IsInUse(x86asm.RCX) {
		t.Fatalf("RCX should be in use after Set")
	}
	if !f.WasUsed(x86asm.RCX) {
		t.Fatalf("WasUsed should be true after Set")
	}
	f.Clear(x86asm.RCX)
	if f.IsInUse(x86asm.RCX) {
		t.Fatalf("RCX should be free after Clear")
	}
	if !f.WasUsed(x86asm.RCX) {
		t.Fatalf("WasUsed should remain true once set, regardless of Clear")
	}
}

func TestGetAvailableExhaustion(t *testing.T) {
	f := New()
	for {
		r, ok := f.GetAvailable(ClassFloat)
		if !ok {
			break
		}
		f.Set(r, nil)
	}
	if _, ok := f.GetAvailable(ClassFloat); ok {
		t.Fatalf("want no float registers available once all 8 are in use")
	}
}

func TestNameWidths(t *testing.T) {
	cases := []struct {
		r     x86asm.Reg
		width int
		want  string
	}{
		{x86asm.RAX, 8, "rax"},
		{x86asm.RAX, 4, "eax"},
		{x86asm.RAX, 2, "ax"},
		{x86asm.RAX, 1, "al"},
		{x86asm.R8, 8, "r8"},
		{x86asm.R8, 1, "r8b"},
		{x86asm.X0, 8, "xmm0"},
		{x86asm.X0, 1, "xmm0"},
	}
	for _, c := range cases {
		if got := Name(c.r, c.width); got != c.want {
			t.Errorf("Name(%v, %d) = %q, want %q", c.r, c.width, got, c.want)
		}
	}
}

func TestIsFloat(t *testing.T) {
	if !IsFloat(x86asm.X3) {
		t.Errorf("X3 should be classified as float")
	}
	if IsFloat(x86asm.RAX) {
		t.Errorf("RAX should not be classified as float")
	}
}
