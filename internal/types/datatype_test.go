package types

import "testing"

func TestWidths(t *testing.T) {
	cases := []struct {
		name string
		t    DataType
		want int
	}{
		{"bool", New(BOOL, NewQualities()), WidthBool},
		{"char", New(CHAR, NewQualities()), WidthChar},
		{"int default signed", New(INT, NewQualities()), WidthInt},
		{"long int", New(INT, NewQualities(Long)), WidthLong},
		{"short int", New(INT, NewQualities(Short)), WidthShort},
		{"float default", New(FLOAT, NewQualities()), WidthFloat},
		{"double (long float)", New(FLOAT, NewQualities(Long)), WidthDouble},
		{"half (short float)", New(FLOAT, NewQualities(Short)), WidthHalf},
		{"string", New(STRING, NewQualities()), WidthPtr},
		{"dynamic int forces pointer width", New(INT, NewQualities(Dynamic)), WidthPtr},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if !c.t.WidthKnown() {
				t.Fatalf("width not known")
			}
			if got := c.t.Width(); got != c.want {
				t.Errorf("Width() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestArrayWidthDeferredUntilSubtypeKnown(t *testing.T) {
	forward := NewStruct("Point", NewQualities())
	arr := NewArray(forward, 4, NewQualities())
	if arr.WidthKnown() {
		t.Fatalf("expected array width to be unresolved before the struct is defined")
	}

	arr.ResolveWidth(func(name string) (int, bool) {
		if name == "Point" {
			return 8, true
		}
		return 0, false
	})
	if !arr.WidthKnown() {
		t.Fatalf("expected array width to resolve once the struct width is known")
	}
	if want := 4 + 4*8; arr.Width() != want {
		t.Errorf("Width() = %d, want %d", arr.Width(), want)
	}
}

func TestIsReferenceType(t *testing.T) {
	cases := []struct {
		name string
		t    DataType
		want bool
	}{
		{"int", New(INT, NewQualities()), false},
		{"string", New(STRING, NewQualities()), true},
		{"struct", NewStruct("Foo", NewQualities()), true},
		{"dynamic int", New(INT, NewQualities(Dynamic)), true},
		{"ptr", NewPtr(PTR, New(INT, NewQualities()), NewQualities()), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.t.IsReferenceType(); got != c.want {
				t.Errorf("IsReferenceType() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestMustFreeUnmanagedPointerIsExempt(t *testing.T) {
	q := NewQualities()
	q.ClearManaged()
	raw := NewPtr(PTR, New(INT, NewQualities()), q)
	if raw.MustFree() {
		t.Errorf("an explicitly unmanaged pointer should not require a free")
	}

	managed := NewPtr(PTR, New(INT, NewQualities()), NewQualities())
	if !managed.MustFree() {
		t.Errorf("a managed pointer should require a free")
	}
}

func TestMustFreePropagatesThroughContainers(t *testing.T) {
	str := New(STRING, NewQualities())
	tup := NewTuple([]DataType{New(INT, NewQualities()), str}, NewQualities())
	if !tup.MustFree() {
		t.Errorf("a tuple containing a managed string should require a free")
	}

	arr := NewArray(str, 3, NewQualities())
	if !arr.MustFree() {
		t.Errorf("an array of managed strings should require a free")
	}
}
