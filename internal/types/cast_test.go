package types

import "testing"

func TestCastClassification(t *testing.T) {
	cases := []struct {
		name      string
		old, new  DataType
		wantOp    CastOp
		wantNarr  bool
		wantError bool
	}{
		{"int to bool", New(INT, NewQualities()), New(BOOL, NewQualities()), CastIntToBool, false, false},
		{"int to int", New(INT, NewQualities()), New(INT, NewQualities(Long)), CastIntToInt, false, false},
		{"long int to short float narrows", New(INT, NewQualities(Long)), New(FLOAT, NewQualities(Short)), CastIntToFloat, true, false},
		{"bool to int", New(BOOL, NewQualities()), New(INT, NewQualities()), CastBoolToInt, false, false},
		{"float to int narrows", New(FLOAT, NewQualities()), New(INT, NewQualities()), CastFloatToInt, true, false},
		{"double to float narrows", New(FLOAT, NewQualities(Long)), New(FLOAT, NewQualities()), CastFloatToFloat, true, false},
		{"char same width", New(CHAR, NewQualities()), New(CHAR, NewQualities()), CastCharToChar, false, false},
		{"cannot cast to string", New(INT, NewQualities()), New(STRING, NewQualities()), CastInvalid, false, true},
		{"cannot cast from array", NewArray(New(INT, NewQualities()), 1, NewQualities()), New(INT, NewQualities()), CastInvalid, false, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			op, narrowing, err := Cast(c.old, c.new)
			if c.wantError {
				if err == nil {
					t.Fatalf("want error, got nil (op=%v)", op)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if op != c.wantOp {
				t.Errorf("op = %v, want %v", op, c.wantOp)
			}
			if narrowing != c.wantNarr {
				t.Errorf("narrowing = %v, want %v", narrowing, c.wantNarr)
			}
		})
	}
}

func TestSameWidthRecastOnlyAppliesToDifferentWidthFloats(t *testing.T) {
	f32 := New(FLOAT, NewQualities())
	f64 := New(FLOAT, NewQualities(Long))
	if !SameWidthRecast(f32, f64) {
		t.Errorf("want a float-to-double recast to be detected")
	}
	if SameWidthRecast(f32, f32) {
		t.Errorf("want same-width float to float not to be a recast")
	}
	if SameWidthRecast(New(INT, NewQualities()), f64) {
		t.Errorf("want a non-float operand to never be a recast")
	}
}
