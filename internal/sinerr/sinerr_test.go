package sinerr

import (
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeNormal, false},
		{"normal", ModeNormal, false},
		{"lax", ModeLax, false},
		{"strict", ModeStrict, false},
		{"bogus", ModeNormal, true},
	}
	for _, c := range cases {
		got, err := ParseMode(c.in)
		if c.wantErr != (err != nil) {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Errorf("ParseMode(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeLax.String() != "lax" || ModeStrict.String() != "strict" || ModeNormal.String() != "normal" {
		t.Errorf("unexpected Mode.String() values")
	}
}

func TestErrorFormatsLineAndFile(t *testing.T) {
	e := New(12, TypeError, "mismatched types %s and %s", "int", "string")
	if got := e.Error(); !strings.Contains(got, "line 12") {
		t.Fatalf("want the line number in the message, got %q", got)
	}
	e.File = "foo.sin"
	got := e.Error()
	if !strings.Contains(got, "foo.sin:12") {
		t.Fatalf("want file:line in the message with a file set, got %q", got)
	}
}

func TestWarnAndNoteAreNotHardErrors(t *testing.T) {
	w := Warn(1, Declaration, "maybe unused")
	if w.Kind != KindWarning {
		t.Errorf("want Warn to produce KindWarning")
	}
	n := Note(1, "fyi")
	if n.Kind != KindNote {
		t.Errorf("want Note to produce KindNote")
	}
}
