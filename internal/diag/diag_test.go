package diag

import (
	"strings"
	"testing"

	"github.com/rlannon/sinc/internal/sinerr"
)

func TestSinkAccumulatesInOrder(t *testing.T) {
	s := NewSink()
	s.Warnf(3, sinerr.Declaration, "x may be unused")
	s.Notef(5, "consider renaming y")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	entries := s.Entries()
	if entries[0].Line != 3 || entries[1].Line != 5 {
		t.Errorf("want entries in emission order, got lines %d, %d", entries[0].Line, entries[1].Line)
	}
}

func TestFlushWritesAndClears(t *testing.T) {
	s := NewSink()
	s.Warnf(1, sinerr.Declaration, "warning one")
	s.Notef(2, "note one")

	var sb strings.Builder
	s.Flush(&sb)
	if !strings.Contains(sb.String(), "warning one") || !strings.Contains(sb.String(), "note one") {
		t.Errorf("want both diagnostics in the flushed output, got %q", sb.String())
	}
	if s.Len() != 0 {
		t.Errorf("want the sink cleared after Flush, got Len() = %d", s.Len())
	}
}
