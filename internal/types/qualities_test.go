package types

import "testing"

func TestQualitiesManagedDefaultsTrue(t *testing.T) {
	q := NewQualities()
	if !q.Has(Managed) {
		t.Errorf("want Managed set by default")
	}
}

func TestQualitiesAddConflicts(t *testing.T) {
	cases := []struct {
		name    string
		initial Quality
		add     Quality
		wantErr bool
	}{
		{"const then final conflicts", Const, Final, true},
		{"final then const conflicts", Final, Const, true},
		{"long then short conflicts", Long, Short, true},
		{"signed then unsigned conflicts", Signed, Unsigned, true},
		{"const then static is fine", Const, Static, false},
		{"two distinct calling conventions conflict", Sincall, C64, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q := NewQualities(c.initial)
			err := q.Add(c.add)
			if c.wantErr && err == nil {
				t.Fatalf("want a conflict error, got nil")
			}
			if !c.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestClearManaged(t *testing.T) {
	q := NewQualities()
	q.ClearManaged()
	if q.Has(Managed) {
		t.Errorf("want Managed cleared")
	}
}

func TestMergeCarriesManagedFromLeftOnly(t *testing.T) {
	left := NewQualities()
	left.ClearManaged()
	right := NewQualities(Const)

	merged, err := Merge(left, right)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged.Has(Managed) {
		t.Errorf("want Managed carried from the left operand (cleared), not forced on by the right")
	}
	if !merged.Has(Const) {
		t.Errorf("want Const merged in from the right operand")
	}
}

func TestMergeFailsOnConflict(t *testing.T) {
	left := NewQualities(Long)
	right := NewQualities(Short)
	if _, err := Merge(left, right); err == nil {
		t.Errorf("want a conflict error merging long with short")
	}
}
