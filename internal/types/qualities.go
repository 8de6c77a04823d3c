// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types is the single source of truth for what values occupy
// what storage and how two SIN types relate to one another: widths,
// qualities, compatibility and promotion rules, and casts.
package types

import "fmt"

// Quality is one bit of a symbol's quality set (const, final, signed, ...).
type Quality uint16

const (
	Const Quality = 1 << iota
	Final
	Static
	Dynamic
	Signed
	Unsigned
	Long
	Short
	Extern
	Managed // default true; cleared explicitly for raw/unmanaged pointers
	Sincall
	C64
	Windows
)

var qualityNames = map[Quality]string{
	Const:   "const",
	Final:   "final",
	Static:  "static",
	Dynamic: "dynamic",
	Signed:  "signed",
	Unsigned: "unsigned",
	Long:    "long",
	Short:   "short",
	Extern:  "extern",
	Managed: "managed",
	Sincall: "sincall",
	C64:     "c64",
	Windows: "windows",
}

func (q Quality) String() string {
	if n, ok := qualityNames[q]; ok {
		return n
	}
	return "quality(?)"
}

// callConv is the set of calling-convention marker qualities; exactly one
// may be set on a FunctionSymbol's qualities.
var callConv = Sincall | C64 | Windows

// Qualities is a set of Quality bits, with Managed defaulting to true.
type Qualities struct {
	bits Quality
}

// NewQualities returns an empty quality set with Managed already set.
func NewQualities(bits ...Quality) Qualities {
	q := Qualities{bits: Managed}
	for _, b := range bits {
		q.bits |= b
	}
	return q
}

func (q Qualities) Has(b Quality) bool { return q.bits&b != 0 }

// Add merges a quality into the set, returning a quality-conflict error
// naming the offending quality if the merge is illegal.
func (q *Qualities) Add(b Quality) error {
	switch {
	case b == Const && q.Has(Final):
		return fmt.Errorf("quality conflict: %s", b)
	case b == Final && q.Has(Const):
		return fmt.Errorf("quality conflict: %s", b)
	case b == Long && q.Has(Short):
		return fmt.Errorf("quality conflict: %s", b)
	case b == Short && q.Has(Long):
		return fmt.Errorf("quality conflict: %s", b)
	case b == Signed && q.Has(Unsigned):
		return fmt.Errorf("quality conflict: %s", b)
	case b == Unsigned && q.Has(Signed):
		return fmt.Errorf("quality conflict: %s", b)
	case b&callConv != 0 && q.bits&callConv != 0 && q.bits&callConv != b:
		return fmt.Errorf("quality conflict: calling convention already set")
	}
	q.bits |= b
	if b == Managed {
		// explicit managed re-assertion is a no-op
	}
	return nil
}

// ClearManaged clears Managed; used for raw/unmanaged pointer declarations where
// the parser sees an explicit "unmanaged" marker (not modeled as a bit
// because "unmanaged" never coexists with any other conflicting quality).
func (q *Qualities) ClearManaged() { q.bits &^= Managed }

// Merge combines two quality sets as required when promoting/propagating
// qualities across an operation (e.g. binary arithmetic); it fails with
// the same conflict rules as Add.
func Merge(a, b Qualities) (Qualities, error) {
	out := a
	bits := b.bits &^ Managed // Managed is carried from 'a' only
	for shift := Quality(1); shift != 0 && shift < (1 << 13); shift <<= 1 {
		if bits&shift != 0 {
			if err := out.Add(shift); err != nil {
				return Qualities{}, err
			}
		}
	}
	return out, nil
}
