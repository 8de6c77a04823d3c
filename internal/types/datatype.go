package types

import "fmt"

// ConstIntExpr is the minimal contract a deferred array-length expression
// must satisfy so that this package does not need to import internal/ast
// (which itself needs DataType). A real parser tree node implements this
// by delegating to its compile-time constant evaluator.
type ConstIntExpr interface {
	// ConstInt reports the expression's value if it is reducible to a
	// compile-time integer constant.
	ConstInt() (int64, bool)
	Line() int
}

// DataType is the compiler's representation of a SIN type: primary,
// optional subtype, contained types (tuples), qualities, array length,
// struct name, and a computed width.
type DataType struct {
	Primary   Primary
	Subtype   *DataType // PTR, REFERENCE, ARRAY
	Contained []DataType // TUPLE
	Qualities Qualities

	// ArrayLength is the statically-known length; ArrayLengthExpr holds a
	// deferred constant expression when the length isn't known until the
	// const-evaluator runs (e.g. "array<int, SOME_CONST>").
	ArrayLength     int64
	ArrayLengthExpr ConstIntExpr
	HasArrayLength  bool

	StructName string

	width      int
	widthKnown bool
}

// New constructs a DataType with its width pre-computed. Struct/array
// types whose width cannot yet be resolved (forward-declared struct,
// deferred array length) return a DataType with widthKnown=false; Width
// then reports 0 until ResolveWidth is called once the dependency is
// known.
func New(primary Primary, qualities Qualities) DataType {
	t := DataType{Primary: primary, Qualities: qualities}
	t.setWidth(nil)
	return t
}

// NewPtr builds a PTR/REFERENCE/ARRAY-shaped type around a subtype.
func NewPtr(primary Primary, subtype DataType, qualities Qualities) DataType {
	t := DataType{Primary: primary, Subtype: &subtype, Qualities: qualities}
	t.setWidth(nil)
	return t
}

// NewArray builds an ARRAY type with a literal length.
func NewArray(subtype DataType, length int64, qualities Qualities) DataType {
	t := DataType{Primary: ARRAY, Subtype: &subtype, ArrayLength: length, HasArrayLength: true, Qualities: qualities}
	t.setWidth(nil)
	return t
}

// NewTuple builds a TUPLE type from its contained types.
func NewTuple(contained []DataType, qualities Qualities) DataType {
	t := DataType{Primary: TUPLE, Contained: contained, Qualities: qualities}
	t.setWidth(nil)
	return t
}

// NewStruct builds a STRUCT type by name; its width is resolved later via
// ResolveWidth once the struct table has computed the layout.
func NewStruct(name string, qualities Qualities) DataType {
	t := DataType{Primary: STRUCT, StructName: name, Qualities: qualities}
	t.widthKnown = false
	return t
}

// setWidth computes the storage width of t: 0 for VOID and for
// unresolved struct/array widths; a dynamic qualifier always forces 8;
// INT follows long/short; everything else is a fixed table lookup.
func (t *DataType) setWidth(structWidth func(name string) (int, bool)) {
	if t.Qualities.Has(Dynamic) {
		t.width, t.widthKnown = WidthPtr, true
		return
	}
	switch t.Primary {
	case VOID:
		t.width, t.widthKnown = 0, true
	case BOOL:
		t.width, t.widthKnown = WidthBool, true
	case CHAR:
		t.width, t.widthKnown = WidthChar, true
	case INT:
		switch {
		case t.Qualities.Has(Long):
			t.width = WidthLong
		case t.Qualities.Has(Short):
			t.width = WidthShort
		default:
			t.width = WidthInt
		}
		t.widthKnown = true
	case FLOAT:
		if t.Qualities.Has(Long) {
			t.width = WidthDouble
		} else if t.Qualities.Has(Short) {
			t.width = WidthHalf
		} else {
			t.width = WidthFloat
		}
		t.widthKnown = true
	case STRING, PTR, REFERENCE:
		t.width, t.widthKnown = WidthPtr, true
	case ARRAY:
		if t.HasArrayLength && t.Subtype != nil && t.Subtype.widthKnown {
			t.width = 4 + int(t.ArrayLength)*t.Subtype.width
			t.widthKnown = true
		} else {
			t.width, t.widthKnown = 0, false
		}
	case TUPLE:
		total := 0
		known := true
		for _, c := range t.Contained {
			if !c.widthKnown {
				known = false
				break
			}
			total += c.width
		}
		t.width, t.widthKnown = total, known
	case STRUCT:
		if structWidth != nil {
			if w, ok := structWidth(t.StructName); ok {
				t.width, t.widthKnown = w, true
				return
			}
		}
		t.width, t.widthKnown = 0, false
	case RAW:
		t.width, t.widthKnown = WidthPtr, true
	default:
		t.width, t.widthKnown = 0, true
	}
}

// ResolveWidth re-runs width computation once dependent information (a
// struct's layout, or a deferred array-length constant) is available.
func (t *DataType) ResolveWidth(structWidth func(name string) (int, bool)) {
	if t.HasArrayLength == false && t.ArrayLengthExpr != nil {
		if n, ok := t.ArrayLengthExpr.ConstInt(); ok {
			t.ArrayLength = n
			t.HasArrayLength = true
		}
	}
	if t.Subtype != nil {
		t.Subtype.ResolveWidth(structWidth)
	}
	for i := range t.Contained {
		t.Contained[i].ResolveWidth(structWidth)
	}
	t.setWidth(structWidth)
}

// Width returns the type's width in bytes; 0 if unresolved.
func (t DataType) Width() int {
	if !t.widthKnown {
		return 0
	}
	return t.width
}

// WidthKnown reports whether Width() reflects a fully-resolved value.
func (t DataType) WidthKnown() bool { return t.widthKnown }

// IsReferenceType reports whether t is one of the reference types:
// STRING, ARRAY, STRUCT, PTR, REFERENCE, or any dynamic-qualified
// type (represented as a managed pointer regardless of primary).
func (t DataType) IsReferenceType() bool {
	if t.Qualities.Has(Dynamic) {
		return true
	}
	switch t.Primary {
	case STRING, ARRAY, STRUCT, PTR, REFERENCE:
		return true
	default:
		return false
	}
}

// MustFree reports whether a symbol of this type requires an SRE free
// call on scope exit: any managed reference type, or a tuple/array
// containing one.
func (t DataType) MustFree() bool {
	if t.IsReferenceType() {
		return t.Primary != PTR && t.Primary != REFERENCE || t.Qualities.Has(Managed)
	}
	switch t.Primary {
	case TUPLE:
		for _, c := range t.Contained {
			if c.MustFree() {
				return true
			}
		}
	case ARRAY:
		return t.Subtype != nil && t.Subtype.MustFree()
	}
	return false
}

func (t DataType) String() string {
	s := t.Primary.String()
	if t.Primary == STRUCT {
		s = t.StructName
	}
	if t.Subtype != nil {
		s = fmt.Sprintf("%s<%s>", s, t.Subtype.String())
	}
	if t.Primary == TUPLE {
		s = "tuple<"
		for i, c := range t.Contained {
			if i > 0 {
				s += ", "
			}
			s += c.String()
		}
		s += ">"
	}
	return s
}
