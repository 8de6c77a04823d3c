package types

import "fmt"

// CastOp names the instruction-class a cast lowers to; internal/compiler
// maps each to concrete NASM. Keeping the classification here (pure
// data, no asm) and the emission in the compiler mirrors how a type
// checker and a code generator are kept separate stages.
type CastOp uint8

const (
	CastInvalid CastOp = iota
	CastIntToBool
	CastIntToInt    // width-adjust, sign-extend if both signed & widening
	CastIntToFloat  // cvtsi2ss/sd
	CastIntToChar   // low byte only
	CastFloatToBool
	CastFloatToInt  // cvttss2si / cvttsd2si
	CastFloatToFloat
	CastBoolToInt  // zero-extend al->rax
	CastBoolToFloat // via INT
	CastCharToChar // only valid if matching widths
	CastNone       // e.g. widthless same-type recast of a literal
)

// Cast classifies the conversion from old to new. narrowing reports
// whether this is a narrowing/precision-losing conversion that is a
// warning in normal mode and a hard error in strict mode; the caller
// (internal/compiler, which knows the compile mode) decides promotion.
func Cast(old, new DataType) (op CastOp, narrowing bool, err error) {
	switch old.Primary {
	case INT:
		switch new.Primary {
		case BOOL:
			return CastIntToBool, false, nil
		case INT:
			widening := new.Width() > old.Width()
			_ = widening
			return CastIntToInt, false, nil
		case FLOAT:
			return CastIntToFloat, new.Width() < old.Width(), nil
		case CHAR:
			return CastIntToChar, new.Width() < old.Width(), nil
		}
	case FLOAT:
		switch new.Primary {
		case BOOL:
			return CastFloatToBool, false, nil
		case INT:
			return CastFloatToInt, true, nil
		case FLOAT:
			return CastFloatToFloat, new.Width() < old.Width(), nil
		}
	case BOOL:
		switch new.Primary {
		case INT:
			return CastBoolToInt, false, nil
		case FLOAT:
			return CastBoolToFloat, false, nil
		}
	case CHAR:
		switch new.Primary {
		case CHAR:
			if new.Width() != old.Width() {
				return CastInvalid, false, fmt.Errorf("invalid cast: char width mismatch")
			}
			return CastCharToChar, false, nil
		}
	}
	if old.Primary == new.Primary && (old.Primary == FLOAT) {
		return CastNone, false, nil
	}
	switch new.Primary {
	case STRING, ARRAY, PTR:
		return CastInvalid, false, fmt.Errorf("invalid cast: cannot cast to %s", new.Primary)
	}
	switch old.Primary {
	case STRING, ARRAY, PTR:
		return CastInvalid, false, fmt.Errorf("invalid cast: cannot cast from %s", old.Primary)
	}
	return CastInvalid, false, fmt.Errorf("invalid cast: %s -> %s", old.Primary, new.Primary)
}

// SameWidthRecast reports whether old->new is a same-primary,
// different-width FLOAT recast of a literal. Converting a FLOAT
// literal via cast to a different-width FLOAT does not emit a
// convert instruction; it re-emits the literal at the new width.
func SameWidthRecast(old, new DataType) bool {
	return old.Primary == FLOAT && new.Primary == FLOAT && old.Width() != new.Width()
}
