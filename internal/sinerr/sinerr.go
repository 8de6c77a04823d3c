// Copyright 2026 The SIN Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sinerr defines the compiler's error/warning/note taxonomy.
// Codes are banded by category: 0-99 illegal operation, 100-199
// lookup/definition, 200-299 type, 300-399 internal. Parse-time codes
// (400+) are reserved for a future front end and are not used here.
package sinerr

import "fmt"

// Code is a numeric error code.
type Code int

const (
	ConstAssignment Code = iota + 1
	FinalAssignment
	DataWidth
)

const (
	DuplicateSymbol    Code = 30
	DuplicateDefinition Code = 31
	IllegalOperation   Code = 50
	IllegalReturn      Code = 51
	IllegalThis        Code = 52
	IllegalMoveTarget  Code = 53
	UnsafeInlineAsm    Code = 54
	InvalidUnaryOperator Code = 55
	UnaryTypeNotSupported Code = 56
	NonModifiableLvalue Code = 60
	IllegalIndirection  Code = 61
	IllegalAddressOf    Code = 62
)

const (
	SymbolNotFound Code = 100
	Undefined      Code = 101
	OutOfScope     Code = 150
	Declaration    Code = 160
	Invisible      Code = 170
	ReferencedBeforeInit Code = 180
)

const (
	InvalidSymbolType  Code = 200
	UnexpectedFunctionSymbol Code = 203
	TypeError          Code = 210
	VoidTypeError      Code = 211
	OperatorTypeError  Code = 212
	InvalidCast        Code = 213
	TypeNotSubscriptable Code = 214
	ReturnMismatch     Code = 215
	MainSignature      Code = 220
	QualityConflict    Code = 230
	WidthMismatch       Code = 240
	SignMismatch        Code = 241
	NonConstArrayLength Code = 250
	ConstructionNumber  Code = 260
)

const (
	InvalidExpressionType Code = 300
)

// Kind distinguishes hard errors from diagnostics that never abort
// compilation.
type Kind uint8

const (
	KindError Kind = iota
	KindWarning
	KindNote
)

// Error is the concrete error type every compiler stage returns. It
// implements the error interface so it composes with ordinary Go error
// handling, while retaining the (code, line) pair diagnostics need for
// propagation.
type Error struct {
	Code Code
	Kind Kind
	Line int
	File string
	Msg  string
}

func (e *Error) Error() string {
	loc := fmt.Sprintf("line %d", e.Line)
	if e.File != "" {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	kind := "error"
	if e.Kind == KindWarning {
		kind = "warning"
	} else if e.Kind == KindNote {
		kind = "note"
	}
	return fmt.Sprintf("%s: %s %d: %s", loc, kind, e.Code, e.Msg)
}

// New builds a hard error.
func New(line int, code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Kind: KindError, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Warn builds a warning (never returned as an aborting error; route
// through internal/diag.Sink instead).
func Warn(line int, code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Kind: KindWarning, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Note builds an informational note.
func Note(line int, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNote, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Wrap reports an internal-invariant violation while retaining line
// information, for use in a driver-level recover() around an
// unexpected panic.
func Wrap(line int, code Code, err error) error {
	return &Error{Code: code, Kind: KindError, Line: line, Msg: err.Error()}
}

// Mode is the compilation strictness mode selected by the CLI's -m flag.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeLax
	ModeStrict
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "normal":
		return ModeNormal, nil
	case "lax":
		return ModeLax, nil
	case "strict":
		return ModeStrict, nil
	default:
		return ModeNormal, fmt.Errorf("unknown mode %q (want lax, normal, or strict)", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeLax:
		return "lax"
	case ModeStrict:
		return "strict"
	default:
		return "normal"
	}
}
